// Package lock guards bootstrap environment construction against
// concurrent builders. The cache directory is shared across projects and
// processes; without the lock, two orchestrators racing on the same
// fingerprint would double-install into the same directory.
package lock

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pyboot-project/pyboot/pkg/errclass"
	"github.com/pyboot-project/pyboot/pkg/fsutil"
	"github.com/pyboot-project/pyboot/pkg/model"
	"github.com/pyboot-project/pyboot/pkg/pathutil"
	"github.com/pyboot-project/pyboot/pkg/uuidutil"
)

// Manager handles fingerprint-keyed build locks under a cache directory.
type Manager struct {
	cacheDir string
	policy   model.LockPolicy
	mu       sync.Mutex
}

// NewManager creates a lock manager rooted at the bootstrap cache directory.
func NewManager(cacheDir string, policy model.LockPolicy) *Manager {
	return &Manager{cacheDir: cacheDir, policy: policy}
}

// Acquire attempts to take the exclusive build lock for a fingerprint.
// A held, unexpired lock yields ErrLockConflict; an expired one yields
// ErrLockExpired and must be taken over with Steal.
func (m *Manager) Acquire(fingerprint, purpose string) (*model.LockRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acquireLocked(fingerprint, purpose)
}

// acquireLocked is Acquire's body; m.mu must be held.
func (m *Manager) acquireLocked(fingerprint, purpose string) (*model.LockRecord, error) {
	if err := pathutil.ValidateName(fingerprint); err != nil {
		return nil, err
	}

	lockPath := m.lockPath(fingerprint)
	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}

	// O_CREATE|O_EXCL makes acquisition atomic across processes.
	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			rec, readErr := m.readLock(lockPath)
			if readErr != nil {
				return nil, fmt.Errorf("read existing lock: %w", readErr)
			}
			if rec.IsExpired(time.Now()) {
				return nil, errclass.ErrLockExpired.WithMessage("lock exists but expired, use steal")
			}
			return nil, errclass.ErrLockConflict.WithMessagef("environment %s is being built by another process", fingerprint)
		}
		return nil, fmt.Errorf("create lock: %w", err)
	}
	defer file.Close()

	now := time.Now().UTC()
	rec := &model.LockRecord{
		Fingerprint: fingerprint,
		HolderNonce: uuidutil.NewV4(),
		AcquiredAt:  now,
		ExpiresAt:   now.Add(m.policy.DefaultLeaseTTL),
		Purpose:     purpose,
	}

	if err := m.writeLock(file, rec); err != nil {
		os.Remove(lockPath)
		return nil, err
	}

	return rec, nil
}

// AcquireOrSteal acquires the lock, taking over an expired lease when the
// previous holder died mid-build.
func (m *Manager) AcquireOrSteal(fingerprint, purpose string) (*model.LockRecord, error) {
	rec, err := m.Acquire(fingerprint, purpose)
	if err == nil {
		return rec, nil
	}
	if errors.Is(err, errclass.ErrLockExpired) {
		return m.Steal(fingerprint, purpose)
	}
	return nil, err
}

// Steal takes the lock over after the previous holder's lease expired.
// The expiry check and the overwrite are not one atomic step: two
// processes stealing the same expired lock can both succeed, and the
// later write wins. The in-process mutex only serializes stealers within
// one process.
func (m *Manager) Steal(fingerprint, purpose string) (*model.LockRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lockPath := m.lockPath(fingerprint)
	rec, err := m.readLock(lockPath)
	if err != nil {
		if os.IsNotExist(err) {
			return m.acquireLocked(fingerprint, purpose)
		}
		return nil, fmt.Errorf("read lock: %w", err)
	}

	if !rec.IsExpired(time.Now()) {
		return nil, errclass.ErrLockConflict.WithMessage("lock not expired yet")
	}

	now := time.Now().UTC()
	newRec := &model.LockRecord{
		Fingerprint: fingerprint,
		HolderNonce: uuidutil.NewV4(),
		AcquiredAt:  now,
		ExpiresAt:   now.Add(m.policy.DefaultLeaseTTL),
		Purpose:     purpose,
	}

	data, err := json.MarshalIndent(newRec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal lock: %w", err)
	}
	if err := fsutil.AtomicWrite(lockPath, data, 0644); err != nil {
		return nil, fmt.Errorf("steal lock: %w", err)
	}

	return newRec, nil
}

// Release frees the lock. Releasing an already-released lock is a no-op;
// releasing with the wrong nonce is an error.
func (m *Manager) Release(fingerprint, holderNonce string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lockPath := m.lockPath(fingerprint)
	rec, err := m.readLock(lockPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read lock: %w", err)
	}

	if rec.HolderNonce != holderNonce {
		return errclass.ErrLockNotHeld.WithMessage("cannot release: nonce mismatch")
	}

	if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove lock: %w", err)
	}
	return nil
}

// Status returns the current lock state for a fingerprint.
func (m *Manager) Status(fingerprint string) (model.LockState, *model.LockRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.readLock(m.lockPath(fingerprint))
	if err != nil {
		if os.IsNotExist(err) {
			return model.LockStateFree, nil, nil
		}
		return model.LockStateFree, nil, fmt.Errorf("read lock: %w", err)
	}

	if rec.IsExpired(time.Now()) {
		return model.LockStateExpired, rec, nil
	}
	return model.LockStateHeld, rec, nil
}

func (m *Manager) lockPath(fingerprint string) string {
	return filepath.Join(m.cacheDir, "locks", fingerprint+".lock")
}

func (m *Manager) readLock(path string) (*model.LockRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec model.LockRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse lock: %w", err)
	}
	return &rec, nil
}

func (m *Manager) writeLock(file *os.File, rec *model.LockRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal lock: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("write lock: %w", err)
	}
	return file.Sync()
}
