package model

import "time"

// LockRecord is stored at <cache-dir>/locks/<fingerprint>.lock while a
// process builds the bootstrap environment for that fingerprint.
type LockRecord struct {
	Fingerprint string    `json:"fingerprint"`
	HolderNonce string    `json:"holder_nonce"`
	AcquiredAt  time.Time `json:"acquired_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Purpose     string    `json:"purpose,omitempty"`
}

// IsExpired returns true if the lock lease has expired.
func (l *LockRecord) IsExpired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}

// LockPolicy configures lock timing parameters.
type LockPolicy struct {
	DefaultLeaseTTL time.Duration `json:"default_lease_ttl"`
}

// DefaultLockPolicy returns the lease policy used when no setting overrides it.
// Ten minutes comfortably covers a cold package-manager install.
func DefaultLockPolicy() LockPolicy {
	return LockPolicy{DefaultLeaseTTL: 10 * time.Minute}
}

// LockState describes the observed state of a build lock.
type LockState string

const (
	LockStateFree    LockState = "free"
	LockStateHeld    LockState = "held"
	LockStateExpired LockState = "expired"
)
