package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func capture(level Level) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	l := NewLogger(level)
	l.SetOutput(buf)
	return l, buf
}

func TestInfo_Emitted(t *testing.T) {
	l, buf := capture(LevelInfo)
	l.Info("rebuilding environment", map[string]any{"fingerprint": "abc123def456"})

	var e entry
	if err := json.Unmarshal(buf.Bytes(), &e); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if e.Level != LevelInfo {
		t.Errorf("expected info level, got %s", e.Level)
	}
	if e.Message != "rebuilding environment" {
		t.Errorf("unexpected message: %s", e.Message)
	}
	if e.Fields["fingerprint"] != "abc123def456" {
		t.Errorf("missing fingerprint field: %v", e.Fields)
	}
}

func TestDebug_SuppressedAtInfo(t *testing.T) {
	l, buf := capture(LevelInfo)
	l.Debug("noise")
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %s", buf.String())
	}
}

func TestError_AlwaysEmitted(t *testing.T) {
	l, buf := capture(LevelError)
	l.Warn("suppressed")
	l.Error("kept")
	if strings.Contains(buf.String(), "suppressed") {
		t.Error("warn should be suppressed at error level")
	}
	if !strings.Contains(buf.String(), "kept") {
		t.Error("error should be emitted at error level")
	}
}

func TestWithFields_Inherited(t *testing.T) {
	l, buf := capture(LevelInfo)
	child := l.WithFields(map[string]any{"step": "create-bootstrap-environment"})
	child.Info("built")

	if !strings.Contains(buf.String(), "create-bootstrap-environment") {
		t.Errorf("expected inherited field in output: %s", buf.String())
	}
}

func TestErrorErr_IncludesError(t *testing.T) {
	l, buf := capture(LevelError)
	l.ErrorErr("install failed", errors.New("exit status 1"))

	if !strings.Contains(buf.String(), "exit status 1") {
		t.Errorf("expected error string in output: %s", buf.String())
	}
}

func TestTextFormat(t *testing.T) {
	l, buf := capture(LevelInfo)
	l.SetFormat(FormatText)
	l.Info("marker published", map[string]any{"path": "/tmp/x"})

	out := buf.String()
	if strings.HasPrefix(out, "{") {
		t.Errorf("expected text output, got JSON: %s", out)
	}
	if !strings.Contains(out, "INFO") || !strings.Contains(out, "path=/tmp/x") {
		t.Errorf("unexpected text output: %s", out)
	}
}
