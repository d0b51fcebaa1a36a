package execlog

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
)

// resetLogger clears the package-level logger state between tests.
func resetLogger() {
	logger = nil
	logEnabled = false
	loggerOnce = sync.Once{}
}

// setupTestLogger installs a logger writing into a buffer.
func setupTestLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	resetLogger()

	var buf bytes.Buffer
	SetLogger(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
	t.Cleanup(resetLogger)
	return &buf
}

func TestInitLogger_CreatesFile(t *testing.T) {
	resetLogger()
	t.Cleanup(resetLogger)

	tmpFile := filepath.Join(t.TempDir(), "test.log")
	if err := InitLogger(tmpFile, log.InfoLevel); err != nil {
		t.Fatalf("InitLogger failed: %v", err)
	}

	if _, err := os.Stat(tmpFile); os.IsNotExist(err) {
		t.Error("log file was not created")
	}
}

func TestInitLogger_EmptyPath_DisablesLogging(t *testing.T) {
	resetLogger()
	t.Cleanup(resetLogger)

	if err := InitLogger("", log.InfoLevel); err != nil {
		t.Fatalf("InitLogger failed: %v", err)
	}
	if logEnabled {
		t.Error("logging should be disabled with empty path")
	}
}

func TestInitLogger_OnlyOnce(t *testing.T) {
	resetLogger()
	t.Cleanup(resetLogger)

	tmpFile1 := filepath.Join(t.TempDir(), "test1.log")
	tmpFile2 := filepath.Join(t.TempDir(), "test2.log")

	InitLogger(tmpFile1, log.InfoLevel)
	InitLogger(tmpFile2, log.InfoLevel) // Should be ignored

	done := Op("jj status")
	done(nil)

	content1, _ := os.ReadFile(tmpFile1)
	content2, _ := os.ReadFile(tmpFile2)

	if len(content1) == 0 {
		t.Error("first log file should have content")
	}
	if len(content2) > 0 {
		t.Error("second log file should be empty")
	}
}

func TestLogger_NilWhileDisabled(t *testing.T) {
	resetLogger()
	t.Cleanup(resetLogger)

	if Logger() != nil {
		t.Error("Logger() should be nil while logging is disabled")
	}

	l := log.NewWithOptions(&bytes.Buffer{}, log.Options{})
	SetLogger(l)
	if Logger() != l {
		t.Error("Logger() should return the installed logger")
	}
}

func TestOp_Success(t *testing.T) {
	buf := setupTestLogger(t)

	done := Op("jj status", "key", "value")
	done(nil)

	output := buf.String()
	if !strings.Contains(output, "jj status") {
		t.Error("log should contain the command")
	}
	if !strings.Contains(output, "duration") {
		t.Error("log should contain duration")
	}
	if !strings.Contains(output, "key") || !strings.Contains(output, "value") {
		t.Error("log should contain key-value pair")
	}
	if strings.Contains(output, "ERRO") {
		t.Error("success should not log at error level")
	}
}

func TestOp_Error(t *testing.T) {
	buf := setupTestLogger(t)

	done := Op("jj status")
	done(errors.New("boom"))

	output := buf.String()
	if !strings.Contains(output, "boom") {
		t.Error("log should contain the error message")
	}
	if !strings.Contains(output, "ERRO") {
		t.Error("failure should log at error level")
	}
}

func TestOp_Disabled(t *testing.T) {
	resetLogger()
	t.Cleanup(resetLogger)

	// Must not panic with logging disabled.
	done := Op("jj status")
	done(nil)
	done = Op("jj diff")
	done(errors.New("ignored"))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"", log.InfoLevel},
		{"bogus", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate should leave short strings alone, got %q", got)
	}
	if got := Truncate("0123456789", 4); got != "0123..." {
		t.Errorf("Truncate(10 chars, 4) = %q", got)
	}
}
