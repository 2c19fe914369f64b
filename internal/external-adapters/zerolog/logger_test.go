package zerolog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ochairo/decant/internal/domain/interfaces"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := New("warn", &buf)

	logger.Info("quiet", interfaces.F("key", "value"))
	if buf.Len() != 0 {
		t.Errorf("Info logged at warn level: %s", buf.String())
	}

	logger.Warn("loud", interfaces.F("repository", "Test"))
	out := buf.String()
	if !strings.Contains(out, "loud") || !strings.Contains(out, "Test") {
		t.Errorf("Warn output = %q", out)
	}
}

func TestLoggerBadLevelFallsBack(t *testing.T) {
	var buf bytes.Buffer
	logger := New("nonsense", &buf)

	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Error("Debug logged at the info fallback level")
	}
	logger.Info("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("Info output = %q", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	New("info", &buf).WithComponent("configure").Info("message")

	if !strings.Contains(buf.String(), "configure") {
		t.Errorf("Component tag missing: %q", buf.String())
	}
}
