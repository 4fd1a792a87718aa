package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewCreatesLogFileAndWritesAboveMinLevel(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(dir, LevelWarn)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer logger.Close()

	logger.Debugf("this should be filtered out")
	logger.Warnf("disk usage at %d%%", 90)
	logger.Errorf("failed to flush: %v", os.ErrClosed)

	path := filepath.Join(dir, defaultLogFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "this should be filtered out") {
		t.Fatalf("expected debug line to be filtered, got: %s", out)
	}
	if !strings.Contains(out, "disk usage at 90%") {
		t.Fatalf("expected warn line present, got: %s", out)
	}
	if !strings.Contains(out, "failed to flush") {
		t.Fatalf("expected error line present, got: %s", out)
	}
}

func TestNewDiscardSwallowsEverything(t *testing.T) {
	logger := NewDiscard()
	logger.Errorf("should not panic or block: %s", "ok")
}
