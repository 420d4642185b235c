package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitAndLog(t *testing.T) {
	Reset()
	defer Reset()

	path := filepath.Join(t.TempDir(), "test.log")
	if err := Init(path); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	Info("hello %s", "world")
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello world") {
		t.Errorf("Log file missing message, got: %s", data)
	}
}

func TestDebugSuppressedAtInfoLevel(t *testing.T) {
	Reset()
	defer Reset()

	path := filepath.Join(t.TempDir(), "test.log")
	if err := Init(path); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	SetDebug(false)
	Debug("should not appear")
	SetDebug(true)
	Debug("should appear")
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if strings.Contains(string(data), "should not appear") {
		t.Error("Debug message logged despite info level")
	}
	if !strings.Contains(string(data), "should appear") {
		t.Error("Debug message missing after enabling debug")
	}
}

func TestInitTwiceKeepsFirstPath(t *testing.T) {
	Reset()
	defer Reset()

	dir := t.TempDir()
	first := filepath.Join(dir, "first.log")
	second := filepath.Join(dir, "second.log")

	if err := Init(first); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := Init(second); err != nil {
		t.Fatalf("Second Init failed: %v", err)
	}

	Info("message")
	Close()

	if _, err := os.Stat(second); !os.IsNotExist(err) {
		t.Error("Second Init should not have created a new log file")
	}
}
