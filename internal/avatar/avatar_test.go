package avatar

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClearDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("img"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	count, err := ClearDir(dir)
	if err != nil {
		t.Fatalf("ClearDir: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("%d entries remain", len(entries))
	}
}

func TestClearDirMissingIsNoop(t *testing.T) {
	count, err := ClearDir(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("ClearDir on missing dir: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}
