// Package avatar manages the on-disk cache of commit author avatars
// downloaded for terminals with image support.
package avatar

import (
	"os"
	"path/filepath"

	"gitscope/internal/config"
	"gitscope/internal/logger"
)

// CacheDir returns the avatar cache directory.
func CacheDir() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "avatars"), nil
}

// Clear removes every cached avatar. Returns the number removed.
func Clear() (int, error) {
	dir, err := CacheDir()
	if err != nil {
		return 0, err
	}
	return ClearDir(dir)
}

// ClearDir empties an avatar cache rooted at dir.
func ClearDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return count, err
		}
		count++
	}

	logger.Info("Avatar: Cleared %d cached avatar(s)", count)
	return count, nil
}
