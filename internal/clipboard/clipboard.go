// Package clipboard provides text writing to the system clipboard.
package clipboard

import (
	"fmt"

	"golang.design/x/clipboard"

	"gitscope/internal/logger"
)

var initialized bool

// Init initializes the clipboard. Safe to call multiple times.
func Init() error {
	if initialized {
		return nil
	}

	if err := clipboard.Init(); err != nil {
		logger.Warn("Clipboard: Failed to initialize: %v", err)
		return fmt.Errorf("failed to initialize clipboard: %w", err)
	}

	initialized = true
	return nil
}

// CopyText writes text to the system clipboard.
func CopyText(text string) error {
	if err := Init(); err != nil {
		return err
	}

	clipboard.Write(clipboard.FmtText, []byte(text))
	logger.Debug("Clipboard: Copied %d bytes", len(text))
	return nil
}
