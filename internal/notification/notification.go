// Package notification provides cross-platform desktop notifications.
// It uses the beeep library to send notifications on macOS, Linux, and Windows.
package notification

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"gitscope/internal/logger"
)

// Send sends a desktop notification with the given title and message.
func Send(title, message string) error {
	logger.Debug("Notification: Sending notification - title=%q, message=%q", title, message)
	// Empty icon - beeep handles platform defaults
	err := beeep.Notify(title, message, "")
	if err != nil {
		logger.Warn("Notification: Failed to send notification: %v", err)
	}
	return err
}

// ReviewsEnded notifies that a bulk end-reviews operation completed.
func ReviewsEnded(count int) error {
	return Send("gitscope", fmt.Sprintf("Ended %d code review(s)", count))
}
