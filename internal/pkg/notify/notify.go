// Package notify is the best-effort "alert the device" capability used when a
// pickup request lands. Delivery failures are logged and swallowed; alerting
// is a convenience, the WebSocket snapshot remains the source of truth.
package notify

import (
	"github.com/rs/zerolog"
)

// Notifier delivers an out-of-band alert to a student's device
type Notifier interface {
	PickupRequested(studentID int64, studentName string) error
}

// ConsoleNotifier logs alerts instead of delivering them. Stands in for a
// push-notification provider in development and tests.
type ConsoleNotifier struct {
	logger zerolog.Logger
}

// NewConsoleNotifier creates a ConsoleNotifier
func NewConsoleNotifier(logger zerolog.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{logger: logger}
}

// PickupRequested logs the alert that would be pushed to the device
func (n *ConsoleNotifier) PickupRequested(studentID int64, studentName string) error {
	n.logger.Info().
		Int64("studentID", studentID).
		Str("studentName", studentName).
		Msg("Pickup requested - device alert would be sent")
	return nil
}
