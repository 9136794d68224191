package notifier

import (
	"ivuturnos/internal/duty"
)

// Notifier defines the interface for posting duty-change notifications
type Notifier interface {
	// Notify posts notifications for the given changes
	Notify(changes []*duty.Change) error
}
