package notifier

import (
	"fmt"

	"ivuturnos/internal/duty"
)

// DryRunNotifier prints what would be posted without actually posting
type DryRunNotifier struct{}

// NewDryRunNotifier creates a new dry-run notifier
func NewDryRunNotifier() *DryRunNotifier {
	return &DryRunNotifier{}
}

// Notify prints the messages that would be posted
func (n *DryRunNotifier) Notify(changes []*duty.Change) error {
	for i, ch := range changes {
		msg := formatMessage(ch)
		fmt.Printf("--- Aviso %d/%d ---\n", i+1, len(changes))
		fmt.Println(msg)
		fmt.Printf("\n(Length: %d characters)\n\n", len(msg))
	}
	return nil
}
