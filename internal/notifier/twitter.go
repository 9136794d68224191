package notifier

import (
	"fmt"
	"os"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"

	"ivuturnos/internal/duty"
)

// TwitterNotifier posts duty changes to Twitter
type TwitterNotifier struct {
	client *twitter.Client
}

// NewTwitterNotifier creates a new Twitter notifier using environment variables
// Required environment variables:
// - TWITTER_API_KEY
// - TWITTER_API_SECRET
// - TWITTER_ACCESS_TOKEN
// - TWITTER_ACCESS_SECRET
func NewTwitterNotifier() (*TwitterNotifier, error) {
	apiKey := os.Getenv("TWITTER_API_KEY")
	apiSecret := os.Getenv("TWITTER_API_SECRET")
	accessToken := os.Getenv("TWITTER_ACCESS_TOKEN")
	accessSecret := os.Getenv("TWITTER_ACCESS_SECRET")

	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials in environment variables")
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	httpClient := config.Client(oauth1.NoContext, token)
	client := twitter.NewClient(httpClient)

	return &TwitterNotifier{client: client}, nil
}

// Notify posts one message per change
func (n *TwitterNotifier) Notify(changes []*duty.Change) error {
	for i, ch := range changes {
		msg := formatMessage(ch)

		_, _, err := n.client.Statuses.Update(msg, nil)
		if err != nil {
			return fmt.Errorf("failed to post change for %s: %w", ch.Date, err)
		}

		// Rate limiting: wait between posts
		if i < len(changes)-1 {
			time.Sleep(2 * time.Second)
		}
	}

	return nil
}

// formatMessage formats a duty change as a short Spanish message
func formatMessage(ch *duty.Change) string {
	var msg string
	switch ch.Kind {
	case duty.ChangeNew:
		msg = fmt.Sprintf("📅 Nuevo turno el %s: %s", ch.Date, ch.NewValue)
	case duty.ChangeStatus:
		msg = fmt.Sprintf("🔁 Cambio de estado el %s: %s → %s", ch.Date, ch.OldValue, ch.NewValue)
	case duty.ChangeTimes:
		msg = fmt.Sprintf("🕐 Cambio de horario el %s: %s → %s", ch.Date, ch.OldValue, ch.NewValue)
	case duty.ChangeType:
		msg = fmt.Sprintf("🔄 Cambio de turno el %s: %s → %s", ch.Date, ch.OldValue, ch.NewValue)
	case duty.ChangeLocation:
		msg = fmt.Sprintf("📍 Cambio de ubicación el %s: %s → %s", ch.Date, ch.OldValue, ch.NewValue)
	case duty.ChangeTrain:
		msg = fmt.Sprintf("🚄 Cambio de tren el %s: %s → %s", ch.Date, ch.OldValue, ch.NewValue)
	default:
		msg = fmt.Sprintf("ℹ️ Cambio el %s: %s", ch.Date, ch.NewValue)
	}

	// Twitter limit is 280 characters
	if len(msg) > 280 {
		msg = msg[:277] + "..."
	}

	return msg
}
