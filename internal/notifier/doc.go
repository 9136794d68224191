// Package notifier posts duty-change notifications.
//
// The Twitter notifier handles OAuth authentication, rate limiting between
// posts, and formatting changes as short Spanish messages. A dry-run
// implementation prints the messages instead, for local testing.
package notifier
