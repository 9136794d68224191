// Package storage persists per-month scrape snapshots as JSON files under
// the data directory. Snapshots are what change detection compares against
// on the next run.
package storage
