// Package duty holds the duty schedule data model: the raw field records
// recovered from the portal's day-detail fragments, the calendar events
// derived from them, locale-aware date/time resolution, status
// classification, and change detection between scrapes.
package duty
