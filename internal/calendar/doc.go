// Package calendar serializes month groups of duty events into iCalendar
// files, one per year-month, suitable for subscription from any calendar
// client.
package calendar
