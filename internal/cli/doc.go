// Package cli implements the command-line interface for ivu-turnos.
//
// The cli package provides the Cobra-based CLI that drives one full scrape:
// log in to the portal, extract every duty day of the visible month, detect
// changes against the stored snapshot, write the per-month ICS calendars,
// and optionally post change notifications. A --schedule flag turns the
// one-shot run into a cron-driven loop.
package cli
