package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"ivuturnos/internal/duty"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt time.Time      `json:"checked_at"`
	Days      int            `json:"days"`
	Records   int            `json:"records"`
	EmptyDays int            `json:"empty_days"`
	Changes   []*duty.Change `json:"changes"`
	Calendars []string       `json:"calendars"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	fmt.Fprintf(w, "Checked %d days, %d with duties", result.Days, result.Days-result.EmptyDays)
	if result.EmptyDays > 0 {
		fmt.Fprintf(w, " (%d empty)", result.EmptyDays)
	}
	fmt.Fprintln(w)

	if len(result.Changes) == 0 {
		fmt.Fprintln(w, "No changes since last check.")
	} else {
		fmt.Fprintf(w, "\n%d change(s):\n", len(result.Changes))
		for _, ch := range result.Changes {
			switch ch.Kind {
			case duty.ChangeNew:
				fmt.Fprintf(w, "  NEW %s: %s\n", ch.Date, ch.NewValue)
			default:
				fmt.Fprintf(w, "  %s %s: %s -> %s\n", ch.Kind, ch.Date, ch.OldValue, ch.NewValue)
			}
			if verbose {
				fmt.Fprintf(w, "       detected: %s\n", ch.DetectedAt.Format(time.RFC3339))
			}
		}
	}

	if len(result.Calendars) > 0 {
		fmt.Fprintln(w, "\nCalendars written:")
		for _, path := range result.Calendars {
			fmt.Fprintf(w, "  %s\n", path)
		}
	}

	return nil
}
