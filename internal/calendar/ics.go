package calendar

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"

	"ivuturnos/internal/duty"
)

// ProductID identifies this tool in generated VCALENDAR headers.
const ProductID = "-//Turnos IVU//"

// Build serializes one month's events into <dir>/turnos_<yearMonth>.ics
// and returns the written path. Each event carries SUMMARY, DTSTART,
// DTEND, DESCRIPTION and a DTSTAMP set to the build instant. The file is
// rewritten whole on every run, so a full re-scrape regenerates the same
// months without accumulating duplicates.
func Build(dir, yearMonth string, events []*duty.Event, now time.Time) (string, error) {
	cal := ics.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetVersion("2.0")

	for i, ev := range events {
		// UIDs derive from the event start, not a random value, so
		// regeneration overwrites rather than duplicates.
		uid := fmt.Sprintf("turno-%s-%d@ivu-turnos", ev.Start.Format("20060102T1504"), i)
		ve := cal.AddEvent(uid)
		ve.SetSummary(ev.Summary)
		ve.SetStartAt(ev.Start)
		ve.SetEndAt(ev.End)
		ve.SetDescription(ev.Description)
		ve.SetDtStampTime(now)
	}

	path := filepath.Join(dir, fmt.Sprintf("turnos_%s.ics", yearMonth))
	if err := os.WriteFile(path, []byte(cal.Serialize()), 0o644); err != nil {
		return "", fmt.Errorf("writing calendar %s: %w", path, err)
	}
	return path, nil
}

// BuildAll writes one calendar file per month group into dir, creating it
// if needed, and returns the written paths in month order.
func BuildAll(dir string, byMonth map[string][]*duty.Event, now time.Time) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating calendars directory: %w", err)
	}

	months := make([]string, 0, len(byMonth))
	for ym := range byMonth {
		months = append(months, ym)
	}
	sort.Strings(months)

	paths := make([]string, 0, len(months))
	for _, ym := range months {
		path, err := Build(dir, ym, byMonth[ym], now)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
