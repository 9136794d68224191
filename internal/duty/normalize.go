package duty

import (
	"fmt"
	"time"
)

// DefaultShiftLength is the assumed duty length when the end time cannot
// be resolved.
const DefaultShiftLength = 8 * time.Hour

// GenericDutyType labels records whose fragment carried no type at all.
const GenericDutyType = "Turno"

// EventsFromRecords converts raw field records into calendar events
// grouped by year-month. Records whose start instant cannot be resolved
// are dropped silently: that day simply contributes no event. An
// unresolvable end time defaults to start plus DefaultShiftLength.
// Events keep the order their records arrived in; month groups are not
// re-sorted.
func EventsFromRecords(records []*Record, loc *time.Location) map[string][]*Event {
	byMonth := make(map[string][]*Event)

	for _, r := range records {
		if r == nil {
			continue
		}
		start := Resolve(r.Date, r.StartTime, loc)
		if start.IsZero() {
			continue
		}
		end := Resolve(r.Date, r.EndTime, loc)
		if end.IsZero() {
			end = start.Add(DefaultShiftLength)
		}

		tipo := r.DutyType
		if tipo == "" {
			tipo = GenericDutyType
		}
		summary := tipo
		if r.TrainNumber != "" {
			summary = fmt.Sprintf("%s - Tren %s", tipo, r.TrainNumber)
		}

		// Empty fields render as empty values, not omitted lines.
		description := fmt.Sprintf("Tipo: %s\nUbicación: %s\nTren: %s",
			r.DutyType, r.Location, r.TrainNumber)

		ev := &Event{
			Summary:     summary,
			Start:       start,
			End:         end,
			Description: description,
		}
		byMonth[ev.MonthKey()] = append(byMonth[ev.MonthKey()], ev)
	}

	return byMonth
}
