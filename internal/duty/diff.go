package duty

import (
	"fmt"
	"sort"
	"time"
)

// Change kinds reported by DetectChanges.
const (
	ChangeNew      = "new"
	ChangeStatus   = "status"
	ChangeTimes    = "times"
	ChangeType     = "type"
	ChangeLocation = "location"
	ChangeTrain    = "train"
)

// Change represents a difference between two scrapes of the same duty day.
type Change struct {
	Date       string    `json:"date"`
	Kind       string    `json:"kind"`
	OldValue   string    `json:"old_value"`
	NewValue   string    `json:"new_value"`
	DetectedAt time.Time `json:"detected_at"`
}

// DetectChanges compares the previous record for a day against the current
// one. A nil previous record means the whole day is new.
func DetectChanges(date string, previous, current *Record) []*Change {
	now := time.Now().UTC()

	if previous == nil {
		return []*Change{{
			Date:       date,
			Kind:       ChangeNew,
			NewValue:   spanTimes(current),
			DetectedAt: now,
		}}
	}

	var changes []*Change
	if previous.Status != current.Status {
		changes = append(changes, &Change{
			Date:       date,
			Kind:       ChangeStatus,
			OldValue:   previous.Status,
			NewValue:   current.Status,
			DetectedAt: now,
		})
	}
	if previous.StartTime != current.StartTime || previous.EndTime != current.EndTime {
		changes = append(changes, &Change{
			Date:       date,
			Kind:       ChangeTimes,
			OldValue:   spanTimes(previous),
			NewValue:   spanTimes(current),
			DetectedAt: now,
		})
	}
	if previous.DutyType != current.DutyType {
		changes = append(changes, &Change{
			Date:       date,
			Kind:       ChangeType,
			OldValue:   previous.DutyType,
			NewValue:   current.DutyType,
			DetectedAt: now,
		})
	}
	if previous.Location != current.Location {
		changes = append(changes, &Change{
			Date:       date,
			Kind:       ChangeLocation,
			OldValue:   previous.Location,
			NewValue:   current.Location,
			DetectedAt: now,
		})
	}
	if previous.TrainNumber != current.TrainNumber {
		changes = append(changes, &Change{
			Date:       date,
			Kind:       ChangeTrain,
			OldValue:   previous.TrainNumber,
			NewValue:   current.TrainNumber,
			DetectedAt: now,
		})
	}

	return changes
}

// Diff compares the current records, keyed by ISO date, against a previous
// scrape of the same month. Returns all detected changes ordered by date.
func Diff(previous, current map[string]*Record) []*Change {
	var all []*Change
	dates := make([]string, 0, len(current))
	for date := range current {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for _, date := range dates {
		all = append(all, DetectChanges(date, previous[date], current[date])...)
	}
	return all
}

func spanTimes(r *Record) string {
	if r == nil {
		return ""
	}
	// Rest days carry no times; their status is the meaningful span.
	if r.StartTime == "" && r.EndTime == "" && r.Status != "" {
		return r.Status
	}
	return fmt.Sprintf("%s-%s", r.StartTime, r.EndTime)
}
