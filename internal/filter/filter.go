// Package filter narrows which duty records are exported to the calendar.
//
// A filter can restrict by date range, duty type and location, and can
// drop non-service days (rest codes) entirely. An empty filter passes
// every record through unchanged, so the pipeline behaves identically
// when no filter is configured.
package filter

import (
	"fmt"
	"strings"
	"time"

	"ivuturnos/internal/duty"
)

// Filter represents duty export criteria. Zero-valued fields are inactive.
type Filter struct {
	// Date range, inclusive on both ends.
	DateFrom *time.Time `yaml:"-" json:"date_from,omitempty"`
	DateTo   *time.Time `yaml:"-" json:"date_to,omitempty"`

	// Duty type filtering (case-insensitive substring match).
	Types []string `yaml:"types" json:"types,omitempty"`

	// Location filtering (case-insensitive substring match against the
	// record's location text, which may be a "from → to" span).
	Locations []string `yaml:"locations" json:"locations,omitempty"`

	// SkipRestDays drops records classified as a rest status, or whose
	// duty type is a bare rest code.
	SkipRestDays bool `yaml:"skip_rest_days" json:"skip_rest_days,omitempty"`
}

// restCodes are the statuses SkipRestDays removes.
var restCodes = []string{duty.StatusRest, duty.StatusLD, duty.StatusFree}

// New creates an empty filter that matches all records.
func New() *Filter {
	return &Filter{}
}

// IsEmpty reports whether the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return f == nil ||
		(f.DateFrom == nil &&
			f.DateTo == nil &&
			len(f.Types) == 0 &&
			len(f.Locations) == 0 &&
			!f.SkipRestDays)
}

// Matches checks a record against all active criteria. The record's start
// instant is resolved in loc for date-range checks; records whose date
// cannot be resolved are never excluded by the date range (they will be
// dropped later by normalization anyway).
func (f *Filter) Matches(r *duty.Record, loc *time.Location) bool {
	if f.IsEmpty() {
		return true
	}

	if f.SkipRestDays {
		status := r.Status
		if status == "" {
			status = strings.ToUpper(strings.TrimSpace(r.DutyType))
		}
		for _, code := range restCodes {
			if status == code {
				return false
			}
		}
	}

	if f.DateFrom != nil || f.DateTo != nil {
		start := duty.Resolve(r.Date, "00", loc)
		if !start.IsZero() {
			if f.DateFrom != nil && start.Before(*f.DateFrom) {
				return false
			}
			if f.DateTo != nil && start.After(*f.DateTo) {
				return false
			}
		}
	}

	if len(f.Types) > 0 && !containsFold(f.Types, r.DutyType) {
		return false
	}
	if len(f.Locations) > 0 && !containsFold(f.Locations, r.Location) {
		return false
	}

	return true
}

// Apply returns the records matching all active criteria, preserving
// input order. An empty filter returns the input slice unchanged.
func (f *Filter) Apply(records []*duty.Record, loc *time.Location) []*duty.Record {
	if f.IsEmpty() {
		return records
	}

	var filtered []*duty.Record
	for _, r := range records {
		if f.Matches(r, loc) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// String returns a human-readable description of the active criteria.
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string
	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format("2006-01-02")))
	}
	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format("2006-01-02")))
	}
	if len(f.Types) > 0 {
		parts = append(parts, fmt.Sprintf("Types: %s", strings.Join(f.Types, ", ")))
	}
	if len(f.Locations) > 0 {
		parts = append(parts, fmt.Sprintf("Locations: %s", strings.Join(f.Locations, ", ")))
	}
	if f.SkipRestDays {
		parts = append(parts, "Skip rest days")
	}
	return strings.Join(parts, " | ")
}

// containsFold reports whether any needle occurs in haystack,
// case-insensitively.
func containsFold(needles []string, haystack string) bool {
	lower := strings.ToLower(haystack)
	for _, n := range needles {
		if strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
