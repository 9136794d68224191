package duty

import (
	"regexp"
	"strings"
	"time"
)

// DefaultZoneName is the operator's home timezone. Every resolved duty
// instant and every ICS timestamp is localized to this zone.
const DefaultZoneName = "Europe/Madrid"

// DefaultZone returns the fixed operating timezone. Falls back to UTC if
// the zone database lookup fails, so callers never receive nil.
func DefaultZone() *time.Location {
	loc, err := time.LoadLocation(DefaultZoneName)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Record is the raw field set recovered from one day's duty-detail
// fragment. The locale-formatted string fields hold the markup text
// exactly as found; resolution into timestamps happens in
// EventsFromRecords. Status and Overnight are derived by Classify and
// travel with the record into the month snapshot.
type Record struct {
	Date        string `json:"fecha"`
	StartTime   string `json:"hora_inicio"`
	EndTime     string `json:"hora_fin"`
	DutyType    string `json:"tipo"`
	Location    string `json:"ubicacion"`
	TrainNumber string `json:"tren"`
	Status      string `json:"status,omitempty"`
	Overnight   bool   `json:"overnight,omitempty"`
}

// Valid reports whether the record carries the minimum fields needed to
// build a calendar event: date, start time and end time.
func (r *Record) Valid() bool {
	return r.Date != "" && r.StartTime != "" && r.EndTime != ""
}

// SpansMidnight reports whether the duty ends on the day after it starts,
// i.e. the end clock time is earlier than the start clock time.
func (r *Record) SpansMidnight() bool {
	start := clockMinutes(r.StartTime)
	end := clockMinutes(r.EndTime)
	if start < 0 || end < 0 {
		return false
	}
	return end < start
}

// Classify fills the record's Status and Overnight fields from the
// fragment texts the extractor saw plus the record's own resolved times.
func (r *Record) Classify(texts []string) {
	hasHours := r.StartTime != "" && r.EndTime != ""
	r.Status = DetectStatus(texts, hasHours)
	r.Overnight = r.SpansMidnight()
}

var hhmmPattern = regexp.MustCompile(`^\s*(\d{1,2}):(\d{2})\s*$`)

// clockMinutes converts an "HH:MM" string to minutes past midnight,
// or -1 if the text is not a valid clock time.
func clockMinutes(s string) int {
	m := hhmmPattern.FindStringSubmatch(s)
	if m == nil {
		return -1
	}
	h := int(m[1][0] - '0')
	if len(m[1]) == 2 {
		h = h*10 + int(m[1][1]-'0')
	}
	min := int(m[2][0]-'0')*10 + int(m[2][1]-'0')
	if h > 23 || min > 59 {
		return -1
	}
	return h*60 + min
}

// Day statuses as shown in the portal's month view.
const (
	StatusService = "SERVICIO"
	StatusRest    = "DESCANSO"
	StatusLD      = "LD"
	StatusI       = "I"
	StatusFree    = "LIBRE"
)

var bareIPattern = regexp.MustCompile(`\bI\b`)

// DetectStatus classifies a day from its visible text. A day with resolved
// hours is a working day unless an explicit rest marker appears.
func DetectStatus(texts []string, hasHours bool) string {
	joined := strings.ToUpper(strings.Join(texts, " "))
	switch {
	case strings.Contains(joined, "LD"):
		return StatusLD
	case strings.Contains(joined, "DESCANSO"):
		return StatusRest
	case bareIPattern.MatchString(joined) && !hasHours:
		return StatusI
	case hasHours:
		return StatusService
	default:
		return StatusFree
	}
}

// Event is a single calendar entry derived from a valid Record.
type Event struct {
	Summary     string    `json:"summary"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Description string    `json:"description"`
}

// MonthKey returns the YYYY-MM grouping key for the event's start instant.
func (e *Event) MonthKey() string {
	return e.Start.Format("2006-01")
}
