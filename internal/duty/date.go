package duty

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// spanishMonths maps the twelve Spanish month abbreviations the portal
// renders ("15 mar. 2024") to two-digit month numbers.
var spanishMonths = map[string]string{
	"ene": "01", "feb": "02", "mar": "03", "abr": "04",
	"may": "05", "jun": "06", "jul": "07", "ago": "08",
	"sep": "09", "oct": "10", "nov": "11", "dic": "12",
}

// monthAbbrevs is the same table in month order, used when synthesizing
// date text for days whose fragment carries no date of its own.
var monthAbbrevs = [12]string{
	"ene", "feb", "mar", "abr", "may", "jun",
	"jul", "ago", "sep", "oct", "nov", "dic",
}

var abbrevDatePattern = regexp.MustCompile(`(\d{1,2})\s+([A-Za-zñ]{3,})\.?\s+(\d{4})`)

// Resolve interprets a locale-formatted date and time fragment as an
// instant in loc. The portal's own "<day> <mon-abbrev> <year>" shape is
// tried first; failing that, DD/MM/YYYY and YYYY-MM-DD are each combined
// with HH:MM and bare HH times. Returns the zero time when nothing
// matches — callers treat that as "unparseable", never as an error.
func Resolve(dateText, timeText string, loc *time.Location) time.Time {
	dateText = strings.TrimSpace(dateText)
	timeText = strings.TrimSpace(timeText)
	if dateText == "" || timeText == "" {
		return time.Time{}
	}

	if m := abbrevDatePattern.FindStringSubmatch(dateText); m != nil {
		day, mon, year := m[1], strings.ToLower(m[2]), m[3]
		if len(mon) > 3 {
			mon = mon[:3]
		}
		if num, ok := spanishMonths[mon]; ok {
			if len(day) == 1 {
				day = "0" + day
			}
			stamp := fmt.Sprintf("%s-%s-%s %s", year, num, day, timeText)
			for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 15"} {
				if t, err := time.ParseInLocation(layout, stamp, loc); err == nil {
					return t
				}
			}
		}
	}

	for _, dateLayout := range []string{"02/01/2006", "2006-01-02"} {
		for _, timeLayout := range []string{"15:04", "15"} {
			t, err := time.ParseInLocation(dateLayout+" "+timeLayout, dateText+" "+timeText, loc)
			if err == nil {
				return t
			}
		}
	}

	return time.Time{}
}

// SynthesizeDate renders an ISO calendar date (YYYY-MM-DD) in the portal's
// "<day> <mon-abbrev> <year>" shape, lowercase without the trailing
// period, so Resolve's first shape is guaranteed to match it. Returns ""
// for malformed input.
func SynthesizeDate(isoDate string) string {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(isoDate))
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d %s %d", t.Day(), monthAbbrevs[t.Month()-1], t.Year())
}
