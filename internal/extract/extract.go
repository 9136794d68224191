package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ivuturnos/internal/duty"
)

// Patterns shared across strategies.
var (
	// clockPattern matches wall-clock times with valid hour/minute ranges.
	clockPattern = regexp.MustCompile(`\b(?:[01]?\d|2[0-3]):[0-5]\d\b`)

	// trainPattern matches trip identifiers: 1-3 uppercase letters followed
	// by 2-5 digits, or a bare 3-5 digit run.
	trainPattern = regexp.MustCompile(`\b([A-Z]{1,3}\d{2,5}|\d{3,5})\b`)
)

// strategy is one extraction approach: fragment HTML plus the day's ISO
// date in, zero or more raw records out. Strategies return an empty slice
// for unusable fragments, never an error.
type strategy func(html, isoDate string) []*duty.Record

// strategies in priority order. The structured parser is the least likely
// to produce a wrong-but-plausible record, so it always takes precedence;
// the regex fallback only runs when nothing table-shaped was found.
var strategies = []strategy{
	extractStructured,
	extractGenericTable,
	extractFallback,
}

// Day runs the extraction cascade over one day's duty-detail fragment and
// returns the first non-empty strategy result, each record classified with
// its day status and overnight flag. Days whose fragment defeats every
// strategy but carries an explicit non-service marker (LD, DESCANSO, bare
// I) still yield a record, so rest days survive into the snapshot; blank
// days yield nothing. Garbage input never panics.
func Day(html, isoDate string) []*duty.Record {
	text := flatten(html)

	for _, s := range strategies {
		if records := s(html, isoDate); len(records) > 0 {
			for _, rec := range records {
				rec.Classify([]string{text})
			}
			return records
		}
	}

	if rec := restDay(text, isoDate); rec != nil {
		return []*duty.Record{rec}
	}
	return nil
}

// restDay builds a time-less record for an explicit non-service day.
func restDay(text, isoDate string) *duty.Record {
	status := duty.DetectStatus([]string{text}, false)
	if status != duty.StatusLD && status != duty.StatusRest && status != duty.StatusI {
		return nil
	}
	date := duty.SynthesizeDate(isoDate)
	if date == "" {
		return nil
	}
	return &duty.Record{Date: date, Status: status}
}

// flatten strips markup, returning the fragment's visible text.
func flatten(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return doc.Text()
}

// firstLastTimes harvests every HH:MM occurrence from text in document
// order and fills whichever of start/end is still missing with the first
// and last match respectively.
func firstLastTimes(rec *duty.Record, text string) {
	times := clockPattern.FindAllString(text, -1)
	if len(times) == 0 {
		return
	}
	if rec.StartTime == "" {
		rec.StartTime = times[0]
	}
	if rec.EndTime == "" {
		rec.EndTime = times[len(times)-1]
	}
}
