package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ivuturnos/internal/duty"
)

var (
	// dutyCodePattern matches scheduled duty codes like "T-1234" or "MAD-06".
	dutyCodePattern = regexp.MustCompile(`\b[A-Z]{1,3}-[A-Za-z0-9]{2,6}\b`)

	// bareCodePattern matches the handful of bare status codes the portal
	// prints on non-service days. LD must precede D so it wins the match.
	bareCodePattern = regexp.MustCompile(`\b(LD|D|I|CERRO\s*T)\b`)

	// trainTagPattern matches an explicitly labelled train number.
	trainTagPattern = regexp.MustCompile(`(?i)\b(?:Tren|N[ºo])\s*(\d{3,5})\b`)

	bareTrainPattern = regexp.MustCompile(`\b\d{3,5}\b`)
)

// gazetteerPattern is the fixed station/city list the fallback recognizes.
// Deliberately a small literal table: the portal gives no general rule to
// infer locations from, so new codes get added here as they show up.
// Longer names come first so "MADRID" is preferred over "MAD".
var gazetteerPattern = regexp.MustCompile(`(?i)\b(MADRID|BARCELONA|VALENCIA|ZARAGOZA|SEVILLA|MÁLAGA|MALAGA|ALICANTE|CÓRDOBA|CORDOBA|MAD|BCN|VLC|ZGZ|SEV|MLG|ALC|COR)\b`)

// extractFallback is the last-resort strategy for fragments with no usable
// table at all: harvest times, a duty code, a known location and a train
// number straight out of the flattened text. The date is not read from the
// HTML — it is synthesized from the caller-supplied ISO date in the shape
// the time parser accepts, so any day with at least one clock time still
// produces a record.
func extractFallback(html, isoDate string) []*duty.Record {
	text := html
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		text = doc.Text()
	}

	times := clockPattern.FindAllString(text, -1)
	if len(times) == 0 {
		return nil
	}

	date := duty.SynthesizeDate(isoDate)
	if date == "" {
		return nil
	}

	rec := &duty.Record{
		Date:      date,
		StartTime: times[0],
		EndTime:   times[len(times)-1],
	}

	if m := dutyCodePattern.FindString(text); m != "" {
		rec.DutyType = m
	} else if m := bareCodePattern.FindString(text); m != "" {
		rec.DutyType = m
	}

	rec.Location = gazetteerPattern.FindString(text)

	if m := trainTagPattern.FindStringSubmatch(text); m != nil {
		rec.TrainNumber = m[1]
	} else if m := bareTrainPattern.FindString(text); m != "" {
		rec.TrainNumber = m
	}

	return []*duty.Record{rec}
}
