package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ivuturnos/internal/duty"
)

// The portal renders the duty header under one of three table classes
// depending on the view, and the leg-by-leg breakdown under a fourth.
const (
	headerSelector = "table.allocation-info, table.duty_header_attribute, table.table-header-block"
	bodySelector   = "table.duty-components-table"
)

// headerFields maps label-cell keywords to record field assignment. Labels
// are matched by case-insensitive substring, so "Número de turno" and
// plain "Turno" both land on the duty type.
var headerFields = []struct {
	keyword string
	assign  func(*duty.Record, string)
}{
	{"fecha", func(r *duty.Record, v string) { r.Date = v }},
	{"turno", func(r *duty.Record, v string) { r.DutyType = v }},
	{"inicio", func(r *duty.Record, v string) { r.StartTime = v }},
	{"término", func(r *duty.Record, v string) { r.EndTime = v }},
	{"termino", func(r *duty.Record, v string) { r.EndTime = v }},
}

// extractStructured reads the portal's native duty-detail markup: a header
// table with label/value rows plus a component table carrying legs with
// start/end locations and trip numbers. Returns nothing unless the header
// yields a date and both times were recovered somewhere in the fragment.
func extractStructured(html, _ string) []*duty.Record {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	header := doc.Find(headerSelector).First()
	if header.Length() == 0 {
		return nil
	}

	rec := &duty.Record{}

	// Label and value cells are siblings within a row rather than nested
	// pairs, so the i-th label cell is paired with the i-th value cell.
	header.Find("tr").Each(func(_ int, row *goquery.Selection) {
		var labels, values []string
		row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			text := strings.TrimSpace(cell.Text())
			if isHeaderLabel(text) {
				labels = append(labels, text)
			} else {
				values = append(values, text)
			}
		})
		for i, label := range labels {
			if i >= len(values) {
				break
			}
			assignHeaderField(rec, label, values[i])
		}
	})

	body := doc.Find(bodySelector).First()
	if body.Length() > 0 {
		from := strings.TrimSpace(body.Find("td.start_location_long_name").First().Text())
		to := strings.TrimSpace(body.Find("td.end_location_long_name").Last().Text())
		switch {
		case from != "" && to != "":
			rec.Location = from + " → " + to
		case from != "":
			rec.Location = from
		case to != "":
			rec.Location = to
		}

		rec.TrainNumber = findTrainNumber(body)
	}

	if rec.StartTime == "" || rec.EndTime == "" {
		firstLastTimes(rec, body.Text())
	}
	if rec.StartTime == "" || rec.EndTime == "" {
		firstLastTimes(rec, doc.Text())
	}

	if !rec.Valid() {
		return nil
	}
	return []*duty.Record{rec}
}

func isHeaderLabel(text string) bool {
	lower := strings.ToLower(text)
	for _, f := range headerFields {
		if strings.Contains(lower, f.keyword) {
			return true
		}
	}
	return false
}

func assignHeaderField(rec *duty.Record, label, value string) {
	lower := strings.ToLower(label)
	for _, f := range headerFields {
		if strings.Contains(lower, f.keyword) {
			f.assign(rec, value)
			return
		}
	}
}

// findTrainNumber scans the trip-number column for the first non-empty
// cell and extracts a trip identifier from it; if that cell carries none,
// the whole component table's text is swept with the same pattern.
func findTrainNumber(body *goquery.Selection) string {
	firstTrip := ""
	body.Find("td.trip_numbers").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		text := strings.TrimSpace(cell.Text())
		if text == "" {
			return true
		}
		firstTrip = text
		return false
	})

	if firstTrip != "" {
		if m := trainPattern.FindString(firstTrip); m != "" {
			return m
		}
	}
	return trainPattern.FindString(body.Text())
}
