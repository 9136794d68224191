package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ivuturnos/internal/duty"
)

// fieldAliases lists each logical record field with the header spellings
// the portal has been seen to use across its Spanish, English and Italian
// locales. Order is fixed so ambiguous headers resolve the same way on
// every run.
var fieldAliases = []struct {
	field   string
	aliases []string
}{
	{"fecha", []string{"fecha", "date", "giorno"}},
	{"hora_inicio", []string{"hora inicio", "inicio", "start", "inizio"}},
	{"hora_fin", []string{"hora fin", "fin", "end", "fine"}},
	{"tipo", []string{"tipo", "type", "servicio", "duty"}},
	{"ubicacion", []string{"ubicación", "ubicacion", "location", "luogo"}},
	{"tren", []string{"tren", "train", "n° treno", "numero tren"}},
}

// Positional defaults when a column has no recognized header:
// date, start, end, type, location, train.
var fieldDefaults = map[string]int{
	"fecha":       0,
	"hora_inicio": 1,
	"hora_fin":    2,
	"tipo":        3,
	"ubicacion":   4,
	"tren":        5,
}

// extractGenericTable reads the first table in the fragment, mapping
// columns to fields by header keyword when headers exist and by position
// otherwise. Rows without data cells are skipped. No validity filtering
// happens here — rows with unparseable dates are dropped later when time
// resolution fails.
func extractGenericTable(html, _ string) []*duty.Record {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil
	}

	headerIdx := make(map[string]int)
	table.Find("th").Each(func(i int, th *goquery.Selection) {
		text := strings.ToLower(strings.TrimSpace(th.Text()))
		for _, f := range fieldAliases {
			for _, alias := range f.aliases {
				if strings.Contains(text, alias) {
					headerIdx[f.field] = i
					break
				}
			}
		}
	})

	var records []*duty.Record
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td").Map(func(_ int, td *goquery.Selection) string {
			return strings.TrimSpace(td.Text())
		})
		if len(cells) == 0 {
			return
		}

		cell := func(field string) string {
			if idx, ok := headerIdx[field]; ok && idx < len(cells) {
				return cells[idx]
			}
			if idx := fieldDefaults[field]; idx < len(cells) {
				return cells[idx]
			}
			return ""
		}

		records = append(records, &duty.Record{
			Date:        cell("fecha"),
			StartTime:   cell("hora_inicio"),
			EndTime:     cell("hora_fin"),
			DutyType:    cell("tipo"),
			Location:    cell("ubicacion"),
			TrainNumber: cell("tren"),
		})
	})

	return records
}
