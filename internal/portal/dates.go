package portal

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	beginDatePattern  = regexp.MustCompile(`beginDate=(\d{4}-\d{2}-\d{2})`)
	employeeIDPattern = regexp.MustCompile(`allocatedEmployeeId=(\d+)`)
)

// ExtractDates pulls the ISO dates of the days listed in a month-table
// fragment, plus the employee id the portal embeds in the day links. Dates
// are returned sorted and de-duplicated; an unrecognized fragment yields an
// empty slice, never an error.
func ExtractDates(html string) (dates []string, employeeID string) {
	seen := make(map[string]bool)

	for _, m := range beginDatePattern.FindAllStringSubmatch(html, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			dates = append(dates, m[1])
		}
	}
	if m := employeeIDPattern.FindStringSubmatch(html); m != nil {
		employeeID = m[1]
	}

	// Some portal skins carry the date on a data attribute instead of a
	// query parameter.
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		doc.Find("[data-begin-date]").Each(func(_ int, s *goquery.Selection) {
			d, _ := s.Attr("data-begin-date")
			if len(d) == 10 && !seen[d] {
				seen[d] = true
				dates = append(dates, d)
			}
		})
	}

	sort.Strings(dates)
	return dates, employeeID
}
