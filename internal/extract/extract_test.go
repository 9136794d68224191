package extract

import (
	"os"
	"testing"

	"ivuturnos/internal/duty"
)

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/" + name)
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return string(data)
}

func TestDayCascadePrefersStructured(t *testing.T) {
	html := loadFixture(t, "day_structured.html")

	records := Day(html, "2024-03-15")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	// The fragment carries a decoy train number in its footnote text; a
	// record with it would mean a lower-priority strategy ran instead.
	if records[0].TrainNumber != "04521" {
		t.Errorf("train = %q, want %q from the structured parser", records[0].TrainNumber, "04521")
	}
	if records[0].DutyType != "T-1234" {
		t.Errorf("duty type = %q, want %q", records[0].DutyType, "T-1234")
	}
	if records[0].Status != duty.StatusService {
		t.Errorf("status = %q, want %q", records[0].Status, duty.StatusService)
	}
	if records[0].Overnight {
		t.Error("a 06:30-14:45 duty is not overnight")
	}
}

func TestDayGenericTable(t *testing.T) {
	html := loadFixture(t, "day_generic_table.html")

	records := Day(html, "2024-03-16")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Date != "16/03/2024" {
		t.Errorf("date = %q, want %q", records[0].Date, "16/03/2024")
	}
}

func TestDayFallsBackToText(t *testing.T) {
	html := loadFixture(t, "day_plaintext.html")

	records := Day(html, "2024-03-17")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].StartTime != "09:00" || records[0].EndTime != "17:00" {
		t.Errorf("times = %s-%s, want 09:00-17:00", records[0].StartTime, records[0].EndTime)
	}
	// The explicit LD marker outranks the recovered hours.
	if records[0].Status != duty.StatusLD {
		t.Errorf("status = %q, want %q", records[0].Status, duty.StatusLD)
	}
}

func TestDayRestDay(t *testing.T) {
	tests := []struct {
		name       string
		html       string
		wantStatus string
	}{
		{"libre disposición", `<div class="day-summary">LD</div>`, duty.StatusLD},
		{"descanso", `<div class="day-summary">Descanso semanal</div>`, duty.StatusRest},
		{"incidencia", `<div class="day-summary">I</div>`, duty.StatusI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := Day(tt.html, "2024-03-17")
			if len(records) != 1 {
				t.Fatalf("expected 1 rest record, got %d", len(records))
			}
			r := records[0]
			if r.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", r.Status, tt.wantStatus)
			}
			if r.Date != "17 mar 2024" {
				t.Errorf("date = %q, want synthesized %q", r.Date, "17 mar 2024")
			}
			if r.StartTime != "" || r.EndTime != "" {
				t.Errorf("rest day should carry no times, got %s-%s", r.StartTime, r.EndTime)
			}
		})
	}
}

func TestDayBlankYieldsNothing(t *testing.T) {
	// A blank day is not a rest day: no marker, no record.
	if records := Day("<html><body>nada que ver aquí</body></html>", "2024-03-17"); records != nil {
		t.Errorf("expected nil for blank day, got %v", records)
	}
}

func TestDayOvernightFlag(t *testing.T) {
	html := `
		<table>
			<tr><th>Fecha</th><th>Inicio</th><th>Fin</th></tr>
			<tr><td>15/03/2024</td><td>22:00</td><td>06:00</td></tr>
		</table>`

	records := Day(html, "2024-03-15")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if !records[0].Overnight {
		t.Error("a 22:00-06:00 duty should be flagged overnight")
	}
	if records[0].Status != duty.StatusService {
		t.Errorf("status = %q, want %q", records[0].Status, duty.StatusService)
	}
}

func TestDayNeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"<<<<not html>>>>",
		"<table><tr></tr>",
		"<html><body>nada que ver aquí</body></html>",
		"\x00\x01\x02",
	}

	for _, html := range inputs {
		if records := Day(html, "2024-03-15"); records != nil {
			// Some inputs legitimately extract nothing; the point is
			// no panic and no half-filled records: anything returned
			// carries either times or a rest status.
			for _, r := range records {
				if r.StartTime == "" && r.Status == "" {
					t.Errorf("Day(%q) produced record without times or status: %+v", html, r)
				}
			}
		}
	}
}
