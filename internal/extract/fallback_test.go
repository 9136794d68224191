package extract

import "testing"

func TestExtractFallbackPlaintext(t *testing.T) {
	html := loadFixture(t, "day_plaintext.html")

	records := extractFallback(html, "2024-03-17")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	r := records[0]
	if r.Date != "17 mar 2024" {
		t.Errorf("date = %q, want synthesized %q", r.Date, "17 mar 2024")
	}
	if r.StartTime != "09:00" {
		t.Errorf("start = %q, want first time %q", r.StartTime, "09:00")
	}
	if r.EndTime != "17:00" {
		t.Errorf("end = %q, want last time %q", r.EndTime, "17:00")
	}
	if r.DutyType != "LD" {
		t.Errorf("duty type = %q, want bare code %q", r.DutyType, "LD")
	}
	if r.Location != "MAD" {
		t.Errorf("location = %q, want gazetteer hit %q", r.Location, "MAD")
	}
	if r.TrainNumber != "" {
		t.Errorf("train = %q, want none", r.TrainNumber)
	}
}

func TestExtractFallbackDutyCodeBeatsBareCode(t *testing.T) {
	html := `<div>Turno T-1234 LD de 06:30 a 14:45</div>`

	records := extractFallback(html, "2024-03-15")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].DutyType != "T-1234" {
		t.Errorf("duty type = %q, want scheduled code %q", records[0].DutyType, "T-1234")
	}
}

func TestExtractFallbackLabelledTrain(t *testing.T) {
	html := `<div>Servicio 06:30 a 14:45, Tren 04521, salida 0999999 MADRID</div>`

	records := extractFallback(html, "2024-03-15")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].TrainNumber != "04521" {
		t.Errorf("train = %q, want labelled %q", records[0].TrainNumber, "04521")
	}
	if records[0].Location != "MADRID" {
		t.Errorf("location = %q, want full name %q", records[0].Location, "MADRID")
	}
}

func TestExtractFallbackNoTimes(t *testing.T) {
	if records := extractFallback("<div>Descanso</div>", "2024-03-15"); records != nil {
		t.Errorf("expected nil without clock times, got %v", records)
	}
}

func TestExtractFallbackBadDate(t *testing.T) {
	if records := extractFallback("<div>09:00</div>", "not-a-date"); records != nil {
		t.Errorf("expected nil for unusable ISO date, got %v", records)
	}
}

func TestExtractFallbackSingleTime(t *testing.T) {
	// One clock time fills both start and end; normalization later
	// stretches the end by the default shift length.
	records := extractFallback("<div>Presentación 05:45</div>", "2024-03-15")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].StartTime != "05:45" || records[0].EndTime != "05:45" {
		t.Errorf("times = %s-%s, want 05:45-05:45", records[0].StartTime, records[0].EndTime)
	}
}
