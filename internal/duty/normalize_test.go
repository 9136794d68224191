package duty

import (
	"strings"
	"testing"
	"time"
)

func TestEventsFromRecords(t *testing.T) {
	loc := DefaultZone()

	records := []*Record{
		{
			Date:        "15 mar. 2024",
			StartTime:   "06:30",
			EndTime:     "14:45",
			DutyType:    "T-1234",
			Location:    "Madrid Chamartín → Barcelona Sants",
			TrainNumber: "04521",
		},
		{
			Date:      "16 mar. 2024",
			StartTime: "09:15",
			EndTime:   "17:30",
			DutyType:  "Mercancías",
		},
		{
			Date:      "2 abr. 2024",
			StartTime: "08:00",
			EndTime:   "16:00",
			DutyType:  "T-5678",
		},
	}

	byMonth := EventsFromRecords(records, loc)

	if len(byMonth) != 2 {
		t.Fatalf("expected 2 month groups, got %d: %v", len(byMonth), byMonth)
	}
	if len(byMonth["2024-03"]) != 2 {
		t.Errorf("expected 2 events in 2024-03, got %d", len(byMonth["2024-03"]))
	}
	if len(byMonth["2024-04"]) != 1 {
		t.Errorf("expected 1 event in 2024-04, got %d", len(byMonth["2024-04"]))
	}

	ev := byMonth["2024-03"][0]
	if ev.Summary != "T-1234 - Tren 04521" {
		t.Errorf("summary = %q, want %q", ev.Summary, "T-1234 - Tren 04521")
	}
	if ev.Start.Day() != 15 || ev.Start.Hour() != 6 || ev.Start.Minute() != 30 {
		t.Errorf("start = %v, want 15th 06:30", ev.Start)
	}
	if ev.End.Hour() != 14 || ev.End.Minute() != 45 {
		t.Errorf("end = %v, want 14:45", ev.End)
	}

	wantDesc := "Tipo: T-1234\nUbicación: Madrid Chamartín → Barcelona Sants\nTren: 04521"
	if ev.Description != wantDesc {
		t.Errorf("description = %q, want %q", ev.Description, wantDesc)
	}
}

func TestEventsFromRecordsSummaryWithoutTrain(t *testing.T) {
	loc := DefaultZone()

	byMonth := EventsFromRecords([]*Record{{
		Date:      "16 mar. 2024",
		StartTime: "09:15",
		EndTime:   "17:30",
		DutyType:  "Mercancías",
	}}, loc)

	ev := byMonth["2024-03"][0]
	if ev.Summary != "Mercancías" {
		t.Errorf("summary = %q, want %q", ev.Summary, "Mercancías")
	}
}

func TestEventsFromRecordsGenericType(t *testing.T) {
	loc := DefaultZone()

	byMonth := EventsFromRecords([]*Record{{
		Date:        "16 mar. 2024",
		StartTime:   "09:15",
		EndTime:     "17:30",
		TrainNumber: "11203",
	}}, loc)

	ev := byMonth["2024-03"][0]
	if ev.Summary != "Turno - Tren 11203" {
		t.Errorf("summary = %q, want %q", ev.Summary, "Turno - Tren 11203")
	}
	// The description keeps the raw (empty) field, only the summary
	// gets the generic label.
	if !strings.HasPrefix(ev.Description, "Tipo: \n") {
		t.Errorf("description = %q, want empty Tipo line", ev.Description)
	}
}

func TestEventsFromRecordsDefaultEnd(t *testing.T) {
	loc := DefaultZone()

	byMonth := EventsFromRecords([]*Record{{
		Date:      "15 mar. 2024",
		StartTime: "06:30",
		EndTime:   "sin datos",
		DutyType:  "T-1234",
	}}, loc)

	ev := byMonth["2024-03"][0]
	want := ev.Start.Add(8 * time.Hour)
	if !ev.End.Equal(want) {
		t.Errorf("end = %v, want start+8h = %v", ev.End, want)
	}
}

func TestEventsFromRecordsDropsUnresolvable(t *testing.T) {
	loc := DefaultZone()

	byMonth := EventsFromRecords([]*Record{
		{Date: "sin fecha", StartTime: "06:30", EndTime: "14:45"},
		{Date: "15 mar. 2024", StartTime: "", EndTime: "14:45"},
		nil,
	}, loc)

	if len(byMonth) != 0 {
		t.Errorf("expected no events, got %v", byMonth)
	}
}
