package storage

import (
	"os"
	"path/filepath"
	"testing"

	"ivuturnos/internal/duty"
)

func TestLoadSnapshotMissing(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	snapshot, err := store.LoadSnapshot("2024-03")
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if snapshot == nil {
		t.Fatal("expected empty snapshot, got nil")
	}
	if len(snapshot.Records) != 0 {
		t.Errorf("expected no records, got %d", len(snapshot.Records))
	}
	if snapshot.YearMonth != "2024-03" {
		t.Errorf("year_month = %q, want %q", snapshot.YearMonth, "2024-03")
	}
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	snapshot := NewSnapshot("2024-03")
	snapshot.EmployeeID = "12345"
	snapshot.GeneratedAt = "2024-03-20T12:00:00Z"
	snapshot.Source = "https://portal.example.com"
	snapshot.Records["2024-03-15"] = &duty.Record{
		Date:        "15 mar. 2024",
		StartTime:   "06:30",
		EndTime:     "14:45",
		DutyType:    "T-1234",
		Location:    "Madrid Chamartín → Barcelona Sants",
		TrainNumber: "04521",
		Status:      duty.StatusService,
	}
	snapshot.Records["2024-03-16"] = &duty.Record{
		Date:   "16 mar 2024",
		Status: duty.StatusLD,
	}
	snapshot.Records["2024-03-22"] = &duty.Record{
		Date:      "22 mar. 2024",
		StartTime: "22:00",
		EndTime:   "06:00",
		Status:    duty.StatusService,
		Overnight: true,
	}

	if err := store.SaveSnapshot(snapshot); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "turnos_2024-03.json")); err != nil {
		t.Fatalf("snapshot file not written: %v", err)
	}

	loaded, err := store.LoadSnapshot("2024-03")
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if loaded.EmployeeID != "12345" {
		t.Errorf("employee_id = %q, want %q", loaded.EmployeeID, "12345")
	}

	rec := loaded.Records["2024-03-15"]
	if rec == nil {
		t.Fatal("expected record for 2024-03-15")
	}
	if rec.DutyType != "T-1234" || rec.StartTime != "06:30" {
		t.Errorf("record round trip failed: %+v", rec)
	}
	if rec.Location != "Madrid Chamartín → Barcelona Sants" {
		t.Errorf("location round trip failed: %q", rec.Location)
	}
	if rec.Status != duty.StatusService {
		t.Errorf("status round trip failed: %q", rec.Status)
	}

	rest := loaded.Records["2024-03-16"]
	if rest == nil || rest.Status != duty.StatusLD || rest.StartTime != "" {
		t.Errorf("rest-day record round trip failed: %+v", rest)
	}

	night := loaded.Records["2024-03-22"]
	if night == nil || !night.Overnight {
		t.Errorf("overnight flag round trip failed: %+v", night)
	}
}

func TestSnapshotsSeparateByMonth(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	march := NewSnapshot("2024-03")
	march.Records["2024-03-15"] = &duty.Record{Date: "15 mar. 2024", StartTime: "06:30", EndTime: "14:45"}
	if err := store.SaveSnapshot(march); err != nil {
		t.Fatalf("SaveSnapshot(march) error = %v", err)
	}

	april, err := store.LoadSnapshot("2024-04")
	if err != nil {
		t.Fatalf("LoadSnapshot(april) error = %v", err)
	}
	if len(april.Records) != 0 {
		t.Errorf("april snapshot should be empty, got %d records", len(april.Records))
	}
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	if _, err := New(dir); err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("data directory not created: %v", err)
	}
}
