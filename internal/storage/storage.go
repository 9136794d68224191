package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ivuturnos/internal/duty"
)

// Storage handles persistence of per-month duty snapshots.
type Storage struct {
	dataDir string
}

// Snapshot is the JSON payload written for one month of duties.
type Snapshot struct {
	EmployeeID  string                  `json:"employee_id,omitempty"`
	GeneratedAt string                  `json:"generated_at"`
	Source      string                  `json:"source"`
	YearMonth   string                  `json:"year_month"`
	Records     map[string]*duty.Record `json:"records"` // keyed by ISO date
}

// NewSnapshot creates an empty snapshot for the given month.
func NewSnapshot(yearMonth string) *Snapshot {
	return &Snapshot{
		YearMonth: yearMonth,
		Records:   make(map[string]*duty.Record),
	}
}

// New creates a Storage rooted at dataDir, expanding a leading ~ and
// creating the directory if it does not exist.
func New(dataDir string) (*Storage, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{dataDir: dataDir}, nil
}

func (s *Storage) snapshotPath(yearMonth string) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("turnos_%s.json", yearMonth))
}

// LoadSnapshot loads the stored snapshot for a month. A missing file is
// not an error: the first scrape of a month just sees an empty snapshot.
func (s *Storage) LoadSnapshot(yearMonth string) (*Snapshot, error) {
	data, err := os.ReadFile(s.snapshotPath(yearMonth))
	if err != nil {
		if os.IsNotExist(err) {
			return NewSnapshot(yearMonth), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snapshot.Records == nil {
		snapshot.Records = make(map[string]*duty.Record)
	}
	return &snapshot, nil
}

// SaveSnapshot writes the snapshot for its month, replacing any previous
// file.
func (s *Storage) SaveSnapshot(snapshot *Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.WriteFile(s.snapshotPath(snapshot.YearMonth), data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}
