package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"ivuturnos/internal/calendar"
	"ivuturnos/internal/config"
	"ivuturnos/internal/duty"
	"ivuturnos/internal/extract"
	"ivuturnos/internal/logger"
	"ivuturnos/internal/notifier"
	"ivuturnos/internal/portal"
	"ivuturnos/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitChanges = 2
)

var (
	flagConfig       string
	flagDataDir      string
	flagCalendarsDir string
	flagFormat       string
	flagDryRun       bool
	flagNotify       bool
	flagBrowserLogin bool
	flagSchedule     string
	flagVerbose      bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ivu-turnos",
		Short: "Export railway duty schedules from the IVU crew portal",
		Long: `A CLI tool that scrapes duty schedules from the IVU crew portal,
detects changes against the previous run, and exports one ICS calendar
file per month. Credentials are read from IVU_USER and IVU_PASS.`,
		RunE: runRoot,
	}

	// Define flags
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to YAML config (created on first run if missing)")
	cmd.Flags().StringVar(&flagDataDir, "data-dir", "", "Data directory for snapshots (overrides config)")
	cmd.Flags().StringVar(&flagCalendarsDir, "calendars-dir", "", "Output directory for ICS files (overrides config)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print notifications without posting")
	cmd.Flags().BoolVar(&flagNotify, "notify", false, "Post duty changes after the scrape")
	cmd.Flags().BoolVar(&flagBrowserLogin, "browser-login", false, "Log in through headless Chromium")
	cmd.Flags().StringVar(&flagSchedule, "schedule", "", "Cron expression to run repeatedly (e.g. '0 */6 * * *')")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	return cmd
}

// runRoot dispatches between the one-shot run and the cron loop
func runRoot(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
	}

	loc := duty.DefaultZone()
	cfg, err := config.Load(flagConfig, loc)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagCalendarsDir != "" {
		cfg.CalendarsDir = flagCalendarsDir
	}
	if flagBrowserLogin {
		cfg.BrowserLogin = true
	}
	if flagNotify {
		cfg.Notify = true
	}

	if flagSchedule != "" {
		return runScheduled(cfg, loc, format)
	}

	result, err := runOnce(context.Background(), cfg, loc)
	if err != nil {
		return err
	}

	if err := WriteOutput(os.Stdout, result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	// Set exit code based on whether changes were found
	if len(result.Changes) > 0 {
		os.Exit(ExitChanges)
	}
	os.Exit(ExitSuccess)
	return nil
}

// runScheduled runs the scrape on a cron schedule until interrupted
func runScheduled(cfg *config.Config, loc *time.Location, format OutputFormat) error {
	c := cron.New()
	_, err := c.AddFunc(flagSchedule, func() {
		result, err := runOnce(context.Background(), cfg, loc)
		if err != nil {
			logger.Error("scheduled run failed", nil, err)
			return
		}
		if err := WriteOutput(os.Stdout, result, format, flagVerbose); err != nil {
			logger.Error("writing output failed", nil, err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", flagSchedule, err)
	}

	logger.Info("scheduler started", logger.Fields{"schedule": flagSchedule})
	c.Run()
	return nil
}

// runOnce performs one full scrape: login, fetch, extract, diff, export.
func runOnce(ctx context.Context, cfg *config.Config, loc *time.Location) (*OutputResult, error) {
	user, pass, err := config.Credentials()
	if err != nil {
		return nil, err
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	client, err := portal.New(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("initializing portal client: %w", err)
	}

	if cfg.BrowserLogin {
		err = client.LoginBrowser(ctx, user, pass)
	} else {
		err = client.Login(ctx, user, pass)
	}
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}

	monthHTML, err := client.FetchMonth(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching month view: %w", err)
	}

	dates, employeeID := portal.ExtractDates(monthHTML)
	if len(dates) == 0 {
		return nil, fmt.Errorf("no dates found in month view")
	}
	logger.Info("month view parsed", logger.Fields{
		"days":        len(dates),
		"employee_id": employeeID,
	})

	// One record per day. Every extracted day lands in the snapshot;
	// the filter only narrows what reaches the calendar export.
	byDay := make(map[string]*duty.Record)
	var records []*duty.Record
	emptyDays := 0

	for _, date := range dates {
		dayHTML, err := client.FetchDay(ctx, date, employeeID)
		if err != nil {
			return nil, fmt.Errorf("fetching day %s: %w", date, err)
		}

		recs := extract.Day(dayHTML, date)
		if len(recs) == 0 {
			emptyDays++
			logger.Debug("no duty extracted", logger.Fields{"date": date})
			continue
		}

		rec := recs[0]
		byDay[date] = rec
		logger.Debug("day parsed", logger.Fields{
			"date":      date,
			"status":    rec.Status,
			"overnight": rec.Overnight,
		})

		if cfg.Filter != nil && !cfg.Filter.IsEmpty() && !cfg.Filter.Matches(rec, loc) {
			logger.Debug("record filtered out of export", logger.Fields{"date": date})
			continue
		}
		records = append(records, rec)
	}

	changes, err := diffAndSave(store, byDay, employeeID, cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	byMonth := duty.EventsFromRecords(records, loc)
	calendars, err := calendar.BuildAll(cfg.CalendarsDir, byMonth, time.Now().In(loc))
	if err != nil {
		return nil, fmt.Errorf("writing calendars: %w", err)
	}

	if cfg.Notify && len(changes) > 0 {
		if err := notify(cfg, changes); err != nil {
			return nil, fmt.Errorf("posting notifications: %w", err)
		}
	}

	return &OutputResult{
		CheckedAt: time.Now().UTC(),
		Days:      len(dates),
		Records:   len(records),
		EmptyDays: emptyDays,
		Changes:   changes,
		Calendars: calendars,
	}, nil
}

// diffAndSave splits the scraped days into months, diffs each month against
// its stored snapshot, and writes the updated snapshots back.
func diffAndSave(store *storage.Storage, byDay map[string]*duty.Record, employeeID, source string) ([]*duty.Change, error) {
	months := make(map[string]map[string]*duty.Record)
	for date, rec := range byDay {
		ym := date[:7]
		if months[ym] == nil {
			months[ym] = make(map[string]*duty.Record)
		}
		months[ym][date] = rec
	}

	keys := make([]string, 0, len(months))
	for ym := range months {
		keys = append(keys, ym)
	}
	sort.Strings(keys)

	var all []*duty.Change
	for _, ym := range keys {
		previous, err := store.LoadSnapshot(ym)
		if err != nil {
			return nil, fmt.Errorf("loading snapshot %s: %w", ym, err)
		}

		all = append(all, duty.Diff(previous.Records, months[ym])...)

		snapshot := storage.NewSnapshot(ym)
		snapshot.EmployeeID = employeeID
		snapshot.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
		snapshot.Source = source
		snapshot.Records = months[ym]
		if err := store.SaveSnapshot(snapshot); err != nil {
			return nil, fmt.Errorf("saving snapshot %s: %w", ym, err)
		}
	}
	return all, nil
}

// notify posts the changes, capped at the configured maximum.
func notify(cfg *config.Config, changes []*duty.Change) error {
	if len(changes) > cfg.MaxNotifications {
		logger.Warn("capping notifications", logger.Fields{
			"changes": len(changes),
			"max":     cfg.MaxNotifications,
		})
		changes = changes[:cfg.MaxNotifications]
	}

	var n notifier.Notifier
	if flagDryRun {
		n = notifier.NewDryRunNotifier()
		fmt.Printf("DRY RUN MODE - Would post %d change(s):\n\n", len(changes))
	} else {
		client, err := notifier.NewTwitterNotifier()
		if err != nil {
			return err
		}
		n = client
	}
	return n.Notify(changes)
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
