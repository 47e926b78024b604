package app

import (
	"context"
	"fmt"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/rollbook/internal/aggregate"
	"github.com/shrimpsizemoose/rollbook/internal/export"
	"github.com/shrimpsizemoose/rollbook/internal/gradebook"
	"github.com/shrimpsizemoose/rollbook/internal/matching"
	"github.com/shrimpsizemoose/rollbook/internal/metrics"
	"github.com/shrimpsizemoose/rollbook/internal/models"
	"github.com/shrimpsizemoose/rollbook/internal/notify"
	"github.com/shrimpsizemoose/rollbook/internal/roster"
	"github.com/shrimpsizemoose/rollbook/internal/store"
	"github.com/shrimpsizemoose/rollbook/internal/timeslot"
)

// Service wires the reconciliation pipeline to its optional collaborators.
// Store, Publisher and the Google Sheets exporter are nil/absent when their
// config sections are empty.
type Service struct {
	Config    *Config
	Store     store.AssessmentStore
	Publisher notify.Publisher
	Exporters []export.Exporter
}

// Report is the outcome of one batch run.
type Report struct {
	Result   gradebook.Result
	Slots    []models.TimeSlot
	Overlaps []timeslot.Overlap
	Stats    matching.Stats
}

func NewService(ctx context.Context, configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return Build(ctx, config)
}

func Build(ctx context.Context, config *Config) (*Service, error) {
	s := &Service{Config: config}

	if config.Assessments.DSN != "" {
		st, err := NewStore(config.Assessments.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to init store: %w", err)
		}
		if err := st.ApplyMigrations(config.Assessments.MigrationsDir); err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		s.Store = st
	}

	if config.Notify.RedisURL != "" {
		pub, err := notify.NewRedisPublisher(ctx, config.Notify.RedisURL, config.Notify.KeyTemplate)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to init notifier: %w", err)
		}
		s.Publisher = pub
	}

	if config.Export.Path != "" {
		s.Exporters = append(s.Exporters, &export.FileExporter{Path: config.Export.Path})
	}
	if gs := config.Export.GSheet; gs.SpreadsheetID != "" {
		exp, err := export.NewGSheetExporter(ctx, gs.SpreadsheetID, gs.CredentialsPath)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to init Google Sheets exporter: %w", err)
		}
		s.Exporters = append(s.Exporters, exp)
	}

	return s, nil
}

func observe(stage string, start time.Time) {
	metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// Reconcile runs the whole batch over two complete snapshots. It fails only on
// structural problems: missing columns or an unreadable assessment store.
func (s *Service) Reconcile(rosterTable, formTable models.Table) (*Report, error) {
	start := time.Now()
	entries, err := roster.Load(rosterTable)
	if err != nil {
		return nil, err
	}
	observe("roster", start)

	start = time.Now()
	slots := timeslot.BuildSlots(entries)
	overlaps := timeslot.FindOverlaps(slots)
	for _, o := range overlaps {
		logger.Info.Printf("WARNING: overlapping time slots, %s; the first defined class wins", o)
	}
	metrics.SlotOverlaps.Set(float64(len(overlaps)))
	observe("timeslots", start)

	policy, err := matching.NewPolicy(s.Config.Form.Policy, s.Config.Form.ClassColumn, slots)
	if err != nil {
		return nil, err
	}
	matcher := &matching.Matcher{
		Policy: policy,
		Columns: matching.Columns{
			Timestamp: s.Config.Form.TimestampColumn,
			Contact:   s.Config.Form.ContactColumn,
			StudentNo: s.Config.Form.StudentNoColumn,
		},
		Parser: matching.NewTimestampParser(s.Config.Form.TimestampLayouts, s.Config.Location()),
	}

	start = time.Now()
	subs, stats, err := matcher.Match(formTable)
	if err != nil {
		return nil, err
	}
	metrics.FormRowsTotal.WithLabelValues("scoped").Add(float64(stats.Scoped))
	metrics.FormRowsTotal.WithLabelValues("bad_timestamp").Add(float64(stats.BadTimestamp))
	metrics.FormRowsTotal.WithLabelValues("unresolved_identity").Add(float64(stats.UnresolvedIdentity))
	observe("matching", start)

	logger.Info.Printf("Form rows: %d total, %d in scope, %d out of scope (%d bad timestamp, %d unresolved identity)",
		stats.Total, stats.Scoped, stats.OutOfScope(), stats.BadTimestamp, stats.UnresolvedIdentity)

	start = time.Now()
	contacts := aggregate.LatestContact(subs)
	counts := aggregate.CountSubmissions(subs, s.Config.Attendance.TotalSessions, s.Config.Location())
	observe("aggregate", start)

	var assessments []models.Assessment
	if s.Store != nil {
		assessments, err = s.Store.ListAssessments()
		if err != nil {
			return nil, fmt.Errorf("failed to load assessments: %w", err)
		}
		logger.Debug.Printf("Loaded %d assessments", len(assessments))
	}

	start = time.Now()
	assembler := &gradebook.Assembler{
		Scorer:   s.Config.Grader(),
		Defaults: s.Config.Defaults.Inputs(),
	}
	result := assembler.Assemble(entries, contacts, counts, assessments)
	observe("scoring", start)

	for _, r := range result.GradeBook {
		metrics.GradeTotalHistogram.WithLabelValues(r.Class).Observe(r.Total)
		metrics.GradeLettersTotal.WithLabelValues(r.Class, r.Grade, r.FinalJudgement).Inc()
	}

	logger.Info.Printf("Grade book ready: %d students, %d slots", len(result.GradeBook), len(slots))

	return &Report{
		Result:   result,
		Slots:    slots,
		Overlaps: overlaps,
		Stats:    stats,
	}, nil
}

// Deliver hands the report to every exporter, then to the notifier, then
// pushes metrics when a Pushgateway is configured.
func (s *Service) Deliver(ctx context.Context, report *Report) error {
	sheets := export.Sheets(report.Result)
	for _, e := range s.Exporters {
		if err := e.Export(ctx, sheets); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
	}

	if s.Publisher != nil {
		notices := notify.Notices(report.Result.GradeBook)
		if err := s.Publisher.Publish(ctx, notices); err != nil {
			return fmt.Errorf("notify failed: %w", err)
		}
		logger.Info.Printf("Published %d notices", len(notices))
	}

	if url := s.Config.Metrics.PushgatewayURL; url != "" {
		if err := metrics.Push(ctx, url, s.Config.Metrics.Job); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) Close() error {
	var errs []error

	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if s.Publisher != nil {
		if err := s.Publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("notifier: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
