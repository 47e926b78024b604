package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/rollbook/internal/app"
	"github.com/shrimpsizemoose/rollbook/internal/ingest"
)

type options struct {
	configPath      string
	rosterPath      string
	formPath        string
	assessmentsPath string
	outPath         string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "config.toml", "Path to config file")
	flag.StringVar(&opts.rosterPath, "roster", "", "Roster file (.xlsx or .csv)")
	flag.StringVar(&opts.formPath, "form", "", "Form responses file (.xlsx or .csv)")
	flag.StringVar(&opts.assessmentsPath, "assessments", "", "Optional sheet of manual inputs to import into the assessment store first")
	flag.StringVar(&opts.outPath, "out", "", "Override [export] path")
	flag.Parse()

	if opts.rosterPath == "" || opts.formPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, opts)
	stop()
	if err != nil {
		logger.Error.Fatalf("%v", err)
	}
}

// run owns every collaborator it opens and closes them before returning, on
// success and on error alike.
func run(ctx context.Context, opts options) error {
	config, err := app.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.outPath != "" {
		config.Export.Path = opts.outPath
	}

	service, err := app.Build(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to init service: %w", err)
	}
	defer func() {
		if err := service.Close(); err != nil {
			logger.Error.Printf("Failed to close service: %v", err)
		}
	}()

	if opts.assessmentsPath != "" {
		table, err := ingest.ReadFile(opts.assessmentsPath, "")
		if err != nil {
			return fmt.Errorf("failed to read assessments: %w", err)
		}
		if _, err := service.ImportAssessments(table); err != nil {
			return fmt.Errorf("failed to import assessments: %w", err)
		}
	}

	rosterTable, err := ingest.ReadFile(opts.rosterPath, config.Input.RosterSheet)
	if err != nil {
		return fmt.Errorf("failed to read roster: %w", err)
	}
	formTable, err := ingest.ReadFile(opts.formPath, config.Input.FormSheet)
	if err != nil {
		return fmt.Errorf("failed to read form: %w", err)
	}
	logger.Debug.Printf("Roster columns: %v", rosterTable.Columns)
	logger.Debug.Printf("Form columns: %v", formTable.Columns)

	report, err := service.Reconcile(rosterTable, formTable)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	if err := service.Deliver(ctx, report); err != nil {
		return fmt.Errorf("delivery failed: %w", err)
	}

	if config.Export.Path != "" {
		logger.Info.Printf("Grade book written to %s", config.Export.Path)
	}
	return nil
}
