package internal

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/kvesta/vulnmgt/config"
	"github.com/kvesta/vulnmgt/internal/report"
	"github.com/kvesta/vulnmgt/internal/sweeper"
	"github.com/kvesta/vulnmgt/pkg/vulnlib"

	log "github.com/sirupsen/logrus"
)

// Stdout receives the console summaries
var Stdout io.Writer = os.Stdout

func openStore(ctx context.Context, s *config.Settings) (vulnlib.Store, error) {
	db, err := vulnlib.Open(ctx, s.Store)
	if err != nil {
		return nil, fmt.Errorf("connect to store: %w", err)
	}

	return db, nil
}

// DoReport builds the detailed vulnerability report for opts.Network
func DoReport(ctx context.Context, s *config.Settings, opts ReportOptions) error {

	// reject a bad range before touching the store
	if _, err := report.ParseNetwork(opts.Network); err != nil {
		return err
	}

	db, err := openStore(ctx, s)
	if err != nil {
		return err
	}
	defer db.Close()

	agg := &report.Aggregator{
		DB:      db,
		Network: opts.Network,
	}

	res, err := agg.Collect(ctx)
	if err != nil {
		return err
	}

	sections, err := report.Sections(ctx, db, res)
	if err != nil {
		return err
	}

	output := opts.Output
	if output == "" {
		output = s.Report.Output
	}

	err = report.SaveHTML(output, report.RenderHTML(res.Network, sections))
	if err != nil {
		return fmt.Errorf("saving report: %w", err)
	}

	err = report.ResolveReportData(Stdout, res.Network, sections)
	if err != nil {
		log.Printf("report error %v", err)
	}

	if opts.JSONOutput != "" {
		err = report.ReportToJson(opts.JSONOutput, sections)
		if err != nil {
			return fmt.Errorf("saving json: %w", err)
		}
	}

	return nil
}

// DoClean counts stale host records and removes them when opts.Delete is set
func DoClean(ctx context.Context, s *config.Settings, opts CleanOptions) error {

	log.Printf(config.Green("Start looking for stale records"))

	db, err := openStore(ctx, s)
	if err != nil {
		return err
	}
	defer db.Close()

	olderThan := opts.OlderThan
	if olderThan <= 0 {
		olderThan = s.Clean.OlderThan
	}

	sw := &sweeper.Sweeper{
		DB:        db,
		OlderThan: olderThan,
		Delete:    opts.Delete,
	}

	res, err := sw.Sweep(ctx)
	if err != nil {
		return err
	}

	err = report.ResolveSweepData(Stdout, res)
	if err != nil {
		log.Printf("report error %v", err)
	}

	return nil
}

// DoImport loads a json or json lines file of kind into the store
func DoImport(ctx context.Context, s *config.Settings, kind, filename string) error {

	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	db, err := openStore(ctx, s)
	if err != nil {
		return err
	}
	defer db.Close()

	count, err := vulnlib.Load(ctx, db, kind, f)
	log.Printf("Imported %s %s from %s", config.Yellow(count), kind, filename)

	return err
}
