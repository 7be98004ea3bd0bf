package monitor

import (
	"context"
	"errors"
	"io"

	log "github.com/sirupsen/logrus"

	"ntp-stats/internal/config"
	"ntp-stats/internal/models"
	"ntp-stats/internal/report"
	"ntp-stats/internal/runner"
	"ntp-stats/internal/summary"
)

// Monitor coordinates a single poll: query, summarize, print
type Monitor struct {
	config config.Config
	source Source
	runner models.Runner
	charts *report.Generator
	out    io.Writer
}

// New creates a new Monitor writing the summary to out
func New(cfg config.Config, source Source, r models.Runner, out io.Writer) *Monitor {
	m := &Monitor{
		config: cfg,
		source: source,
		runner: r,
		out:    out,
	}
	if cfg.ChartDir != "" {
		m.charts = report.NewGenerator(cfg.ChartDir)
	}
	return m
}

// Run queries the tool once and prints min, max and every eligible value
// of the configured key
func (m *Monitor) Run(ctx context.Context) error {
	rows, err := m.source.Fetch(ctx, m.runner, m.config.Binary)
	if err != nil {
		return err
	}
	log.Debugf("%d eligible records from %s", len(rows), m.config.Binary)

	values := make([]models.Value, 0, len(rows))
	for _, row := range rows {
		values = append(values, row.Record.Field(m.config.Key))
	}

	if _, err := summary.Summarize(values).WriteTo(m.out); err != nil {
		return err
	}

	if m.charts != nil {
		m.generateChart(rows, values)
	}
	return nil
}

// generateChart never fails the poll; the summary has already been printed
func (m *Monitor) generateChart(rows []Row, values []models.Value) {
	bars := make([]report.Bar, 0, len(rows))
	for i, row := range rows {
		bars = append(bars, report.Bar{Label: row.Label, Value: values[i]})
	}

	if _, err := m.charts.GenerateChart(m.source.Name, m.config.Key, bars); err != nil {
		log.Warnf("Failed to generate chart: %v", err)
	}
}

// ExitCode maps a Run error to a process exit status, passing through the
// query tool's own status when it failed
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *runner.ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}
	return 1
}
