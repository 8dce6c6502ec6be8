package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"space-missions/models"
	"space-missions/services"
	"space-missions/storage"
	"space-missions/utils"
)

const (
	missionsChartFile = "missions_per_year.png"
	successChartFile  = "success_rate_by_year.png"
)

type reportOptions struct {
	from, to  string
	companies []string
	statuses  []string
	columns   []string

	csvOut   string
	xlsxOut  string
	chartDir string
}

func (a *app) reportCmd() *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the insight report and optionally export the filtered data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.queries.Table(cmd.Context())
			if err != nil {
				return err
			}
			view := services.ParseFilter(opts.from, opts.to, opts.companies, opts.statuses).Apply(table)

			insights := services.NewInsightService(a.logger)
			report := insights.Generate(view)
			insights.Print(cmd.OutOrStdout(), report)

			return a.writeArtifacts(view, report, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.from, "from", "", "earliest launch date (YYYY-MM-DD)")
	f.StringVar(&opts.to, "to", "", "latest launch date (YYYY-MM-DD)")
	f.StringSliceVar(&opts.companies, "company", nil, "only these companies (repeatable)")
	f.StringSliceVar(&opts.statuses, "status", nil, "only these mission statuses (repeatable)")
	f.StringSliceVar(&opts.columns, "column", nil, "columns to export (default: all)")
	f.StringVar(&opts.csvOut, "csv-out", "", "write the filtered rows to this CSV file")
	f.StringVar(&opts.xlsxOut, "xlsx-out", "", "write the filtered rows to this XLSX file")
	f.StringVar(&opts.chartDir, "chart-dir", "", "write yearly PNG charts into this directory")
	return cmd
}

// writeArtifacts writes each requested export on the worker pool. The
// view is read-only, so the jobs share it.
func (a *app) writeArtifacts(view *models.MissionTable, report *models.InsightReport, opts reportOptions) error {
	if opts.csvOut == "" && opts.xlsxOut == "" && opts.chartDir == "" {
		return nil
	}
	columns, err := services.SelectColumns(view, opts.columns)
	if err != nil {
		return err
	}

	pool := utils.NewWorkerPool(a.cfg.ReportWorkers)

	if opts.csvOut != "" {
		pool.Submit(func() error {
			w, err := storage.CreateCSVWriter(opts.csvOut)
			if err != nil {
				return err
			}
			return a.export(w, view, columns, opts.csvOut)
		})
	}
	if opts.xlsxOut != "" {
		pool.Submit(func() error {
			w, err := storage.CreateXLSXWriter(opts.xlsxOut)
			if err != nil {
				return err
			}
			return a.export(w, view, columns, opts.xlsxOut)
		})
	}
	if opts.chartDir != "" && len(report.Yearly) == 0 {
		a.logger.Warn("[report] No dated missions in view, skipping charts")
	} else if opts.chartDir != "" {
		charts := map[string]func(f *os.File) error{
			missionsChartFile: func(f *os.File) error { return services.WriteMissionsPerYearChart(f, report.Yearly) },
			successChartFile:  func(f *os.File) error { return services.WriteSuccessRateChart(f, report.Yearly) },
		}
		for name, render := range charts {
			path := filepath.Join(opts.chartDir, name)
			pool.Submit(func() error { return a.writeChart(path, render) })
		}
	}

	return pool.Wait()
}

func (a *app) export(w storage.MissionExporter, view *models.MissionTable, columns []string, path string) error {
	if err := w.Export(view, columns); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	a.logger.Info("[report] Wrote %d rows to %s", view.Len(), path)
	return nil
}

func (a *app) writeChart(path string, render func(*os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("chart: create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("chart: create %q: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("chart: close %q: %w", path, err)
	}
	a.logger.Info("[report] Wrote chart %s", path)
	return nil
}
