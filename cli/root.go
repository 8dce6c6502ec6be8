package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"space-missions/config"
	"space-missions/services"
	"space-missions/storage"
	"space-missions/utils"
)

// app carries the state shared by every subcommand. The query service is
// built in the root's pre-run, after flags have been applied to cfg.
type app struct {
	cfg    *config.Config
	logger *utils.Logger

	queries *services.QueryService
	closer  io.Closer
}

// Execute runs the missions command tree and releases the dataset source
// afterwards, whether or not the command succeeded.
func Execute(cfg *config.Config, logger *utils.Logger) error {
	root, a := newRootCommand(cfg, logger)
	return execute(root, a)
}

func execute(root *cobra.Command, a *app) error {
	runErr := root.Execute()
	if err := a.teardown(); err != nil {
		a.logger.Warn("[cli] Closing source: %v", err)
	}
	return runErr
}

// NewRootCommand builds the missions command tree. Flag defaults come from
// cfg so that flags override the environment. Callers that open a Postgres
// source should prefer Execute, which closes it.
func NewRootCommand(cfg *config.Config, logger *utils.Logger) *cobra.Command {
	root, _ := newRootCommand(cfg, logger)
	return root
}

func newRootCommand(cfg *config.Config, logger *utils.Logger) (*cobra.Command, *app) {
	a := &app{cfg: cfg, logger: logger}

	root := &cobra.Command{
		Use:           "missions",
		Short:         "Query the historical space missions dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.Source, "source", cfg.Source, "dataset source: csv or postgres")
	flags.StringVar(&cfg.CSVPath, "csv", cfg.CSVPath, "path to the missions CSV file")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")

	root.AddCommand(
		a.companyCountCmd(),
		a.successRateCmd(),
		a.dateRangeCmd(),
		a.topCmd(),
		a.statusCountCmd(),
		a.yearCountCmd(),
		a.mostUsedRocketCmd(),
		a.averageCmd(),
		a.reportCmd(),
		a.serveCmd(),
	)
	return root, a
}

func (a *app) setup(ctx context.Context) error {
	a.logger.SetLevel(utils.ParseLevel(a.cfg.LogLevel))

	source, err := a.openSource(ctx)
	if err != nil {
		return err
	}
	cache := services.NewMissionCache(services.NewLoader(source, a.logger), a.logger)
	a.queries = services.NewQueryService(cache, a.logger)
	return nil
}

func (a *app) openSource(ctx context.Context) (storage.MissionSource, error) {
	switch strings.ToLower(a.cfg.Source) {
	case config.SourceCSV, "":
		return storage.NewCSVSource(a.cfg.CSVPath), nil
	case config.SourcePostgres:
		retry := &utils.RetryConfig{
			MaxAttempts: a.cfg.MaxRetries,
			BaseDelay:   a.cfg.RetryDelay(),
			Logger:      a.logger,
		}
		src, err := storage.NewPostgresSource(ctx, a.cfg.DSN(), a.cfg.PostgresTable, retry)
		if err != nil {
			return nil, &services.DataLoadError{Source: "postgres:" + a.cfg.PostgresTable, Err: err}
		}
		a.closer = src
		return src, nil
	default:
		return nil, fmt.Errorf("unknown source %q (want %s or %s)", a.cfg.Source, config.SourceCSV, config.SourcePostgres)
	}
}

func (a *app) teardown() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}

// intArg parses a positional integer. Values that do not parse yield def.
func intArg(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
