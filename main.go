package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"listing-insights/config"
	"listing-insights/services"
	"listing-insights/storage"
	"listing-insights/utils"
)

// app carries what every command needs once flags and env are resolved.
type app struct {
	cfg    *config.Config
	logger *utils.Logger
	runID  string
	flags  flagValues
}

type flagValues struct {
	dataDir  string
	listings string
	contacts string
	source   string
	timezone string
	cutoff   float64
	topN     int
	format   string
	out      string
	logLevel string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "listing-insights",
		Short:         "Descriptive analytics over vehicle listings and buyer contacts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runReport(cmd.Context())
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.flags.dataDir, "data-dir", "", "directory holding the input files (env DATA_DIR)")
	f.StringVar(&a.flags.listings, "listings", "", "listings file name (env LISTINGS_FILE)")
	f.StringVar(&a.flags.contacts, "contacts", "", "contacts file name (env CONTACTS_FILE)")
	f.StringVar(&a.flags.source, "source", "", "dataset source: csv | postgres (env DATA_SOURCE)")
	f.StringVar(&a.flags.timezone, "timezone", "", "zone used to bucket contacts by month (env REPORT_TIMEZONE)")
	f.Float64Var(&a.flags.cutoff, "cutoff", 0, "percentage of contacts covering the most contacted listings (env CUTOFF_PERCENTAGE)")
	f.IntVar(&a.flags.topN, "top-n", 0, "ranking size per month (env TOP_N)")
	f.StringVar(&a.flags.format, "format", "", "extra output: text | csv | xlsx | pdf (env OUTPUT_FORMAT)")
	f.StringVar(&a.flags.out, "out", "", "output directory for csv, xlsx and pdf (env OUTPUT_PATH)")
	f.StringVar(&a.flags.logLevel, "log-level", "", "debug | info | warn | error (env LOG_LEVEL)")

	root.AddCommand(
		&cobra.Command{
			Use:   "report",
			Short: "Compute and print the four report sections",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.runReport(cmd.Context())
			},
		},
		newImportCmd(a),
	)
	return root
}

// setup loads env config, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	override := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	override("data-dir", func() { cfg.DataDir = a.flags.dataDir })
	override("listings", func() { cfg.ListingsFile = a.flags.listings })
	override("contacts", func() { cfg.ContactsFile = a.flags.contacts })
	override("source", func() { cfg.DataSource = a.flags.source })
	override("timezone", func() { cfg.Timezone = a.flags.timezone })
	override("cutoff", func() { cfg.CutoffPercentage = a.flags.cutoff })
	override("top-n", func() { cfg.TopN = a.flags.topN })
	override("format", func() { cfg.OutputFormat = a.flags.format })
	override("out", func() { cfg.OutputPath = a.flags.out })
	override("log-level", func() { cfg.LogLevel = a.flags.logLevel })

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := utils.NewLoggerWithLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.runID = uuid.NewString()
	a.logger = logger.With("run_id", a.runID)
	return nil
}

func (a *app) runReport(ctx context.Context) error {
	cfg, logger := a.cfg, a.logger
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	logger.Info("=== Listing Insights starting ===")
	logger.Info("[main] Config: source: %s | zone: %s | cutoff: %v%% | top: %d | format: %s",
		cfg.DataSource, loc, cfg.CutoffPercentage, cfg.TopN, cfg.OutputFormat)

	source, closeSource, err := a.datasetSource(ctx)
	if err != nil {
		return err
	}
	defer closeSource()

	ds, err := source.Load(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrIO) {
			logger.Error("[main] Input file missing or unreadable: %v", err)
		}
		return fmt.Errorf("load dataset: %w", err)
	}

	start := time.Now()
	svc := services.NewInsightService(logger, services.InsightOptions{
		Location:         loc,
		CutoffPercentage: cfg.CutoffPercentage,
		TopN:             cfg.TopN,
		MaxConcurrency:   cfg.MaxConcurrency,
	})
	report := svc.Generate(ds)
	report.RunID = a.runID
	logger.Debug("[main] Report computed in %v", time.Since(start))

	if err := services.NewConsoleRenderer().Render(os.Stdout, report); err != nil {
		return err
	}

	exporter, err := storage.NewExporter(cfg.OutputFormat, cfg.OutputPath, cfg.ChromeBin, logger)
	if err != nil {
		return err
	}
	if exporter != nil {
		if err := exporter.Export(ctx, report); err != nil {
			logger.Error("[main] Export (%s) failed: %v", cfg.OutputFormat, err)
			return err
		}
	}

	if report.Failed() {
		return errors.New("every report section failed")
	}
	return nil
}

// datasetSource picks the configured backend. The returned func releases it.
func (a *app) datasetSource(ctx context.Context) (storage.DatasetSource, func(), error) {
	if a.cfg.DataSource == config.SourcePostgres {
		store, err := a.openPostgres(ctx)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
	return storage.NewCSVSource(a.cfg.ListingsPath(), a.cfg.ContactsPath(), a.logger), func() {}, nil
}

func (a *app) openPostgres(ctx context.Context) (*storage.PostgresStore, error) {
	store, err := storage.NewPostgresStore(ctx, a.cfg.DSN(), &utils.RetryConfig{
		MaxAttempts: a.cfg.MaxRetries,
		BaseDelay:   2 * time.Second,
		Logger:      a.logger,
	})
	if err != nil {
		a.logger.Error("[postgres] Failed to connect to PostgreSQL: %v", err)
		return nil, err
	}
	return store, nil
}
