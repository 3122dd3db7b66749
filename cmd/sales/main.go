package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"restaurant-dashboard/internal/config"
	"restaurant-dashboard/internal/observability"
	"restaurant-dashboard/internal/services"
)

type globalOptions struct {
	file      string
	sheet     string
	columns   services.ColumnNames
	currency  string
	logLevel  string
	logFormat string
	noColor   bool
}

var (
	cfg  *config.Config
	opts globalOptions
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sales",
		Short: "Restaurant sales analysis from the terminal",
		Long: `sales loads a restaurant transaction sheet (xlsx or csv) and prints
period totals, a moving-average trend statement, top-selling items and
overall statistics.

Defaults come from the same environment variables as the web dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger := observability.NewLoggerTo(os.Stderr, config.LoggerConfig{
				Level:  opts.logLevel,
				Format: opts.logFormat,
			})
			slog.SetDefault(logger)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.file, "file", "f", cfg.Data.File, "transaction source (.xlsx or .csv)")
	flags.StringVar(&opts.sheet, "sheet", cfg.Data.Sheet, "worksheet name (default: first sheet)")
	flags.StringVar(&opts.columns.Date, "col-date", cfg.Data.Columns.Date, "date column header")
	flags.StringVar(&opts.columns.Item, "col-item", cfg.Data.Columns.Item, "item column header")
	flags.StringVar(&opts.columns.Quantity, "col-qty", cfg.Data.Columns.Quantity, "quantity column header")
	flags.StringVar(&opts.columns.Total, "col-total", cfg.Data.Columns.Total, "total column header")
	flags.StringVar(&opts.currency, "currency", cfg.Dashboard.CurrencySymbol, "currency symbol")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "text", "log format (text, json)")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable coloured output")

	cmd.AddCommand(reportCmd())
	cmd.AddCommand(itemsCmd())
	return cmd
}

func loadStore(ctx context.Context) (*services.Store, error) {
	loader, err := services.NewLoader(services.LoaderOptions{
		Sheet:   opts.sheet,
		Columns: opts.columns,
	}, slog.Default())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Data.LoadTimeout)
	defer cancel()

	store, err := loader.Load(ctx, opts.file)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", opts.file, err)
	}
	return store, nil
}

func main() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = rootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
