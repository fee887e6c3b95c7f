package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/RiteshGmoger/Stock-Screener/internal/logger"
	"github.com/RiteshGmoger/Stock-Screener/internal/report"
	"github.com/RiteshGmoger/Stock-Screener/internal/scorer"
	"github.com/RiteshGmoger/Stock-Screener/internal/screener"
	"github.com/spf13/cobra"
)

var (
	screenDate string
	screenTop  int
)

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Rank the universe at a date",
	Long: `Screen fetches price history for every ticker in the universe,
computes trend and momentum indicators as of the given date and prints
the top-ranked candidates. Only data available at that date is used.`,
	RunE: runScreen,
}

func init() {
	screenCmd.Flags().StringVar(&screenDate, "date", "", "as-of date YYYY-MM-DD (default: today)")
	screenCmd.Flags().IntVar(&screenTop, "top", 0, "override the number of candidates to keep")

	rootCmd.AddCommand(screenCmd)
}

func runScreen(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	if screenTop > 0 {
		cfg.Screen.TopN = screenTop
	}

	asOf := time.Now().UTC().Truncate(24 * time.Hour)
	if screenDate != "" {
		asOf, err = time.Parse("2006-01-02", screenDate)
		if err != nil {
			return fmt.Errorf("invalid date format (expected YYYY-MM-DD): %w", err)
		}
	}

	src, err := buildSource(cfg, nil)
	if err != nil {
		return err
	}

	scCfg := scorer.DefaultConfig()
	scCfg.MAWeight = cfg.Screen.MAWeight
	scCfg.RSIWeight = cfg.Screen.RSIWeight
	sc, err := scorer.New(scCfg)
	if err != nil {
		return err
	}

	scr, err := screener.New(src, sc, screener.Config{
		LookbackDays: cfg.Screen.LookbackDays,
		TopN:         cfg.Screen.TopN,
		MAWindow:     cfg.Screen.MAWindow,
		RSIWindow:    cfg.Screen.RSIWindow,
		FetchTimeout: cfg.Screen.FetchTimeout,
	}, log, nil)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	res, err := scr.Screen(ctx, cfg.Universe, asOf)
	if err != nil {
		return err
	}

	fmt.Printf("=== Screen %s ===\n\n", asOf.Format("2006-01-02"))
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tTICKER\tPRICE\tMA\tRSI\tSCORE")
	for _, c := range res.Candidates {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%.2f\t%.2f\t%.2f\n",
			c.Rank, c.Ticker, c.Price, c.MA, c.RSI, c.Score)
	}
	w.Flush()

	if len(res.Exclusions) > 0 {
		fmt.Printf("\n%d ticker(s) excluded:\n", len(res.Exclusions))
		for _, e := range res.Exclusions {
			fmt.Printf("  %-14s %s\n", e.Ticker, e.Reason)
		}
	}

	store, err := buildArchive(cfg)
	if err != nil {
		return err
	}
	exporter := report.NewExporter(cfg.Output.Dir, store, log)
	path, err := exporter.ExportScreen(ctx, res)
	if err != nil {
		return err
	}
	fmt.Printf("\nResults written to %s\n", path)

	return nil
}
