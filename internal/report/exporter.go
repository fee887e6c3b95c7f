package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/RiteshGmoger/Stock-Screener/internal/backtest"
	"github.com/RiteshGmoger/Stock-Screener/internal/screener"
	"github.com/RiteshGmoger/Stock-Screener/internal/storage/archive"
	"go.uber.org/zap"
)

// Exporter writes CSV artifacts to the output directory and, when an
// archive is configured, keeps a copy under runs/<run-id>/.
type Exporter struct {
	dir     string
	archive archive.Storage
	logger  *zap.Logger
}

// NewExporter creates an exporter. A nil store disables archiving.
func NewExporter(dir string, store archive.Storage, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{dir: dir, archive: store, logger: logger}
}

// ExportBacktest writes the four backtest artifacts and returns the
// local paths written.
func (e *Exporter) ExportBacktest(ctx context.Context, res *backtest.Result) ([]string, error) {
	monthly, err := MonthlyCSV(res.Months)
	if err != nil {
		return nil, fmt.Errorf("rendering monthly results: %w", err)
	}
	picks, err := PicksCSV(res.Picks)
	if err != nil {
		return nil, fmt.Errorf("rendering picks: %w", err)
	}
	summary, err := SummaryCSV(res.RunID, res.Stats)
	if err != nil {
		return nil, fmt.Errorf("rendering summary: %w", err)
	}
	drops, err := DropsCSV(res.Drops)
	if err != nil {
		return nil, fmt.Errorf("rendering exclusions: %w", err)
	}

	files := []struct {
		name string
		data []byte
	}{
		{"backtest_results.csv", monthly},
		{"backtest_picks.csv", picks},
		{"backtest_summary.csv", summary},
		{"backtest_exclusions.csv", drops},
	}

	var written []string
	for _, f := range files {
		path, err := e.write(ctx, res.RunID, f.name, f.data)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}

	e.logger.Info("backtest artifacts written",
		zap.String("run_id", res.RunID),
		zap.String("dir", e.dir),
		zap.Int("files", len(written)),
	)
	return written, nil
}

// ExportScreen writes a single screen's candidates.
func (e *Exporter) ExportScreen(ctx context.Context, res *screener.Result) (string, error) {
	data, err := CandidatesCSV(res)
	if err != nil {
		return "", fmt.Errorf("rendering candidates: %w", err)
	}
	runID := res.AsOf.Format("screen-2006-01-02")
	return e.write(ctx, runID, "screener_results.csv", data)
}

// write lands the file locally, then mirrors it to the archive. Archive
// failures are logged, not fatal: the local copy is the primary output.
func (e *Exporter) write(ctx context.Context, runID, name string, data []byte) (string, error) {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}

	if e.archive != nil {
		key := "runs/" + runID + "/" + name
		if err := e.archive.Write(ctx, key, data); err != nil {
			e.logger.Warn("archive write failed",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}
	return path, nil
}
