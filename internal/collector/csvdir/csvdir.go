// Package csvdir serves price history from per-ticker CSV files, for
// offline and reproducible runs. Each file is <dir>/<TICKER>.csv with a
// "date,close" header and rows like "2024-02-15,3912.50"; index symbols
// replace '^' with '_' in the file name.
package csvdir

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/RiteshGmoger/Stock-Screener/internal/core"
)

// CSVDir is a price source backed by a directory of CSV files.
type CSVDir struct {
	dir string
}

// New creates a CSVDir source reading from dir.
func New(dir string) *CSVDir {
	return &CSVDir{dir: dir}
}

func (c *CSVDir) Name() string {
	return "csvdir"
}

func (c *CSVDir) path(ticker string) string {
	name := strings.ReplaceAll(ticker, "^", "_")
	return filepath.Join(c.dir, name+".csv")
}

// FetchDaily reads the ticker's file and returns points within [start, end].
func (c *CSVDir) FetchDaily(ctx context.Context, ticker string, start, end time.Time) (core.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return core.PriceSeries{}, err
	}

	f, err := os.Open(c.path(ticker))
	if err != nil {
		return core.PriceSeries{}, core.WrapError(core.ErrDataUnavailable,
			fmt.Errorf("opening %s: %w", c.path(ticker), err))
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2

	var points []core.PricePoint
	for line := 0; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return core.PriceSeries{}, core.WrapError(core.ErrDataUnavailable,
				fmt.Errorf("reading %s: %w", ticker, err))
		}
		if line == 0 && strings.EqualFold(record[0], "date") {
			continue // header
		}

		date, err := time.ParseInLocation("2006-01-02", record[0], time.UTC)
		if err != nil {
			return core.PriceSeries{}, core.WrapError(core.ErrDataUnavailable,
				fmt.Errorf("%s line %d: bad date %q", ticker, line+1, record[0]))
		}
		closePrice, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return core.PriceSeries{}, core.WrapError(core.ErrDataUnavailable,
				fmt.Errorf("%s line %d: bad close %q", ticker, line+1, record[1]))
		}

		if date.Before(start) || date.After(end) {
			continue
		}
		points = append(points, core.PricePoint{Date: date, Close: closePrice})
	}

	series := core.PriceSeries{Ticker: ticker, Points: points}
	if err := series.Validate(); err != nil {
		return core.PriceSeries{}, err
	}
	return series, nil
}
