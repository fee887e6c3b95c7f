package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/RiteshGmoger/Stock-Screener/internal/core"
)

const (
	baseURL = "https://query1.finance.yahoo.com/v8/finance/chart"
)

// validSymbol matches equity and index symbols like TCS.NS, BAJAJ-AUTO.NS,
// M&M.NS, AAPL, ^NSEI
var validSymbol = regexp.MustCompile(`^\^?[A-Za-z0-9&\-]{1,15}(\.[A-Za-z]{1,4})?$`)

// validateSymbol checks if a symbol has valid format
func validateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 20 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	if !validSymbol.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format: %s", symbol)
	}
	return nil
}

// Yahoo fetches daily closes from the Yahoo Finance chart API.
type Yahoo struct {
	client  *http.Client
	baseURL string
}

// Option customizes the client.
type Option func(*Yahoo)

// WithBaseURL overrides the API endpoint (tests).
func WithBaseURL(url string) Option {
	return func(y *Yahoo) { y.baseURL = url }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(y *Yahoo) { y.client = c }
}

// New creates a new Yahoo source
func New(opts ...Option) *Yahoo {
	y := &Yahoo{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

func (y *Yahoo) Name() string {
	return "yahoo"
}

// FetchDaily fetches daily closing prices for [start, end]. The request
// window is bounded by end so the source never returns future data to a
// screening pass.
func (y *Yahoo) FetchDaily(ctx context.Context, ticker string, start, end time.Time) (core.PriceSeries, error) {
	if err := validateSymbol(ticker); err != nil {
		return core.PriceSeries{}, core.WrapError(core.ErrDataUnavailable, err)
	}

	// period2 is exclusive of the last day unless pushed past midnight
	url := fmt.Sprintf("%s/%s?interval=1d&period1=%d&period2=%d&events=div%%2Csplit",
		y.baseURL, ticker, start.Unix(), end.Add(24*time.Hour).Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return core.PriceSeries{}, core.WrapError(core.ErrDataUnavailable, err)
	}

	resp, err := y.client.Do(req)
	if err != nil {
		return core.PriceSeries{}, core.WrapError(core.ErrDataUnavailable,
			fmt.Errorf("fetching history: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return core.PriceSeries{}, core.WrapError(core.ErrDataUnavailable,
			fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	var result chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return core.PriceSeries{}, core.WrapError(core.ErrDataUnavailable,
			fmt.Errorf("decoding response: %w", err))
	}

	if result.Chart.Error != nil {
		return core.PriceSeries{}, core.WrapError(core.ErrDataUnavailable,
			fmt.Errorf("yahoo error: %s", result.Chart.Error.Description))
	}

	if len(result.Chart.Result) == 0 {
		return core.PriceSeries{}, core.WrapError(core.ErrNoData,
			fmt.Errorf("no data for symbol: %s", ticker))
	}

	r := result.Chart.Result[0]
	if len(r.Indicators.Quote) == 0 {
		return core.PriceSeries{}, core.WrapError(core.ErrNoData,
			fmt.Errorf("no quote data for symbol: %s", ticker))
	}
	quotes := r.Indicators.Quote[0]

	points := make([]core.PricePoint, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(quotes.Close) || quotes.Close[i] == nil {
			continue // Skip missing data
		}
		date := time.Unix(int64(ts), 0).UTC().Truncate(24 * time.Hour)
		if date.Before(start) || date.After(end) {
			continue
		}
		points = append(points, core.PricePoint{
			Date:  date,
			Close: *quotes.Close[i],
		})
	}

	series := core.PriceSeries{Ticker: ticker, Points: points}
	if err := series.Validate(); err != nil {
		return core.PriceSeries{}, err
	}
	return series, nil
}

// Yahoo API response types
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int      `json:"timestamp"`
	Indicators indicators `json:"indicators"`
}

type indicators struct {
	Quote []quoteIndicator `json:"quote"`
}

type quoteIndicator struct {
	Close []*float64 `json:"close"`
}
