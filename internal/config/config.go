package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/RiteshGmoger/Stock-Screener/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Source    string         `mapstructure:"source"`
	DataDir   string         `mapstructure:"data_dir"`
	Universe  []string       `mapstructure:"universe"`
	Benchmark string         `mapstructure:"benchmark"`
	Screen    ScreenConfig   `mapstructure:"screen"`
	Backtest  BacktestConfig `mapstructure:"backtest"`
	Output    OutputConfig   `mapstructure:"output"`
	Metrics   MetricsConfig  `mapstructure:"metrics"`
}

// ScreenConfig holds indicator and ranking parameters shared by the
// screen and backtest commands.
type ScreenConfig struct {
	LookbackDays int           `mapstructure:"lookback_days"`
	TopN         int           `mapstructure:"top_n"`
	MAWindow     int           `mapstructure:"ma_window"`
	RSIWindow    int           `mapstructure:"rsi_window"`
	MAWeight     float64       `mapstructure:"ma_weight"`
	RSIWeight    float64       `mapstructure:"rsi_weight"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

// BacktestConfig holds the walk-forward parameters.
type BacktestConfig struct {
	Months      int `mapstructure:"months"`
	StartYear   int `mapstructure:"start_year"`
	StartMonth  int `mapstructure:"start_month"`
	HoldingDays int `mapstructure:"holding_days"`
}

// OutputConfig controls where run artifacts are written.
type OutputConfig struct {
	Dir     string        `mapstructure:"dir"`
	Archive ArchiveConfig `mapstructure:"archive"`
}

// ArchiveConfig selects the archive backend for completed runs.
type ArchiveConfig struct {
	Type string   `mapstructure:"type"` // "", "localfs" or "s3"
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// MetricsConfig controls the optional prometheus listener.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Source:    "yahoo",
		Universe:  DefaultUniverse(),
		Benchmark: DefaultBenchmark,
		Screen: ScreenConfig{
			LookbackDays: 260,
			TopN:         3,
			MAWindow:     50,
			RSIWindow:    14,
			MAWeight:     0.4,
			RSIWeight:    0.6,
			FetchTimeout: 10 * time.Second,
		},
		Backtest: BacktestConfig{
			Months:      12,
			StartYear:   2024,
			StartMonth:  2,
			HoldingDays: 30,
		},
		Output: OutputConfig{
			Dir: ".",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9090",
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if len(c.Universe) == 0 {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("universe must contain at least one ticker"))
	}
	if c.Benchmark == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("benchmark ticker is required"))
	}
	if c.Source == "csvdir" && c.DataDir == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("data_dir is required for the csvdir source"))
	}

	s := c.Screen
	if s.LookbackDays <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("lookback_days must be positive, got %d", s.LookbackDays))
	}
	if s.TopN <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("top_n must be positive, got %d", s.TopN))
	}
	if s.MAWindow <= 0 || s.RSIWindow <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("indicator windows must be positive, got ma=%d rsi=%d", s.MAWindow, s.RSIWindow))
	}
	if s.MAWeight <= 0 || s.RSIWeight <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("weights must be positive, got ma=%.2f rsi=%.2f", s.MAWeight, s.RSIWeight))
	}
	if sum := s.MAWeight + s.RSIWeight; sum < 0.999 || sum > 1.001 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("weights must sum to 1.0, got %.3f", sum))
	}
	if s.FetchTimeout < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("fetch_timeout cannot be negative, got %s", s.FetchTimeout))
	}

	b := c.Backtest
	if b.Months <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("backtest months must be positive, got %d", b.Months))
	}
	if b.StartMonth < 1 || b.StartMonth > 12 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("start_month must be 1-12, got %d", b.StartMonth))
	}
	if b.StartYear < 1900 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("start_year out of range, got %d", b.StartYear))
	}
	if b.HoldingDays <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("holding_days must be positive, got %d", b.HoldingDays))
	}

	switch c.Output.Archive.Type {
	case "", "localfs", "s3":
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown archive type %q", c.Output.Archive.Type))
	}
	if c.Output.Archive.Type == "localfs" && c.Output.Archive.Path == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("archive path required for localfs archive"))
	}
	if c.Output.Archive.Type == "s3" && c.Output.Archive.S3.Bucket == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("s3 bucket required for s3 archive"))
	}

	return nil
}
