package main

import (
	"fmt"

	"github.com/RiteshGmoger/Stock-Screener/internal/collector"
	"github.com/RiteshGmoger/Stock-Screener/internal/collector/csvdir"
	"github.com/RiteshGmoger/Stock-Screener/internal/collector/yahoo"
	"github.com/RiteshGmoger/Stock-Screener/internal/config"
	"github.com/RiteshGmoger/Stock-Screener/internal/metrics"
	"github.com/RiteshGmoger/Stock-Screener/internal/storage/archive"
	"go.uber.org/zap"
)

// loadConfig reads the config file from --config, falling back to
// defaults when none was given.
func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// buildSource resolves the configured price source from the registry of
// known backends, wrapped with fetch instrumentation.
func buildSource(cfg *config.Config, m *metrics.Registry) (collector.Source, error) {
	reg := collector.NewRegistry()
	reg.Register(yahoo.New())
	if cfg.DataDir != "" {
		reg.Register(csvdir.New(cfg.DataDir))
	}

	src, err := reg.Get(cfg.Source)
	if err != nil {
		return nil, err
	}
	return collector.Instrument(src, m), nil
}

// buildArchive maps the archive config to a backend. Returns nil when
// archiving is disabled.
func buildArchive(cfg *config.Config) (archive.Storage, error) {
	a := cfg.Output.Archive
	switch a.Type {
	case "":
		return nil, nil
	case "localfs":
		return archive.NewLocalFS(a.Path)
	case "s3":
		return archive.NewS3(archive.S3Config{
			Bucket:    a.S3.Bucket,
			Endpoint:  a.S3.Endpoint,
			Region:    a.S3.Region,
			AccessKey: a.S3.AccessKey,
			SecretKey: a.S3.SecretKey,
			Prefix:    a.S3.Prefix,
		})
	default:
		return nil, fmt.Errorf("unknown archive type %q", a.Type)
	}
}
