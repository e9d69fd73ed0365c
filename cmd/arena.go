package main

import (
	"context"
	"fmt"
	"io"

	"github.com/okian/picarena/internal/adapters/gallery"
	"github.com/okian/picarena/internal/adapters/repository"
	service "github.com/okian/picarena/internal/app"
	"github.com/okian/picarena/internal/config"
	"github.com/okian/picarena/internal/domain/rating"
	"github.com/okian/picarena/pkg/logger"
)

// loadConfig loads configuration and initializes the global logger on logOut.
func (o *rootOptions) loadConfig(ctx context.Context, logOut io.Writer) (*config.Config, error) {
	cfg, err := config.Load(ctx,
		config.WithFile(o.configFile),
		config.WithEnvFile(o.envFile, o.envRequired),
	)
	if err != nil {
		return nil, err
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithOutput(logOut)); err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}
	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}

func newGallery(cfg *config.Config) *gallery.Gallery {
	return gallery.New(cfg.ImagesDir, gallery.WithExtensions(cfg.Extensions...))
}

// newService builds the service from cfg and brings the stores in line with
// the image directory. extra options are applied after the configured ones.
func newService(ctx context.Context, cfg *config.Config, extra ...service.Option) (*service.Service, error) {
	tie, err := rating.ParseTieScoring(cfg.TieScoring)
	if err != nil {
		return nil, err
	}
	engine := rating.NewEngine(
		rating.WithKFactor(cfg.KFactor),
		rating.WithInitialRating(cfg.InitialRating),
		rating.WithTieScoring(tie),
	)

	opts := []service.Option{
		service.WithLogger(logger.Named("service")),
		service.WithEngine(engine),
		service.WithRoundCacheSize(cfg.RoundCacheSize),
		service.WithResetSecret(cfg.ResetSecret),
	}
	if cfg.RoundsFile != "" {
		opts = append(opts, service.WithRoundStore(repository.NewFileRoundStore(cfg.RoundsFile)))
	}
	svc := service.New(
		newGallery(cfg),
		repository.NewFileRatingStore(cfg.RatingsFile),
		repository.NewFileLedgerStore(cfg.StatsFile),
		append(opts, extra...)...,
	)
	if err := svc.Start(ctx); err != nil {
		return nil, fmt.Errorf("start service: %w", err)
	}
	return svc, nil
}
