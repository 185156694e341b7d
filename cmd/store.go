package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/chambersfam/locator-cli/internal/summary"
	"github.com/chambersfam/locator-cli/pkg/locator"
)

// openSummaryStore opens the configured daily summary backend and runs
// migrations.
func openSummaryStore(ctx context.Context) (summary.Store, error) {
	var (
		store summary.Store
		err   error
	)
	switch cfg.Summary.Driver {
	case "postgres":
		store, err = summary.NewPostgres(ctx, cfg.Summary.DatabaseURL)
	default:
		store, err = summary.NewSQLite(cfg.Summary.Path)
	}
	if err != nil {
		return nil, eris.Wrap(err, "open summary store")
	}

	if err := store.Migrate(ctx); err != nil {
		store.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "migrate summary store")
	}
	return store, nil
}

// newLocatorClient builds a locator client from config.
func newLocatorClient() locator.Client {
	opts := []locator.Option{
		locator.WithRateLimit(cfg.Locator.RateLimit),
		locator.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Locator.TimeoutSecs) * time.Second,
		}),
	}
	if cfg.Locator.BaseURL != "" {
		opts = append(opts, locator.WithBaseURL(cfg.Locator.BaseURL))
	}
	return locator.NewClient(opts...)
}
