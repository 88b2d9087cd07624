package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/lysyi3m/rss-ingest/app/cfg"
	"github.com/lysyi3m/rss-ingest/app/config"
	"github.com/lysyi3m/rss-ingest/app/database"
	"github.com/lysyi3m/rss-ingest/app/feed"
	"github.com/lysyi3m/rss-ingest/app/logging"
	"github.com/lysyi3m/rss-ingest/app/tasks"
)

func main() {
	appCfg, err := cfg.Load(os.Args[1:])
	if err != nil {
		fatal("Failed to load configuration", err)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	slog.SetDefault(logging.New(os.Stdout, appCfg.LogLevel))
	slog.Info("Starting RSS ingest", "version", appCfg.Version)

	feeds, err := config.NewLoader(appCfg.ConfigPath).Load()
	if err != nil {
		fatal("Failed to load feeds configuration", err)
	}
	slog.Info("Feeds configuration loaded", "path", appCfg.ConfigPath, "count", len(feeds))

	ctx := context.Background()

	connectCtx, cancel := context.WithTimeout(ctx, appCfg.StoreTimeout)
	db, err := database.NewConnection(connectCtx, appCfg.StoreURL, appCfg.StoreKey)
	cancel()
	if err != nil {
		fatal("Failed to connect to article store", err)
	}
	defer db.Close()
	slog.Info("Connected to article store", "dialect", db.Dialect())

	if !appCfg.SkipMigrations {
		version, dirty, err := database.RunMigrations(db)
		if err != nil {
			db.Close()
			fatal("Failed to run migrations", err)
		}
		slog.Info("Database migrations applied", "version", version, "dirty", dirty)
	}

	articleRepo := database.NewArticleRepository(db)
	fetcher := feed.NewFetcher(&http.Client{}, appCfg.UserAgent, appCfg.AcceptLanguage, appCfg.FetchTimeout)
	checker := tasks.NewDuplicateChecker(articleRepo, appCfg.DuplicateCheck, appCfg.StoreTimeout)
	runner := tasks.NewRunner(fetcher, feed.NewParser(), checker, articleRepo, appCfg.StoreTimeout)

	runner.Run(ctx, feeds)

	slog.Info("Ingestion finished", "feeds", len(feeds))
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
