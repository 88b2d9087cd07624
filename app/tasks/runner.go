package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/rss-ingest/app/config"
	"github.com/lysyi3m/rss-ingest/app/database"
	"github.com/lysyi3m/rss-ingest/app/feed"
)

// Runner ingests configured feeds one after another. It never stops early:
// a failing feed is logged and the next one is processed.
type Runner struct {
	fetcher      *feed.Fetcher
	parser       *feed.Parser
	checker      *DuplicateChecker
	articleRepo  database.ArticleRepository
	storeTimeout time.Duration
}

func NewRunner(fetcher *feed.Fetcher, parser *feed.Parser, checker *DuplicateChecker, articleRepo database.ArticleRepository, storeTimeout time.Duration) *Runner {
	return &Runner{
		fetcher:      fetcher,
		parser:       parser,
		checker:      checker,
		articleRepo:  articleRepo,
		storeTimeout: storeTimeout,
	}
}

func (r *Runner) Run(ctx context.Context, feeds []config.FeedConfig) {
	for _, feedConfig := range feeds {
		slog.Info("Processing feed", "feed", feedConfig.Name, "url", feedConfig.URL)

		task := NewProcessFeedTask(feedConfig, r.fetcher, r.parser, r.checker, r.articleRepo, r.storeTimeout)
		if err := r.runTask(ctx, task); err != nil {
			slog.Error("Error processing feed",
				"feed", task.GetFeedName(),
				"url", feedConfig.URL,
				"task_id", task.GetID(),
				"error", err)
		}
	}
}

// runTask executes a task and turns a panic into an error so that one
// broken feed cannot end the run.
func (r *Runner) runTask(ctx context.Context, task TaskInterface) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	task.Start()
	return task.Execute(ctx)
}
