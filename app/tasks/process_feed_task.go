package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/rss-ingest/app/config"
	"github.com/lysyi3m/rss-ingest/app/database"
	"github.com/lysyi3m/rss-ingest/app/feed"
)

var _ TaskInterface = (*ProcessFeedTask)(nil)

type ProcessFeedTask struct {
	Task
	FeedConfig   config.FeedConfig
	fetcher      *feed.Fetcher
	parser       *feed.Parser
	checker      *DuplicateChecker
	articleRepo  database.ArticleRepository
	storeTimeout time.Duration
}

func NewProcessFeedTask(feedConfig config.FeedConfig, fetcher *feed.Fetcher, parser *feed.Parser, checker *DuplicateChecker, articleRepo database.ArticleRepository, storeTimeout time.Duration) *ProcessFeedTask {
	return &ProcessFeedTask{
		Task:         NewTask(TaskTypeProcessFeed, feedConfig.Name),
		FeedConfig:   feedConfig,
		fetcher:      fetcher,
		parser:       parser,
		checker:      checker,
		articleRepo:  articleRepo,
		storeTimeout: storeTimeout,
	}
}

// Execute ingests one feed. A returned error means the feed as a whole
// could not be processed; entry and store failures are logged and skipped.
func (t *ProcessFeedTask) Execute(ctx context.Context) error {
	data, err := t.fetcher.Fetch(ctx, t.FeedConfig.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	entries, err := t.parser.Run(data)
	if err != nil {
		return fmt.Errorf("failed to parse feed: %w", err)
	}

	rejectedCount := 0
	duplicateCount := 0
	newCount := 0
	failedCount := 0

	for _, entry := range entries {
		article, err := feed.Extract(entry)
		if err != nil {
			slog.Warn("Skipping entry", "feed", t.FeedName, "reason", err)
			rejectedCount++
			continue
		}

		if t.checker.Exists(ctx, t.FeedConfig.URL, article.GUID) {
			duplicateCount++
			continue
		}

		if err := t.storeArticle(ctx, article); err != nil {
			if errors.Is(err, database.ErrDuplicateArticle) {
				slog.Warn("Article inserted concurrently, skipping", "feed", t.FeedName, "guid", article.GUID)
				duplicateCount++
				continue
			}
			slog.Error("Failed to insert article", "feed", t.FeedName, "guid", article.GUID, "error", err)
			failedCount++
			continue
		}

		slog.Info("Inserted new article", "feed", t.FeedName, "title", article.Title)
		newCount++
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"feed", t.FeedName,
		"duration", t.GetDuration(),
		"total", len(entries),
		"rejected", rejectedCount,
		"duplicates", duplicateCount,
		"new", newCount,
		"failed", failedCount)

	return nil
}

func (t *ProcessFeedTask) storeArticle(ctx context.Context, article feed.Article) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, t.storeTimeout)
	defer cancel()

	return t.articleRepo.InsertArticle(timeoutCtx, database.Article{
		SourceURL:   t.FeedConfig.URL,
		GUID:        article.GUID,
		Link:        article.Link,
		Title:       article.Title,
		Summary:     article.Summary,
		PublishedAt: article.PublishedAt,
	})
}
