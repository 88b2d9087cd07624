package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/lysyi3m/rss-ingest/app/cfg"
	"github.com/lysyi3m/rss-ingest/app/database"
)

// DuplicateChecker decides whether an entry was ingested before. When the
// store cannot answer, the configured policy decides: fail-open reports
// "not a duplicate" and relies on the unique constraint, fail-closed
// reports "duplicate" so the entry is skipped this run.
type DuplicateChecker struct {
	articleRepo database.ArticleRepository
	policy      cfg.DuplicateCheckPolicy
	timeout     time.Duration
}

func NewDuplicateChecker(articleRepo database.ArticleRepository, policy cfg.DuplicateCheckPolicy, timeout time.Duration) *DuplicateChecker {
	return &DuplicateChecker{
		articleRepo: articleRepo,
		policy:      policy,
		timeout:     timeout,
	}
}

func (c *DuplicateChecker) Exists(ctx context.Context, sourceURL, guid string) bool {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	exists, err := c.articleRepo.ArticleExists(timeoutCtx, sourceURL, guid)
	if err != nil {
		slog.Error("Duplicate check failed", "url", sourceURL, "guid", guid, "policy", c.policy, "error", err)
		return c.policy == cfg.FailClosed
	}

	return exists
}
