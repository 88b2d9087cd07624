package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const articlesTable = "articles"

var _ ArticleRepository = (*SQLArticleRepository)(nil)

type SQLArticleRepository struct {
	db *DB
}

func NewArticleRepository(db *DB) *SQLArticleRepository {
	return &SQLArticleRepository{db: db}
}

// ArticleExists reports whether an article with the given source URL and
// guid is already stored. Only existence is queried, no row content.
func (r *SQLArticleRepository) ArticleExists(ctx context.Context, sourceURL, guid string) (bool, error) {
	query, args, err := r.db.builder().
		Select("1").
		From(articlesTable).
		Where(sq.Eq{"source_url": sourceURL, "guid": guid}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build exists query: %w", err)
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check article existence: %w", err)
	}

	return true, nil
}

// InsertArticle stores a new article. fetched_at is left to the column
// default. A (source_url, guid) collision returns ErrDuplicateArticle.
func (r *SQLArticleRepository) InsertArticle(ctx context.Context, article Article) error {
	if article.ID == "" {
		article.ID = uuid.NewString()
	}

	query, args, err := r.db.builder().
		Insert(articlesTable).
		Columns("id", "source_url", "guid", "link", "title", "summary", "published_at").
		Values(article.ID, article.SourceURL, article.GUID, article.Link, article.Title, article.Summary, article.PublishedAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateArticle, article.GUID)
		}
		return fmt.Errorf("failed to insert article: %w", err)
	}

	return nil
}

// GetArticle returns the stored article, or nil when there is none.
func (r *SQLArticleRepository) GetArticle(ctx context.Context, sourceURL, guid string) (*Article, error) {
	query, args, err := r.db.builder().
		Select("id", "source_url", "guid", "link", "title", "summary", "published_at", "fetched_at").
		From(articlesTable).
		Where(sq.Eq{"source_url": sourceURL, "guid": guid}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var article Article
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&article.ID, &article.SourceURL, &article.GUID, &article.Link,
		&article.Title, &article.Summary, &article.PublishedAt, &article.FetchedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}

	return &article, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
			return true
		}
		return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "UNIQUE")
	}

	return false
}
