package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(context.Background(), "sqlite://"+filepath.Join(t.TempDir(), "articles.db"), "unused")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	version, dirty, err := RunMigrations(db)
	if err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	if dirty {
		t.Fatalf("Expected clean migration state at version %d", version)
	}

	return db
}

func testArticle() Article {
	return Article{
		SourceURL:   "http://x",
		GUID:        "g1",
		Link:        "http://x/1",
		Title:       "T",
		Summary:     "S",
		PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	version, dirty, err := RunMigrations(db)
	if err != nil {
		t.Fatalf("Expected no error on second run, got: %v", err)
	}
	if version != 1 || dirty {
		t.Errorf("Expected version 1 clean, got version %d dirty=%v", version, dirty)
	}
}

func TestArticleExists(t *testing.T) {
	db := newTestDB(t)
	repo := NewArticleRepository(db)
	ctx := context.Background()

	exists, err := repo.ArticleExists(ctx, "http://x", "g1")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if exists {
		t.Error("Expected article to be absent in an empty store")
	}

	if err := repo.InsertArticle(ctx, testArticle()); err != nil {
		t.Fatalf("Failed to insert article: %v", err)
	}

	exists, err = repo.ArticleExists(ctx, "http://x", "g1")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !exists {
		t.Error("Expected article to exist after insert")
	}

	// Both columns must match.
	for _, tc := range []struct{ sourceURL, guid string }{
		{"http://other", "g1"},
		{"http://x", "g2"},
	} {
		exists, err := repo.ArticleExists(ctx, tc.sourceURL, tc.guid)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if exists {
			t.Errorf("Expected (%s, %s) to be absent", tc.sourceURL, tc.guid)
		}
	}
}

func TestInsertArticleStoresFields(t *testing.T) {
	db := newTestDB(t)
	repo := NewArticleRepository(db)
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Minute)
	if err := repo.InsertArticle(ctx, testArticle()); err != nil {
		t.Fatalf("Failed to insert article: %v", err)
	}

	article, err := repo.GetArticle(ctx, "http://x", "g1")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if article == nil {
		t.Fatal("Expected stored article, got nil")
	}

	if article.ID == "" {
		t.Error("Expected generated ID")
	}
	if article.Link != "http://x/1" || article.Title != "T" || article.Summary != "S" {
		t.Errorf("Unexpected stored article: %+v", article)
	}
	if !article.PublishedAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected published_at 2024-01-01T00:00:00Z, got %v", article.PublishedAt)
	}
	if article.FetchedAt.Before(before) {
		t.Errorf("Expected fetched_at to be set by the store, got %v", article.FetchedAt)
	}
}

func TestInsertArticleDuplicate(t *testing.T) {
	db := newTestDB(t)
	repo := NewArticleRepository(db)
	ctx := context.Background()

	if err := repo.InsertArticle(ctx, testArticle()); err != nil {
		t.Fatalf("Failed to insert article: %v", err)
	}

	duplicate := testArticle()
	duplicate.Title = "Different title"
	err := repo.InsertArticle(ctx, duplicate)
	if !errors.Is(err, ErrDuplicateArticle) {
		t.Fatalf("Expected ErrDuplicateArticle, got: %v", err)
	}

	// The first insert is kept untouched.
	article, err := repo.GetArticle(ctx, "http://x", "g1")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if article.Title != "T" {
		t.Errorf("Expected original title to be kept, got '%s'", article.Title)
	}

	// The same guid under another source is a different article.
	other := testArticle()
	other.SourceURL = "http://y"
	if err := repo.InsertArticle(ctx, other); err != nil {
		t.Errorf("Expected insert under another source to succeed, got: %v", err)
	}
}

func TestGetArticleMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewArticleRepository(db)

	article, err := repo.GetArticle(context.Background(), "http://x", "missing")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if article != nil {
		t.Errorf("Expected nil article, got %+v", article)
	}
}

func TestArticleExistsClosedDB(t *testing.T) {
	db := newTestDB(t)
	repo := NewArticleRepository(db)
	db.Close()

	if _, err := repo.ArticleExists(context.Background(), "http://x", "g1"); err == nil {
		t.Error("Expected error from a closed database")
	}
}
