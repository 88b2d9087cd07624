package database

import (
	"context"
	"errors"
)

// ErrDuplicateArticle is returned by InsertArticle when (source_url, guid)
// is already stored.
var ErrDuplicateArticle = errors.New("article already exists")

type ArticleRepository interface {
	ArticleExists(ctx context.Context, sourceURL, guid string) (bool, error)
	InsertArticle(ctx context.Context, article Article) error
}
