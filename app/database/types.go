package database

import (
	"time"
)

type Article struct {
	ID          string // UUID, generated on insert when empty
	SourceURL   string // Feed URL the article was read from
	GUID        string
	Link        string
	Title       string
	Summary     string
	PublishedAt time.Time
	FetchedAt   time.Time // Set by the store
}
