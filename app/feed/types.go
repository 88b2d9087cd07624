package feed

import (
	"time"
)

// Entry is one item as read from a feed document. Feeds differ in which
// fields they populate, so every field may be empty.
type Entry struct {
	Title       string
	Link        string
	Summary     string
	Description string

	Published       string
	Updated         string
	Created         string
	PublishedParsed *DateTuple // Publication date as already resolved by the parser, in UTC

	ID   string // Atom <id>
	GUID string // RSS <guid>
}

// DateTuple holds calendar fields of a pre-parsed date. The fields are not
// validated until they are turned into a time.Time.
type DateTuple struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// Article is an entry that passed extraction and is ready to be stored.
type Article struct {
	GUID        string
	Link        string
	Title       string
	Summary     string
	PublishedAt time.Time // Always UTC
}
