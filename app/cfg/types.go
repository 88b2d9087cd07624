package cfg

import "time"

type Cfg struct {
	// Feeds file
	ConfigPath string

	// Article store credentials
	StoreURL string
	StoreKey string

	// Feed fetching
	FetchTimeout   time.Duration
	UserAgent      string
	AcceptLanguage string

	// Ingestion behaviour
	StoreTimeout   time.Duration
	DuplicateCheck DuplicateCheckPolicy
	SkipMigrations bool

	// Application metadata
	LogLevel string
	Version  string
}

// DuplicateCheckPolicy decides what happens to an entry when the existence
// query against the store fails.
type DuplicateCheckPolicy string

const (
	// FailOpen treats the entry as new and lets the unique constraint reject it.
	FailOpen DuplicateCheckPolicy = "fail-open"
	// FailClosed skips the entry.
	FailClosed DuplicateCheckPolicy = "fail-closed"
)
