package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
	"golang.org/x/text/language"
)

// Version is set at build time via -ldflags
var Version = "dev"

const (
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	DefaultAcceptLanguage = "en-US,en;q=0.5"
)

var (
	ErrMissingStoreURL = errors.New("store URL is required (STORE_URL)")
	ErrMissingStoreKey = errors.New("store service key is required (STORE_SERVICE_KEY)")
)

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Feeds file
	ConfigPath string `long:"config" short:"c" env:"CONFIG_PATH" default:"config.yaml" description:"Path to the YAML file listing the feeds to ingest"`

	// Article store credentials
	StoreURL string `long:"store-url" env:"STORE_URL" description:"Article store URL (postgres://user@host:port/db or sqlite://path)"`
	StoreKey string `long:"store-key" env:"STORE_SERVICE_KEY" description:"Article store service key, used as the database password"`

	// Feed fetching
	FetchTimeout   int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"20" description:"Feed fetch timeout in seconds"`
	UserAgent      string `long:"user-agent" env:"USER_AGENT" description:"User agent string for HTTP requests"`
	AcceptLanguage string `long:"accept-language" env:"ACCEPT_LANGUAGE" description:"Accept-Language header for HTTP requests"`

	// Ingestion behaviour
	StoreTimeout   int    `long:"store-timeout" env:"STORE_TIMEOUT" default:"10" description:"Timeout in seconds for a single store query"`
	DuplicateCheck string `long:"duplicate-check" env:"DUPLICATE_CHECK" default:"fail-open" choice:"fail-open" choice:"fail-closed" description:"What to do with an entry when the duplicate check query fails"`
	SkipMigrations bool   `long:"skip-migrations" env:"SKIP_MIGRATIONS" description:"Do not apply schema migrations before ingesting"`

	LogLevel string `long:"log-level" env:"LOG_LEVEL" default:"info" description:"Log level (debug, info, warn, error)"`
}

// Load parses command-line arguments and environment variables. It returns
// nil, nil when help was requested.
func Load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		ConfigPath:     raw.ConfigPath,
		StoreURL:       raw.StoreURL,
		StoreKey:       raw.StoreKey,
		FetchTimeout:   time.Duration(raw.FetchTimeout) * time.Second,
		UserAgent:      cmp.Or(raw.UserAgent, DefaultUserAgent),
		AcceptLanguage: cmp.Or(raw.AcceptLanguage, DefaultAcceptLanguage),
		StoreTimeout:   time.Duration(raw.StoreTimeout) * time.Second,
		DuplicateCheck: DuplicateCheckPolicy(raw.DuplicateCheck),
		SkipMigrations: raw.SkipMigrations,
		LogLevel:       raw.LogLevel,
		Version:        GetVersion(),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Cfg) validate() error {
	if c.StoreURL == "" {
		return ErrMissingStoreURL
	}
	if c.StoreKey == "" {
		return ErrMissingStoreKey
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %s", c.FetchTimeout)
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("store timeout must be positive, got %s", c.StoreTimeout)
	}
	if _, _, err := language.ParseAcceptLanguage(c.AcceptLanguage); err != nil {
		return fmt.Errorf("invalid accept-language %q: %w", c.AcceptLanguage, err)
	}
	return nil
}
