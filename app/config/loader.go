package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrNoFeeds = errors.New("no feeds configured")

// Loader reads the list of feeds from a YAML file
type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load returns the configured feeds in file order. A missing file, an empty
// feed list or an entry without a URL is an error.
func (l *Loader) Load() ([]FeedConfig, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", l.path, err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML in %s: %w", l.path, err)
	}

	if len(file.Feeds) == 0 {
		return nil, fmt.Errorf("%s: %w", l.path, ErrNoFeeds)
	}

	feeds := make([]FeedConfig, 0, len(file.Feeds))
	for i, feed := range file.Feeds {
		feed.Name = strings.TrimSpace(feed.Name)
		feed.URL = strings.TrimSpace(feed.URL)

		if err := l.validate(feed); err != nil {
			return nil, fmt.Errorf("invalid feed at index %d in %s: %w", i, l.path, err)
		}

		l.setDefaults(&feed)
		feeds = append(feeds, feed)
	}

	slog.Debug("Feeds configuration loaded", "path", l.path, "count", len(feeds))

	return feeds, nil
}

func (l *Loader) setDefaults(feed *FeedConfig) {
	if feed.Name == "" {
		feed.Name = feed.URL
	}
}

func (l *Loader) validate(feed FeedConfig) error {
	if feed.URL == "" {
		return fmt.Errorf("feed URL is required")
	}
	return nil
}
