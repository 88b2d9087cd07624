package feed

import (
	"cmp"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const MaxSummaryLength = 2000

// Reasons an entry is rejected by Extract.
var (
	ErrMissingTitle = errors.New("missing title")
	ErrMissingLink  = errors.New("missing link")
	ErrInvalidLink  = errors.New("invalid link")
	ErrMissingGuid  = errors.New("missing guid")
	ErrMissingDate  = errors.New("missing or invalid date")
)

// Extract normalizes a raw entry into an Article. The returned error wraps
// one of the Err* rejection reasons.
func Extract(entry Entry) (Article, error) {
	title := strings.TrimSpace(entry.Title)
	if title == "" {
		return Article{}, ErrMissingTitle
	}

	link := strings.TrimSpace(entry.Link)
	if link == "" {
		return Article{}, ErrMissingLink
	}
	if !isValidURL(link) {
		return Article{}, fmt.Errorf("%w: %q", ErrInvalidLink, link)
	}

	guid := resolveGUID(entry, link)
	if guid == "" {
		return Article{}, ErrMissingGuid
	}

	publishedAt, ok := resolvePublishedAt(entry)
	if !ok {
		return Article{}, ErrMissingDate
	}

	return Article{
		GUID:        guid,
		Link:        link,
		Title:       title,
		Summary:     truncate(cmp.Or(entry.Summary, entry.Description), MaxSummaryLength),
		PublishedAt: publishedAt,
	}, nil
}

func isValidURL(link string) bool {
	return strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://")
}

// resolveGUID prefers id over guid. Feeds that repeat the link as their
// identifier, or have none, are keyed by the link. Whitespace-only
// identifiers count as none.
func resolveGUID(entry Entry, link string) string {
	guid := cmp.Or(strings.TrimSpace(entry.ID), strings.TrimSpace(entry.GUID))
	if guid == "" || guid == link {
		return link
	}
	return guid
}

func resolvePublishedAt(entry Entry) (time.Time, bool) {
	if entry.PublishedParsed != nil {
		if t, err := entry.PublishedParsed.Time(); err == nil {
			return t, true
		}
	}

	for _, value := range []string{entry.Published, entry.Updated, entry.Created} {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		// Zone-less values are read as UTC rather than local time.
		t, err := dateparse.ParseIn(value, time.UTC)
		if err != nil {
			continue
		}
		return t.UTC(), true
	}

	return time.Time{}, false
}

// Time builds a UTC time from the tuple. Out-of-range fields are an error
// instead of being normalized into a neighbouring date.
func (d DateTuple) Time() (time.Time, error) {
	if d.Month < 1 || d.Month > 12 {
		return time.Time{}, fmt.Errorf("month out of range: %d", d.Month)
	}
	if d.Day < 1 || d.Day > daysIn(d.Year, time.Month(d.Month)) {
		return time.Time{}, fmt.Errorf("day out of range: %d", d.Day)
	}
	if d.Hour < 0 || d.Hour > 23 || d.Minute < 0 || d.Minute > 59 || d.Second < 0 || d.Second > 59 {
		return time.Time{}, fmt.Errorf("time out of range: %02d:%02d:%02d", d.Hour, d.Minute, d.Second)
	}
	if d.Year < 1 || d.Year > 9999 {
		return time.Time{}, fmt.Errorf("year out of range: %d", d.Year)
	}

	return time.Date(d.Year, time.Month(d.Month), d.Day, d.Hour, d.Minute, d.Second, 0, time.UTC), nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// truncate cuts s to at most limit characters, counting runes.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
