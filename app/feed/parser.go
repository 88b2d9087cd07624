package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
	xpp "github.com/mmcdole/goxpp"
	"golang.org/x/net/html/charset"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses an RSS, Atom or JSON feed document and returns its entries in
// document order. An XML feed that is not well-formed fails as a whole,
// even where the lenient gofeed parser could recover entries from it.
func (p *Parser) Run(data []byte) ([]Entry, error) {
	switch gofeed.DetectFeedType(bytes.NewReader(data)) {
	case gofeed.FeedTypeRSS, gofeed.FeedTypeAtom:
		if err := checkWellFormed(data); err != nil {
			return nil, fmt.Errorf("feed is not well-formed XML: %w", err)
		}
	}

	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, p.toEntry(feed.FeedType, item))
	}

	return entries, nil
}

func (p *Parser) toEntry(feedType string, item *gofeed.Item) Entry {
	entry := Entry{
		Title:     item.Title,
		Link:      item.Link,
		Published: item.Published,
		Updated:   item.Updated,
		Created:   p.extractCreated(item),
	}

	// RSS carries <description> and <guid>; Atom and JSON Feed carry a
	// summary and an id.
	// Content-only items (<content>, content:encoded) use their content as
	// the summary.
	if feedType == "rss" {
		entry.Description = item.Description
		entry.GUID = item.GUID
		if strings.TrimSpace(item.Description) == "" {
			entry.Summary = item.Content
		}
	} else {
		entry.Summary = cmp.Or(item.Description, item.Content)
		entry.ID = item.GUID
	}

	if item.PublishedParsed != nil {
		entry.PublishedParsed = NewDateTuple(*item.PublishedParsed)
	}

	return entry
}

// checkWellFormed reads the whole document with a strict XML decoder.
// Mismatched tags, undefined entities and bare ampersands are errors.
func checkWellFormed(data []byte) error {
	p := xpp.NewXMLPullParser(bytes.NewReader(data), true, charset.NewReaderLabel)
	for {
		event, err := p.NextToken()
		if err != nil {
			return err
		}
		if event == xpp.EndDocument {
			return nil
		}
	}
}

// extractCreated looks for a creation date in dcterms:created or an
// unprefixed <created> element (Atom 0.3).
func (p *Parser) extractCreated(item *gofeed.Item) string {
	if created := firstExtensionValue(item.Extensions, "dcterms", "created"); created != "" {
		return created
	}
	if item.Custom != nil {
		return strings.TrimSpace(item.Custom["created"])
	}
	return ""
}

func firstExtensionValue(extensions ext.Extensions, prefix, name string) string {
	if extensions == nil {
		return ""
	}
	for _, e := range extensions[prefix][name] {
		if value := strings.TrimSpace(e.Value); value != "" {
			return value
		}
	}
	return ""
}

// NewDateTuple breaks t into calendar fields after converting it to UTC.
func NewDateTuple(t time.Time) *DateTuple {
	t = t.UTC()
	return &DateTuple{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}
