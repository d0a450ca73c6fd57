package provider

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"btcpulse/internal/domain"
	"btcpulse/internal/fetch"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultNewsFeed is the secondary headline source used when the news API
	// is unavailable.
	DefaultNewsFeed = "https://www.coindesk.com/arc/outboundfeeds/rss/"
	rssTTL          = 15 * time.Minute
)

// RSSProvider reads headlines from a plain RSS 2.0 feed.
type RSSProvider struct {
	fetch  *fetch.Client
	tracer trace.Tracer
}

func NewRSSProvider(client *fetch.Client, tracer trace.Tracer) *RSSProvider {
	return &RSSProvider{fetch: client, tracer: tracer}
}

type rssDocument struct {
	Channel struct {
		Title string `xml:"title"`
		Items []struct {
			Title     string `xml:"title"`
			Link      string `xml:"link"`
			GUID      string `xml:"guid"`
			PubDate   string `xml:"pubDate"`
			Enclosure struct {
				URL string `xml:"url,attr"`
			} `xml:"enclosure"`
		} `xml:"item"`
	} `xml:"channel"`
}

// FetchHeadlines returns up to maxItems items from feedURL in feed order.
func (p *RSSProvider) FetchHeadlines(ctx context.Context, feedURL string, maxItems int) ([]domain.Headline, error) {
	ctx, span := p.tracer.Start(ctx, "rss.fetch-headlines")
	defer span.End()

	feedURL = strings.TrimSpace(feedURL)
	if feedURL == "" {
		return nil, fmt.Errorf("feed url is required: %w", fetch.ErrInvalidURL)
	}
	span.SetAttributes(attribute.String("feed.url", feedURL))
	if maxItems <= 0 {
		maxItems = 10
	}

	body, err := p.fetch.FetchWithCache(ctx, feedURL, rssTTL)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	var doc rssDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		// The raw cache stores before decoding.
		p.fetch.Evict(feedURL)
		return nil, &fetch.Error{Kind: fetch.ErrDecode, URL: feedURL, Err: err}
	}

	channel := sanitizeText(doc.Channel.Title, 120)
	items := make([]domain.Headline, 0, min(maxItems, len(doc.Channel.Items)))
	for _, row := range doc.Channel.Items {
		if len(items) >= maxItems {
			break
		}
		title := sanitizeText(row.Title, 300)
		if title == "" {
			continue
		}
		publishedAt := parseRSSDate(row.PubDate)
		id := sanitizeText(row.GUID, 250)
		if id == "" {
			id = sanitizeText(row.Link, 250)
		}
		if id == "" {
			h := sha1.Sum([]byte(title + "|" + publishedAt.Format(time.RFC3339Nano)))
			id = hex.EncodeToString(h[:])
		}
		items = append(items, domain.Headline{
			ID:          id,
			Title:       title,
			URL:         sanitizeText(row.Link, 500),
			Source:      channel,
			PublishedAt: publishedAt,
			ImageURL:    row.Enclosure.URL,
		})
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("feed %s has no items: %w", feedURL, ErrNoData)
	}
	return items, nil
}

func parseRSSDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	layouts := []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822, time.RFC3339}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
