package provider

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"btcpulse/internal/domain"
	"btcpulse/internal/fetch"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	redditBaseURL = "https://www.reddit.com"
	redditTTL     = 10 * time.Minute

	// DefaultSubreddit is the community used as the last headline source.
	DefaultSubreddit = "Bitcoin"
)

// RedditProvider reads the hot listing of a subreddit as headlines.
type RedditProvider struct {
	fetch     *fetch.Client
	baseURL   string
	subreddit string
	tracer    trace.Tracer
}

func NewRedditProvider(client *fetch.Client, tracer trace.Tracer, baseURL, subreddit string) *RedditProvider {
	subreddit = strings.TrimSpace(subreddit)
	if subreddit == "" {
		subreddit = DefaultSubreddit
	}
	return &RedditProvider{
		fetch:     client,
		baseURL:   trimBase(baseURL, redditBaseURL),
		subreddit: subreddit,
		tracer:    tracer,
	}
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				ID         string  `json:"id"`
				Subreddit  string  `json:"subreddit"`
				Title      string  `json:"title"`
				CreatedUTC float64 `json:"created_utc"`
				Permalink  string  `json:"permalink"`
				URL        string  `json:"url"`
				Thumbnail  string  `json:"thumbnail"`
				Stickied   bool    `json:"stickied"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// FetchHeadlines returns up to limit hot posts. Pinned moderator posts are
// skipped.
func (p *RedditProvider) FetchHeadlines(ctx context.Context, limit int) ([]domain.Headline, error) {
	ctx, span := p.tracer.Start(ctx, "reddit.fetch-headlines")
	defer span.End()
	span.SetAttributes(attribute.String("subreddit", p.subreddit))

	if limit <= 0 {
		limit = 10
	}
	// Over-fetch so stickied posts do not shrink the page.
	u := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", p.baseURL, url.PathEscape(p.subreddit), min(limit+5, 100))
	listing, err := getJSON[redditListing](ctx, p.fetch, nil, u, redditTTL)
	if err != nil {
		return nil, fmt.Errorf("fetch r/%s: %w", p.subreddit, err)
	}

	out := make([]domain.Headline, 0, limit)
	for _, row := range listing.Data.Children {
		if len(out) >= limit {
			break
		}
		d := row.Data
		title := sanitizeText(d.Title, 300)
		if d.Stickied || strings.TrimSpace(d.ID) == "" || title == "" {
			continue
		}
		link := strings.TrimSpace(d.URL)
		if permalink := strings.TrimSpace(d.Permalink); permalink != "" {
			link = p.baseURL + permalink
		}
		image := ""
		if strings.HasPrefix(d.Thumbnail, "http") {
			image = d.Thumbnail
		}
		out = append(out, domain.Headline{
			ID:          "reddit:" + d.ID,
			Title:       title,
			URL:         link,
			Source:      "r/" + sanitizeText(d.Subreddit, 60),
			PublishedAt: unixTime(int64(d.CreatedUTC)),
			ImageURL:    image,
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("r/%s has no posts: %w", p.subreddit, ErrNoData)
	}
	return out, nil
}
