package feed

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-resty/resty/v2"
)

// RedditConfig holds configuration for the upstream listing client.
type RedditConfig struct {
	BaseURL   string
	Subreddit string
	UserAgent string
}

// RedditClient fetches hot and search listings for a single subreddit.
// Provider HTTP calls carry the request context and no client-side timeout;
// callers own the deadline.
type RedditClient struct {
	client    *resty.Client
	baseURL   string
	subreddit string
}

// NewRedditClient creates a listing client for the configured subreddit.
func NewRedditClient(cfg *RedditConfig) *RedditClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://www.reddit.com"
	}
	subreddit := cfg.Subreddit
	if subreddit == "" {
		subreddit = "memes"
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "MemeLab/0.1 (contact: dev@meme.lab)"
	}

	client := resty.New()
	client.SetHeader("User-Agent", userAgent)

	return &RedditClient{
		client:    client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		subreddit: subreddit,
	}
}

// listing mirrors the slice of the Reddit listing payload this service reads.
type listing struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Data post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type post struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Title               string  `json:"title"`
	Author              string  `json:"author"`
	Ups                 int     `json:"ups"`
	Permalink           string  `json:"permalink"`
	CreatedUTC          float64 `json:"created_utc"`
	PostHint            string  `json:"post_hint"`
	URL                 string  `json:"url"`
	URLOverriddenByDest string  `json:"url_overridden_by_dest"`
	Selftext            string  `json:"selftext"`
	LinkFlairText       string  `json:"link_flair_text"`
	Preview             struct {
		Images []struct {
			Source struct {
				URL string `json:"url"`
			} `json:"source"`
		} `json:"images"`
	} `json:"preview"`
}

// Listing requests one page of the subreddit listing. Search mode is used
// when query is non-empty: restricted to the subreddit, sorted by relevance,
// unlimited time window, batch size 20. Trending mode uses batch size 5.
func (r *RedditClient) Listing(ctx context.Context, query, after string) (*listing, error) {
	var endpoint string
	params := map[string]string{"raw_json": "1"}

	if query != "" {
		endpoint = fmt.Sprintf("%s/r/%s/search.json", r.baseURL, r.subreddit)
		params["limit"] = "20"
		params["q"] = query
		params["restrict_sr"] = "1"
		params["sort"] = "relevance"
		params["t"] = "all"
	} else {
		endpoint = fmt.Sprintf("%s/r/%s/hot.json", r.baseURL, r.subreddit)
		params["limit"] = "5"
	}

	if after != "" {
		params["after"] = after
	}

	var payload listing
	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&payload).
		Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("reddit request failed: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("reddit request failed: HTTP %d", resp.StatusCode())
	}

	return &payload, nil
}

var imageURLPattern = regexp.MustCompile(`(?i)(\.jpe?g|\.png|\.gif)$`)

// isImagePost reports whether a listing entry is an image post: either an
// explicit image hint or a URL with an image extension.
func isImagePost(p *post) bool {
	if p.PostHint == "image" {
		return true
	}
	url := p.URLOverriddenByDest
	if url == "" {
		url = p.URL
	}
	return imageURLPattern.MatchString(url)
}

// matchesQuery reports whether the entry matches a lowercased query: any
// whitespace-delimited term must be a substring of the title, selftext, or
// flair. An empty query matches everything.
func matchesQuery(p *post, normalizedQuery string) bool {
	if normalizedQuery == "" {
		return true
	}

	terms := strings.Fields(normalizedQuery)
	if len(terms) == 0 {
		return true
	}

	title := strings.ToLower(p.Title)
	selftext := strings.ToLower(p.Selftext)
	flair := strings.ToLower(p.LinkFlairText)

	for _, term := range terms {
		if strings.Contains(title, term) || strings.Contains(selftext, term) || strings.Contains(flair, term) {
			return true
		}
	}
	return false
}

// selectImageURL picks the best image URL for an entry: the explicit
// override, then the generic URL, then the first preview source. Reddit
// escapes ampersands in raw JSON, so literal &amp; sequences are decoded.
func selectImageURL(p *post) string {
	raw := p.URLOverriddenByDest
	if raw == "" {
		raw = p.URL
	}
	if raw == "" && len(p.Preview.Images) > 0 {
		raw = p.Preview.Images[0].Source.URL
	}
	return strings.ReplaceAll(raw, "&amp;", "&")
}
