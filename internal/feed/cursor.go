package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/memelab/memelab/internal/domain"
	"github.com/memelab/memelab/internal/logger"
)

// ErrUpstream indicates the upstream listing call failed in a mode where the
// offline cache cannot stand in (search).
var ErrUpstream = errors.New("upstream feed unavailable")

// NoResultsError is returned when a search query matches no image posts.
// The offline cache cannot honor a query, so this surfaces to the caller.
type NoResultsError struct {
	Query string
}

func (e *NoResultsError) Error() string {
	return fmt.Sprintf("no memes found for %q", e.Query)
}

const maxQueryLength = 120

// Request describes one cursor advance.
type Request struct {
	After     string
	Query     string
	Offline   bool
	AssetBase string // absolute base URL for offline asset links
}

// Result is a fetched meme plus the page cursor to resume from. Callers that
// want to skip a duplicate may immediately re-request with Page.After; the
// cursor only guarantees the token advances the listing in the same mode.
type Result struct {
	Meme   domain.Meme
	Page   domain.PageCursor
	Query  string
	Search bool
}

// Cursor tracks position in the upstream feed and rotates through the
// offline cache when the feed is unavailable or offline mode is requested.
type Cursor struct {
	reddit *RedditClient
	cache  *OfflineCache
}

// NewCursor creates a content cursor over the given listing client and
// offline cache.
func NewCursor(reddit *RedditClient, cache *OfflineCache) *Cursor {
	return &Cursor{reddit: reddit, cache: cache}
}

// Next returns the next image meme. In non-search mode upstream failures and
// empty batches never surface as errors; the cursor falls back to the
// offline cache and stamps the page with a diagnostic reason.
func (c *Cursor) Next(ctx context.Context, req Request) (*Result, error) {
	if req.Offline {
		return c.offline(req.AssetBase, ""), nil
	}

	query := strings.TrimSpace(req.Query)
	if runes := []rune(query); len(runes) > maxQueryLength {
		query = string(runes[:maxQueryLength])
	}
	searching := query != ""

	page, err := c.reddit.Listing(ctx, query, req.After)
	if err != nil {
		logger.CtxWarn(ctx, "Feed listing failed: %v", err)
		if searching {
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		return c.offline(req.AssetBase, "upstream feed unavailable"), nil
	}

	normalizedQuery := strings.ToLower(query)
	var matched *post
	for i := range page.Data.Children {
		p := &page.Data.Children[i].Data
		if isImagePost(p) && matchesQuery(p, normalizedQuery) {
			matched = p
			break
		}
	}

	if matched == nil {
		if searching {
			return nil, &NoResultsError{Query: query}
		}
		return c.offline(req.AssetBase, "no image meme found in this batch"), nil
	}

	// Prefer the matched entry's own listing identifier over the raw page
	// boundary so re-fetching resumes from the item, not the batch edge.
	after := matched.Name
	if after == "" {
		after = page.Data.After
	}
	var afterPtr *string
	if after != "" {
		afterPtr = &after
	}

	return &Result{
		Meme: domain.Meme{
			ID:        matched.ID,
			Title:     matched.Title,
			ImageURL:  selectImageURL(matched),
			Author:    matched.Author,
			Ups:       matched.Ups,
			Permalink: "https://www.reddit.com" + matched.Permalink,
			CreatedAt: time.Unix(int64(matched.CreatedUTC), 0).UTC(),
		},
		Page:   domain.PageCursor{After: afterPtr},
		Query:  query,
		Search: searching,
	}, nil
}

func (c *Cursor) offline(assetBase, reason string) *Result {
	return &Result{
		Meme: c.cache.Next(assetBase),
		Page: domain.PageCursor{Offline: true, Reason: reason},
	}
}
