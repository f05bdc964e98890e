// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mmcdole/gofeed"

	"github.com/pdiddy/litwatch/internal/httputil"
	"github.com/pdiddy/litwatch/pkg/types"
)

// arxivAPIBase is the arXiv Atom query endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// ArxivBackend queries the arXiv API. The response is an Atom feed, parsed
// with gofeed. arXiv has no venue metadata and no coarse year filter; stale
// entries are caught by the aggregator's local recency check.
type ArxivBackend struct {
	Client *http.Client
}

// Name returns the backend identifier.
func (b *ArxivBackend) Name() string { return "arxiv" }

// Search queries arXiv for one keyword, newest submissions first.
func (b *ArxivBackend) Search(ctx context.Context, keyword string, cfg types.SearchConfig) ([]Record, error) {
	if keyword == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}

	limit := cfg.PerKeywordLimit
	if limit <= 0 {
		limit = 100
	}

	params := url.Values{
		"search_query": {"all:" + keyword},
		"start":        {"0"},
		"max_results":  {fmt.Sprintf("%d", limit)},
		"sortBy":       {"submittedDate"},
		"sortOrder":    {"descending"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing arXiv feed: %w", err)
	}

	var records []Record
	for _, item := range feed.Items {
		r := Record{
			Title:    item.Title,
			Abstract: item.Description,
			URL:      item.Link,
			Venue:    "arXiv",
		}
		for _, a := range item.Authors {
			if a != nil {
				r.Authors = append(r.Authors, a.Name)
			}
		}
		if item.PublishedParsed != nil {
			r.Date = *item.PublishedParsed
			r.Year = item.PublishedParsed.Year()
		}
		records = append(records, r)
	}
	return records, nil
}
