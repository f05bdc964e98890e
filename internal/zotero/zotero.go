// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package zotero is a read-only client for the Zotero web API, used to build
// the anchor profile from the researcher's reference library.
package zotero

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/litwatch/internal/httputil"
	"github.com/pdiddy/litwatch/pkg/types"
)

// zoteroAPIBase is the Zotero web API root. Declared as a var so tests can
// substitute an httptest server.
var zoteroAPIBase = "https://api.zotero.org"

// itemPageLimit is the Zotero API maximum page size.
const itemPageLimit = 100

// Client reads collections and items from one user library.
type Client struct {
	HTTPClient *http.Client
	APIKey     string
	LibraryID  string
	UserAgent  string
}

// Collection is one Zotero collection (folder).
type Collection struct {
	Key  string `json:"key"`
	Data struct {
		Name string `json:"name"`
	} `json:"data"`
}

// Item is one Zotero library entry. Attachments and notes carry the
// corresponding item type and no abstract.
type Item struct {
	Data struct {
		ItemType string `json:"itemType"`
		Title    string `json:"title"`
		Abstract string `json:"abstractNote"`
	} `json:"data"`
}

// ResolveLibraryID returns the numeric user library ID owning the given API
// key. It is a pure lookup with no client state; the orchestrator calls it
// once before constructing the Client when no ID is configured.
func ResolveLibraryID(ctx context.Context, client *http.Client, apiKey, userAgent string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, zoteroAPIBase+"/keys/current", nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Zotero-API-Key", apiKey)
	req.Header.Set("User-Agent", userAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return "", fmt.Errorf("Zotero key lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Zotero key lookup returned HTTP %d", resp.StatusCode)
	}

	var body struct {
		UserID json.Number `json:"userID"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("parsing Zotero key response: %w", err)
	}
	if body.UserID.String() == "" {
		return "", fmt.Errorf("Zotero key response carries no user ID")
	}
	return body.UserID.String(), nil
}

// Collections lists all collections in the library.
func (c *Client) Collections(ctx context.Context) ([]Collection, error) {
	var cols []Collection
	path := fmt.Sprintf("/users/%s/collections", c.LibraryID)
	if err := c.getJSON(ctx, path, nil, &cols); err != nil {
		return nil, err
	}
	return cols, nil
}

// FindCollection returns the key of the collection whose name matches
// case-insensitively, or an error when no collection matches.
func (c *Client) FindCollection(ctx context.Context, name string) (string, error) {
	cols, err := c.Collections(ctx)
	if err != nil {
		return "", err
	}
	for _, col := range cols {
		if strings.EqualFold(col.Data.Name, name) {
			return col.Key, nil
		}
	}
	return "", fmt.Errorf("collection %q not found in library %s", name, c.LibraryID)
}

// CollectionItems returns the first page of items in a collection. The
// Zotero API caps pages at 100 entries, which is more than the anchor
// profile ever uses.
func (c *Client) CollectionItems(ctx context.Context, collectionKey string) ([]Item, error) {
	var items []Item
	path := fmt.Sprintf("/users/%s/collections/%s/items", c.LibraryID, collectionKey)
	params := url.Values{"limit": {fmt.Sprintf("%d", itemPageLimit)}}
	if err := c.getJSON(ctx, path, params, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := zoteroAPIBase + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Zotero-API-Key", c.APIKey)
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.HTTPClient, req, 0)
	if err != nil {
		return fmt.Errorf("Zotero API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Zotero API returned HTTP %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing Zotero response: %w", err)
	}
	return nil
}

// BuildAnchorProfile reduces library items to the bounded anchor profile.
// Attachments, notes, and items without a title are skipped; abstracts are
// truncated to abstractLimit runes; at most maxAnchors entries are kept.
func BuildAnchorProfile(items []Item, maxAnchors, abstractLimit int) types.AnchorProfile {
	if maxAnchors <= 0 {
		maxAnchors = 20
	}
	if abstractLimit <= 0 {
		abstractLimit = 400
	}

	var profile types.AnchorProfile
	for _, item := range items {
		if len(profile.Entries) >= maxAnchors {
			break
		}
		switch item.Data.ItemType {
		case "attachment", "note":
			continue
		}
		if item.Data.Title == "" {
			continue
		}

		abstract := "(No Abstract)"
		if item.Data.Abstract != "" {
			abstract = truncateRunes(item.Data.Abstract, abstractLimit)
		}
		profile.Entries = append(profile.Entries, types.AnchorEntry{
			Title:    item.Data.Title,
			Abstract: abstract,
		})
	}
	return profile
}

// AnchorsFromCollection resolves the collection by name, fetches its items,
// and builds the profile in one call.
func (c *Client) AnchorsFromCollection(ctx context.Context, cfg types.ZoteroConfig) (types.AnchorProfile, error) {
	key, err := c.FindCollection(ctx, cfg.Collection)
	if err != nil {
		return types.AnchorProfile{}, err
	}
	items, err := c.CollectionItems(ctx, key)
	if err != nil {
		return types.AnchorProfile{}, err
	}
	return BuildAnchorProfile(items, cfg.MaxAnchors, cfg.AbstractLimit), nil
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
