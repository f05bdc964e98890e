// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func TestSemanticSearchRequestParams(t *testing.T) {
	var captured *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"total":0,"offset":0,"data":[]}`)
	}))
	defer ts.Close()

	old := semanticAPIBase
	semanticAPIBase = ts.URL
	defer func() { semanticAPIBase = old }()

	cfg := testCfg("perovskite solar cells")
	cfg.PerKeywordLimit = 50
	cfg.YearSpan = 2

	b := &SemanticScholarBackend{Client: ts.Client(), APIKey: "sk_test"}
	if _, err := b.Search(context.Background(), "perovskite solar cells", cfg); err != nil {
		t.Fatalf("Search: %v", err)
	}

	q := captured.URL.Query()
	if got := q.Get("query"); got != "perovskite solar cells" {
		t.Errorf("query param = %q", got)
	}
	if got := q.Get("limit"); got != "50" {
		t.Errorf("limit param = %q, want 50", got)
	}
	if got := q.Get("sort"); got != "publicationDate:desc" {
		t.Errorf("sort param = %q", got)
	}
	if got := q.Get("fields"); got != semanticFields {
		t.Errorf("fields param = %q", got)
	}

	wantYear := fmt.Sprintf("%d-%d", time.Now().Year()-2, time.Now().Year())
	if got := q.Get("year"); got != wantYear {
		t.Errorf("year param = %q, want %q", got, wantYear)
	}

	if got := captured.Header.Get("x-api-key"); got != "sk_test" {
		t.Errorf("x-api-key header = %q", got)
	}
	if got := captured.Header.Get("User-Agent"); got != "litwatch-test/0.1" {
		t.Errorf("User-Agent header = %q", got)
	}
}

func TestSemanticSearchOmitsAPIKeyHeaderWhenUnset(t *testing.T) {
	var captured *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, `{"total":0,"offset":0,"data":[]}`)
	}))
	defer ts.Close()

	old := semanticAPIBase
	semanticAPIBase = ts.URL
	defer func() { semanticAPIBase = old }()

	b := &SemanticScholarBackend{Client: ts.Client()}
	if _, err := b.Search(context.Background(), "kw", testCfg("kw")); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if _, present := captured.Header["X-Api-Key"]; present {
		t.Error("x-api-key header must be absent without a configured key")
	}
}

func TestSemanticSearchParsesRecords(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"total":2,"offset":0,"data":[
			{
				"paperId": "p1",
				"title": "Tandem Cells",
				"abstract": "Stacked junctions.",
				"year": 2026,
				"url": "https://example.org/p1",
				"venue": "Nature Energy",
				"publicationDate": "2026-07-14",
				"authors": [{"authorId": "1", "name": "A. Researcher"}, {"authorId": "2", "name": "B. Author"}]
			},
			{
				"paperId": "p2",
				"title": "Year Only",
				"abstract": "No full date.",
				"year": 2025,
				"publicationDate": ""
			}
		]}`)
	}))
	defer ts.Close()

	old := semanticAPIBase
	semanticAPIBase = ts.URL
	defer func() { semanticAPIBase = old }()

	b := &SemanticScholarBackend{Client: ts.Client()}
	records, err := b.Search(context.Background(), "kw", testCfg("kw"))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	first := records[0]
	if first.Title != "Tandem Cells" || first.Venue != "Nature Energy" || first.URL != "https://example.org/p1" {
		t.Errorf("first record = %+v", first)
	}
	if want := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC); !first.Date.Equal(want) {
		t.Errorf("first record date = %v, want %v", first.Date, want)
	}
	if len(first.Authors) != 2 || first.Authors[0] != "A. Researcher" {
		t.Errorf("first record authors = %v", first.Authors)
	}

	second := records[1]
	if !second.Date.IsZero() {
		t.Errorf("second record date = %v, want zero (year only)", second.Date)
	}
	if second.Year != 2025 {
		t.Errorf("second record year = %d, want 2025", second.Year)
	}
}

func TestSemanticSearchErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	old := semanticAPIBase
	semanticAPIBase = ts.URL
	defer func() { semanticAPIBase = old }()

	b := &SemanticScholarBackend{Client: ts.Client()}
	_, err := b.Search(context.Background(), "kw", testCfg("kw"))
	if err == nil {
		t.Fatal("expected error for HTTP 403")
	}
}

func TestSemanticSearchDefaultLimit(t *testing.T) {
	var gotLimit string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		fmt.Fprint(w, `{"total":0,"offset":0,"data":[]}`)
	}))
	defer ts.Close()

	old := semanticAPIBase
	semanticAPIBase = ts.URL
	defer func() { semanticAPIBase = old }()

	cfg := testCfg("kw")
	cfg.PerKeywordLimit = 0

	b := &SemanticScholarBackend{Client: ts.Client()}
	if _, err := b.Search(context.Background(), "kw", cfg); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if n, _ := strconv.Atoi(gotLimit); n != 100 {
		t.Errorf("default limit = %q, want 100", gotLimit)
	}
}
