// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const arxivAtomFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>ArXiv Query: search_query=all:perovskite</title>
  <entry>
    <id>http://arxiv.org/abs/2608.01234v1</id>
    <title>Defect Passivation in Wide-Bandgap Perovskites</title>
    <summary>We study passivation strategies for wide-bandgap absorbers.</summary>
    <published>2026-08-03T17:58:02Z</published>
    <link href="http://arxiv.org/abs/2608.01234v1" rel="alternate" type="text/html"/>
    <author><name>C. Physicist</name></author>
    <author><name>D. Chemist</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2607.05678v2</id>
    <title>Stability Benchmarks for Inverted Cells</title>
    <summary>A benchmark suite for long-term stability.</summary>
    <published>2026-07-21T09:12:44Z</published>
    <link href="http://arxiv.org/abs/2607.05678v2" rel="alternate" type="text/html"/>
    <author><name>E. Engineer</name></author>
  </entry>
</feed>`

func TestArxivSearchParsesAtomFeed(t *testing.T) {
	var captured *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, arxivAtomFixture)
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	cfg := testCfg("perovskite")
	cfg.PerKeywordLimit = 25

	b := &ArxivBackend{Client: ts.Client()}
	records, err := b.Search(context.Background(), "perovskite", cfg)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	q := captured.URL.Query()
	if got := q.Get("search_query"); got != "all:perovskite" {
		t.Errorf("search_query param = %q", got)
	}
	if got := q.Get("max_results"); got != "25" {
		t.Errorf("max_results param = %q, want 25", got)
	}
	if got := q.Get("sortBy"); got != "submittedDate" {
		t.Errorf("sortBy param = %q", got)
	}

	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	first := records[0]
	if first.Title != "Defect Passivation in Wide-Bandgap Perovskites" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Abstract == "" {
		t.Error("abstract should come from the Atom summary")
	}
	if first.Venue != "arXiv" {
		t.Errorf("venue = %q, want arXiv", first.Venue)
	}
	if first.URL != "http://arxiv.org/abs/2608.01234v1" {
		t.Errorf("url = %q", first.URL)
	}
	if first.Year != 2026 || first.Date.IsZero() {
		t.Errorf("date = %v year = %d, want parsed published date", first.Date, first.Year)
	}
	if len(first.Authors) != 2 || first.Authors[1] != "D. Chemist" {
		t.Errorf("authors = %v", first.Authors)
	}
}

func TestArxivSearchErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	b := &ArxivBackend{Client: ts.Client()}
	if _, err := b.Search(context.Background(), "kw", testCfg("kw")); err == nil {
		t.Fatal("expected error for HTTP 500")
	}
}
