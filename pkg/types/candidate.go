// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the litwatch pipeline:
// anchor profiles, candidates, scored candidates, and per-stage configuration.
package types

import (
	"strings"
	"time"
)

// AnchorEntry is one paper from the researcher's reference library, reduced
// to the fields the relevance prompt needs. The abstract is already
// truncated to the configured length when the entry is built.
type AnchorEntry struct {
	Title    string `json:"title" yaml:"title"`
	Abstract string `json:"abstract" yaml:"abstract"`
}

// AnchorProfile is the bounded, ordered digest of the researcher's existing
// corpus. It is built once per run and read-only afterwards.
type AnchorProfile struct {
	Entries []AnchorEntry `json:"entries" yaml:"entries"`
}

// Empty reports whether the profile contains no usable entries. An empty
// profile is a hard precondition failure for a run.
func (p AnchorProfile) Empty() bool { return len(p.Entries) == 0 }

// Candidate is a deduplicated paper discovered in the current run.
// Candidates without a title or abstract never reach this type; the
// aggregator drops them at ingestion.
type Candidate struct {
	// Title is the paper title as returned by the search backend.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Date is the full publication date, zero when the backend only
	// reported a year.
	Date time.Time `json:"date,omitempty" yaml:"date,omitempty"`

	// Year is the publication year, 0 when unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Venue is the journal or conference name, empty when unknown.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// Authors lists author display names in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// URL points at the paper's landing page.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Keywords is the hit set: every monitored keyword whose query
	// surfaced this paper, in discovery order without duplicates.
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// HitCount returns the size of the hit set. It is the ranking tie-break.
func (c *Candidate) HitCount() int { return len(c.Keywords) }

// DedupKey returns the normalized title used as the sole equality test
// across search results and against the notification history.
func (c *Candidate) DedupKey() string { return NormalizeTitle(c.Title) }

// ScoredCandidate pairs a Candidate with the model's relevance verdict.
// The score is any non-negative integer the model produced; unparseable
// output defaults to 0 rather than failing the run.
type ScoredCandidate struct {
	Candidate `yaml:",inline"`

	Score  int    `json:"score" yaml:"score"`
	Reason string `json:"reason" yaml:"reason"`
}

// KeywordStats records per-keyword diagnostics from one aggregation pass.
// Counts are informational only; they do not influence ranking.
type KeywordStats struct {
	Keyword     string `json:"keyword" yaml:"keyword"`
	Raw         int    `json:"raw" yaml:"raw"`
	Stale       int    `json:"stale" yaml:"stale"`
	HistoryHits int    `json:"history_hits" yaml:"history_hits"`
	New         int    `json:"new" yaml:"new"`
	Merged      int    `json:"merged" yaml:"merged"`

	// Errors holds backend failure messages for this keyword. A failed
	// query skips the keyword but never aborts the run.
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// NormalizeTitle returns the whitespace-trimmed, lower-cased form of a
// title. This is the dedup key and the history key; both sides of every
// comparison go through it.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
