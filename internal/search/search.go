// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries literature APIs once per monitored keyword and
// merges the results into a deduplicated, date-filtered candidate set.
package search

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/litwatch/pkg/types"
)

// Backend searches a single literature API for one keyword. Each backend
// (Semantic Scholar, arXiv) implements this interface per the Strategy
// pattern.
type Backend interface {
	Name() string
	Search(ctx context.Context, keyword string, cfg types.SearchConfig) ([]Record, error)
}

// Record is one raw search result at the collaborator boundary. Absent
// fields stay zero-valued; absence is "unknown", never an error.
type Record struct {
	Title    string
	Abstract string
	Year     int
	Date     time.Time
	Venue    string
	URL      string
	Authors  []string
}

// Output holds the surviving candidates and per-keyword diagnostics.
type Output struct {
	Candidates []*types.Candidate
	Stats      []types.KeywordStats
}

// Aggregate issues one query per keyword, in list order, against every
// backend. Results are dropped when the title or abstract is missing, when
// the publication date falls outside the recency window, or when the
// normalized title is already in history. Surviving results merge into at
// most one Candidate per dedup key; re-encountering a key adds the keyword
// to the hit set instead of duplicating the candidate.
//
// A failed query for one keyword is recorded in its stats and skipped; it
// never aborts the other keywords.
func Aggregate(ctx context.Context, backends []Backend, history map[string]struct{}, cfg types.SearchConfig, w io.Writer) (Output, error) {
	if len(cfg.Keywords) == 0 {
		return Output{}, fmt.Errorf("no keywords to aggregate")
	}
	if len(backends) == 0 {
		return Output{}, fmt.Errorf("no search backends configured")
	}

	var limiter *rate.Limiter
	if cfg.QueryInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.QueryInterval), 1)
	}

	now := time.Now()
	tracker := make(map[string]*types.Candidate)
	var order []string
	var stats []types.KeywordStats

	fmt.Fprintf(w, "%-28s  %5s  %5s  %5s  %5s\n", "keyword", "raw", "stale", "seen", "new")

	for _, kw := range cfg.Keywords {
		st := types.KeywordStats{Keyword: kw}

		for _, b := range backends {
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					return Output{}, err
				}
			}

			records, err := b.Search(ctx, kw, cfg)
			if err != nil {
				st.Errors = append(st.Errors, fmt.Sprintf("%s: %v", b.Name(), err))
				fmt.Fprintf(w, "warning: backend %s failed for %q: %v\n", b.Name(), kw, err)
				continue
			}

			st.Raw += len(records)
			for _, rec := range records {
				if strings.TrimSpace(rec.Title) == "" || strings.TrimSpace(rec.Abstract) == "" {
					continue
				}
				if !isRecent(rec, now, cfg.WindowDays) {
					st.Stale++
					continue
				}

				key := types.NormalizeTitle(rec.Title)
				if _, sent := history[key]; sent {
					st.HistoryHits++
					continue
				}

				if cand, seen := tracker[key]; seen {
					if mergeKeyword(cand, kw) {
						st.Merged++
					}
					continue
				}

				tracker[key] = recordToCandidate(rec, kw)
				order = append(order, key)
				st.New++
			}
		}

		fmt.Fprintf(w, "%-28s  %5d  %5d  %5d  %5d\n", kw, st.Raw, st.Stale, st.HistoryHits, st.New)
		stats = append(stats, st)
	}

	out := Output{Stats: stats}
	for _, key := range order {
		out.Candidates = append(out.Candidates, tracker[key])
	}
	return out, nil
}

// isRecent applies the precise recency test. A full publication date is
// authoritative and inclusive at exactly now-windowDays; otherwise the year
// is compared against the cutoff year; a record with neither is stale.
func isRecent(rec Record, now time.Time, windowDays int) bool {
	cutoff := now.AddDate(0, 0, -windowDays)
	// Compare at date granularity so a paper dated exactly on the cutoff
	// day counts as recent regardless of the time of day the run started.
	cutoffDay := time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, time.UTC)

	if !rec.Date.IsZero() {
		day := time.Date(rec.Date.Year(), rec.Date.Month(), rec.Date.Day(), 0, 0, 0, 0, time.UTC)
		return !day.Before(cutoffDay)
	}
	if rec.Year > 0 {
		return rec.Year >= cutoffDay.Year()
	}
	return false
}

// mergeKeyword adds kw to the candidate's hit set. It reports whether the
// set grew; the same keyword reported twice (e.g. by two backends) does not.
func mergeKeyword(c *types.Candidate, kw string) bool {
	for _, have := range c.Keywords {
		if have == kw {
			return false
		}
	}
	c.Keywords = append(c.Keywords, kw)
	return true
}

func recordToCandidate(rec Record, kw string) *types.Candidate {
	return &types.Candidate{
		Title:    strings.TrimSpace(rec.Title),
		Abstract: strings.TrimSpace(rec.Abstract),
		Date:     rec.Date,
		Year:     rec.Year,
		Venue:    rec.Venue,
		Authors:  rec.Authors,
		URL:      rec.URL,
		Keywords: []string{kw},
	}
}

// coarseYearRange returns the backend-side year filter (e.g. "2024-2026").
// It is deliberately wider than the day-precise window; the exact check is
// re-applied locally by isRecent.
func coarseYearRange(now time.Time, yearSpan int) string {
	if yearSpan <= 0 {
		yearSpan = 2
	}
	return fmt.Sprintf("%d-%d", now.Year()-yearSpan, now.Year())
}
