// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package digest orchestrates one monitoring run: load history, build the
// anchor profile, aggregate candidates, score, select, deliver, and commit
// the delivered titles. History is mutated only after delivery succeeds.
package digest

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/litwatch/internal/mail"
	"github.com/pdiddy/litwatch/internal/rank"
	"github.com/pdiddy/litwatch/internal/score"
	"github.com/pdiddy/litwatch/internal/search"
	"github.com/pdiddy/litwatch/pkg/types"
)

// AnchorSource produces the anchor profile for a run.
type AnchorSource interface {
	Anchors(ctx context.Context) (types.AnchorProfile, error)
}

// AnchorFunc adapts a function to the AnchorSource interface.
type AnchorFunc func(ctx context.Context) (types.AnchorProfile, error)

// Anchors calls f.
func (f AnchorFunc) Anchors(ctx context.Context) (types.AnchorProfile, error) { return f(ctx) }

// HistoryStore is the persisted set of previously-notified titles.
type HistoryStore interface {
	Load(ctx context.Context) map[string]struct{}
	Commit(ctx context.Context, titles []string) error
}

// Deliverer sends one rendered digest. There is no partial success.
type Deliverer interface {
	Deliver(ctx context.Context, msg mail.Message) error
}

// Pipeline ties the stages of one run together. All collaborators are
// injected so tests can run the full sequence against fakes.
type Pipeline struct {
	Anchors  AnchorSource
	Backends []search.Backend
	Scorer   score.Backend
	History  HistoryStore
	Sender   Deliverer

	Config types.Config

	// DryRun stops before delivery: nothing is sent and nothing is
	// committed to history.
	DryRun bool

	// Out receives progress output; defaults to io.Discard.
	Out io.Writer
}

// Run executes the pipeline once and returns the run report. An error
// means the run stopped at the named stage; stages that degrade per-item
// (keyword search, scoring) never surface here.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	w := p.Out
	if w == nil {
		w = io.Discard
	}

	report := &Report{
		Date:   time.Now().Format("2006-01-02"),
		DryRun: p.DryRun,
	}

	// 1. History.
	sent := p.History.Load(ctx)
	fmt.Fprintf(w, "history: %d titles loaded\n", len(sent))

	// 2. Anchor profile: a hard precondition. Scoring against an empty
	// profile is meaningless, so the run aborts before any side effect.
	profile, err := p.Anchors.Anchors(ctx)
	if err != nil {
		return nil, fmt.Errorf("building anchor profile: %w", err)
	}
	if profile.Empty() {
		return nil, fmt.Errorf("anchor collection %q has no usable items", p.Config.Zotero.Collection)
	}
	report.AnchorCount = len(profile.Entries)
	fmt.Fprintf(w, "anchors: %d papers loaded\n", report.AnchorCount)

	// 3. Candidate aggregation.
	out, err := search.Aggregate(ctx, p.Backends, sent, p.Config.Search, w)
	if err != nil {
		return nil, fmt.Errorf("aggregating candidates: %w", err)
	}
	report.Keywords = out.Stats
	report.CandidateCount = len(out.Candidates)
	if len(out.Candidates) == 0 {
		fmt.Fprintln(w, "no new candidates; nothing to do")
		return report, nil
	}

	// 4. Scoring.
	fmt.Fprintf(w, "scoring %d candidates\n", len(out.Candidates))
	scored := score.ScoreAll(ctx, p.Scorer, profile, out.Candidates, p.Config.AI, w)

	// 5. Selection.
	selection := rank.Select(scored, p.Config.MinScore, p.Config.PushLimit)
	report.SetSelection(selection)
	if len(selection) == 0 {
		fmt.Fprintf(w, "no candidates scored %d or above; nothing to send\n", p.Config.MinScore)
		return report, nil
	}
	FormatSelection(selection, w)

	if p.DryRun {
		fmt.Fprintln(w, "dry run: skipping delivery and history commit")
		return report, nil
	}

	// 6. Delivery, then commit. Order matters: a failed delivery must
	// leave the history exactly as it was, so a later run retries the
	// same papers.
	msg, err := mail.Render(selection, p.Config.Search.WindowDays, time.Now())
	if err != nil {
		return report, fmt.Errorf("rendering digest: %w", err)
	}
	if err := p.Sender.Deliver(ctx, msg); err != nil {
		return report, fmt.Errorf("delivering digest: %w", err)
	}
	report.Delivered = true
	fmt.Fprintf(w, "delivered %d papers to %s\n", len(selection), p.Config.Mail.Recipient)

	titles := make([]string, 0, len(selection))
	for _, sc := range selection {
		titles = append(titles, sc.Title)
	}
	if err := p.History.Commit(ctx, titles); err != nil {
		return report, fmt.Errorf("committing history after delivery: %w", err)
	}
	report.Committed = len(titles)
	fmt.Fprintf(w, "history: %d new titles committed\n", len(titles))

	return report, nil
}

// FormatSelection writes the ranked selection as a table.
func FormatSelection(selection []types.ScoredCandidate, w io.Writer) {
	fmt.Fprintf(w, "%-4s  %-60s  %-5s  %-4s\n", "Rank", "Title", "Score", "Hits")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for i, sc := range selection {
		title := sc.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-5d  %-4d\n", i+1, title, sc.Score, sc.HitCount())
	}
}
