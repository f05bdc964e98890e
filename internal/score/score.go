// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score judges candidate relevance against the anchor profile via a
// chat model and parses the model's free-text verdict.
package score

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/pdiddy/litwatch/pkg/types"
)

// Backend abstracts the chat API so tests can supply a mock. The
// collaborator is a free-text generator: the reply carries no guaranteed
// structure beyond what the prompt requests.
type Backend interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// placeholderReason stands in when the reply contains no REASON marker.
const placeholderReason = "No reason provided"

// scoreRe matches the first integer after a SCORE marker.
var scoreRe = regexp.MustCompile(`SCORE:\s*(\d+)`)

// ScoreOne evaluates a single candidate. It never returns an error: a
// transport failure or malformed reply yields score 0 with a descriptive
// reason, so one bad candidate cannot abort the rest of the batch.
func ScoreOne(ctx context.Context, backend Backend, anchorText string, c *types.Candidate, cfg types.AIConfig) types.ScoredCandidate {
	sc := types.ScoredCandidate{Candidate: *c}

	prompt, err := renderPrompt(anchorText, c, cfg)
	if err != nil {
		sc.Reason = fmt.Sprintf("AI error: %v", err)
		return sc
	}

	reply, err := backend.Complete(ctx, prompt)
	if err != nil {
		sc.Reason = fmt.Sprintf("AI error: %v", err)
		return sc
	}

	sc.Score, sc.Reason = ParseVerdict(reply)
	return sc
}

// ParseVerdict extracts the score and reason from a model reply. The score
// is the first integer after "SCORE:", defaulting to 0 when absent or
// unparseable. The reason is the text after the last "REASON:" marker, with
// a fixed placeholder when no marker exists.
func ParseVerdict(reply string) (int, string) {
	score := 0
	if m := scoreRe.FindStringSubmatch(reply); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			score = n
		}
	}

	reason := placeholderReason
	if parts := strings.Split(reply, "REASON:"); len(parts) > 1 {
		reason = strings.TrimSpace(parts[len(parts)-1])
	}
	return score, reason
}

// ScoreAll evaluates every candidate. Candidates are independent, so they
// are fanned out to cfg.Workers goroutines (default 1); results land at the
// candidate's own index, keeping output order deterministic regardless of
// worker count.
func ScoreAll(ctx context.Context, backend Backend, profile types.AnchorProfile, cands []*types.Candidate, cfg types.AIConfig, w io.Writer) []types.ScoredCandidate {
	if len(cands) == 0 {
		return nil
	}

	anchorText := AnchorText(profile, cfg.AnchorCharLimit)

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(cands) {
		workers = len(cands)
	}

	scored := make([]types.ScoredCandidate, len(cands))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				scored[idx] = ScoreOne(ctx, backend, anchorText, cands[idx], cfg)
			}
		}()
	}

	for idx := range cands {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	for i, sc := range scored {
		fmt.Fprintf(w, "  [%d/%d] %-50s  %2d/10\n", i+1, len(scored), clip(sc.Title, 50), sc.Score)
	}
	return scored
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
