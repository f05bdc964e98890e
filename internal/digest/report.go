// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litwatch/pkg/types"
)

// Report summarizes one run for diagnostics and scripting.
type Report struct {
	Date           string               `yaml:"date"`
	DryRun         bool                 `yaml:"dry_run,omitempty"`
	AnchorCount    int                  `yaml:"anchor_count"`
	Keywords       []types.KeywordStats `yaml:"keywords"`
	CandidateCount int                  `yaml:"candidate_count"`
	Selected       []SelectedPaper      `yaml:"selected"`
	Delivered      bool                 `yaml:"delivered"`
	Committed      int                  `yaml:"committed"`
}

// SelectedPaper is one digest entry in the report.
type SelectedPaper struct {
	Title    string `yaml:"title"`
	Score    int    `yaml:"score"`
	HitCount int    `yaml:"hit_count"`
	URL      string `yaml:"url,omitempty"`
	Reason   string `yaml:"reason,omitempty"`
}

// SetSelection records the final ordered selection.
func (r *Report) SetSelection(selection []types.ScoredCandidate) {
	r.Selected = r.Selected[:0]
	for _, sc := range selection {
		r.Selected = append(r.Selected, SelectedPaper{
			Title:    sc.Title,
			Score:    sc.Score,
			HitCount: sc.HitCount(),
			URL:      sc.URL,
			Reason:   sc.Reason,
		})
	}
}

// Write marshals the report to a YAML file.
func (r *Report) Write(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling run report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing run report: %w", err)
	}
	return nil
}
