// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/litwatch/pkg/types"
)

// relevancePromptTmpl asks the model for a two-field textual verdict. The
// layout (SCORE/REASON markers) exists because the collaborator guarantees
// no response schema; ParseVerdict recovers the fields by pattern match.
var relevancePromptTmpl = template.Must(template.New("relevance").Parse(`[Core Research Context (Anchor Papers)]:
{{.Anchors}}

[Target Paper to Evaluate]:
Title: {{.Title}}
Abstract: {{.Abstract}}

[Task]:
Evaluate the relevance of the Target Paper to the Core Research Context.
- 10: Essential/Critical match.
- 6-9: Relevant.
- 0-5: Irrelevant.

[Output Format]:
SCORE: <number>
REASON: <short explanation in English>
`))

// AnchorText serializes the profile into the bounded prompt fragment: one
// "- Title / Abstract" block per entry, truncated to maxChars runes.
func AnchorText(profile types.AnchorProfile, maxChars int) string {
	if maxChars <= 0 {
		maxChars = 10000
	}

	var b strings.Builder
	for _, e := range profile.Entries {
		fmt.Fprintf(&b, "- Title: %s\n  Abstract: %s\n\n", e.Title, e.Abstract)
	}
	return truncateRunes(b.String(), maxChars)
}

// renderPrompt fills the relevance template for one candidate, capping the
// abstract length to bound prompt size.
func renderPrompt(anchorText string, c *types.Candidate, cfg types.AIConfig) (string, error) {
	abstractLimit := cfg.AbstractCharLimit
	if abstractLimit <= 0 {
		abstractLimit = 3000
	}

	var buf bytes.Buffer
	err := relevancePromptTmpl.Execute(&buf, struct {
		Anchors  string
		Title    string
		Abstract string
	}{
		Anchors:  anchorText,
		Title:    c.Title,
		Abstract: truncateRunes(c.Abstract, abstractLimit),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
