// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mail

import (
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/litwatch/pkg/types"
)

func sampleSelection() []types.ScoredCandidate {
	return []types.ScoredCandidate{
		{
			Candidate: types.Candidate{
				Title:    "Tandem Perovskite Cells",
				Abstract: "x",
				Venue:    "Nature Energy",
				Date:     time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC),
				URL:      "https://example.org/p1",
				Authors:  []string{"A. One", "B. Two", "C. Three", "D. Four"},
				Keywords: []string{"perovskite", "tandem"},
			},
			Score:  9,
			Reason: "Direct overlap with the anchor corpus.",
		},
		{
			Candidate: types.Candidate{
				Title:    "Year Only Paper",
				Abstract: "x",
				Year:     2026,
				Authors:  []string{"Solo Author"},
				Keywords: []string{"perovskite"},
			},
			Score:  7,
			Reason: "Related materials system.",
		},
	}
}

func TestRenderDigest(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	msg, err := Render(sampleSelection(), 180, now)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if msg.Subject != "Top 2 papers (2026-08-29)" {
		t.Errorf("subject = %q", msg.Subject)
	}

	for _, want := range []string{
		"Tandem Perovskite Cells",
		"https://example.org/p1",
		"Nature Energy",
		"(2026-07-14)",
		"A. One, B. Two, C. Three et al.",
		"2 hits",
		"9 / 10",
		"perovskite, tandem",
		"Direct overlap with the anchor corpus.",
		"last 180 days",
		"#1 Top pick",
	} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("digest HTML lacks %q", want)
		}
	}

	// Second paper: single keyword means no hit badge, year-only date label.
	if strings.Contains(msg.HTML, "1 hits") {
		t.Error("hit badge must be absent for a single-keyword paper")
	}
	if !strings.Contains(msg.HTML, "(2026)") {
		t.Error("year-only paper should fall back to the year label")
	}
	if !strings.Contains(msg.HTML, "Unknown venue") {
		t.Error("missing venue should fall back to a placeholder")
	}
}

func TestRenderEscapesModelText(t *testing.T) {
	sel := []types.ScoredCandidate{{
		Candidate: types.Candidate{
			Title:    "Safe <Title>",
			Abstract: "x",
			Keywords: []string{"kw"},
		},
		Score:  6,
		Reason: `<script>alert("x")</script>`,
	}}

	msg, err := Render(sel, 180, time.Now())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(msg.HTML, "<script>") {
		t.Error("model-provided reason must be HTML-escaped")
	}
	if !strings.Contains(msg.HTML, "Safe &lt;Title&gt;") {
		t.Error("title must be HTML-escaped")
	}
}

func TestRenderEmptySelection(t *testing.T) {
	if _, err := Render(nil, 180, time.Now()); err == nil {
		t.Fatal("expected error for empty selection")
	}
}

func TestFormatMessageHeaders(t *testing.T) {
	cfg := types.MailConfig{
		Host:      "smtp.example.org",
		Username:  "bot@example.org",
		Recipient: "reader@example.org",
	}
	raw := formatMessage(cfg, Message{Subject: "Top 1 papers (2026-08-29)", HTML: "<p>hi</p>"})

	for _, want := range []string{
		"From: litwatch <bot@example.org>\r\n",
		"To: reader@example.org\r\n",
		"Subject: Top 1 papers (2026-08-29)\r\n",
		"Content-Type: text/html; charset=UTF-8\r\n",
		"\r\n\r\n<p>hi</p>",
	} {
		if !strings.Contains(raw, want) {
			t.Errorf("message lacks %q", want)
		}
	}
}
