// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mail renders the digest and delivers it over SMTP.
package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/pdiddy/litwatch/pkg/types"
)

// Message is one rendered digest, ready for delivery.
type Message struct {
	Subject string
	HTML    string
}

// maxDisplayedAuthors caps the author line before "et al.".
const maxDisplayedAuthors = 3

var digestTmpl = template.Must(template.New("digest").Parse(`<div style="font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; max-width: 600px; margin: auto; color: #333;">
  <h2 style="color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px;">
    Literature Digest ({{.Date}})
  </h2>
  <p style="font-size: 12px; color: #888;">
    Top {{.Count}} selections (window: last {{.WindowDays}} days)
  </p>
{{range .Papers}}  <div style="border: {{.Border}}; margin-bottom: 20px; border-radius: 8px; overflow: hidden; background: #fff;">
    <div style="background: #f8f9fa; padding: 10px 15px; border-bottom: 1px solid #eee;">
      <b style="font-size: 14px;">{{.RankLabel}}</b>
      {{if .HitBadge}}<span style="background:#6c757d; color:white; padding:2px 6px; border-radius:4px; font-size:10px; margin-left:5px;">{{.HitBadge}}</span>{{end}}
      <span style="background: #e74c3c; color: white; padding: 2px 8px; border-radius: 10px; font-weight:bold; font-size: 12px; float: right;">{{.Score}} / 10</span>
    </div>
    <div style="padding: 15px;">
      <h3 style="margin: 0 0 10px 0; font-size: 16px; line-height: 1.4;">
        <a href="{{.URL}}" style="text-decoration: none; color: #0366d6;">{{.Title}}</a>
      </h3>
      <div style="font-size: 13px; color: #444; margin-bottom: 12px; line-height: 1.6;">
        <div style="margin-bottom: 4px;"><b>{{.Venue}}</b> <span style="color:#888; margin-left:5px;">({{.DateLabel}})</span></div>
        <div style="color: #666;">{{.Authors}}</div>
      </div>
      <p style="font-size: 11px; color: #999; margin: 0 0 8px 0;">Keywords: {{.Keywords}}</p>
      <div style="background: #f1f8ff; padding: 10px; border-radius: 6px; font-size: 13px; color: #24292e; border-left: 3px solid #0366d6;">
        <b>AI comment:</b> {{.Reason}}
      </div>
    </div>
  </div>
{{end}}  <p style="text-align: center; color: #aaa; font-size: 12px; margin-top: 20px;">Generated by litwatch</p>
</div>
`))

type digestData struct {
	Date       string
	Count      int
	WindowDays int
	Papers     []paperData
}

type paperData struct {
	RankLabel string
	Border    template.CSS
	HitBadge  string
	Score     int
	Title     string
	URL       string
	Venue     string
	DateLabel string
	Authors   string
	Keywords  string
	Reason    string
}

// Render builds the digest message for an ordered selection. The list must
// be non-empty; the orchestrator never attempts delivery otherwise.
func Render(selection []types.ScoredCandidate, windowDays int, now time.Time) (Message, error) {
	if len(selection) == 0 {
		return Message{}, fmt.Errorf("nothing to render: empty selection")
	}

	date := now.Format("2006-01-02")
	data := digestData{
		Date:       date,
		Count:      len(selection),
		WindowDays: windowDays,
	}
	for i, sc := range selection {
		data.Papers = append(data.Papers, paperView(i, sc))
	}

	var buf bytes.Buffer
	if err := digestTmpl.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("rendering digest: %w", err)
	}

	return Message{
		Subject: fmt.Sprintf("Top %d papers (%s)", len(selection), date),
		HTML:    buf.String(),
	}, nil
}

func paperView(rank int, sc types.ScoredCandidate) paperData {
	p := paperData{
		Score:    sc.Score,
		Title:    sc.Title,
		URL:      sc.URL,
		Venue:    sc.Venue,
		Authors:  authorLine(sc.Authors),
		Keywords: strings.Join(sc.Keywords, ", "),
		Reason:   sc.Reason,
	}

	switch rank {
	case 0:
		p.RankLabel, p.Border = "#1 Top pick", "2px solid #f1c40f"
	case 1:
		p.RankLabel, p.Border = "#2 Recommended", "2px solid #bdc3c7"
	case 2:
		p.RankLabel, p.Border = "#3 Recommended", "2px solid #e67e22"
	default:
		p.RankLabel, p.Border = fmt.Sprintf("#%d", rank+1), "1px solid #ddd"
	}

	if n := sc.HitCount(); n > 1 {
		p.HitBadge = fmt.Sprintf("%d hits", n)
	}
	if p.Venue == "" {
		p.Venue = "Unknown venue"
	}

	switch {
	case !sc.Date.IsZero():
		p.DateLabel = sc.Date.Format("2006-01-02")
	case sc.Year > 0:
		p.DateLabel = fmt.Sprintf("%d", sc.Year)
	default:
		p.DateLabel = "recent"
	}
	return p
}

func authorLine(authors []string) string {
	if len(authors) == 0 {
		return "Unknown authors"
	}
	shown := authors
	if len(shown) > maxDisplayedAuthors {
		shown = shown[:maxDisplayedAuthors]
	}
	line := strings.Join(shown, ", ")
	if len(authors) > maxDisplayedAuthors {
		line += " et al."
	}
	return line
}
