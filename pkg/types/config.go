// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "litwatch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ZoteroConfig holds settings for the bibliographic store client.
type ZoteroConfig struct {
	HTTPConfig `yaml:",inline"`

	// LibraryID is the numeric user library identifier. When empty it is
	// resolved once at startup from the API key.
	LibraryID string `json:"library_id,omitempty" yaml:"library_id,omitempty"`

	// APIKey authenticates against the Zotero API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Collection is the name of the anchor collection, matched
	// case-insensitively.
	Collection string `json:"collection" yaml:"collection"`

	// MaxAnchors caps the number of anchor entries to bound prompt size
	// (default 20).
	MaxAnchors int `json:"max_anchors" yaml:"max_anchors"`

	// AbstractLimit truncates anchor abstracts to this many runes
	// (default 400).
	AbstractLimit int `json:"abstract_limit" yaml:"abstract_limit"`
}

// SearchConfig holds settings for the candidate aggregation stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Keywords is the ordered list of monitored search terms. It must not
	// be empty; order affects only diagnostic reporting.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// WindowDays is the recency window: a paper dated on or after
	// today-WindowDays survives the date filter (default 180).
	WindowDays int `json:"window_days" yaml:"window_days"`

	// PerKeywordLimit is the result cap requested per keyword query
	// (default 100).
	PerKeywordLimit int `json:"per_keyword_limit" yaml:"per_keyword_limit"`

	// YearSpan is the coarse year range sent to the backend; the precise
	// window check is re-applied locally (default 2).
	YearSpan int `json:"year_span" yaml:"year_span"`

	// QueryInterval paces consecutive keyword queries against the
	// backends' rate limits. Zero disables pacing.
	QueryInterval time.Duration `json:"query_interval" yaml:"query_interval"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// EnableArxiv adds the arXiv backend alongside Semantic Scholar.
	EnableArxiv bool `json:"enable_arxiv" yaml:"enable_arxiv"`
}

// AIConfig holds settings for the relevance scoring stage.
type AIConfig struct {
	HTTPConfig `yaml:",inline"`

	// Model is the chat model identifier (e.g. "deepseek-chat").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the chat API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL is the OpenAI-compatible API root (default
	// "https://api.deepseek.com").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Workers bounds concurrent scoring calls (default 1, sequential).
	Workers int `json:"workers" yaml:"workers"`

	// AnchorCharLimit caps the serialized anchor profile embedded in each
	// prompt (default 10000 runes).
	AnchorCharLimit int `json:"anchor_char_limit" yaml:"anchor_char_limit"`

	// AbstractCharLimit caps the candidate abstract embedded in each
	// prompt (default 3000 runes).
	AbstractCharLimit int `json:"abstract_char_limit" yaml:"abstract_char_limit"`
}

// MailConfig holds settings for digest delivery over SMTP.
type MailConfig struct {
	// Host is the SMTP server hostname (e.g. "smtp.gmail.com").
	Host string `json:"host" yaml:"host"`

	// Port is the implicit-TLS SMTP port (default 465).
	Port int `json:"port" yaml:"port"`

	// Username is the sending account, also used as the From address.
	Username string `json:"username" yaml:"username"`

	// Password is the account password or app token.
	Password string `json:"password,omitempty" yaml:"password,omitempty"`

	// Recipient is the digest recipient address.
	Recipient string `json:"recipient" yaml:"recipient"`

	// FromName is the display name on the From header (default "litwatch").
	FromName string `json:"from_name" yaml:"from_name"`
}

// HistoryConfig holds settings for the sent-title history store.
type HistoryConfig struct {
	// Path is the SQLite database file (default "litwatch-history.db").
	Path string `json:"path" yaml:"path"`

	// MaxEntries caps retained titles; oldest entries are evicted first
	// (default 5000).
	MaxEntries int `json:"max_entries" yaml:"max_entries"`
}

// Config groups all stage configurations for one pipeline run.
type Config struct {
	Zotero  ZoteroConfig  `json:"zotero" yaml:"zotero"`
	Search  SearchConfig  `json:"search" yaml:"search"`
	AI      AIConfig      `json:"ai" yaml:"ai"`
	Mail    MailConfig    `json:"mail" yaml:"mail"`
	History HistoryConfig `json:"history" yaml:"history"`

	// MinScore is the minimum relevance score a candidate needs to reach
	// the digest (default 6).
	MinScore int `json:"min_score" yaml:"min_score"`

	// PushLimit caps the number of papers per digest (default 20).
	PushLimit int `json:"push_limit" yaml:"push_limit"`
}

// Validate checks the hard preconditions that must hold before any side
// effect: credentials, a recipient, and a non-empty keyword list.
func (c Config) Validate() error {
	switch {
	case c.Zotero.APIKey == "":
		return fmt.Errorf("missing Zotero API key (zotero.api_key)")
	case c.Zotero.Collection == "":
		return fmt.Errorf("missing anchor collection name (zotero.collection)")
	case c.AI.APIKey == "":
		return fmt.Errorf("missing AI API key (ai.api_key)")
	case len(c.Search.Keywords) == 0:
		return fmt.Errorf("no monitored keywords configured (search.keywords)")
	case c.Mail.Host == "":
		return fmt.Errorf("missing SMTP host (mail.host)")
	case c.Mail.Username == "":
		return fmt.Errorf("missing SMTP username (mail.username)")
	case c.Mail.Password == "":
		return fmt.Errorf("missing SMTP password (mail.password)")
	case c.Mail.Recipient == "":
		return fmt.Errorf("missing digest recipient (mail.recipient)")
	}
	return nil
}
