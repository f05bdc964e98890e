// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/litwatch/internal/secrets"
	"github.com/pdiddy/litwatch/pkg/types"
)

const defaultUserAgent = "litwatch/0.1"

// Defaults for values a config file does not have to set.
const (
	defaultTimeout       = 60 * time.Second
	defaultMaxAnchors    = 20
	defaultAbstractLimit = 400
	defaultWindowDays    = 180
	defaultPerKeyword    = 100
	defaultYearSpan      = 2
	defaultQueryInterval = 1 * time.Second
	defaultModel         = "deepseek-chat"
	defaultAnchorChars   = 10000
	defaultAbstractChars = 3000
	defaultSMTPPort      = 465
	defaultHistoryPath   = "litwatch-history.db"
	defaultMaxHistory    = 5000
	defaultMinScore      = 6
	defaultPushLimit     = 20
)

func init() {
	viper.SetDefault("zotero.max_anchors", defaultMaxAnchors)
	viper.SetDefault("zotero.abstract_limit", defaultAbstractLimit)
	viper.SetDefault("search.window_days", defaultWindowDays)
	viper.SetDefault("search.per_keyword_limit", defaultPerKeyword)
	viper.SetDefault("search.year_span", defaultYearSpan)
	viper.SetDefault("search.query_interval", defaultQueryInterval)
	viper.SetDefault("ai.model", defaultModel)
	viper.SetDefault("ai.workers", 1)
	viper.SetDefault("ai.anchor_char_limit", defaultAnchorChars)
	viper.SetDefault("ai.abstract_char_limit", defaultAbstractChars)
	viper.SetDefault("mail.port", defaultSMTPPort)
	viper.SetDefault("mail.from_name", "litwatch")
	viper.SetDefault("history.path", defaultHistoryPath)
	viper.SetDefault("history.max_entries", defaultMaxHistory)
	viper.SetDefault("min_score", defaultMinScore)
	viper.SetDefault("push_limit", defaultPushLimit)
	viper.SetDefault("http_timeout", defaultTimeout)
}

// envDefault returns the config-file value if set, the environment variable
// otherwise. For non-secret settings that the original .env layout carries.
func envDefault(value, envKey string) string {
	if value != "" {
		return value
	}
	return os.Getenv(envKey)
}

// buildConfig assembles the run configuration from the config file, the
// environment, and .secrets/. Precedence: config file, then environment,
// then secrets directory.
func buildConfig() types.Config {
	httpCfg := types.HTTPConfig{
		Timeout:   viper.GetDuration("http_timeout"),
		UserAgent: defaultUserAgent,
	}

	return types.Config{
		Zotero: types.ZoteroConfig{
			HTTPConfig:    httpCfg,
			LibraryID:     envDefault(viper.GetString("zotero.library_id"), "ZOTERO_LIBRARY_ID"),
			APIKey:        secrets.Resolve(viper.GetString("zotero.api_key"), "ZOTERO_API_KEY", "zotero-api-key", loadedSecrets),
			Collection:    viper.GetString("zotero.collection"),
			MaxAnchors:    viper.GetInt("zotero.max_anchors"),
			AbstractLimit: viper.GetInt("zotero.abstract_limit"),
		},
		Search: types.SearchConfig{
			HTTPConfig:            httpCfg,
			Keywords:              viper.GetStringSlice("search.keywords"),
			WindowDays:            viper.GetInt("search.window_days"),
			PerKeywordLimit:       viper.GetInt("search.per_keyword_limit"),
			YearSpan:              viper.GetInt("search.year_span"),
			QueryInterval:         viper.GetDuration("search.query_interval"),
			SemanticScholarAPIKey: secrets.Resolve(viper.GetString("search.semantic_scholar_api_key"), "S2_API_KEY", "semantic-scholar-api-key", loadedSecrets),
			EnableArxiv:           viper.GetBool("search.enable_arxiv"),
		},
		AI: types.AIConfig{
			HTTPConfig:        httpCfg,
			Model:             viper.GetString("ai.model"),
			APIKey:            secrets.Resolve(viper.GetString("ai.api_key"), "DEEPSEEK_API_KEY", "ai-api-key", loadedSecrets),
			BaseURL:           viper.GetString("ai.base_url"),
			Workers:           viper.GetInt("ai.workers"),
			AnchorCharLimit:   viper.GetInt("ai.anchor_char_limit"),
			AbstractCharLimit: viper.GetInt("ai.abstract_char_limit"),
		},
		Mail: types.MailConfig{
			Host:      envDefault(viper.GetString("mail.host"), "MAIL_HOST"),
			Port:      viper.GetInt("mail.port"),
			Username:  envDefault(viper.GetString("mail.username"), "MAIL_USER"),
			Password:  secrets.Resolve(viper.GetString("mail.password"), "MAIL_PASS", "mail-password", loadedSecrets),
			Recipient: envDefault(viper.GetString("mail.recipient"), "MAIL_RECEIVER"),
			FromName:  viper.GetString("mail.from_name"),
		},
		History: types.HistoryConfig{
			Path:       viper.GetString("history.path"),
			MaxEntries: viper.GetInt("history.max_entries"),
		},
		MinScore:  viper.GetInt("min_score"),
		PushLimit: viper.GetInt("push_limit"),
	}
}
