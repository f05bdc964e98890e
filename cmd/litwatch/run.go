// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litwatch/internal/digest"
	"github.com/pdiddy/litwatch/internal/history"
	"github.com/pdiddy/litwatch/internal/mail"
	"github.com/pdiddy/litwatch/internal/score"
	"github.com/pdiddy/litwatch/internal/search"
	"github.com/pdiddy/litwatch/internal/zotero"
	"github.com/pdiddy/litwatch/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one monitoring cycle and email the digest",
	Long: `Run executes one full monitoring cycle: build the anchor profile from
the Zotero collection, search for recent papers per monitored keyword, score
each new candidate against the profile, and email the ranked digest. Sent
titles are recorded only after the email is accepted, so a failed delivery
is retried on the next run.

With --dry-run the cycle stops after selection: the ranked papers are printed
but nothing is sent and nothing is recorded.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().Bool("dry-run", false, "select and print, but do not send or record")
	runCmd.Flags().String("report", "", "write a YAML run report to this path")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	reportPath, _ := cmd.Flags().GetString("report")

	cfg := buildConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	httpClient := &http.Client{Timeout: cfg.Zotero.Timeout}

	// The library ID can be left unset and resolved from the API key.
	if cfg.Zotero.LibraryID == "" {
		id, err := zotero.ResolveLibraryID(ctx, httpClient, cfg.Zotero.APIKey, cfg.Zotero.UserAgent)
		if err != nil {
			return fmt.Errorf("resolving Zotero library ID: %w", err)
		}
		cfg.Zotero.LibraryID = id
		fmt.Fprintf(os.Stderr, "Resolved Zotero library ID: %s\n", id)
	}

	zc := &zotero.Client{
		HTTPClient: httpClient,
		APIKey:     cfg.Zotero.APIKey,
		LibraryID:  cfg.Zotero.LibraryID,
		UserAgent:  cfg.Zotero.UserAgent,
	}

	backends := []search.Backend{
		&search.SemanticScholarBackend{Client: httpClient, APIKey: cfg.Search.SemanticScholarAPIKey},
	}
	if cfg.Search.EnableArxiv {
		backends = append(backends, &search.ArxivBackend{Client: httpClient})
	}

	p := &digest.Pipeline{
		Anchors: digest.AnchorFunc(func(ctx context.Context) (types.AnchorProfile, error) {
			return zc.AnchorsFromCollection(ctx, cfg.Zotero)
		}),
		Backends: backends,
		Scorer:   &score.ChatBackend{Client: &http.Client{Timeout: cfg.AI.Timeout}, Config: cfg.AI},
		History:  history.New(cfg.History),
		Sender:   &mail.SMTPSender{Config: cfg.Mail},
		Config:   cfg,
		DryRun:   dryRun,
		Out:      os.Stdout,
	}

	report, runErr := p.Run(ctx)
	if report != nil && reportPath != "" {
		if err := report.Write(reportPath); err != nil {
			fmt.Fprintf(os.Stderr, "writing report: %v\n", err)
		}
	}
	return runErr
}
