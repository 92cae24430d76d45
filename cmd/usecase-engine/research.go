// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/usecase-engine/internal/httputil"
	"github.com/pdiddy/usecase-engine/internal/research"
	"github.com/pdiddy/usecase-engine/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research <subject...>",
	Short: "Collect web research for a subject without generating use cases",
	Long: `Research searches the web for the subject, fetches the top results and
prints the paragraph text extracted from each page. No LLM call is made.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().Int("max-results", types.DefaultSearchResults, "search results to fetch and scrape")
	researchCmd.Flags().Duration("timeout", types.DefaultRequestTimeout, "HTTP request timeout")
	researchCmd.Flags().Duration("delay-min", types.DefaultFetchDelayMin, "minimum pause before each page fetch")
	researchCmd.Flags().Duration("delay-max", types.DefaultFetchDelayMax, "maximum pause before each page fetch")
	researchCmd.Flags().Bool("json", false, "print documents as JSON")

	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	subject := strings.Join(args, " ")
	cfg := pipelineConfig(cmd).Research
	if cfg.SerpAPIKey == "" {
		return types.ErrMissingSerpAPIKey
	}

	collector := research.NewCollector(
		&research.SerpAPI{Client: httputil.NewClient(cfg.Timeout), APIKey: cfg.SerpAPIKey},
		research.NewHTTPFetcher(cfg.Timeout),
		research.RandomPacer{Min: cfg.DelayMin, Max: cfg.DelayMax},
		logger,
	)
	docs := collector.Collect(cmd.Context(), subject, cfg.MaxResults)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}

	if len(docs) == 0 {
		fmt.Println("No research documents collected.")
		return nil
	}
	for i, d := range docs {
		fmt.Printf("[%d] %s\n    %s\n    %d chars: %s\n\n", i+1, d.Title, d.URL, len(d.Text), truncate(d.Text, 160))
	}
	fmt.Printf("%d documents\n", len(docs))
	return nil
}
