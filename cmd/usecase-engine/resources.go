// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/usecase-engine/internal/httputil"
	"github.com/pdiddy/usecase-engine/internal/resource"
	"github.com/pdiddy/usecase-engine/pkg/types"
)

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Find datasets and repositories for one use case",
	Long: `Resources runs the resource finder for a single use case: it derives a
query from --title and --description and asks Kaggle, Hugging Face and
GitHub for matching datasets and repositories. Backends without
credentials are skipped.`,
	RunE: runResources,
}

func init() {
	resourcesCmd.Flags().String("title", "", "use case title")
	resourcesCmd.Flags().String("description", "", "use case description")
	resourcesCmd.Flags().String("query", "", "search query (overrides --title/--description)")
	resourcesCmd.Flags().Int("dataset-results", types.DefaultDatasetResults, "links per backend")
	resourcesCmd.Flags().Duration("timeout", types.DefaultRequestTimeout, "HTTP request timeout")
	resourcesCmd.Flags().Bool("json", false, "print links as JSON")

	rootCmd.AddCommand(resourcesCmd)
}

func runResources(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	if query == "" {
		title, _ := cmd.Flags().GetString("title")
		desc, _ := cmd.Flags().GetString("description")
		query = resource.Query(title, desc)
	}
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("provide --query, or --title and/or --description")
	}

	cfg := pipelineConfig(cmd).Resources
	finder := resource.NewFinder(resource.NewBackends(cfg, httputil.NewClient(cfg.Timeout)), cfg, logger)
	links, results := finder.Find(cmd.Context(), query)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(links)
	}

	fmt.Printf("query: %s\n\n", query)
	for _, r := range results {
		line := fmt.Sprintf("%-12s %-12s %d link(s)", r.Backend, r.Outcome, len(r.Links))
		if r.Err != nil {
			line += "  " + r.Err.Error()
		}
		fmt.Println(line)
	}
	fmt.Println()
	if len(links) == 0 {
		fmt.Println("No resources found.")
		return nil
	}
	for _, l := range links {
		fmt.Printf("- %s\n  %s\n  %s\n", l.Title, l.URL, l.Notes)
	}
	return nil
}
