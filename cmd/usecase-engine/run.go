// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/usecase-engine/internal/archive"
	"github.com/pdiddy/usecase-engine/internal/generate"
	"github.com/pdiddy/usecase-engine/internal/httputil"
	"github.com/pdiddy/usecase-engine/internal/pipeline"
	"github.com/pdiddy/usecase-engine/internal/report"
	"github.com/pdiddy/usecase-engine/internal/research"
	"github.com/pdiddy/usecase-engine/internal/resource"
	"github.com/pdiddy/usecase-engine/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run <subject...>",
	Short: "Run the full pipeline for a company or industry",
	Long: `Run researches the subject on the web, generates AI use cases with an
LLM, attaches datasets and repositories, ranks the proposals and writes
<subject>_usecases.md to the output directory.

The run stops without a report when research or generation comes back
empty. Resource and ranking problems never stop a run.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPipeline,
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

// addRunFlags registers the run flags on cmd.
func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("max-results", types.DefaultSearchResults, "search results to fetch and scrape")
	f.Int("dataset-results", types.DefaultDatasetResults, "links per resource backend per use case")
	f.String("output-dir", types.DefaultOutputDir, "directory for reports")
	f.Bool("html", false, "also write an HTML report")
	f.Bool("pdf", false, "also write a PDF report (needs Chrome or Chromium)")
	f.Bool("snapshot", true, "write a YAML snapshot of the run")
	f.Bool("no-archive", false, "do not record the run in the archive")
	f.String("model", types.DefaultModel, "LLM model identifier")
	f.Float64("temperature", types.DefaultTemperature, "LLM sampling temperature")
	f.Int("max-tokens", types.DefaultMaxTokens, "LLM completion token limit")
	f.Duration("timeout", types.DefaultRequestTimeout, "HTTP request timeout")
	f.Duration("delay-min", types.DefaultFetchDelayMin, "minimum pause before each page fetch")
	f.Duration("delay-max", types.DefaultFetchDelayMax, "maximum pause before each page fetch")
	f.Bool("json", false, "print the ranked use cases as JSON")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	subject := strings.Join(args, " ")

	cfg := pipelineConfig(cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}

	orch, closeStages, err := buildOrchestrator(cfg)
	if err != nil {
		return err
	}
	defer closeStages()

	res, err := orch.Run(cmd.Context(), subject)
	if err != nil {
		return err
	}

	if res.Record.Status == types.RunEmpty {
		fmt.Fprintf(os.Stderr, "No report written for %q: research or generation returned nothing.\n", subject)
		return nil
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Record.UseCases)
	}
	printRanked(os.Stdout, res.Record.UseCases)
	printPaths(os.Stdout, res)
	return nil
}

// buildOrchestrator wires the concrete stages for cfg. The returned func
// releases the archive.
func buildOrchestrator(cfg types.PipelineConfig) (*pipeline.Orchestrator, func(), error) {
	collector := research.NewCollector(
		&research.SerpAPI{Client: httputil.NewClient(cfg.Research.Timeout), APIKey: cfg.Research.SerpAPIKey},
		research.NewHTTPFetcher(cfg.Research.Timeout),
		research.RandomPacer{Min: cfg.Research.DelayMin, Max: cfg.Research.DelayMax},
		logger,
	)

	llm, err := generate.NewAnthropicLLM(cfg.Generation.APIKey)
	if err != nil {
		return nil, nil, err
	}

	backends := resource.NewBackends(cfg.Resources, httputil.NewClient(cfg.Resources.Timeout))

	var pdf report.PDFRenderer
	if cfg.Report.PDF {
		pdf = report.NewChromePDF()
	}

	stages := pipeline.Stages{
		Collector: collector,
		Generator: generate.New(llm, cfg.Generation, logger),
		Finder:    resource.NewFinder(backends, cfg.Resources, logger),
		Emitter:   report.NewEmitter(cfg.Report, pdf, logger),
	}

	closeFn := func() {}
	if cfg.Report.ArchivePath != "" {
		store, err := archive.Open(cfg.Report.ArchivePath)
		if err != nil {
			return nil, nil, err
		}
		stages.Archive = store
		closeFn = func() {
			if err := store.Close(); err != nil {
				logger.Warn("closing archive", "error", err)
			}
		}
	}

	return pipeline.New(stages, cfg.Research.MaxResults, logger), closeFn, nil
}

func printRanked(w io.Writer, ranked []types.UseCase) {
	fmt.Fprintf(w, "%-4s  %-6s  %-8s  %-10s  %-50s  %s\n",
		"Rank", "Score", "Impact", "Complexity", "Title", "Resources")
	fmt.Fprintln(w, strings.Repeat("-", 96))
	for i, uc := range ranked {
		score := "-"
		if uc.HasScore() {
			score = fmt.Sprintf("%.2f", uc.ScoreValue())
		}
		fmt.Fprintf(w, "%-4d  %-6s  %-8s  %-10s  %-50s  %d\n",
			i+1, score, orNA(uc.Impact), orNA(uc.Complexity), truncate(uc.Title, 50), len(uc.Resources))
	}
}

func printPaths(w io.Writer, res pipeline.Result) {
	fmt.Fprintln(w)
	for _, p := range []struct{ label, path string }{
		{"Markdown", res.Paths.Markdown},
		{"HTML", res.Paths.HTML},
		{"PDF", res.Paths.PDF},
		{"Snapshot", res.Snapshot},
	} {
		if p.path != "" {
			fmt.Fprintf(w, "%-9s %s\n", p.label+":", p.path)
		}
	}
	if res.Record.ID != 0 {
		fmt.Fprintf(w, "Archived as run %d\n", res.Record.ID)
	}
	if res.Resources.HasFailures() {
		fmt.Fprintf(w, "%d resource lookup(s) failed; see log for details\n",
			res.Resources.Failed+res.Resources.RateLimited)
	}
}

func orNA(s string) string {
	if s == "" {
		return report.NotAvailable
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
