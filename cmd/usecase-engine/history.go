// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/usecase-engine/internal/archive"
	"github.com/pdiddy/usecase-engine/internal/report"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List archived runs or show one",
	Long: `History lists the runs recorded in the local archive, newest first.
With a run ID it prints that run's ranked use cases as a markdown report.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum runs to list")
	historyCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := stringSetting(cmd, "", keyArchivePath, defaultArchivePath())
	store, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if len(args) == 1 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run ID %q", args[0])
		}
		rec, err := store.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		if jsonOutput {
			return enc.Encode(rec)
		}
		fmt.Printf("Run %d: %s (%s, %s)\n\n", rec.ID, rec.Subject, rec.Status, rec.StartedAt.Format("2006-01-02 15:04"))
		return report.RenderMarkdown(os.Stdout, rec.Subject, rec.UseCases)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return enc.Encode(runs)
	}
	if len(runs) == 0 {
		fmt.Println("No archived runs.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-5s  %-16s  %-10s  %-5s  %-9s  %s\n",
		"ID", "Started", "Status", "Docs", "UseCases", "Subject")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-5d  %-16s  %-10s  %-5d  %-9d  %s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04"), r.Status, r.Documents, r.Generated, truncate(r.Subject, 30))
	}
	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(runs))
	return nil
}
