// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/usecase-engine/internal/resource"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Show the resource search query derived from a use case",
	Long: `Keywords prints the keywords and search query the resource finder would
derive from a use case title and description.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		desc, _ := cmd.Flags().GetString("description")
		if strings.TrimSpace(title+desc) == "" {
			return fmt.Errorf("provide --title and/or --description")
		}
		fmt.Printf("keywords: %s\n", strings.Join(resource.Keywords(title, desc), ", "))
		fmt.Printf("query:    %s\n", resource.Query(title, desc))
		return nil
	},
}

func init() {
	keywordsCmd.Flags().String("title", "", "use case title")
	keywordsCmd.Flags().String("description", "", "use case description")

	rootCmd.AddCommand(keywordsCmd)
}
