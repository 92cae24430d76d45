// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/usecase-engine/pkg/types"
)

// --- helpers ---

func formatBlock(u types.UseCase) string {
	return strings.Join([]string{
		labelTitle + " " + u.Title,
		labelDescription + " " + u.Description,
		labelDataSources + " " + u.DataSources,
		labelImpact + " " + u.Impact,
		labelComplexity + " " + u.Complexity,
	}, "\n")
}

func sampleUseCases(n int) []types.UseCase {
	impacts := []string{"High", "Medium", "Low"}
	out := make([]types.UseCase, n)
	for i := range out {
		out[i] = types.UseCase{
			Title:       fmt.Sprintf("Use case %d", i+1),
			Description: fmt.Sprintf("Does thing %d for customers.", i+1),
			DataSources: "CRM data, support tickets",
			Impact:      impacts[i%3],
			Complexity:  impacts[(i+1)%3],
		}
	}
	return out
}

// --- Round trip ---

func TestParseUseCasesRoundTrip(t *testing.T) {
	want := sampleUseCases(5)
	blocks := make([]string, len(want))
	for i, u := range want {
		blocks[i] = formatBlock(u)
	}
	raw := strings.Join(blocks, "\n---\n")

	got := ParseUseCases(raw)
	require.Len(t, got, 5)
	assert.Equal(t, want, got)
}

// --- Block handling ---

func TestParseUseCasesDropsBlockWithoutTitle(t *testing.T) {
	raw := `TITLE: Demand forecasting
DESCRIPTION: Predict weekly demand.
---
DESCRIPTION: A block with no title.
BUSINESS IMPACT: High
---
TITLE: Chat assistant
COMPLEXITY: Low`

	got := ParseUseCases(raw)
	require.Len(t, got, 2)
	assert.Equal(t, "Demand forecasting", got[0].Title)
	assert.Equal(t, "Chat assistant", got[1].Title)
	assert.Equal(t, "Low", got[1].Complexity)
}

func TestParseUseCasesIgnoresStrayLines(t *testing.T) {
	raw := `Here are your use cases!

TITLE: Invoice matching
Some commentary the model added.
DESCRIPTION: Match invoices to purchase orders.
  BUSINESS IMPACT:   High   
notes: ignored
title: lower-case labels are not recognized`

	got := ParseUseCases(raw)
	require.Len(t, got, 1)
	assert.Equal(t, types.UseCase{
		Title:       "Invoice matching",
		Description: "Match invoices to purchase orders.",
		Impact:      "High",
	}, got[0])
}

func TestParseUseCasesRepeatedLabelOverwrites(t *testing.T) {
	got := ParseUseCases("TITLE: first\nTITLE: second")
	require.Len(t, got, 1)
	assert.Equal(t, "second", got[0].Title)
}

func TestParseUseCasesEmptyAndSeparatorsOnly(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace", "  \n\t "},
		{"separators only", "---\n---\n---"},
		{"no labels", "I cannot help with that."},
		{"empty title", "TITLE:   \nDESCRIPTION: something"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, ParseUseCases(tt.raw))
		})
	}
}

func TestParseUseCasesMissingFieldsStayEmpty(t *testing.T) {
	got := ParseUseCases("TITLE: Only a title")
	require.Len(t, got, 1)
	assert.Equal(t, "Only a title", got[0].Title)
	assert.Empty(t, got[0].Description)
	assert.Empty(t, got[0].DataSources)
	assert.Empty(t, got[0].Impact)
	assert.Empty(t, got[0].Complexity)
	assert.Nil(t, got[0].Score)
}

// --- Prompt ---

func TestBuildPromptContainsLabelsAndContext(t *testing.T) {
	p, err := BuildPrompt("Acme Corp", "Acme sells anvils.\nAcme ships worldwide.")
	require.NoError(t, err)

	assert.Contains(t, p, "facts about Acme Corp")
	assert.Contains(t, p, "exactly 5 distinct")
	assert.Contains(t, p, "Acme sells anvils.\nAcme ships worldwide.")
	for _, label := range []string{labelTitle, labelDescription, labelDataSources, labelImpact, labelComplexity} {
		assert.Contains(t, p, label)
	}
	assert.Contains(t, p, `"---"`)
}
