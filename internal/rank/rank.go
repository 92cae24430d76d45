// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank scores use cases from their impact and complexity labels and
// orders them by priority.
package rank

import (
	"sort"
	"strings"

	"github.com/pdiddy/usecase-engine/pkg/types"
)

// Score weights. Higher impact raises priority; a larger complexity score
// (which means simpler work) lowers it.
const (
	ImpactWeight     = 0.5
	ComplexityWeight = 0.3
)

// ImpactScore maps a business impact label to 3 (high), 2 (medium),
// 1 (low) or 0 (unknown). Matching is a case-insensitive substring test.
func ImpactScore(label string) int {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "high"):
		return 3
	case strings.Contains(l, "med"):
		return 2
	case strings.Contains(l, "low"):
		return 1
	}
	return 0
}

// ComplexityScore maps a complexity label to 1 (high), 2 (medium),
// 3 (low) or 0 (unknown).
func ComplexityScore(label string) int {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "high"):
		return 1
	case strings.Contains(l, "med"):
		return 2
	case strings.Contains(l, "low"):
		return 3
	}
	return 0
}

// Score computes 0.5*impact - 0.3*complexity for a use case.
func Score(u types.UseCase) float64 {
	return ImpactWeight*float64(ImpactScore(u.Impact)) - ComplexityWeight*float64(ComplexityScore(u.Complexity))
}

// Rank returns copies of useCases with Score set, ordered by descending
// score. Ties keep their input order. The input slice is not modified.
func Rank(useCases []types.UseCase) []types.UseCase {
	ranked := make([]types.UseCase, len(useCases))
	for i, u := range useCases {
		c := u.Clone()
		s := Score(u)
		c.Score = &s
		ranked[i] = c
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].Score > *ranked[j].Score
	})
	return ranked
}
