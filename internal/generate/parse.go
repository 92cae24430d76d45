// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"strings"

	"github.com/pdiddy/usecase-engine/pkg/types"
)

// field binds a line label to the UseCase attribute it fills.
type field struct {
	label string
	set   func(*types.UseCase, string)
}

// fields is checked in order; the first label that prefixes a line wins.
var fields = []field{
	{labelTitle, func(u *types.UseCase, v string) { u.Title = v }},
	{labelDescription, func(u *types.UseCase, v string) { u.Description = v }},
	{labelDataSources, func(u *types.UseCase, v string) { u.DataSources = v }},
	{labelImpact, func(u *types.UseCase, v string) { u.Impact = v }},
	{labelComplexity, func(u *types.UseCase, v string) { u.Complexity = v }},
}

// ParseUseCases recovers use cases from a model response. The response is
// split into blocks on "---"; within a block every trimmed line that starts
// with a known label (case-sensitive) sets that field to the trimmed
// remainder, and a repeated label overwrites the earlier value. Other lines
// are ignored. A block becomes a UseCase only when it yields a title.
func ParseUseCases(raw string) []types.UseCase {
	var out []types.UseCase
	for _, block := range strings.Split(strings.TrimSpace(raw), blockSeparator) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if u, ok := parseBlock(block); ok {
			out = append(out, u)
		}
	}
	return out
}

func parseBlock(block string) (types.UseCase, bool) {
	var u types.UseCase
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		for _, f := range fields {
			if rest, ok := strings.CutPrefix(line, f.label); ok {
				f.set(&u, strings.TrimSpace(rest))
				break
			}
		}
	}
	return u, u.Title != ""
}
