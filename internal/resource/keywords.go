// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resource

import (
	"strings"
	"unicode/utf8"
)

// MaxKeywords caps the number of terms in a resource query.
const MaxKeywords = 5

// stopWords are filler words that carry no topical signal in use-case titles
// and descriptions.
var stopWords = map[string]bool{
	"for": true, "and": true, "with": true, "the": true, "from": true,
	"about": true, "this": true, "that": true, "which": true, "using": true,
	"based": true, "improve": true, "enhance": true, "generate": true,
	"automate": true, "predict": true, "implement": true, "utilize": true,
	"leverage": true,
}

// Keywords derives search terms from a use case title and description.
// The text is lower-cased, colons are removed, and whitespace-separated
// tokens of three or more characters (runes, not bytes) that are not stop words are kept,
// de-duplicated in first-seen order, up to MaxKeywords.
func Keywords(title, description string) []string {
	text := strings.ToLower(title + " " + description)
	text = strings.ReplaceAll(text, ":", "")

	seen := make(map[string]bool)
	var out []string
	for _, tok := range strings.Fields(text) {
		if utf8.RuneCountInString(tok) <= 2 || stopWords[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
		if len(out) == MaxKeywords {
			break
		}
	}
	return out
}

// Query joins the keywords of a use case into a backend query string. It
// returns "" when no keyword survives filtering.
func Query(title, description string) string {
	return strings.Join(Keywords(title, description), " ")
}
