// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the usecase-engine pipeline.
// Every stage exchanges these values: the collector emits ResearchDocuments,
// the generator emits UseCases, the resource finder fills in ResourceLinks,
// the ranker sets Score, and the report emitter persists a RunRecord.
package types

// ResearchDocument is the readable text of one web page scraped during
// research. The collector emits one document per page that returned
// non-empty paragraph text.
type ResearchDocument struct {
	// URL is the page address the text was fetched from.
	URL string `json:"url" yaml:"url"`

	// Title is the search-result title of the page.
	Title string `json:"title" yaml:"title"`

	// Text is the concatenated paragraph text of the page, whitespace
	// collapsed to single spaces.
	Text string `json:"text" yaml:"text"`
}
