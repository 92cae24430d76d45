// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// UseCase is one AI/GenAI application proposal recovered from the
// generator's free-form response. Title is always non-empty; every other
// text field may be empty, which downstream stages treat as "unknown".
type UseCase struct {
	// Title is the short name of the proposal.
	Title string `json:"title" yaml:"title"`

	// Description explains what the use case does.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// DataSources names the data the use case would need.
	DataSources string `json:"data_sources,omitempty" yaml:"data_sources,omitempty"`

	// Impact is the business impact label (expected "High", "Medium" or "Low").
	Impact string `json:"impact,omitempty" yaml:"impact,omitempty"`

	// Complexity is the implementation complexity label (expected "High",
	// "Medium" or "Low").
	Complexity string `json:"complexity,omitempty" yaml:"complexity,omitempty"`

	// Resources lists dataset and repository links attached by the resource
	// finder, in backend order.
	Resources []ResourceLink `json:"resources,omitempty" yaml:"resources,omitempty"`

	// Score is the priority score set by the ranker. Nil until ranked.
	Score *float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

// HasScore reports whether the ranker has scored this use case.
func (u UseCase) HasScore() bool {
	return u.Score != nil
}

// ScoreValue returns the score, or 0 when the use case is unscored.
func (u UseCase) ScoreValue() float64 {
	if u.Score == nil {
		return 0
	}
	return *u.Score
}

// Clone returns a copy that shares no slices or pointers with u.
func (u UseCase) Clone() UseCase {
	c := u
	if u.Resources != nil {
		c.Resources = append([]ResourceLink(nil), u.Resources...)
	}
	if u.Score != nil {
		s := *u.Score
		c.Score = &s
	}
	return c
}

// ResourceLink is a dataset or repository reference attached to a use case.
type ResourceLink struct {
	// URL is the public page of the resource.
	URL string `json:"url" yaml:"url"`

	// Title is the display name of the resource.
	Title string `json:"title" yaml:"title"`

	// Notes carries backend-specific popularity details
	// (e.g. "GitHub Repo, stars: 1200").
	Notes string `json:"notes" yaml:"notes"`

	// Source identifies the backend that found the resource
	// ("kaggle", "huggingface", "github").
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}
