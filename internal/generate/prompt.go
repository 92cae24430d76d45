// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"fmt"
	"text/template"
)

// Block delimiter and field labels the prompt asks the model to use. The
// parser recognizes exactly these labels.
const (
	blockSeparator    = "---"
	labelTitle        = "TITLE:"
	labelDescription  = "DESCRIPTION:"
	labelDataSources  = "DATA SOURCES:"
	labelImpact       = "BUSINESS IMPACT:"
	labelComplexity   = "COMPLEXITY:"
	requestedUseCases = 5
)

// useCasePromptTmpl is the single prompt sent per run. It asks for a fixed
// number of labelled blocks separated by "---" and nothing else.
var useCasePromptTmpl = template.Must(template.New("usecases").Parse(`You are an AI strategy consultant. Given these facts about {{.Subject}} (context below), propose exactly {{.Count}} distinct GenAI/AI use cases for the company focusing on operations, customer experience, and monetization.

For each use case, provide the following information in a structured format:
{{.Title}} [Short Title]
{{.Description}} [One-sentence description]
{{.DataSources}} [List of required data sources, e.g., customer data, sales data, website logs]
{{.Impact}} [Expected business impact: Low, Medium, or High]
{{.Complexity}} [Estimated complexity: Low, Medium, or High]

Context:
{{.Context}}

Ensure each use case is clearly separated by a horizontal rule "{{.Separator}}" and follows the exact 'FIELD_NAME: [Value]' format. Do not include any introductory or concluding text outside of the use case blocks.
`))

type promptData struct {
	Subject     string
	Count       int
	Context     string
	Separator   string
	Title       string
	Description string
	DataSources string
	Impact      string
	Complexity  string
}

// BuildPrompt renders the generation prompt for subject over the
// concatenated research context.
func BuildPrompt(subject, context string) (string, error) {
	var buf bytes.Buffer
	err := useCasePromptTmpl.Execute(&buf, promptData{
		Subject:     subject,
		Count:       requestedUseCases,
		Context:     context,
		Separator:   blockSeparator,
		Title:       labelTitle,
		Description: labelDescription,
		DataSources: labelDataSources,
		Impact:      labelImpact,
		Complexity:  labelComplexity,
	})
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}
