// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pdiddy/usecase-engine/pkg/types"
)

// Heading and placeholders used in the rendered report.
const (
	ReportTitle     = "Prioritized AI/GenAI Use Case Proposal"
	untitledUseCase = "Untitled Use Case"
	NotAvailable    = "N/A"
)

// RenderMarkdown writes the ranked use cases as a markdown report.
func RenderMarkdown(w io.Writer, subject string, useCases []types.UseCase) error {
	md := markdown.NewMarkdown(w)

	md.H1(ReportTitle)
	md.PlainText("")
	if subject != "" {
		md.PlainTextf("**Subject:** %s", DisplaySubject(subject))
		md.PlainText("")
	}

	for i, uc := range useCases {
		writeUseCase(md, i+1, uc)
	}

	return md.Build()
}

func writeUseCase(md *markdown.Markdown, n int, uc types.UseCase) {
	md.H2(fmt.Sprintf("%d. %s", n, orDefault(uc.Title, untitledUseCase)))
	md.PlainText("")
	md.PlainTextf("**Description:** %s", orDefault(uc.Description, NotAvailable))
	md.PlainText("")
	md.PlainTextf("**Required Data Sources:** %s", orDefault(uc.DataSources, NotAvailable))
	md.PlainText("")
	md.PlainTextf("**Expected Business Impact:** %s | **Estimated Complexity:** %s",
		orDefault(uc.Impact, NotAvailable), orDefault(uc.Complexity, NotAvailable))
	md.PlainText("")
	if uc.HasScore() {
		md.PlainTextf("**Core Score:** %.2f", uc.ScoreValue())
		md.PlainText("")
	}

	if len(uc.Resources) > 0 {
		md.PlainText("**Relevant Resources:**")
		items := make([]string, len(uc.Resources))
		for i, r := range uc.Resources {
			items[i] = fmt.Sprintf("[%s](%s) (%s)", escapeLinkText(orDefault(r.Title, "Link")), orDefault(r.URL, "#"), r.Notes)
		}
		md.BulletList(items...)
		md.PlainText("")
	}

	md.HorizontalRule()
	md.PlainText("")
}

// DisplaySubject title-cases a subject for headings ("acme corp" becomes
// "Acme Corp").
func DisplaySubject(subject string) string {
	return cases.Title(language.English).String(subject)
}

// linkTextEscaper backslash-escapes the characters that end or nest link
// text.
var linkTextEscaper = strings.NewReplacer(`\`, `\\`, "[", `\[`, "]", `\]`)

func escapeLinkText(s string) string {
	return linkTextEscaper.Replace(s)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
