// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const reportCSS = `body{font-family:-apple-system,"Segoe UI",Helvetica,Arial,sans-serif;max-width:900px;margin:2rem auto;padding:0 1rem;color:#1c1917;line-height:1.5}` +
	`h1{border-bottom:2px solid #92400e;padding-bottom:.3rem}` +
	`h2{margin-top:2rem}` +
	`a{color:#1d4ed8}` +
	`hr{border:0;border-top:1px solid #a8a29e;margin:1.5rem 0}` +
	`@media print{body{margin:0;max-width:none}}`

// RenderHTML converts a markdown report into a standalone HTML page. Task
// list syntax is left off so list items starting with "[x]" stay links.
func RenderHTML(title string, md []byte) ([]byte, error) {
	var content bytes.Buffer
	conv := goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify))
	if err := conv.Convert(md, &content); err != nil {
		return nil, fmt.Errorf("markdown convert: %w", err)
	}

	var out bytes.Buffer
	out.WriteString("<!doctype html><html><head><meta charset='utf-8'><title>")
	out.WriteString(html.EscapeString(title))
	out.WriteString("</title><style>")
	out.WriteString(reportCSS)
	out.WriteString("</style></head><body>")
	out.Write(content.Bytes())
	out.WriteString("</body></html>")
	return out.Bytes(), nil
}
