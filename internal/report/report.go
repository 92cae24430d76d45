// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders ranked use cases and persists them. The markdown
// report is always written; HTML, PDF and a YAML run snapshot are optional
// companions written next to it.
package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pdiddy/usecase-engine/pkg/types"
)

// Paths lists the files one Emit call produced. Empty fields were not written.
type Paths struct {
	Markdown string
	HTML     string
	PDF      string
}

// Emitter writes reports into a configured output directory.
type Emitter struct {
	cfg    types.ReportConfig
	pdf    PDFRenderer
	logger *slog.Logger
}

// NewEmitter returns an Emitter. pdf may be nil when cfg.PDF is false.
func NewEmitter(cfg types.ReportConfig, pdf PDFRenderer, logger *slog.Logger) *Emitter {
	if cfg.OutputDir == "" {
		cfg.OutputDir = types.DefaultOutputDir
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{cfg: cfg, pdf: pdf, logger: logger}
}

// Emit renders ranked into the output directory. A markdown or HTML failure
// is returned; a PDF failure is logged and leaves Paths.PDF empty.
func (e *Emitter) Emit(ctx context.Context, subject string, ranked []types.UseCase) (Paths, error) {
	if err := os.MkdirAll(e.cfg.OutputDir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("creating output directory: %w", err)
	}

	var md bytes.Buffer
	if err := RenderMarkdown(&md, subject, ranked); err != nil {
		return Paths{}, fmt.Errorf("rendering markdown: %w", err)
	}

	var paths Paths
	paths.Markdown = filepath.Join(e.cfg.OutputDir, FileName(subject, ".md"))
	if err := writeFileAtomic(paths.Markdown, md.Bytes()); err != nil {
		return Paths{}, err
	}
	e.logger.Info("markdown report saved", "path", paths.Markdown)

	if !e.cfg.HTML && !e.cfg.PDF {
		return paths, nil
	}

	htmlDoc, err := RenderHTML(ReportTitle+": "+DisplaySubject(subject), md.Bytes())
	if err != nil {
		return paths, err
	}
	if e.cfg.HTML {
		paths.HTML = filepath.Join(e.cfg.OutputDir, FileName(subject, ".html"))
		if err := writeFileAtomic(paths.HTML, htmlDoc); err != nil {
			return paths, err
		}
		e.logger.Info("HTML report saved", "path", paths.HTML)
	}

	if e.cfg.PDF {
		paths.PDF = e.writePDF(ctx, subject, htmlDoc)
	}
	return paths, nil
}

func (e *Emitter) writePDF(ctx context.Context, subject string, htmlDoc []byte) string {
	if e.pdf == nil {
		e.logger.Warn("PDF requested but no renderer configured")
		return ""
	}
	data, err := e.pdf.Render(ctx, htmlDoc)
	if err != nil {
		e.logger.Warn("PDF rendering failed", "error", err)
		return ""
	}
	path := filepath.Join(e.cfg.OutputDir, FileName(subject, ".pdf"))
	if err := writeFileAtomic(path, data); err != nil {
		e.logger.Warn("writing PDF", "error", err)
		return ""
	}
	e.logger.Info("PDF report saved", "path", path)
	return path
}

// Snapshot writes rec as YAML next to the markdown report when snapshots
// are enabled and returns the path, or "" when disabled.
func (e *Emitter) Snapshot(rec types.RunRecord) (string, error) {
	if !e.cfg.Snapshot {
		return "", nil
	}
	if err := os.MkdirAll(e.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(e.cfg.OutputDir, FileName(rec.Subject, ".yaml"))
	if err := WriteSnapshot(path, rec); err != nil {
		return "", err
	}
	return path, nil
}
