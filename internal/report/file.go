// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const reportSuffix = "_usecases"

// slugReplacer maps characters that would escape the output directory or
// break a file name.
var slugReplacer = strings.NewReplacer(" ", "_", "/", "_", `\`, "_")

// Slug returns the lower-case, underscore-separated file stem for subject.
func Slug(subject string) string {
	return strings.ToLower(slugReplacer.Replace(strings.TrimSpace(subject)))
}

// FileName returns the report file name for subject with the given
// extension (".md" gives "acme_corp_usecases.md").
func FileName(subject, ext string) string {
	return Slug(subject) + reportSuffix + ext
}

// writeFileAtomic writes data to a temp file in the destination directory
// and renames it into place.
func writeFileAtomic(destPath string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".report-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", destPath, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
