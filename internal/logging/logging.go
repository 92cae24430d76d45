// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the slog loggers used by the CLI. Every logger
// redacts credentials before a record reaches its output, since provider
// keys travel in URLs, headers and configuration values.
package logging

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// Mask replaces redacted values.
const Mask = "***REDACTED***"

// sensitiveKeys are attribute keys whose values are always masked.
var sensitiveKeys = map[string]bool{
	"authorization": true,
	"api_key":       true,
	"apikey":        true,
	"api-key":       true,
	"x-api-key":     true,
	"password":      true,
	"secret":        true,
	"token":         true,
	"credential":    true,
	"credentials":   true,
}

// sensitiveKeywords mask any attribute key that contains them.
var sensitiveKeywords = []string{"secret", "token", "password", "credential", "auth", "api_key", "apikey"}

// sensitivePatterns mask string values regardless of key.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
	regexp.MustCompile(`^sk-ant-[A-Za-z0-9_-]+$`),
	regexp.MustCompile(`^(ghp|gho|ghs|github_pat)_[A-Za-z0-9_]+$`),
	regexp.MustCompile(`^hf_[A-Za-z0-9]+$`),
	regexp.MustCompile(`^[a-f0-9]{64}$`),
}

// urlSecretParam matches credentials carried as query parameters, as in
// SerpAPI request URLs that appear inside error strings.
var urlSecretParam = regexp.MustCompile(`(?i)((?:api_key|apikey|token|key)=)[^&\s"]+`)

// SecureHandler wraps an slog.Handler and masks sensitive attributes.
type SecureHandler struct {
	handler slog.Handler
}

// NewSecureHandler wraps handler. A nil handler wraps slog.Default's.
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	clean := slog.NewRecord(r.Time, r.Level, scrubURLSecrets(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(sanitize(a))
		return true
	})
	return h.handler.Handle(ctx, clean)
}

func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = sanitize(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(clean)}
}

func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

func sanitize(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		clean := make([]slog.Attr, len(group))
		for i, g := range group {
			clean[i] = sanitize(g)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clean...)}
	}

	key := strings.ToLower(a.Key)
	if sensitiveKeys[key] || containsKeyword(key) {
		return slog.String(a.Key, Mask)
	}

	var s string
	switch a.Value.Kind() {
	case slog.KindString:
		s = a.Value.String()
	case slog.KindAny:
		err, ok := a.Value.Any().(error)
		if !ok {
			return a
		}
		s = err.Error()
	default:
		return a
	}
	for _, p := range sensitivePatterns {
		if p.MatchString(s) {
			return slog.String(a.Key, Mask)
		}
	}
	if scrubbed := scrubURLSecrets(s); scrubbed != s {
		return slog.String(a.Key, scrubbed)
	}
	return a
}

func containsKeyword(key string) bool {
	for _, k := range sensitiveKeywords {
		if strings.Contains(key, k) {
			return true
		}
	}
	return false
}

func scrubURLSecrets(s string) string {
	return urlSecretParam.ReplaceAllString(s, "${1}"+Mask)
}

// New returns a text logger writing to w that masks secrets. verbose
// lowers the level from Info to Debug.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// NewJSON is New with JSON output.
func NewJSON(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})))
}
