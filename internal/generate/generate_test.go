// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/usecase-engine/pkg/types"
)

// fakeLLM records requests and returns a canned reply.
type fakeLLM struct {
	reply string
	err   error
	calls []CompletionRequest
}

func (f *fakeLLM) Complete(_ context.Context, req CompletionRequest) (string, error) {
	f.calls = append(f.calls, req)
	return f.reply, f.err
}

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func testConfig() types.GenerationConfig {
	return types.DefaultPipelineConfig().Generation
}

func fiveBlockReply() string {
	ucs := sampleUseCases(5)
	blocks := make([]string, len(ucs))
	for i, u := range ucs {
		blocks[i] = formatBlock(u)
	}
	return strings.Join(blocks, "\n---\n")
}

func TestGenerateSkipsLLMWithoutContext(t *testing.T) {
	llm := &fakeLLM{reply: fiveBlockReply()}
	var logs bytes.Buffer
	g := New(llm, testConfig(), testLogger(&logs))

	docs := []types.ResearchDocument{{URL: "https://a.example", Title: "A"}}
	got := g.Generate(context.Background(), "Acme", docs)

	assert.Empty(t, got)
	assert.Empty(t, llm.calls)
	assert.Contains(t, logs.String(), "no research context")
}

func TestGenerateSingleCallWithSettings(t *testing.T) {
	llm := &fakeLLM{reply: fiveBlockReply()}
	g := New(llm, testConfig(), testLogger(&bytes.Buffer{}))

	docs := []types.ResearchDocument{
		{URL: "https://a.example", Text: "Acme sells anvils."},
		{URL: "https://b.example", Text: ""},
		{URL: "https://c.example", Text: "Acme ships worldwide."},
	}
	got := g.Generate(context.Background(), "Acme", docs)

	require.Len(t, got, 5)
	require.Len(t, llm.calls, 1)
	req := llm.calls[0]
	assert.Equal(t, types.DefaultModel, req.Model)
	assert.InDelta(t, 0.7, req.Temperature, 1e-9)
	assert.Equal(t, types.DefaultMaxTokens, req.MaxTokens)
	assert.Contains(t, req.Prompt, "Acme sells anvils.\nAcme ships worldwide.")
}

func TestGenerateLLMErrorReturnsEmpty(t *testing.T) {
	llm := &fakeLLM{err: errors.New("upstream unavailable")}
	var logs bytes.Buffer
	g := New(llm, testConfig(), testLogger(&logs))

	got := g.Generate(context.Background(), "Acme", []types.ResearchDocument{{Text: "facts"}})
	assert.Empty(t, got)
	assert.Contains(t, logs.String(), "upstream unavailable")
}

func TestGenerateWarnsOnFewUseCases(t *testing.T) {
	llm := &fakeLLM{reply: "TITLE: Lonely idea\nDESCRIPTION: only one"}
	var logs bytes.Buffer
	g := New(llm, testConfig(), testLogger(&logs))

	got := g.Generate(context.Background(), "Acme", []types.ResearchDocument{{Text: "facts"}})
	require.Len(t, got, 1)
	assert.Contains(t, logs.String(), "fewer use cases than expected")
	assert.Contains(t, logs.String(), "Lonely idea")
}

func TestJoinContext(t *testing.T) {
	docs := []types.ResearchDocument{{Text: "one"}, {Text: ""}, {Text: "two"}}
	assert.Equal(t, "one\ntwo", JoinContext(docs))
	assert.Empty(t, JoinContext(nil))
}
