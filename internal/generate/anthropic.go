// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"errors"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicMessager is the subset of the Anthropic client the LLM uses.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicClientCreator builds a messager for an API key.
type AnthropicClientCreator func(apiKey string) AnthropicMessager

func defaultAnthropicCreator(apiKey string) AnthropicMessager {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &c.Messages
}

// newAnthropicClient is swapped in tests.
var newAnthropicClient AnthropicClientCreator = defaultAnthropicCreator

// ErrEmptyCompletion is returned when the model replies without text.
var ErrEmptyCompletion = errors.New("model returned no text")

// AnthropicLLM completes prompts with the Anthropic Messages API.
type AnthropicLLM struct {
	messages AnthropicMessager
}

// NewAnthropicLLM returns an LLM authenticated with apiKey.
func NewAnthropicLLM(apiKey string) (*AnthropicLLM, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("anthropic API key not configured")
	}
	return &AnthropicLLM{messages: newAnthropicClient(apiKey)}, nil
}

// Complete sends req.Prompt as a single user message and returns the
// concatenated text blocks of the reply.
func (a *AnthropicLLM) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   int64(req.MaxTokens),
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt))},
		Temperature: anthropic.Float(req.Temperature),
	})
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyCompletion
	}
	return sb.String(), nil
}
