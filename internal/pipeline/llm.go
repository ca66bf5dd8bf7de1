package pipeline

import (
	"context"

	"github.com/mineworks/paperminer/internal/fault"
	"github.com/mineworks/paperminer/pkg/anthropic"
)

// systemPrompt pins the output contract for every analysis call. It is
// constant across requests, so it carries cache control.
const systemPrompt = "You are a careful document analyst. Respond with a single JSON object " +
	"containing exactly the requested keys and no surrounding prose."

// AnthropicLLM adapts the Anthropic messages API to the pipeline's LLM
// interface. Completion failures are upstream faults.
type AnthropicLLM struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropicLLM creates an AnthropicLLM.
func NewAnthropicLLM(client anthropic.Client, model string, maxTokens int64) *AnthropicLLM {
	return &AnthropicLLM{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
	}
}

func (a *AnthropicLLM) Model() string {
	return a.model
}

func (a *AnthropicLLM) Complete(ctx context.Context, prompt string) (string, error) {
	temp := 0.2
	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		System: []anthropic.SystemBlock{{
			Text:         systemPrompt,
			CacheControl: &anthropic.CacheControl{TTL: "5m"},
		}},
		Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
		Temperature: &temp,
	})
	if err != nil {
		return "", fault.Wrap(fault.Upstream, err, "pipeline: completion")
	}

	resp.Usage.LogCost(a.model, "analysis")
	return resp.Text(), nil
}
