package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/mineworks/paperminer/internal/extract"
	"github.com/mineworks/paperminer/internal/pipeline"
	"github.com/mineworks/paperminer/internal/report"
	"github.com/mineworks/paperminer/internal/store"
	"github.com/mineworks/paperminer/internal/webpage"
	anthropicpkg "github.com/mineworks/paperminer/pkg/anthropic"
)

// analysisEnv holds the initialized store, pipeline, and report renderer
// needed by the serve/analyze/export commands.
type analysisEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
	Renderer *report.Renderer
}

// Close releases resources held by the environment.
func (env *analysisEnv) Close() {
	if env.Store != nil {
		_ = env.Store.Close()
	}
}

// initAnalysis sets up the store, the PDF and web extractors, the Anthropic
// client, and the ingestion pipeline. Callers should defer env.Close().
func initAnalysis(ctx context.Context) (*analysisEnv, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	extractor, err := extract.NewExtractor(cfg.Extract)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	anthropicClient := anthropicpkg.NewClient(cfg.Anthropic.Key)
	llm := pipeline.NewAnthropicLLM(anthropicClient, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens)
	fetcher := webpage.NewFetcher()

	return &analysisEnv{
		Store:    st,
		Pipeline: pipeline.New(st, llm, extractor, fetcher, cfg.Papers.Dir),
		Renderer: report.New(cfg.Anthropic.Model),
	}, nil
}
