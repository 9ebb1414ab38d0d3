package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/growthdesk/consultor-cli/internal/consult"
	"github.com/growthdesk/consultor-cli/internal/research"
	"github.com/growthdesk/consultor-cli/internal/store"
	"github.com/growthdesk/consultor-cli/pkg/anthropic"
	"github.com/growthdesk/consultor-cli/pkg/firecrawl"
	"github.com/growthdesk/consultor-cli/pkg/jina"
	"github.com/growthdesk/consultor-cli/pkg/perplexity"
)

// env holds the wired collaborators shared by the chat, serve and tasks
// commands.
type env struct {
	Store  store.Store
	Engine *consult.Engine
}

func (e *env) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func initEnv(ctx context.Context) (*env, error) {
	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}

	var completer consult.Completer
	if cfg.Anthropic.Key != "" {
		client := anthropic.NewClient(cfg.Anthropic.Key)
		completer = consult.NewCompleter(client, cfg.Anthropic.Model, cfg.Anthropic.RequestsPerSecond)
	} else {
		zap.L().Warn("no anthropic key configured, consultation is disabled")
	}

	engine := consult.NewEngine(completer, buildGatherer(),
		consult.WithMinPriority(cfg.Consult.MinPriorityFields))

	return &env{Store: st, Engine: engine}, nil
}

func openStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "sqlite", "":
		st, err = store.NewSQLite(cfg.Store.SQLitePath)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// buildGatherer chains the search and fetch providers: Jina first, with
// Perplexity and Firecrawl as fallbacks when configured. Returns nil when no
// search provider is available, which disables assisted research.
func buildGatherer() *research.Gatherer {
	var (
		searcher research.Searcher
		fetcher  research.Fetcher
	)

	if cfg.Jina.Key != "" {
		client := jina.NewClient(cfg.Jina.Key,
			jina.WithBaseURL(cfg.Jina.BaseURL),
			jina.WithSearchBaseURL(cfg.Jina.SearchBaseURL),
		)
		searcher = research.NewJinaSearcher(client)
		fetcher = research.NewJinaFetcher(client)
	}

	if cfg.Perplexity.Key != "" {
		pplx := research.NewPerplexitySearcher(perplexity.NewClient(cfg.Perplexity.Key,
			perplexity.WithBaseURL(cfg.Perplexity.BaseURL),
			perplexity.WithModel(cfg.Perplexity.Model),
		))
		if searcher != nil {
			searcher = research.NewFallbackSearcher(searcher, pplx)
		} else {
			searcher = pplx
		}
	}

	if cfg.Firecrawl.Key != "" {
		fc := research.NewFirecrawlFetcher(firecrawl.NewClient(cfg.Firecrawl.Key,
			firecrawl.WithBaseURL(cfg.Firecrawl.BaseURL),
		))
		if fetcher != nil {
			fetcher = research.NewFallbackFetcher(fetcher, fc)
		} else {
			fetcher = fc
		}
	}

	if searcher == nil {
		zap.L().Warn("no search provider configured, assisted research is disabled")
		return nil
	}
	return research.NewGatherer(searcher, fetcher)
}
