package research

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/growthdesk/consultor-cli/pkg/firecrawl"
	"github.com/growthdesk/consultor-cli/pkg/jina"
	"github.com/growthdesk/consultor-cli/pkg/perplexity"
)

const snippetChars = 300

// JinaSearcher adapts the Jina search API to the Searcher interface.
type JinaSearcher struct {
	client jina.Client
}

// NewJinaSearcher wraps a Jina client.
func NewJinaSearcher(client jina.Client) *JinaSearcher {
	return &JinaSearcher{client: client}
}

func (s *JinaSearcher) Search(ctx context.Context, query string) ([]Result, error) {
	resp, err := s.client.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(resp.Data))
	for _, r := range resp.Data {
		snippet := r.Description
		if snippet == "" {
			snippet = r.Content
		}
		if len(snippet) > snippetChars {
			snippet = snippet[:snippetChars]
		}
		results = append(results, Result{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: snippet,
		})
	}
	return results, nil
}

// PerplexitySearcher adapts the Perplexity chat API to the Searcher
// interface. The model's answer becomes a single synthesized result and its
// citations become bare source entries.
type PerplexitySearcher struct {
	client perplexity.Client
}

// NewPerplexitySearcher wraps a Perplexity client.
func NewPerplexitySearcher(client perplexity.Client) *PerplexitySearcher {
	return &PerplexitySearcher{client: client}
}

func (s *PerplexitySearcher) Search(ctx context.Context, query string) ([]Result, error) {
	maxTokens := 600
	resp, err := s.client.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
		Messages: []perplexity.Message{
			{Role: "system", Content: "Responda em português, de forma objetiva, com dados de mercado quando houver."},
			{Role: "user", Content: query},
		},
		MaxTokens: &maxTokens,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, nil
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return nil, nil
	}

	results := []Result{{Title: "Resumo da pesquisa", Snippet: answer}}
	for _, c := range resp.Citations {
		results = append(results, Result{Title: c, URL: c})
	}
	return results, nil
}

// FallbackSearcher tries the primary searcher and degrades to the secondary
// when the primary errors or comes back empty.
type FallbackSearcher struct {
	primary   Searcher
	secondary Searcher
}

// NewFallbackSearcher builds a searcher chain. secondary may be nil.
func NewFallbackSearcher(primary, secondary Searcher) *FallbackSearcher {
	return &FallbackSearcher{primary: primary, secondary: secondary}
}

func (s *FallbackSearcher) Search(ctx context.Context, query string) ([]Result, error) {
	results, err := s.primary.Search(ctx, query)
	if err == nil && len(results) > 0 {
		return results, nil
	}
	if s.secondary == nil {
		return results, err
	}
	if err != nil {
		zap.L().Warn("primary search failed, trying fallback", zap.Error(err))
	}
	return s.secondary.Search(ctx, query)
}

// JinaFetcher adapts the Jina reader API to the Fetcher interface.
type JinaFetcher struct {
	client jina.Client
}

// NewJinaFetcher wraps a Jina client.
func NewJinaFetcher(client jina.Client) *JinaFetcher {
	return &JinaFetcher{client: client}
}

func (f *JinaFetcher) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := f.client.Read(ctx, url)
	if err != nil {
		return "", err
	}
	return resp.Data.Content, nil
}

// FirecrawlFetcher adapts the Firecrawl scrape API to the Fetcher interface.
type FirecrawlFetcher struct {
	client firecrawl.Client
}

// NewFirecrawlFetcher wraps a Firecrawl client.
func NewFirecrawlFetcher(client firecrawl.Client) *FirecrawlFetcher {
	return &FirecrawlFetcher{client: client}
}

func (f *FirecrawlFetcher) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := f.client.Scrape(ctx, firecrawl.ScrapeRequest{
		URL:     url,
		Formats: []string{"markdown"},
	})
	if err != nil {
		return "", err
	}
	return resp.Data.Markdown, nil
}

// FallbackFetcher tries the primary fetcher and degrades to the secondary
// on error or empty content.
type FallbackFetcher struct {
	primary   Fetcher
	secondary Fetcher
}

// NewFallbackFetcher builds a fetcher chain. secondary may be nil.
func NewFallbackFetcher(primary, secondary Fetcher) *FallbackFetcher {
	return &FallbackFetcher{primary: primary, secondary: secondary}
}

func (f *FallbackFetcher) Fetch(ctx context.Context, url string) (string, error) {
	text, err := f.primary.Fetch(ctx, url)
	if err == nil && text != "" {
		return text, nil
	}
	if f.secondary == nil {
		return text, err
	}
	if err != nil {
		zap.L().Debug("primary fetch failed, trying fallback",
			zap.String("url", url), zap.Error(err))
	}
	return f.secondary.Fetch(ctx, url)
}
