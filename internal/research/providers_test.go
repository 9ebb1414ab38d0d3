package research

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growthdesk/consultor-cli/pkg/firecrawl"
	"github.com/growthdesk/consultor-cli/pkg/jina"
	"github.com/growthdesk/consultor-cli/pkg/perplexity"
)

type fakeJina struct {
	search *jina.SearchResponse
	read   *jina.ReadResponse
	err    error
}

func (f *fakeJina) Search(context.Context, string) (*jina.SearchResponse, error) {
	return f.search, f.err
}

func (f *fakeJina) Read(context.Context, string) (*jina.ReadResponse, error) {
	return f.read, f.err
}

type fakePerplexity struct {
	resp *perplexity.ChatCompletionResponse
	err  error
}

func (f *fakePerplexity) ChatCompletion(context.Context, perplexity.ChatCompletionRequest) (*perplexity.ChatCompletionResponse, error) {
	return f.resp, f.err
}

type fakeFirecrawl struct {
	resp    *firecrawl.ScrapeResponse
	lastReq firecrawl.ScrapeRequest
	err     error
}

func (f *fakeFirecrawl) Scrape(_ context.Context, req firecrawl.ScrapeRequest) (*firecrawl.ScrapeResponse, error) {
	f.lastReq = req
	return f.resp, f.err
}

func TestJinaSearcher(t *testing.T) {
	client := &fakeJina{search: &jina.SearchResponse{Data: []jina.SearchResult{
		{Title: "Doceria A", URL: "https://a.example", Description: "descrição curta"},
		{Title: "Doceria B", URL: "https://b.example", Content: strings.Repeat("x", 400)},
	}}}

	results, err := NewJinaSearcher(client).Search(context.Background(), "docerias")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "descrição curta", results[0].Snippet, "description wins over content")
	assert.Len(t, results[1].Snippet, snippetChars, "content snippet is bounded")
}

func TestPerplexitySearcher(t *testing.T) {
	t.Run("answer_and_citations", func(t *testing.T) {
		client := &fakePerplexity{resp: &perplexity.ChatCompletionResponse{
			Choices: []perplexity.Choice{{Message: perplexity.Message{
				Role: "assistant", Content: " resumo do mercado local ",
			}}},
			Citations: []string{"https://fonte1.example", "https://fonte2.example"},
		}}

		results, err := NewPerplexitySearcher(client).Search(context.Background(), "mercado brownies")
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, "Resumo da pesquisa", results[0].Title)
		assert.Equal(t, "resumo do mercado local", results[0].Snippet)
		assert.Empty(t, results[0].URL)
		assert.Equal(t, "https://fonte1.example", results[1].URL)
	})

	t.Run("no_choices", func(t *testing.T) {
		client := &fakePerplexity{resp: &perplexity.ChatCompletionResponse{}}
		results, err := NewPerplexitySearcher(client).Search(context.Background(), "q")
		require.NoError(t, err)
		assert.Nil(t, results)
	})
}

func TestFallbackSearcher(t *testing.T) {
	hit := []Result{{Title: "achado", URL: "https://x.example"}}

	t.Run("primary_wins", func(t *testing.T) {
		primary := &fakeSearcher{results: hit}
		secondary := &fakeSearcher{results: []Result{{Title: "reserva"}}}

		results, err := NewFallbackSearcher(primary, secondary).Search(context.Background(), "q")
		require.NoError(t, err)
		assert.Equal(t, hit, results)
		assert.Empty(t, secondary.queries, "secondary untouched when primary succeeds")
	})

	t.Run("error_falls_back", func(t *testing.T) {
		primary := &fakeSearcher{err: eris.New("boom")}
		secondary := &fakeSearcher{results: hit}

		results, err := NewFallbackSearcher(primary, secondary).Search(context.Background(), "q")
		require.NoError(t, err)
		assert.Equal(t, hit, results)
	})

	t.Run("empty_falls_back", func(t *testing.T) {
		primary := &fakeSearcher{}
		secondary := &fakeSearcher{results: hit}

		results, err := NewFallbackSearcher(primary, secondary).Search(context.Background(), "q")
		require.NoError(t, err)
		assert.Equal(t, hit, results)
	})

	t.Run("no_secondary_propagates_error", func(t *testing.T) {
		primary := &fakeSearcher{err: eris.New("boom")}
		_, err := NewFallbackSearcher(primary, nil).Search(context.Background(), "q")
		assert.Error(t, err)
	})
}

func TestJinaFetcher(t *testing.T) {
	client := &fakeJina{read: &jina.ReadResponse{Data: jina.ReadData{Content: "# Página\ntexto"}}}

	text, err := NewJinaFetcher(client).Fetch(context.Background(), "https://a.example")
	require.NoError(t, err)
	assert.Equal(t, "# Página\ntexto", text)
}

func TestFirecrawlFetcher(t *testing.T) {
	client := &fakeFirecrawl{resp: &firecrawl.ScrapeResponse{
		Success: true,
		Data:    firecrawl.PageData{Markdown: "conteúdo markdown"},
	}}

	text, err := NewFirecrawlFetcher(client).Fetch(context.Background(), "https://a.example")
	require.NoError(t, err)
	assert.Equal(t, "conteúdo markdown", text)
	assert.Equal(t, "https://a.example", client.lastReq.URL)
	assert.Equal(t, []string{"markdown"}, client.lastReq.Formats)
}

func TestFallbackFetcher(t *testing.T) {
	t.Run("primary_wins", func(t *testing.T) {
		primary := &fakeFetcher{pages: map[string]string{"u": "texto"}}
		secondary := &fakeFetcher{pages: map[string]string{"u": "reserva"}}

		text, err := NewFallbackFetcher(primary, secondary).Fetch(context.Background(), "u")
		require.NoError(t, err)
		assert.Equal(t, "texto", text)
	})

	t.Run("empty_falls_back", func(t *testing.T) {
		primary := &fakeFetcher{}
		secondary := &fakeFetcher{pages: map[string]string{"u": "reserva"}}

		text, err := NewFallbackFetcher(primary, secondary).Fetch(context.Background(), "u")
		require.NoError(t, err)
		assert.Equal(t, "reserva", text)
	})

	t.Run("error_falls_back", func(t *testing.T) {
		primary := &fakeFetcher{err: eris.New("timeout")}
		secondary := &fakeFetcher{pages: map[string]string{"u": "reserva"}}

		text, err := NewFallbackFetcher(primary, secondary).Fetch(context.Background(), "u")
		require.NoError(t, err)
		assert.Equal(t, "reserva", text)
	})
}
