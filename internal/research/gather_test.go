package research

import (
	"context"
	"fmt"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	results []Result
	err     error
	queries []string
}

func (s *fakeSearcher) Search(_ context.Context, query string) ([]Result, error) {
	s.queries = append(s.queries, query)
	return s.results, s.err
}

type fakeFetcher struct {
	pages map[string]string
	err   error
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.pages[url], nil
}

func TestGatherSearchError(t *testing.T) {
	g := NewGatherer(&fakeSearcher{err: eris.New("boom")}, nil)

	findings, err := g.Gather(context.Background(), "qualquer consulta")
	require.Error(t, err)
	assert.Nil(t, findings)
}

func TestGatherNoResults(t *testing.T) {
	g := NewGatherer(&fakeSearcher{}, nil)

	findings, err := g.Gather(context.Background(), "qualquer consulta")
	require.NoError(t, err)
	assert.Nil(t, findings)
}

func TestGatherAggregates(t *testing.T) {
	searcher := &fakeSearcher{results: []Result{
		{Title: "Docerias em Indaiatuba", URL: "https://a.example", Snippet: "lista de docerias"},
		{Title: "Mercado de brownies", URL: "https://b.example", Snippet: "panorama do mercado"},
		{Title: "Resumo da pesquisa", URL: "", Snippet: "síntese sem fonte"},
	}}
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://a.example": "conteúdo completo da página A",
		"https://b.example": "conteúdo completo da página B",
	}}
	g := NewGatherer(searcher, fetcher)

	findings, err := g.Gather(context.Background(), "concorrentes brownies indaiatuba")
	require.NoError(t, err)
	require.NotNil(t, findings)

	assert.Contains(t, findings.Text, "[Docerias em Indaiatuba]: lista de docerias")
	assert.Contains(t, findings.Text, "Detalhes: conteúdo completo da página A")
	assert.Contains(t, findings.Text, "Detalhes: conteúdo completo da página B")

	// The synthesized result has no URL, so it never becomes a citation.
	require.Len(t, findings.Sources, 2)
	assert.Equal(t, "https://a.example", findings.Sources[0].URL)

	assert.Equal(t, []string{"concorrentes brownies indaiatuba"}, searcher.queries)
}

func TestGatherTruncatesResults(t *testing.T) {
	var results []Result
	for i := 0; i < 6; i++ {
		results = append(results, Result{
			Title:   fmt.Sprintf("Resultado %d", i),
			URL:     fmt.Sprintf("https://r%d.example", i),
			Snippet: "trecho",
		})
	}
	g := NewGatherer(&fakeSearcher{results: results}, nil)

	findings, err := g.Gather(context.Background(), "consulta")
	require.NoError(t, err)
	require.NotNil(t, findings)

	assert.Len(t, findings.Sources, maxResults)
	assert.NotContains(t, findings.Text, "Resultado 4")
}

func TestGatherFetchFailureIgnored(t *testing.T) {
	searcher := &fakeSearcher{results: []Result{
		{Title: "Página instável", URL: "https://down.example", Snippet: "trecho"},
	}}
	g := NewGatherer(searcher, &fakeFetcher{err: eris.New("timeout")})

	findings, err := g.Gather(context.Background(), "consulta")
	require.NoError(t, err)
	require.NotNil(t, findings)
	assert.Contains(t, findings.Text, "[Página instável]: trecho")
	assert.NotContains(t, findings.Text, "Detalhes:")
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		segment     string
		productType string
		want        bool
	}{
		{"empty_text_passes", "", "brownies", "", true},
		{"empty_segment_passes", "mercado de perfumes", "", "", true},
		{
			"segment_mentioned", "o mercado de brownies artesanais cresce no interior",
			"brownies artesanais", "", true,
		},
		{
			"unrelated_findings", "panorama do mercado de perfumes importados",
			"brownies", "", false,
		},
		{
			"product_type_rescues", "lojas de brownies na região",
			"doces finos", "brownies", true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Relevant(tt.text, tt.segment, tt.productType))
		})
	}
}
