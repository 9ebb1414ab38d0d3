package research

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/growthdesk/consultor-cli/internal/grounding"
)

// Result is one ranked web-search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Searcher is the web-search collaborator. Zero results is not an error.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// Fetcher retrieves page text for a URL. Failures degrade to "".
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Source is a cited search result shown to the caller.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Findings is the aggregated material handed to the language model.
type Findings struct {
	Text    string
	Sources []Source
}

const (
	maxResults     = 4
	fetchTopN      = 2
	perPageChars   = 1500
	findingsBudget = 5000
)

// Gatherer runs a search and enriches the top hits with page content.
type Gatherer struct {
	searcher Searcher
	fetcher  Fetcher
}

// NewGatherer builds a gatherer. fetcher may be nil to skip page enrichment.
func NewGatherer(searcher Searcher, fetcher Fetcher) *Gatherer {
	return &Gatherer{searcher: searcher, fetcher: fetcher}
}

// Gather searches the query and aggregates titles, snippets, and the fetched
// text of the top hits into a bounded findings block. Returns nil findings
// when the search yields nothing. Fetch failures are ignored; a search
// failure is returned so the caller can degrade.
func (g *Gatherer) Gather(ctx context.Context, query string) (*Findings, error) {
	results, err := g.searcher.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	pages := make([]string, len(results))
	if g.fetcher != nil {
		eg, fctx := errgroup.WithContext(ctx)
		for i := 0; i < len(results) && i < fetchTopN; i++ {
			i := i
			eg.Go(func() error {
				text, err := g.fetcher.Fetch(fctx, results[i].URL)
				if err != nil {
					zap.L().Debug("page fetch failed",
						zap.String("url", results[i].URL), zap.Error(err))
					return nil
				}
				pages[i] = text
				return nil
			})
		}
		_ = eg.Wait()
	}

	var sb strings.Builder
	findings := &Findings{}
	for i, r := range results {
		fmt.Fprintf(&sb, "[%s]: %s\n", r.Title, r.Snippet)
		if page := pages[i]; page != "" {
			if len(page) > perPageChars {
				page = page[:perPageChars]
			}
			fmt.Fprintf(&sb, "  Detalhes: %s\n", page)
		}
		if r.URL != "" {
			findings.Sources = append(findings.Sources, Source{Title: r.Title, URL: r.URL})
		}
	}

	text := sb.String()
	if len(text) > findingsBudget {
		text = text[:findingsBudget]
	}
	findings.Text = text
	return findings, nil
}

// Relevant checks that the findings actually mention the business's segment
// or product type. Protects against presenting garbage results (perfume
// market data for a brownie shop). With nothing to check against, findings
// pass.
func Relevant(findingsText, segment, productType string) bool {
	if findingsText == "" || segment == "" {
		return true
	}
	textNorm := grounding.Normalize(findingsText)

	var checkWords []string
	for _, w := range strings.Fields(grounding.Normalize(segment)) {
		if len(w) > 3 {
			checkWords = append(checkWords, w)
		}
	}
	for _, w := range strings.Fields(grounding.Normalize(productType)) {
		if len(w) > 3 {
			checkWords = append(checkWords, w)
		}
	}
	if len(checkWords) == 0 {
		return true
	}

	for _, w := range checkWords {
		if strings.Contains(textNorm, w) {
			return true
		}
	}
	return false
}
