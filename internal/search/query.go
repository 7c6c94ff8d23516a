package search

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// DefaultLimit caps results when the caller does not.
const DefaultLimit = 20

// MaxLimit is the largest page a caller may request.
const MaxLimit = 50

// SearchParams configures a user search.
type SearchParams struct {
	Query      string
	ExcludeIDs []string // Typically the caller
	Limit      int
}

// SearchHit represents a single matching user.
type SearchHit struct {
	UserID      string  `json:"user_id"`
	DisplayName string  `json:"display_name"`
	Score       float64 `json:"score"`
}

// Search returns users whose folded display name matches every term of the
// query, either exactly, by prefix (autocomplete), or within one edit.
// A blank query returns no hits.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) ([]SearchHit, error) {
	q := buildSearchQuery(params)
	if q == nil {
		return []SearchHit{}, nil
	}

	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = []string{"display_name"}
	req.SortBy([]string{"-_score", "_id"})

	s.mu.RLock()
	defer s.mu.RUnlock()

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	hits := make([]SearchHit, 0, len(res.Hits))
	for _, hit := range res.Hits {
		h := SearchHit{UserID: hit.ID, Score: hit.Score}
		if name, ok := hit.Fields["display_name"].(string); ok {
			h.DisplayName = name
		}
		hits = append(hits, h)
	}
	return hits, nil
}

// buildSearchQuery constructs the Bleve query, or nil for a blank query.
func buildSearchQuery(params SearchParams) query.Query {
	terms := Terms(params.Query)
	if len(terms) == 0 {
		return nil
	}

	perTerm := make([]query.Query, 0, len(terms))
	for _, term := range terms {
		alternatives := []query.Query{}

		exact := bleve.NewTermQuery(term)
		exact.SetField("folded")
		exact.SetBoost(3.0)
		alternatives = append(alternatives, exact)

		prefix := bleve.NewPrefixQuery(term)
		prefix.SetField("folded")
		prefix.SetBoost(1.5)
		alternatives = append(alternatives, prefix)

		// Fuzzy matching on very short terms matches almost everything.
		if utf8.RuneCountInString(term) >= 4 {
			fuzzy := bleve.NewFuzzyQuery(term)
			fuzzy.SetFuzziness(1)
			fuzzy.SetField("folded")
			fuzzy.SetBoost(0.5)
			alternatives = append(alternatives, fuzzy)
		}

		perTerm = append(perTerm, bleve.NewDisjunctionQuery(alternatives...))
	}

	must := bleve.NewConjunctionQuery(perTerm...)
	if len(params.ExcludeIDs) == 0 {
		return must
	}

	bq := bleve.NewBooleanQuery()
	bq.AddMust(must)
	bq.AddMustNot(bleve.NewDocIDQuery(params.ExcludeIDs))
	return bq
}
