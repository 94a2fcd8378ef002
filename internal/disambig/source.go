package disambig

import (
	"context"
	"sort"
	"strings"

	"hermes/internal/token"
)

// MapSource is an in-memory Source over a small fact table. Keys are
// entity names, possibly multi-word ("mercury planet", "mercury element");
// values are the answers.
type MapSource struct {
	facts map[string]string
}

// NewMapSource copies the fact table, lowercasing keys.
func NewMapSource(facts map[string]string) *MapSource {
	m := make(map[string]string, len(facts))
	for k, v := range facts {
		m[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return &MapSource{facts: m}
}

// Lookup matches the query's tokens against entity names. A name whose
// tokens are all present in the query is an exact match; a name sharing
// at least one token is a partial match. A single match answers, several
// matches are reported as candidates.
func (s *MapSource) Lookup(_ context.Context, query string) (*Result, error) {
	qt := make(map[string]bool)
	for _, t := range token.Split(strings.ToLower(query)) {
		qt[t] = true
	}

	var exact, partial []string
	for name := range s.facts {
		covered := 0
		parts := strings.Fields(name)
		for _, p := range parts {
			if qt[p] {
				covered++
			}
		}
		switch {
		case covered == len(parts) && covered > 0:
			exact = append(exact, name)
		case covered > 0:
			partial = append(partial, name)
		}
	}
	sort.Strings(exact)
	sort.Strings(partial)

	hits := exact
	if len(hits) == 0 {
		hits = partial
	}
	switch len(hits) {
	case 0:
		return &Result{}, nil
	case 1:
		return &Result{Answer: s.facts[hits[0]]}, nil
	default:
		return &Result{Candidates: hits}, nil
	}
}
