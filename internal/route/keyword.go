package route

import (
	"strings"

	"hermes/internal/domain"
	"hermes/internal/token"
)

type keywordEntry struct {
	agent    domain.Agent
	keywords map[string]struct{}
}

// Keyword routes to every agent whose keyword set intersects the request's
// token set. Matching is whole-token only: "timer" never matches the
// keyword "time". Candidates come back in configuration entry order, which
// makes the dispatcher's first-responder policy deterministic.
type Keyword struct {
	entries []keywordEntry
}

// NewKeyword builds the router from the ordered agent/parameter list,
// reading each entry's "keywords" values.
func NewKeyword(cfg []AgentParams) *Keyword {
	entries := make([]keywordEntry, 0, len(cfg))
	for _, ap := range cfg {
		words := ap.Values(ParamKeywords)
		if len(words) == 0 {
			continue
		}
		set := make(map[string]struct{}, len(words))
		for _, w := range words {
			set[strings.ToLower(w)] = struct{}{}
		}
		entries = append(entries, keywordEntry{agent: ap.Agent, keywords: set})
	}
	return &Keyword{entries: entries}
}

func (k *Keyword) Route(req *domain.AgentRequest) []domain.Agent {
	toks := token.Tokenize(strings.ToLower(req.Text), false)
	if len(toks) == 0 {
		return nil
	}
	present := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		present[t] = struct{}{}
	}

	var matched []domain.Agent
	for _, e := range k.entries {
		for w := range e.keywords {
			if _, ok := present[w]; ok {
				matched = append(matched, e.agent)
				break
			}
		}
	}
	return dedupe(matched)
}

func (k *Keyword) Agents() []domain.Agent {
	agents := make([]domain.Agent, 0, len(k.entries))
	for _, e := range k.entries {
		agents = append(agents, e.agent)
	}
	return dedupe(agents)
}
