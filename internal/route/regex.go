package route

import (
	"fmt"
	"regexp"

	"hermes/internal/domain"
)

type regexEntry struct {
	agent    domain.Agent
	patterns []*regexp.Regexp
}

// Regex routes to every agent one of whose case-insensitive patterns
// matches the entire request text (full-match, not search).
type Regex struct {
	entries []regexEntry
}

// NewRegex builds the router from the ordered agent/parameter list,
// compiling each entry's "regex" values. A pattern that fails to compile
// aborts construction.
func NewRegex(cfg []AgentParams) (*Regex, error) {
	entries := make([]regexEntry, 0, len(cfg))
	for _, ap := range cfg {
		raw := ap.Values(ParamRegex)
		if len(raw) == 0 {
			continue
		}
		patterns := make([]*regexp.Regexp, 0, len(raw))
		for _, p := range raw {
			// Anchor for full-match semantics; (?:...) isolates alternations.
			re, err := regexp.Compile(`(?is)\A(?:` + p + `)\z`)
			if err != nil {
				return nil, fmt.Errorf("agent %q pattern %q: %w: %w",
					ap.Agent.Name(), p, domain.ErrInvalidPattern, err)
			}
			patterns = append(patterns, re)
		}
		entries = append(entries, regexEntry{agent: ap.Agent, patterns: patterns})
	}
	return &Regex{entries: entries}, nil
}

func (r *Regex) Route(req *domain.AgentRequest) []domain.Agent {
	var matched []domain.Agent
	for _, e := range r.entries {
		for _, re := range e.patterns {
			if re.MatchString(req.Text) {
				matched = append(matched, e.agent)
				break
			}
		}
	}
	return dedupe(matched)
}

func (r *Regex) Agents() []domain.Agent {
	agents := make([]domain.Agent, 0, len(r.entries))
	for _, e := range r.entries {
		agents = append(agents, e.agent)
	}
	return dedupe(agents)
}
