// Package route implements the dispatch strategies that map a request to
// candidate agents.
package route

import (
	"io"
	"log/slog"
	"strings"

	"hermes/internal/domain"
)

// Router maps a request to zero or more candidate agents. Implementations
// are immutable after construction; concurrent Route calls need no locking.
type Router interface {
	// Route returns the candidate agents for the request, possibly none.
	Route(req *domain.AgentRequest) []domain.Agent
	// Agents returns the full inventory of agents the router knows about.
	Agents() []domain.Agent
}

// Parameter keys recognized in routing configuration.
const (
	ParamKeywords = "keywords"
	ParamRegex    = "regex"
	ParamTriggers = "triggers"
)

// AgentParams binds one agent to its routing parameters. The parameter map
// holds zero or more string values per key.
type AgentParams struct {
	Agent  domain.Agent
	Params map[string][]string
}

// Values returns the parameter values for a key, nil when absent.
func (p AgentParams) Values(key string) []string {
	if p.Params == nil {
		return nil
	}
	return p.Params[key]
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func lowerName(a domain.Agent) string {
	return strings.ToLower(a.Name())
}

// dedupe collapses duplicate agents, preserving first-seen order.
// Identity is the case-insensitive name, matching registry semantics.
func dedupe(agents []domain.Agent) []domain.Agent {
	seen := make(map[string]struct{}, len(agents))
	out := agents[:0:0]
	for _, a := range agents {
		key := lowerName(a)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	return out
}
