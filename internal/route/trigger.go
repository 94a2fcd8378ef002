package route

import (
	"log/slog"
	"strings"

	"hermes/internal/domain"
	"hermes/internal/token"
)

// Trigger routes on the first token of the request only: when it exactly
// equals a trigger word configured for exactly one agent, that agent alone
// is returned; otherwise nothing.
type Trigger struct {
	triggers map[string]domain.Agent
	agents   []domain.Agent
}

// NewTrigger builds the router from the ordered agent/parameter list,
// reading each entry's "triggers" values. A trigger word claimed by more
// than one agent keeps the first claim and logs a warning.
func NewTrigger(cfg []AgentParams, logger *slog.Logger) *Trigger {
	if logger == nil {
		logger = discardLogger()
	}
	triggers := make(map[string]domain.Agent)
	var agents []domain.Agent
	for _, ap := range cfg {
		words := ap.Values(ParamTriggers)
		if len(words) == 0 {
			continue
		}
		agents = append(agents, ap.Agent)
		for _, w := range words {
			w = strings.ToLower(w)
			if prev, ok := triggers[w]; ok {
				logger.Warn("trigger word already claimed",
					"trigger", w,
					"kept", prev.Name(),
					"ignored", ap.Agent.Name(),
				)
				continue
			}
			triggers[w] = ap.Agent
		}
	}
	return &Trigger{triggers: triggers, agents: dedupe(agents)}
}

func (t *Trigger) Route(req *domain.AgentRequest) []domain.Agent {
	toks := token.Tokenize(strings.ToLower(req.Text), false)
	if len(toks) == 0 {
		return nil
	}
	if a, ok := t.triggers[toks[0]]; ok {
		return []domain.Agent{a}
	}
	return nil
}

func (t *Trigger) Agents() []domain.Agent {
	return append([]domain.Agent(nil), t.agents...)
}
