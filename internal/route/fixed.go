package route

import (
	"log/slog"

	"hermes/internal/domain"
	"hermes/internal/registry"
)

// Fixed always routes to one pre-bound agent. When the registry lookup at
// construction fails, it routes to nothing.
type Fixed struct {
	agent domain.Agent
}

// NewFixed binds the router to the named agent from the registry.
func NewFixed(reg *registry.Registry, name string, logger *slog.Logger) *Fixed {
	if logger == nil {
		logger = discardLogger()
	}
	a, ok := reg.Get(name)
	if !ok {
		logger.Warn("fixed router: agent not registered", "name", name)
		return &Fixed{}
	}
	return &Fixed{agent: a}
}

// NewFixedAgent binds the router directly to an agent.
func NewFixedAgent(a domain.Agent) *Fixed {
	return &Fixed{agent: a}
}

func (f *Fixed) Route(_ *domain.AgentRequest) []domain.Agent {
	if f.agent == nil {
		return nil
	}
	return []domain.Agent{f.agent}
}

func (f *Fixed) Agents() []domain.Agent {
	if f.agent == nil {
		return nil
	}
	return []domain.Agent{f.agent}
}
