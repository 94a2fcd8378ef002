// Package agent provides the built-in agents shipped with the dispatcher.
package agent

import (
	"context"

	"hermes/internal/domain"
)

// Echo answers every request with its own text. Useful as a chain
// fallback and for wiring smoke tests.
type Echo struct {
	domain.AgentInfo
}

// NewEcho creates the echo agent.
func NewEcho() *Echo {
	e := &Echo{}
	e.SetName("echo")
	e.SetDescription(domain.AgentDescription{
		Summary:  "Repeats your request back to you.",
		Examples: []string{"say hello"},
	})
	return e
}

func (e *Echo) Process(_ context.Context, req *domain.AgentRequest) *domain.AgentResponse {
	if req.Text == "" {
		return nil
	}
	return domain.NewTextResponse(req.Text)
}
