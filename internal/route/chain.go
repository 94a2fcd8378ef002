package route

import "hermes/internal/domain"

// Chain composes an ordered list of routers with first-success-wins
// semantics: the first member producing a non-empty candidate set decides.
type Chain struct {
	members []Router
}

// NewChain builds a chain over the given members, tried in order.
func NewChain(members ...Router) *Chain {
	return &Chain{members: members}
}

func (c *Chain) Route(req *domain.AgentRequest) []domain.Agent {
	for _, m := range c.members {
		if candidates := m.Route(req); len(candidates) > 0 {
			return candidates
		}
	}
	return nil
}

// Agents unions every member's inventory, deduplicated.
func (c *Chain) Agents() []domain.Agent {
	var all []domain.Agent
	for _, m := range c.members {
		all = append(all, m.Agents()...)
	}
	return dedupe(all)
}
