// Package registry holds the case-insensitive agent name lookup table.
package registry

import (
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"hermes/internal/domain"
)

// Registry maps lowercased agent names to agent instances. Registration is
// append-or-replace only; there is deliberately no removal operation.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]domain.Agent
	logger *slog.Logger
}

// New creates an empty Registry. A nil logger discards output.
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Registry{
		agents: make(map[string]domain.Agent),
		logger: logger,
	}
}

// Register stores the agent under its lowercased name. A duplicate name
// replaces the prior entry and logs a warning.
func (r *Registry) Register(agent domain.Agent) {
	key := strings.ToLower(agent.Name())

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.agents[key]; exists {
		r.logger.Warn("agent replaced", "name", key)
	}
	r.agents[key] = agent
}

// Get looks up an agent case-insensitively.
func (r *Registry) Get(name string) (domain.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.agents[strings.ToLower(name)]
	return a, ok
}

// Snapshot returns a defensive copy of the name table, never the live map.
func (r *Registry) Snapshot() map[string]domain.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cp := make(map[string]domain.Agent, len(r.agents))
	for k, v := range r.agents {
		cp[k] = v
	}
	return cp
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.agents))
	for k := range r.agents {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}
