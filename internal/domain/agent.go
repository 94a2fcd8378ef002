package domain

import "context"

// AgentDescription summarizes an agent's capability for inventory listings.
type AgentDescription struct {
	Summary  string   `json:"summary"            yaml:"summary"`
	Examples []string `json:"examples,omitempty" yaml:"examples,omitempty"`
}

// Agent is a named handler capable of answering or declining a request.
// Process returns nil when the agent declines; the dispatcher then moves
// on to the next candidate.
type Agent interface {
	Name() string
	Description() AgentDescription
	Process(ctx context.Context, req *AgentRequest) *AgentResponse
}

// AgentInfo provides name and description bookkeeping for concrete agents.
// Embed it and call SetName/SetDescription during construction.
type AgentInfo struct {
	name string
	desc AgentDescription
}

func (a *AgentInfo) Name() string { return a.name }

func (a *AgentInfo) SetName(name string) { a.name = name }

func (a *AgentInfo) Description() AgentDescription { return a.desc }

func (a *AgentInfo) SetDescription(d AgentDescription) { a.desc = d }
