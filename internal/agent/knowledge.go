package agent

import (
	"context"
	"log/slog"

	"hermes/internal/disambig"
	"hermes/internal/domain"
	"hermes/internal/session"
)

// Knowledge answers lookup questions against a data source, running the
// disambiguation protocol when the source returns several equally
// plausible entities.
type Knowledge struct {
	domain.AgentInfo
	resolver *disambig.Resolver
}

// NewKnowledge creates a knowledge agent over the given source.
// threshold caps ambiguous follow-ups per session (0 = default).
func NewKnowledge(name string, sessions session.Service, source disambig.Source, threshold int, logger *slog.Logger) *Knowledge {
	k := &Knowledge{
		resolver: disambig.NewResolver(sessions, source, threshold, logger),
	}
	k.SetName(name)
	k.SetDescription(domain.AgentDescription{
		Summary:  "Looks up facts, asking a clarifying question when your request is ambiguous.",
		Examples: []string{"tell me about mercury", "who was ada lovelace"},
	})
	return k
}

func (k *Knowledge) Process(ctx context.Context, req *domain.AgentRequest) *domain.AgentResponse {
	return k.resolver.Resolve(ctx, req)
}
