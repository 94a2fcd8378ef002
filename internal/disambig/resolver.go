// Package disambig implements the multi-turn disambiguation protocol an
// agent runs when its data source returns several equally plausible
// answers.
package disambig

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"hermes/internal/domain"
	"hermes/internal/session"
)

// Result is the outcome of a data-source lookup: either a single answer
// or a disambiguation page listing candidates.
type Result struct {
	Answer     string
	Candidates []string
}

// Ambiguous reports whether the result is a disambiguation page.
func (r *Result) Ambiguous() bool { return len(r.Candidates) > 0 }

// Source is the data source an agent queries.
type Source interface {
	Lookup(ctx context.Context, query string) (*Result, error)
}

// DefaultThreshold is how many ambiguous follow-ups the resolver tolerates
// before giving up on a session.
const DefaultThreshold = 2

// Resolver drives the session-bound disambiguation state machine.
// Concurrent sessions are isolated by the session service's per-ID
// locking.
type Resolver struct {
	sessions  session.Service
	source    Source
	threshold int
	logger    *slog.Logger
}

// NewResolver builds a resolver. threshold <= 0 uses DefaultThreshold;
// a nil logger discards output.
func NewResolver(sessions session.Service, source Source, threshold int, logger *slog.Logger) *Resolver {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{
		sessions:  sessions,
		source:    source,
		threshold: threshold,
		logger:    logger,
	}
}

// Resolve answers the request against the source, asking a clarifying
// follow-up over the bound session when the lookup is ambiguous. A request
// with no bound session, or bound to a session that is not OPEN, is always
// treated as a fresh query.
func (r *Resolver) Resolve(ctx context.Context, req *domain.AgentRequest) *domain.AgentResponse {
	if req.SessionID != "" {
		s, err := r.sessions.Get(ctx, req.SessionID)
		if err == nil && s.Status == domain.SessionOpen {
			return r.refine(ctx, req)
		}
	}
	return r.fresh(ctx, req)
}

func (r *Resolver) fresh(ctx context.Context, req *domain.AgentRequest) *domain.AgentResponse {
	res, err := r.source.Lookup(ctx, req.Text)
	if err != nil {
		r.logger.Error("lookup failed", "request_id", req.ID, "error", err)
		return domain.NewErrorResponse(domain.StatusInternalError)
	}
	if !res.Ambiguous() {
		if res.Answer == "" {
			return domain.NewErrorResponse(domain.StatusAgentDidNotKnow)
		}
		return domain.NewTextResponse(res.Answer)
	}

	// Reuse the bound session only when it is still usable; terminal
	// sessions are never resurrected.
	var id string
	if req.SessionID != "" {
		if s, gerr := r.sessions.Get(ctx, req.SessionID); gerr == nil && !s.Status.Terminal() {
			id = req.SessionID
		}
	}
	if id == "" {
		id, err = r.sessions.Create(ctx)
		if err != nil {
			r.logger.Error("session create failed", "request_id", req.ID, "error", err)
			return domain.NewErrorResponse(domain.StatusInternalError)
		}
	}

	resp := domain.NewErrorResponseMessage(domain.StatusNeedsRefinement, didYouMean(res.Candidates))
	resp.SessionID = id

	err = r.sessions.Update(ctx, id, func(s *domain.Session) error {
		if err := s.Open(); err != nil {
			return err
		}
		s.Candidates = append([]string(nil), res.Candidates...)
		s.Attempts = 0
		s.Append(req, resp)
		return nil
	})
	if err != nil {
		r.logger.Error("session open failed", "session_id", id, "error", err)
		return domain.NewErrorResponse(domain.StatusInternalError)
	}

	r.logger.Debug("disambiguation opened",
		"session_id", id,
		"candidates", len(res.Candidates),
	)
	return resp
}

func (r *Resolver) refine(ctx context.Context, req *domain.AgentRequest) *domain.AgentResponse {
	id := req.SessionID

	res, err := r.source.Lookup(ctx, req.Text)
	if err != nil {
		r.logger.Error("refinement lookup failed", "session_id", id, "error", err)
		_ = r.sessions.Update(ctx, id, func(s *domain.Session) error {
			if s.Status == domain.SessionOpen {
				s.MarkError()
			}
			return nil
		})
		return domain.NewErrorResponse(domain.StatusInternalError)
	}

	if !res.Ambiguous() && res.Answer != "" {
		resp := domain.NewTextResponse(res.Answer)
		resp.SessionID = id
		uerr := r.sessions.Update(ctx, id, func(s *domain.Session) error {
			// The OPEN check in Resolve ran before the per-ID lock was
			// taken; a concurrent refinement may have closed the session
			// since. Never touch a session that left OPEN.
			if s.Status != domain.SessionOpen {
				return domain.NewDomainError("Resolver.refine", domain.ErrSessionClosed, id)
			}
			s.Append(req, resp)
			s.Close()
			return nil
		})
		if errors.Is(uerr, domain.ErrSessionClosed) || errors.Is(uerr, domain.ErrSessionNotFound) {
			return r.fresh(ctx, req)
		}
		if uerr != nil {
			r.logger.Warn("session close failed", "session_id", id, "error", uerr)
		}
		r.logger.Debug("disambiguation resolved", "session_id", id)
		return resp
	}

	var resp *domain.AgentResponse
	uerr := r.sessions.Update(ctx, id, func(s *domain.Session) error {
		if s.Status != domain.SessionOpen {
			return domain.NewDomainError("Resolver.refine", domain.ErrSessionClosed, id)
		}
		s.Attempts++
		if s.Attempts >= r.threshold {
			resp = domain.NewErrorResponseMessage(domain.StatusAgentDidNotKnow,
				"I could not work out what you meant. This session is now closed, please try again.")
			resp.SessionID = id
			s.Append(req, resp)
			s.Close()
			return nil
		}
		resp = domain.NewErrorResponseMessage(domain.StatusNeedsRefinement,
			"I am still unsure. "+didYouMean(s.Candidates))
		resp.SessionID = id
		s.Append(req, resp)
		return nil
	})
	if errors.Is(uerr, domain.ErrSessionClosed) || errors.Is(uerr, domain.ErrSessionNotFound) {
		return r.fresh(ctx, req)
	}
	if uerr != nil {
		r.logger.Error("refinement update failed", "session_id", id, "error", uerr)
		return domain.NewErrorResponse(domain.StatusInternalError)
	}
	return resp
}

// didYouMean renders the clarifying question for a candidate list.
func didYouMean(candidates []string) string {
	quoted := make([]string, len(candidates))
	for i, c := range candidates {
		quoted[i] = fmt.Sprintf("'%s'", c)
	}
	switch len(quoted) {
	case 0:
		return "Could you be more specific?"
	case 1:
		return fmt.Sprintf("Did you mean %s?", quoted[0])
	default:
		return fmt.Sprintf("Did you mean %s or %s?",
			strings.Join(quoted[:len(quoted)-1], ", "), quoted[len(quoted)-1])
	}
}
