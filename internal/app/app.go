// Package app orchestrates one request/response cycle: filtering,
// routing, candidate dispatch, timing and reporting.
package app

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"hermes/internal/domain"
	"hermes/internal/infra/tracer"
	"hermes/internal/report"
	"hermes/internal/route"
)

// Application ties router, agents and reporting together. Construct one
// per process (or per test) and inject it; there is deliberately no
// package-level instance.
type Application struct {
	router   route.Router
	filters  []Filter
	reporter report.Reporter
	logger   *slog.Logger
	wg       sync.WaitGroup // outstanding report deliveries
}

// New creates an Application over the given router. Filters and reporter
// are optional and set after construction.
func New(router route.Router, logger *slog.Logger) *Application {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Application{router: router, logger: logger}
}

// SetFilters replaces the request filter list, applied in order.
func (a *Application) SetFilters(filters ...Filter) { a.filters = filters }

// SetReporter enables usage reporting.
func (a *Application) SetReporter(r report.Reporter) { a.reporter = r }

// Router exposes the active router for inventory listings.
func (a *Application) Router() route.Router { return a.router }

// Process runs one request end-to-end and always returns a
// status-bearing response. It is safe to call concurrently.
func (a *Application) Process(ctx context.Context, req *domain.AgentRequest) *domain.AgentResponse {
	ctx, span := tracer.StartSpan(ctx, "app.process")
	defer span.End()
	span.SetAttributes(tracer.StringAttr("request.id", req.ID))

	for _, f := range a.filters {
		if filtered := f(req.Text); filtered != req.Text {
			req = req.WithText(filtered)
		}
	}

	routeStart := time.Now()
	_, routeSpan := tracer.StartSpan(ctx, "app.route")
	candidates := a.router.Route(req)
	routeDur := time.Since(routeStart)
	routeSpan.SetAttributes(tracer.IntAttr("candidates", len(candidates)))
	routeSpan.End()

	if len(candidates) == 0 {
		resp := domain.NewErrorResponse(domain.StatusNoAvailableAgent)
		a.finish(ctx, span, req, "", resp, routeDur, 0)
		return resp
	}

	agentStart := time.Now()
	agentCtx, agentSpan := tracer.StartSpan(ctx, "app.agents")
	resp, agentName, sawInvalid := a.dispatch(agentCtx, candidates, req)
	agentDur := time.Since(agentStart)
	agentSpan.End()

	if resp == nil {
		// Every candidate declined. An invalid answer along the way is
		// worth its own status.
		code := domain.StatusAgentDidNotAnswer
		if sawInvalid {
			code = domain.StatusInvalidAgentResponse
		}
		resp = domain.NewErrorResponse(code)
		agentName = ""
	}

	a.finish(ctx, span, req, agentName, resp, routeDur, agentDur)
	return resp
}

// dispatch tries candidates in order; the first valid response wins and
// the remaining candidates are never consulted.
func (a *Application) dispatch(ctx context.Context, candidates []domain.Agent, req *domain.AgentRequest) (resp *domain.AgentResponse, agentName string, sawInvalid bool) {
	for _, agent := range candidates {
		r := a.invoke(ctx, agent, req)
		if r == nil {
			a.logger.Debug("agent declined", "agent", agent.Name(), "request_id", req.ID)
			continue
		}
		if !r.Valid() {
			a.logger.Warn("agent answered invalid data", "agent", agent.Name(), "request_id", req.ID)
			sawInvalid = true
			continue
		}
		return r, agent.Name(), sawInvalid
	}
	return nil, "", sawInvalid
}

// invoke shields the dispatcher from a misbehaving agent: a panic
// degrades that one candidate to a decline.
func (a *Application) invoke(ctx context.Context, agent domain.Agent, req *domain.AgentRequest) (resp *domain.AgentResponse) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("agent panicked",
				"agent", agent.Name(),
				"request_id", req.ID,
				"panic", r,
			)
			resp = nil
		}
	}()
	return agent.Process(ctx, req)
}

// finish records timing on the span and hands the exchange to the
// reporter without blocking the response. Reporting failures are logged
// and swallowed.
func (a *Application) finish(_ context.Context, span trace.Span, req *domain.AgentRequest, agentName string, resp *domain.AgentResponse, routeDur, agentDur time.Duration) {
	span.SetAttributes(
		tracer.StringAttr("response.status", resp.Status.Code.String()),
		tracer.StringAttr("agent.name", agentName),
		tracer.DurationAttr("route.duration_ms", routeDur),
		tracer.DurationAttr("agent.duration_ms", agentDur),
	)

	if a.reporter == nil {
		return
	}
	rec := report.Record{
		Timestamp:     time.Now(),
		RequestID:     req.ID,
		RequestText:   req.Text,
		AgentName:     agentName,
		ResponseText:  resp.Text,
		StatusCode:    resp.Status.Code,
		RouteDuration: routeDur,
		AgentDuration: agentDur,
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		// Detached context: the report must not die with the request.
		rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.reporter.Report(rctx, rec); err != nil {
			a.logger.Warn("report delivery failed", "request_id", rec.RequestID, "error", err)
		}
	}()
}

// Close waits for outstanding report deliveries.
func (a *Application) Close() {
	a.wg.Wait()
}
