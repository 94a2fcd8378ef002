// Package report delivers one usage record per processed request to the
// configured backends. Reporting is fire-and-forget: failures are logged
// by the caller and never alter the response.
package report

import (
	"context"
	"log/slog"
	"time"

	"hermes/internal/domain"
)

// Record is one processed request/response exchange.
type Record struct {
	Timestamp     time.Time
	RequestID     string
	RequestText   string
	AgentName     string
	ResponseText  string
	StatusCode    domain.StatusCode
	RouteDuration time.Duration
	AgentDuration time.Duration
}

// Reporter receives one record per processed request.
type Reporter interface {
	Report(ctx context.Context, rec Record) error
}

// LogReporter writes records to the structured log.
type LogReporter struct {
	logger *slog.Logger
}

// NewLogReporter creates a Reporter backed by logger.
func NewLogReporter(logger *slog.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

func (r *LogReporter) Report(_ context.Context, rec Record) error {
	r.logger.Info("request processed",
		"request_id", rec.RequestID,
		"agent", rec.AgentName,
		"status", rec.StatusCode.String(),
		"route_ms", rec.RouteDuration.Milliseconds(),
		"agent_ms", rec.AgentDuration.Milliseconds(),
	)
	return nil
}

type multi struct {
	reporters []Reporter
}

// Multi fans a record out to several reporters; the first error wins but
// every reporter is attempted.
func Multi(reporters ...Reporter) Reporter {
	return &multi{reporters: reporters}
}

func (m *multi) Report(ctx context.Context, rec Record) error {
	var first error
	for _, r := range m.reporters {
		if err := r.Report(ctx, rec); err != nil && first == nil {
			first = err
		}
	}
	return first
}
