package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"hermes/internal/domain"
)

// Default circuit breaker settings for remote agents.
const (
	defaultBreakerFailures uint32        = 5
	defaultBreakerTimeout  time.Duration = 30 * time.Second
	defaultBreakerInterval time.Duration = 60 * time.Second

	maxRemoteBody = 1 << 20 // 1 MiB response cap
)

// BreakerConfig tunes the remote agent's circuit breaker.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures before the circuit opens.
	MaxFailures uint32 `yaml:"max_failures"`
	// Timeout is how long the circuit stays open before a half-open probe.
	Timeout time.Duration `yaml:"timeout"`
	// Interval is the closed-state cycle for clearing failure counts.
	Interval time.Duration `yaml:"interval"`
}

// wireResponse mirrors the remote-agent HTTP/JSON response shape. Status
// is a pointer so a missing status is detectable.
type wireResponse struct {
	Type      string         `json:"type"`
	Text      *string        `json:"text"`
	Payload   *string        `json:"payload"`
	SessionID string         `json:"session_id,omitempty"`
	Status    *domain.Status `json:"status"`
}

// Remote calls an external agent over HTTP/JSON. Transport failures and
// malformed payloads degrade to a decline; repeated failures open a
// circuit breaker so a dead endpoint fails fast.
type Remote struct {
	domain.AgentInfo
	endpoint  string
	authToken string
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker[*domain.AgentResponse]
	logger    *slog.Logger
}

// RemoteOption configures a Remote.
type RemoteOption func(*Remote)

// WithAuthToken sends the token as a bearer Authorization header.
func WithAuthToken(token string) RemoteOption {
	return func(r *Remote) { r.authToken = token }
}

// NewRemote creates a remote agent proxy for the given endpoint.
// Zero-valued cfg fields use defaults.
func NewRemote(name, endpoint string, cfg BreakerConfig, logger *slog.Logger, opts ...RemoteOption) *Remote {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultBreakerFailures
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultBreakerTimeout
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = defaultBreakerInterval
	}

	cb := gobreaker.NewCircuitBreaker[*domain.AgentResponse](gobreaker.Settings{
		Name:        "remote:" + name,
		MaxRequests: 1, // one probe in half-open state
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	r := &Remote{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
		breaker:  cb,
		logger:   logger,
	}
	r.SetName(name)
	r.SetDescription(domain.AgentDescription{
		Summary: "Forwards requests to the remote agent at " + endpoint + ".",
	})
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Remote) Process(ctx context.Context, req *domain.AgentRequest) *domain.AgentResponse {
	resp, err := r.breaker.Execute(func() (*domain.AgentResponse, error) {
		return r.call(ctx, req)
	})
	if err != nil {
		r.logger.Warn("remote agent declined",
			"agent", r.Name(),
			"request_id", req.ID,
			"error", err,
		)
		return nil
	}
	return resp
}

func (r *Remote) call(ctx context.Context, req *domain.AgentRequest) (*domain.AgentResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if r.authToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+r.authToken)
	}

	httpResp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRemoteAgent, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrRemoteAgent, httpResp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxRemoteBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", domain.ErrRemoteAgent, err)
	}

	var wire wireResponse
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", domain.ErrRemoteAgent, err)
	}

	resp, err := wire.toResponse()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRemoteAgent, err)
	}
	return resp, nil
}

// toResponse validates the wire shape and converts it. Invalid payloads
// are errors so the breaker counts them and the dispatcher moves on.
func (w *wireResponse) toResponse() (*domain.AgentResponse, error) {
	if w.Status == nil {
		return nil, fmt.Errorf("response without status")
	}
	resp := &domain.AgentResponse{
		Type:      domain.ResponseType(w.Type),
		SessionID: w.SessionID,
		Status:    *w.Status,
	}
	if w.Text != nil {
		resp.Text = *w.Text
	}
	if w.Payload != nil {
		resp.Payload = *w.Payload
	}
	if !resp.Valid() {
		return nil, fmt.Errorf("invalid response (type %q, code %s)", w.Type, resp.Status.Code)
	}
	return resp, nil
}
