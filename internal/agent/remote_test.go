package agent

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"hermes/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func remoteFor(t *testing.T, handler http.HandlerFunc) *Remote {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRemote("ext", srv.URL, BreakerConfig{}, testLogger())
}

func TestRemoteValidResponse(t *testing.T) {
	r := remoteFor(t, func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, "application/json", req.Header.Get("Content-Type"))
		w.Write([]byte(`{"type":"text","text":"42","payload":null,"status":{"code":0,"message":""}}`))
	})

	resp := r.Process(context.Background(), domain.NewRequest("answer?"))
	require.NotNil(t, resp)
	require.Equal(t, "42", resp.Text)
	require.Equal(t, domain.StatusSuccess, resp.Status.Code)
}

func TestRemoteMissingStatusDeclines(t *testing.T) {
	r := remoteFor(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"type":"text","text":"42"}`))
	})
	require.Nil(t, r.Process(context.Background(), domain.NewRequest("x")))
}

func TestRemoteSuccessWithoutTextDeclines(t *testing.T) {
	r := remoteFor(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"type":"text","text":null,"status":{"code":0,"message":""}}`))
	})
	require.Nil(t, r.Process(context.Background(), domain.NewRequest("x")))
}

func TestRemoteMalformedJSONDeclines(t *testing.T) {
	r := remoteFor(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{not json`))
	})
	require.Nil(t, r.Process(context.Background(), domain.NewRequest("x")))
}

func TestRemoteHTTPErrorDeclines(t *testing.T) {
	r := remoteFor(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	require.Nil(t, r.Process(context.Background(), domain.NewRequest("x")))
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	r := NewRemote("flaky", srv.URL, BreakerConfig{MaxFailures: 2}, testLogger())
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.Nil(t, r.Process(ctx, domain.NewRequest("x")))
	}
	// After two consecutive failures the circuit is open and later calls
	// never reach the endpoint.
	require.Equal(t, 2, hits)
}

func TestRemoteSendsAuthToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, "Bearer s3cret", req.Header.Get("Authorization"))
		w.Write([]byte(`{"type":"text","text":"ok","status":{"code":0,"message":""}}`))
	}))
	defer srv.Close()

	r := NewRemote("ext", srv.URL, BreakerConfig{}, testLogger(), WithAuthToken("s3cret"))
	resp := r.Process(context.Background(), domain.NewRequest("x"))
	require.NotNil(t, resp)
	require.Equal(t, "ok", resp.Text)
}
