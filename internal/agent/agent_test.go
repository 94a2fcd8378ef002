package agent

import (
	"context"
	"testing"
	"time"

	"hermes/internal/domain"
)

func TestEchoRepeats(t *testing.T) {
	e := NewEcho()
	resp := e.Process(context.Background(), domain.NewRequest("hello there"))
	if resp == nil || resp.Text != "hello there" {
		t.Errorf("got %+v, want echo of input", resp)
	}
}

func TestEchoDeclinesEmpty(t *testing.T) {
	e := NewEcho()
	if resp := e.Process(context.Background(), domain.NewRequest("")); resp != nil {
		t.Errorf("empty request should be declined, got %+v", resp)
	}
}

func TestClockIntents(t *testing.T) {
	fixed := time.Date(2026, time.March, 4, 13, 37, 0, 0, time.UTC)
	c := NewClock()
	c.now = func() time.Time { return fixed }

	cases := []struct {
		in   string
		want string
	}{
		{"what time is it", "It is 13:37."},
		{"tell me today's date", "Today is March 4, 2026."},
		{"what day of the week is it", "It is Wednesday."},
	}
	for _, tc := range cases {
		resp := c.Process(context.Background(), domain.NewRequest(tc.in))
		if resp == nil {
			t.Errorf("%q: declined, want %q", tc.in, tc.want)
			continue
		}
		if resp.Text != tc.want {
			t.Errorf("%q: got %q, want %q", tc.in, resp.Text, tc.want)
		}
	}
}

func TestClockDeclinesUnrelated(t *testing.T) {
	c := NewClock()
	if resp := c.Process(context.Background(), domain.NewRequest("order me a pizza")); resp != nil {
		t.Errorf("unrelated request should be declined, got %+v", resp)
	}
	// "timer" must not be classified as a time question.
	if resp := c.Process(context.Background(), domain.NewRequest("set a timer")); resp != nil {
		t.Errorf("whole-token classification violated, got %+v", resp)
	}
}
