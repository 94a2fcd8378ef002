package agent

import (
	"context"
	"strings"
	"time"

	"hermes/internal/domain"
	"hermes/internal/token"
)

// clockIntent is a recognized date/time question.
type clockIntent int

const (
	intentNone clockIntent = iota
	intentTime
	intentDate
	intentWeekday
)

// clockHandlers maps each intent to its formatter. Explicit dispatch
// instead of looking handlers up by computed name.
var clockHandlers = map[clockIntent]func(time.Time) string{
	intentTime:    func(t time.Time) string { return "It is " + t.Format("15:04") + "." },
	intentDate:    func(t time.Time) string { return "Today is " + t.Format("January 2, 2006") + "." },
	intentWeekday: func(t time.Time) string { return "It is " + t.Weekday().String() + "." },
}

// Clock answers date and time questions. It declines anything it cannot
// classify.
type Clock struct {
	domain.AgentInfo
	now func() time.Time
}

// NewClock creates the clock agent.
func NewClock() *Clock {
	c := &Clock{now: time.Now}
	c.SetName("clock")
	c.SetDescription(domain.AgentDescription{
		Summary:  "Tells the current time, date and weekday.",
		Examples: []string{"what time is it", "what is today's date"},
	})
	return c
}

func (c *Clock) Process(_ context.Context, req *domain.AgentRequest) *domain.AgentResponse {
	intent := classifyClock(token.Tokenize(strings.ToLower(req.Text), false))
	handler, ok := clockHandlers[intent]
	if !ok {
		return nil
	}
	return domain.NewTextResponse(handler(c.now()))
}

// classifyClock picks the intent from whole tokens. "day" alone is too
// ambiguous ("some day"), so the weekday intent needs "day" plus a
// question word or "week".
func classifyClock(toks []string) clockIntent {
	present := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		present[t] = struct{}{}
	}
	has := func(w string) bool {
		_, ok := present[w]
		return ok
	}

	switch {
	case has("time"):
		return intentTime
	case has("date") || has("today"):
		return intentDate
	case has("weekday") || (has("day") && (has("what") || has("which") || has("week"))):
		return intentWeekday
	default:
		return intentNone
	}
}
