package route

import (
	"context"
	"testing"

	"hermes/internal/domain"
	"hermes/internal/registry"
)

type stubAgent struct {
	domain.AgentInfo
}

func newStubAgent(name string) *stubAgent {
	a := &stubAgent{}
	a.SetName(name)
	return a
}

func (a *stubAgent) Process(_ context.Context, _ *domain.AgentRequest) *domain.AgentResponse {
	return domain.NewTextResponse(a.Name())
}

func params(agent domain.Agent, key string, values ...string) AgentParams {
	return AgentParams{Agent: agent, Params: map[string][]string{key: values}}
}

func names(agents []domain.Agent) []string {
	out := make([]string, len(agents))
	for i, a := range agents {
		out[i] = a.Name()
	}
	return out
}

func req(text string) *domain.AgentRequest {
	return domain.NewRequest(text)
}

func TestFixedRoutesToBoundAgent(t *testing.T) {
	reg := registry.New(nil)
	reg.Register(newStubAgent("clock"))

	f := NewFixed(reg, "Clock", nil)
	got := f.Route(req("anything at all"))
	if len(got) != 1 || got[0].Name() != "clock" {
		t.Errorf("Route = %v, want [clock]", names(got))
	}
}

func TestFixedMissingAgentRoutesNothing(t *testing.T) {
	reg := registry.New(nil)
	f := NewFixed(reg, "ghost", nil)
	if got := f.Route(req("hello")); len(got) != 0 {
		t.Errorf("Route = %v, want empty", names(got))
	}
	if got := f.Agents(); len(got) != 0 {
		t.Errorf("Agents = %v, want empty", names(got))
	}
}

func TestKeywordWholeTokenMatch(t *testing.T) {
	clock := newStubAgent("clock")
	k := NewKeyword([]AgentParams{
		params(clock, ParamKeywords, "time", "date"),
	})

	if got := k.Route(req("What time is it")); len(got) != 1 || got[0].Name() != "clock" {
		t.Errorf("Route = %v, want [clock]", names(got))
	}
	// Substring must not match: "timer" is not "time".
	if got := k.Route(req("Do you have a timer")); len(got) != 0 {
		t.Errorf("Route = %v, want empty", names(got))
	}
}

func TestKeywordMultipleMatchesInEntryOrder(t *testing.T) {
	a := newStubAgent("alpha")
	b := newStubAgent("beta")
	k := NewKeyword([]AgentParams{
		params(a, ParamKeywords, "news"),
		params(b, ParamKeywords, "news", "headlines"),
	})

	got := k.Route(req("any news today"))
	if len(got) != 2 || got[0].Name() != "alpha" || got[1].Name() != "beta" {
		t.Errorf("Route = %v, want [alpha beta]", names(got))
	}
}

func TestKeywordDuplicateAgentCollapses(t *testing.T) {
	a := newStubAgent("alpha")
	k := NewKeyword([]AgentParams{
		params(a, ParamKeywords, "news"),
		params(a, ParamKeywords, "headlines"),
	})
	if got := k.Route(req("news headlines")); len(got) != 1 {
		t.Errorf("Route = %v, want a single entry", names(got))
	}
}

func TestRegexFullMatchOnly(t *testing.T) {
	movies := newStubAgent("movies")
	r, err := NewRegex([]AgentParams{
		params(movies, ParamRegex, `.*\bmovie\b.*`, `what's (playing|showing).*`),
	})
	if err != nil {
		t.Fatalf("NewRegex: %v", err)
	}

	if got := r.Route(req("recommend a movie for tonight")); len(got) != 1 {
		t.Errorf("Route = %v, want [movies]", names(got))
	}
	if got := r.Route(req("What's Playing at the cinema")); len(got) != 1 {
		t.Errorf("case-insensitive match failed: %v", names(got))
	}
	// Pattern matches a fragment only, not the whole text.
	r2, err := NewRegex([]AgentParams{params(movies, ParamRegex, `movie`)})
	if err != nil {
		t.Fatalf("NewRegex: %v", err)
	}
	if got := r2.Route(req("recommend a movie")); len(got) != 0 {
		t.Errorf("partial match should not route, got %v", names(got))
	}
}

func TestRegexBadPattern(t *testing.T) {
	if _, err := NewRegex([]AgentParams{
		params(newStubAgent("x"), ParamRegex, `([unclosed`),
	}); err == nil {
		t.Error("expected compile error")
	}
}

func TestTriggerFirstTokenOnly(t *testing.T) {
	tw := newStubAgent("twitter")
	tr := NewTrigger([]AgentParams{
		params(tw, ParamTriggers, "twitter"),
	}, nil)

	if got := tr.Route(req("twitter hello world")); len(got) != 1 || got[0].Name() != "twitter" {
		t.Errorf("Route = %v, want [twitter]", names(got))
	}
	if got := tr.Route(req("film hello world")); len(got) != 0 {
		t.Errorf("Route = %v, want empty", names(got))
	}
	// Trigger word not in first position does not fire.
	if got := tr.Route(req("post on twitter please")); len(got) != 0 {
		t.Errorf("Route = %v, want empty", names(got))
	}
}

func TestTriggerEmptyRequest(t *testing.T) {
	tr := NewTrigger([]AgentParams{
		params(newStubAgent("x"), ParamTriggers, "x"),
	}, nil)
	if got := tr.Route(req("?!")); len(got) != 0 {
		t.Errorf("Route = %v, want empty", names(got))
	}
}

type scriptedRouter struct {
	result []domain.Agent
	all    []domain.Agent
	calls  int
}

func (s *scriptedRouter) Route(_ *domain.AgentRequest) []domain.Agent {
	s.calls++
	return s.result
}

func (s *scriptedRouter) Agents() []domain.Agent { return s.all }

func TestChainFirstNonEmptyWins(t *testing.T) {
	a := newStubAgent("a")
	b := newStubAgent("b")
	r1 := &scriptedRouter{all: []domain.Agent{b}}
	r2 := &scriptedRouter{result: []domain.Agent{a}, all: []domain.Agent{a}}

	c := NewChain(r1, r2)
	got := c.Route(req("x"))
	if len(got) != 1 || got[0].Name() != "a" {
		t.Fatalf("Route = %v, want [a]", names(got))
	}

	// When the first member answers, later members are never consulted.
	r1.result = []domain.Agent{b}
	r2.calls = 0
	got = c.Route(req("y"))
	if len(got) != 1 || got[0].Name() != "b" {
		t.Fatalf("Route = %v, want [b]", names(got))
	}
	if r2.calls != 0 {
		t.Errorf("second member consulted %d times, want 0", r2.calls)
	}
}

func TestChainAllEmpty(t *testing.T) {
	c := NewChain(&scriptedRouter{}, &scriptedRouter{})
	if got := c.Route(req("x")); len(got) != 0 {
		t.Errorf("Route = %v, want empty", names(got))
	}
}

func TestChainInventoryUnion(t *testing.T) {
	a := newStubAgent("a")
	b := newStubAgent("b")
	c := NewChain(
		&scriptedRouter{all: []domain.Agent{a, b}},
		&scriptedRouter{all: []domain.Agent{b}},
	)
	got := c.Agents()
	if len(got) != 2 {
		t.Errorf("Agents = %v, want deduplicated union of two", names(got))
	}
}
