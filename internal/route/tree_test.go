package route

import (
	"testing"
)

func TestTreeBinaryWalk(t *testing.T) {
	current := newStubAgent("current-weather")
	historical := newStubAgent("historical-weather")

	depth1 := BinaryNode([]string{"historical"}, Leaf(historical), Leaf(current))
	root := BinaryNode([]string{"weather"}, depth1, nil)
	tree := NewTree(root)

	got := tree.Route(req("show me historical weather data"))
	if len(got) != 1 || got[0].Name() != "historical-weather" {
		t.Errorf("Route = %v, want [historical-weather]", names(got))
	}

	got = tree.Route(req("what is the weather"))
	if len(got) != 1 || got[0].Name() != "current-weather" {
		t.Errorf("Route = %v, want [current-weather]", names(got))
	}

	// No match anywhere: dead end, empty result, no error.
	if got := tree.Route(req("tell me a joke")); len(got) != 0 {
		t.Errorf("Route = %v, want empty", names(got))
	}
}

func TestBinaryNodeEmptyTokenization(t *testing.T) {
	n := BinaryNode([]string{"x"}, Leaf(newStubAgent("a")), Leaf(newStubAgent("b")))
	if child := n.SelectChild(req("?!.")); child != nil {
		t.Error("empty tokenization should select no child, not a default branch")
	}
}

func TestMultiNodeLeftToRightScan(t *testing.T) {
	a := newStubAgent("a")
	b := newStubAgent("b")
	n := MultiNode(map[string]Node{
		"stocks": Leaf(a),
		"news":   Leaf(b),
	})

	// "news" appears before "stocks" in the text, so its child wins.
	child := n.SelectChild(req("any news on stocks"))
	if child == nil {
		t.Fatal("expected a child")
	}
	got := child.Agents()
	if len(got) != 1 || got[0].Name() != "b" {
		t.Errorf("selected %v, want [b]", names(got))
	}

	if child := n.SelectChild(req("completely unrelated")); child != nil {
		t.Error("no configured keyword present: want nil child")
	}
}

func TestTreeInventory(t *testing.T) {
	a := newStubAgent("a")
	b := newStubAgent("b")
	tree := NewTree(BinaryNode([]string{"k"}, Leaf(a), Leaf(b)))
	if got := tree.Agents(); len(got) != 2 {
		t.Errorf("Agents = %v, want both leaves", names(got))
	}
}

func TestLeafContract(t *testing.T) {
	a := newStubAgent("a")
	l := Leaf(a)
	if !l.Leaf() {
		t.Error("Leaf() should be true")
	}
	if got := l.Agents(); len(got) != 1 || got[0].Name() != "a" {
		t.Errorf("Agents = %v, want exactly the wrapped agent", names(got))
	}
	if l.SelectChild(req("anything")) != nil {
		t.Error("leaf SelectChild should always be nil")
	}
}
