package route

import (
	"strings"

	"hermes/internal/domain"
	"hermes/internal/token"
)

// Node is one node of a routing decision tree. Trees are built once before
// serving traffic; traversal is read-only.
type Node interface {
	// Leaf reports whether this node terminates a walk.
	Leaf() bool
	// Agents returns the agents reachable from this node. For a leaf this
	// is its resolved agent; for internal nodes it is the union over
	// children, used for inventory.
	Agents() []domain.Agent
	// SelectChild picks the next node for the request, nil when no child
	// applies (a dead end, not an error).
	SelectChild(req *domain.AgentRequest) Node
}

type leafNode struct {
	agent domain.Agent
}

// Leaf builds a terminal node resolving to a single agent.
func Leaf(a domain.Agent) Node { return &leafNode{agent: a} }

func (n *leafNode) Leaf() bool { return true }

func (n *leafNode) Agents() []domain.Agent { return []domain.Agent{n.agent} }

func (n *leafNode) SelectChild(_ *domain.AgentRequest) Node { return nil }

type binaryNode struct {
	keywords map[string]struct{}
	match    Node
	noMatch  Node
}

// BinaryNode builds an internal node that selects the match child when any
// of its keywords appears as a whole token of the request, and the noMatch
// child otherwise. A request that tokenizes to nothing selects no child.
func BinaryNode(keywords []string, match, noMatch Node) Node {
	set := make(map[string]struct{}, len(keywords))
	for _, w := range keywords {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &binaryNode{keywords: set, match: match, noMatch: noMatch}
}

func (n *binaryNode) Leaf() bool { return false }

func (n *binaryNode) Agents() []domain.Agent {
	return childAgents(n.match, n.noMatch)
}

func (n *binaryNode) SelectChild(req *domain.AgentRequest) Node {
	toks := token.Tokenize(strings.ToLower(req.Text), false)
	if len(toks) == 0 {
		return nil
	}
	for _, t := range toks {
		if _, ok := n.keywords[t]; ok {
			return n.match
		}
	}
	return n.noMatch
}

type multiNode struct {
	children map[string]Node
}

// MultiNode builds an internal node with a keyword-to-child mapping. The
// request's tokens are scanned left to right; the first token that names a
// child selects it. No hit selects no child.
func MultiNode(children map[string]Node) Node {
	m := make(map[string]Node, len(children))
	for w, c := range children {
		m[strings.ToLower(w)] = c
	}
	return &multiNode{children: m}
}

func (n *multiNode) Leaf() bool { return false }

func (n *multiNode) Agents() []domain.Agent {
	kids := make([]Node, 0, len(n.children))
	for _, c := range n.children {
		kids = append(kids, c)
	}
	return childAgents(kids...)
}

func (n *multiNode) SelectChild(req *domain.AgentRequest) Node {
	toks := token.Tokenize(strings.ToLower(req.Text), false)
	for _, t := range toks {
		if c, ok := n.children[t]; ok {
			return c
		}
	}
	return nil
}

func childAgents(children ...Node) []domain.Agent {
	var agents []domain.Agent
	for _, c := range children {
		if c == nil {
			continue
		}
		agents = append(agents, c.Agents()...)
	}
	return dedupe(agents)
}

// Tree walks a decision tree from its root to a leaf. A walk that runs out
// of children before reaching a leaf resolves to no agents.
type Tree struct {
	root Node
}

// NewTree builds a tree router over the given root.
func NewTree(root Node) *Tree { return &Tree{root: root} }

func (t *Tree) Route(req *domain.AgentRequest) []domain.Agent {
	n := t.root
	for n != nil {
		if n.Leaf() {
			return n.Agents()
		}
		n = n.SelectChild(req)
	}
	return nil
}

func (t *Tree) Agents() []domain.Agent {
	if t.root == nil {
		return nil
	}
	return t.root.Agents()
}
