package node

import (
	"github.com/coregx/recompare/internal/conv"
	"github.com/coregx/recompare/internal/sparse"
)

// MaxNodes bounds the size of any program, including synthesized ones.
const MaxNodes = 1 << 20

// Program is an immutable, bounds-checked sequence of nodes. The entry node
// is at index 0.
//
// A Program is safe to use concurrently from multiple goroutines.
type Program struct {
	nodes  []Node
	source string
}

// NewProgram copies nodes into a new Program. Source is the pattern text the
// nodes were compiled from and may be empty.
func NewProgram(nodes []Node, source string) (*Program, error) {
	if len(nodes) == 0 {
		return nil, Malformed(-1, "empty program")
	}
	if len(nodes) > MaxNodes {
		return nil, &Error{Kind: AllocationFailure, Message: "program too large", Pos: -1}
	}
	cp := make([]Node, len(nodes))
	copy(cp, nodes)
	return &Program{nodes: cp, source: source}, nil
}

// Len returns the number of nodes.
func (p *Program) Len() int {
	return len(p.nodes)
}

// Source returns the pattern text, if known.
func (p *Program) Source() string {
	return p.source
}

// At returns the node at index i. The node must not be modified.
func (p *Program) At(i int) (*Node, error) {
	if i < 0 || i >= len(p.nodes) {
		return nil, Malformed(i, "index out of range [0,%d)", len(p.nodes))
	}
	return &p.nodes[i], nil
}

// Start returns a cursor at the entry node.
func (p *Program) Start() Cursor {
	return Cursor{prog: p}
}

// CursorAt returns a cursor at node i.
func (p *Program) CursorAt(i int) (Cursor, error) {
	if _, err := p.At(i); err != nil {
		return Cursor{}, err
	}
	return Cursor{prog: p, pos: i}, nil
}

// Next returns the index of the successor of node i.
func (p *Program) Next(i int) (int, error) {
	n, err := p.At(i)
	if err != nil {
		return 0, err
	}
	adv, err := Advance(n, i)
	if err != nil {
		return 0, err
	}
	j := i + adv
	if j >= len(p.nodes) {
		return 0, Malformed(i, "advance %d leaves the stream", adv)
	}
	return j, nil
}

// EndFrom returns the index of the End node reached from i.
func (p *Program) EndFrom(from int) (int, error) {
	i := from
	for {
		n, err := p.At(i)
		if err != nil {
			return 0, err
		}
		if n.Kind == End {
			return i, nil
		}
		// Advances are positive, so the walk always moves forward.
		if i, err = p.Next(i); err != nil {
			return 0, err
		}
	}
}

// Length returns the number of nodes from index from up to and including
// the End node it reaches.
func (p *Program) Length(from int) (int, error) {
	end, err := p.EndFrom(from)
	if err != nil {
		return 0, err
	}
	return end - from + 1, nil
}

// JumpTarget returns the continuation of the composite at i: its successor
// with trivial markers skipped.
func (p *Program) JumpTarget(i int) (int, error) {
	j, err := p.Next(i)
	if err != nil {
		return 0, err
	}
	for {
		n, err := p.At(j)
		if err != nil {
			return 0, err
		}
		if !n.Kind.IsTrivial() {
			return j, nil
		}
		if j, err = p.Next(j); err != nil {
			return 0, err
		}
	}
}

// Validate checks the structural invariants of every reachable node: the
// main chain, alternation arms, repeat bodies and assertion sub-programs.
func (p *Program) Validate() error {
	visited := sparse.NewSparseSet(conv.IntToUint32(len(p.nodes)))
	stack := []int{0}
	push := func(i int) {
		if i >= 0 && i < len(p.nodes) && !visited.Contains(conv.IntToUint32(i)) {
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited.Contains(conv.IntToUint32(i)) {
			continue
		}
		visited.Insert(conv.IntToUint32(i))

		n := &p.nodes[i]
		if !n.Kind.Valid() {
			return Unsupported(i, "invalid node kind %d", uint8(n.Kind))
		}
		if n.Kind == End {
			continue
		}
		if err := p.checkPayload(n, i); err != nil {
			return err
		}
		j, err := p.Next(i)
		if err != nil {
			return err
		}
		push(j)

		switch {
		case n.Kind == Branch:
			if n.Next == 0 {
				return Malformed(i, "branch without explicit advance")
			}
			push(i + 1)
		case n.Kind.IsRepeat():
			if j-i < 2 {
				return Malformed(i, "repeat without body")
			}
			push(i + 1)
		case n.Kind.IsAssertion():
			last := &p.nodes[i+n.Size-1]
			if !last.Kind.IsTrivial() {
				return Unsupported(i, "assertion body ends with %s", last.Kind)
			}
			push(i + 1)
		}
	}
	return nil
}

func (p *Program) checkPayload(n *Node, i int) error {
	switch {
	case n.Kind.IsLiteral():
		if len(n.Literal) == 0 {
			return Malformed(i, "empty literal")
		}
	case n.Kind.IsCurly():
		if n.Max > Infinite || n.Min > n.Max {
			return Malformed(i, "invalid repeat {%d,%d}", n.Min, n.Max)
		}
	case n.Kind.IsAssertion():
		if n.Size < 2 || n.Size > len(p.nodes)-i {
			return Malformed(i, "assertion size %d out of range", n.Size)
		}
		if n.Next != 0 && n.Size > n.Next {
			return Malformed(i, "assertion size %d overlaps successor at +%d", n.Size, n.Next)
		}
	}
	return nil
}
