package node

// Synthesized programs are built from slices of an existing program. Node
// advances are relative, so a contiguous copy keeps its internal jumps.
// The results are fresh, immutable programs scoped to the caller.

func (p *Program) synthesize(nodes []Node) (*Program, error) {
	if len(nodes) > MaxNodes {
		return nil, &Error{Kind: AllocationFailure, Message: "synthesized program too large", Pos: -1}
	}
	return &Program{nodes: nodes, source: p.source}, nil
}

// span returns a copy of nodes [from, to) with room for extra more.
func (p *Program) span(from, to, extra int) ([]Node, error) {
	if from < 0 || to > len(p.nodes) || from > to {
		return nil, Malformed(from, "invalid node span [%d,%d)", from, to)
	}
	if to-from+extra > MaxNodes {
		return nil, &Error{Kind: AllocationFailure, Message: "synthesized program too large", Pos: from}
	}
	out := make([]Node, to-from, to-from+extra)
	copy(out, p.nodes[from:to])
	return out, nil
}

func decrement(n *Node) {
	if n.Min > 0 {
		n.Min--
	}
	if n.Max != Infinite && n.Max > 0 {
		n.Max--
	}
}

// Terminated copies the n nodes starting at from, replacing the last one,
// which must be a trivial marker, with End. It extracts an assertion's
// sub-program.
func (p *Program) Terminated(from, n int) (*Program, error) {
	if n < 1 {
		return nil, Malformed(from, "empty sub-program")
	}
	nodes, err := p.span(from, from+n, 0)
	if err != nil {
		return nil, err
	}
	last := &nodes[n-1]
	if !last.Kind.IsTrivial() {
		return nil, Unsupported(from+n-1, "sub-program ends with %s", last.Kind)
	}
	*last = Node{Kind: End}
	return p.synthesize(nodes)
}

// TruncatedAt copies nodes [from, to) and terminates the copy with End, so
// any jump to index to lands on the terminator.
func (p *Program) TruncatedAt(from, to int) (*Program, error) {
	nodes, err := p.span(from, to, 1)
	if err != nil {
		return nil, err
	}
	nodes = append(nodes, Node{Kind: End})
	return p.synthesize(nodes)
}

// WithRepeatDecremented copies the stream from the repeat at index at up to
// its End, with the repeat's counts lowered by one. An infinite maximum
// stays infinite.
func (p *Program) WithRepeatDecremented(at int) (*Program, error) {
	end, err := p.EndFrom(at)
	if err != nil {
		return nil, err
	}
	nodes, err := p.span(at, end+1, 0)
	if err != nil {
		return nil, err
	}
	if !nodes[0].Kind.IsCurly() {
		return nil, Unsupported(at, "cannot decrement %s", nodes[0].Kind)
	}
	decrement(&nodes[0])
	return p.synthesize(nodes)
}

// Unrolled copies one instance of the body of the repeat at index at,
// followed by the repeat with decremented counts and the rest of the stream.
func (p *Program) Unrolled(at int) (*Program, error) {
	rep, err := p.At(at)
	if err != nil {
		return nil, err
	}
	if !rep.Kind.IsCurly() {
		return nil, Unsupported(at, "cannot unroll %s", rep.Kind)
	}
	tail, err := p.Next(at)
	if err != nil {
		return nil, err
	}
	end, err := p.EndFrom(tail)
	if err != nil {
		return nil, err
	}
	body, err := p.span(at+1, tail, end-at+1)
	if err != nil {
		return nil, err
	}
	k := len(body)
	body = append(body, p.nodes[at:end+1]...)
	decrement(&body[k])
	return p.synthesize(body)
}

// ByteThen builds a one-byte Exact node of kind followed by a copy of the
// stream from index from up to its End.
func (p *Program) ByteThen(kind Kind, b byte, from int) (*Program, error) {
	end, err := p.EndFrom(from)
	if err != nil {
		return nil, err
	}
	if end-from+2 > MaxNodes {
		return nil, &Error{Kind: AllocationFailure, Message: "synthesized program too large", Pos: from}
	}
	nodes := make([]Node, 0, end-from+2)
	nodes = append(nodes, Node{Kind: kind, Literal: []byte{b}})
	nodes = append(nodes, p.nodes[from:end+1]...)
	return p.synthesize(nodes)
}
