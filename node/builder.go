package node

import "fmt"

// Builder constructs programs incrementally using a low-level API.
// Nodes are appended in stream order; forward jumps are filled in with Patch
// once their target index is known.
type Builder struct {
	nodes  []Node
	source string
}

// NewBuilder creates a new program builder with default capacity
func NewBuilder() *Builder {
	return NewBuilderWithCapacity(16)
}

// NewBuilderWithCapacity creates a new program builder with specified initial capacity
func NewBuilderWithCapacity(capacity int) *Builder {
	return &Builder{nodes: make([]Node, 0, capacity)}
}

// SetSource records the pattern text the program is built from.
func (b *Builder) SetSource(source string) {
	b.source = source
}

// Len returns the number of nodes added so far, which is also the index
// the next node will get.
func (b *Builder) Len() int {
	return len(b.nodes)
}

// Add appends n and returns its index.
func (b *Builder) Add(n Node) int {
	id := len(b.nodes)
	b.nodes = append(b.nodes, n)
	return id
}

// AddKind appends a node without payload, such as an anchor or a marker.
func (b *Builder) AddKind(k Kind) int {
	return b.Add(Node{Kind: k})
}

// AddEnd appends the terminator.
func (b *Builder) AddEnd() int {
	return b.AddKind(End)
}

// AddLiteral appends a literal run of kind Exact, ExactF or ExactFU.
// The bytes are copied.
func (b *Builder) AddLiteral(k Kind, lit []byte) int {
	cp := make([]byte, len(lit))
	copy(cp, lit)
	return b.Add(Node{Kind: k, Literal: cp})
}

// AddClass appends a bitmap class.
func (b *Builder) AddClass(bm Bitmap, flags ClassFlags, wide *Descriptor) int {
	return b.Add(Node{Kind: AnyOf, Bitmap: bm, Flags: flags, Wide: wide})
}

// AddBranch appends an alternation arm. Its advance must be patched to the
// next arm, or to the continuation for the last arm.
func (b *Builder) AddBranch() int {
	return b.AddKind(Branch)
}

// AddRepeat appends a repeat of kind Star, Plus or a Curly variant. The body
// follows it; its advance must be patched to the tail.
func (b *Builder) AddRepeat(k Kind, min, max uint16) int {
	return b.Add(Node{Kind: k, Min: min, Max: max})
}

// AddGroup appends an Open or Close marker for capture group index.
func (b *Builder) AddGroup(k Kind, index int) int {
	return b.Add(Node{Kind: k, Group: index})
}

// AddAssertion appends an IfMatch or UnlessM node. The sub-program follows
// it and must end with a trivial marker; PatchSize sets its extent.
func (b *Builder) AddAssertion(k Kind) int {
	return b.AddKind(k)
}

// Patch sets the advance of node id so that it leads to target.
func (b *Builder) Patch(id, target int) error {
	if id < 0 || id >= len(b.nodes) {
		return fmt.Errorf("invalid node index %d", id)
	}
	if target <= id {
		return fmt.Errorf("node %d: target %d is not forward", id, target)
	}
	b.nodes[id].Next = target - id
	return nil
}

// PatchSize sets the extent of the assertion at id so that its continuation
// is target.
func (b *Builder) PatchSize(id, target int) error {
	if err := b.Patch(id, target); err != nil {
		return err
	}
	b.nodes[id].Size = target - id
	return nil
}

// Build validates the nodes and returns the program.
func (b *Builder) Build() (*Program, error) {
	p, err := NewProgram(b.nodes, b.source)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
