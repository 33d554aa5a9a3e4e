package node

// WordClass classifies the unit next to a word boundary.
type WordClass uint8

const (
	// WordUnknown means the unit may be either kind, or is not known at all.
	WordUnknown WordClass = iota

	// WordChar means the unit is always a word character.
	WordChar

	// NonWordChar means the unit is never a word character, or is the edge
	// of the input.
	NonWordChar
)

// Cursor is a position in a Program: a node index plus, for literal runs,
// the number of bytes already consumed. Cursors are plain values and are
// copied freely.
type Cursor struct {
	prog  *Program
	pos   int
	spent int

	// Before classifies the unit consumed just before this position.
	Before WordClass

	// AfterNewline is set when the unit consumed just before this position
	// was a newline, or when the position is a line start.
	AfterNewline bool
}

// Program returns the program the cursor walks.
func (c Cursor) Program() *Program {
	return c.prog
}

// Pos returns the current node index.
func (c Cursor) Pos() int {
	return c.pos
}

// Spent returns the number of literal bytes consumed in the current node.
func (c Cursor) Spent() int {
	return c.spent
}

// Node returns the current node.
func (c Cursor) Node() *Node {
	return &c.prog.nodes[c.pos]
}

// Kind returns the kind of the current node.
func (c Cursor) Kind() Kind {
	return c.prog.nodes[c.pos].Kind
}

// AtEnd reports whether the cursor is on the terminator.
func (c Cursor) AtEnd() bool {
	return c.Kind() == End
}

// Unit returns the literal unit under the cursor. It is only meaningful on
// literal runs.
func (c Cursor) Unit() (r rune, wide bool) {
	r, _, wide = Unit(c.Node().Literal, c.spent)
	return r, wide
}

// Advance moves the cursor past one unit: one character of a literal run,
// or the whole current node otherwise. It reports false, without moving,
// when the cursor is on End.
func (c *Cursor) Advance() (bool, error) {
	n := c.Node()
	if n.Kind == End {
		return false, nil
	}
	if n.Kind.IsLiteral() {
		if len(n.Literal) == 0 {
			return false, Malformed(c.pos, "empty literal")
		}
		c.spent += unitWidth(n.Literal, c.spent)
		if c.spent < len(n.Literal) {
			return true, nil
		}
	}
	j, err := c.prog.Next(c.pos)
	if err != nil {
		return false, err
	}
	c.pos = j
	c.spent = 0
	return true, nil
}

// Skip moves the cursor to the successor of the current node, discarding
// literal progress.
func (c *Cursor) Skip() error {
	j, err := c.prog.Next(c.pos)
	if err != nil {
		return err
	}
	c.pos = j
	c.spent = 0
	return nil
}

// Seek returns a copy of the cursor moved to node i of the same program.
// Literal progress is reset and the context of the previous unit is kept.
func (c Cursor) Seek(i int) (Cursor, error) {
	if _, err := c.prog.At(i); err != nil {
		return Cursor{}, err
	}
	c.pos = i
	c.spent = 0
	return c, nil
}

// Rebase returns a cursor at node i of another program, keeping the
// context of the previous unit.
func (c Cursor) Rebase(p *Program, i int) (Cursor, error) {
	nc, err := p.CursorAt(i)
	if err != nil {
		return Cursor{}, err
	}
	nc.Before = c.Before
	nc.AfterNewline = c.AfterNewline
	return nc, nil
}

// ToEnd moves the cursor to the End node reached from its position.
func (c *Cursor) ToEnd() error {
	e, err := c.prog.EndFrom(c.pos)
	if err != nil {
		return err
	}
	c.pos = e
	c.spent = 0
	return nil
}
