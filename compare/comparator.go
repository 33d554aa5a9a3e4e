// Package compare decides, structurally, whether every string matched by one
// compiled pattern is also matched by another.
//
// The comparator walks both node streams in lock step. At each step the
// kinds under the two cursors select a handler (see dispatch), which either
// consumes matching constructs from both sides, skips a zero-width node, or
// gives up on the current alignment. In unanchored mode a failed alignment
// is retried with the left stream advanced by one unit, since the left
// pattern may match anywhere inside a string the right one accepts.
//
// A positive answer is a proof; a negative one only means no proof was
// found.
package compare

import (
	"go.uber.org/zap"

	"github.com/coregx/recompare/node"
)

// DefaultMaxDepth bounds the recursion of a single comparison.
const DefaultMaxDepth = 10000

// Options configures a comparison.
type Options struct {
	// MaxDepth bounds the nesting of recursive steps. Zero selects
	// DefaultMaxDepth.
	MaxDepth int

	// MaxSynthesizedNodes caps the size of programs synthesized while
	// unrolling repeats and materializing classes. Zero selects
	// node.MaxNodes.
	MaxSynthesizedNodes int

	// Logger receives per-step debug records. Nil disables logging.
	Logger *zap.Logger
}

// handler compares the constructs under l and r. On success both cursors
// may have been advanced past what was consumed; on failure their contents
// are unspecified.
type handler func(c *comparator, anchored bool, l, r *node.Cursor) (bool, error)

type comparator struct {
	maxDepth int
	maxNodes int
	depth    int
	logger   *zap.Logger
}

// Contained reports whether the language of a is a subset of the language
// of b. A false result with a nil error means containment could not be
// established.
func Contained(a, b *node.Program, opts Options) (bool, error) {
	c := &comparator{
		maxDepth: opts.MaxDepth,
		maxNodes: opts.MaxSynthesizedNodes,
		logger:   opts.Logger,
	}
	if c.maxDepth <= 0 {
		c.maxDepth = DefaultMaxDepth
	}
	if c.maxNodes <= 0 {
		c.maxNodes = node.MaxNodes
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	l, r := a.Start(), b.Start()
	return c.compare(false, &l, &r)
}

// compare dispatches on the kinds under both cursors.
func (c *comparator) compare(anchored bool, l, r *node.Cursor) (bool, error) {
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > c.maxDepth {
		return false, node.Unsupported(l.Pos(), "comparison nested deeper than %d", c.maxDepth)
	}

	lk, rk := l.Kind(), r.Kind()
	if !lk.Valid() {
		return false, node.Unsupported(l.Pos(), "left node kind %s", lk)
	}
	if !rk.Valid() {
		return false, node.Unsupported(r.Pos(), "right node kind %s", rk)
	}
	if ce := c.logger.Check(zap.DebugLevel, "compare step"); ce != nil {
		ce.Write(
			zap.Stringer("left", lk),
			zap.Int("leftPos", l.Pos()),
			zap.Stringer("right", rk),
			zap.Int("rightPos", r.Pos()),
			zap.Bool("anchored", anchored),
			zap.Int("depth", c.depth),
		)
	}
	return dispatch(lk, rk)(c, anchored, l, r)
}

// synthesized enforces the size cap on a freshly synthesized program.
func (c *comparator) synthesized(p *node.Program, err error) (*node.Program, error) {
	if err != nil {
		return nil, err
	}
	if p.Len() > c.maxNodes {
		return nil, &node.Error{
			Kind:    node.AllocationFailure,
			Message: "synthesized program exceeds node cap",
			Pos:     -1,
		}
	}
	return p, nil
}

// step advances a cursor by one unit and records what it consumed: a word
// character or not, a newline or not. It reports false on End.
func (c *comparator) step(cur *node.Cursor) (bool, error) {
	before, nl := cur.Before, cur.AfterNewline
	k := cur.Kind()
	switch {
	case k.IsUnit():
		s, err := unitSetOf(*cur)
		if err != nil {
			return false, err
		}
		before, nl = s.wordClass(), s.newlineOnly()
	case k.IsStartAnchor():
		before, nl = node.NonWordChar, true
	case k == node.Branch:
		// The successor of a Branch is its next arm; stepping over the
		// alternation means going to its continuation.
		cont, err := branchEnd(cur.Program(), cur.Pos())
		if err != nil {
			return false, err
		}
		if *cur, err = cur.Seek(cont); err != nil {
			return false, err
		}
		cur.Before, cur.AfterNewline = node.WordUnknown, false
		return true, nil
	case k.IsPassthrough(), k == node.Open, k.IsBoundary(), k.IsEndAnchor(), k.IsAssertion():
	default:
		before, nl = node.WordUnknown, false
	}
	ok, err := cur.Advance()
	if err != nil || !ok {
		return false, err
	}
	cur.Before, cur.AfterNewline = before, nl
	return true, nil
}

func success(*comparator, bool, *node.Cursor, *node.Cursor) (bool, error) {
	return true, nil
}

func never(*comparator, bool, *node.Cursor, *node.Cursor) (bool, error) {
	return false, nil
}

// mismatch gives up on the current alignment. Unanchored, it drops one left
// unit and retries against the same right position.
func mismatch(c *comparator, anchored bool, l, r *node.Cursor) (bool, error) {
	if anchored {
		return false, nil
	}
	ok, err := c.step(l)
	if err != nil || !ok {
		return false, err
	}
	return c.compare(false, l, r)
}

// tails consumes one unit on each side and requires the remainders to
// match immediately.
func tails(c *comparator, anchored bool, l, r *node.Cursor) (bool, error) {
	lt, rt := *l, *r
	if ok, err := c.step(&lt); err != nil || !ok {
		return false, err
	}
	if ok, err := c.step(&rt); err != nil || !ok {
		return false, err
	}
	ok, err := c.compare(true, &lt, &rt)
	if err != nil {
		return false, err
	}
	if !ok {
		return mismatch(c, anchored, l, r)
	}
	*l, *r = lt, rt
	return true, nil
}

// leftTail skips a zero-width left node.
func leftTail(c *comparator, anchored bool, l, r *node.Cursor) (bool, error) {
	lt := *l
	if ok, err := c.step(&lt); err != nil || !ok {
		return false, err
	}
	return c.compare(anchored, &lt, r)
}

// next skips a zero-width right node.
func next(c *comparator, anchored bool, l, r *node.Cursor) (bool, error) {
	rt := *r
	if ok, err := c.step(&rt); err != nil || !ok {
		return false, err
	}
	return c.compare(anchored, l, &rt)
}

// afterAssertion drops a left lookahead, which only narrows the left
// language.
func afterAssertion(c *comparator, anchored bool, l, r *node.Cursor) (bool, error) {
	lt := *l
	if err := lt.Skip(); err != nil {
		return false, err
	}
	return c.compare(anchored, &lt, r)
}

// bol handles a left start anchor against a right node that needs input.
// The anchor only holds at the start of a match, so the right side must
// match from there.
func bol(c *comparator, anchored bool, l, r *node.Cursor) (bool, error) {
	if anchored {
		return false, nil
	}
	if ok, err := c.step(l); err != nil || !ok {
		return false, err
	}
	lt, rt := *l, *r
	ok, err := c.compare(true, &lt, &rt)
	if err != nil {
		return false, err
	}
	if !ok {
		return mismatch(c, false, l, r)
	}
	*l, *r = lt, rt
	return true, nil
}

// satisfied skips a zero-width right node whose condition is known to hold
// at the current left position. The rest must match from exactly here.
func satisfied(c *comparator, anchored bool, l, r *node.Cursor) (bool, error) {
	lt, rt := *l, *r
	if ok, err := c.step(&rt); err != nil || !ok {
		return false, err
	}
	ok, err := c.compare(true, &lt, &rt)
	if err != nil {
		return false, err
	}
	if !ok {
		return mismatch(c, anchored, l, r)
	}
	*l, *r = lt, rt
	return true, nil
}
