package compare

import (
	"github.com/coregx/recompare/node"
)

// maxUnroll bounds how far a left repeat with a finite range is unrolled
// before it is treated as unbounded.
const maxUnroll = 64

// counts returns the repeat range of the Star, Plus or Curly under cur.
func counts(cur node.Cursor) (lo, hi uint16) {
	n := cur.Node()
	switch n.Kind {
	case node.Star:
		return 0, node.Infinite
	case node.Plus:
		return 1, node.Infinite
	}
	return n.Min, n.Max
}

// bodyAndTail returns cursors at the body and at the tail of the repeat
// under cur. The body flows into the tail.
func bodyAndTail(cur node.Cursor) (body, tail node.Cursor, err error) {
	t, err := cur.Program().Next(cur.Pos())
	if err != nil {
		return body, tail, err
	}
	if body, err = cur.Seek(cur.Pos() + 1); err != nil {
		return body, tail, err
	}
	tail, err = cur.Seek(t)
	return body, tail, err
}

// simpleBody reports whether the body of the repeat under cur is a single
// node consuming exactly one unit.
func simpleBody(cur node.Cursor) (bool, error) {
	p := cur.Program()
	tail, err := p.Next(cur.Pos())
	if err != nil {
		return false, err
	}
	b, err := p.At(cur.Pos() + 1)
	if err != nil {
		return false, err
	}
	if !b.Kind.IsUnit() {
		return false, nil
	}
	if b.Kind.IsLiteral() {
		if _, w, _ := node.Unit(b.Literal, 0); w != len(b.Literal) {
			return false, nil
		}
	}
	after, err := p.Next(cur.Pos() + 1)
	if err != nil {
		return false, err
	}
	return after == tail, nil
}

// sameBody reports whether the repeats under l and r have node-for-node
// identical bodies.
func sameBody(l, r node.Cursor) (bool, error) {
	lp, rp := l.Program(), r.Program()
	lt, err := lp.Next(l.Pos())
	if err != nil {
		return false, err
	}
	rt, err := rp.Next(r.Pos())
	if err != nil {
		return false, err
	}
	if lt-l.Pos() != rt-r.Pos() {
		return false, nil
	}
	for i := 1; i < lt-l.Pos(); i++ {
		a, err := lp.At(l.Pos() + i)
		if err != nil {
			return false, err
		}
		b, err := rp.At(r.Pos() + i)
		if err != nil {
			return false, err
		}
		if !a.Equal(b) {
			return false, nil
		}
	}
	return true, nil
}

// atJumpEnd reports whether nothing but trivial markers follows the
// composite under cur.
func atJumpEnd(cur node.Cursor) (bool, error) {
	p := cur.Program()
	q, err := p.JumpTarget(cur.Pos())
	if err != nil {
		return false, err
	}
	n, err := p.At(q)
	if err != nil {
		return false, err
	}
	return n.Kind == node.End, nil
}

func forget(cur *node.Cursor) {
	cur.Before, cur.AfterNewline = node.WordUnknown, false
}

// throughBody consumes the left unit under l if it lies inside the simple
// body of a right repeat, returning the advanced cursor.
func (c *comparator) throughBody(l node.Cursor, body node.Cursor) (node.Cursor, bool, error) {
	if !l.Kind().IsUnit() {
		return l, false, nil
	}
	ls, err := unitSetOf(l)
	if err != nil {
		return l, false, err
	}
	bs, err := unitSetOf(body)
	if err != nil {
		return l, false, err
	}
	ok, err := ls.subsetOf(bs)
	if err != nil || !ok {
		return l, false, err
	}
	ok, err = c.step(&l)
	return l, ok, err
}

// zeroOrMore proves the left remainder against a right Y* (or any repeat
// read as Y*): either the tail alone matches, or one left unit is an
// instance of Y and the rest recurses against the same repeat, or one
// instance of Y followed by the tail matches.
func zeroOrMore(c *comparator, anchored bool, l, r *node.Cursor) (bool, error) {
	body, tail, err := bodyAndTail(*r)
	if err != nil {
		return false, err
	}
	lt := *l
	if ok, err := c.compare(anchored, &lt, &tail); err != nil || ok {
		return ok, err
	}
	return oneOrMore(c, anchored, l, r, body)
}

// oneOrMore proves the left remainder against one instance of the body
// followed by zero or more.
func oneOrMore(c *comparator, anchored bool, l, r *node.Cursor, body node.Cursor) (bool, error) {
	simple, err := simpleBody(*r)
	if err != nil {
		return false, err
	}
	if simple {
		lt, ok, err := c.throughBody(*l, body)
		if err != nil {
			return false, err
		}
		if ok {
			rt := *r
			if ok, err = zeroOrMore(c, true, &lt, &rt); err != nil || ok {
				return ok, err
			}
		}
	}
	lt := *l
	return c.compare(anchored, &lt, &body)
}

// rightStar handles a right Y*.
func rightStar(c *comparator, anchored bool, l, r *node.Cursor) (bool, error) {
	ok, err := zeroOrMore(c, anchored, l, r)
	if err != nil {
		return false, err
	}
	if !ok {
		return mismatch(c, anchored, l, r)
	}
	return true, r.ToEnd()
}

// rightPlus handles a right Y+.
func rightPlus(c *comparator, anchored bool, l, r *node.Cursor) (bool, error) {
	body, _, err := bodyAndTail(*r)
	if err != nil {
		return false, err
	}
	ok, err := oneOrMore(c, anchored, l, r, body)
	if err != nil {
		return false, err
	}
	if !ok {
		return mismatch(c, anchored, l, r)
	}
	return true, r.ToEnd()
}

// rightCurly handles a right Y{n,m}. A required instance is matched by
// unrolling one copy of the body in front of the repeat with both counts
// lowered, so every recursion strictly decreases a counter; {0,inf} is
// read as Y*.
func rightCurly(c *comparator, anchored bool, l, r *node.Cursor) (bool, error) {
	n := r.Node()
	if n.Min == 0 && n.Max == node.Infinite {
		return rightStar(c, anchored, l, r)
	}
	if n.Min == 0 {
		_, tail, err := bodyAndTail(*r)
		if err != nil {
			return false, err
		}
		lt := *l
		ok, err := c.compare(anchored, &lt, &tail)
		if err != nil || ok || n.Max == 0 {
			return ok, err
		}
	}
	alt, err := c.synthesized(r.Program().Unrolled(r.Pos()))
	if err != nil {
		return false, err
	}
	rt, err := r.Rebase(alt, 0)
	if err != nil {
		return false, err
	}
	ok, err := c.compare(anchored, l, &rt)
	if err != nil || !ok {
		return false, err
	}
	return true, r.ToEnd()
}

// leftRepeat handles a left X{lo,hi} followed by a continuation C.
//
// Unanchored, any match of the repeat ends with one instance of X followed
// by C, so that instance is compared alone. Anchored, it is enough that the
// first instance of X starts with a right match. Otherwise a small range is
// unrolled, and a large one is compared as one instance of X followed by C,
// which holds for every count once X followed by C always starts with a
// match of C.
func leftRepeat(c *comparator, anchored bool, l, r *node.Cursor) (bool, error) {
	lo, hi := counts(*l)
	body, tail, err := bodyAndTail(*l)
	if err != nil {
		return false, err
	}
	if !anchored {
		if lo == 0 {
			return mismatch(c, false, l, r)
		}
		if hi != 1 {
			forget(&body)
		}
		return c.compare(false, &body, r)
	}

	if hi == 0 {
		return c.compare(true, &tail, r)
	}
	if lo == 0 {
		tt, rt := tail, *r
		if ok, err := c.compare(true, &tt, &rt); err != nil || !ok {
			return false, err
		}
	}
	first, err := c.synthesized(l.Program().TruncatedAt(l.Pos()+1, tail.Pos()))
	if err != nil {
		return false, err
	}
	ft, err := l.Rebase(first, 0)
	if err != nil {
		return false, err
	}
	rt := *r
	if ok, err := c.compare(true, &ft, &rt); err != nil || ok {
		return ok, err
	}
	if hi == 1 {
		return c.compare(true, &body, r)
	}
	if l.Kind().IsCurly() && ((hi != node.Infinite && hi <= maxUnroll) || (lo > 1 && lo <= maxUnroll)) {
		alt, err := c.synthesized(l.Program().Unrolled(l.Pos()))
		if err != nil {
			return false, err
		}
		lt, err := l.Rebase(alt, 0)
		if err != nil {
			return false, err
		}
		return c.compare(true, &lt, r)
	}

	more, cont := body, tail
	forget(&more)
	if ok, err := c.compare(true, &more, &cont); err != nil || !ok {
		return false, err
	}
	return c.compare(true, &body, r)
}

// repeats handles a left repeat against a right repeat. When the bodies
// align instance for instance and the counts fit, only the continuations
// remain to compare. Otherwise the right repeat is skipped if it may match
// nothing, and finally the left repeat is reasoned about on its own.
func repeats(c *comparator, anchored bool, l, r *node.Cursor) (bool, error) {
	ok, err := alignedRepeats(c, *l, *r)
	if err != nil || ok {
		return ok, err
	}
	if rlo, _ := counts(*r); rlo == 0 {
		if ok, err = next(c, anchored, l, r); err != nil || ok {
			return ok, err
		}
	}
	return leftRepeat(c, anchored, l, r)
}

func alignedRepeats(c *comparator, l, r node.Cursor) (bool, error) {
	llo, lhi := counts(l)
	rlo, rhi := counts(r)
	// A longer right minimum made of a shorter body, as in (?:aa){1,}
	// against a{2,}, is not recognized.
	if rlo > llo {
		return false, nil
	}
	if lhi > rhi {
		end, err := atJumpEnd(r)
		if err != nil || !end {
			return false, err
		}
	}

	contained := false
	ls, err := simpleBody(l)
	if err != nil {
		return false, err
	}
	rs, err := simpleBody(r)
	if err != nil {
		return false, err
	}
	lb, lt, err := bodyAndTail(l)
	if err != nil {
		return false, err
	}
	rb, rt, err := bodyAndTail(r)
	if err != nil {
		return false, err
	}
	if ls && rs {
		lset, err := unitSetOf(lb)
		if err != nil {
			return false, err
		}
		rset, err := unitSetOf(rb)
		if err != nil {
			return false, err
		}
		if contained, err = lset.subsetOf(rset); err != nil {
			return false, err
		}
	}
	if !contained {
		if contained, err = sameBody(l, r); err != nil || !contained {
			return false, err
		}
	}
	if lhi > 0 {
		forget(&lt)
	}
	return c.compare(true, &lt, &rt)
}
