package compare

import "github.com/coregx/recompare/node"

// lookahead returns a cursor on the sub-program of the assertion under cur,
// carrying cur's context, and the continuation after it.
func (c *comparator) lookahead(cur node.Cursor) (sub, cont node.Cursor, err error) {
	n := cur.Node()
	p, err := c.synthesized(cur.Program().Terminated(cur.Pos()+1, n.Size-1))
	if err != nil {
		return sub, cont, err
	}
	if sub, err = cur.Rebase(p, 0); err != nil {
		return sub, cont, err
	}
	cont = cur
	err = cont.Skip()
	return sub, cont, err
}

// positiveAssertions pairs two positive lookaheads at the same position.
// Whatever satisfies the left one has a prefix the right one accepts.
func positiveAssertions(c *comparator, anchored bool, l, r *node.Cursor) (bool, error) {
	lsub, lcont, err := c.lookahead(*l)
	if err != nil {
		return false, err
	}
	rsub, rcont, err := c.lookahead(*r)
	if err != nil {
		return false, err
	}
	ok, err := c.compare(true, &lsub, &rsub)
	if err != nil {
		return false, err
	}
	if ok {
		if ok, err = c.compare(true, &lcont, &rcont); err != nil {
			return false, err
		}
	}
	if !ok {
		return mismatch(c, anchored, l, r)
	}
	*l, *r = lcont, rcont
	return true, nil
}

// negativeAssertions pairs two negative lookaheads. The right one excludes
// less when every string it excludes starts with one the left excludes, so
// the sub-programs are compared with their roles swapped.
func negativeAssertions(c *comparator, anchored bool, l, r *node.Cursor) (bool, error) {
	lsub, lcont, err := c.lookahead(*l)
	if err != nil {
		return false, err
	}
	rsub, rcont, err := c.lookahead(*r)
	if err != nil {
		return false, err
	}
	rsub, err = l.Rebase(rsub.Program(), 0)
	if err != nil {
		return false, err
	}
	ok, err := c.compare(true, &rsub, &lsub)
	if err != nil {
		return false, err
	}
	if ok {
		if ok, err = c.compare(true, &lcont, &rcont); err != nil {
			return false, err
		}
	}
	if !ok {
		return mismatch(c, anchored, l, r)
	}
	*l, *r = lcont, rcont
	return true, nil
}

// rightLookahead handles a right positive lookahead against a left node
// that is not an assertion: from the same position, the left remainder
// must satisfy both the lookahead and the right continuation.
func rightLookahead(c *comparator, anchored bool, l, r *node.Cursor) (bool, error) {
	rsub, rcont, err := c.lookahead(*r)
	if err != nil {
		return false, err
	}
	lt := *l
	ok, err := c.compare(true, &lt, &rsub)
	if err != nil {
		return false, err
	}
	if ok {
		lt = *l
		if ok, err = c.compare(true, &lt, &rcont); err != nil {
			return false, err
		}
	}
	if !ok {
		return mismatch(c, anchored, l, r)
	}
	return true, r.ToEnd()
}
