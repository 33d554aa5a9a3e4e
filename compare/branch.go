package compare

import (
	"github.com/coregx/recompare/node"
)

// branchEnd follows the chain of alternatives starting at the Branch at
// index at and returns the index of the continuation.
func branchEnd(p *node.Program, at int) (int, error) {
	i := at
	for {
		n, err := p.At(i)
		if err != nil {
			return 0, err
		}
		if n.Kind != node.Branch {
			return i, nil
		}
		if n.Next == 0 {
			return 0, node.Malformed(i, "alternative without successor")
		}
		if i, err = p.Next(i); err != nil {
			return 0, err
		}
	}
}

// leftBranch requires every left alternative to be contained in the right
// remainder.
func leftBranch(c *comparator, anchored bool, l, r *node.Cursor) (bool, error) {
	p := l.Program()
	i := l.Pos()
	for {
		n, err := p.At(i)
		if err != nil {
			return false, err
		}
		if n.Kind != node.Branch {
			break
		}
		if n.Next == 0 {
			return false, node.Malformed(i, "alternative without successor")
		}
		arm, err := l.Seek(i + 1)
		if err != nil {
			return false, err
		}
		rt := *r
		ok, err := c.compare(anchored, &arm, &rt)
		if err != nil {
			return false, err
		}
		if !ok {
			return mismatch(c, anchored, l, r)
		}
		if i, err = p.Next(i); err != nil {
			return false, err
		}
	}

	cont, err := l.Seek(i)
	if err != nil {
		return false, err
	}
	*l = cont
	return true, r.ToEnd()
}

// rightBranch succeeds as soon as one right alternative contains the left
// remainder.
func rightBranch(c *comparator, anchored bool, l, r *node.Cursor) (bool, error) {
	p := r.Program()
	i := r.Pos()
	for {
		n, err := p.At(i)
		if err != nil {
			return false, err
		}
		if n.Kind != node.Branch {
			break
		}
		if n.Next == 0 {
			return false, node.Malformed(i, "alternative without successor")
		}
		lt := *l
		arm, err := r.Seek(i + 1)
		if err != nil {
			return false, err
		}
		ok, err := c.compare(anchored, &lt, &arm)
		if err != nil {
			return false, err
		}
		if ok {
			*l, *r = lt, arm
			return true, nil
		}
		if i, err = p.Next(i); err != nil {
			return false, err
		}
	}
	return mismatch(c, anchored, l, r)
}

// classBranch splits a left class into one single-byte literal per member
// and requires each, followed by the rest of the left stream, to be
// accepted by the right alternation.
func classBranch(c *comparator, anchored bool, l, r *node.Cursor) (bool, error) {
	s, err := unitSetOf(*l)
	if err != nil {
		return false, err
	}
	if s.wide.form != wideNone {
		return mismatch(c, anchored, l, r)
	}
	if s.bytes.IsEmpty() {
		return false, node.Unsupported(l.Pos(), "empty class against alternation")
	}

	p := l.Program()
	tail, err := p.Next(l.Pos())
	if err != nil {
		return false, err
	}
	var last node.Cursor
	for _, b := range s.bytes.Members() {
		alt, err := c.synthesized(p.ByteThen(node.Exact, b, tail))
		if err != nil {
			return false, err
		}
		lt, err := l.Rebase(alt, 0)
		if err != nil {
			return false, err
		}
		rt := *r
		ok, err := rightBranch(c, anchored, &lt, &rt)
		if err != nil {
			return false, err
		}
		if !ok {
			return mismatch(c, anchored, l, r)
		}
		last = rt
	}

	lt, err := l.Seek(tail)
	if err != nil {
		return false, err
	}
	if err := lt.ToEnd(); err != nil {
		return false, err
	}
	*l, *r = lt, last
	return true, nil
}
