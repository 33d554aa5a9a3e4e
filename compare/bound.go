package compare

import "github.com/coregx/recompare/node"

// boundary handles a left unit or end anchor against a right word or
// non-word boundary. The boundary is decided by the unit consumed before
// the left position and the one about to be consumed; when either is not
// known to be a word character or not, nothing is proven.
func boundary(c *comparator, anchored bool, l, r *node.Cursor) (bool, error) {
	after := node.NonWordChar
	if l.Kind().IsUnit() {
		s, err := unitSetOf(*l)
		if err != nil {
			return false, err
		}
		after = s.wordClass()
	}
	before := l.Before
	if before == node.WordUnknown || after == node.WordUnknown {
		return mismatch(c, anchored, l, r)
	}
	if (before != after) != (r.Kind() == node.Bound) {
		return mismatch(c, anchored, l, r)
	}
	return satisfied(c, anchored, l, r)
}
