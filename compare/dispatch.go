package compare

import "github.com/coregx/recompare/node"

// dispatch selects the handler for a (left, right) kind pair. Both kinds
// must be valid. Pairs no rule names can never be proven and yield never.
func dispatch(lk, rk node.Kind) handler {
	// Right nodes that constrain nothing.
	switch rk {
	case node.End:
		return success
	case node.Succeed:
		if lk == node.Succeed {
			return tails
		}
		return next
	case node.Nothing, node.Tail, node.WhileM, node.MinMod, node.Optimized, node.Close:
		if lk.IsPassthrough() {
			return tails
		}
		return next
	case node.Open:
		if lk == node.Open {
			return tails
		}
		return next
	}

	// Left nodes that constrain nothing, or only narrow the left language.
	switch {
	case lk.IsPassthrough(), lk == node.Open:
		return leftTail
	case lk.IsAssertion():
		return leftAssertionRule(lk, rk)
	case lk == node.End:
		return exhaustedRule(rk)
	}

	switch {
	case rk == node.Branch:
		return branchRule(lk)
	case rk == node.Star:
		return starRule(lk)
	case rk == node.Plus:
		return plusRule(lk)
	case rk.IsCurly():
		return curlyRule(lk)
	case rk.IsAssertion():
		return rightAssertionRule(lk, rk)
	}

	if h, ok := leftCompositeRule(lk); ok {
		return h
	}

	switch {
	case rk.IsStartAnchor():
		return startAnchorRule(lk, rk)
	case rk.IsEndAnchor():
		return endAnchorRule(lk, rk)
	case rk.IsBoundary():
		return boundaryRule(lk, rk)
	case rk.IsUnit():
		return unitRule(lk)
	}
	return never
}

func leftAssertionRule(lk, rk node.Kind) handler {
	if !rk.IsAssertion() {
		return afterAssertion
	}
	switch {
	case lk == node.IfMatch && rk == node.IfMatch:
		return positiveAssertions
	case lk == node.UnlessM && rk == node.UnlessM:
		return negativeAssertions
	}
	return mismatch
}

// exhaustedRule handles a left stream with nothing left to match: only a
// right construct that may match the empty string can still succeed.
func exhaustedRule(rk node.Kind) handler {
	switch {
	case rk == node.Branch:
		return rightBranch
	case rk == node.Star:
		return rightStar
	case rk == node.Plus:
		return rightPlus
	case rk.IsCurly():
		return rightCurly
	}
	return never
}

func rightAssertionRule(lk, rk node.Kind) handler {
	switch {
	case lk.IsStartAnchor():
		return bol
	case rk == node.IfMatch:
		return rightLookahead
	}
	return mismatch
}

func branchRule(lk node.Kind) handler {
	switch lk {
	case node.Branch:
		return leftBranch
	case node.AnyOf:
		return classBranch
	}
	return rightBranch
}

func starRule(lk node.Kind) handler {
	switch {
	case lk.IsEndAnchor():
		return tails
	case lk == node.Branch:
		return leftBranch
	case lk.IsRepeat():
		return repeats
	}
	return rightStar
}

func plusRule(lk node.Kind) handler {
	switch {
	case lk == node.Branch:
		return leftBranch
	case lk.IsRepeat():
		return repeats
	}
	return rightPlus
}

func curlyRule(lk node.Kind) handler {
	switch {
	case lk == node.Branch:
		return leftBranch
	case lk.IsRepeat():
		return repeats
	}
	return rightCurly
}

// leftCompositeRule covers a left alternation or repeat against a right
// anchor, boundary or unit.
func leftCompositeRule(lk node.Kind) (handler, bool) {
	switch {
	case lk == node.Branch:
		return leftBranch, true
	case lk.IsRepeat():
		return leftRepeat, true
	}
	return nil, false
}

func startAnchorRule(lk, rk node.Kind) handler {
	switch rk {
	case node.Bol, node.SBol:
		if lk == node.Bol || lk == node.SBol {
			return tails
		}
	case node.MBol:
		switch {
		case lk.IsStartAnchor():
			return tails
		case lk.IsUnit():
			return multilineStart
		}
	}
	return never
}

func endAnchorRule(lk, rk node.Kind) handler {
	switch rk {
	case node.Eos:
		switch {
		case lk == node.Eos:
			return tails
		case lk == node.Eol, lk == node.SEol, lk.IsUnit():
			return mismatch
		}
	case node.Eol, node.SEol:
		switch {
		case lk == node.Eos, lk == node.Eol, lk == node.SEol:
			return tails
		case lk.IsUnit():
			return mismatch
		}
	case node.MEol:
		switch {
		case lk.IsEndAnchor():
			return tails
		case lk.IsUnit():
			return multilineEnd
		}
	}
	if lk.IsStartAnchor() {
		return bol
	}
	return never
}

func boundaryRule(lk, rk node.Kind) handler {
	switch {
	case lk.IsStartAnchor():
		return bol
	case lk == rk:
		return tails
	case lk.IsBoundary():
		return mismatch
	case lk.IsUnit(), lk.IsEndAnchor():
		return boundary
	}
	return never
}

func unitRule(lk node.Kind) handler {
	switch {
	case lk.IsStartAnchor():
		return bol
	case lk.IsBoundary():
		return mismatch
	case lk.IsUnit():
		return units
	}
	return never
}
