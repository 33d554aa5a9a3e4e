package node

import (
	"testing"
)

func TestCursor_AdvanceLiteral(t *testing.T) {
	// "aé\xff" then a digit: three units in the literal.
	p := seq(t,
		Node{Kind: Exact, Literal: []byte("aé\xff")},
		Node{Kind: Digit},
		Node{Kind: End},
	)
	c := p.Start()

	wantUnits := []struct {
		r    rune
		wide bool
	}{
		{'a', false},
		{'é', true},
		{0xFF, false},
	}
	for i, want := range wantUnits {
		if c.Pos() != 0 {
			t.Fatalf("unit %d: Pos() = %d, want 0", i, c.Pos())
		}
		r, wide := c.Unit()
		if r != want.r || wide != want.wide {
			t.Errorf("unit %d: Unit() = (%q, %v), want (%q, %v)", i, r, wide, want.r, want.wide)
		}
		ok, err := c.Advance()
		if err != nil || !ok {
			t.Fatalf("unit %d: Advance() = (%v, %v)", i, ok, err)
		}
	}
	if c.Pos() != 1 || c.Spent() != 0 {
		t.Errorf("after literal: Pos()=%d Spent()=%d, want 1, 0", c.Pos(), c.Spent())
	}
	if c.Kind() != Digit {
		t.Errorf("Kind() = %v, want Digit", c.Kind())
	}

	if ok, _ := c.Advance(); !ok {
		t.Fatal("Advance past digit failed")
	}
	if !c.AtEnd() {
		t.Fatalf("AtEnd() = false at %v", c.Kind())
	}
	if ok, err := c.Advance(); ok || err != nil {
		t.Errorf("Advance at End = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestCursor_SkipAndSeek(t *testing.T) {
	p := seq(t,
		Node{Kind: Exact, Literal: []byte("abc")},
		Node{Kind: Digit},
		Node{Kind: End},
	)
	c := p.Start()
	c.Before = WordChar
	c.AfterNewline = true
	if _, err := c.Advance(); err != nil {
		t.Fatal(err)
	}
	if err := c.Skip(); err != nil {
		t.Fatal(err)
	}
	if c.Pos() != 1 || c.Spent() != 0 {
		t.Errorf("Skip: Pos()=%d Spent()=%d, want 1, 0", c.Pos(), c.Spent())
	}

	s, err := c.Seek(0)
	if err != nil {
		t.Fatal(err)
	}
	if s.Pos() != 0 || s.Before != WordChar || !s.AfterNewline {
		t.Errorf("Seek lost position or context: %+v", s)
	}
	if c.Pos() != 1 {
		t.Errorf("Seek moved the original cursor to %d", c.Pos())
	}
	if _, err := c.Seek(3); err == nil {
		t.Error("Seek(3) succeeded on a 3-node program")
	}
}

func TestCursor_Rebase(t *testing.T) {
	a := seq(t, Node{Kind: Digit}, Node{Kind: End})
	b := seq(t, Node{Kind: Space}, Node{Kind: Alnum}, Node{Kind: End})

	c := a.Start()
	c.Before = NonWordChar
	r, err := c.Rebase(b, 1)
	if err != nil {
		t.Fatal(err)
	}
	if r.Program() != b || r.Pos() != 1 || r.Kind() != Alnum {
		t.Errorf("Rebase landed at %v/%d", r.Kind(), r.Pos())
	}
	if r.Before != NonWordChar {
		t.Errorf("Rebase Before = %v, want NonWordChar", r.Before)
	}
	if _, err := c.Rebase(b, 9); err == nil {
		t.Error("Rebase out of range succeeded")
	}
}

func TestCursor_ToEnd(t *testing.T) {
	p := seq(t,
		Node{Kind: Star, Next: 2},
		Node{Kind: Digit},
		Node{Kind: Exact, Literal: []byte("x")},
		Node{Kind: End},
	)
	c := p.Start()
	if err := c.ToEnd(); err != nil {
		t.Fatal(err)
	}
	if c.Pos() != 3 || !c.AtEnd() {
		t.Errorf("ToEnd landed at %d (%v)", c.Pos(), c.Kind())
	}
}
