package charclass

import (
	"errors"
	"sync"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/recompare/node"
)

func TestBuiltins(t *testing.T) {
	r := Builtins()
	tests := []struct {
		name  string
		class *ByteClass
		in    string
		out   string
	}{
		{"digit", r.Digit, "0189", "a/:"},
		{"whitespace", r.Whitespace, " \t\n\r\f", "\va_"},
		{"word", r.Word, "azAZ09_", "-. \x80"},
		{"hex", r.HexDigit, "09afAF", "gG"},
		{"hspace", r.HSpace, " \t", "\n"},
		{"vspace", r.VSpace, "\n\v\f\r", " \t"},
		{"newline", r.Newline, "\n", "\r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bm := tt.class.Bitmap()
			nbm := tt.class.Complement()
			for i := 0; i < len(tt.in); i++ {
				b := tt.in[i]
				assert.True(t, tt.class.Contains(b), "Contains(%q)", b)
				assert.True(t, bm.Has(b), "bitmap has %q", b)
				assert.False(t, nbm.Has(b), "complement has %q", b)
			}
			for i := 0; i < len(tt.out); i++ {
				b := tt.out[i]
				assert.True(t, tt.class.Excludes(b), "Excludes(%q)", b)
				assert.True(t, nbm.Has(b), "complement lacks %q", b)
			}
			assert.Equal(t, bm.Count(), len(tt.class.Members()))
		})
	}
}

func TestBuiltins_Once(t *testing.T) {
	var wg sync.WaitGroup
	got := make([]*Registry, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = Builtins()
		}(i)
	}
	wg.Wait()
	for _, r := range got {
		assert.Same(t, got[0], r)
	}
}

func TestShorthand(t *testing.T) {
	tests := []struct {
		kind    node.Kind
		class   *ByteClass
		negated bool
	}{
		{node.Alnum, Builtins().Word, false},
		{node.NAlnum, Builtins().Word, true},
		{node.Space, Builtins().Whitespace, false},
		{node.NDigit, Builtins().Digit, true},
		{node.HSpace, Builtins().HSpace, false},
		{node.NVSpace, Builtins().VSpace, true},
	}
	for _, tt := range tests {
		c, neg := Shorthand(tt.kind)
		assert.Same(t, tt.class, c, "Shorthand(%v)", tt.kind)
		assert.Equal(t, tt.negated, neg, "Shorthand(%v) negated", tt.kind)
	}
	c, _ := Shorthand(node.Exact)
	assert.Nil(t, c)
}

func TestClose(t *testing.T) {
	tests := []struct {
		name string
		in   Mask
		want Mask
	}{
		{"alnum implies parts", Alnum, Alnum | Alpha | Numeric | HexDigit | Upper | Lower},
		{"alpha implies cases", Alpha, Alpha | Upper | Lower},
		{"space implies parts", Space, Space | HSpace | VSpace},
		{"parts make space", HSpace | VSpace, Space | HSpace | VSpace},
		{"parts make alnum", Alpha | Numeric, Alnum | Alpha | Numeric | HexDigit | Upper | Lower},
		{"category and complement", Upper | Not(Upper), Every},
		{"zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Close(tt.in), "Close(%v)", tt.in)
		})
	}
}

func TestClose_Mirrored(t *testing.T) {
	// Every non-letter includes every non-alphanumeric, hence all spaces,
	// and every digit.
	got := Close(Not(Alpha))
	assert.NotZero(t, got&Not(Alnum))
	assert.NotZero(t, got&Numeric)
	assert.NotZero(t, got&Space)
	assert.Zero(t, got&Not(Upper), "lowercase letters are not non-letters")
}

func TestCovers(t *testing.T) {
	assert.True(t, Covers(Close(Alnum), Close(Alpha)))
	assert.False(t, Covers(Close(Alpha), Close(Alnum)))
	assert.True(t, Covers(Every, Close(Space)))
	assert.True(t, Covers(Close(Space), 0))
}

func TestMask_String(t *testing.T) {
	assert.Equal(t, "none", Mask(0).String())
	assert.Equal(t, "Upper|!Space", (Upper | Not(Space)).String())
}

func TestResolve(t *testing.T) {
	letters := tableSpans(unicode.L)
	tests := []struct {
		name   string
		desc   *node.Descriptor
		invert bool
		want   Mask
		ok     bool
	}{
		{"nil", nil, false, 0, true},
		{"nil inverted", nil, true, Every, true},
		{"text", &node.Descriptor{Text: "+utf8::IsAlpha\n"}, false, Close(Alpha), true},
		{"text without newline", &node.Descriptor{Text: "+utf8::IsDigit"}, false, Close(Numeric), true},
		{"text union", &node.Descriptor{Text: "+utf8::IsHorizSpace\n+utf8::IsVertSpace\n"}, false, Close(Space), true},
		{"text complement", &node.Descriptor{Text: "!utf8::IsSpace\n"}, false, Close(Not(Space)), true},
		{"text inverted", &node.Descriptor{Text: "+utf8::IsLower\n"}, true, Close(Not(Lower)), true},
		{"text unknown token", &node.Descriptor{Text: "+utf8::InGreek\n"}, false, 0, false},
		{"text mixed unknown", &node.Descriptor{Text: "+utf8::IsAlpha\n+main::Custom\n"}, false, 0, false},
		{"text unsigned", &node.Descriptor{Text: "utf8::IsAlpha\n"}, false, 0, false},
		{"ranges letters", &node.Descriptor{Ranges: letters}, false, Close(Alpha), true},
		{"ranges letters inverted", &node.Descriptor{Ranges: letters}, true, Close(Not(Alpha)), true},
		{"ranges everything", &node.Descriptor{Ranges: []node.Span{{Lo: 0x80, Hi: unicode.MaxRune}}}, false, Every, true},
		{"ranges arbitrary", &node.Descriptor{Ranges: []node.Span{{Lo: 0x100, Hi: 0x17F}}}, false, 0, false},
		{"posix digit", &node.Descriptor{Posix: 1 << 4}, false, Close(Numeric), true},
		{"posix not space", &node.Descriptor{Posix: 1 << 3}, false, Close(Not(Space)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := Resolve(tt.desc, tt.invert)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got, "got %v want %v", got, tt.want)
			}
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	_, _, err := Resolve(&node.Descriptor{Ranges: []node.Span{{Lo: 0x200, Hi: 0x100}}}, false)
	assert.True(t, errors.Is(err, node.ErrUnsupported), "inverted span: %v", err)

	_, _, err = Resolve(&node.Descriptor{Ranges: []node.Span{{Lo: 0x300, Hi: 0x400}, {Lo: 0x100, Hi: 0x200}}}, false)
	assert.True(t, errors.Is(err, node.ErrUnsupported), "unsorted spans: %v", err)

	_, _, err = Resolve(&node.Descriptor{Posix: 1 << 30}, false)
	assert.True(t, errors.Is(err, node.ErrUnsupported), "unknown posix index: %v", err)
}

func TestContains(t *testing.T) {
	assert.True(t, Contains(Close(Alpha), 'é'))
	assert.False(t, Contains(Close(Alpha), '٣'))
	assert.True(t, Contains(Close(Numeric), '٣'))
	assert.True(t, Contains(Close(Not(Space)), 'é'))
	assert.False(t, Contains(Close(Not(Space)), ' '))
	assert.True(t, Contains(Every, ' '))
}

func TestSpans(t *testing.T) {
	s, err := NormalizeSpans([]node.Span{{Lo: 0x100, Hi: 0x1FF}, {Lo: 0x200, Hi: 0x2FF}, {Lo: 0x400, Hi: 0x4FF}})
	require.NoError(t, err)
	assert.Equal(t, []node.Span{{Lo: 0x100, Hi: 0x2FF}, {Lo: 0x400, Hi: 0x4FF}}, s)

	assert.True(t, SpansCover(s, []node.Span{{Lo: 0x150, Hi: 0x250}}))
	assert.False(t, SpansCover(s, []node.Span{{Lo: 0x2F0, Hi: 0x410}}))
	assert.True(t, SpansContain(s, 0x400))
	assert.False(t, SpansContain(s, 0x300))

	c := ComplementSpans(s)
	assert.Equal(t, []node.Span{{Lo: 0x80, Hi: 0xFF}, {Lo: 0x300, Hi: 0x3FF}, {Lo: 0x500, Hi: unicode.MaxRune}}, c)
	assert.True(t, SpansEqual(ComplementSpans(c), s))
}

func TestBitSpans(t *testing.T) {
	s, ok := BitSpans(Upper)
	require.True(t, ok)
	assert.True(t, SpansContain(s, 'É'))
	assert.False(t, SpansContain(s, 'é'))

	s, ok = BitSpans(Not(Upper))
	require.True(t, ok)
	assert.True(t, SpansContain(s, 'é'))

	_, ok = BitSpans(Upper | Lower)
	assert.False(t, ok)
}
