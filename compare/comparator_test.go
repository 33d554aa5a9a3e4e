package compare

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/coregx/recompare/lower"
	"github.com/coregx/recompare/node"
)

func contained(t *testing.T, a, b string) bool {
	t.Helper()
	ok, err := Contained(lower.MustCompile(a), lower.MustCompile(b), Options{})
	require.NoError(t, err, "%q vs %q", a, b)
	return ok
}

func TestContained_Reflexive(t *testing.T) {
	patterns := []string{
		`a`,
		`abc`,
		`a*`,
		`a+b?`,
		`(?:ab)+c`,
		`^foo$`,
		`\bword\b`,
		`[a-z0-9]+`,
		`cat|dog`,
		`\d{2,4}`,
		`(?i)hello`,
		`[^\n]*x`,
		`x(?:y|z)*w`,
		`(a)(b)`,
		`\pL+`,
	}
	for _, p := range patterns {
		assert.True(t, contained(t, p, p), "%q not contained in itself", p)
	}
}

func TestContained(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		// Substring containment.
		{"literal contains literal", `abc`, `b`, true},
		{"literal misses literal", `abc`, `d`, false},
		{"anchored in unanchored", `^a`, `a`, true},
		{"unanchored in anchored", `a`, `^a`, false},
		{"end anchor dropped", `a$`, `a`, true},
		{"end anchor required", `a`, `a$`, false},

		// Repeats.
		{"bounded in plus", `a{2,4}`, `a+`, true},
		{"plus in bounded", `a+`, `a{2,4}`, false},
		{"longer count contains shorter", `a{3}`, `a{2}`, true},
		{"anchored counts differ", `^a{3}$`, `^a{2}$`, false},
		{"plus in star", `a+`, `a*`, true},
		{"star matches empty", `a*`, `a`, false},
		{"anything contains empty", `x*`, ``, true},
		{"literal through star", `abc`, `ab*c`, true},
		{"literal skips star", `ac`, `ab*c`, true},
		{"non-greedy repeat", `a+?`, `a`, true},
		{"first instance decides", `^[a-f]+$`, `[a-z]`, true},
		{"repeat count mismatch", `abab`, `a{2}b`, false},
		{"repeat absorbs continuation", `z[ab]+a`, `z[ab]a`, false},

		// Alternation.
		{"fewer alternatives", `cat|dog`, `cat|dog|bird`, true},
		{"more alternatives", `cat|dog|bird`, `cat|dog`, false},
		{"class alternatives", `a|b`, `b`, false},
		{"class split over alternation", `[ab]x`, `ax|bx`, true},
		{"second alternation is not an arm of the first", `c`, `(?:ab|b)(?:c|dd)`, false},
		{"through adjacent alternations", `bc`, `(?:ab|b)(?:c|dd)`, true},
		{"adjacent alternations on the left", `(?:ab|b)(?:c|dd)`, `b`, true},

		// Classes and case folding.
		{"digit in word", `\d`, `\w`, true},
		{"word not in digit", `\w`, `\d`, false},
		{"dot in dot-all", `.`, `(?s:.)`, true},
		{"dot-all not in dot", `(?s:.)`, `.`, false},
		{"letters not numbers", `\pL`, `\PN`, true},
		{"exact in folded", `abc`, `(?i)ABC`, true},
		{"folded not in exact", `(?i)abc`, `abc`, false},
		{"unicode fold orbit", `(?i)k`, `[kK\x{212A}]`, true},
		{"wide literal in category", `é`, `\pL`, true},

		// Captures are transparent.
		{"group in literal", `(foo)`, `foo`, true},

		// Boundaries and multiline anchors.
		{"boundary dropped", `\bfoo\b`, `foo`, true},
		{"boundary proven", ` foo`, `\bfoo`, true},
		{"boundary unknown", `foo`, `\bfoo`, false},
		{"line start after newline", `a\nb`, `\n(?m)^b`, true},
		{"line start not after newline", `a\nb`, `a(?m)^b`, false},
		{"line end before newline", `a\n`, `a(?m)$`, true},
		{"line end before letter", `ab`, `a(?m)$`, false},
		{"text end is line end", `a$`, `a(?m)$`, true},

		// Known gaps: true containments that are not recognized.
		{"longer right minimum", `^(?:aa)+$`, `^a{2,}$`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, contained(t, tt.a, tt.b), "%q vs %q", tt.a, tt.b)
		})
	}
}

// assertion builds kind(?:sub) followed by rest.
func assertion(t *testing.T, kind node.Kind, sub, rest string) *node.Program {
	t.Helper()
	b := node.NewBuilder()
	id := b.AddAssertion(kind)
	b.AddLiteral(node.Exact, []byte(sub))
	b.AddKind(node.Succeed)
	require.NoError(t, b.PatchSize(id, b.Len()))
	b.AddLiteral(node.Exact, []byte(rest))
	b.AddEnd()
	p, err := b.Build()
	require.NoError(t, err)
	return p
}

func TestContained_Lookahead(t *testing.T) {
	tests := []struct {
		name string
		a, b *node.Program
		want bool
	}{
		{
			"positive narrows",
			assertion(t, node.IfMatch, "ab", "a"),
			assertion(t, node.IfMatch, "a", "a"),
			true,
		},
		{
			"positive widens",
			assertion(t, node.IfMatch, "a", "a"),
			assertion(t, node.IfMatch, "ab", "a"),
			false,
		},
		{
			"negative excludes more",
			assertion(t, node.UnlessM, "a", "b"),
			assertion(t, node.UnlessM, "ab", "b"),
			true,
		},
		{
			"left lookahead dropped",
			assertion(t, node.IfMatch, "x", "ab"),
			lower.MustCompile(`ab`),
			true,
		},
		{
			"right lookahead against literal",
			lower.MustCompile(`ab`),
			assertion(t, node.IfMatch, "a", "a"),
			true,
		},
		{
			"right lookahead not satisfied",
			lower.MustCompile(`b`),
			assertion(t, node.IfMatch, "a", "b"),
			false,
		},
		{
			"right negative lookahead",
			lower.MustCompile(`b`),
			assertion(t, node.UnlessM, "a", "b"),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Contained(tt.a, tt.b, Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContained_UnresolvedClasses(t *testing.T) {
	custom := &node.Descriptor{Text: "+main::Custom\n"}
	program := func(d *node.Descriptor) *node.Program {
		p, err := node.NewProgram([]node.Node{
			{Kind: node.AnyOf, Wide: d},
			{Kind: node.Exact, Literal: []byte("x")},
			{Kind: node.End},
		}, "")
		require.NoError(t, err)
		return p
	}

	ok, err := Contained(program(custom), program(&node.Descriptor{Text: "+main::Custom\n"}), Options{})
	require.NoError(t, err)
	assert.True(t, ok, "identical descriptors")

	ok, err = Contained(program(custom), program(&node.Descriptor{Text: "+utf8::IsAlpha\n"}), Options{})
	require.NoError(t, err)
	assert.False(t, ok, "unresolved left class")
}

func TestContained_Errors(t *testing.T) {
	long := strings.Repeat("a", 40)
	_, err := Contained(lower.MustCompile(long), lower.MustCompile(long), Options{MaxDepth: 16})
	assert.True(t, errors.Is(err, node.ErrUnsupported), "depth limit: %v", err)

	_, err = Contained(lower.MustCompile(`aa`), lower.MustCompile(`a{2}`), Options{MaxSynthesizedNodes: 2})
	assert.True(t, errors.Is(err, node.ErrAllocation), "node cap: %v", err)

	bad, err := node.NewProgram([]node.Node{
		{Kind: node.AnyOf, Wide: &node.Descriptor{Ranges: []node.Span{{Lo: 0x300, Hi: 0x400}, {Lo: 0x100, Hi: 0x200}}}},
		{Kind: node.End},
	}, "")
	require.NoError(t, err)
	_, err = Contained(bad, lower.MustCompile(`\pL`), Options{})
	assert.True(t, errors.Is(err, node.ErrUnsupported), "unsorted ranges: %v", err)

	unknown, err := node.NewProgram([]node.Node{{Kind: node.Kind(200)}, {Kind: node.End}}, "")
	require.NoError(t, err)
	_, err = Contained(unknown, lower.MustCompile(`a`), Options{})
	assert.True(t, errors.Is(err, node.ErrUnsupported), "unknown kind: %v", err)
}

func TestContained_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ok, err := Contained(lower.MustCompile(`ab`), lower.MustCompile(`b`), Options{Logger: zap.New(core)})
	require.NoError(t, err)
	require.True(t, ok)

	steps := logs.FilterMessage("compare step").All()
	require.NotEmpty(t, steps)
	first := steps[0].ContextMap()
	assert.Equal(t, "Exact", first["left"])
	assert.Equal(t, false, first["anchored"])
	assert.EqualValues(t, 1, first["depth"])
}

func TestContained_Concurrent(t *testing.T) {
	a, b := lower.MustCompile(`x[0-9]{2,3}y`), lower.MustCompile(`\d+y`)
	done := make(chan bool)
	for i := 0; i < 8; i++ {
		go func() {
			ok, err := Contained(a, b, Options{})
			done <- err == nil && ok
		}()
	}
	for i := 0; i < 8; i++ {
		assert.True(t, <-done)
	}
}
