package recompare

import (
	"errors"
	"os"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"

	"github.com/coregx/recompare/lower"
	"github.com/coregx/recompare/node"
)

type pair struct {
	Name  string `yaml:"name"`
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
	Want  string `yaml:"want"`
	Gap   bool   `yaml:"gap"`
}

func loadPairs(t testing.TB) []pair {
	t.Helper()
	data, err := os.ReadFile("testdata/pairs.yaml")
	require.NoError(t, err)
	var doc struct {
		Pairs []pair `yaml:"pairs"`
	}
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.NotEmpty(t, doc.Pairs)
	return doc.Pairs
}

func TestCompareSource_Fixtures(t *testing.T) {
	checker := Default()
	for _, p := range loadPairs(t) {
		t.Run(p.Name, func(t *testing.T) {
			res, err := checker.CompareSource(p.Left, p.Right)
			require.NoError(t, err)
			assert.Equal(t, p.Want, res.String(), "%q vs %q", p.Left, p.Right)
		})
	}
}

// inputs exercise the fixture patterns against the standard library.
var inputs = []string{
	"",
	"abc",
	"foobar",
	"a\nb",
	" foo",
	"cat",
	"bird",
	"ABC",
	"aAbBcC",
	"abcdef",
	"ax bx",
	"жук",
	"123",
	"\xff\xfe",
}

// FuzzSubsumedSound checks that a Subsumed answer never disagrees with the
// standard library: whenever the left pattern matches, so must the right.
//
// Run with:
//
//	go test -fuzz=FuzzSubsumedSound -fuzztime=30s
func FuzzSubsumedSound(f *testing.F) {
	for _, p := range loadPairs(f) {
		for _, in := range inputs {
			f.Add(p.Left, p.Right, in)
		}
	}

	f.Fuzz(func(t *testing.T, left, right, input string) {
		ra, err := regexp.Compile(left)
		if err != nil {
			return
		}
		rb, err := regexp.Compile(right)
		if err != nil {
			return
		}
		ok, err := IsSubsumed(left, right)
		if err != nil || !ok {
			return
		}
		if ra.MatchString(input) && !rb.MatchString(input) {
			t.Errorf("%q reported inside %q, but only the first matches %q", left, right, input)
		}
	})
}

// soundPatterns are compared pairwise by TestSubsumed_AgreesWithRegexp.
var soundPatterns = []string{
	`a`, `b`, `c`, `ab`, `bc`,
	`^a`, `a$`, `^ab$`, `a\nb`,
	`a+`, `a*b`, `b{2,3}`, `(?:ab)+`, `^(?:aa)+$`, `^a{2,}$`,
	`[ab]`, `[a-c]+`, `\w`, `\s`, `.`, `(?i)ab`,
	`ab|b`, `(?:ab|b)(?:c|dd)`, `(?:a|bc)(?:d|cd)`, `(?:ab|c)+d`,
	`\bab`, `(?m)^b`, `a(?m)$`,
}

// allStrings returns every string over alphabet of length at most n.
func allStrings(alphabet string, n int) []string {
	out := []string{""}
	level := []string{""}
	for i := 0; i < n; i++ {
		var grown []string
		for _, prefix := range level {
			for j := 0; j < len(alphabet); j++ {
				grown = append(grown, prefix+alphabet[j:j+1])
			}
		}
		out = append(out, grown...)
		level = grown
	}
	return out
}

func TestSubsumed_AgreesWithRegexp(t *testing.T) {
	subjects := allStrings("abcdA \n", 4)
	checker := Default()
	for _, left := range soundPatterns {
		ra := regexp.MustCompile(left)
		for _, right := range soundPatterns {
			res, err := checker.CompareSource(left, right)
			if err != nil || res != Subsumed {
				continue
			}
			rb := regexp.MustCompile(right)
			for _, s := range subjects {
				if ra.MatchString(s) && !rb.MatchString(s) {
					t.Errorf("%q reported inside %q, but only the first matches %q", left, right, s)
					break
				}
			}
		}
	}
}

func TestResult_String(t *testing.T) {
	assert.Equal(t, "Subsumed", Subsumed.String())
	assert.Equal(t, "NotSubsumed", NotSubsumed.String())
	assert.Equal(t, "Result(7)", Result(7).String())
}

func TestIsSubsumed(t *testing.T) {
	ok, err := IsSubsumed(`^[a-f]+$`, `[a-z]`)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsSubsumed(`[a-z]`, `^[a-f]+$`)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = IsSubsumed(`a(`, `a`)
	var ce *lower.CompileError
	assert.True(t, errors.As(err, &ce), "parse error: %v", err)
}

func TestCompare_Errors(t *testing.T) {
	good := lower.MustCompile(`a`)
	bad, err := node.NewProgram([]node.Node{{Kind: node.Branch}, {Kind: node.End}}, "")
	require.NoError(t, err)

	_, err = Default().Compare(bad, good)
	assert.True(t, errors.Is(err, ErrMalformedStream), "left: %v", err)
	assert.Contains(t, err.Error(), "left pattern")

	_, err = Default().Compare(good, bad)
	assert.True(t, errors.Is(err, ErrMalformedStream), "right: %v", err)
	assert.Contains(t, err.Error(), "right pattern")

	for _, size := range []int{0, 99} {
		sized, err := node.NewProgram([]node.Node{
			{Kind: node.IfMatch, Next: 2, Size: size},
			{Kind: node.Succeed},
			{Kind: node.End},
		}, "")
		require.NoError(t, err)
		_, err = Default().Compare(sized, good)
		assert.True(t, errors.Is(err, ErrMalformedStream), "assertion size %d: %v", size, err)
	}

	config := DefaultConfig()
	config.MaxSynthesizedNodes = 2
	checker, err := New(config)
	require.NoError(t, err)
	res, err := checker.CompareSource(`aa`, `a{2}`)
	assert.True(t, errors.Is(err, ErrAllocation), "node cap: %v", err)
	assert.Equal(t, NotSubsumed, res)

	config = DefaultConfig()
	config.MaxDepth = 16
	checker, err = New(config)
	require.NoError(t, err)
	_, err = checker.CompareSource(`aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa`, `aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa`)
	assert.True(t, errors.Is(err, ErrUnsupported), "depth: %v", err)
}

// sourced builds a one-unit program carrying source text.
func sourced(t *testing.T, n node.Node, source string) *node.Program {
	t.Helper()
	b := node.NewBuilder()
	b.SetSource(source)
	b.Add(n)
	b.AddEnd()
	p, err := b.Build()
	require.NoError(t, err)
	return p
}

func TestCompare_Precheck(t *testing.T) {
	char := sourced(t, node.Node{Kind: node.Exact, Literal: []byte("a")}, `\N{U+0061}`)
	byteAny := sourced(t, node.Node{Kind: node.RegAny}, `.`)

	core, logs := observer.New(zapcore.DebugLevel)
	config := DefaultConfig()
	config.Logger = zap.New(core)
	checker, err := New(config)
	require.NoError(t, err)

	res, err := checker.Compare(char, byteAny)
	require.NoError(t, err)
	assert.Equal(t, NotSubsumed, res)
	rejected := logs.FilterMessage("precheck rejected pair").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, "char", rejected[0].ContextMap()["leftForced"])

	config.EnablePrecheck = false
	checker, err = New(config)
	require.NoError(t, err)
	res, err = checker.Compare(char, byteAny)
	require.NoError(t, err)
	assert.Equal(t, Subsumed, res)
}

func TestCompare_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	config := DefaultConfig()
	config.Logger = zap.New(core)
	checker, err := New(config)
	require.NoError(t, err)

	res, err := checker.CompareSource(`cat|dog`, `cat|dog|bird`)
	require.NoError(t, err)
	assert.Equal(t, Subsumed, res)

	finished := logs.FilterMessage("comparison finished").All()
	require.Len(t, finished, 1)
	fields := finished[0].ContextMap()
	assert.Equal(t, "cat|dog", fields["left"])
	assert.Equal(t, "Subsumed", fields["result"])
	assert.NotZero(t, logs.FilterMessage("compare step").Len())
}

func TestNew_NilLogger(t *testing.T) {
	config := DefaultConfig()
	config.Logger = nil
	checker, err := New(config)
	require.NoError(t, err)
	res, err := checker.CompareSource(`a`, `a`)
	require.NoError(t, err)
	assert.Equal(t, Subsumed, res)
}

func TestChecker_Concurrent(t *testing.T) {
	checker := Default()
	pairs := loadPairs(t)

	var wg sync.WaitGroup
	errs := make(chan error, len(pairs)*4)
	for i := 0; i < 4; i++ {
		for _, p := range pairs {
			wg.Add(1)
			go func(p pair) {
				defer wg.Done()
				res, err := checker.CompareSource(p.Left, p.Right)
				if err != nil {
					errs <- err
					return
				}
				if res.String() != p.Want {
					errs <- errors.New(p.Name + ": got " + res.String())
				}
			}(p)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
