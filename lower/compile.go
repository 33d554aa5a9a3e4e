package lower

import (
	"fmt"
	"regexp/syntax"
	"unicode"
	"unicode/utf8"

	"github.com/coregx/recompare/internal/conv"
	"github.com/coregx/recompare/node"
)

// CompilerConfig configures lowering behavior
type CompilerConfig struct {
	// Flags are the regexp/syntax parse flags. Zero selects syntax.Perl.
	Flags syntax.Flags

	// MaxRecursionDepth limits recursion over the syntax tree
	// Default: 100
	MaxRecursionDepth int
}

// DefaultCompilerConfig returns a compiler configuration with sensible defaults
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		Flags:             syntax.Perl,
		MaxRecursionDepth: 100,
	}
}

// Compiler lowers regexp/syntax trees into node programs
type Compiler struct {
	config  CompilerConfig
	builder *node.Builder
	depth   int // current recursion depth
}

// NewCompiler creates a new compiler with the given configuration
func NewCompiler(config CompilerConfig) *Compiler {
	if config.Flags == 0 {
		config.Flags = syntax.Perl
	}
	if config.MaxRecursionDepth == 0 {
		config.MaxRecursionDepth = 100
	}
	return &Compiler{
		config:  config,
		builder: node.NewBuilder(),
	}
}

// NewDefaultCompiler creates a new compiler with default configuration
func NewDefaultCompiler() *Compiler {
	return NewCompiler(DefaultCompilerConfig())
}

// Compile lowers pattern with the default configuration.
func Compile(pattern string) (*node.Program, error) {
	return NewDefaultCompiler().Compile(pattern)
}

// MustCompile is like Compile but panics if the pattern cannot be lowered.
func MustCompile(pattern string) *node.Program {
	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// Compile parses pattern and lowers it. The pattern text is kept as the
// program's source.
func (c *Compiler) Compile(pattern string) (*node.Program, error) {
	re, err := syntax.Parse(pattern, c.config.Flags)
	if err != nil {
		return nil, &CompileError{
			Pattern: pattern,
			Err:     err,
		}
	}

	p, err := c.lower(re, pattern)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	return p, nil
}

// CompileRegexp lowers an already parsed expression. The resulting program
// has no source text.
func (c *Compiler) CompileRegexp(re *syntax.Regexp) (*node.Program, error) {
	p, err := c.lower(re, "")
	if err != nil {
		return nil, &CompileError{Err: err}
	}
	return p, nil
}

func (c *Compiler) lower(re *syntax.Regexp, source string) (*node.Program, error) {
	c.builder = node.NewBuilder()
	c.builder.SetSource(source)
	c.depth = 0

	if err := c.compileRegexp(re); err != nil {
		return nil, err
	}
	c.builder.AddEnd()
	return c.builder.Build()
}

// compileRegexp appends the nodes of re in stream order. Whatever follows
// is reached by the implicit advance of the last node appended, or by an
// explicit jump to the builder's length at the time re was finished.
func (c *Compiler) compileRegexp(re *syntax.Regexp) error {
	c.depth++
	if c.depth > c.config.MaxRecursionDepth {
		return ErrTooComplex
	}
	defer func() { c.depth-- }()

	switch re.Op {
	case syntax.OpNoMatch:
		c.builder.AddClass(node.Bitmap{}, 0, nil)
	case syntax.OpEmptyMatch:
		c.builder.AddKind(node.Nothing)
	case syntax.OpLiteral:
		c.compileLiteral(re.Rune, re.Flags&syntax.FoldCase != 0)
	case syntax.OpCharClass:
		c.compileCharClass(re.Rune)
	case syntax.OpAnyCharNotNL:
		c.builder.AddKind(node.RegAny)
	case syntax.OpAnyChar:
		c.builder.AddKind(node.SAny)
	case syntax.OpBeginLine:
		c.builder.AddKind(node.MBol)
	case syntax.OpBeginText:
		c.builder.AddKind(node.Bol)
	case syntax.OpEndLine:
		c.builder.AddKind(node.MEol)
	case syntax.OpEndText:
		c.builder.AddKind(node.Eos)
	case syntax.OpWordBoundary:
		c.builder.AddKind(node.Bound)
	case syntax.OpNoWordBoundary:
		c.builder.AddKind(node.NBound)
	case syntax.OpCapture:
		return c.compileCapture(re)
	case syntax.OpConcat:
		return c.compileConcat(re.Sub)
	case syntax.OpAlternate:
		return c.compileAlternate(re.Sub)
	case syntax.OpStar:
		return c.compileRepeat(re, 0, -1)
	case syntax.OpPlus:
		return c.compileRepeat(re, 1, -1)
	case syntax.OpQuest:
		return c.compileRepeat(re, 0, 1)
	case syntax.OpRepeat:
		return c.compileRepeat(re, re.Min, re.Max)
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedOp, re.Op)
	}
	return nil
}

// compileLiteral appends one literal run. Case-insensitive runs use the
// ASCII folded kind unless some rune folds outside ASCII.
func (c *Compiler) compileLiteral(runes []rune, fold bool) {
	if len(runes) == 0 {
		c.builder.AddKind(node.Nothing)
		return
	}
	kind := node.Exact
	if fold {
		kind = node.ExactF
		for _, r := range runes {
			if !asciiOrbit(r) {
				kind = node.ExactFU
				break
			}
		}
	}
	buf := make([]byte, 0, len(runes)*utf8.UTFMax)
	for _, r := range runes {
		buf = utf8.AppendRune(buf, r)
	}
	c.builder.AddLiteral(kind, buf)
}

// asciiOrbit reports whether every rune r folds to is ASCII.
func asciiOrbit(r rune) bool {
	f := r
	for {
		if f >= utf8.RuneSelf {
			return false
		}
		if f = unicode.SimpleFold(f); f == r {
			return true
		}
	}
}

func (c *Compiler) compileCapture(re *syntax.Regexp) error {
	c.builder.AddGroup(node.Open, re.Cap)
	if err := c.compileRegexp(re.Sub[0]); err != nil {
		return err
	}
	c.builder.AddGroup(node.Close, re.Cap)
	return nil
}

// compileConcat compiles concatenation (e.g., "abc")
func (c *Compiler) compileConcat(subs []*syntax.Regexp) error {
	if len(subs) == 0 {
		c.builder.AddKind(node.Nothing)
		return nil
	}
	for _, sub := range subs {
		if err := c.compileRegexp(sub); err != nil {
			return err
		}
	}
	return nil
}

// compileAlternate lays out one Branch per alternative. Each arm ends with
// a Nothing that jumps to a trailing Tail, and the last Branch jumps there
// too. The Tail ends the chain even when another alternation follows.
func (c *Compiler) compileAlternate(subs []*syntax.Regexp) error {
	if len(subs) == 0 {
		c.builder.AddClass(node.Bitmap{}, 0, nil)
		return nil
	}
	if len(subs) == 1 {
		return c.compileRegexp(subs[0])
	}

	branches := make([]int, 0, len(subs))
	exits := make([]int, 0, len(subs))
	for i, sub := range subs {
		id := c.builder.AddBranch()
		if i > 0 {
			if err := c.builder.Patch(branches[i-1], id); err != nil {
				return err
			}
		}
		branches = append(branches, id)
		if err := c.compileRegexp(sub); err != nil {
			return err
		}
		exits = append(exits, c.builder.AddKind(node.Nothing))
	}

	cont := c.builder.AddKind(node.Tail)
	if err := c.builder.Patch(branches[len(branches)-1], cont); err != nil {
		return err
	}
	for _, e := range exits {
		if err := c.builder.Patch(e, cont); err != nil {
			return err
		}
	}
	return nil
}

// compileRepeat appends a repeat node followed by its body and patches the
// repeat to the node after the body. A single-unit body gets a Star, Plus
// or Curly; anything else a CurlyX. A negative max is unbounded.
func (c *Compiler) compileRepeat(re *syntax.Regexp, minCount, maxCount int) error {
	sub := re.Sub[0]
	if re.Flags&syntax.NonGreedy != 0 {
		c.builder.AddKind(node.MinMod)
	}

	lo := conv.RepeatCount(minCount, node.Infinite)
	hi := conv.RepeatCount(maxCount, node.Infinite)

	var kind node.Kind
	switch unit := singleUnit(sub); {
	case unit && lo == 0 && hi == node.Infinite:
		kind = node.Star
	case unit && lo == 1 && hi == node.Infinite:
		kind = node.Plus
	case unit:
		kind = node.Curly
	default:
		kind = node.CurlyX
	}

	id := c.builder.AddRepeat(kind, lo, hi)
	if err := c.compileRegexp(sub); err != nil {
		return err
	}
	return c.builder.Patch(id, c.builder.Len())
}

// singleUnit reports whether re lowers to one node that consumes exactly
// one character.
func singleUnit(re *syntax.Regexp) bool {
	switch re.Op {
	case syntax.OpLiteral:
		return len(re.Rune) == 1
	case syntax.OpCharClass, syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		return true
	}
	return false
}
