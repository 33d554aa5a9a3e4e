// Package recompare decides statically whether one regular expression
// matches a subset of what another matches.
//
// A comparison never runs either pattern. It walks the two compiled node
// streams side by side and answers Subsumed only when every string the
// first pattern matches is provably matched by the second. Any construct it
// cannot reason about precisely yields NotSubsumed or an error, never a
// wrong Subsumed.
//
// Basic usage:
//
//	ok, err := recompare.IsSubsumed(`^[a-f]+$`, `[a-z]`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(ok) // true
//
// Advanced usage:
//
//	config := recompare.DefaultConfig()
//	config.Logger = logger
//	checker, err := recompare.New(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := checker.CompareSource(`cat|dog`, `cat|dog|bird`)
//
// Patterns use Go regexp syntax. Programs produced by other compilers can
// be compared directly with Checker.Compare.
//
// An error means the answer is unknown. It is never a synonym for
// NotSubsumed.
package recompare

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/coregx/recompare/compare"
	"github.com/coregx/recompare/lower"
	"github.com/coregx/recompare/node"
	"github.com/coregx/recompare/precheck"
)

// Result is the outcome of a successful comparison.
type Result uint8

const (
	// NotSubsumed means containment could not be established. It does not
	// prove that a counterexample exists.
	NotSubsumed Result = iota

	// Subsumed means every string matched by the first pattern is matched
	// by the second.
	Subsumed
)

// String returns a human-readable representation of the Result
func (r Result) String() string {
	switch r {
	case NotSubsumed:
		return "NotSubsumed"
	case Subsumed:
		return "Subsumed"
	default:
		return fmt.Sprintf("Result(%d)", uint8(r))
	}
}

// Errors returned by comparisons. They match by kind through errors.Is.
var (
	ErrMalformedStream = node.ErrMalformedStream
	ErrUnsupported     = node.ErrUnsupported
	ErrAllocation      = node.ErrAllocation
)

// Checker compares patterns under a fixed configuration. A Checker holds
// no mutable state and is safe for concurrent use.
type Checker struct {
	config Config
}

// New returns a checker for config. A nil logger is replaced by a no-op
// logger.
func New(config Config) (*Checker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	return &Checker{config: config}, nil
}

// Default returns a checker with the default configuration.
func Default() *Checker {
	return &Checker{config: DefaultConfig()}
}

// Compare reports whether the language of a is contained in the language
// of b. Both programs are validated first; when both carry source text the
// escape-forcing filter runs before the structural comparison.
func (c *Checker) Compare(a, b *node.Program) (Result, error) {
	log := c.config.Logger
	if err := a.Validate(); err != nil {
		return NotSubsumed, fmt.Errorf("recompare: left pattern: %w", err)
	}
	if err := b.Validate(); err != nil {
		return NotSubsumed, fmt.Errorf("recompare: right pattern: %w", err)
	}

	if c.config.EnablePrecheck && precheck.Sources(a.Source(), b.Source()) {
		log.Debug("precheck rejected pair",
			zap.String("left", a.Source()),
			zap.String("right", b.Source()),
			zap.Stringer("leftForced", precheck.Scan(a.Source())),
			zap.Stringer("rightForced", precheck.Scan(b.Source())),
		)
		return NotSubsumed, nil
	}

	ok, err := compare.Contained(a, b, compare.Options{
		MaxDepth:            c.config.MaxDepth,
		MaxSynthesizedNodes: c.config.MaxSynthesizedNodes,
		Logger:              log,
	})
	if err != nil {
		log.Debug("comparison failed",
			zap.String("left", a.Source()),
			zap.String("right", b.Source()),
			zap.Error(err),
		)
		return NotSubsumed, fmt.Errorf("recompare: %w", err)
	}

	res := NotSubsumed
	if ok {
		res = Subsumed
	}
	log.Debug("comparison finished",
		zap.String("left", a.Source()),
		zap.String("right", b.Source()),
		zap.Stringer("result", res),
	)
	return res, nil
}

// CompareSource lowers two Go regular expressions and compares them.
func (c *Checker) CompareSource(a, b string) (Result, error) {
	pa, err := lower.Compile(a)
	if err != nil {
		return NotSubsumed, err
	}
	pb, err := lower.Compile(b)
	if err != nil {
		return NotSubsumed, err
	}
	return c.Compare(pa, pb)
}

// IsSubsumed reports whether every string matched by pattern a is also
// matched by pattern b, using the default configuration.
func IsSubsumed(a, b string) (bool, error) {
	res, err := Default().CompareSource(a, b)
	return res == Subsumed, err
}
