// Package batch runs batches of worked examples: expressions paired with the
// values they should evaluate to.
package batch

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/zephyrtronium/exprtree"
)

// ErrInvalidBatch is returned when a batch document fails validation.
var ErrInvalidBatch = errors.New("invalid batch")

// DefaultTolerance is the relative tolerance used for examples which don't
// set one.
const DefaultTolerance = 1e-9

// Example is one worked example.
type Example struct {
	// Expr is the expression text.
	Expr string `yaml:"expr"`
	// Want is the expected value. If nil, the example is evaluated but not
	// checked.
	Want *float64 `yaml:"want,omitempty"`
	// Tolerance is the allowed relative error, or 0 for DefaultTolerance.
	Tolerance float64 `yaml:"tolerance,omitempty"`
	// Note is a free-form description.
	Note string `yaml:"note,omitempty"`
}

// document is the YAML layout of a batch file.
type document struct {
	Examples []Example `yaml:"examples"`
}

//go:embed worked.yaml
var worked []byte

// Worked returns the built-in worked examples.
func Worked() []Example {
	ex, err := Parse(worked)
	if err != nil {
		panic("batch: invalid built-in examples: " + err.Error())
	}
	return ex
}

// Parse decodes a batch document. Unknown fields are errors.
func Parse(data []byte) ([]Example, error) {
	var doc document
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse batch: %w", err)
	}
	if err := validate(doc.Examples); err != nil {
		return nil, err
	}
	return doc.Examples, nil
}

// Load reads and decodes a batch document.
func Load(r io.Reader) ([]Example, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch: %w", err)
	}
	return Parse(data)
}

// LoadFile reads and decodes the batch document at path.
func LoadFile(path string) ([]Example, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return Parse(data)
}

func validate(examples []Example) error {
	if len(examples) == 0 {
		return fmt.Errorf("%w: no examples", ErrInvalidBatch)
	}
	for i, ex := range examples {
		if ex.Expr == "" {
			return fmt.Errorf("%w: example %d: expr is required", ErrInvalidBatch, i+1)
		}
		if ex.Tolerance < 0 || math.IsNaN(ex.Tolerance) {
			return fmt.Errorf("%w: example %d: tolerance must not be negative", ErrInvalidBatch, i+1)
		}
	}
	return nil
}

// Outcome is the result of running one example.
type Outcome struct {
	Example Example
	// InOrder and PostOrder are the traversals of the example's tree.
	InOrder   []string
	PostOrder []string
	// Value is the evaluated result. It is nil if Err is not.
	Value *big.Float
	// Err is the parse or evaluation error, if any.
	Err error
}

// OK returns whether the example evaluated without error and, if it has an
// expected value, matched it.
func (o Outcome) OK() bool {
	if o.Err != nil {
		return false
	}
	if o.Example.Want == nil {
		return true
	}
	return Close(o.Value, *o.Example.Want, o.Example.Tolerance)
}

// Close returns whether got is within a relative tolerance of want. A
// tolerance of 0 means DefaultTolerance.
func Close(got *big.Float, want, tolerance float64) bool {
	if tolerance == 0 {
		tolerance = DefaultTolerance
	}
	g, _ := got.Float64()
	if math.IsInf(want, 0) || math.IsInf(g, 0) {
		return g == want
	}
	return math.Abs(g-want) <= tolerance*math.Max(1, math.Abs(want))
}

// Run builds and evaluates each example in turn with s. After Run, s holds
// the tree of the last example that parsed.
func Run(s *exprtree.Session, examples []Example) []Outcome {
	r := make([]Outcome, 0, len(examples))
	for _, ex := range examples {
		o := Outcome{Example: ex}
		if err := s.Build(ex.Expr); err != nil {
			o.Err = err
			r = append(r, o)
			continue
		}
		o.InOrder = s.InOrderLabels()
		o.PostOrder = s.PostOrderLabels()
		o.Value, o.Err = s.Value()
		r = append(r, o)
	}
	return r
}

// Failures counts the outcomes which are not OK.
func Failures(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if !o.OK() {
			n++
		}
	}
	return n
}
