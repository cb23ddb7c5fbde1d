package exprtree_test

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/zephyrtronium/exprtree"
)

func TestSessionEmpty(t *testing.T) {
	s := exprtree.NewSession(nil)
	if s.Context() == nil {
		t.Fatal("nil context")
	}
	if s.Expr() != nil {
		t.Errorf("new session has tree %v", s.Expr())
	}
	if err := s.Build(""); err != nil {
		t.Errorf("empty build failed: %v", err)
	}
	if s.Expr() != nil {
		t.Errorf("empty build made tree %v", s.Expr())
	}
	if _, err := s.Evaluate(); !errors.Is(err, exprtree.ErrNoExpression) {
		t.Errorf("wrong error evaluating nothing: %v", err)
	}
	if err := s.Display(new(strings.Builder)); !errors.Is(err, exprtree.ErrNoExpression) {
		t.Errorf("wrong error displaying nothing: %v", err)
	}
	if l := s.InOrderLabels(); l != nil {
		t.Errorf("in-order labels with no tree: %q", l)
	}
	if l := s.PostOrderLabels(); l != nil {
		t.Errorf("post-order labels with no tree: %q", l)
	}
}

func TestSessionBuild(t *testing.T) {
	cases := []struct {
		src  string
		in   []string
		post []string
		r    string
	}{
		{"(4+7)", []string{"4", "+", "7"}, []string{"4", "7", "+"}, "11"},
		{"(7-4)", []string{"7", "-", "4"}, []string{"7", "4", "-"}, "3"},
		{"(9*5)", []string{"9", "*", "5"}, []string{"9", "5", "*"}, "45"},
		{"(4^3)", []string{"4", "^", "3"}, []string{"4", "3", "^"}, "64"},
		{"((2-5)-5)", []string{"2", "-", "5", "-", "5"}, []string{"2", "5", "-", "5", "-"}, "-8"},
		{"(5*(6/2))", []string{"5", "*", "6", "/", "2"}, []string{"5", "6", "2", "/", "*"}, "15"},
		{"(543+321)", []string{"543", "+", "321"}, []string{"543", "321", "+"}, "864"},
	}
	s := exprtree.NewSession(nil)
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			if err := s.Build(c.src); err != nil {
				t.Fatalf("%q failed to build: %v", c.src, err)
			}
			if s.Source() != c.src {
				t.Errorf("wrong source: want %q, got %q", c.src, s.Source())
			}
			if diff := cmp.Diff(c.in, s.InOrderLabels()); diff != "" {
				t.Errorf("in-order mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(c.post, s.PostOrderLabels()); diff != "" {
				t.Errorf("post-order mismatch (-want +got):\n%s", diff)
			}
			r, err := s.Evaluate()
			if err != nil {
				t.Fatalf("%q failed to evaluate: %v", c.src, err)
			}
			if r != c.r {
				t.Errorf("wrong result: want %s, got %s", c.r, r)
			}
			// Evaluating again gives the same answer and leaves the tree
			// unchanged.
			if r, _ := s.Evaluate(); r != c.r {
				t.Errorf("wrong result on second evaluation: want %s, got %s", c.r, r)
			}
			if diff := cmp.Diff(c.in, s.InOrderLabels()); diff != "" {
				t.Errorf("in-order mismatch after evaluation (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(c.post, s.PostOrderLabels()); diff != "" {
				t.Errorf("post-order mismatch after evaluation (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSessionBuildErrorKeepsTree(t *testing.T) {
	s := exprtree.NewSession(nil)
	if err := s.Build("(4+7)"); err != nil {
		t.Fatal(err)
	}
	err := s.Build("(4+")
	if _, ok := err.(exprtree.InputError); !ok {
		t.Errorf("wrong error from bad build: %#v", err)
	}
	if err := s.Build(""); err != nil {
		t.Errorf("empty build failed: %v", err)
	}
	if s.Source() != "(4+7)" {
		t.Errorf("source changed to %q", s.Source())
	}
	if r, err := s.Evaluate(); err != nil || r != "11" {
		t.Errorf("want 11, got %q with error %v", r, err)
	}
}

func TestSessionEvalError(t *testing.T) {
	s := exprtree.NewSession(nil)
	if err := s.Build("(0/0)"); err != nil {
		t.Fatal(err)
	}
	v, err := s.Value()
	if v != nil {
		t.Errorf("non-nil value %g", v)
	}
	var de *exprtree.DomainError
	if !errors.As(err, &de) {
		t.Errorf("wrong error: %#v", err)
	}
	if s.Context().Len() != 0 {
		t.Errorf("%d values left on the stack", s.Context().Len())
	}
	// The tree survives to be evaluated again.
	if _, err := s.Evaluate(); !errors.As(err, &de) {
		t.Errorf("wrong error on second evaluation: %#v", err)
	}
}

func TestSessionOptions(t *testing.T) {
	s := exprtree.NewSession(exprtree.NewContext(exprtree.Prec(200)), exprtree.MaxDepth(1))
	if err := s.Build("((1+2)+3)"); err == nil {
		t.Error("built past max depth")
	}
	if err := s.Build("(1/3)"); err != nil {
		t.Fatal(err)
	}
	v, err := s.Value()
	if err != nil {
		t.Fatal(err)
	}
	if v.Prec() != 200 {
		t.Errorf("wrong precision %d", v.Prec())
	}
}

func TestSessionUse(t *testing.T) {
	s := exprtree.NewSession(nil)
	s.Use(nil)
	if s.Expr() != nil {
		t.Errorf("nil use made tree %v", s.Expr())
	}
	e, err := exprtree.ParseString("(9*(2+3))")
	if err != nil {
		t.Fatal(err)
	}
	s.Use(e)
	if s.Expr() != e {
		t.Errorf("wrong tree %v", s.Expr())
	}
	if s.Source() != "(9 * (2 + 3))" {
		t.Errorf("wrong source %q", s.Source())
	}
	if r, err := s.Evaluate(); err != nil || r != "45" {
		t.Errorf("want 45, got %q with error %v", r, err)
	}
}

func TestSessionDisplay(t *testing.T) {
	s := exprtree.NewSession(nil)
	if err := s.Build("((5*(3+2))+(7*(4+6)))"); err != nil {
		t.Fatal(err)
	}
	var b strings.Builder
	if err := s.Display(&b); err != nil {
		t.Fatal(err)
	}
	want := "The expression seen using in-order traversal: 5 * 3 + 2 + 7 * 4 + 6\n" +
		"The expression seen using post-order traversal: 5 3 2 + * 7 4 6 + * +\n"
	if diff := cmp.Diff(want, b.String()); diff != "" {
		t.Errorf("display mismatch (-want +got):\n%s", diff)
	}
}

func ExampleSession() {
	s := exprtree.NewSession(nil)
	for _, src := range []string{"(4+7)", "(5*(6/2))", "(((((3+12)-7)*120)/(2+3))^3)"} {
		if err := s.Build(src); err != nil {
			panic(err)
		}
		s.Display(os.Stdout)
		r, err := s.Evaluate()
		if err != nil {
			panic(err)
		}
		os.Stdout.WriteString("The result is: " + r + "\n")
	}

	// Output:
	// The expression seen using in-order traversal: 4 + 7
	// The expression seen using post-order traversal: 4 7 +
	// The result is: 11
	// The expression seen using in-order traversal: 5 * 6 / 2
	// The expression seen using post-order traversal: 5 6 2 / *
	// The result is: 15
	// The expression seen using in-order traversal: 3 + 12 - 7 * 120 / 2 + 3 ^ 3
	// The expression seen using post-order traversal: 3 12 + 7 - 120 * 2 3 + / 3 ^
	// The result is: 7.077888e+06
}
