package main

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/fatih/color"

	"github.com/zephyrtronium/exprtree"
	"github.com/zephyrtronium/exprtree/internal/batch"
	"github.com/zephyrtronium/exprtree/internal/exprgen"
)

// EvalCmd evaluates expressions from arguments or standard input.
type EvalCmd struct {
	Exprs []string `arg:"" optional:"" help:"Expressions to evaluate. If none are given, they are read from stdin, one per line."`
}

// Run evaluates each expression, reporting errors as they occur.
func (cmd *EvalCmd) Run(ctx *Context) error {
	s := ctx.Session()
	if len(cmd.Exprs) == 0 {
		return evalStream(ctx, s)
	}
	failed := false
	for _, src := range cmd.Exprs {
		if err := s.Build(src); err != nil {
			ctx.Fail(fmt.Errorf("parsing %s: %w", src, err))
			failed = true
			continue
		}
		if err := ctx.Show(s); err != nil {
			ctx.Fail(err)
			failed = true
		}
	}
	if failed {
		return ErrFailures
	}
	return nil
}

// evalStream evaluates expressions from stdin. A newline ends an expression
// once it is complete, so an expression may span lines while its brackets
// are open.
func evalStream(ctx *Context, s *exprtree.Session) error {
	in := bufio.NewReader(ctx.Stdin)
	opts := append(ctx.Parse[:len(ctx.Parse):len(ctx.Parse)], exprtree.StopOn('\n'))
	failed := false
	for {
		if err := skipSpace(in); err == io.EOF {
			break
		} else if err != nil {
			return err
		}
		e, err := exprtree.Parse(in, opts...)
		if err != nil {
			ctx.Fail(err)
			failed = true
			if err := skipLine(in); err == io.EOF {
				break
			} else if err != nil {
				return err
			}
			continue
		}
		s.Use(e)
		if err := ctx.Show(s); err != nil {
			ctx.Fail(err)
			failed = true
		}
	}
	if failed {
		return ErrFailures
	}
	return nil
}

// skipSpace consumes whitespace up to the next other rune.
func skipSpace(in io.RuneScanner) error {
	for {
		r, _, err := in.ReadRune()
		if err != nil {
			return err
		}
		if !unicode.IsSpace(r) {
			return in.UnreadRune()
		}
	}
}

// skipLine consumes the rest of the current line.
func skipLine(in io.RuneReader) error {
	for {
		r, _, err := in.ReadRune()
		if err != nil {
			return err
		}
		if r == '\n' {
			return nil
		}
	}
}

// BatchCmd evaluates a YAML file of worked examples.
type BatchCmd struct {
	File string `arg:"" type:"existingfile" help:"YAML file of worked examples."`
}

// Run evaluates the file's examples and reports each outcome.
func (cmd *BatchCmd) Run(ctx *Context) error {
	examples, err := batch.LoadFile(cmd.File)
	if err != nil {
		return err
	}
	return report(ctx, examples)
}

// DemoCmd evaluates the built-in worked examples.
type DemoCmd struct{}

// Run evaluates the built-in examples and reports each outcome.
func (cmd *DemoCmd) Run(ctx *Context) error {
	return report(ctx, batch.Worked())
}

// report runs examples and prints their traversals and results.
func report(ctx *Context, examples []batch.Example) error {
	s := ctx.Session()
	outcomes := batch.Run(s, examples)
	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()
	for _, o := range outcomes {
		fmt.Fprintln(ctx.Stdout, o.Example.Expr)
		if o.InOrder != nil {
			// The session only holds the last tree, so print from the outcome.
			fmt.Fprintf(ctx.Stdout, "The expression seen using in-order traversal: %s\n", strings.Join(o.InOrder, " "))
			fmt.Fprintf(ctx.Stdout, "The expression seen using post-order traversal: %s\n", strings.Join(o.PostOrder, " "))
		}
		switch {
		case o.Err != nil:
			fmt.Fprintf(ctx.Stdout, "%s %v\n", bad("FAIL"), o.Err)
		case o.OK():
			fmt.Fprintf(ctx.Stdout, "The result is: %s %s\n", exprtree.Text(o.Value), ok("ok"))
		default:
			fmt.Fprintf(ctx.Stdout, "The result is: %s %s want %g\n", exprtree.Text(o.Value), bad("MISMATCH"), *o.Example.Want)
		}
		fmt.Fprintln(ctx.Stdout)
	}
	n := batch.Failures(outcomes)
	fmt.Fprintf(ctx.Stdout, "%d of %d examples passed\n", len(outcomes)-n, len(outcomes))
	if n != 0 {
		return ErrFailures
	}
	return nil
}

// RandomCmd generates random expressions and evaluates them.
type RandomCmd struct {
	Count  int   `help:"Number of expressions to generate." short:"n" default:"10"`
	Depth  int   `help:"Maximum bracket nesting." default:"3"`
	Seed   int64 `help:"Random seed, or 0 to seed from the clock." default:"0"`
	Spaces bool  `help:"Put spaces around operators."`
	Check  bool  `help:"Compare each result with float64 arithmetic."`
}

// Run generates and evaluates the expressions.
func (cmd *RandomCmd) Run(ctx *Context) error {
	seed := cmd.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := exprgen.Generator{Spaces: cmd.Spaces, Rand: rand.New(rand.NewSource(seed))}
	s := ctx.Session()
	failed := false
	for i := 0; i < cmd.Count; i++ {
		x := g.Generate(cmd.Depth)
		fmt.Fprintf(ctx.Stdout, "%s = ", x.Src)
		if err := s.Build(x.Src); err != nil {
			// Generated expressions always parse.
			return fmt.Errorf("parsing generated %s: %w", x.Src, err)
		}
		r, err := s.Value()
		if err != nil {
			fmt.Fprintln(ctx.Stdout)
			ctx.Fail(err)
			continue
		}
		fmt.Fprintf(ctx.Stdout, ctx.Verb+"\n", r)
		if cmd.Check && !math.IsNaN(x.Value) && !batch.Close(r, x.Value, 1e-9) {
			ctx.Fail(fmt.Errorf("%s: float64 arithmetic gives %g", x.Src, x.Value))
			failed = true
		}
	}
	if failed {
		return ErrFailures
	}
	return nil
}
