package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"github.com/zephyrtronium/exprtree"
)

// ErrFailures is returned when any expression fails to parse or evaluate, or
// any worked example does not match.
var ErrFailures = errors.New("some expressions failed")

// CLI is the command-line interface.
type CLI struct {
	Prec     uint   `help:"Precision of calculations in bits." short:"p" default:"53" env:"EXPRTREE_PREC"`
	Fmt      string `help:"Result formatting verb." default:"%g" env:"EXPRTREE_FMT"`
	Tree     bool   `help:"Print in-order and post-order traversals of each parse tree." short:"t" env:"EXPRTREE_TREE"`
	MaxDepth int    `help:"Maximum bracket nesting, or 0 for no limit." default:"0" env:"EXPRTREE_MAX_DEPTH"`
	Color    string `help:"Colorize output (${enum})." enum:"auto,always,never" default:"auto" env:"EXPRTREE_COLOR"`
	Pause    bool   `help:"Wait for a key press before exiting when stdin is a terminal." env:"EXPRTREE_PAUSE"`

	Eval   EvalCmd   `cmd:"" default:"withargs" help:"Evaluate expressions given as arguments, or one per line from stdin."`
	Batch  BatchCmd  `cmd:"" help:"Evaluate the worked examples in a YAML file."`
	Demo   DemoCmd   `cmd:"" help:"Evaluate the built-in worked examples."`
	Random RandomCmd `cmd:"" help:"Generate and evaluate random expressions."`
}

// Context carries the global options and I/O streams to commands.
type Context struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Prec  uint
	Verb  string
	Tree  bool
	Parse []exprtree.ParseOption
}

// Session creates a session using the global options.
func (ctx *Context) Session() *exprtree.Session {
	return exprtree.NewSession(exprtree.NewContext(exprtree.Prec(ctx.Prec)), ctx.Parse...)
}

// Show prints the session's current tree, if requested, and its value.
func (ctx *Context) Show(s *exprtree.Session) error {
	if ctx.Tree {
		if err := s.Display(ctx.Stdout); err != nil {
			return err
		}
	}
	r, err := s.Value()
	if err != nil {
		return fmt.Errorf("evaluating %s: %w", s.Source(), err)
	}
	fmt.Fprintf(ctx.Stdout, ctx.Verb+"\n", r)
	return nil
}

// Fail reports an error for one expression without stopping the command.
func (ctx *Context) Fail(err error) {
	color.New(color.FgRed).Fprintln(ctx.Stderr, err)
}

func main() {
	log.SetFlags(0)
	if err := loadEnvFiles(); err != nil {
		log.Fatal(err)
	}
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("exprtree"),
		kong.Description("Parse and evaluate fully-parenthesized arithmetic expressions."),
		kong.UsageOnError(),
	)
	err := execute(kctx, &cli, os.Stdin, os.Stdout, os.Stderr)
	if cli.Pause {
		pause(os.Stdin, os.Stdout, os.Stdin.Fd())
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run parses args and runs the selected command.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("exprtree"),
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return execute(kctx, &cli, stdin, stdout, stderr)
}

func execute(kctx *kong.Context, cli *CLI, stdin io.Reader, stdout, stderr io.Writer) error {
	switch cli.Color {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}
	ctx := &Context{
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
		Prec:   cli.Prec,
		Verb:   cli.Fmt,
		Tree:   cli.Tree,
	}
	if cli.MaxDepth > 0 {
		ctx.Parse = append(ctx.Parse, exprtree.MaxDepth(cli.MaxDepth))
	}
	return kctx.Run(ctx)
}

// loadEnvFiles loads .env from the current directory, if there is one.
// Variables already in the environment take precedence.
func loadEnvFiles() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}

// pause waits for a line of input, but only if fd is a terminal.
func pause(in io.Reader, out io.Writer, fd uintptr) {
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return
	}
	fmt.Fprintln(out, "Press any key to continue")
	bufio.NewReader(in).ReadString('\n')
}
