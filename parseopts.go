package exprtree

import (
	"strconv"
	"unicode"
)

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	eofopt   string
	depthopt int
)

// parsectx holds general data for parsing.
type parsectx struct {
	// wseof is a string containing the whitespace characters that end the
	// input once a complete expression has been parsed.
	wseof string
	// maxdepth is the deepest bracket nesting allowed, or 0 for no limit.
	maxdepth int
	// nodes is the number of nodes created this parse.
	nodes int
}

// StopOn tells the parser to treat a list of whitespace characters as ending
// the expression. Whitespace never ends an expression before its last close
// bracket, so "(1 +\n2)" is a single expression even with StopOn('\n'). The
// stopping character is consumed.
//
// StopOn overrides the effect of any previous StopOn in the parsing options.
// With no arguments, StopOn produces the default termination behavior, which
// is to parse to EOF.
func StopOn(chars ...rune) ParseOption {
	v := make([]rune, 0, len(chars))
	have := func(r rune) bool {
		for _, c := range v {
			if r == c {
				return true
			}
		}
		return false
	}
	for _, r := range chars {
		if !unicode.IsSpace(r) {
			panic("exprtree: cannot stop on " + strconv.QuoteRune(r))
		}
		if have(r) {
			continue
		}
		v = append(v, r)
	}
	return eofopt(v)
}

func (o eofopt) parseOption(p parsectx) parsectx {
	p.wseof = string(o)
	return p
}

// MaxDepth limits how deeply brackets may nest. "(1 + 2)" has depth 1 and
// "((1 + 2) * 3)" has depth 2. A depth of 0 or less means no limit, which is
// the default.
func MaxDepth(depth int) ParseOption {
	if depth < 0 {
		depth = 0
	}
	return depthopt(depth)
}

func (o depthopt) parseOption(p parsectx) parsectx {
	p.maxdepth = int(o)
	return p
}
