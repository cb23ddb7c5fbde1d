// Package exprtree parses fully-parenthesized arithmetic expressions into
// binary expression trees and evaluates them.
//
// Every binary operation must carry its own brackets: "(1 + 2)" and
// "((1 + 2) * (3 + 4))" are expressions, "1 + 2" and "(1 + 2 + 3)" are not.
// Operands are non-negative integer literals or bracketed expressions, and
// the operators are +, -, *, / and ^. Because the brackets say everything
// about grouping, there is no operator precedence.
//
// Parsing produces an Expr, which can be evaluated any number of times with
// a Context and inspected with in-order and post-order label traversals. A
// Session bundles one live tree with the context used to evaluate it.
package exprtree
