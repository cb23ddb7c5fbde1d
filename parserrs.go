package exprtree

import "strconv"

// OperatorError is an error indicating an operator token where none is
// allowed, or a missing operator. It implements InputError.
type OperatorError struct {
	// Col is the position of the operator, or of the token found where an
	// operator was required.
	Col int
	// Operator is the operator that was not expected. It is empty if an
	// operator was required but missing.
	Operator string
}

func (err *OperatorError) Error() string {
	if err.Operator == "" {
		return errpos(err.Col, "missing operator")
	}
	return errpos(err.Col, "unexpected operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

// OperandError is an error indicating an operand where a close bracket is
// required, e.g. the 3 in "(1 + 2 3)". It implements InputError.
type OperandError struct {
	// Col is the position of the operand.
	Col int
	// Operand is the numeral or open bracket that began the operand.
	Operand string
}

func (err *OperandError) Error() string {
	return errpos(err.Col, "unexpected operand "+strconv.Quote(err.Operand))
}

func (err *OperandError) Pos() int {
	return err.Col
}

// BracketError is an error indicating mismatched brackets in the
// input. It implements InputError.
type BracketError struct {
	// Col is the position of the bracket.
	Col int
	// Left is the opening bracket, or empty if a close bracket had no
	// matching open bracket.
	Left string
	// Right is the closing bracket, or empty if an open bracket was never
	// closed.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
}

func (err *BracketError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating an empty operand. It implements
// InputError.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "no expression at end")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// DepthError is an error indicating brackets nested more deeply than the
// MaxDepth parse option allows. It implements InputError.
type DepthError struct {
	// Col is the position of the open bracket that exceeded the limit.
	Col int
	// Max is the maximum nesting depth.
	Max int
}

func (err *DepthError) Error() string {
	return errpos(err.Col, "brackets nested deeper than "+strconv.Itoa(err.Max))
}

func (err *DepthError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*OperandError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*DepthError)(nil)
	_ InputError = (*CharError)(nil)
)
