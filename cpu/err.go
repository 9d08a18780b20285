package cpu

import (
	"errors"
	"strconv"

	"github.com/ezrec/mano/translate"
)

var f = translate.From

var (
	// Assembler errors
	ErrSyntax            = errors.New(f("syntax error"))
	ErrDuplicateLabel    = errors.New(f("label duplicated"))
	ErrUndefinedSymbol   = errors.New(f("symbol undefined"))
	ErrUnknownMnemonic   = errors.New(f("mnemonic unknown"))
	ErrOperandOutOfRange = errors.New(f("operand out of range"))
	ErrProgramEmpty      = errors.New(f("no source program loaded"))

	// Syntax error details
	ErrLabelInvalid     = errors.New(f("label invalid"))
	ErrLabelReserved    = errors.New(f("label is a reserved word"))
	ErrLabelNotAllowed  = errors.New(f("label not allowed here"))
	ErrOperandMissing   = errors.New(f("operand missing"))
	ErrOperandExtra     = errors.New(f("operand not allowed"))
	ErrIndirectInvalid  = errors.New(f("indirect marker invalid"))
	ErrIndirectExtra    = errors.New(f("indirect marker not allowed"))
	ErrTokensExtra      = errors.New(f("excessive tokens"))
	ErrExpressionClosed = errors.New(f("$( without )"))

	// Machine errors
	ErrAddressOutOfRange = errors.New(f("address out of range"))
	ErrIllegalOpcode     = errors.New(f("illegal opcode"))
)

// ErrSource locates an assembler error in the source program.
type ErrSource struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSource) Error() string {
	return f("line %v '%v' %v", strconv.Itoa(err.LineNo), err.Line, err.Err)
}

func (err *ErrSource) Unwrap() error {
	return err.Err
}

// ErrLabelMissing is a reference to a label that was never bound.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

func (el ErrLabelMissing) Is(err error) bool {
	return err == ErrUndefinedSymbol
}

// ErrLabelDuplicate is a second binding of an already bound label.
type ErrLabelDuplicate string

func (el ErrLabelDuplicate) Error() string {
	return f("label %v duplicated", string(el))
}

func (el ErrLabelDuplicate) Is(err error) bool {
	return err == ErrDuplicateLabel
}

// ErrMnemonic is a mnemonic found in no instruction table.
type ErrMnemonic string

func (em ErrMnemonic) Error() string {
	return f("mnemonic %v unknown", string(em))
}

func (em ErrMnemonic) Is(err error) bool {
	return err == ErrUnknownMnemonic
}

// ErrAddress is a memory access outside of the address space.
type ErrAddress int

func (ea ErrAddress) Error() string {
	return f("address 0x%x out of range", int(ea))
}

func (ea ErrAddress) Is(err error) bool {
	return err == ErrAddressOutOfRange
}

// ErrOpcode is an instruction word that decodes to no instruction.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%04x", uint16(eo))
}

func (eo ErrOpcode) Is(err error) bool {
	return err == ErrIllegalOpcode
}

// ErrOperand is a literal outside of the range of its pseudo-op.
type ErrOperand struct {
	Operand string
	Min     int
	Max     int
}

func (err *ErrOperand) Error() string {
	return f("'%v' not in range %v..%v", err.Operand, strconv.Itoa(err.Min), strconv.Itoa(err.Max))
}

func (err *ErrOperand) Is(target error) bool {
	return target == ErrOperandOutOfRange
}

// ErrParseNumber is a literal that does not parse as a number.
type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

func (err ErrParseNumber) Is(target error) bool {
	return target == ErrSyntax
}

// ErrParseExpression is a $(...) expression that failed to evaluate.
type ErrParseExpression struct {
	Expr string
	Err  error
}

func (err *ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression: %v", err.Expr, err.Err)
}

func (err *ErrParseExpression) Unwrap() []error {
	return []error{ErrSyntax, err.Err}
}
