package cpu

import (
	"errors"
	"strconv"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// EXPR_MAX_STEPS bounds the work of a single $(...) evaluation.
const EXPR_MAX_STEPS = 10_000

// eval does compile-time $(...) evaluations. Bound labels are predeclared
// as their addresses.
func (asm *Assembler) eval(expr string) (value int64, err error) {
	defer func() {
		if err != nil {
			err = &ErrParseExpression{Expr: expr, Err: err}
		}
	}()

	thread := starlark.Thread{Name: "asm"}
	thread.SetMaxExecutionSteps(EXPR_MAX_STEPS)
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for label, addr := range asm.Symbols {
		pred[label] = starlark.MakeInt(int(addr))
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}

	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseNumber(expr)
		return
	}

	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseNumber(expr)
		return
	}

	return
}

// valueOf returns the value of an operand word, either a $(...) expression
// or a literal in the given base. Literals too large for int64 are clamped,
// so that range checks report them.
func (asm *Assembler) valueOf(word string, base int) (value int64, err error) {
	expr, ok := expression(word)
	if ok {
		return asm.eval(expr)
	}

	value, err = strconv.ParseInt(word, base, 64)
	if errors.Is(err, strconv.ErrRange) {
		err = nil
	}
	if err != nil {
		err = ErrParseNumber(word)
	}

	return
}
