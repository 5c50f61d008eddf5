package mir

import (
	"fmt"

	"tlog.app/go/errors"
)

// Op is the instruction opcode.
type Op int

const (
	BadOp Op = iota

	Param

	Add
	Sub
	Mul
	Div
	Mod
	Neg

	Eq
	Ne
	Lt
	Le
	Gt
	Ge

	Load
	Store
	Slot

	Call
)

var opNames = []string{"bad", "param", "add", "sub", "mul", "div", "mod", "neg", "eq", "ne", "lt", "le", "gt", "ge", "load", "store", "slot", "call"}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return fmt.Sprintf("op(%d)", int(op))
	}

	return opNames[op]
}

// Arithmetic reports whether op computes an arithmetic result,
// the class the optimizer must fold when all operands are constant.
// Comparisons are not arithmetic.
func (op Op) Arithmetic() bool {
	switch op {
	case Add, Sub, Mul, Div, Mod, Neg:
		return true
	}

	return false
}

func (op Op) Compare() bool {
	switch op {
	case Eq, Ne, Lt, Le, Gt, Ge:
		return true
	}

	return false
}

// Check validates an instruction shape against the opcode contract:
// operand count and form, callee presence, result type.
// Operand result types are a matter for the upstream type checker,
// not for the shape contract.
func (op Op) Check(callee string, args []Value, res Type) error {
	if op != Call && callee != "" {
		return errors.New("%v: unexpected callee %q", op, callee)
	}

	for i, a := range args {
		if a == nil {
			return errors.New("%v: nil operand %v", op, i)
		}
	}

	switch op {
	case Param:
		if err := arity(op, args, 0); err != nil {
			return err
		}
		if !res.Valid() || res == Void {
			return errors.New("param: typed result required, got %v", res)
		}
	case Add, Sub, Mul, Div, Mod:
		if err := arity(op, args, 2); err != nil {
			return err
		}
		if !res.Numeric() {
			return errors.New("%v: numeric result required, got %v", op, res)
		}
	case Neg:
		if err := arity(op, args, 1); err != nil {
			return err
		}
		if !res.Numeric() {
			return errors.New("%v: numeric result required, got %v", op, res)
		}
	case Eq, Ne, Lt, Le, Gt, Ge:
		if err := arity(op, args, 2); err != nil {
			return err
		}
		if res != Bool {
			return errors.New("%v: bool result required, got %v", op, res)
		}
	case Load:
		if err := arity(op, args, 1); err != nil {
			return err
		}
		if !addressable(args[0]) {
			return errors.New("load: address operand required, got %v", valueString(args[0]))
		}
		if !res.Valid() || res == Void {
			return errors.New("load: typed result required, got %v", res)
		}
	case Store:
		if err := arity(op, args, 2); err != nil {
			return err
		}
		if !addressable(args[0]) {
			return errors.New("store: address operand required, got %v", valueString(args[0]))
		}
		if res != Void {
			return errors.New("store: void result required, got %v", res)
		}
	case Slot:
		if err := arity(op, args, 1); err != nil {
			return err
		}
		if c, ok := args[0].(Const); !ok || c.Kind != ConstInt {
			return errors.New("slot: constant index operand required, got %v", valueString(args[0]))
		}
		if !res.Valid() || res == Void {
			return errors.New("slot: typed result required, got %v", res)
		}
	case Call:
		if callee == "" {
			return errors.New("call: empty callee")
		}
		if !res.Valid() {
			return errors.New("call: result type required, got %v", res)
		}
	default:
		return errors.New("unknown opcode %v", op)
	}

	return nil
}

func arity(op Op, args []Value, n int) error {
	if len(args) != n {
		return errors.New("%v: %v operands expected, got %v", op, n, len(args))
	}

	return nil
}

func addressable(v Value) bool {
	switch v.(type) {
	case Ref, GlobalRef:
		return true
	}

	return false
}
