package mir

import (
	"fmt"
	"strconv"

	"tlog.app/go/tlog/tlwire"
)

type (
	// FuncID identifies a function within its program.
	FuncID int

	// BlockID identifies a basic block within its function.
	BlockID int

	// InstrID identifies an instruction result within its function.
	InstrID int

	// Type annotates results, parameters, globals and locals.
	// The zero value means the type was never assigned,
	// which is not the same as Void.
	Type int

	ConstKind int

	// Const is a compile-time known scalar usable inline as an operand.
	Const struct {
		Kind ConstKind

		Int   int64
		Float float64
		Bool  bool
		Str   string
	}

	// Ref is a reference to the result of an instruction in the same function.
	Ref InstrID

	// GlobalRef is a reference to a program global by name.
	GlobalRef string

	// Value is an instruction operand: Const, Ref or GlobalRef.
	// Every non-Const Value must resolve by verification time.
	Value interface {
		value()
	}

	Instruction struct {
		ID InstrID
		Op Op

		Callee   string // Call target name, empty for other opcodes
		Operands []Value
		Result   Type
	}

	// Terminator is the single control transfer ending a basic block.
	// Successors are referenced by id only, so loop back edges
	// cannot create ownership cycles.
	Terminator interface {
		Targets() []BlockID
		term()
	}

	Ret struct {
		Value Value // nil for a bare return
	}

	Jump struct {
		To BlockID
	}

	Branch struct {
		Cond Value
		Then BlockID
		Else BlockID
	}

	Block struct {
		ID    BlockID
		Label string

		Code []Instruction
		Term Terminator // nil signals dead code
	}
)

const (
	NoFunc  FuncID  = -1
	NoBlock BlockID = -1
	NoInstr InstrID = -1
)

const (
	Unset Type = iota
	Void
	Bool
	Int
	Float
	String
	Ptr
)

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstBool
	ConstString
)

func IntConst(v int64) Const { return Const{Kind: ConstInt, Int: v} }

func FloatConst(v float64) Const { return Const{Kind: ConstFloat, Float: v} }

func BoolConst(v bool) Const { return Const{Kind: ConstBool, Bool: v} }

func StringConst(v string) Const { return Const{Kind: ConstString, Str: v} }

func (Const) value()     {}
func (Ref) value()       {}
func (GlobalRef) value() {}

func (Ret) term()    {}
func (Jump) term()   {}
func (Branch) term() {}

func (Ret) Targets() []BlockID { return nil }

func (t Jump) Targets() []BlockID { return []BlockID{t.To} }

func (t Branch) Targets() []BlockID { return []BlockID{t.Then, t.Else} }

func (t Type) Valid() bool {
	return t > Unset && t <= Ptr
}

func (t Type) Numeric() bool {
	return t == Int || t == Float
}

func (t Type) String() string {
	switch t {
	case Unset:
		return "unset"
	case Void:
		return "void"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Ptr:
		return "ptr"
	}

	return fmt.Sprintf("type(%d)", int(t))
}

func (c Const) String() string {
	switch c.Kind {
	case ConstInt:
		return strconv.FormatInt(c.Int, 10)
	case ConstFloat:
		return strconv.FormatFloat(c.Float, 'g', -1, 64)
	case ConstBool:
		return strconv.FormatBool(c.Bool)
	case ConstString:
		return strconv.Quote(c.Str)
	}

	return fmt.Sprintf("const(%d)", int(c.Kind))
}

func (r Ref) String() string {
	return "%" + strconv.Itoa(int(r))
}

func (g GlobalRef) String() string {
	return "@" + string(g)
}

func (i Instruction) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, -1)

	b = e.AppendKeyInt(b, "id", int(i.ID))
	b = e.AppendKeyString(b, "op", i.Op.String())

	if i.Callee != "" {
		b = e.AppendKeyString(b, "callee", i.Callee)
	}

	b = e.AppendKey(b, "args")
	b = e.AppendTag(b, tlwire.Array, len(i.Operands))

	for _, a := range i.Operands {
		b = e.AppendString(b, valueString(a))
	}

	b = e.AppendKeyString(b, "type", i.Result.String())

	b = e.AppendBreak(b)

	return b
}

func valueString(v Value) string {
	switch v := v.(type) {
	case Const:
		return v.String()
	case Ref:
		return v.String()
	case GlobalRef:
		return v.String()
	case nil:
		return "nil"
	}

	return fmt.Sprintf("value(%T)", v)
}
