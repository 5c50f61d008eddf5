// Package verify is the invariant verifier: stage-scoped passes proving
// each compiler stage discharged its contract before the next stage may
// consume the program.
//
// Passes are pure functions over an immutable view of the program; they
// return violations as values and never decide formatting or exit. A
// violation always indicates a defect in an earlier compiler stage,
// never a user mistake, and is fatal at its stage boundary.
package verify

import (
	"tlog.app/go/tlog/tlwire"

	"github.com/southwarridev/ovie-sub003/compiler/ast"
	"github.com/southwarridev/ovie-sub003/compiler/mir"
)

// Stage names carried inside violations.
const (
	StageSyntax    = "syntax-tree"
	StageOptimized = "optimized-mir"
	StageABI       = "complete-abi"
	StageSymbols   = "resolved-symbols"
)

// Violation is one breached stage contract and the offending node.
// Node reference fields hold sentinels (NoFunc, NoBlock, NoInstr, empty
// string, zero span) when they do not apply.
type Violation struct {
	Stage   string
	Message string

	Func   mir.FuncID
	Block  mir.BlockID
	Instr  mir.InstrID
	Symbol string
	Span   ast.Span
}

func newViolation(stage, msg string) Violation {
	return Violation{
		Stage:   stage,
		Message: msg,
		Func:    mir.NoFunc,
		Block:   mir.NoBlock,
		Instr:   mir.NoInstr,
	}
}

func (v Violation) String() string {
	return v.Stage + ": " + v.Message
}

func (v Violation) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, -1)

	b = e.AppendKeyString(b, "stage", v.Stage)
	b = e.AppendKeyString(b, "msg", v.Message)

	if v.Func != mir.NoFunc {
		b = e.AppendKeyInt(b, "func", int(v.Func))
	}

	if v.Block != mir.NoBlock {
		b = e.AppendKeyInt(b, "block", int(v.Block))
	}

	if v.Instr != mir.NoInstr {
		b = e.AppendKeyInt(b, "instr", int(v.Instr))
	}

	if v.Symbol != "" {
		b = e.AppendKeyString(b, "symbol", v.Symbol)
	}

	if v.Span != (ast.Span{}) {
		b = e.AppendKeyInt(b, "pos", v.Span.Pos)
		b = e.AppendKeyInt(b, "end", v.Span.End)
	}

	b = e.AppendBreak(b)

	return b
}

// Program runs the three program-level passes in stage order.
// It is a thin aggregator over the independently callable passes.
func Program(p *mir.Program) []Violation {
	var vs []Violation

	vs = append(vs, OptimizedMIR(p)...)
	vs = append(vs, CompleteABI(p)...)
	vs = append(vs, ResolvedSymbols(p)...)

	return vs
}
