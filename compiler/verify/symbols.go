package verify

import (
	"fmt"

	"github.com/southwarridev/ovie-sub003/compiler/mir"
	"github.com/southwarridev/ovie-sub003/compiler/set"
)

// ResolvedSymbols checks no dangling reference survived lowering:
// global references name declared globals, instruction references name
// instructions present in the same function, call targets name declared
// functions or globals. Code generation relies on this pass and never
// re-checks.
func ResolvedSymbols(p *mir.Program) []Violation {
	var vs []Violation

	callable := map[string]struct{}{}

	for _, f := range p.Funcs() {
		callable[f.Name] = struct{}{}
	}

	for _, g := range p.Globals() {
		callable[g.Name] = struct{}{}
	}

	for _, f := range p.Funcs() {
		vs = resolvedFunc(vs, p, f, callable)
	}

	return vs
}

func resolvedFunc(vs []Violation, p *mir.Program, f *mir.Function, callable map[string]struct{}) []Violation {
	var produced set.Bits[mir.InstrID]

	for _, blk := range f.Blocks() {
		for i := range blk.Code {
			if id := blk.Code[i].ID; id >= 0 {
				produced.Set(id)
			}
		}
	}

	for _, blk := range f.Blocks() {
		for i := range blk.Code {
			ins := &blk.Code[i]

			for _, a := range ins.Operands {
				vs = resolvedValue(vs, p, produced, a, f.ID, blk.ID, ins.ID)
			}

			if ins.Op != mir.Call {
				continue
			}

			if _, ok := callable[ins.Callee]; !ok {
				v := newViolation(StageSymbols, fmt.Sprintf("Unresolved function call `%v`", ins.Callee))
				v.Func, v.Block, v.Instr = f.ID, blk.ID, ins.ID
				v.Symbol = ins.Callee

				vs = append(vs, v)
			}
		}

		switch t := blk.Term.(type) {
		case mir.Ret:
			vs = resolvedValue(vs, p, produced, t.Value, f.ID, blk.ID, mir.NoInstr)
		case mir.Branch:
			vs = resolvedValue(vs, p, produced, t.Cond, f.ID, blk.ID, mir.NoInstr)
		}
	}

	return vs
}

func resolvedValue(vs []Violation, p *mir.Program, produced set.Bits[mir.InstrID], val mir.Value, fid mir.FuncID, bid mir.BlockID, iid mir.InstrID) []Violation {
	switch val := val.(type) {
	case mir.Ref:
		if id := mir.InstrID(val); id < 0 || !produced.IsSet(id) {
			v := newViolation(StageSymbols, fmt.Sprintf("Unresolved instruction reference `%v`", int(val)))
			v.Func, v.Block, v.Instr = fid, bid, iid

			vs = append(vs, v)
		}
	case mir.GlobalRef:
		if _, err := p.Global(string(val)); err != nil {
			v := newViolation(StageSymbols, fmt.Sprintf("Unresolved global symbol `%v`", string(val)))
			v.Func, v.Block, v.Instr = fid, bid, iid
			v.Symbol = string(val)

			vs = append(vs, v)
		}
	}

	return vs
}
