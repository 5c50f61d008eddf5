package verify

import (
	"fmt"

	"nikand.dev/go/heap"

	"github.com/southwarridev/ovie-sub003/compiler/mir"
	"github.com/southwarridev/ovie-sub003/compiler/set"
)

// OptimizedMIR checks the optimizer discharged its completion contract:
// every block is reachable from its function's entry, every block ends
// in a terminator whose targets exist, and no arithmetic instruction
// survived with two constant operands.
// It runs once, after optimization, before backend lowering.
func OptimizedMIR(p *mir.Program) []Violation {
	var vs []Violation

	for _, f := range p.Funcs() {
		vs = optimizedFunc(vs, f)
	}

	return vs
}

func optimizedFunc(vs []Violation, f *mir.Function) []Violation {
	if f.Entry == mir.NoBlock {
		v := newViolation(StageOptimized, fmt.Sprintf("Function `%v` has no entry block", f.Name))
		v.Func = f.ID

		return append(vs, v)
	}

	if _, err := f.Block(f.Entry); err != nil {
		v := newViolation(StageOptimized, fmt.Sprintf("Function `%v` entry references unknown block `%v`", f.Name, f.Entry))
		v.Func, v.Block = f.ID, f.Entry

		vs = append(vs, v)
	}

	reach := reachable(f)

	for _, blk := range f.Blocks() {
		if !reach.IsSet(blk.ID) {
			v := newViolation(StageOptimized, fmt.Sprintf("Unreachable basic block `%v` in function `%v`", blk.ID, f.Name))
			v.Func, v.Block = f.ID, blk.ID

			vs = append(vs, v)
		}

		for i := range blk.Code {
			ins := &blk.Code[i]

			if !unfolded(ins) {
				continue
			}

			v := newViolation(StageOptimized, fmt.Sprintf("Constant folding not applied at instruction `%v`", ins.ID))
			v.Func, v.Block, v.Instr = f.ID, blk.ID, ins.ID

			vs = append(vs, v)
		}

		if blk.Term == nil {
			v := newViolation(StageOptimized, fmt.Sprintf("Basic block `%v` in function `%v` has no terminator", blk.ID, f.Name))
			v.Func, v.Block = f.ID, blk.ID

			vs = append(vs, v)

			continue
		}

		for _, next := range blk.Term.Targets() {
			if _, err := f.Block(next); err != nil {
				v := newViolation(StageOptimized, fmt.Sprintf("Terminator of basic block `%v` references unknown block `%v` in function `%v`", blk.ID, next, f.Name))
				v.Func, v.Block = f.ID, blk.ID

				vs = append(vs, v)
			}
		}
	}

	return vs
}

// unfolded reports an arithmetic instruction over two constant
// operands, which the optimizer was obliged to fold away.
func unfolded(ins *mir.Instruction) bool {
	if !ins.Op.Arithmetic() || len(ins.Operands) != 2 {
		return false
	}

	for _, a := range ins.Operands {
		if _, ok := a.(mir.Const); !ok {
			return false
		}
	}

	return true
}

// reachable walks terminator edges from the entry block.
// The worklist pops the smallest pending block id first, so the walk
// order, and every violation list derived from it, is deterministic.
func reachable(f *mir.Function) set.Bits[mir.BlockID] {
	var seen set.Bits[mir.BlockID]

	if f.Entry < 0 {
		return seen
	}

	q := heap.Heap[mir.BlockID]{Less: blockOrder}

	q.Push(f.Entry)
	seen.Set(f.Entry)

	for q.Len() != 0 {
		blk, err := f.Block(q.Pop())
		if err != nil {
			continue
		}

		if blk.Term == nil {
			continue
		}

		for _, next := range blk.Term.Targets() {
			if next < 0 || seen.IsSet(next) {
				continue
			}

			seen.Set(next)
			q.Push(next)
		}
	}

	return seen
}

func blockOrder(d []mir.BlockID, i, j int) bool { return d[i] < d[j] }
