package mir

import (
	"fmt"
	"io"
)

// Fprint writes the canonical listing of p: functions by id, blocks by
// id, globals by name. The same program always prints the same bytes.
func Fprint(w io.Writer, p *Program) error {
	_, err := w.Write(AppendProgram(nil, p))

	return err
}

func Sprint(p *Program) string {
	return string(AppendProgram(nil, p))
}

func AppendProgram(b []byte, p *Program) []byte {
	b = fmt.Appendf(b, "program %q\n", p.Meta.Source)
	b = fmt.Appendf(b, "compiler %q\n", p.Meta.Compiler)
	b = fmt.Appendf(b, "target %q\n", p.Meta.Target)
	b = fmt.Appendf(b, "opt %d\n", p.Meta.OptLevel)
	b = fmt.Appendf(b, "debug %v\n", p.Meta.Debug)

	if p.Entry != NoFunc {
		b = fmt.Appendf(b, "entry %d\n", p.Entry)
	}

	if gs := p.Globals(); len(gs) != 0 {
		b = append(b, '\n')

		for _, g := range gs {
			b = appendGlobal(b, g)
		}
	}

	for _, f := range p.Funcs() {
		b = append(b, '\n')
		b = appendFunc(b, f)
	}

	return b
}

func appendGlobal(b []byte, g *Global) []byte {
	b = fmt.Appendf(b, "global %q %v", g.Name, g.Type)

	if g.Init != nil {
		b = fmt.Appendf(b, " = %v", valueString(g.Init))
	}

	return append(b, '\n')
}

func appendFunc(b []byte, f *Function) []byte {
	b = fmt.Appendf(b, "func %d %q (", f.ID, f.Name)

	for i, par := range f.Params {
		if i != 0 {
			b = append(b, ", "...)
		}

		b = fmt.Appendf(b, "%q %v", par.Name, par.Type)
	}

	b = fmt.Appendf(b, ") %v {\n", f.Ret)

	if f.Entry != NoBlock {
		b = fmt.Appendf(b, "\tentry %d\n", f.Entry)
	}

	for _, l := range f.Locals {
		b = fmt.Appendf(b, "\tlocal %q %v\n", l.Name, l.Type)
	}

	for _, blk := range f.Blocks() {
		b = append(b, '\n')
		b = appendBlock(b, blk)
	}

	return append(b, "}\n"...)
}

func appendBlock(b []byte, blk *Block) []byte {
	b = fmt.Appendf(b, "\tblock %d %q {\n", blk.ID, blk.Label)

	for i := range blk.Code {
		b = appendInstr(b, &blk.Code[i])
	}

	b = appendTerm(b, blk.Term)

	return append(b, "\t}\n"...)
}

func appendInstr(b []byte, ins *Instruction) []byte {
	b = fmt.Appendf(b, "\t\t%v = %v %v", Ref(ins.ID), ins.Op, ins.Result)

	if ins.Op == Call {
		b = fmt.Appendf(b, " %q", ins.Callee)
	}

	for i, a := range ins.Operands {
		if i == 0 {
			b = append(b, ' ')
		} else {
			b = append(b, ", "...)
		}

		b = append(b, valueString(a)...)
	}

	return append(b, '\n')
}

func appendTerm(b []byte, t Terminator) []byte {
	b = append(b, "\t\t"...)

	switch t := t.(type) {
	case Ret:
		b = append(b, "ret"...)

		if t.Value != nil {
			b = append(b, ' ')
			b = append(b, valueString(t.Value)...)
		}
	case Jump:
		b = fmt.Appendf(b, "jump %d", t.To)
	case Branch:
		b = fmt.Appendf(b, "branch %v, %d, %d", valueString(t.Cond), t.Then, t.Else)
	case nil:
		b = append(b, "unterminated"...)
	default:
		b = fmt.Appendf(b, "term(%T)", t)
	}

	return append(b, '\n')
}
