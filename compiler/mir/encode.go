package mir

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
)

// Artifact format. Fixed-width little-endian fields and sorted
// enumeration make the encoding byte-identical across runs and hosts,
// which bootstrap comparison depends on.
const (
	Magic   = "OMIR"
	Version = 1
)

const (
	termNone = iota
	termRet
	termJump
	termBranch
)

const (
	valConst = iota
	valRef
	valGlobal
	valNil
)

// Encode serializes p into the versioned binary artifact form.
func Encode(p *Program) []byte {
	b := append([]byte(nil), Magic...)
	b = binary.LittleEndian.AppendUint32(b, Version)

	b = appendStr(b, p.Meta.Source)
	b = appendStr(b, p.Meta.Compiler)
	b = appendStr(b, p.Meta.Target)
	b = appendI64(b, int64(p.Meta.OptLevel))
	b = appendBool(b, p.Meta.Debug)

	b = appendI64(b, int64(p.Entry))

	gs := p.Globals()

	b = binary.LittleEndian.AppendUint32(b, uint32(len(gs)))

	for _, g := range gs {
		b = appendStr(b, g.Name)
		b = append(b, byte(g.Type))
		b = appendBool(b, g.Init != nil)

		if g.Init != nil {
			b = appendValue(b, g.Init)
		}
	}

	fs := p.Funcs()

	b = binary.LittleEndian.AppendUint32(b, uint32(len(fs)))

	for _, f := range fs {
		b = encodeFunc(b, f)
	}

	return b
}

// Fingerprint is the bootstrap-comparison hash of the encoded program.
func Fingerprint(p *Program) [sha256.Size]byte {
	return sha256.Sum256(Encode(p))
}

func encodeFunc(b []byte, f *Function) []byte {
	b = appendI64(b, int64(f.ID))
	b = appendStr(b, f.Name)
	b = append(b, byte(f.Ret))

	b = binary.LittleEndian.AppendUint32(b, uint32(len(f.Params)))

	for _, par := range f.Params {
		b = appendStr(b, par.Name)
		b = append(b, byte(par.Type))
	}

	b = binary.LittleEndian.AppendUint32(b, uint32(len(f.Locals)))

	for _, l := range f.Locals {
		b = appendStr(b, l.Name)
		b = append(b, byte(l.Type))
	}

	b = appendI64(b, int64(f.Entry))

	blocks := f.Blocks()

	b = binary.LittleEndian.AppendUint32(b, uint32(len(blocks)))

	for _, blk := range blocks {
		b = encodeBlock(b, blk)
	}

	return b
}

func encodeBlock(b []byte, blk *Block) []byte {
	b = appendI64(b, int64(blk.ID))
	b = appendStr(b, blk.Label)

	b = binary.LittleEndian.AppendUint32(b, uint32(len(blk.Code)))

	for i := range blk.Code {
		b = encodeInstr(b, &blk.Code[i])
	}

	return encodeTerm(b, blk.Term)
}

func encodeInstr(b []byte, ins *Instruction) []byte {
	b = appendI64(b, int64(ins.ID))
	b = append(b, byte(ins.Op))
	b = appendStr(b, ins.Callee)
	b = append(b, byte(ins.Result))

	b = binary.LittleEndian.AppendUint32(b, uint32(len(ins.Operands)))

	for _, a := range ins.Operands {
		b = appendValue(b, a)
	}

	return b
}

func encodeTerm(b []byte, t Terminator) []byte {
	switch t := t.(type) {
	case Ret:
		b = append(b, termRet)
		b = appendBool(b, t.Value != nil)

		if t.Value != nil {
			b = appendValue(b, t.Value)
		}
	case Jump:
		b = append(b, termJump)
		b = appendI64(b, int64(t.To))
	case Branch:
		b = append(b, termBranch)
		b = appendBool(b, t.Cond != nil)

		if t.Cond != nil {
			b = appendValue(b, t.Cond)
		}

		b = appendI64(b, int64(t.Then))
		b = appendI64(b, int64(t.Else))
	default:
		b = append(b, termNone)
	}

	return b
}

func appendValue(b []byte, v Value) []byte {
	switch v := v.(type) {
	case Const:
		b = append(b, valConst, byte(v.Kind))

		switch v.Kind {
		case ConstInt:
			b = appendI64(b, v.Int)
		case ConstFloat:
			b = binary.LittleEndian.AppendUint64(b, math.Float64bits(v.Float))
		case ConstBool:
			b = appendBool(b, v.Bool)
		case ConstString:
			b = appendStr(b, v.Str)
		}
	case Ref:
		b = append(b, valRef)
		b = appendI64(b, int64(v))
	case GlobalRef:
		b = append(b, valGlobal)
		b = appendStr(b, string(v))
	default:
		b = append(b, valNil)
	}

	return b
}

func appendStr(b []byte, s string) []byte {
	b = binary.LittleEndian.AppendUint32(b, uint32(len(s)))

	return append(b, s...)
}

func appendI64(b []byte, v int64) []byte {
	return binary.LittleEndian.AppendUint64(b, uint64(v))
}

func appendBool(b []byte, v bool) []byte {
	if v {
		return append(b, 1)
	}

	return append(b, 0)
}
