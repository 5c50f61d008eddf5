package mir

import (
	"encoding/binary"
	"math"

	"tlog.app/go/errors"

	"github.com/southwarridev/ovie-sub003/compiler/set"
)

var errTruncated = errors.New("truncated artifact")

// Decode reads a binary artifact back into a Program.
// It fails loud on foreign, truncated or structurally broken input;
// stage contracts are still the verifier's business.
func Decode(data []byte) (*Program, error) {
	d := &decoder{b: data}

	magic := d.take(len(Magic))
	if d.err == nil && string(magic) != Magic {
		return nil, errors.New("not an ovie mir artifact")
	}

	if ver := d.u32(); d.err == nil && ver != Version {
		return nil, errors.New("unsupported artifact version %v", ver)
	}

	p := NewProgram(Metadata{})

	p.Meta.Source = d.str()
	p.Meta.Compiler = d.str()
	p.Meta.Target = d.str()
	p.Meta.OptLevel = int(d.i64())
	p.Meta.Debug = d.bool()

	p.Entry = FuncID(d.i64())

	for n := d.count(); n > 0 && d.err == nil; n-- {
		g := d.global()
		if d.err != nil {
			break
		}

		if _, ok := p.globals[g.Name]; ok {
			return nil, errors.New("duplicate global %v", g.Name)
		}

		p.globals[g.Name] = g
	}

	for n := d.count(); n > 0 && d.err == nil; n-- {
		f := d.function()
		if d.err != nil {
			break
		}

		if _, ok := p.funcs[f.ID]; ok {
			return nil, errors.New("duplicate function %v", f.ID)
		}

		p.funcs[f.ID] = f

		if f.ID >= p.nextFunc {
			p.nextFunc = f.ID + 1
		}
	}

	if d.err != nil {
		return nil, d.err
	}

	if d.off != len(d.b) {
		return nil, errors.New("%v trailing bytes in artifact", len(d.b)-d.off)
	}

	if p.Entry != NoFunc {
		if _, ok := p.funcs[p.Entry]; !ok {
			return nil, errors.New("entry references unknown function %v", p.Entry)
		}
	}

	return p, nil
}

type decoder struct {
	b   []byte
	off int
	err error
}

func (d *decoder) global() *Global {
	g := &Global{
		Name: d.str(),
		Type: Type(d.u8()),
	}

	if d.bool() {
		g.Init = d.value()

		if _, ok := g.Init.(Const); d.err == nil && !ok {
			d.err = errors.New("global %v: constant initializer required", g.Name)
		}
	}

	if d.err == nil && g.Name == "" {
		d.err = errors.New("unnamed global")
	}

	return g
}

func (d *decoder) function() *Function {
	f := &Function{
		ID:     FuncID(d.i64()),
		Name:   d.str(),
		Ret:    Type(d.u8()),
		blocks: map[BlockID]*Block{},
	}

	if d.err == nil && f.ID < 0 {
		d.err = errors.New("negative function id %v", f.ID)
		return f
	}

	for n := d.count(); n > 0 && d.err == nil; n-- {
		f.Params = append(f.Params, Parameter{Name: d.str(), Type: Type(d.u8())})
	}

	for n := d.count(); n > 0 && d.err == nil; n-- {
		f.Locals = append(f.Locals, Local{Name: d.str(), Type: Type(d.u8())})
	}

	f.Entry = BlockID(d.i64())

	var ids set.Bits[InstrID]

	for n := d.count(); n > 0 && d.err == nil; n-- {
		blk := d.block(f, &ids)
		if d.err != nil {
			break
		}

		if _, ok := f.blocks[blk.ID]; ok {
			d.err = errors.New("duplicate block %v in function %v", blk.ID, f.ID)
			break
		}

		f.blocks[blk.ID] = blk

		if blk.ID >= f.nextBlock {
			f.nextBlock = blk.ID + 1
		}
	}

	return f
}

func (d *decoder) block(f *Function, ids *set.Bits[InstrID]) *Block {
	blk := &Block{
		ID:    BlockID(d.i64()),
		Label: d.str(),
	}

	if d.err == nil && blk.ID < 0 {
		d.err = errors.New("negative block id %v", blk.ID)
		return blk
	}

	for n := d.count(); n > 0 && d.err == nil; n-- {
		ins := d.instr(f, ids)
		if d.err != nil {
			break
		}

		blk.Code = append(blk.Code, ins)
	}

	blk.Term = d.term()

	return blk
}

func (d *decoder) instr(f *Function, ids *set.Bits[InstrID]) Instruction {
	ins := Instruction{
		ID:     InstrID(d.i64()),
		Op:     Op(d.u8()),
		Callee: d.str(),
		Result: Type(d.u8()),
	}

	if d.err != nil {
		return ins
	}

	if ins.ID < 0 {
		d.err = errors.New("negative instruction id %v", ins.ID)
		return ins
	}

	if ids.IsSet(ins.ID) {
		d.err = errors.New("duplicate instruction %v in function %v", ins.ID, f.ID)
		return ins
	}

	ids.Set(ins.ID)

	if ins.ID >= f.nextInstr {
		f.nextInstr = ins.ID + 1
	}

	for n := d.count(); n > 0 && d.err == nil; n-- {
		ins.Operands = append(ins.Operands, d.value())
	}

	return ins
}

func (d *decoder) term() Terminator {
	switch k := d.u8(); k {
	case termNone:
		return nil
	case termRet:
		t := Ret{}

		if d.bool() {
			t.Value = d.value()
		}

		return t
	case termJump:
		return Jump{To: BlockID(d.i64())}
	case termBranch:
		t := Branch{}

		if d.bool() {
			t.Cond = d.value()
		}

		t.Then = BlockID(d.i64())
		t.Else = BlockID(d.i64())

		return t
	default:
		if d.err == nil {
			d.err = errors.New("unknown terminator kind %v", k)
		}

		return nil
	}
}

func (d *decoder) value() Value {
	switch k := d.u8(); k {
	case valConst:
		c := Const{Kind: ConstKind(d.u8())}

		switch c.Kind {
		case ConstInt:
			c.Int = d.i64()
		case ConstFloat:
			c.Float = math.Float64frombits(d.u64())
		case ConstBool:
			c.Bool = d.bool()
		case ConstString:
			c.Str = d.str()
		default:
			if d.err == nil {
				d.err = errors.New("unknown constant kind %v", c.Kind)
			}
		}

		return c
	case valRef:
		return Ref(d.i64())
	case valGlobal:
		return GlobalRef(d.str())
	case valNil:
		return nil
	default:
		if d.err == nil {
			d.err = errors.New("unknown value kind %v", k)
		}

		return nil
	}
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}

	if d.off+n > len(d.b) {
		d.err = errTruncated
		return nil
	}

	v := d.b[d.off : d.off+n]
	d.off += n

	return v
}

func (d *decoder) u8() byte {
	v := d.take(1)
	if v == nil {
		return 0
	}

	return v[0]
}

func (d *decoder) bool() bool {
	return d.u8() != 0
}

func (d *decoder) u32() uint32 {
	v := d.take(4)
	if v == nil {
		return 0
	}

	return binary.LittleEndian.Uint32(v)
}

func (d *decoder) u64() uint64 {
	v := d.take(8)
	if v == nil {
		return 0
	}

	return binary.LittleEndian.Uint64(v)
}

func (d *decoder) i64() int64 {
	return int64(d.u64())
}

// count reads a collection length and bounds it by the bytes left,
// so corrupt input cannot demand absurd allocations.
func (d *decoder) count() int {
	n := d.u32()

	if d.err == nil && int(n) > len(d.b)-d.off {
		d.err = errTruncated
		return 0
	}

	return int(n)
}

func (d *decoder) str() string {
	n := d.count()
	if n == 0 {
		return ""
	}

	return string(d.take(n))
}
