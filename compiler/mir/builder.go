package mir

import (
	"tlog.app/go/errors"
)

// Builder is the mutation surface of the single in-flight compilation.
// It holds the fresh-id counters: ids grow monotonically and deleted
// ones are tombstoned, never handed out again.
//
// The Builder enforces opcode contracts and container discipline.
// Signature completeness and reference resolution are deliberately not
// enforced here, the verifier owns those contracts at its stage gates.
type Builder struct {
	p *Program
}

func NewBuilder(meta Metadata) *Builder {
	return &Builder{
		p: NewProgram(meta),
	}
}

func (b *Builder) Program() *Program {
	return b.p
}

func (b *Builder) NewFunc(name string) *Function {
	f := &Function{
		ID:     b.p.nextFunc,
		Name:   name,
		Entry:  NoBlock,
		blocks: map[BlockID]*Block{},
	}

	b.p.nextFunc++
	b.p.funcs[f.ID] = f

	return f
}

func (b *Builder) NewGlobal(name string, tp Type, init Value) (*Global, error) {
	if name == "" {
		return nil, errors.New("empty global name")
	}

	if _, ok := b.p.globals[name]; ok {
		return nil, errors.New("global %v redefined", name)
	}

	if init != nil {
		if _, ok := init.(Const); !ok {
			return nil, errors.New("global %v: constant initializer required", name)
		}
	}

	g := &Global{
		Name: name,
		Type: tp,
		Init: init,
	}

	b.p.globals[name] = g

	return g, nil
}

// NewBlock allocates a fresh block. The first block of a function
// becomes its entry block.
func (b *Builder) NewBlock(f *Function, label string) *Block {
	blk := &Block{
		ID:    f.nextBlock,
		Label: label,
	}

	f.nextBlock++
	f.blocks[blk.ID] = blk

	if f.Entry == NoBlock {
		f.Entry = blk.ID
	}

	return blk
}

// DeleteBlock tombstones a block id. The entry block cannot be deleted.
func (b *Builder) DeleteBlock(f *Function, id BlockID) error {
	if id == f.Entry {
		return errors.New("cannot delete entry block %v", id)
	}

	if _, ok := f.blocks[id]; !ok {
		return errors.New("unknown block %v", id)
	}

	delete(f.blocks, id)

	return nil
}

// NewParam declares a parameter and materializes it as a Param
// instruction in the entry block, so references to it resolve like any
// other instruction result.
func (b *Builder) NewParam(f *Function, name string, tp Type) (Ref, error) {
	if f.Entry == NoBlock {
		return Ref(NoInstr), errors.New("function %v: entry block required before parameters", f.ID)
	}

	blk, err := f.Block(f.Entry)
	if err != nil {
		return Ref(NoInstr), err
	}

	r, err := b.Append(f, blk, Param, tp)
	if err != nil {
		return Ref(NoInstr), errors.Wrap(err, "parameter %v", name)
	}

	f.Params = append(f.Params, Parameter{Name: name, Type: tp})

	return r, nil
}

func (b *Builder) NewLocal(f *Function, name string, tp Type) int {
	f.Locals = append(f.Locals, Local{Name: name, Type: tp})

	return len(f.Locals) - 1
}

func (b *Builder) Append(f *Function, blk *Block, op Op, res Type, args ...Value) (Ref, error) {
	return b.append(f, blk, op, "", res, args)
}

func (b *Builder) AppendCall(f *Function, blk *Block, callee string, res Type, args ...Value) (Ref, error) {
	return b.append(f, blk, Call, callee, res, args)
}

func (b *Builder) append(f *Function, blk *Block, op Op, callee string, res Type, args []Value) (Ref, error) {
	err := op.Check(callee, args, res)
	if err != nil {
		return Ref(NoInstr), errors.Wrap(err, "block %v", blk.ID)
	}

	ins := Instruction{
		ID:       f.nextInstr,
		Op:       op,
		Callee:   callee,
		Operands: args,
		Result:   res,
	}

	f.nextInstr++
	blk.Code = append(blk.Code, ins)

	return Ref(ins.ID), nil
}

func (b *Builder) SetRet(f *Function, tp Type) {
	f.Ret = tp
}

// SetEntry designates the program entry point function.
func (b *Builder) SetEntry(f *Function) {
	b.p.Entry = f.ID
}

// Terminator setters. Calling them again rewrites the terminator,
// which is how the optimizer redirects control flow.

func (b *Builder) Ret(blk *Block, v Value) {
	blk.Term = Ret{Value: v}
}

func (b *Builder) Jump(blk *Block, to BlockID) {
	blk.Term = Jump{To: to}
}

func (b *Builder) Branch(blk *Block, cond Value, then, els BlockID) {
	blk.Term = Branch{Cond: cond, Then: then, Else: els}
}
