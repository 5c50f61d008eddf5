package mir

import (
	"sort"

	"tlog.app/go/errors"
)

type (
	Parameter struct {
		Name string
		Type Type
	}

	Local struct {
		Name string
		Type Type
	}

	// Function is a control-flow graph of basic blocks
	// plus the signature and locals code generation needs.
	// Blocks live in a flat id-indexed collection,
	// edges are id references inside terminators.
	Function struct {
		ID   FuncID
		Name string

		Params []Parameter
		Ret    Type
		Locals []Local

		Entry BlockID

		blocks map[BlockID]*Block

		nextBlock BlockID
		nextInstr InstrID
	}

	Global struct {
		Name string
		Type Type
		Init Value // optional, always a Const when present
	}

	// Metadata describes the compilation, it is never invariant-checked.
	Metadata struct {
		Source   string
		Compiler string
		Target   string
		OptLevel int
		Debug    bool
	}

	// Program is the compilation unit passed between stages
	// and ultimately to code generation.
	Program struct {
		Meta  Metadata
		Entry FuncID // optional entry point, NoFunc when unset

		funcs   map[FuncID]*Function
		globals map[string]*Global

		nextFunc FuncID
	}
)

func NewProgram(meta Metadata) *Program {
	return &Program{
		Meta:    meta,
		Entry:   NoFunc,
		funcs:   map[FuncID]*Function{},
		globals: map[string]*Global{},
	}
}

func (p *Program) Func(id FuncID) (*Function, error) {
	f, ok := p.funcs[id]
	if !ok {
		return nil, errors.New("unknown function %v", id)
	}

	return f, nil
}

// Funcs enumerates functions sorted by id, never in map order.
func (p *Program) Funcs() []*Function {
	l := make([]*Function, 0, len(p.funcs))

	for _, f := range p.funcs {
		l = append(l, f)
	}

	sort.Slice(l, func(i, j int) bool { return l[i].ID < l[j].ID })

	return l
}

func (p *Program) Global(name string) (*Global, error) {
	g, ok := p.globals[name]
	if !ok {
		return nil, errors.New("unknown global %v", name)
	}

	return g, nil
}

// Globals enumerates globals sorted by name, never in map order.
func (p *Program) Globals() []*Global {
	l := make([]*Global, 0, len(p.globals))

	for _, g := range p.globals {
		l = append(l, g)
	}

	sort.Slice(l, func(i, j int) bool { return l[i].Name < l[j].Name })

	return l
}

func (f *Function) Block(id BlockID) (*Block, error) {
	b, ok := f.blocks[id]
	if !ok {
		return nil, errors.New("unknown block %v", id)
	}

	return b, nil
}

// Blocks enumerates basic blocks sorted by id, never in map order.
func (f *Function) Blocks() []*Block {
	l := make([]*Block, 0, len(f.blocks))

	for _, b := range f.blocks {
		l = append(l, b)
	}

	sort.Slice(l, func(i, j int) bool { return l[i].ID < l[j].ID })

	return l
}
