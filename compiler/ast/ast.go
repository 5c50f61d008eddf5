// Package ast is the purely syntactic tree the front end hands over.
// Semantic annotations (TypeID, SymID) have slots here but stay zero
// until the later stages run; the verifier gates on that.
package ast

type (
	// Span is a half-open byte range in the source text.
	Span struct {
		Pos int
		End int
	}

	// TypeID is a resolved type annotation, assigned by type inference.
	TypeID int

	// SymID is a symbol binding annotation, assigned by name resolution.
	SymID int

	Base struct {
		Pos int
		End int
	}

	Node interface {
		Span() Span
	}

	Decl interface {
		Node
		decl()
	}

	Stmt interface {
		Node
		stmt()
	}

	Expr interface {
		Node
		expr()
	}

	File struct {
		Base `tlog:",embed"`

		Path  string
		Decls []Decl
	}

	FuncDecl struct {
		Base `tlog:",embed"`

		Name   *Ident
		Params []*Field
		Ret    *TypeName // nil when omitted
		Body   *BlockStmt
	}

	GlobalDecl struct {
		Base `tlog:",embed"`

		Name     *Ident
		TypeName *TypeName
		Init     Expr // nil when omitted
	}

	Field struct {
		Base `tlog:",embed"`

		Name     *Ident
		TypeName *TypeName
	}

	// TypeName is the source spelling of a type, not a resolved type.
	TypeName struct {
		Base `tlog:",embed"`

		Name string
	}

	BlockStmt struct {
		Base `tlog:",embed"`

		List []Stmt
	}

	VarStmt struct {
		Base `tlog:",embed"`

		Name     *Ident
		TypeName *TypeName // nil when left to inference
		Init     Expr      // nil when declared bare
	}

	AssignStmt struct {
		Base `tlog:",embed"`

		LHS Expr
		RHS Expr
	}

	IfStmt struct {
		Base `tlog:",embed"`

		Cond Expr
		Then *BlockStmt
		Else Stmt // *BlockStmt, *IfStmt or nil
	}

	WhileStmt struct {
		Base `tlog:",embed"`

		Cond Expr
		Body *BlockStmt
	}

	ReturnStmt struct {
		Base `tlog:",embed"`

		Value Expr // nil for a bare return
	}

	ExprStmt struct {
		Base `tlog:",embed"`

		X Expr
	}

	Ident struct {
		Base `tlog:",embed"`

		Name string

		T   TypeID
		Sym SymID
	}

	IntLit struct {
		Base `tlog:",embed"`

		Value int64

		T TypeID
	}

	FloatLit struct {
		Base `tlog:",embed"`

		Value float64

		T TypeID
	}

	BoolLit struct {
		Base `tlog:",embed"`

		Value bool

		T TypeID
	}

	StringLit struct {
		Base `tlog:",embed"`

		Value string

		T TypeID
	}

	Unary struct {
		Base `tlog:",embed"`

		Op string
		X  Expr

		T TypeID
	}

	Binary struct {
		Base `tlog:",embed"`

		Op    string
		Left  Expr
		Right Expr

		T TypeID
	}

	CallExpr struct {
		Base `tlog:",embed"`

		Fun  Expr
		Args []Expr

		T TypeID
	}
)

func (b Base) Span() Span { return Span{Pos: b.Pos, End: b.End} }

// WellFormed reports whether the span covers at least one byte of source.
func (s Span) WellFormed() bool {
	return s.Pos >= 0 && s.End > s.Pos
}

func (*FuncDecl) decl()   {}
func (*GlobalDecl) decl() {}

func (*BlockStmt) stmt()  {}
func (*VarStmt) stmt()    {}
func (*AssignStmt) stmt() {}
func (*IfStmt) stmt()     {}
func (*WhileStmt) stmt()  {}
func (*ReturnStmt) stmt() {}
func (*ExprStmt) stmt()   {}

func (*Ident) expr()     {}
func (*IntLit) expr()    {}
func (*FloatLit) expr()  {}
func (*BoolLit) expr()   {}
func (*StringLit) expr() {}
func (*Unary) expr()     {}
func (*Binary) expr()    {}
func (*CallExpr) expr()  {}
