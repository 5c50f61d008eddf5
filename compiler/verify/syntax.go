package verify

import (
	"fmt"

	"github.com/southwarridev/ovie-sub003/compiler/ast"
)

// SyntaxTree is the front end acceptance gate: the tree it produced
// must be purely syntactic. No resolved type annotations, no symbol
// bindings, a well-formed span on every node. The descent visits nodes
// in document order and stops at the first violation.
func SyntaxTree(file *ast.File) *Violation {
	if file == nil {
		return nil
	}

	if v := checkSpan(file); v != nil {
		return v
	}

	for _, d := range file.Decls {
		if v := checkDecl(d); v != nil {
			return v
		}
	}

	return nil
}

func checkDecl(d ast.Decl) *Violation {
	switch d := d.(type) {
	case *ast.FuncDecl:
		if v := checkSpan(d); v != nil {
			return v
		}

		if v := checkIdent(d.Name); v != nil {
			return v
		}

		for _, par := range d.Params {
			if v := checkField(par); v != nil {
				return v
			}
		}

		if v := checkTypeName(d.Ret); v != nil {
			return v
		}

		return checkBlock(d.Body)
	case *ast.GlobalDecl:
		if v := checkSpan(d); v != nil {
			return v
		}

		if v := checkIdent(d.Name); v != nil {
			return v
		}

		if v := checkTypeName(d.TypeName); v != nil {
			return v
		}

		return checkExpr(d.Init)
	default:
		v := newViolation(StageSyntax, fmt.Sprintf("Unhandled declaration node `%T`", d))

		return &v
	}
}

func checkStmt(s ast.Stmt) *Violation {
	if s == nil {
		return nil
	}

	switch s := s.(type) {
	case *ast.BlockStmt:
		return checkBlock(s)
	case *ast.VarStmt:
		if v := checkSpan(s); v != nil {
			return v
		}

		if v := checkIdent(s.Name); v != nil {
			return v
		}

		if v := checkTypeName(s.TypeName); v != nil {
			return v
		}

		return checkExpr(s.Init)
	case *ast.AssignStmt:
		if v := checkSpan(s); v != nil {
			return v
		}

		if v := checkExpr(s.LHS); v != nil {
			return v
		}

		return checkExpr(s.RHS)
	case *ast.IfStmt:
		if v := checkSpan(s); v != nil {
			return v
		}

		if v := checkExpr(s.Cond); v != nil {
			return v
		}

		if v := checkBlock(s.Then); v != nil {
			return v
		}

		return checkStmt(s.Else)
	case *ast.WhileStmt:
		if v := checkSpan(s); v != nil {
			return v
		}

		if v := checkExpr(s.Cond); v != nil {
			return v
		}

		return checkBlock(s.Body)
	case *ast.ReturnStmt:
		if v := checkSpan(s); v != nil {
			return v
		}

		return checkExpr(s.Value)
	case *ast.ExprStmt:
		if v := checkSpan(s); v != nil {
			return v
		}

		return checkExpr(s.X)
	default:
		v := newViolation(StageSyntax, fmt.Sprintf("Unhandled statement node `%T`", s))

		return &v
	}
}

func checkExpr(e ast.Expr) *Violation {
	if e == nil {
		return nil
	}

	switch e := e.(type) {
	case *ast.Ident:
		return checkIdent(e)
	case *ast.IntLit:
		if v := checkSpan(e); v != nil {
			return v
		}

		return checkAnnot(e, e.T)
	case *ast.FloatLit:
		if v := checkSpan(e); v != nil {
			return v
		}

		return checkAnnot(e, e.T)
	case *ast.BoolLit:
		if v := checkSpan(e); v != nil {
			return v
		}

		return checkAnnot(e, e.T)
	case *ast.StringLit:
		if v := checkSpan(e); v != nil {
			return v
		}

		return checkAnnot(e, e.T)
	case *ast.Unary:
		if v := checkSpan(e); v != nil {
			return v
		}

		if v := checkAnnot(e, e.T); v != nil {
			return v
		}

		return checkExpr(e.X)
	case *ast.Binary:
		if v := checkSpan(e); v != nil {
			return v
		}

		if v := checkAnnot(e, e.T); v != nil {
			return v
		}

		if v := checkExpr(e.Left); v != nil {
			return v
		}

		return checkExpr(e.Right)
	case *ast.CallExpr:
		if v := checkSpan(e); v != nil {
			return v
		}

		if v := checkAnnot(e, e.T); v != nil {
			return v
		}

		if v := checkExpr(e.Fun); v != nil {
			return v
		}

		for _, a := range e.Args {
			if v := checkExpr(a); v != nil {
				return v
			}
		}

		return nil
	default:
		v := newViolation(StageSyntax, fmt.Sprintf("Unhandled expression node `%T`", e))

		return &v
	}
}

func checkIdent(x *ast.Ident) *Violation {
	if x == nil {
		return nil
	}

	if v := checkSpan(x); v != nil {
		return v
	}

	if x.Sym != 0 {
		v := newViolation(StageSyntax, fmt.Sprintf("Symbol binding on identifier `%v` before resolution", x.Name))
		v.Span = x.Span()
		v.Symbol = x.Name

		return &v
	}

	return checkAnnot(x, x.T)
}

func checkField(x *ast.Field) *Violation {
	if x == nil {
		return nil
	}

	if v := checkSpan(x); v != nil {
		return v
	}

	if v := checkIdent(x.Name); v != nil {
		return v
	}

	return checkTypeName(x.TypeName)
}

func checkTypeName(x *ast.TypeName) *Violation {
	if x == nil {
		return nil
	}

	return checkSpan(x)
}

func checkBlock(x *ast.BlockStmt) *Violation {
	if x == nil {
		return nil
	}

	if v := checkSpan(x); v != nil {
		return v
	}

	for _, s := range x.List {
		if v := checkStmt(s); v != nil {
			return v
		}
	}

	return nil
}

func checkSpan(n ast.Node) *Violation {
	if sp := n.Span(); !sp.WellFormed() {
		v := newViolation(StageSyntax, fmt.Sprintf("Malformed source span on `%T`", n))
		v.Span = sp

		return &v
	}

	return nil
}

// checkAnnot rejects a resolved type annotation present before type
// inference ran.
func checkAnnot(n ast.Node, t ast.TypeID) *Violation {
	if t == 0 {
		return nil
	}

	v := newViolation(StageSyntax, fmt.Sprintf("Resolved type annotation on `%T` before inference", n))
	v.Span = n.Span()

	return &v
}
