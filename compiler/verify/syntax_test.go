package verify_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/southwarridev/ovie-sub003/compiler/ast"
	"github.com/southwarridev/ovie-sub003/compiler/verify"
)

// sourceFile builds the tree for a one-function source:
// func main(x int) int { return x + 1 }
func sourceFile() *ast.File {
	return &ast.File{
		Base: ast.Base{Pos: 0, End: 38},
		Path: "main.ovie",
		Decls: []ast.Decl{
			&ast.FuncDecl{
				Base: ast.Base{Pos: 0, End: 38},
				Name: &ast.Ident{Base: ast.Base{Pos: 5, End: 9}, Name: "main"},
				Params: []*ast.Field{{
					Base:     ast.Base{Pos: 10, End: 15},
					Name:     &ast.Ident{Base: ast.Base{Pos: 10, End: 11}, Name: "x"},
					TypeName: &ast.TypeName{Base: ast.Base{Pos: 12, End: 15}, Name: "int"},
				}},
				Ret: &ast.TypeName{Base: ast.Base{Pos: 17, End: 20}, Name: "int"},
				Body: &ast.BlockStmt{
					Base: ast.Base{Pos: 21, End: 38},
					List: []ast.Stmt{
						&ast.ReturnStmt{
							Base: ast.Base{Pos: 23, End: 36},
							Value: &ast.Binary{
								Base:  ast.Base{Pos: 30, End: 35},
								Op:    "+",
								Left:  &ast.Ident{Base: ast.Base{Pos: 30, End: 31}, Name: "x"},
								Right: &ast.IntLit{Base: ast.Base{Pos: 34, End: 35}, Value: 1},
							},
						},
					},
				},
			},
		},
	}
}

var _ = Describe("SyntaxTree", func() {
	var (
		file *ast.File
		fn   *ast.FuncDecl
	)

	BeforeEach(func() {
		file = sourceFile()
		fn = file.Decls[0].(*ast.FuncDecl)
	})

	It("accepts a purely syntactic tree", func() {
		Expect(verify.SyntaxTree(file)).To(BeNil())
	})

	It("accepts no tree at all", func() {
		Expect(verify.SyntaxTree(nil)).To(BeNil())
	})

	It("tolerates omitted optional nodes", func() {
		fn.Ret = nil
		fn.Body.List = append(fn.Body.List,
			&ast.VarStmt{
				Base: ast.Base{Pos: 23, End: 28},
				Name: &ast.Ident{Base: ast.Base{Pos: 27, End: 28}, Name: "y"},
			},
			&ast.IfStmt{
				Base: ast.Base{Pos: 23, End: 36},
				Cond: &ast.BoolLit{Base: ast.Base{Pos: 26, End: 30}, Value: true},
				Then: &ast.BlockStmt{Base: ast.Base{Pos: 31, End: 36}},
			},
		)

		Expect(verify.SyntaxTree(file)).To(BeNil())
	})

	It("rejects a resolved type annotation", func() {
		ret := fn.Body.List[0].(*ast.ReturnStmt)
		bin := ret.Value.(*ast.Binary)

		bin.T = 7

		v := verify.SyntaxTree(file)

		Expect(v).NotTo(BeNil())
		Expect(v.Stage).To(Equal(verify.StageSyntax))
		Expect(v.Message).To(Equal("Resolved type annotation on `*ast.Binary` before inference"))
		Expect(v.Span).To(Equal(ast.Span{Pos: 30, End: 35}))
	})

	It("rejects a symbol binding", func() {
		fn.Name.Sym = 3

		v := verify.SyntaxTree(file)

		Expect(v).NotTo(BeNil())
		Expect(v.Message).To(Equal("Symbol binding on identifier `main` before resolution"))
		Expect(v.Symbol).To(Equal("main"))
		Expect(v.Span).To(Equal(ast.Span{Pos: 5, End: 9}))
	})

	It("rejects a malformed span", func() {
		ret := fn.Body.List[0].(*ast.ReturnStmt)

		ret.End = ret.Pos

		v := verify.SyntaxTree(file)

		Expect(v).NotTo(BeNil())
		Expect(v.Message).To(Equal("Malformed source span on `*ast.ReturnStmt`"))
	})

	It("reports the first violation in document order", func() {
		fn.Name.Sym = 1

		ret := fn.Body.List[0].(*ast.ReturnStmt)
		ret.Value.(*ast.Binary).T = 5

		v := verify.SyntaxTree(file)

		Expect(v).NotTo(BeNil())
		Expect(v.Message).To(Equal("Symbol binding on identifier `main` before resolution"))
	})

	It("descends into call arguments", func() {
		ret := fn.Body.List[0].(*ast.ReturnStmt)

		arg := &ast.IntLit{Base: ast.Base{Pos: 34, End: 35}, Value: 2, T: 4}
		ret.Value = &ast.CallExpr{
			Base: ast.Base{Pos: 30, End: 36},
			Fun:  &ast.Ident{Base: ast.Base{Pos: 30, End: 33}, Name: "inc"},
			Args: []ast.Expr{arg},
		}

		v := verify.SyntaxTree(file)

		Expect(v).NotTo(BeNil())
		Expect(v.Message).To(Equal("Resolved type annotation on `*ast.IntLit` before inference"))
	})
})
