package verify

import (
	"fmt"

	"github.com/southwarridev/ovie-sub003/compiler/mir"
)

// CompleteABI checks every function carries what code generation needs
// to fix a calling convention: a name, a type on every parameter, an
// explicitly set return type. Void is a valid return type; a return
// type left unset is not.
func CompleteABI(p *mir.Program) []Violation {
	var vs []Violation

	for _, f := range p.Funcs() {
		if f.Name == "" {
			v := newViolation(StageABI, fmt.Sprintf("Function `%v` has empty name.", f.ID))
			v.Func = f.ID

			vs = append(vs, v)
		}

		for i, par := range f.Params {
			switch {
			case par.Type == mir.Unset:
				v := newViolation(StageABI, fmt.Sprintf("Function `%v` parameter `%v` has no type.", f.ID, i))
				v.Func = f.ID

				vs = append(vs, v)
			case !par.Type.Valid():
				v := newViolation(StageABI, fmt.Sprintf("Function `%v` parameter `%v` has invalid type `%v`.", f.ID, i, par.Type))
				v.Func = f.ID

				vs = append(vs, v)
			}
		}

		switch {
		case f.Ret == mir.Unset:
			v := newViolation(StageABI, fmt.Sprintf("Function `%v` has no return type.", f.ID))
			v.Func = f.ID

			vs = append(vs, v)
		case !f.Ret.Valid():
			v := newViolation(StageABI, fmt.Sprintf("Function `%v` has invalid return type `%v`.", f.ID, f.Ret))
			v.Func = f.ID

			vs = append(vs, v)
		}
	}

	return vs
}
