package compiler

import (
	"context"
	"crypto/sha256"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/southwarridev/ovie-sub003/compiler/ast"
	"github.com/southwarridev/ovie-sub003/compiler/diag"
	"github.com/southwarridev/ovie-sub003/compiler/mir"
	"github.com/southwarridev/ovie-sub003/compiler/profile"
	"github.com/southwarridev/ovie-sub003/compiler/verify"
)

// Version is stamped into artifact metadata as "ovie <Version>".
const Version = "0.4.0"

// Accept gates a freshly parsed tree into the middle end. The front
// end must hand over a purely syntactic tree, anything else is a bug
// in the front end.
func Accept(ctx context.Context, file *ast.File) error {
	if file == nil {
		return nil
	}

	if v := verify.SyntaxTree(file); v != nil {
		return diag.InvariantError{Violations: []verify.Violation{*v}}
	}

	tlog.SpanFromContext(ctx).Printw("syntax tree accepted", "path", file.Path, "decls", len(file.Decls))

	return nil
}

// Finalize stamps the program's metadata, verifies the optimizer and
// lowering contracts, and seals the artifact. The returned sum
// fingerprints the artifact, two bootstrap generations compare equal
// exactly when their sums do.
func Finalize(ctx context.Context, prof *profile.Profile, p *mir.Program) (artifact []byte, sum [sha256.Size]byte, err error) {
	tr := tlog.SpawnFromContext(ctx, "finalize")
	defer tr.Finish("err", &err)

	p.Meta.Compiler = "ovie " + Version

	if prof != nil {
		if prof.Target != "" {
			p.Meta.Target = prof.Target
		}

		if prof.OptLevel >= 0 {
			p.Meta.OptLevel = prof.OptLevel
		}

		if prof.Debug != nil {
			p.Meta.Debug = *prof.Debug
		}
	}

	if vs := verify.OptimizedMIR(p); len(vs) != 0 {
		return nil, sum, diag.InvariantError{Violations: vs}
	}

	vs := verify.CompleteABI(p)
	vs = append(vs, verify.ResolvedSymbols(p)...)

	if len(vs) != 0 {
		return nil, sum, diag.InvariantError{Violations: vs}
	}

	artifact = mir.Encode(p)
	sum = sha256.Sum256(artifact)

	if tr.If("dump_mir") {
		tr.Printw("optimized mir", "listing", mir.Sprint(p))
	}

	tr.Printw("artifact sealed", "size", len(artifact), "sum", tlog.FormatNext("%x"), sum)

	return artifact, sum, nil
}

// LoadFile reads and decodes an artifact produced by Finalize.
func LoadFile(ctx context.Context, name string) (*mir.Program, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read artifact")
	}

	tlog.SpanFromContext(ctx).Printw("read artifact", "size", len(data), "name", name)

	p, err := mir.Decode(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode %v", name)
	}

	return p, nil
}
