package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tebeka/atexit"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/southwarridev/ovie-sub003/compiler"
	"github.com/southwarridev/ovie-sub003/compiler/diag"
	"github.com/southwarridev/ovie-sub003/compiler/mir"
	"github.com/southwarridev/ovie-sub003/compiler/profile"
	"github.com/southwarridev/ovie-sub003/compiler/verify"
)

func main() {
	checkCmd := &cli.Command{
		Name:        "check",
		Description: "verify stage invariants of compiled artifacts",
		Action:      checkAct,
		Args:        cli.Args{},
	}

	fingerprintCmd := &cli.Command{
		Name:        "fingerprint",
		Description: "print artifact fingerprints for bootstrap comparison",
		Action:      fingerprintAct,
		Args:        cli.Args{},
	}

	dumpCmd := &cli.Command{
		Name:        "dump",
		Description: "print the canonical mir listing of artifacts",
		Action:      dumpAct,
		Args:        cli.Args{},
	}

	app := &cli.Command{
		Name:        "ovie",
		Description: "ovie is a tool for checking and comparing ovie compiler artifacts",
		Commands: []*cli.Command{
			checkCmd,
			fingerprintCmd,
			dumpCmd,
		},
	}

	atexit.Register(func() { tlog.Root().Finish() })

	cli.RunAndExit(app, os.Args, os.Environ())
}

func checkAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	var prof *profile.Profile

	if name := profile.Find("."); name != "" {
		prof, err = profile.Load(name)
		if err != nil {
			return errors.Wrap(err, "profile %v", name)
		}

		tlog.Printw("profile pinned", "name", name)
	}

	broken := false

	for _, a := range c.Args {
		p, err := compiler.LoadFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "load %v", a)
		}

		err = prof.Check(p.Meta)
		if err != nil {
			return errors.Wrap(err, "%v", a)
		}

		if vs := verify.Program(p); len(vs) != 0 {
			diag.Report(diag.InvariantError{Violations: vs})

			broken = true

			continue
		}

		fmt.Printf("%v: ok\n", a)
	}

	if broken {
		atexit.Exit(diag.ExitInvariant)
	}

	return nil
}

func fingerprintAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		p, err := compiler.LoadFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "load %v", a)
		}

		sum := mir.Fingerprint(p)

		fmt.Printf("%x  %v\n", sum, a)
	}

	return nil
}

func dumpAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		p, err := compiler.LoadFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "load %v", a)
		}

		err = mir.Fprint(os.Stdout, p)
		if err != nil {
			return errors.Wrap(err, "dump %v", a)
		}
	}

	return nil
}
