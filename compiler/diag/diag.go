// Package diag renders compiler diagnostics and owns the process exit
// taxonomy. Invariant violations are compiler bugs, not user mistakes,
// and leave the process through their own exit status so scripts and
// bootstrap harnesses can tell the two apart.
package diag

import (
	"fmt"

	"github.com/pterm/pterm"
	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/southwarridev/ovie-sub003/compiler/ast"
	"github.com/southwarridev/ovie-sub003/compiler/verify"
)

// Process exit statuses.
const (
	ExitOK        = 0
	ExitUsage     = 1
	ExitInvariant = 70 // EX_SOFTWARE
)

var (
	ErrorColorFG = pterm.FgRed
	ErrorStyleBG = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG  = pterm.FgLightGreen
)

// CompileError is a diagnosed defect in the user's source program.
type CompileError struct {
	Path string
	Span ast.Span
	Msg  string
}

func (e CompileError) Error() string {
	if e.Path == "" {
		return e.Msg
	}

	return fmt.Sprintf("%v:%v: %v", e.Path, e.Span.Pos, e.Msg)
}

// InvariantError carries verifier violations across the error chain.
// It always means a stage before the verifier misbehaved.
type InvariantError struct {
	Violations []verify.Violation
}

func (e InvariantError) Error() string {
	if len(e.Violations) == 1 {
		return "invariant violation"
	}

	return fmt.Sprintf("%v invariant violations", len(e.Violations))
}

// Report renders err for the terminal and returns the exit status the
// process must carry.
func Report(err error) int {
	if err == nil {
		return ExitOK
	}

	tlog.V("diag").Printw("reporting", "err", err, "from", loc.Caller(1))

	var inv InvariantError
	if errors.As(err, &inv) {
		reportInvariant(inv)

		return ExitInvariant
	}

	var ce CompileError
	if errors.As(err, &ce) {
		printError("Compile Error", ce)

		return ExitUsage
	}

	printError("Error", err)

	return ExitUsage
}

func printError(tag string, err error) {
	ErrorStyleBG.Print(tag)
	ErrorColorFG.Println(" " + err.Error())
}

const invariantPostlude = `
This is a bug in the ovie compiler, not in your source program.
Please open an issue on Github: github.com/southwarridev/ovie-sub003`

func reportInvariant(e InvariantError) {
	pterm.Println()

	ErrorStyleBG.Print("Internal Compiler Error")
	ErrorColorFG.Println(" " + e.Error())

	for _, v := range e.Violations {
		pterm.Println("  " + v.String())
	}

	InfoColorFG.Println(invariantPostlude)
}
