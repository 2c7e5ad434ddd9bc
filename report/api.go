package report

import (
	"fmt"
	"os"

	"github.com/alecthomas/repr"
	"github.com/kr/pretty"
	"github.com/pterm/pterm"
)

// ICE reports an internal compiler error: a violated invariant of the
// resolver itself, as opposed to a mistake in the program being resolved.
// These are never expected to fire; SanityCheck (resolve/sanity_check.go) is
// built entirely out of calls to this function. ICE always terminates the
// process, matching the teacher's report.ReportICE.
func ICE(format string, args ...any) {
	pterm.Error.Printfln("internal error: %s", fmt.Sprintf(format, args...))
	os.Exit(2)
}

// Fatal reports an error that prevents the pass from running at all (a
// malformed project file, an unreadable source tree) and exits immediately,
// matching the teacher's report.ReportFatal.
func Fatal(format string, args ...any) {
	pterm.Error.Printfln("fatal: %s", fmt.Sprintf(format, args...))
	os.Exit(1)
}

// DumpSymbol renders a symbol's full payload for trace-level debugging of
// the constant-resolution fixpoint. At LogLevelVerbose it uses kr/pretty's
// multi-line struct dump; otherwise it falls back to alecthomas/repr's
// terser single-line form, which SanityCheck uses when logging a failed
// assertion so the failure message stays short.
func DumpSymbol(label string, sym any) {
	r := current()
	if r.logLevel >= LogLevelVerbose {
		fmt.Printf("%s:\n%s\n", label, pretty.Sprint(sym))
	} else {
		fmt.Printf("%s: %s\n", label, repr.String(sym))
	}
}
