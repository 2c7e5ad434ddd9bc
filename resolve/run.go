package resolve

import (
	"chai/common"
	"chai/depm"
	"chai/typing"
)

// RunConstantResolution implements spec.md §4.1 end to end: a parallel
// pre-walk over every file followed by the single-threaded fixpoint.
// workers<=0 runs the pre-walk synchronously. RunTreePasses does not call
// this; the dependent walks it runs are single-threaded.
func RunConstantResolution(table *common.SymbolTable, elab *typing.Elaborator, files []*depm.File, workers int) {
	results := runPreWalks(table, files, workers)
	constants, ancestors, classAliases, typeAliases := mergeSorted(results)
	runFixpoint(table, elab, constants, ancestors, classAliases, typeAliases)
}

// RunTreePasses runs the three dependent walks in the order spec.md §2
// requires: mixins before type params (a class's bounds can reference a
// mixed-in module's members), type params before signatures (a sig can
// reference a type member the previous walk just bounded). It does not run
// constant resolution or SanityCheck; Run calls those.
func RunTreePasses(table *common.SymbolTable, elab *typing.Elaborator, proj *depm.Project, files []*depm.File) {
	ResolveMixesInClassMethods(files)
	ResolveTypeParams(table, elab, files)
	ResolveSignatures(table, elab, proj, files)
}

// Run is the full pipeline: constant resolution, then the dependent walks,
// then, when debug is true, the sanity check.
// workers controls the pre-walk's parallelism; workers<=0 runs it
// synchronously, which is also what makes Run itself safe to call
// repeatedly from a determinism/parallelism-equivalence test with
// different worker counts over the same input.
func Run(table *common.SymbolTable, proj *depm.Project, files []*depm.File, workers int, debug bool) {
	elab := typing.NewElaborator(table)

	RunConstantResolution(table, elab, files, workers)
	RunTreePasses(table, elab, proj, files)

	if debug {
		SanityCheck(files)
	}
}
