package resolve

import (
	"chai/common"
	"chai/depm"
	"chai/report"
	"chai/typing"
)

// reduceInPlace runs reduce over every item, keeping only the ones that
// didn't complete; it reports whether anything completed this pass, which
// is exactly the "progress" signal the fixpoint loop watches.
func reduceInPlace[T any](items []T, reduce func(T) bool) ([]T, bool) {
	progress := false
	remaining := items[:0]
	for _, it := range items {
		if reduce(it) {
			progress = true
		} else {
			remaining = append(remaining, it)
		}
	}
	return remaining, progress
}

// reduceConstantJob attempts the resolution primitive again; an unresolved
// scope or type-alias-as-scope is an error reported only from here (the
// single-threaded phase), never from the parallel pre-walk, so that error
// ordering never depends on worker scheduling.
func reduceConstantJob(table *common.SymbolTable, job *constantJob) bool {
	sym, status := resolveConstant(table, job.nesting, job.out)
	switch status {
	case statusResolved:
		return finishIfReady(job.out, sym)

	case statusDynamicConstant:
		report.BeginError(job.file.Ctx, job.out.Span(), report.CodeDynamicConstant).
			SetHeader("scope of constant %q is not itself a constant", job.out.Original.Name).
			Report()
		job.out.Symbol = table.UntypedSym
		return true

	case statusConstantInTypeAlias:
		report.BeginError(job.file.Ctx, job.out.Span(), report.CodeConstantInTypeAlias).
			SetHeader("scope of constant %q is a type alias", job.out.Original.Name).
			Report()
		job.out.Symbol = table.UntypedSym
		return true

	default:
		return false
	}
}

func reduceAncestorJobPass(table *common.SymbolTable, job *ancestorJob) bool {
	return reduceAncestorJob(table, job, false)
}

// reduceAncestorJob implements spec.md §4.1's ancestor-job reducer.
// lastRun=true is the failure path's final substitution pass (§4.1 step 3).
func reduceAncestorJob(table *common.SymbolTable, job *ancestorJob, lastRun bool) bool {
	lit := job.ancestor

	// An ancestor whose own constant reference failed to resolve shows up
	// here as StubModule (constantResolutionFailed's stub); treat that the
	// same as still-unresolved rather than as a "successfully resolved to
	// a module" ancestor, so no second, confusing error is reported for
	// the same root cause (spec.md §9 open question (b)).
	if !lit.Resolved() || lit.Symbol == table.StubModule {
		if !lastRun {
			return false
		}
		substituteAncestorStub(table, job)
		return true
	}

	dealiased := table.Dealias(lit.Symbol)

	wantKind := common.KindModule
	if job.isSuperclass {
		wantKind = common.KindClass
	}

	if dealiased.Kind == common.KindTypeAlias || dealiased.Kind != wantKind {
		if !lastRun {
			return false
		}
		report.BeginError(job.file.Ctx, lit.Span(), report.CodeDynamicSuperclass).
			SetHeader("%q is not a valid ancestor here", dealiased.Name).
			Report()
		substituteAncestorStub(table, job)
		return true
	}

	if dealiased == job.klass || table.DerivesFrom(dealiased, job.klass) {
		report.BeginError(job.file.Ctx, lit.Span(), report.CodeCircularDependency).
			SetHeader("circular inheritance involving %q", job.klass.Name).
			Report()
		substituteAncestorStub(table, job)
		return true
	}

	attachAncestor(table, job, dealiased)
	return true
}

func attachAncestor(table *common.SymbolTable, job *ancestorJob, resolved *common.Symbol) {
	if job.isSuperclass {
		if !table.SetSuperClass(job.klass, resolved) {
			report.BeginError(job.file.Ctx, job.ancestor.Span(), report.CodeRedefinitionOfParents).
				SetHeader("%q already has a different superclass", job.klass.Name).
				Report()
			return
		}
	} else {
		table.AppendMixin(job.klass, resolved)
	}
	if resolved.Sealed {
		table.RecordSealedSubclass(resolved, job.klass)
	}
}

func substituteAncestorStub(table *common.SymbolTable, job *ancestorJob) {
	if job.isSuperclass {
		table.SetSuperClass(job.klass, table.StubSuperClass)
	} else {
		table.AppendMixin(job.klass, table.StubMixin)
	}
}

// reduceClassAliasJob implements spec.md §4.1's class-alias-job reducer.
func reduceClassAliasJob(table *common.SymbolTable, job *classAliasJob) bool {
	if !job.rhs.Resolved() {
		return false
	}
	if job.rhs.Symbol.Kind == common.KindTypeAlias {
		report.BeginError(job.file.Ctx, job.rhs.Span(), report.CodeReassignsTypeAlias).
			SetHeader("%q is a type alias and cannot be used as a class-alias target", job.rhs.Symbol.Name).
			Report()
		job.lhs.ResultType = common.Untyped
		return true
	}
	if table.Dealias(job.rhs.Symbol) == job.lhs {
		report.BeginError(job.file.Ctx, job.rhs.Span(), report.CodeRecursiveClassAlias).
			SetHeader("%q aliases itself", job.lhs.Name).
			Report()
		job.lhs.ResultType = common.Untyped
		return true
	}
	job.lhs.ResultType = &common.AliasType{Target: job.rhs.Symbol}
	return true
}

// reduceTypeAliasJob implements spec.md §4.1's type-alias-job reducer.
func reduceTypeAliasJob(table *common.SymbolTable, elab *typing.Elaborator, job *typeAliasJob) bool {
	if classHasTypeMembers(job.owner) {
		job.lhs.ResultType = common.Untyped
		return true
	}
	if !typing.IsFullyResolved(job.rhs) {
		return false
	}
	job.lhs.ResultType = elab.GetResultType(job.file.Ctx, job.rhs, typing.Args{
		AllowSelfType:   true,
		AllowRebind:     false,
		AllowTypeMember: true,
		Owner:           job.lhs,
	})
	return true
}

func classHasTypeMembers(owner *common.Symbol) bool {
	if owner == nil {
		return false
	}
	for _, m := range owner.Members {
		if m.Kind == common.KindTypeMember {
			return true
		}
	}
	return false
}

// runFixpoint is the single-threaded loop from spec.md §4.1: ancestors are
// tried first each iteration because resolving one typically unblocks many
// constant lookups that transit the ancestor chain.
func runFixpoint(
	table *common.SymbolTable,
	elab *typing.Elaborator,
	constants []*constantJob,
	ancestors []*ancestorJob,
	classAliases []*classAliasJob,
	typeAliases []*typeAliasJob,
) {
	progress, first := true, true
	for progress && (first || len(constants)+len(ancestors)+len(classAliases)+len(typeAliases) > 0) {
		first = false

		var p1, p2, p3, p4 bool
		ancestors, p1 = reduceInPlace(ancestors, func(j *ancestorJob) bool { return reduceAncestorJobPass(table, j) })
		constants, p2 = reduceInPlace(constants, func(j *constantJob) bool { return reduceConstantJob(table, j) })
		classAliases, p3 = reduceInPlace(classAliases, func(j *classAliasJob) bool { return reduceClassAliasJob(table, j) })
		typeAliases, p4 = reduceInPlace(typeAliases, func(j *typeAliasJob) bool { return reduceTypeAliasJob(table, elab, j) })
		progress = p1 || p2 || p3 || p4
	}

	if len(constants) == 0 && len(ancestors) == 0 {
		return
	}

	sortConstantJobs(constants)
	sortAncestorJobs(ancestors)

	for _, j := range constants {
		finalizeConstantJob(table, j)
	}
	for _, j := range ancestors {
		reduceAncestorJob(table, j, true)
	}

	// Stubbing the remaining constants/ancestors can unblock class-alias
	// and type-alias jobs that were waiting on them; sweep until dry so
	// every alias still ends up total (spec.md §3 invariants).
	for {
		var p3, p4 bool
		classAliases, p3 = reduceInPlace(classAliases, func(j *classAliasJob) bool { return reduceClassAliasJob(table, j) })
		typeAliases, p4 = reduceInPlace(typeAliases, func(j *typeAliasJob) bool { return reduceTypeAliasJob(table, elab, j) })
		if !(p3 || p4) {
			break
		}
	}
}

// runPreWalks implements spec.md §5's parallel pre-walk phase: files are
// drained from a bounded queue by N workers, each producing a preWalkResult
// to a bounded result queue; the caller waits for all of them before
// touching the symbol table. workers<=0 runs synchronously on the calling
// goroutine.
func runPreWalks(table *common.SymbolTable, files []*depm.File, workers int) []*preWalkResult {
	results := make([]*preWalkResult, len(files))

	if workers <= 0 {
		for i, f := range files {
			results[i] = preWalkFile(table, f)
		}
		return results
	}

	type indexed struct {
		i int
		f *depm.File
	}
	work := make(chan indexed, len(files))
	for i, f := range files {
		work <- indexed{i, f}
	}
	close(work)

	done := make(chan struct{}, workers)
	for w := 0; w < workers; w++ {
		go func() {
			for item := range work {
				results[item.i] = preWalkFile(table, item.f)
			}
			done <- struct{}{}
		}()
	}
	for w := 0; w < workers; w++ {
		<-done
	}

	return results
}

// mergeSorted concatenates every file's work-lists and sorts them, matching
// spec.md §5: "sorted by (file, begin, end) so the fixpoint and the
// subsequent error emission are deterministic regardless of thread
// interleaving."
func mergeSorted(results []*preWalkResult) (
	constants []*constantJob,
	ancestors []*ancestorJob,
	classAliases []*classAliasJob,
	typeAliases []*typeAliasJob,
) {
	for _, r := range results {
		r.file.Statements = r.statements
		constants = append(constants, r.constants...)
		ancestors = append(ancestors, r.ancestors...)
		classAliases = append(classAliases, r.classAliases...)
		typeAliases = append(typeAliases, r.typeAliases...)
	}

	sortConstantJobs(constants)
	sortAncestorJobs(ancestors)
	sortClassAliasJobs(classAliases)
	sortTypeAliasJobs(typeAliases)

	return
}
