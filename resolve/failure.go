package resolve

import (
	"sort"

	"chai/common"
	"chai/report"
)

// Deterministic ordering (spec.md §4.1 step 1, §5): strictest file first,
// then file id, then start position, then end position, then nesting depth
// (shallowest first, so `A::B::Missing` is reported once at `Missing`'s own
// depth rather than once per enclosing scope).

type sortKey struct {
	strictness          report.StrictnessLevel
	fileID              int
	startLine, startCol int
	endLine, endCol     int
	depth               int
}

func keyLess(a, b sortKey) bool {
	if a.strictness != b.strictness {
		return a.strictness > b.strictness
	}
	if a.fileID != b.fileID {
		return a.fileID < b.fileID
	}
	if a.startLine != b.startLine {
		return a.startLine < b.startLine
	}
	if a.startCol != b.startCol {
		return a.startCol < b.startCol
	}
	if a.endLine != b.endLine {
		return a.endLine < b.endLine
	}
	if a.endCol != b.endCol {
		return a.endCol < b.endCol
	}
	return a.depth < b.depth
}

func spanKey(span *report.TextSpan) (int, int, int, int) {
	if span == nil {
		return 0, 0, 0, 0
	}
	return span.StartLine, span.StartCol, span.EndLine, span.EndCol
}

func symbolDepth(sym *common.Symbol) int {
	d := 0
	for s := sym; s != nil; s = s.Owner {
		d++
	}
	return d
}

func constantJobKey(j *constantJob) sortKey {
	sl, sc, el, ec := spanKey(j.out.Span())
	return sortKey{j.file.Strictness, j.file.ID, sl, sc, el, ec, depthOf(j.nesting)}
}

func ancestorJobKey(j *ancestorJob) sortKey {
	sl, sc, el, ec := spanKey(j.ancestor.Span())
	return sortKey{j.file.Strictness, j.file.ID, sl, sc, el, ec, symbolDepth(j.klass)}
}

func classAliasJobKey(j *classAliasJob) sortKey {
	sl, sc, el, ec := spanKey(j.rhs.Span())
	return sortKey{j.file.Strictness, j.file.ID, sl, sc, el, ec, symbolDepth(j.lhs)}
}

func typeAliasJobKey(j *typeAliasJob) sortKey {
	var span *report.TextSpan
	if j.rhs != nil {
		span = j.rhs.Span()
	}
	sl, sc, el, ec := spanKey(span)
	return sortKey{j.file.Strictness, j.file.ID, sl, sc, el, ec, symbolDepth(j.lhs)}
}

func sortConstantJobs(js []*constantJob) {
	sort.SliceStable(js, func(i, k int) bool { return keyLess(constantJobKey(js[i]), constantJobKey(js[k])) })
}

func sortAncestorJobs(js []*ancestorJob) {
	sort.SliceStable(js, func(i, k int) bool { return keyLess(ancestorJobKey(js[i]), ancestorJobKey(js[k])) })
}

func sortClassAliasJobs(js []*classAliasJob) {
	sort.SliceStable(js, func(i, k int) bool { return keyLess(classAliasJobKey(js[i]), classAliasJobKey(js[k])) })
}

func sortTypeAliasJobs(js []*typeAliasJob) {
	sort.SliceStable(js, func(i, k int) bool { return keyLess(typeAliasJobKey(js[i]), typeAliasJobKey(js[k])) })
}

// finalizeConstantJob decides which of the two failure-path errors a
// remaining constant job gets. A job that now resolves to a concrete,
// ready symbol is finished outright -- this only happens when an earlier
// sibling job in the same batch already reported the failure and marked
// the symbol ready as a side effect (the recursive-type-alias case below),
// so finishing quietly here avoids a second, redundant diagnostic for the
// same underlying mistake (spec.md §7). A job that resolves to a concrete
// symbol but can't finish because that symbol is its own not-yet-ready type
// alias is a recursive type alias (spec.md §4.1 step 2: "Type-alias cycles
// are reported here as a distinct 'recursive type alias' error"); everything
// else gets the generic unresolved-constant path.
func finalizeConstantJob(table *common.SymbolTable, job *constantJob) {
	sym, status := resolveConstant(table, job.nesting, job.out)
	if status == statusResolved {
		if finishIfReady(job.out, sym) {
			return
		}
		report.BeginError(job.file.Ctx, job.out.Span(), report.CodeRecursiveTypeAlias).
			SetHeader("type alias %q references itself", sym.Name).
			Report()
		job.out.Symbol = table.StubModule
		sym.ResultType = common.Untyped
		return
	}
	constantResolutionFailed(table, job)
}

// constantResolutionFailed implements spec.md §4.1 failure-path step 2: emit
// an "unable to resolve" error, with fuzzy-match suggestions capped at
// three, then stub the literal so downstream passes stay total.
func constantResolutionFailed(table *common.SymbolTable, job *constantJob) {
	name := job.out.Original.Name

	b := report.BeginError(job.file.Ctx, job.out.Span(), report.CodeStubConstant).
		SetHeader("unable to resolve constant %q", name)

	if suggestions := table.FindMemberFuzzyMatch(job.nesting.innermost(), name, 3); len(suggestions) > 0 {
		b.AddErrorSection("Did you mean?", suggestions...)
	}
	b.Report()

	job.out.Symbol = table.StubModule
	if scope := job.nesting.innermost(); scope != nil {
		job.out.ResolutionScope = scope.Name
	} else {
		job.out.ResolutionScope = "<root>"
	}
}
