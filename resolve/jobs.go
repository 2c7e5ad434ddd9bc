package resolve

import (
	"chai/ast"
	"chai/common"
	"chai/depm"
)

// The fixpoint tracks four independent job kinds rather than a dependency
// graph (spec.md §9): edges between jobs only become visible as partial
// resolution happens, so explicit worklists rescanned each iteration are
// simpler than tracking dependencies up front, and the lists stay small
// (roughly linear in AST size).

// constantJob resolves one textual constant reference: `{nesting, out}`.
type constantJob struct {
	file    *depm.File
	nesting *nesting
	out     *ast.ConstantLit
}

// ancestorJob attaches a resolved ancestor to a class once it resolves:
// `{ancestor, klass, isSuperclass}`.
type ancestorJob struct {
	file         *depm.File
	ancestor     *ast.ConstantLit
	klass        *common.Symbol
	isSuperclass bool
}

// classAliasJob sets lhs.ResultType = AliasType(rhs.Symbol) once rhs
// resolves: `{lhs, rhs}`. lhs is the static-field/type-alias symbol itself
// (found directly by the namer's own-scope lookup when the Assign was
// walked), not the pending-readiness ConstantLit a value reference to it
// would use -- the declaration site doesn't wait on its own alias to be
// fully formed the way a later reference to it does.
type classAliasJob struct {
	file *depm.File
	lhs  *common.Symbol
	rhs  *ast.ConstantLit
}

// typeAliasJob parses rhs via the type-syntax service once every constant
// it mentions resolves, storing the result on lhs: `{lhs, rhs}`.
type typeAliasJob struct {
	file  *depm.File
	lhs   *common.Symbol
	owner *common.Symbol // enclosing class, for the generic-type-alias check
	rhs   ast.Node
}

func depthOf(n *nesting) int {
	d := 0
	for cur := n; cur != nil; cur = cur.parent {
		d++
	}
	return d
}
