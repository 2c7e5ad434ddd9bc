package resolve

import (
	"chai/ast"
	"chai/common"
	"chai/depm"
	"chai/report"
)

// SanityCheck is the debug-only walk from spec.md §4.5: after every other
// pass has run, assert the invariants resolution is supposed to have
// established everywhere rather than let a violation surface later as a
// confusing crash in a completely unrelated pass. It never mutates
// anything; every finding is an ICE.
func SanityCheck(files []*depm.File) {
	for _, f := range files {
		checkStatements(f, nil, f.Statements)
	}
}

func checkStatements(f *depm.File, owner *common.Symbol, stmts ast.Statements) {
	for _, s := range stmts {
		checkNode(f, owner, s)
	}
}

func checkNode(f *depm.File, owner *common.Symbol, n ast.Node) {
	switch v := n.(type) {
	case *ast.UnresolvedConstantLit:
		report.DumpSymbol("unresolved literal", v)
		report.ICE("%s: UnresolvedConstantLit %q survived resolution", f.ReprPath, v.Name)

	case *ast.ConstantLit:
		if !v.Resolved() {
			report.ICE("%s: ConstantLit has no symbol", f.ReprPath)
		}
		if v.Original != nil && v.Original.Scope != nil {
			checkNode(f, owner, v.Original.Scope)
		}

	case *ast.ClassDef:
		if v.Symbol == nil {
			report.ICE("%s: ClassDef %q has no symbol", f.ReprPath, "?")
		} else if !v.IsModule && v.Symbol.SuperClass == nil {
			report.ICE("%s: class %q left with a nil superclass", f.ReprPath, v.Symbol.Name)
		} else if !v.IsModule && v.Symbol.SuperClass != nil && v.Symbol.SuperClass.Kind == common.KindRoot {
			report.DumpSymbol("unbound class", v.Symbol)
			report.ICE("%s: class %q left unbound by the fixpoint", f.ReprPath, v.Symbol.Name)
		}
		for _, a := range v.Ancestors {
			checkNode(f, v.Symbol, a)
		}
		for _, a := range v.SingletonAncestors {
			checkNode(f, v.Symbol, a)
		}
		checkStatements(f, v.Symbol, v.Body)

	case *ast.MethodDef:
		if v.Symbol == nil {
			report.ICE("%s: MethodDef %q has no symbol", f.ReprPath, v.Name)
		}
		checkStatements(f, owner, v.Body)

	case *ast.Assign:
		checkNode(f, owner, v.LHS)
		checkNode(f, owner, v.RHS)

	case *ast.Send:
		if v.Recv != nil {
			checkNode(f, owner, v.Recv)
		}
		for _, a := range v.Args {
			checkNode(f, owner, a)
		}
		if v.Block != nil {
			checkNode(f, owner, v.Block)
		}

	case *ast.KeywordArg:
		checkNode(f, owner, v.Value)

	case *ast.Cast:
		checkNode(f, owner, v.Expr)
		if v.Type == nil {
			report.ICE("%s: Cast has no elaborated type", f.ReprPath)
		}
	}
}
