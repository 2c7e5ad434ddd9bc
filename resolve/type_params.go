package resolve

import (
	"chai/ast"
	"chai/common"
	"chai/depm"
	"chai/report"
	"chai/typing"
)

// ResolveTypeParams implements spec.md §4.3: compute each type member's
// upper/lower bounds from its declaration's `fixed:`/`lower:`/`upper:` keys
// and check them against the same-named type member on the parent class,
// if any.
func ResolveTypeParams(table *common.SymbolTable, elab *typing.Elaborator, files []*depm.File) {
	for _, f := range files {
		walkTypeParams(table, elab, f, nil, f.Statements)
	}
}

func walkTypeParams(table *common.SymbolTable, elab *typing.Elaborator, f *depm.File, owner *common.Symbol, stmts ast.Statements) {
	for _, s := range stmts {
		switch v := s.(type) {
		case *ast.ClassDef:
			walkTypeParams(table, elab, f, v.Symbol, v.Body)
		case *ast.MethodDef:
			walkTypeParams(table, elab, f, owner, v.Body)
		case *ast.Assign:
			applyTypeParam(table, elab, f, owner, v)
		}
	}
}

func applyTypeParam(table *common.SymbolTable, elab *typing.Elaborator, f *depm.File, owner *common.Symbol, a *ast.Assign) {
	lit, ok := a.LHS.(*ast.ConstantLit)
	if !ok || !lit.Resolved() || lit.Symbol.Kind != common.KindTypeMember {
		return
	}

	sym := lit.Symbol
	ctx := f.Ctx

	// The namer leaves bounds at (untyped, untyped); this pass's own
	// default is (bottom, top), narrowed below by any fixed/lower/upper
	// keys the declaration gives.
	sym.Lower, sym.Upper = common.Bottom, common.Top

	send, _ := a.RHS.(*ast.Send)
	var fixedExpr, lowerExpr, upperExpr ast.Node
	if send != nil {
		for _, arg := range send.Args {
			ka, ok := arg.(*ast.KeywordArg)
			if !ok {
				continue
			}
			switch ka.Name {
			case "fixed":
				fixedExpr = ka.Value
			case "lower":
				lowerExpr = ka.Value
			case "upper":
				upperExpr = ka.Value
			}
		}
	}

	elabArgs := typing.Args{Owner: owner}

	isFixed := fixedExpr != nil
	if isFixed {
		t := elab.GetResultType(ctx, fixedExpr, elabArgs)
		sym.Lower, sym.Upper = t, t
		sym.Fixed = true
	} else {
		if lowerExpr != nil {
			sym.Lower = elab.GetResultType(ctx, lowerExpr, elabArgs)
		}
		if upperExpr != nil {
			sym.Upper = elab.GetResultType(ctx, upperExpr, elabArgs)
		}
	}

	if owner != nil && owner.SuperClass != nil {
		if parentSym, ok := table.FindMember(owner.SuperClass, sym.Name); ok {
			switch {
			case parentSym.Kind != common.KindTypeMember:
				report.BeginError(ctx, lit.Span(), report.CodeInvalidTypeMemberBounds).
					SetHeader("%q in parent %q is not a type member", sym.Name, owner.SuperClass.Name).
					Report()
			case !table.IsSubtype(parentSym.Lower, sym.Lower) || !table.IsSubtype(sym.Upper, parentSym.Upper):
				report.BeginError(ctx, lit.Span(), report.CodeParentTypeBoundsMismatch).
					SetHeader("bounds of %q do not fit within parent's bounds", sym.Name).
					Report()
			}
		}
	}

	if !isFixed && !table.IsSubtype(sym.Lower, sym.Upper) {
		report.BeginError(ctx, lit.Span(), report.CodeInvalidTypeMemberBounds).
			SetHeader("lower bound of %q is not a subtype of its upper bound", sym.Name).
			Report()
	}
}
