package resolve

import (
	"chai/ast"
	"chai/common"
	"chai/report"
)

// applyAliasMethod implements `alias_method(:new_name, :old_name)`: enters
// new_name as a method symbol whose ResultType is an AliasType pointing at
// old_name's symbol, matching how a class-alias is represented (spec.md
// §4.4 "alias_method").
func applyAliasMethod(table *common.SymbolTable, ctx *report.CompilationContext, owner *common.Symbol, send *ast.Send) ast.Node {
	empty := &ast.EmptyTree{Base: ast.NewBaseOn(send.Span())}

	if owner == nil {
		report.BeginError(ctx, send.Span(), report.CodeBadAliasMethod).
			SetHeader("alias_method used outside a class or module").
			Report()
		return empty
	}

	if len(send.Args) != 2 {
		report.BeginError(ctx, send.Span(), report.CodeBadAliasMethod).
			SetHeader("alias_method expects exactly two arguments").
			Report()
		return empty
	}

	newName, ok1 := send.Args[0].(*ast.SymLit)
	oldName, ok2 := send.Args[1].(*ast.SymLit)
	if !ok1 || !ok2 {
		report.BeginError(ctx, send.Span(), report.CodeBadAliasMethod).
			SetHeader("alias_method arguments must be symbol literals").
			Report()
		return empty
	}

	target, ok := table.FindMemberTransitive(owner, oldName.Value)
	if !ok || target.Kind != common.KindMethod {
		report.BeginError(ctx, send.Span(), report.CodeBadAliasMethod).
			SetHeader("%q is not a known method of %q", oldName.Value, owner.Name).
			Report()
		table.EnterMethodSymbol(owner, newName.Value, ctx, send.Span())
		return empty
	}

	if existing, ok := owner.Members[newName.Value]; ok {
		if alias, ok := existing.ResultType.(*common.AliasType); !ok || alias.Target != target {
			report.BeginError(ctx, send.Span(), report.CodeBadAliasMethod).
				SetHeader("%q is already declared with a different meaning", newName.Value).
				Report()
		}
		return empty
	}

	sym := table.EnterMethodSymbol(owner, newName.Value, ctx, send.Span())
	sym.ResultType = &common.AliasType{Target: target}
	return empty
}
