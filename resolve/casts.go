package resolve

import (
	"chai/ast"
	"chai/common"
	"chai/depm"
	"chai/report"
	"chai/typing"
)

// rewriteCastSend implements spec.md §4.4's cast rewriting: a `T.let`/
// `T.cast`/`T.assert_type!` send becomes an *ast.Cast once its type
// argument elaborates; `T.reveal_type` is left alone except for the
// untyped-file check. Every other send is recursed into unchanged, since
// a cast can appear nested anywhere in an expression tree.
func rewriteCastSend(ctx *report.CompilationContext, elab *typing.Elaborator, owner *common.Symbol, f *depm.File, s *ast.Send) ast.Node {
	if s.Recv != nil {
		s.Recv = rewriteCastNode(ctx, elab, owner, f, s.Recv)
	}
	for i, a := range s.Args {
		s.Args[i] = rewriteCastNode(ctx, elab, owner, f, a)
	}
	if s.Block != nil {
		s.Block = rewriteCastNode(ctx, elab, owner, f, s.Block)
	}

	switch s.Name {
	case "let":
		return buildCast(ctx, elab, owner, s, ast.CastLet)
	case "cast":
		return buildCast(ctx, elab, owner, s, ast.CastCast)
	case "assert_type!":
		return buildCast(ctx, elab, owner, s, ast.CastAssertType)
	case "reveal_type":
		if f.Strictness == report.StrictnessIgnore {
			report.BeginError(ctx, s.Span(), report.CodeRevealTypeInUntypedFile).
				SetHeader("reveal_type has no effect in a file without a strictness sigil").
				Report()
		}
		return s
	default:
		return s
	}
}

func rewriteCastNode(ctx *report.CompilationContext, elab *typing.Elaborator, owner *common.Symbol, f *depm.File, n ast.Node) ast.Node {
	if send, ok := n.(*ast.Send); ok {
		return rewriteCastSend(ctx, elab, owner, f, send)
	}
	return n
}

func buildCast(ctx *report.CompilationContext, elab *typing.Elaborator, owner *common.Symbol, s *ast.Send, kind ast.CastKind) ast.Node {
	if len(s.Args) != 2 {
		report.BeginError(ctx, s.Span(), report.CodeInvalidMethodSignature).
			SetHeader("%s expects an expression and a type", kind).
			Report()
		return s
	}
	t := elab.GetResultType(ctx, s.Args[1], typing.Args{
		AllowSelfType: true, AllowRebind: true, AllowTypeMember: true, Owner: owner,
	})
	return &ast.Cast{Base: s.Base, Expr: s.Args[0], Type: t, Kind: kind}
}

// applyFieldOrConstantTyping implements spec.md §4.4's field/constant
// typing: an Ident LHS declares an instance/class variable, typed by its
// `T.let` RHS; a ConstantLit LHS bound to a static field is typed by
// applyStaticFieldTyping. A class alias, whose result type the fixpoint
// already set, and a type alias (not a static field) are left as they are.
func applyFieldOrConstantTyping(table *common.SymbolTable, elab *typing.Elaborator, ctx *report.CompilationContext, f *depm.File, owner *common.Symbol, insideInitialize bool, a *ast.Assign) ast.Node {
	switch lhs := a.LHS.(type) {
	case *ast.Ident:
		a.RHS = rewriteCastNode(ctx, elab, owner, f, a.RHS)
		applyFieldDeclaration(table, ctx, owner, insideInitialize, lhs, a.RHS)
		return a

	case *ast.ConstantLit:
		a.RHS = rewriteCastNode(ctx, elab, owner, f, a.RHS)
		a.RHS = applyStaticFieldTyping(table, ctx, lhs, a.RHS)
		return a

	default:
		a.LHS = rewriteCastNode(ctx, elab, owner, f, a.LHS)
		a.RHS = rewriteCastNode(ctx, elab, owner, f, a.RHS)
		return a
	}
}

// applyFieldDeclaration implements spec.md §4.4's instance/class-variable
// declaration rule: a first declaration is only valid inside `initialize`,
// but the symbol is entered regardless so later passes still see it
// (spec.md §8 scenario 6).
func applyFieldDeclaration(table *common.SymbolTable, ctx *report.CompilationContext, owner *common.Symbol, insideInitialize bool, ident *ast.Ident, rhs ast.Node) {
	if owner == nil {
		report.BeginError(ctx, ident.Span(), report.CodeInvalidDeclareVariables).
			SetHeader("%q declared outside a class or module", ident.Name).
			Report()
		return
	}

	if _, alreadyDeclared := owner.Members[ident.Name]; !alreadyDeclared && !insideInitialize {
		report.BeginError(ctx, ident.Span(), report.CodeInvalidDeclareVariables).
			SetHeader("%q declared outside initialize", ident.Name).
			Report()
	}

	cast, ok := rhs.(*ast.Cast)
	if !ok {
		report.BeginError(ctx, ident.Span(), report.CodeConstantMissingTypeAnnotation).
			SetHeader("%q needs an explicit T.let type annotation", ident.Name).
			Report()
		return
	}

	if cast.Kind != ast.CastLet {
		report.BeginError(ctx, cast.Span(), report.CodeConstantAssertType).
			SetHeader("use T.let to specify the type of %q", ident.Name).
			Report()
	}

	if existing, ok := owner.Members[ident.Name]; ok {
		if existing.Kind != common.KindField || !common.Equals(existing.ResultType, cast.Type) {
			report.BeginError(ctx, ident.Span(), report.CodeDuplicateVariableDeclaration).
				SetHeader("%q is already declared with a different type", ident.Name).
				Report()
		}
		return
	}

	field := table.EnterFieldSymbol(owner, ident.Name, ctx, ident.Span())
	field.ResultType = cast.Type
}

// applyStaticFieldTyping implements spec.md §4.4 para 2 for a resolved
// static field without an inferred type: a `T.let`-wrapped RHS supplies the
// type directly; a bare literal RHS has its type derived from the literal
// itself; anything else is left untyped and wrapped in a `Magic.suggest_type`
// call for a later pass to narrow, grounded on the original resolver's
// resolveConstantType (literal / cast / "give up and ask" three-way split).
func applyStaticFieldTyping(table *common.SymbolTable, ctx *report.CompilationContext, lit *ast.ConstantLit, rhs ast.Node) ast.Node {
	if !lit.Resolved() || lit.Symbol.Kind != common.KindStaticField {
		return rhs
	}

	setType := func(t common.Type) {
		if lit.Symbol.ResultTypeSet() && !common.Equals(lit.Symbol.ResultType, t) {
			report.BeginError(ctx, lit.Span(), report.CodeDuplicateVariableDeclaration).
				SetHeader("static field %q is already declared with a different type", lit.Symbol.Name).
				Report()
			return
		}
		lit.Symbol.ResultType = t
	}

	if cast, ok := rhs.(*ast.Cast); ok {
		if cast.Kind != ast.CastLet {
			report.BeginError(ctx, cast.Span(), report.CodeConstantAssertType).
				SetHeader("use T.let to specify the type of %q", lit.Symbol.Name).
				Report()
		}
		setType(cast.Type)
		return rhs
	}

	if t, ok := literalType(table, rhs); ok {
		setType(t)
		return rhs
	}

	if lit.Symbol.ResultTypeSet() {
		return rhs
	}
	lit.Symbol.ResultType = common.Untyped
	return &ast.Send{
		Base: ast.NewBaseOn(rhs.Span()),
		Recv: &ast.ConstantLit{Base: ast.NewBaseOn(rhs.Span()), Symbol: table.Magic},
		Name: "suggest_type",
		Args: []ast.Node{rhs},
	}
}

// literalType maps the handful of bare literal forms the signature DSL
// recognizes (spec.md §4.4) to their universe class, for static fields whose
// RHS is a plain literal rather than a T.let cast.
func literalType(table *common.SymbolTable, rhs ast.Node) (common.Type, bool) {
	var className string
	switch rhs.(type) {
	case *ast.IntLit:
		className = "Integer"
	case *ast.StrLit:
		className = "String"
	case *ast.SymLit:
		className = "Symbol"
	case *ast.BoolLit:
		className = "Boolean"
	default:
		return nil, false
	}

	sym, ok := table.FindMember(table.Root, className)
	if !ok {
		return nil, false
	}
	return &common.ClassType{Sym: sym}, true
}
