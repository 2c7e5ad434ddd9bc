package resolve

import (
	"chai/ast"
	"chai/common"
	"chai/depm"
	"chai/report"
)

// ResolveMixesInClassMethods implements spec.md §4.2: a call
// `mixes_in_class_methods(Mod)` inside a module records Mod under the
// enclosing module's reserved ClassMethods slot, so that when the module is
// later included into a class, Mod's instance methods become class methods
// of that class.
func ResolveMixesInClassMethods(files []*depm.File) {
	for _, f := range files {
		walkMixesInClassMethods(f, nil, f.Statements)
	}
}

func walkMixesInClassMethods(f *depm.File, owner *common.Symbol, stmts ast.Statements) {
	for i, s := range stmts {
		switch v := s.(type) {
		case *ast.ClassDef:
			walkMixesInClassMethods(f, v.Symbol, v.Body)

		case *ast.MethodDef:
			walkMixesInClassMethods(f, owner, v.Body)

		case *ast.Send:
			if v.Name == "mixes_in_class_methods" {
				stmts[i] = applyMixesInClassMethods(f, owner, v)
			}
		}
	}
}

func applyMixesInClassMethods(f *depm.File, owner *common.Symbol, send *ast.Send) ast.Node {
	ctx := f.Ctx

	if owner == nil || owner.Kind != common.KindModule {
		report.BeginError(ctx, send.Span(), report.CodeInvalidMixinDeclaration).
			SetHeader("mixes_in_class_methods may only appear in a module").
			Report()
		return &ast.EmptyTree{Base: ast.NewBaseOn(send.Span())}
	}

	if len(send.Args) != 1 {
		report.BeginError(ctx, send.Span(), report.CodeInvalidMixinDeclaration).
			SetHeader("mixes_in_class_methods expects exactly one argument").
			Report()
		return &ast.EmptyTree{Base: ast.NewBaseOn(send.Span())}
	}

	lit, ok := send.Args[0].(*ast.ConstantLit)
	if !ok || !lit.Resolved() {
		report.BeginError(ctx, send.Span(), report.CodeInvalidMixinDeclaration).
			SetHeader("mixes_in_class_methods argument must be a statically resolvable module").
			Report()
		return &ast.EmptyTree{Base: ast.NewBaseOn(send.Span())}
	}

	if lit.Symbol.Kind != common.KindModule {
		report.BeginError(ctx, send.Span(), report.CodeInvalidMixinDeclaration).
			SetHeader("%q is not a module", lit.Symbol.Name).
			Report()
		return &ast.EmptyTree{Base: ast.NewBaseOn(send.Span())}
	}

	if lit.Symbol == owner {
		report.BeginError(ctx, send.Span(), report.CodeInvalidMixinDeclaration).
			SetHeader("a module cannot mix its own class methods into itself").
			Report()
		return &ast.EmptyTree{Base: ast.NewBaseOn(send.Span())}
	}

	if owner.ClassMethods != nil && owner.ClassMethods != lit.Symbol {
		report.BeginError(ctx, send.Span(), report.CodeInvalidMixinDeclaration).
			SetHeader("%q already declares class methods from %q", owner.Name, owner.ClassMethods.Name).
			Report()
		return &ast.EmptyTree{Base: ast.NewBaseOn(send.Span())}
	}

	owner.ClassMethods = lit.Symbol
	return &ast.EmptyTree{Base: ast.NewBaseOn(send.Span())}
}
