package resolve

import (
	"chai/ast"
	"chai/common"
	"chai/depm"
	"chai/report"
)

// newFixtureProject builds a Project with default strictness "true" and
// overload definitions permitted by default, matching the permissive
// project shape these tests build their files against.
func newFixtureProject() *depm.Project {
	return &depm.Project{
		Name:                   "fixture",
		DefaultStrictness:      report.StrictnessTrue,
		PermitOverloadsDefault: true,
	}
}

// newFixtureFile adds a file with the given strictness to proj. Every
// fixture file has the same path; tests keep spans distinct by passing
// different line numbers to sp.
func newFixtureFile(proj *depm.Project, strictness report.StrictnessLevel) *depm.File {
	return proj.NewFile("/fixture.glyph", "fixture.glyph", strictness)
}

// sp builds a simple single-line span, distinct per line number, enough to
// keep the deterministic sort in failure.go well defined across a fixture.
func sp(line int) *report.TextSpan {
	return &report.TextSpan{StartLine: line, StartCol: 0, EndLine: line, EndCol: 1}
}

// unresolvedRef builds a bare, unscoped textual constant reference.
func unresolvedRef(line int, name string) *ast.UnresolvedConstantLit {
	return &ast.UnresolvedConstantLit{Base: ast.NewBaseOn(sp(line)), Name: name}
}

// resolvedRef builds an already-bound ConstantLit, standing in for a
// reference ResolveSignatures consumes after constant resolution has
// already run (the shape its own test fixtures build directly rather than
// running the full fixpoint first).
func resolvedRef(line int, sym *common.Symbol) *ast.ConstantLit {
	return &ast.ConstantLit{Base: ast.NewBaseOn(sp(line)), Symbol: sym}
}

// newClassDef wires up a namer-entered class/module symbol and its
// ClassDef node together, the way a real namer pass would before handing
// the tree to resolve.Run.
func newClassDef(table *common.SymbolTable, owner *common.Symbol, name string, isModule bool, ctx *report.CompilationContext, line int) (*common.Symbol, *ast.ClassDef) {
	sym := table.EnterClass(owner, name, isModule, ctx, sp(line))
	return sym, &ast.ClassDef{
		Base:     ast.NewBaseOn(sp(line)),
		Symbol:   sym,
		IsModule: isModule,
	}
}

// newMethodDef wires up a namer-entered method symbol and its MethodDef
// node.
func newMethodDef(table *common.SymbolTable, owner *common.Symbol, name string, ctx *report.CompilationContext, line int, args ...ast.ArgDecl) *ast.MethodDef {
	sym := table.EnterMethodSymbol(owner, name, ctx, sp(line))
	return &ast.MethodDef{
		Base:   ast.NewBaseOn(sp(line)),
		Symbol: sym,
		Name:   name,
		Args:   args,
	}
}

// sigSend builds a `sig { ... }` call wrapping chain as its block, the
// shape walkSignatures' "sig" case expects.
func sigSend(line int, chain *ast.Send) *ast.Send {
	return &ast.Send{Base: ast.NewBaseOn(sp(line)), Name: "sig", Block: chain}
}

// paramsCall builds a `params(name: type, ...)` chain link.
func paramsCall(line int, recv ast.Node, entries ...ast.KeywordArg) *ast.Send {
	args := make([]ast.Node, len(entries))
	for i := range entries {
		e := entries[i]
		args[i] = &e
	}
	return &ast.Send{Base: ast.NewBaseOn(sp(line)), Recv: recv, Name: "params", Args: args}
}

// kw builds one `name: value` entry for paramsCall.
func kw(line int, name string, value ast.Node) ast.KeywordArg {
	return ast.KeywordArg{Base: ast.NewBaseOn(sp(line)), Name: name, Value: value}
}
