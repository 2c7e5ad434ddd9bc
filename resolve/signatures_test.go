package resolve

import (
	"testing"

	"chai/ast"
	"chai/common"
	"chai/depm"
	"chai/report"
	"chai/typing"

	"github.com/stretchr/testify/require"
)

// TestOverloadedSigsTakeDistinctArgumentSubsets covers spec.md §8 scenario
// 5: a method with two sigs ahead of it (project-permitted overloading) is
// split into two method symbols, each carrying only the argument positions
// its own `params(...)` call named.
func TestOverloadedSigsTakeDistinctArgumentSubsets(t *testing.T) {
	report.Init(report.LogLevelSilent)

	table := common.NewSymbolTable()
	proj := newFixtureProject()
	f := newFixtureFile(proj, report.StrictnessTrue)

	integerSym := table.EnterClass(table.Root, "Integer", false, f.Ctx, sp(1))
	stringSym := table.EnterClass(table.Root, "String", false, f.Ctx, sp(2))

	widget, widgetDef := newClassDef(table, table.Root, "Widget", false, f.Ctx, 3)

	m := newMethodDef(table, widget, "build", f.Ctx, 10,
		ast.ArgDecl{Name: "x", Kind: common.ArgPositional, Span: sp(10)},
		ast.ArgDecl{Name: "y", Kind: common.ArgPositional, Span: sp(10)},
	)
	origMethodSym := m.Symbol

	sig1 := sigSend(5, paramsCall(5, nil, kw(5, "x", resolvedRef(5, integerSym))))
	sig2 := sigSend(6, paramsCall(6, nil, kw(6, "y", resolvedRef(6, stringSym))))

	widgetDef.Body = ast.Statements{sig1, sig2, m}
	f.Statements = ast.Statements{widgetDef}
	proj.Files = []*depm.File{f}

	elab := typing.NewElaborator(table)
	ResolveSignatures(table, elab, proj, proj.Files)

	require.False(t, report.AnyErrors())

	first, ok := widget.Members["build$1"]
	require.True(t, ok, "first overload should be mangle-renamed to build$1")
	require.Same(t, origMethodSym, first)
	require.Len(t, first.Args, 1)
	require.Equal(t, "x", first.Args[0].Name)
	require.True(t, common.Equals(&common.ClassType{Sym: integerSym}, first.Args[0].Type))
	require.True(t, first.Flags.Overloaded)

	last, ok := widget.Members["build"]
	require.True(t, ok, "the final overload keeps the original name in owner.Members")
	require.NotSame(t, first, last)
	require.Len(t, last.Args, 1)
	require.Equal(t, "y", last.Args[0].Name)
	require.True(t, common.Equals(&common.ClassType{Sym: stringSym}, last.Args[0].Type))
	require.False(t, last.Flags.Overloaded)
}

// TestOverloadRejectedWhenProjectForbidsIt covers the "not permitted"
// branch of spec.md §8 scenario 5: when the project/file doesn't allow
// overload definitions, multiple sigs ahead of one MethodDef report
// OverloadNotAllowed and fall back to applying only the last sig.
func TestOverloadRejectedWhenProjectForbidsIt(t *testing.T) {
	report.Init(report.LogLevelSilent)

	table := common.NewSymbolTable()
	proj := newFixtureProject()
	proj.PermitOverloadsDefault = false
	f := newFixtureFile(proj, report.StrictnessTrue)

	integerSym := table.EnterClass(table.Root, "Integer", false, f.Ctx, sp(1))

	widget, widgetDef := newClassDef(table, table.Root, "Widget", false, f.Ctx, 2)
	m := newMethodDef(table, widget, "build", f.Ctx, 10,
		ast.ArgDecl{Name: "x", Kind: common.ArgPositional, Span: sp(10)},
	)

	sig1 := sigSend(5, paramsCall(5, nil, kw(5, "x", resolvedRef(5, integerSym))))
	sig2 := sigSend(6, paramsCall(6, nil, kw(6, "x", resolvedRef(6, integerSym))))

	widgetDef.Body = ast.Statements{sig1, sig2, m}
	f.Statements = ast.Statements{widgetDef}
	proj.Files = []*depm.File{f}

	elab := typing.NewElaborator(table)
	ResolveSignatures(table, elab, proj, proj.Files)

	require.True(t, report.AnyErrors())

	var sawNotAllowed bool
	for _, msg := range report.Messages() {
		if msg.Code == report.CodeOverloadNotAllowed {
			sawNotAllowed = true
		}
	}
	require.True(t, sawNotAllowed)
	require.Equal(t, "x", m.Symbol.Args[0].Name)
}

// TestFieldDeclaredOutsideInitializeReportsAndStillEnters covers spec.md
// §8 scenario 6 exactly: `@x = T.let(1, Integer)` inside a method other
// than `initialize` reports InvalidDeclareVariables but still enters the
// field symbol so later passes see it.
func TestFieldDeclaredOutsideInitializeReportsAndStillEnters(t *testing.T) {
	report.Init(report.LogLevelSilent)

	table := common.NewSymbolTable()
	proj := newFixtureProject()
	f := newFixtureFile(proj, report.StrictnessTrue)

	integerSym := table.EnterClass(table.Root, "Integer", false, f.Ctx, sp(1))
	widget, widgetDef := newClassDef(table, table.Root, "Widget", false, f.Ctx, 2)

	m := newMethodDef(table, widget, "foo", f.Ctx, 10)
	letCall := &ast.Send{
		Base: ast.NewBaseOn(sp(11)),
		Name: "let",
		Args: []ast.Node{
			&ast.IntLit{Base: ast.NewBaseOn(sp(11)), Value: 1},
			resolvedRef(11, integerSym),
		},
	}
	assign := &ast.Assign{
		Base: ast.NewBaseOn(sp(11)),
		LHS:  &ast.Ident{Base: ast.NewBaseOn(sp(11)), Name: "x"},
		RHS:  letCall,
	}
	m.Body = ast.Statements{assign}
	widgetDef.Body = ast.Statements{m}
	f.Statements = ast.Statements{widgetDef}
	proj.Files = []*depm.File{f}

	elab := typing.NewElaborator(table)
	ResolveSignatures(table, elab, proj, proj.Files)

	require.True(t, report.AnyErrors())

	var sawInvalidDeclare bool
	for _, msg := range report.Messages() {
		if msg.Code == report.CodeInvalidDeclareVariables {
			sawInvalidDeclare = true
		}
	}
	require.True(t, sawInvalidDeclare)

	field, ok := widget.Members["x"]
	require.True(t, ok, "the field symbol must still be entered despite the misplaced declaration")
	require.Equal(t, common.KindField, field.Kind)
	require.True(t, common.Equals(&common.ClassType{Sym: integerSym}, field.ResultType))
}

// TestFieldDeclaredInsideInitializeIsClean is the counterpart to the above:
// the same declaration inside `initialize` reports nothing.
func TestFieldDeclaredInsideInitializeIsClean(t *testing.T) {
	report.Init(report.LogLevelSilent)

	table := common.NewSymbolTable()
	proj := newFixtureProject()
	f := newFixtureFile(proj, report.StrictnessTrue)

	integerSym := table.EnterClass(table.Root, "Integer", false, f.Ctx, sp(1))
	widget, widgetDef := newClassDef(table, table.Root, "Widget", false, f.Ctx, 2)

	m := newMethodDef(table, widget, "initialize", f.Ctx, 10)
	letCall := &ast.Send{
		Base: ast.NewBaseOn(sp(11)),
		Name: "let",
		Args: []ast.Node{
			&ast.IntLit{Base: ast.NewBaseOn(sp(11)), Value: 1},
			resolvedRef(11, integerSym),
		},
	}
	assign := &ast.Assign{
		Base: ast.NewBaseOn(sp(11)),
		LHS:  &ast.Ident{Base: ast.NewBaseOn(sp(11)), Name: "x"},
		RHS:  letCall,
	}
	m.Body = ast.Statements{assign}
	widgetDef.Body = ast.Statements{m}
	f.Statements = ast.Statements{widgetDef}
	proj.Files = []*depm.File{f}

	elab := typing.NewElaborator(table)
	ResolveSignatures(table, elab, proj, proj.Files)

	require.False(t, report.AnyErrors())

	field, ok := widget.Members["x"]
	require.True(t, ok)
	require.Equal(t, common.KindField, field.Kind)
}

// TestStaticFieldDerivesTypeFromLiteral covers spec.md §4.4 para 2: a
// static field declared with a bare literal RHS (no T.let) derives its
// type from the literal's own universe class, with no diagnostic.
func TestStaticFieldDerivesTypeFromLiteral(t *testing.T) {
	report.Init(report.LogLevelSilent)

	table := common.NewSymbolTable()
	proj := newFixtureProject()
	f := newFixtureFile(proj, report.StrictnessTrue)

	integerSym := table.EnterClass(table.Root, "Integer", false, f.Ctx, sp(1))
	staticSym := table.EnterStaticFieldSymbol(table.Root, "MAX", f.Ctx, sp(2))

	assign := &ast.Assign{
		Base: ast.NewBaseOn(sp(2)),
		LHS:  resolvedRef(2, staticSym),
		RHS:  &ast.IntLit{Base: ast.NewBaseOn(sp(2)), Value: 100},
	}
	f.Statements = ast.Statements{assign}
	proj.Files = []*depm.File{f}

	elab := typing.NewElaborator(table)
	ResolveSignatures(table, elab, proj, proj.Files)

	require.False(t, report.AnyErrors())
	require.True(t, common.Equals(&common.ClassType{Sym: integerSym}, staticSym.ResultType))
}

// TestStaticFieldWithoutDerivableTypeGetsMagicSuggestWrap covers the
// fallback branch of the same rule: an RHS that's neither a literal nor a
// T.let cast leaves the field Untyped and gets wrapped in Magic.suggest_type
// rather than reporting an error.
func TestStaticFieldWithoutDerivableTypeGetsMagicSuggestWrap(t *testing.T) {
	report.Init(report.LogLevelSilent)

	table := common.NewSymbolTable()
	proj := newFixtureProject()
	f := newFixtureFile(proj, report.StrictnessTrue)

	staticSym := table.EnterStaticFieldSymbol(table.Root, "THING", f.Ctx, sp(1))
	rhs := &ast.Ident{Base: ast.NewBaseOn(sp(1)), Name: "compute_default"}

	assign := &ast.Assign{
		Base: ast.NewBaseOn(sp(1)),
		LHS:  resolvedRef(1, staticSym),
		RHS:  rhs,
	}
	f.Statements = ast.Statements{assign}
	proj.Files = []*depm.File{f}

	elab := typing.NewElaborator(table)
	ResolveSignatures(table, elab, proj, proj.Files)

	require.False(t, report.AnyErrors())
	require.Equal(t, common.Untyped, staticSym.ResultType)

	wrapped, ok := f.Statements[0].(*ast.Assign).RHS.(*ast.Send)
	require.True(t, ok, "the original RHS should be wrapped in a Magic.suggest_type send")
	require.Equal(t, "suggest_type", wrapped.Name)
	recv, ok := wrapped.Recv.(*ast.ConstantLit)
	require.True(t, ok)
	require.Same(t, table.Magic, recv.Symbol)
	require.Same(t, rhs, wrapped.Args[0])
}

// TestStaticFieldAssertTypeReportsConstantAssertType covers the
// CodeConstantAssertType diagnostic: a static field declared with
// T.assert_type! instead of T.let still gets its type from the cast, but
// is flagged for using the wrong directive.
func TestStaticFieldAssertTypeReportsConstantAssertType(t *testing.T) {
	report.Init(report.LogLevelSilent)

	table := common.NewSymbolTable()
	proj := newFixtureProject()
	f := newFixtureFile(proj, report.StrictnessTrue)

	integerSym := table.EnterClass(table.Root, "Integer", false, f.Ctx, sp(1))
	staticSym := table.EnterStaticFieldSymbol(table.Root, "MAX", f.Ctx, sp(2))

	assertCall := &ast.Send{
		Base: ast.NewBaseOn(sp(2)),
		Name: "assert_type!",
		Args: []ast.Node{
			&ast.IntLit{Base: ast.NewBaseOn(sp(2)), Value: 1},
			resolvedRef(2, integerSym),
		},
	}
	assign := &ast.Assign{
		Base: ast.NewBaseOn(sp(2)),
		LHS:  resolvedRef(2, staticSym),
		RHS:  assertCall,
	}
	f.Statements = ast.Statements{assign}
	proj.Files = []*depm.File{f}

	elab := typing.NewElaborator(table)
	ResolveSignatures(table, elab, proj, proj.Files)

	require.True(t, report.AnyErrors())
	require.True(t, common.Equals(&common.ClassType{Sym: integerSym}, staticSym.ResultType))

	var sawAssertType bool
	for _, msg := range report.Messages() {
		if msg.Code == report.CodeConstantAssertType {
			sawAssertType = true
		}
	}
	require.True(t, sawAssertType)
}
