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

// TestMixesInClassMethodsRecordsClassMethodsSlot covers spec.md §4.2: a
// `mixes_in_class_methods(Mod)` call inside a module records Mod under the
// enclosing module's ClassMethods slot and is swept from the tree.
func TestMixesInClassMethodsRecordsClassMethodsSlot(t *testing.T) {
	report.Init(report.LogLevelSilent)

	table := common.NewSymbolTable()
	proj := newFixtureProject()
	f := newFixtureFile(proj, report.StrictnessTrue)

	classMethodsMod := table.EnterClass(table.Root, "ClassMethods", true, f.Ctx, sp(1))
	mixin, mixinDef := newClassDef(table, table.Root, "Mixin", true, f.Ctx, 2)

	call := &ast.Send{
		Base: ast.NewBaseOn(sp(3)),
		Name: "mixes_in_class_methods",
		Args: []ast.Node{resolvedRef(3, classMethodsMod)},
	}
	mixinDef.Body = ast.Statements{call}
	f.Statements = ast.Statements{mixinDef}
	proj.Files = []*depm.File{f}

	ResolveMixesInClassMethods(proj.Files)
	f.Statements[0].(*ast.ClassDef).Body = f.Statements[0].(*ast.ClassDef).Body.Sweep()

	require.False(t, report.AnyErrors())
	require.Same(t, classMethodsMod, mixin.ClassMethods)
	require.Empty(t, f.Statements[0].(*ast.ClassDef).Body, "the consumed send should sweep to nothing")
}

// TestMixesInClassMethodsRejectsNonModuleOwner covers the guard clause: the
// annotation is only valid directly inside a module body.
func TestMixesInClassMethodsRejectsNonModuleOwner(t *testing.T) {
	report.Init(report.LogLevelSilent)

	table := common.NewSymbolTable()
	proj := newFixtureProject()
	f := newFixtureFile(proj, report.StrictnessTrue)

	mod := table.EnterClass(table.Root, "Mod", true, f.Ctx, sp(1))
	_, classDef := newClassDef(table, table.Root, "NotAModule", false, f.Ctx, 2)

	call := &ast.Send{
		Base: ast.NewBaseOn(sp(3)),
		Name: "mixes_in_class_methods",
		Args: []ast.Node{resolvedRef(3, mod)},
	}
	classDef.Body = ast.Statements{call}
	f.Statements = ast.Statements{classDef}
	proj.Files = []*depm.File{f}

	ResolveMixesInClassMethods(proj.Files)

	require.True(t, report.AnyErrors())
	var saw bool
	for _, m := range report.Messages() {
		if m.Code == report.CodeInvalidMixinDeclaration {
			saw = true
		}
	}
	require.True(t, saw)
}

// TestTypeParamBoundsNarrowFromFixedKey covers spec.md §4.3: a type
// member declared with `fixed:` narrows its lower and upper bound to the
// same concrete type.
func TestTypeParamBoundsNarrowFromFixedKey(t *testing.T) {
	report.Init(report.LogLevelSilent)

	table := common.NewSymbolTable()
	proj := newFixtureProject()
	f := newFixtureFile(proj, report.StrictnessTrue)

	integerSym := table.EnterClass(table.Root, "Integer", false, f.Ctx, sp(1))
	box, boxDef := newClassDef(table, table.Root, "Box", false, f.Ctx, 2)

	elemSym := table.EnterTypeMember(box, "Elem", f.Ctx, sp(3))
	decl := &ast.Assign{
		Base: ast.NewBaseOn(sp(3)),
		LHS:  resolvedRef(3, elemSym),
		RHS: &ast.Send{
			Base: ast.NewBaseOn(sp(3)),
			Name: "type_member",
			Args: []ast.Node{kwNode(3, "fixed", resolvedRef(3, integerSym))},
		},
	}
	boxDef.Body = ast.Statements{decl}
	f.Statements = ast.Statements{boxDef}
	proj.Files = []*depm.File{f}

	elab := typing.NewElaborator(table)
	ResolveTypeParams(table, elab, proj.Files)

	require.False(t, report.AnyErrors())
	require.True(t, elemSym.Fixed)
	require.True(t, common.Equals(&common.ClassType{Sym: integerSym}, elemSym.Lower))
	require.True(t, common.Equals(&common.ClassType{Sym: integerSym}, elemSym.Upper))
}

// TestAliasMethodEntersAliasTypeSymbol covers spec.md §4.4's alias_method
// handling: `alias_method(:new_name, :old_name)` enters new_name as a
// method symbol whose ResultType points at old_name via AliasType.
func TestAliasMethodEntersAliasTypeSymbol(t *testing.T) {
	report.Init(report.LogLevelSilent)

	table := common.NewSymbolTable()
	proj := newFixtureProject()
	f := newFixtureFile(proj, report.StrictnessTrue)

	widget, widgetDef := newClassDef(table, table.Root, "Widget", false, f.Ctx, 1)
	oldMethod := newMethodDef(table, widget, "old_name", f.Ctx, 2)

	call := &ast.Send{
		Base: ast.NewBaseOn(sp(3)),
		Name: "alias_method",
		Args: []ast.Node{
			&ast.SymLit{Base: ast.NewBaseOn(sp(3)), Value: "new_name"},
			&ast.SymLit{Base: ast.NewBaseOn(sp(3)), Value: "old_name"},
		},
	}
	widgetDef.Body = ast.Statements{oldMethod, call}
	f.Statements = ast.Statements{widgetDef}
	proj.Files = []*depm.File{f}

	elab := typing.NewElaborator(table)
	ResolveSignatures(table, elab, proj, proj.Files)

	require.False(t, report.AnyErrors())

	newSym, ok := widget.Members["new_name"]
	require.True(t, ok)
	alias, ok := newSym.ResultType.(*common.AliasType)
	require.True(t, ok)
	require.Same(t, oldMethod.Symbol, alias.Target)
}

// TestSanityCheckPassesOnFullyResolvedTree covers spec.md §4.5: a tree
// that has been through every prior pass never trips an ICE assertion.
func TestSanityCheckPassesOnFullyResolvedTree(t *testing.T) {
	report.Init(report.LogLevelSilent)

	table := common.NewSymbolTable()
	proj := newFixtureProject()
	f := newFixtureFile(proj, report.StrictnessTrue)

	aSym, aDef := newClassDef(table, table.Root, "A", false, f.Ctx, 1)
	aDef.Ancestors = []ast.Node{unresolvedRef(1, "Object")}
	f.Statements = ast.Statements{aDef}
	proj.Files = []*depm.File{f}

	Run(table, proj, proj.Files, 0, false)

	require.False(t, report.AnyErrors())
	require.Same(t, table.Object, aSym.SuperClass)

	// SanityCheck calls report.ICE on failure, which terminates the
	// process; a clean run simply returns, so reaching the end of this
	// test function is itself the assertion.
	SanityCheck(proj.Files)
}

func kwNode(line int, name string, value ast.Node) ast.Node {
	k := kw(line, name, value)
	return &k
}

// TestNestedBodiesAreSweptAfterTreePasses covers the sweep guarantee of
// spec.md §3 for statement sequences below the top level: a
// mixes_in_class_methods call nested inside a ClassDef body must not
// survive the full set of tree passes, not just a file's top-level
// statements.
func TestNestedBodiesAreSweptAfterTreePasses(t *testing.T) {
	report.Init(report.LogLevelSilent)

	table := common.NewSymbolTable()
	proj := newFixtureProject()
	f := newFixtureFile(proj, report.StrictnessTrue)

	classMethodsMod := table.EnterClass(table.Root, "ClassMethods", true, f.Ctx, sp(1))
	_, outerDef := newClassDef(table, table.Root, "Outer", false, f.Ctx, 2)
	_, innerDef := newClassDef(table, outerDef.Symbol, "Inner", true, f.Ctx, 3)

	call := &ast.Send{
		Base: ast.NewBaseOn(sp(4)),
		Name: "mixes_in_class_methods",
		Args: []ast.Node{resolvedRef(4, classMethodsMod)},
	}
	innerDef.Body = ast.Statements{call}
	outerDef.Body = ast.Statements{innerDef}
	f.Statements = ast.Statements{outerDef}
	proj.Files = []*depm.File{f}

	elab := typing.NewElaborator(table)
	RunTreePasses(table, elab, proj, proj.Files)

	require.False(t, report.AnyErrors())
	inner := f.Statements[0].(*ast.ClassDef).Body[0].(*ast.ClassDef)
	require.Empty(t, inner.Body, "the nested mixes_in_class_methods call should have been swept")
}
