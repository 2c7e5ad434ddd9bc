package common

import (
	"fmt"
	"sort"

	"chai/report"
)

// SymbolTable is the global symbol table shared by every package being
// resolved. It is the "symbol table" external collaborator named in
// spec.md §3/§6: it owns symbol identity, member lookup, ancestry
// mutation, and the handful of stub/universe symbols the core depends on
// existing (§6's "Stub symbols" list).
//
// Per spec.md §5, the table is only ever mutated single-threadedly, during
// the serial fixpoint and the walks that follow it; the parallel pre-walk
// phase only reads from it (to look up already-entered namer symbols) and
// never writes.
type SymbolTable struct {
	nextID uint64

	Root *Symbol

	// Universe stub/reserved symbols, created by NewSymbolTable.
	Todo               *Symbol
	UntypedSym         *Symbol
	StubModule         *Symbol
	StubSuperClass     *Symbol
	StubMixin          *Symbol
	Object             *Symbol
	T                  *Symbol
	Magic              *Symbol
	BadAliasMethodStub *Symbol
	Subclasses         *Symbol
}

// NewSymbolTable creates a table pre-populated with the universe symbols
// every resolve pass depends on (spec.md §6), grounded on the teacher's
// depm.NewUniverse/NewSymbolTable pair.
func NewSymbolTable() *SymbolTable {
	st := &SymbolTable{}

	st.Root = st.newRaw(KindRoot, "<root>", nil)
	st.Todo = st.newRaw(KindClass, "<todo>", st.Root)
	st.UntypedSym = st.newRaw(KindClass, "T.untyped", st.Root)
	st.StubModule = st.newRaw(KindModule, "<stub module>", st.Root)
	st.StubSuperClass = st.newRaw(KindClass, "<stub superclass>", st.Root)
	st.StubMixin = st.newRaw(KindModule, "<stub mixin>", st.Root)
	st.Object = st.newRaw(KindClass, "Object", st.Root)
	st.T = st.newRaw(KindModule, "T", st.Root)
	st.Magic = st.newRaw(KindModule, "Magic", st.Root)
	st.BadAliasMethodStub = st.newRaw(KindMethod, "<bad alias method stub>", st.Root)
	st.Subclasses = st.newRaw(KindField, "Subclasses", st.Root)

	st.Root.Members = map[string]*Symbol{
		"Object": st.Object,
		"T":      st.T,
		"Magic":  st.Magic,
	}

	return st
}

func (st *SymbolTable) newRaw(kind Kind, name string, owner *Symbol) *Symbol {
	st.nextID++
	return &Symbol{ID: st.nextID, Kind: kind, Name: name, Owner: owner}
}

// -----------------------------------------------------------------------------
// Entry points (the namer's job in a full implementation; exposed here so
// that tests and the pre-walk's `ClassDef`/`MethodDef` handling can enter
// symbols the way a namer pass would have).

// EnterClass enters a new class or module symbol as a member of owner, or
// returns the existing one if owner already declares a member of that name
// (Glyph classes are reopenable: "class Foo; end" appearing twice refers to
// the same symbol, per open-classes in spec.md §1).
func (st *SymbolTable) EnterClass(owner *Symbol, name string, isModule bool, ctx *report.CompilationContext, span *report.TextSpan) *Symbol {
	if owner.Members == nil {
		owner.Members = map[string]*Symbol{}
	}
	if existing, ok := owner.Members[name]; ok && existing.IsClassOrModule() {
		return existing
	}

	kind := KindClass
	if isModule {
		kind = KindModule
	}
	sym := st.newRaw(kind, name, owner)
	sym.Ctx, sym.Span = ctx, span
	if kind == KindClass {
		sym.SuperClass = st.Todo
	}
	owner.Members[name] = sym
	return sym
}

// EnterMethodSymbol enters a new method symbol on owner, overwriting any
// previous non-overloaded method of the same name (a later `def` in the
// same open class replaces the earlier one, as in plain reopening).
func (st *SymbolTable) EnterMethodSymbol(owner *Symbol, name string, ctx *report.CompilationContext, span *report.TextSpan) *Symbol {
	if owner.Members == nil {
		owner.Members = map[string]*Symbol{}
	}
	sym := st.newRaw(KindMethod, name, owner)
	sym.Ctx, sym.Span = ctx, span
	owner.Members[name] = sym
	return sym
}

// EnterFieldSymbol enters an instance-variable symbol.
func (st *SymbolTable) EnterFieldSymbol(owner *Symbol, name string, ctx *report.CompilationContext, span *report.TextSpan) *Symbol {
	return st.enterMember(owner, KindField, name, ctx, span)
}

// EnterStaticFieldSymbol enters a class-variable, constant, or type-alias
// storage slot.
func (st *SymbolTable) EnterStaticFieldSymbol(owner *Symbol, name string, ctx *report.CompilationContext, span *report.TextSpan) *Symbol {
	return st.enterMember(owner, KindStaticField, name, ctx, span)
}

// EnterTypeAlias enters a type-alias symbol (`X = T.type_alias { ... }`).
func (st *SymbolTable) EnterTypeAlias(owner *Symbol, name string, ctx *report.CompilationContext, span *report.TextSpan) *Symbol {
	return st.enterMember(owner, KindTypeAlias, name, ctx, span)
}

// EnterTypeMember enters a type-member symbol (`X = type_member`), with
// bounds initialized to (untyped, untyped) per spec.md §4.3, to be
// replaced with (bottom, top) when ResolveTypeParams visits it.
func (st *SymbolTable) EnterTypeMember(owner *Symbol, name string, ctx *report.CompilationContext, span *report.TextSpan) *Symbol {
	sym := st.enterMember(owner, KindTypeMember, name, ctx, span)
	sym.Lower, sym.Upper = Untyped, Untyped
	return sym
}

// EnterTypeArgument enters a generic type argument synthesized while
// elaborating a `sig` with type parameters (spec.md §4.4 "Materialize
// generic type arguments (fresh, covariant)").
func (st *SymbolTable) EnterTypeArgument(owner *Symbol, name string, ctx *report.CompilationContext, span *report.TextSpan) *Symbol {
	sym := st.enterMember(owner, KindTypeArgument, name, ctx, span)
	sym.Lower, sym.Upper = Bottom, Top
	return sym
}

func (st *SymbolTable) enterMember(owner *Symbol, kind Kind, name string, ctx *report.CompilationContext, span *report.TextSpan) *Symbol {
	if owner.Members == nil {
		owner.Members = map[string]*Symbol{}
	}
	sym := st.newRaw(kind, name, owner)
	sym.Ctx, sym.Span = ctx, span
	owner.Members[name] = sym
	return sym
}

// EnterNewMethodOverload mangle-renames are handled by MangleRenameSymbol;
// this enters one of the fresh per-sig overload symbols produced from it
// (spec.md §4.4 "Multiple sigs + MethodDef").
func (st *SymbolTable) EnterNewMethodOverload(owner *Symbol, mangledName string, ctx *report.CompilationContext, span *report.TextSpan) *Symbol {
	sym := st.newRaw(KindMethod, mangledName, owner)
	sym.Ctx, sym.Span = ctx, span
	if owner.Members == nil {
		owner.Members = map[string]*Symbol{}
	}
	owner.Members[mangledName] = sym
	return sym
}

// MangleRenameSymbol renames an overloaded method's original symbol out of
// the way (e.g. `foo` -> `foo$1`) and registers it in its owner's Members
// under the new name, so each overload can be entered under a fresh name
// while the original slot in owner.Members is reassigned to the last
// overload by the caller.
func (st *SymbolTable) MangleRenameSymbol(sym *Symbol, suffix int) string {
	mangled := fmt.Sprintf("%s$%d", sym.Name, suffix)
	sym.Name = mangled
	if sym.Owner != nil && sym.Owner.Members != nil {
		sym.Owner.Members[mangled] = sym
	}
	return mangled
}

// -----------------------------------------------------------------------------
// Lookup.

// FindMember looks up name as a *direct* member of ctx (no ancestry walk),
// matching spec.md §4.1's "findMember (direct members only)".
func (st *SymbolTable) FindMember(ctx *Symbol, name string) (*Symbol, bool) {
	if ctx == nil || ctx.Members == nil {
		return nil, false
	}
	sym, ok := ctx.Members[name]
	return sym, ok
}

// FindMemberTransitive looks up name as a member of ctx or any ancestor of
// ctx (its mixins, most recently declared first, then its superclass chain,
// each searched transitively), matching
// spec.md §4.1's "findMemberTransitive ... which considers inheritance".
func (st *SymbolTable) FindMemberTransitive(ctx *Symbol, name string) (*Symbol, bool) {
	return st.findMemberTransitive(ctx, name, map[*Symbol]bool{})
}

func (st *SymbolTable) findMemberTransitive(ctx *Symbol, name string, seen map[*Symbol]bool) (*Symbol, bool) {
	if ctx == nil || seen[ctx] {
		return nil, false
	}
	seen[ctx] = true

	if sym, ok := st.FindMember(ctx, name); ok {
		return sym, true
	}

	for i := len(ctx.Mixins) - 1; i >= 0; i-- {
		if sym, ok := st.findMemberTransitive(ctx.Mixins[i], name, seen); ok {
			return sym, true
		}
	}

	if ctx.SuperClass != nil && ctx.SuperClass != st.Todo {
		if sym, ok := st.findMemberTransitive(ctx.SuperClass, name, seen); ok {
			return sym, true
		}
	}

	return nil, false
}

// FindMemberFuzzyMatch returns up to limit direct-or-inherited member names
// of ctx within edit distance 2 of name, sorted by distance then
// alphabetically, for use in "did you mean" suggestions (spec.md §4.1
// failure path, limited to three).
func (st *SymbolTable) FindMemberFuzzyMatch(ctx *Symbol, name string, limit int) []string {
	return fuzzyMatch(st.allMemberNames(ctx, map[*Symbol]bool{}), name, limit)
}

func (st *SymbolTable) allMemberNames(ctx *Symbol, seen map[*Symbol]bool) []string {
	if ctx == nil || seen[ctx] {
		return nil
	}
	seen[ctx] = true

	var names []string
	for n := range ctx.Members {
		names = append(names, n)
	}
	for _, m := range ctx.Mixins {
		names = append(names, st.allMemberNames(m, seen)...)
	}
	if ctx.SuperClass != nil && ctx.SuperClass != st.Todo {
		names = append(names, st.allMemberNames(ctx.SuperClass, seen)...)
	}
	return names
}

// Dealias follows AliasType pointers starting from sym's result type until
// a non-alias symbol is reached, matching spec.md's "Dealias — follow
// AliasType pointers until a non-alias symbol is reached". If sym itself is
// not a type/class alias, it is its own dealiased form.
func (st *SymbolTable) Dealias(sym *Symbol) *Symbol {
	seen := map[*Symbol]bool{}
	cur := sym
	for {
		if seen[cur] {
			// Cyclic alias chain; the resolve package's class-alias/
			// type-alias jobs are responsible for never letting this
			// happen, so this is a last-ditch guard rather than an
			// expected path.
			return cur
		}
		seen[cur] = true

		at, ok := cur.ResultType.(*AliasType)
		if !ok || at.Target == nil {
			return cur
		}
		cur = at.Target
	}
}

// -----------------------------------------------------------------------------
// Ancestry mutation (ResolveConstants' ancestor jobs, spec.md §4.1).

// SetSuperClass sets klass's superclass, returning false if klass already
// has a different, non-stub superclass set (a RedefinitionOfParents
// error, reported by the caller).
func (st *SymbolTable) SetSuperClass(klass, super *Symbol) bool {
	if klass.SuperClass != nil && klass.SuperClass != st.Todo && klass.SuperClass != st.StubSuperClass && klass.SuperClass != super {
		return false
	}
	klass.SuperClass = super
	return true
}

// AppendMixin appends a resolved mixin to klass's mixin list.
func (st *SymbolTable) AppendMixin(klass, mixin *Symbol) {
	klass.Mixins = append(klass.Mixins, mixin)
}

// Mixins returns klass's directly declared mixins in declaration order; the
// superclass is not included.
func (st *SymbolTable) Mixins(klass *Symbol) []*Symbol {
	return klass.Mixins
}

// DerivesFrom reports whether klass's ancestry (superclass chain and
// mixins, transitively) already includes ancestor -- used by the ancestor
// job reducer to detect circular inheritance (spec.md §4.1).
func (st *SymbolTable) DerivesFrom(klass, ancestor *Symbol) bool {
	return st.derivesFrom(klass, ancestor, map[*Symbol]bool{})
}

func (st *SymbolTable) derivesFrom(klass, ancestor *Symbol, seen map[*Symbol]bool) bool {
	if klass == nil || seen[klass] {
		return false
	}
	seen[klass] = true

	if klass == ancestor {
		return true
	}
	for _, m := range klass.Mixins {
		if st.derivesFrom(m, ancestor, seen) {
			return true
		}
	}
	if klass.SuperClass != nil && klass.SuperClass != st.Todo {
		return st.derivesFrom(klass.SuperClass, ancestor, seen)
	}
	return false
}

// RecordSealedSubclass records klass as a direct subclass of a sealed
// ancestor, per spec.md §4.1 "After a successful ancestor resolution, if
// the resolved ancestor is sealed, record klass as a sealed subclass".
func (st *SymbolTable) RecordSealedSubclass(ancestor, klass *Symbol) {
	ancestor.SealedSubclasses = append(ancestor.SealedSubclasses, klass)
}

// -----------------------------------------------------------------------------
// Subtyping, used by ResolveTypeParams bounds checks.

// IsSubtype reports a conservative subtyping relation sufficient for the
// type-member bounds checks in spec.md §4.3: untyped is compatible with
// everything in either direction, bottom/top act as identity/absorbing
// elements, and class types are compared via ancestry.
func (st *SymbolTable) IsSubtype(a, b Type) bool {
	if Equals(a, b) {
		return true
	}
	if a == Untyped || b == Untyped {
		return true
	}
	if a == Bottom || b == Top {
		return true
	}
	if a == Top || b == Bottom {
		return false
	}

	ac, aok := a.(*ClassType)
	bc, bok := b.(*ClassType)
	if aok && bok {
		return st.DerivesFrom(ac.Sym, bc.Sym)
	}

	return false
}

// -----------------------------------------------------------------------------

// SortedMemberNames is a small helper used by SanityCheck and tests to walk
// a symbol's members in a deterministic order.
func SortedMemberNames(sym *Symbol) []string {
	names := make([]string, 0, len(sym.Members))
	for n := range sym.Members {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
