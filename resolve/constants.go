package resolve

import (
	"chai/ast"
	"chai/common"
	"chai/depm"
)

// resolveStatus is the outcome of one attempt at the resolution primitive
// (spec.md §4.1 "Resolution primitive"). dynamicConstant and
// constantInTypeAlias are themselves reducible outcomes -- they only ever
// get reported from the single-threaded fixpoint (see fixpoint.go), never
// from the parallel pre-walk, so that error ordering stays deterministic
// regardless of worker scheduling.
type resolveStatus int

const (
	statusResolved resolveStatus = iota
	statusPending
	statusDynamicConstant
	statusConstantInTypeAlias
)

// resolveConstant implements spec.md §4.1's resolution primitive exactly:
// given a nesting chain and a (possibly scoped) textual reference, either
// produce the bound symbol or report why it can't be bound yet.
func resolveConstant(table *common.SymbolTable, n *nesting, lit *ast.ConstantLit) (*common.Symbol, resolveStatus) {
	scope := lit.Original.Scope
	name := lit.Original.Name

	if scope == nil {
		sym, ok := resolveUnscoped(table, n, name)
		if !ok {
			return nil, statusPending
		}
		return sym, statusResolved
	}

	scopeLit, isConstantScope := scope.(*ast.ConstantLit)
	if !isConstantScope {
		return nil, statusDynamicConstant
	}
	if !scopeLit.Resolved() {
		return nil, statusPending
	}

	dealiased := table.Dealias(scopeLit.Symbol)
	if dealiased.Kind == common.KindTypeAlias {
		return nil, statusConstantInTypeAlias
	}

	sym, ok := table.FindMember(dealiased, name)
	if !ok {
		return nil, statusPending
	}
	return sym, statusResolved
}

// resolveUnscoped is the empty-scope half of the resolution primitive: walk
// the nesting chain nearest-first calling findMember (direct members only);
// if nothing matches, fall back to one findMemberTransitive from the
// innermost scope.
func resolveUnscoped(table *common.SymbolTable, n *nesting, name string) (*common.Symbol, bool) {
	var found *common.Symbol
	n.walk(func(s *common.Symbol) bool {
		if sym, ok := table.FindMember(s, name); ok {
			found = sym
			return false
		}
		return true
	})
	if found != nil {
		return found, true
	}
	return table.FindMemberTransitive(n.innermost(), name)
}

// finishIfReady applies the "reducibility of a constant job" rule to an
// already-resolved symbol: a type alias isn't a usable result until its own
// type-alias job has populated its result type (spec.md §4.1).
func finishIfReady(lit *ast.ConstantLit, sym *common.Symbol) bool {
	if sym.Kind == common.KindTypeAlias && !sym.ResultTypeSet() {
		return false
	}
	lit.Symbol = sym
	return true
}

// preWalkResult is one file's output from the parallel pre-walk: its
// rewritten statements plus the four work-item lists it discovered,
// per spec.md §4.1/§5.
type preWalkResult struct {
	file *depm.File

	statements ast.Statements

	constants    []*constantJob
	ancestors    []*ancestorJob
	classAliases []*classAliasJob
	typeAliases  []*typeAliasJob
}

// walker is the per-file pre-walk state: a nesting chain plus the four
// local work-lists, grounded on the teacher's walk/walker.go Walker type.
// Workers never mutate the symbol table (only findMember-style reads), so
// many walkers can safely run concurrently over the table built by the
// namer.
type walker struct {
	table *common.SymbolTable
	file  *depm.File

	constants    []*constantJob
	ancestors    []*ancestorJob
	classAliases []*classAliasJob
	typeAliases  []*typeAliasJob
}

// preWalkFile runs the pre-walk over one file's top-level statements,
// implementing spec.md §4.1 steps 1-4.
func preWalkFile(table *common.SymbolTable, file *depm.File) *preWalkResult {
	w := &walker{table: table, file: file}
	stmts := w.walkStatements(&nesting{sym: table.Root}, file.Statements)
	return &preWalkResult{
		file:         file,
		statements:   stmts,
		constants:    w.constants,
		ancestors:    w.ancestors,
		classAliases: w.classAliases,
		typeAliases:  w.typeAliases,
	}
}

func (w *walker) walkStatements(n *nesting, stmts ast.Statements) ast.Statements {
	out := make(ast.Statements, len(stmts))
	for i, s := range stmts {
		out[i] = w.walkNode(n, s)
	}
	return out
}

// walkNode dispatches by concrete node type, transforming constant
// references in place and recursing into nested statement sequences.
func (w *walker) walkNode(n *nesting, node ast.Node) ast.Node {
	switch v := node.(type) {
	case *ast.UnresolvedConstantLit:
		return w.transformConstant(n, v)

	case *ast.ClassDef:
		return w.walkClassDef(n, v)

	case *ast.MethodDef:
		return w.walkMethodDef(n, v)

	case *ast.Assign:
		return w.walkAssign(n, v)

	case *ast.Send:
		return w.walkSend(n, v)

	case *ast.KeywordArg:
		v.Value = w.walkNode(n, v.Value)
		return v

	default:
		return node
	}
}

// transformConstant turns an UnresolvedConstantLit into a ConstantLit,
// first recursing into its scope prefix (spec.md §4.1 step 2: "after first
// recursively transforming its scope prefix"), then attempting an
// immediate resolve; unresolved references are left as pending ConstantLits
// and a constant job is enqueued for the fixpoint to retry.
func (w *walker) transformConstant(n *nesting, u *ast.UnresolvedConstantLit) *ast.ConstantLit {
	if u.Scope != nil {
		u.Scope = w.walkNode(n, u.Scope)
	}

	lit := &ast.ConstantLit{
		Base:     u.Base,
		Original: u,
	}

	sym, status := resolveConstant(w.table, n, lit)
	if status == statusResolved && finishIfReady(lit, sym) {
		return lit
	}

	w.constants = append(w.constants, &constantJob{file: w.file, nesting: n, out: lit})
	return lit
}

// walkClassDef pushes the class symbol onto the nesting chain, transforms
// every ancestor expression, and enqueues an ancestor job for each (spec.md
// §4.1 step 3).
func (w *walker) walkClassDef(n *nesting, c *ast.ClassDef) *ast.ClassDef {
	inner := n.push(c.Symbol)

	for i, anc := range c.Ancestors {
		lit := w.transformAncestor(n, inner, anc)
		c.Ancestors[i] = lit
		isSuper := i == 0 && !c.IsModule
		w.ancestors = append(w.ancestors, &ancestorJob{
			file: w.file, ancestor: lit, klass: c.Symbol, isSuperclass: isSuper,
		})
	}

	// Singleton-class ancestors (`class << self; include Mod; end`) are
	// always mixins; this repo has no distinct singleton-class symbol, so
	// they are folded onto the class symbol itself as additional mixins
	// rather than a true class-method resolution chain (see DESIGN.md).
	for i, anc := range c.SingletonAncestors {
		lit := w.transformAncestor(n, inner, anc)
		c.SingletonAncestors[i] = lit
		w.ancestors = append(w.ancestors, &ancestorJob{
			file: w.file, ancestor: lit, klass: c.Symbol, isSuperclass: false,
		})
	}

	c.Body = w.walkStatements(inner, c.Body)
	return c
}

// transformAncestor handles the `self` rewrite (spec.md §4.1 step 3: "A
// self-reference self as an ancestor is rewritten to the enclosing class's
// name") by binding directly to the enclosing class's own symbol, then
// otherwise transforms like any other constant reference.
func (w *walker) transformAncestor(outer, inner *nesting, node ast.Node) *ast.ConstantLit {
	if self, ok := node.(*ast.SelfRef); ok {
		return &ast.ConstantLit{
			Base:   self.Base,
			Symbol: inner.innermost(),
		}
	}

	switch v := node.(type) {
	case *ast.UnresolvedConstantLit:
		return w.transformConstant(outer, v)
	case *ast.ConstantLit:
		return v
	default:
		// A dynamic (non-constant) ancestor expression; give it an
		// already-failed ConstantLit so the ancestor job reports
		// DynamicSuperclass instead of getting stuck pending forever.
		lit := &ast.ConstantLit{Base: ast.NewBaseOn(node.Span())}
		w.constants = append(w.constants, &constantJob{file: w.file, nesting: outer, out: lit})
		return lit
	}
}

// walkMethodDef recurses into the method body; the nesting chain for a
// method body is the same as its enclosing class (methods don't introduce
// a new constant scope).
func (w *walker) walkMethodDef(n *nesting, m *ast.MethodDef) *ast.MethodDef {
	for i := range m.Args {
		if m.Args[i].Default != nil {
			m.Args[i].Default = w.walkNode(n, m.Args[i].Default)
		}
	}
	m.Body = w.walkStatements(n, m.Body)
	return m
}

// walkSend recurses into the receiver, arguments, and block of a method
// call, which covers both ordinary sends and every form of the sig/T.*
// annotation DSL -- signature elaboration itself happens later, in
// resolve/signatures.go, once every constant it touches has resolved.
func (w *walker) walkSend(n *nesting, s *ast.Send) ast.Node {
	if s.Recv != nil {
		s.Recv = w.walkNode(n, s.Recv)
	}
	for i, a := range s.Args {
		s.Args[i] = w.walkNode(n, a)
	}
	if s.Block != nil {
		s.Block = w.walkNode(n, s.Block)
	}
	return s
}

// walkAssign implements spec.md §4.1 step 4: a top-level/class-level
// assignment whose LHS is a constant denotes either a type alias
// (`X = T.type_alias { ... }`) or a class alias (`X = SomeOtherConst`);
// anything else (an Ident LHS, i.e. an instance/class variable) is left
// for ResolveSignatures' field/constant typing to handle.
func (w *walker) walkAssign(n *nesting, a *ast.Assign) *ast.Assign {
	lhsUnresolved, lhsIsConstRef := a.LHS.(*ast.UnresolvedConstantLit)
	if !lhsIsConstRef {
		a.LHS = w.walkNode(n, a.LHS)
		a.RHS = w.walkNode(n, a.RHS)
		return a
	}

	if lhsUnresolved.Scope != nil {
		lhsUnresolved.Scope = w.walkNode(n, lhsUnresolved.Scope)
	}
	lhsLit := &ast.ConstantLit{Base: lhsUnresolved.Base, Original: lhsUnresolved}
	a.LHS = lhsLit

	// The declaration site looks its own symbol up directly: the namer
	// already entered it as a member of the enclosing scope, so this
	// never depends on the alias itself being fully formed (unlike a
	// later reference to the same name, which does -- see finishIfReady).
	lhsSym, _ := resolveConstant(w.table, n, lhsLit)
	if lhsSym != nil {
		finishIfReady(lhsLit, lhsSym)
	}
	if lhsLit.Symbol == nil {
		// Either genuinely unresolved, or a not-yet-ready type alias;
		// either way, enqueue the ordinary constant job so it still gets
		// resolved/reported on its own (spec.md §4.1 step 4, "also
		// enqueue a constant job for the LHS").
		w.constants = append(w.constants, &constantJob{file: w.file, nesting: n, out: lhsLit})
	}

	if lhsSym == nil {
		a.RHS = w.walkNode(n, a.RHS)
		return a
	}

	if send, ok := a.RHS.(*ast.Send); ok && isTypeAliasSend(send) {
		body := send.Block
		if body != nil {
			body = w.walkNode(n, body)
		}
		w.typeAliases = append(w.typeAliases, &typeAliasJob{
			file: w.file, lhs: lhsSym, owner: n.innermost(), rhs: body,
		})
		return a
	}

	a.RHS = w.walkNode(n, a.RHS)
	if rhsLit, ok := a.RHS.(*ast.ConstantLit); ok {
		w.classAliases = append(w.classAliases, &classAliasJob{file: w.file, lhs: lhsSym, rhs: rhsLit})
	}
	return a
}

// isTypeAliasSend recognizes the `T.type_alias { ... }` call shape.
func isTypeAliasSend(s *ast.Send) bool {
	return s.Name == "type_alias"
}
