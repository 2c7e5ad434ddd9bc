package ast

import (
	"chai/common"
	"chai/report"
)

// ClassDef is a class or module body. Glyph classes are reopenable, so two
// ClassDef nodes across a program (or even within one file) can share the
// same Symbol, per spec.md's open-classes scope.
type ClassDef struct {
	Base

	Symbol   *common.Symbol
	IsModule bool

	// Ancestors is the list of ancestor expressions in source order. After
	// the pre-walk, each entry has been transformed into a *ConstantLit
	// (spec.md §4.1 step 3). The first ancestor of a `class` (not a
	// `module`) that is not itself a singleton-class ancestor is the
	// superclass; the rest are mixins.
	Ancestors []Node

	// SingletonAncestors is the parallel list of `class << self; include
	// Mod; end`-style singleton-class ancestors, always treated as mixins,
	// never as a superclass. There is no separate singleton-class symbol:
	// the pre-walk appends them to Symbol's own mixins.
	SingletonAncestors []Node

	Body Statements
}

// ArgDecl is one formal parameter of a MethodDef, prior to sig elaboration.
// Once ResolveSignatures runs, the corresponding common.Arg on the method's
// Symbol carries the elaborated type; ArgDecl itself keeps no type. The
// only part of it resolution rewrites is Default, whose constant references
// the pre-walk binds in place.
type ArgDecl struct {
	Name     string
	Kind     common.ArgKind
	Default  Node // nil if the argument has no default
	Optional bool
	Span     *report.TextSpan
}

// MethodDef is a method definition. Symbol is entered by the namer (or, in
// this repo's tests, by the fixture builder) before resolution runs;
// ResolveSignatures is what gives Symbol.Args their types and
// Symbol.ResultType its value.
type MethodDef struct {
	Base

	Symbol       *common.Symbol
	Name         string
	IsSelfMethod bool
	Args         []ArgDecl
	Body         Statements
}
