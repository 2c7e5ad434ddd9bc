package ast

import "chai/common"

// UnresolvedConstantLit is a textual constant reference with an optional
// scope prefix, e.g. `Foo`, `Foo::Bar`, `::Foo`. Scope is nil for an
// unscoped reference; otherwise it is itself transformed to a ConstantLit
// (or, rarely, left as a non-constant expression, which is a
// DynamicConstant error) before the reference as a whole is resolved
// (spec.md §4.1).
type UnresolvedConstantLit struct {
	Base

	Scope Node
	Name  string
}

// ConstantLit is the bound form every UnresolvedConstantLit is rewritten
// into. Symbol is never nil once bound: it is either a real symbol or one
// of the canonical stubs (spec.md §3 invariants). ResolutionScope records
// where resolution found the symbol (or, for an unresolved reference
// substituted with a stub, the best-known scope) purely for diagnostic
// purposes -- it has no effect on later passes.
type ConstantLit struct {
	Base

	Original        *UnresolvedConstantLit
	Symbol          *common.Symbol
	ResolutionScope string
}

// Resolved reports whether this literal carries a real symbol as opposed to
// the zero value used transiently while a constant job is still pending.
func (c *ConstantLit) Resolved() bool {
	return c.Symbol != nil
}

// SelfRef is a bare `self` reference, relevant to resolution only as an
// ancestor expression (`class Foo < self; end`, rewritten to a reference to
// Foo itself) and to `alias_method`/`mixes_in_class_methods`'s receiver
// check.
type SelfRef struct {
	Base
}

// Ident is an untyped bare identifier: an instance variable (`@x`) or class
// variable (`@@x`) reference appearing as an Assign's LHS before it has a
// field symbol entered for it (spec.md §4.4 "Field/constant typing").
type Ident struct {
	Base

	Name       string
	IsClassVar bool
}

// Assign is `lhs = rhs`. LHS may be a *ConstantLit (class alias / type
// alias / static-field declaration) or an *Ident (instance/class variable
// declaration).
type Assign struct {
	Base

	LHS Node
	RHS Node
}

// Send is a method call. It covers both ordinary sends and every form of
// the signature DSL: `sig { ... }`, `T.let(e, t)`, `T.cast(e, t)`,
// `T.assert_type!(e, t)`, `T.type_alias { t }`, `T.reveal_type(e)`,
// `mixes_in_class_methods(Mod)`, `alias_method(:a, :b)`, and the chained
// `params(...).returns(...)` calls that make up a sig body -- each link of
// that chain is itself a Send whose Recv is the previous link.
type Send struct {
	Base

	Recv Node // nil means an implicit self receiver
	Name string
	Args []Node

	// Block is the body of a `sig { ... }`/`T.type_alias { ... }` block
	// argument, itself a chain of Sends (e.g. `params(...).returns(...)`).
	Block Node
}

// KeywordArg is a `name: value` argument to a Send, used by `params(x:
// Integer, y: String)` inside a sig body and by keyword arguments in
// ordinary calls.
type KeywordArg struct {
	Base

	Name  string
	Value Node
}

// StrLit/SymLit/IntLit/BoolLit are the literal forms default-argument
// expressions and alias_method/mixes_in_class_methods arguments can take.
type StrLit struct {
	Base
	Value string
}

type SymLit struct {
	Base
	Value string
}

type IntLit struct {
	Base
	Value int64
}

type BoolLit struct {
	Base
	Value bool
}

// Cast is the typed node a `T.let`/`T.cast`/`T.assert_type!` Send is
// rewritten into once its type argument has been elaborated (spec.md §3,
// §4.4 "Cast rewriting").
type CastKind int

const (
	CastLet CastKind = iota
	CastCast
	CastAssertType
)

func (k CastKind) String() string {
	switch k {
	case CastLet:
		return "T.let"
	case CastCast:
		return "T.cast"
	case CastAssertType:
		return "T.assert_type!"
	default:
		return "cast"
	}
}

type Cast struct {
	Base

	Expr Node
	Type common.Type
	Kind CastKind
}
