package common

import "fmt"

// Type is a fully materialized type term: the output of the type-syntax
// service (see typing.Elaborator) once every constant it mentions has
// resolved. Every declared method argument, return type, type alias, and
// type-member bound is, after this pass, one of these concrete forms.
type Type interface {
	String() string
	isType()
}

// UntypedType is the default type assigned wherever the program gives no
// annotation: an unmatched method argument, a field with no T.let, a
// type-member bound that was never narrowed. It is a single shared value,
// not a per-site allocation, matching the spec's single reserved `untyped`
// symbol.
var Untyped Type = untypedType{}

type untypedType struct{}

func (untypedType) String() string { return "T.untyped" }
func (untypedType) isType()        {}

// BottomType ("T.noreturn") is the default lower bound of a type member.
var Bottom Type = bottomType{}

type bottomType struct{}

func (bottomType) String() string { return "T.noreturn" }
func (bottomType) isType()        {}

// TopType ("T.anything") is the default upper bound of a type member.
var Top Type = topType{}

type topType struct{}

func (topType) String() string { return "T.anything" }
func (topType) isType()        {}

// SelfType represents `T.self_type` appearing in a signature.
var SelfType Type = selfType{}

type selfType struct{}

func (selfType) String() string { return "T.self_type" }
func (selfType) isType()        {}

// ClassType is a reference to a resolved class or module, optionally with
// type arguments applied (a generic application, e.g. `Box[Integer]`).
type ClassType struct {
	Sym      *Symbol
	TypeArgs []Type
}

func (c *ClassType) String() string {
	if len(c.TypeArgs) == 0 {
		return c.Sym.Name
	}
	s := c.Sym.Name + "["
	for i, a := range c.TypeArgs {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + "]"
}
func (*ClassType) isType() {}

// NilableType represents `T.nilable(inner)`.
type NilableType struct {
	Inner Type
}

func (n *NilableType) String() string { return fmt.Sprintf("T.nilable(%s)", n.Inner) }
func (*NilableType) isType()          {}

// UnionType represents `T.any(a, b, ...)`.
type UnionType struct {
	Members []Type
}

func (u *UnionType) String() string {
	s := ""
	for i, m := range u.Members {
		if i > 0 {
			s += " | "
		}
		s += m.String()
	}
	return s
}
func (*UnionType) isType() {}

// AliasType represents the result type of a class alias or type alias: a
// lazily-dealiased pointer to the symbol it names. Dealiasing (following
// AliasType chains until a non-alias symbol is reached) is implemented by
// SymbolTable.Dealias.
type AliasType struct {
	Target *Symbol
}

func (a *AliasType) String() string { return a.Target.Name }
func (*AliasType) isType()          {}

// TypeMemberRef represents a reference to a type member or type argument
// used inside a signature, e.g. `Elem` inside `class Box; Elem = type_member`.
type TypeMemberRef struct {
	Sym *Symbol
}

func (t *TypeMemberRef) String() string { return t.Sym.Name }
func (*TypeMemberRef) isType()          {}

// Equals reports whether two types are structurally identical. It is
// shallow: it does not dealias AliasType targets, matching the spec's
// treatment of aliases as distinct types until explicitly dealiased.
func Equals(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch av := a.(type) {
	case *ClassType:
		bv, ok := b.(*ClassType)
		if !ok || av.Sym != bv.Sym || len(av.TypeArgs) != len(bv.TypeArgs) {
			return false
		}
		for i := range av.TypeArgs {
			if !Equals(av.TypeArgs[i], bv.TypeArgs[i]) {
				return false
			}
		}
		return true
	case *NilableType:
		bv, ok := b.(*NilableType)
		return ok && Equals(av.Inner, bv.Inner)
	case *UnionType:
		bv, ok := b.(*UnionType)
		if !ok || len(av.Members) != len(bv.Members) {
			return false
		}
		for i := range av.Members {
			if !Equals(av.Members[i], bv.Members[i]) {
				return false
			}
		}
		return true
	case *AliasType:
		bv, ok := b.(*AliasType)
		return ok && av.Target == bv.Target
	case *TypeMemberRef:
		bv, ok := b.(*TypeMemberRef)
		return ok && av.Sym == bv.Sym
	default:
		return a == b
	}
}
