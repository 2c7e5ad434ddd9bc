package common

import "chai/report"

// Kind is the kind of entity a Symbol denotes (spec.md §3: "kind (class,
// module, method, static-field, field, type-alias, type-member,
// type-argument)").
type Kind int

const (
	KindRoot Kind = iota
	KindClass
	KindModule
	KindMethod
	KindStaticField
	KindField
	KindTypeAlias
	KindTypeMember
	KindTypeArgument
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindClass:
		return "class"
	case KindModule:
		return "module"
	case KindMethod:
		return "method"
	case KindStaticField:
		return "static field"
	case KindField:
		return "field"
	case KindTypeAlias:
		return "type alias"
	case KindTypeMember:
		return "type member"
	case KindTypeArgument:
		return "type argument"
	default:
		return "unknown symbol"
	}
}

// MethodFlags records the modifiers a sig or def can apply to a method.
type MethodFlags struct {
	Abstract             bool
	Override             bool
	Overridable          bool
	Final                bool
	IncompatibleOverride bool
	Generated            bool
	Generic              bool
	Rebind               bool
	Overloaded           bool
}

// ArgKind distinguishes positional, keyword, and block arguments so that sig
// elaboration can match `params(...)` entries to MethodDef arguments by name
// and kind (spec.md §4.4).
type ArgKind int

const (
	ArgPositional ArgKind = iota
	ArgKeyword
	ArgBlock
)

// Arg is one argument of a method symbol.
type Arg struct {
	Name     string
	Kind     ArgKind
	Type     Type
	Optional bool
	Span     *report.TextSpan

	// Rebind is the `T.type_parameter`-free rebind target for `T.self_type`
	// style rebinding of the enclosing type; nil if not rebound.
	Rebind *Symbol
}

// Symbol is the unit of the symbol table: a class, module, method,
// field/static-field, type alias, type member, or type argument, per
// spec.md §3. Kind-specific payload fields are simply left zero-valued
// for kinds that don't use them, following the teacher's
// depm.Symbol/common.Symbol pattern of one struct with a DefKind tag
// rather than an interface hierarchy per kind.
type Symbol struct {
	ID   uint64
	Kind Kind
	Name string

	// Owner is the enclosing symbol: the class/module a member belongs to,
	// or nil for the root.
	Owner *Symbol

	Ctx  *report.CompilationContext
	Span *report.TextSpan

	// --- class / module payload ---

	SuperClass       *Symbol
	Mixins           []*Symbol
	Members          map[string]*Symbol
	Sealed           bool
	SealedSubclasses []*Symbol
	Abstract         bool
	Interface        bool

	// ClassMethods is the module set by mixes_in_class_methods, whose
	// instance methods become class methods of any class this module is
	// mixed into (spec.md §4.2).
	ClassMethods *Symbol

	// --- method payload ---

	Args       []Arg
	ResultType Type
	Flags      MethodFlags

	// --- type-alias / static-field / class-alias payload ---
	// ResultType doubles as the alias/field's materialized type.

	// --- type-member payload ---

	Lower, Upper Type
	Fixed        bool

	// Used marks a symbol that has actually been referenced; SanityCheck
	// and diagnostics tooling can use it, but the core resolve walks never
	// gate behavior on it (kept for parity with the teacher's
	// common.Symbol.Used field).
	Used bool
}

// IsClassOrModule reports whether sym denotes a class or module (as opposed
// to a method, field, alias, or type member).
func (s *Symbol) IsClassOrModule() bool {
	return s.Kind == KindClass || s.Kind == KindModule
}

// IsTypeAlias reports whether sym is a type-alias symbol. It looks only at
// Kind; ResultTypeSet reports whether its type-alias job has completed.
func (s *Symbol) IsTypeAlias() bool {
	return s.Kind == KindTypeAlias
}

// ResultTypeSet reports whether a type-alias/static-field symbol's result
// type has been populated yet. Constant jobs that resolve to an
// in-progress type alias stay pending until this is true (spec.md §4.1
// "Reducibility of jobs").
func (s *Symbol) ResultTypeSet() bool {
	return s.ResultType != nil
}
