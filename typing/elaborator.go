// Package typing is the type-syntax service named in spec.md §6: it turns
// an annotation expression (already fully constant-resolved -- see
// IsFullyResolved below) into a materialized common.Type.
// It is deliberately passive: it never drives constant resolution itself,
// only reads the ConstantLit.Symbol values the fixpoint has already filled
// in, matching the "type-syntax service boundary" design note in
// spec.md §9.
package typing

import (
	"chai/ast"
	"chai/common"
	"chai/report"
)

// Args is the argument record the spec's §6 interface names:
// `allowSelfType, allowRebind, allowTypeMember, owner`.
type Args struct {
	AllowSelfType   bool
	AllowRebind     bool
	AllowTypeMember bool
	Owner           *common.Symbol
}

// Elaborator is the concrete type-syntax service, grounded on the teacher's
// typing package (DataType/FuncType) generalized to the richer annotation
// DSL this spec's signatures use. It reads the symbol table only to
// recognize the universe `T.untyped` symbol; it never mutates the table.
type Elaborator struct {
	Table *common.SymbolTable
}

// NewElaborator creates a type-syntax service bound to the program's
// symbol table.
func NewElaborator(table *common.SymbolTable) *Elaborator {
	return &Elaborator{Table: table}
}

// GetResultType elaborates a single annotation expression into a
// common.Type, implementing the §6 `getResultType(ctx, expr, parentSig,
// args) -> Type` interface. This method takes no parentSig parameter: an
// annotation elaborates the same way whichever sig it appears in.
func (e *Elaborator) GetResultType(ctx *report.CompilationContext, expr ast.Node, args Args) common.Type {
	switch n := expr.(type) {
	case nil:
		return common.Untyped

	case *ast.ConstantLit:
		return e.typeFromConstant(ctx, n, args)

	case *ast.SelfRef:
		if args.AllowSelfType {
			return common.SelfType
		}
		report.BeginError(ctx, n.Span(), report.CodeInvalidMethodSignature).
			SetHeader("`T.self_type` is not allowed in this position").
			Report()
		return common.Untyped

	case *ast.Send:
		return e.typeFromSend(ctx, n, args)

	default:
		report.ICE("typing: unexpected node %T in type position", expr)
		return common.Untyped
	}
}

func (e *Elaborator) typeFromConstant(ctx *report.CompilationContext, lit *ast.ConstantLit, args Args) common.Type {
	if lit.Symbol == nil {
		return common.Untyped
	}

	sym := lit.Symbol
	switch sym.Kind {
	case common.KindClass, common.KindModule:
		if sym == e.Table.UntypedSym {
			return common.Untyped
		}
		return &common.ClassType{Sym: sym}

	case common.KindTypeAlias:
		return &common.AliasType{Target: sym}

	case common.KindTypeMember, common.KindTypeArgument:
		if !args.AllowTypeMember {
			report.BeginError(ctx, lit.Span(), report.CodeInvalidMethodSignature).
				SetHeader("type member `%s` is not allowed in this position", sym.Name).
				Report()
			return common.Untyped
		}
		return &common.TypeMemberRef{Sym: sym}

	default:
		report.BeginError(ctx, lit.Span(), report.CodeInvalidMethodSignature).
			SetHeader("`%s` is not a type", sym.Name).
			Report()
		return common.Untyped
	}
}

// typeFromSend handles the generic-application / T.nilable / T.any /
// T.self_type forms of the annotation DSL, each spelled as a Send in the
// chained-method style the real DSL uses (e.g. `T.nilable(String)` is
// `Send{Recv: Send{Recv:nil, Name:"T"}, Name:"nilable", Args:[String]}`,
// but since `T` itself resolves to a ConstantLit via the constant
// fixpoint, by the time this runs the receiver is already a *ConstantLit
// bound to the universal `T` module).
func (e *Elaborator) typeFromSend(ctx *report.CompilationContext, send *ast.Send, args Args) common.Type {
	switch send.Name {
	case "nilable":
		if len(send.Args) != 1 {
			report.BeginError(ctx, send.Span(), report.CodeInvalidMethodSignature).
				SetHeader("T.nilable expects exactly one type argument").
				Report()
			return common.Untyped
		}
		return &common.NilableType{Inner: e.GetResultType(ctx, send.Args[0], args)}

	case "any":
		members := make([]common.Type, len(send.Args))
		for i, a := range send.Args {
			members[i] = e.GetResultType(ctx, a, args)
		}
		return &common.UnionType{Members: members}

	case "self_type":
		if args.AllowSelfType {
			return common.SelfType
		}
		report.BeginError(ctx, send.Span(), report.CodeInvalidMethodSignature).
			SetHeader("`T.self_type` is not allowed in this position").
			Report()
		return common.Untyped

	case "untyped":
		return common.Untyped

	case "noreturn":
		return common.Bottom

	case "anything":
		return common.Top

	case "[]":
		// Generic application, e.g. `Box[Elem]`.
		base := e.GetResultType(ctx, send.Recv, args)
		ct, ok := base.(*common.ClassType)
		if !ok {
			report.BeginError(ctx, send.Span(), report.CodeInvalidMethodSignature).
				SetHeader("cannot apply type arguments to a non-generic type").
				Report()
			return common.Untyped
		}
		typeArgs := make([]common.Type, len(send.Args))
		for i, a := range send.Args {
			typeArgs[i] = e.GetResultType(ctx, a, args)
		}
		return &common.ClassType{Sym: ct.Sym, TypeArgs: typeArgs}

	default:
		report.BeginError(ctx, send.Span(), report.CodeInvalidMethodSignature).
			SetHeader("`%s` is not a valid type expression", send.Name).
			Report()
		return common.Untyped
	}
}

// IsFullyResolved reports whether every ConstantLit reachable from expr is
// already bound, the precondition resolve/fixpoint.go's type-alias job
// reducer checks before calling into this elaborator (spec.md §4.1
// "Resolve type-alias job", §9 "type-syntax service boundary").
func IsFullyResolved(expr ast.Node) bool {
	switch n := expr.(type) {
	case nil:
		return true
	case *ast.ConstantLit:
		return n.Resolved()
	case *ast.Send:
		if n.Recv != nil && !IsFullyResolved(n.Recv) {
			return false
		}
		for _, a := range n.Args {
			if ka, ok := a.(*ast.KeywordArg); ok {
				if !IsFullyResolved(ka.Value) {
					return false
				}
				continue
			}
			if !IsFullyResolved(a) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
