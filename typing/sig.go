package typing

import (
	"chai/ast"
	"chai/common"
	"chai/report"
)

// ParsedParam is one entry of a sig's `params(...)` call, already
// elaborated to a common.Type.
type ParsedParam struct {
	Name string
	Type common.Type
	Span *report.TextSpan
}

// ParsedSig is the structured result of elaborating one `sig { ... }` call,
// implementing the §6 `parseSig(ctx, send, parent, args) -> ParsedSig`
// interface. resolve/signatures.go is responsible for matching Params
// against a MethodDef's actual arguments and reporting the mismatches
// spec.md §4.4 describes; ParseSig itself only extracts and elaborates
// what the sig body says.
type ParsedSig struct {
	Flags common.MethodFlags

	HasParams  bool
	Params     []ParsedParam
	HasReturns bool
	ReturnType common.Type
	Void       bool

	// RebindTo is the target of a `bind(Target)` call, if any.
	RebindTo common.Type

	// TypeArgNames are the names introduced by `type_parameters(:U, :V)`,
	// in declaration order; resolve/signatures.go enters fresh
	// common.KindTypeArgument symbols for each under the method symbol.
	TypeArgNames []string
}

// ParseSig elaborates one sig body (a chain of Sends rooted at send).
// parent is the method's owner as the caller passes it; ParseSig does not
// consult it, and elaboration uses args.Owner. Per spec.md §4.4, side
// effects (type errors from malformed
// annotations) still fire even when the sig body has no following
// MethodDef, so callers that are parsing "for effect only" should simply
// discard the returned ParsedSig rather than skip calling ParseSig.
func (e *Elaborator) ParseSig(ctx *report.CompilationContext, send *ast.Send, parent *common.Symbol, args Args) *ParsedSig {
	chain := flattenSigChain(send)
	ps := &ParsedSig{}

	for _, call := range chain {
		switch call.Name {
		case "abstract":
			ps.Flags.Abstract = true
		case "override":
			ps.Flags.Override = true
		case "overridable":
			ps.Flags.Overridable = true
		case "final":
			ps.Flags.Final = true
		case "generated":
			ps.Flags.Generated = true
		case "incompatible_override":
			ps.Flags.IncompatibleOverride = true

		case "bind":
			ps.Flags.Rebind = true
			if len(call.Args) == 1 {
				if !args.AllowRebind {
					report.BeginError(ctx, call.Span(), report.CodeInvalidMethodSignature).
						SetHeader("`bind` is not allowed in this position").
						Report()
				} else {
					ps.RebindTo = e.GetResultType(ctx, call.Args[0], Args{AllowSelfType: true, Owner: args.Owner})
				}
			}

		case "type_parameters":
			ps.Flags.Generic = true
			for _, a := range call.Args {
				if sl, ok := a.(*ast.SymLit); ok {
					ps.TypeArgNames = append(ps.TypeArgNames, sl.Value)
				}
			}

		case "params":
			ps.HasParams = true
			for _, a := range call.Args {
				ka, ok := a.(*ast.KeywordArg)
				if !ok {
					report.BeginError(ctx, a.Span(), report.CodeInvalidMethodSignature).
						SetHeader("malformed sig: `params` expects keyword arguments").
						Report()
					continue
				}
				typeArgs := Args{AllowSelfType: args.AllowSelfType, AllowRebind: false, AllowTypeMember: args.AllowTypeMember, Owner: args.Owner}
				ps.Params = append(ps.Params, ParsedParam{
					Name: ka.Name,
					Type: e.GetResultType(ctx, ka.Value, typeArgs),
					Span: ka.Span(),
				})
			}

		case "returns":
			ps.HasReturns = true
			if len(call.Args) == 1 {
				ps.ReturnType = e.GetResultType(ctx, call.Args[0], Args{AllowSelfType: true, AllowTypeMember: args.AllowTypeMember, Owner: args.Owner})
			}
			if ps.Void {
				report.BeginError(ctx, call.Span(), report.CodeInvalidMethodSignature).
					SetHeader("method declares both `returns` and `void`").
					Report()
			}

		case "void":
			ps.Void = true
			if ps.HasReturns {
				report.BeginError(ctx, call.Span(), report.CodeInvalidMethodSignature).
					SetHeader("method declares both `returns` and `void`").
					Report()
			}

		default:
			report.BeginError(ctx, call.Span(), report.CodeInvalidMethodSignature).
				SetHeader("unknown sig directive `%s`", call.Name).
				Report()
		}
	}

	return ps
}

// flattenSigChain unrolls a chained Send expression (`abstract.params(...).
// returns(...)`, parsed as nested Sends where each Recv is the previous
// call) into left-to-right call order.
func flattenSigChain(n ast.Node) []*ast.Send {
	send, ok := n.(*ast.Send)
	if !ok {
		return nil
	}
	return append(flattenSigChain(send.Recv), send)
}
