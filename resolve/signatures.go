package resolve

import (
	"fmt"

	"chai/ast"
	"chai/common"
	"chai/depm"
	"chai/report"
	"chai/typing"
)

// ResolveSignatures implements spec.md §4.4: gather each body statement
// sequence's preceding `sig { ... }` calls into a buffer, then apply them
// to the next MethodDef, plus the field/constant typing and
// abstract-method checks that ride along with the same walk.
func ResolveSignatures(table *common.SymbolTable, elab *typing.Elaborator, proj *depm.Project, files []*depm.File) {
	for _, f := range files {
		f.Statements = walkSignatures(table, elab, proj, f, nil, f.Statements, false).Sweep()
	}
}

func walkSignatures(table *common.SymbolTable, elab *typing.Elaborator, proj *depm.Project, f *depm.File, owner *common.Symbol, stmts ast.Statements, insideInitialize bool) ast.Statements {
	ctx := f.Ctx
	var lastSigs []*ast.Send

	flush := func() {
		if len(lastSigs) == 0 {
			return
		}
		for _, s := range lastSigs {
			elab.ParseSig(ctx, s.Block.(*ast.Send), owner, typing.Args{AllowSelfType: true, AllowRebind: true, AllowTypeMember: true, Owner: owner})
		}
		report.BeginError(ctx, lastSigs[0].Span(), report.CodeInvalidMethodSignature).
			SetHeader("malformed sig: no method def following it").
			Report()
		lastSigs = nil
	}

	for i, s := range stmts {
		switch v := s.(type) {
		case *ast.Send:
			if v.Name == "sig" {
				if f.Strictness == report.StrictnessIgnore {
					report.BeginError(ctx, v.Span(), report.CodeSigInFileWithoutSigil).
						SetHeader("sig used in a file without a strictness sigil").
						Report()
				}
				lastSigs = append(lastSigs, v)
				stmts[i] = &ast.EmptyTree{Base: ast.NewBaseOn(v.Span())}
				continue
			}
			if v.Name == "alias_method" {
				stmts[i] = applyAliasMethod(table, ctx, owner, v)
				continue
			}
			stmts[i] = rewriteCastSend(ctx, elab, owner, f, v)

		case *ast.MethodDef:
			sigs := lastSigs
			lastSigs = nil
			applySigsToMethod(table, elab, ctx, proj, f, owner, v, sigs)
			v.Body = walkSignatures(table, elab, proj, f, owner, v.Body, v.Name == "initialize").Sweep()

		case *ast.ClassDef:
			flush()
			v.Body = walkSignatures(table, elab, proj, f, v.Symbol, v.Body, false).Sweep()

		case *ast.Assign:
			flush()
			stmts[i] = applyFieldOrConstantTyping(table, elab, ctx, f, owner, insideInitialize, v)

		default:
			flush()
		}
	}
	flush()

	return stmts
}

// applySigsToMethod implements the zero/one/multiple-sig rules of
// spec.md §4.4.
func applySigsToMethod(
	table *common.SymbolTable,
	elab *typing.Elaborator,
	ctx *report.CompilationContext,
	proj *depm.Project,
	f *depm.File,
	owner *common.Symbol,
	m *ast.MethodDef,
	sigs []*ast.Send,
) {
	switch len(sigs) {
	case 0:
		return

	case 1:
		applySingleSig(table, elab, ctx, owner, m, sigs[0])

	default:
		if !proj.PermitOverloadDefinitions(f) {
			report.BeginError(ctx, sigs[0].Span(), report.CodeOverloadNotAllowed).
				SetHeader("overloaded sig for %q is not permitted in this file", m.Name).
				Report()
			applySingleSig(table, elab, ctx, owner, m, sigs[len(sigs)-1])
			return
		}
		applyOverloadSigs(table, elab, ctx, owner, m, sigs)
	}
}

func applySingleSig(
	table *common.SymbolTable,
	elab *typing.Elaborator,
	ctx *report.CompilationContext,
	owner *common.Symbol,
	m *ast.MethodDef,
	sigSend *ast.Send,
) {
	sym := m.Symbol
	ps := elab.ParseSig(ctx, sigSend.Block.(*ast.Send), owner, typing.Args{AllowSelfType: true, AllowRebind: true, AllowTypeMember: true, Owner: sym})
	sym.Flags = ps.Flags

	for _, name := range ps.TypeArgNames {
		table.EnterTypeArgument(sym, name, ctx, sigSend.Span())
	}

	declaredAny := ps.HasParams || ps.HasReturns || ps.Void

	byName := map[string]typing.ParsedParam{}
	for _, p := range ps.Params {
		byName[p.Name] = p
	}
	matched := map[string]bool{}

	args := make([]common.Arg, len(m.Args))
	sawOptionalKeyword := false
	for i, decl := range m.Args {
		arg := common.Arg{Name: decl.Name, Kind: decl.Kind, Optional: decl.Optional, Span: decl.Span}

		if p, ok := byName[decl.Name]; ok && decl.Name != "" {
			arg.Type = p.Type
			arg.Span = p.Span
			matched[decl.Name] = true
		} else {
			arg.Type = common.Untyped
			if declaredAny && decl.Kind != common.ArgBlock {
				report.BeginError(ctx, decl.Span, report.CodeInvalidMethodSignature).
					SetHeader("type not specified for parameter %q", decl.Name).
					Report()
			}
		}

		if decl.Kind == common.ArgKeyword {
			if decl.Optional {
				sawOptionalKeyword = true
			} else if sawOptionalKeyword {
				report.BeginError(ctx, decl.Span, report.CodeBadParameterOrdering).
					SetHeader("required keyword parameter %q follows an optional one", decl.Name).
					Report()
			}
		}

		args[i] = arg
	}

	for name := range byName {
		if !matched[name] {
			report.BeginError(ctx, sigSend.Span(), report.CodeInvalidMethodSignature).
				SetHeader("unknown argument name %q in sig", name).
				Report()
		}
	}

	sym.Args = args
	if ps.HasReturns {
		sym.ResultType = ps.ReturnType
	} else {
		sym.ResultType = common.Untyped
	}

	checkAbstractRules(ctx, owner, m)
	synthesizeDefaultCasts(m, args)
}

// applyOverloadSigs implements the "multiple sigs + MethodDef" rule: the
// original method is mangle-renamed out of the way and becomes the first
// sig's overload, then each later sig enters a fresh overload symbol; every
// overload carries only the argument positions its sig's `params(...)`
// actually mentions.
func applyOverloadSigs(
	table *common.SymbolTable,
	elab *typing.Elaborator,
	ctx *report.CompilationContext,
	owner *common.Symbol,
	m *ast.MethodDef,
	sigs []*ast.Send,
) {
	orig := m.Symbol
	name := m.Name
	table.MangleRenameSymbol(orig, 1)

	syms := make([]*common.Symbol, len(sigs))
	syms[0] = orig
	for i := 1; i < len(sigs); i++ {
		syms[i] = table.EnterNewMethodOverload(owner, fmt.Sprintf("%s$%d", name, i+1), ctx, sigs[i].Span())
	}

	for i, sigSend := range sigs {
		elaborateOverloadArgs(elab, ctx, owner, m, syms[i], sigSend)
		syms[i].Flags.Overloaded = i < len(sigs)-1
	}

	last := syms[len(syms)-1]
	if owner != nil && owner.Members != nil {
		owner.Members[name] = last
	}
	m.Symbol = last

	checkAbstractRules(ctx, owner, m)
	synthesizeDefaultCasts(m, last.Args)
}

func elaborateOverloadArgs(
	elab *typing.Elaborator,
	ctx *report.CompilationContext,
	owner *common.Symbol,
	m *ast.MethodDef,
	sym *common.Symbol,
	sigSend *ast.Send,
) {
	ps := elab.ParseSig(ctx, sigSend.Block.(*ast.Send), owner, typing.Args{AllowSelfType: true, AllowRebind: true, AllowTypeMember: true, Owner: sym})
	sym.Flags = ps.Flags

	byName := map[string]typing.ParsedParam{}
	for _, p := range ps.Params {
		byName[p.Name] = p
	}

	var args []common.Arg
	for _, decl := range m.Args {
		if p, ok := byName[decl.Name]; ok && decl.Name != "" {
			args = append(args, common.Arg{Name: decl.Name, Kind: decl.Kind, Optional: decl.Optional, Type: p.Type, Span: p.Span})
		}
	}
	sym.Args = args

	if ps.HasReturns {
		sym.ResultType = ps.ReturnType
	} else {
		sym.ResultType = common.Untyped
	}
}

func checkAbstractRules(ctx *report.CompilationContext, owner *common.Symbol, m *ast.MethodDef) {
	sym := m.Symbol

	if sym.Flags.Abstract {
		if len(m.Body) > 0 {
			report.BeginError(ctx, m.Span(), report.CodeAbstractMethodWithBody).
				SetHeader("abstract method %q has a body", m.Name).
				Report()
			m.Body = nil
		}
		if owner == nil || !owner.Abstract {
			report.BeginError(ctx, m.Span(), report.CodeAbstractMethodOutsideAbstract).
				SetHeader("abstract method %q declared outside an abstract class or module", m.Name).
				Report()
		}
		return
	}

	if owner != nil && owner.Interface {
		report.BeginError(ctx, m.Span(), report.CodeConcreteMethodInInterface).
			SetHeader("concrete method %q inside interface %q", m.Name, owner.Name).
			Report()
	}
}

// synthesizeDefaultCasts implements "default-argument elaboration": each
// argument with a default expression gets a `T.let(default, argType)` cast
// inserted at the head of the body, skipped for abstract methods.
func synthesizeDefaultCasts(m *ast.MethodDef, args []common.Arg) {
	if m.Symbol.Flags.Abstract {
		return
	}

	var prelude ast.Statements
	for i, decl := range m.Args {
		if decl.Default == nil {
			continue
		}
		t := common.Type(common.Untyped)
		if i < len(args) && args[i].Type != nil {
			t = args[i].Type
		}
		prelude = append(prelude, &ast.Cast{
			Base: ast.NewBaseOn(decl.Default.Span()),
			Expr: decl.Default,
			Type: t,
			Kind: ast.CastLet,
		})
	}

	if len(prelude) > 0 {
		m.Body = append(prelude, m.Body...)
	}
}
