// Package ast defines the tree shapes the resolve package walks and
// rewrites. Parsing itself is out of scope (spec.md §1 Non-goals): nothing
// here produces a Node from source text. Nodes come from an external namer,
// from the fixture helpers in resolve/fixtures_test.go, and from the resolve
// package's own rewrites.
package ast

import "chai/report"

// Node is the interface every AST node relevant to resolution implements,
// grounded on the teacher's ast.ASTNode.
type Node interface {
	Span() *report.TextSpan
}

// Base is embedded by every concrete node to provide Span() without
// repeating the bookkeeping, grounded on the teacher's ast.ASTBase.
type Base struct {
	span *report.TextSpan
}

// NewBaseOn creates a Base with the given span.
func NewBaseOn(span *report.TextSpan) Base { return Base{span: span} }

// NewBaseOver creates a Base spanning over two other spans.
func NewBaseOver(start, end *report.TextSpan) Base {
	return Base{span: report.NewSpanOver(start, end)}
}

func (b Base) Span() *report.TextSpan { return b.span }

// Statements is a sequence of statements making up a class body, method
// body, or top-level file. Statements rewritten to EmptyTree during
// resolution (e.g. a consumed `sig { ... }` call, or a redundant
// `mixes_in_class_methods` annotation) are swept out by Sweep. The
// ResolveSignatures walk sweeps every sequence it visits, which also removes
// the EmptyTree nodes the earlier ResolveMixesInClassMethods walk leaves
// behind, matching spec.md §3:
// "redundant annotation sends -> EmptyTree (deleted during a sweep of each
// statement sequence)".
type Statements []Node

// Sweep removes every EmptyTree node from the sequence, returning the
// compacted result.
func (s Statements) Sweep() Statements {
	out := make(Statements, 0, len(s))
	for _, n := range s {
		if _, empty := n.(*EmptyTree); empty {
			continue
		}
		out = append(out, n)
	}
	return out
}

// EmptyTree replaces a statement that resolution has fully consumed and
// that carries no further meaning for any later pass.
type EmptyTree struct {
	Base
}
