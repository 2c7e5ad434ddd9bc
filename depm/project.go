// Package depm holds the project/file structures that stand in for
// "already-parsed source files whose declarations have been pre-entered
// into a symbol table" (spec.md §1): a Project groups the Files the
// resolve package's entry points operate on, grounded on the teacher's
// depm.ChaiModule/ChaiPackage/ChaiFile.
package depm

import (
	"chai/ast"
	"chai/report"
)

// File is one source file's already-parsed top-level statements, along
// with the metadata the resolve package's §6 "File metadata" interface
// needs: file id, strictness level, sigil, IsRBI, and whether overload
// definitions are permitted.
type File struct {
	ID       int
	AbsPath  string
	ReprPath string

	Strictness report.StrictnessLevel

	// IsRBI marks a file as an interface/definition-only file (no method
	// bodies expected), the way `.rbi` files work in the namesake system
	// this spec generalizes.
	IsRBI bool

	// PermitOverloads overrides the project default for this file (a file
	// can opt in to overloaded sigs even if the project default forbids
	// them, and vice versa).
	PermitOverloads *bool

	// Statements is the file's top-level statement sequence: ClassDefs,
	// Assigns, Sends, MethodDefs.
	Statements ast.Statements

	Ctx *report.CompilationContext
}

// Project is the whole-program input to the resolve pass (spec.md §1
// Non-goals: "the pass assumes whole-program input", so there is no
// incremental notion of adding a File after the fact).
type Project struct {
	Name    string
	Version string

	DefaultStrictness       report.StrictnessLevel
	PermitOverloadsDefault bool

	Files []*File
}

// PermitOverloadDefinitions reports whether f may declare more than one sig
// for a single MethodDef, implementing the §6
// `permitOverloadDefinitions(file)` interface.
func (p *Project) PermitOverloadDefinitions(f *File) bool {
	if f.PermitOverloads != nil {
		return *f.PermitOverloads
	}
	return p.PermitOverloadsDefault
}

// NewFile constructs a File and assigns it the next deterministic ID in
// declaration order (IDs are used, not paths, to keep failure-sorting
// independent of filesystem iteration order -- see report.CompilationContext.FileID).
func (p *Project) NewFile(absPath, reprPath string, strictness report.StrictnessLevel) *File {
	f := &File{
		ID:         len(p.Files),
		AbsPath:    absPath,
		ReprPath:   reprPath,
		Strictness: strictness,
	}
	f.Ctx = &report.CompilationContext{
		FileID:     f.ID,
		AbsPath:    absPath,
		ReprPath:   reprPath,
		Strictness: strictness,
	}
	p.Files = append(p.Files, f)
	return f
}
