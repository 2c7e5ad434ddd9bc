package report

// Code identifies the kind of a diagnostic. The resolver never reports a
// freeform message without one of these; the code is printed in brackets
// before every displayed header (see display.go) and is what tests match
// diagnostics on.
type Code string

// The error taxonomy from spec.md §7. Names match the table there so a
// diagnostic's code can be grepped straight back to the section that
// specifies when it fires.
const (
	CodeStubConstant           Code = "StubConstant"
	CodeDynamicConstant        Code = "DynamicConstant"
	CodeConstantInTypeAlias    Code = "ConstantInTypeAlias"
	CodeRecursiveTypeAlias     Code = "RecursiveTypeAlias"
	CodeRecursiveClassAlias    Code = "RecursiveClassAlias"
	CodeReassignsTypeAlias     Code = "ReassignsTypeAlias"
	CodeDynamicSuperclass      Code = "DynamicSuperclass"
	CodeCircularDependency     Code = "CircularDependency"
	CodeRedefinitionOfParents  Code = "RedefinitionOfParents"
	CodeInvalidMethodSignature Code = "InvalidMethodSignature"
	CodeOverloadNotAllowed     Code = "OverloadNotAllowed"
	CodeBadParameterOrdering   Code = "BadParameterOrdering"
	CodeSigInFileWithoutSigil  Code = "SigInFileWithoutSigil"

	CodeAbstractMethodWithBody      Code = "AbstractMethodWithBody"
	CodeAbstractMethodOutsideAbstract Code = "AbstractMethodOutsideAbstract"
	CodeConcreteMethodInInterface   Code = "ConcreteMethodInInterface"

	CodeInvalidMixinDeclaration Code = "InvalidMixinDeclaration"

	CodeConstantAssertType         Code = "ConstantAssertType"
	CodeConstantMissingTypeAnnotation Code = "ConstantMissingTypeAnnotation"
	CodeDuplicateVariableDeclaration Code = "DuplicateVariableDeclaration"
	CodeInvalidDeclareVariables     Code = "InvalidDeclareVariables"

	CodeParentTypeBoundsMismatch Code = "ParentTypeBoundsMismatch"
	CodeInvalidTypeMemberBounds  Code = "InvalidTypeMemberBounds"

	CodeBadAliasMethod Code = "BadAliasMethod"

	CodeRevealTypeInUntypedFile Code = "RevealTypeInUntypedFile"
)
