package compiler

import "fmt"

// SemanticError reports a user-facing compile error: an ill-formed program
// construct at a known source position. Grounded on the teacher's
// interpreter.RuntimeError, the one nilan error type that already carries
// Line/Column — rehomed here so the translator's diagnostics carry position
// through the type itself instead of the caller hand-formatting "%d:%d"
// into a bare Message.
type SemanticError struct {
	Line    int
	Column  int
	Message string
}

func CreateSemanticError(line, column int, message string) SemanticError {
	return SemanticError{Line: line, Column: column, Message: message}
}

func (e SemanticError) Error() string {
	return fmt.Sprintf("💥 SemanticError:\nline:%d, column:%d - %s", e.Line, e.Column, e.Message)
}

// DeveloperError reports a translator invariant violation — a bug in the
// translator itself, not a user-facing diagnostic, so it carries no source
// position.
type DeveloperError struct {
	Message string
}

func (e DeveloperError) Error() string {
	return fmt.Sprintf("🤖 DeveloperError: %s", e.Message)
}
