package vm

import "fmt"

// RuntimeError reports a failure executing the instruction stream. IP is
// the instruction pointer at the point of failure: the VM's only notion of
// "where", since the instruction stream carries no source position (see
// DESIGN.md) — the nearest analog to compiler.SemanticError's Line/Column.
type RuntimeError struct {
	IP      int
	Message string
}

func CreateRuntimeError(ip int, message string) RuntimeError {
	return RuntimeError{IP: ip, Message: message}
}

func (e RuntimeError) Error() string {
	return fmt.Sprintf("💥 RuntimeError at instruction %d: %s", e.IP, e.Message)
}
