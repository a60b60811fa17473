package symtab

// Scope tags where a variable lives at runtime.
type Scope int

const (
	// Global variables are addressed GP-relative, 1-based in declaration
	// order.
	Global Scope = iota
	// Local variables (parameters and locals) are addressed FP-relative.
	// Parameters get negative offsets, locals positive offsets; see
	// VarEntry's doc comment.
	Local
)

func (sc Scope) String() string {
	if sc == Global {
		return "global"
	}
	return "local"
}

// VarEntry is what the variable environment binds a Symbol to.
//
// Index meaning depends on Scope:
//   - Global: 1-based GP-relative offset, in declaration order.
//   - Local, for a parameter: negative FP-relative offset, running from
//     -(P+1) for the first parameter up to -2 for the last (P = parameter
//     count); offset -1 is reserved for the VM's saved call context and
//     never assigned to a variable. The return-value slot sits one further
//     out, at -(P+2). This is the offset layout the original translator
//     actually computes (see compiler.Translator.translateFunctionBody),
//     not the "-1..-P" shorthand a first reading of the source comments
//     suggests.
//   - Local, for a local variable: 1-based positive FP-relative offset, in
//     declaration order within the function.
type VarEntry struct {
	Sym   Symbol
	Scope Scope
	Index int
}

// VarEnv is a stack of lexical scopes for variable bindings. The bottom
// frame is the global scope and is never popped. Lookups search from the
// innermost frame outward; insertion always targets the innermost frame.
type VarEnv struct {
	frames []map[Symbol]*VarEntry
}

// NewVarEnv creates a variable environment containing just the global
// scope.
func NewVarEnv() *VarEnv {
	return &VarEnv{frames: []map[Symbol]*VarEntry{make(map[Symbol]*VarEntry)}}
}

// EnterScope pushes a new, empty frame (used when a function body begins
// translation).
func (e *VarEnv) EnterScope() {
	e.frames = append(e.frames, make(map[Symbol]*VarEntry))
}

// LeaveScope pops the innermost frame. It panics if called when only the
// global frame remains, since that indicates a bug in the translator (an
// unbalanced EnterScope/LeaveScope pair), not a user-facing error.
func (e *VarEnv) LeaveScope() {
	if len(e.frames) <= 1 {
		panic("symtab: LeaveScope called with no local scope to leave")
	}
	e.frames = e.frames[:len(e.frames)-1]
}

// InScope reports whether a local (function-body) scope is currently
// active. The translator uses this to validate return statements.
func (e *VarEnv) InScope() bool {
	return len(e.frames) > 1
}

// AtGlobalOnly reports whether only the bottom, global frame remains. The
// driver asserts this at the end of translation.
func (e *VarEnv) AtGlobalOnly() bool {
	return len(e.frames) == 1
}

// Find searches from the innermost frame outward and returns the first
// binding found for sym.
func (e *VarEnv) Find(sym Symbol) (*VarEntry, bool) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if entry, ok := e.frames[i][sym]; ok {
			return entry, true
		}
	}
	return nil, false
}

// FindInTopScope searches only the innermost frame, for detecting
// redefinitions within the same scope (including a local re-declared
// against an already-inserted parameter).
func (e *VarEnv) FindInTopScope(sym Symbol) (*VarEntry, bool) {
	entry, ok := e.frames[len(e.frames)-1][sym]
	return entry, ok
}

// Insert adds a binding to the innermost frame.
func (e *VarEnv) Insert(sym Symbol, entry *VarEntry) {
	e.frames[len(e.frames)-1][sym] = entry
}
