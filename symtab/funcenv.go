package symtab

// FuncEntry is what the function environment binds a Symbol to. Address
// starts at 0 (unresolved) and is filled in by SetAddress once the
// function's body begins emission; a caller compiled before that point
// records a pending forward reference instead (see compiler.Translator).
type FuncEntry struct {
	Sym       Symbol
	NumParams int
	Address   int
}

// FuncEnv is a single flat, program-global scope for function bindings.
// Unlike VarEnv it never nests: all functions in a turtle program are
// visible to all others, including forward and mutually recursive calls.
type FuncEnv struct {
	entries map[Symbol]*FuncEntry
}

// NewFuncEnv creates an empty function environment.
func NewFuncEnv() *FuncEnv {
	return &FuncEnv{entries: make(map[Symbol]*FuncEntry)}
}

// Find looks up a function binding by symbol.
func (e *FuncEnv) Find(sym Symbol) (*FuncEntry, bool) {
	entry, ok := e.entries[sym]
	return entry, ok
}

// Insert adds a function binding. All functions are inserted (with address
// 0) before any function body is translated.
func (e *FuncEnv) Insert(sym Symbol, numParams int) *FuncEntry {
	entry := &FuncEntry{Sym: sym, NumParams: numParams}
	e.entries[sym] = entry
	return entry
}

// SetAddress records the instruction-buffer index at which a function's
// body begins.
func (e *FuncEnv) SetAddress(sym Symbol, addr int) {
	e.entries[sym].Address = addr
}
