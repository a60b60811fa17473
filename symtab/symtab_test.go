package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreInternIsIdempotent(t *testing.T) {
	s := NewStore()
	a1 := s.Intern("a")
	a2 := s.Intern("a")
	b := s.Intern("b")

	assert.Equal(t, a1, a2)
	assert.NotEqual(t, a1, b)
	assert.Equal(t, "a", s.Name(a1))
	assert.Equal(t, "b", s.Name(b))
}

func TestVarEnvShadowingAndLookup(t *testing.T) {
	s := NewStore()
	x := s.Intern("x")
	env := NewVarEnv()

	env.Insert(x, &VarEntry{Sym: x, Scope: Global, Index: 1})
	assert.True(t, env.AtGlobalOnly())
	assert.False(t, env.InScope())

	env.EnterScope()
	assert.True(t, env.InScope())
	env.Insert(x, &VarEntry{Sym: x, Scope: Local, Index: -1})

	entry, ok := env.Find(x)
	assert.True(t, ok)
	assert.Equal(t, Local, entry.Scope, "local binding should shadow the global one")

	env.LeaveScope()
	assert.True(t, env.AtGlobalOnly())
	entry, ok = env.Find(x)
	assert.True(t, ok)
	assert.Equal(t, Global, entry.Scope, "global binding should reappear once the local scope is left")
}

func TestVarEnvFindInTopScopeDoesNotSearchOuterFrames(t *testing.T) {
	s := NewStore()
	x := s.Intern("x")
	env := NewVarEnv()
	env.Insert(x, &VarEntry{Sym: x, Scope: Global, Index: 1})

	env.EnterScope()
	_, ok := env.FindInTopScope(x)
	assert.False(t, ok, "x was declared in the outer (global) frame, not the current one")

	_, ok = env.Find(x)
	assert.True(t, ok, "Find should still see the outer frame")
}

func TestVarEnvLeaveScopeAtGlobalPanics(t *testing.T) {
	env := NewVarEnv()
	assert.Panics(t, func() { env.LeaveScope() })
}

func TestFuncEnvInsertFindSetAddress(t *testing.T) {
	s := NewStore()
	f := s.Intern("f")
	env := NewFuncEnv()

	entry := env.Insert(f, 2)
	assert.Equal(t, 0, entry.Address, "address is unresolved until the body begins emission")

	env.SetAddress(f, 42)
	found, ok := env.Find(f)
	assert.True(t, ok)
	assert.Equal(t, 42, found.Address)
	assert.Equal(t, 2, found.NumParams)
}
