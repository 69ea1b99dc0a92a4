// Package x86script drives scenario scripts written in Lua against the
// core engine, for scripted regression scenarios that are easier to
// author as data than as Go table tests.
package x86script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/intuitionamiga/x86core"
)

// Harness wires a Lua state to a live CpuState/Memory/Dispatch8 triple
// and exposes a small register/flag/dispatch API to scripts.
type Harness struct {
	L     *lua.LState
	State *x86core.CpuState
	Mem   x86core.Memory
	D     *x86core.Dispatch8

	Failures []string
}

// NewHarness builds a Harness over a zeroed machine of the given model.
func NewHarness(model x86core.Model) *Harness {
	s := x86core.NewCpuState(model)
	mem := x86core.NewTestMemory()
	fetch := x86core.StateFetcher{State: s, Mem: mem}
	st := x86core.Stack{State: s, Mem: mem}
	d := &x86core.Dispatch8{
		State: s,
		Mem:   mem,
		Fetch: fetch,
		St:    st,
		Ret:   x86core.ReturnOps{State: s, St: st},
		IVT:   x86core.InterruptVectorTable{Mem: mem},
		Alu:   x86core.Alu8{Flags: s.Flags},
	}
	h := &Harness{L: lua.NewState(), State: s, Mem: mem, D: d}
	h.registerBuiltins()
	return h
}

// Close releases the underlying Lua state.
func (h *Harness) Close() { h.L.Close() }

// Run executes a scenario script. Scripts call setreg8/setreg16/setflag
// to arrange state, poke/dispatch to drive it, and expect* to assert.
// Every expect* failure is appended to h.Failures rather than aborting
// the script, so a single scenario can report every mismatch it finds.
func (h *Harness) Run(script string) error {
	return h.L.DoString(script)
}

func (h *Harness) registerBuiltins() {
	reg := func(name string, fn lua.LGFunction) { h.L.SetGlobal(name, h.L.NewFunction(fn)) }

	reg("setreg8", func(l *lua.LState) int {
		idx := l.CheckInt(1)
		v := byte(l.CheckInt(2))
		h.State.Regs.WriteEncoded8(byte(idx), v)
		return 0
	})
	reg("getreg8", func(l *lua.LState) int {
		idx := l.CheckInt(1)
		l.Push(lua.LNumber(h.State.Regs.ReadEncoded8(byte(idx))))
		return 1
	})
	reg("setreg16", func(l *lua.LState) int {
		idx := l.CheckInt(1)
		v := uint16(l.CheckInt(2))
		h.State.Regs.WriteU16(idx, v)
		return 0
	})
	reg("getreg16", func(l *lua.LState) int {
		idx := l.CheckInt(1)
		l.Push(lua.LNumber(h.State.Regs.ReadU16(idx)))
		return 1
	})
	reg("setflag", func(l *lua.LState) int {
		mask := uint32(l.CheckInt(1))
		v := l.ToBool(2)
		h.State.Flags.SetFlag(mask, v)
		return 0
	})
	reg("getflag", func(l *lua.LState) int {
		mask := uint32(l.CheckInt(1))
		l.Push(lua.LBool(h.State.Flags.GetFlag(mask)))
		return 1
	})
	reg("poke8", func(l *lua.LState) int {
		addr := uint32(l.CheckInt(1))
		v := byte(l.CheckInt(2))
		h.Mem.WriteU8(addr, v)
		return 0
	})
	reg("dispatch", func(l *lua.LState) int {
		err := h.D.DispatchOne()
		if err != nil {
			l.Push(lua.LString(err.Error()))
			return 1
		}
		l.Push(lua.LNil)
		return 1
	})
	reg("expecteq", func(l *lua.LState) int {
		label := l.CheckString(1)
		got := l.CheckInt(2)
		want := l.CheckInt(3)
		if got != want {
			h.Failures = append(h.Failures, fmt.Sprintf("%s: got %d, want %d", label, got, want))
		}
		return 0
	})
}
