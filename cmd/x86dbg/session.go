package main

import (
	"github.com/intuitionamiga/x86core"
)

type modelKind int

const (
	model8086 modelKind = iota
	model286
	model386
)

func (m modelKind) coreModel() x86core.Model {
	switch m {
	case model286:
		return x86core.Model286
	case model386:
		return x86core.Model386
	}
	return x86core.Model8086
}

// session bundles the live machine state a REPL command operates on. It
// reuses the core's own FlatMemory scratch address space rather than
// keeping a second flat-memory implementation in this package.
type session struct {
	State *x86core.CpuState
	Mem   *x86core.FlatMemory
	D     *x86core.Dispatch8

	breakpoints map[uint16]bool
}

func newSession(m modelKind, image []byte, origin uint16) *session {
	state := x86core.NewCpuState(m.coreModel())
	state.Regs.WriteSeg(x86core.SegCS, 0x0000)
	state.Regs.WriteSeg(x86core.SegDS, 0x0000)
	state.Regs.WriteSeg(x86core.SegSS, 0x0000)
	state.Regs.WriteU16(x86core.RegSP, origin)
	state.IP = origin
	state.IsRunning = true

	mem := &x86core.FlatMemory{}
	base := x86core.PhysicalAddress(0x0000, origin)
	for i, b := range image {
		mem.WriteU8(base+uint32(i), b)
	}

	fetch := x86core.StateFetcher{State: state, Mem: mem}
	st := x86core.Stack{State: state, Mem: mem}
	d := &x86core.Dispatch8{
		State: state,
		Mem:   mem,
		Fetch: fetch,
		St:    st,
		Ret:   x86core.ReturnOps{State: state, St: st},
		IVT:   x86core.InterruptVectorTable{Mem: mem},
		Alu:   x86core.Alu8{Flags: state.Flags},
	}
	return &session{State: state, Mem: mem, D: d, breakpoints: make(map[uint16]bool)}
}

// step runs a single instruction and reports whether the session should
// keep running afterward.
func (s *session) step() (err error, keepGoing bool) {
	err = s.D.DispatchOne()
	if err != nil {
		if fault, ok := err.(*x86core.Fault); ok && !fault.Kind.Recoverable() {
			return err, false
		}
	}
	return err, s.State.IsRunning
}
