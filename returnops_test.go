package x86core

import "testing"

func newTestReturnOps() (ReturnOps, Stack, *CpuState) {
	s := NewCpuState(Model8086)
	s.Regs.WriteSeg(SegSS, 0x0100)
	s.Regs.WriteU16(RegSP, 0x0200)
	st := Stack{State: s, Mem: &testMemory{}}
	return ReturnOps{State: s, St: st}, st, s
}

func TestReturnOps_FarRet16WithPadding(t *testing.T) {
	r, st, s := newTestReturnOps()
	// Build the stack frame bottom-up so pops read top-to-bottom as:
	// IP, CS, then two padding bytes.
	st.Push16(0x9999) // padding (deepest)
	st.Push16(0x0F00) // CS
	st.Push16(0x0100) // IP (topmost)
	spBefore := s.Regs.ReadU16(RegSP)

	r.FarRet16(2)

	if s.IP != 0x0100 {
		t.Errorf("IP = 0x%04X, want 0x0100", s.IP)
	}
	if s.Regs.ReadSeg(SegCS) != 0x0F00 {
		t.Errorf("CS = 0x%04X, want 0x0F00", s.Regs.ReadSeg(SegCS))
	}
	if got := s.Regs.ReadU16(RegSP) - spBefore; got != 6 {
		t.Errorf("SP advanced by %d, want 6", got)
	}
}

func TestReturnOps_NearRet(t *testing.T) {
	r, st, s := newTestReturnOps()
	st.Push16(0x1234)
	r.NearRet(0)
	if s.IP != 0x1234 {
		t.Errorf("IP = 0x%04X, want 0x1234", s.IP)
	}
}

func TestReturnOps_InterruptRet_286SanitizesFlags(t *testing.T) {
	s := NewCpuState(Model286)
	s.Regs.WriteSeg(SegSS, 0x0100)
	s.Regs.WriteU16(RegSP, 0x0200)
	st := Stack{State: s, Mem: &testMemory{}}
	r := ReturnOps{State: s, St: st}

	st.Push16(0xFFFF) // flags (deepest)
	st.Push16(0x5678) // CS
	st.Push16(0x1234) // IP (topmost)

	r.InterruptRet()

	if s.IP != 0x1234 {
		t.Errorf("IP = 0x%04X, want 0x1234", s.IP)
	}
	if s.Regs.ReadSeg(SegCS) != 0x5678 {
		t.Errorf("CS = 0x%04X, want 0x5678", s.Regs.ReadSeg(SegCS))
	}
	want := (uint32(0xFFFF) | Model286.forcedOn()) &^ Model286.forcedOff()
	if s.Flags.Whole32() != want {
		t.Errorf("flags = 0x%08X, want 0x%08X", s.Flags.Whole32(), want)
	}
}
