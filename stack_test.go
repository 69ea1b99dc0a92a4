package x86core

import "testing"

func newTestStack() (Stack, *CpuState) {
	s := NewCpuState(Model8086)
	s.Regs.WriteSeg(SegSS, 0x0100)
	s.Regs.WriteU16(RegSP, 0x0200)
	return Stack{State: s, Mem: &testMemory{}}, s
}

func TestStack_Push16Pop16RoundTrip(t *testing.T) {
	st, s := newTestStack()
	st.Push16(0xABCD)
	if got := s.Regs.ReadU16(RegSP); got != 0x01FE {
		t.Errorf("SP after Push16 = 0x%04X, want 0x01FE", got)
	}
	if got := st.Pop16(); got != 0xABCD {
		t.Errorf("Pop16() = 0x%04X, want 0xABCD", got)
	}
	if got := s.Regs.ReadU16(RegSP); got != 0x0200 {
		t.Errorf("SP after round trip = 0x%04X, want 0x0200", got)
	}
}

func TestStack_Push32Pop32RoundTrip(t *testing.T) {
	st, _ := newTestStack()
	st.Push32(0xDEADBEEF)
	if got := st.Pop32(); got != 0xDEADBEEF {
		t.Errorf("Pop32() = 0x%08X, want 0xDEADBEEF", got)
	}
}

func TestStack_PushPopSegmentedAddress(t *testing.T) {
	st, s := newTestStack()
	st.PushSegmentedAddress(0xB800, 0x0040)
	seg, off := st.PopSegmentedAddress()
	if seg != 0xB800 || off != 0x0040 {
		t.Errorf("got (seg=0x%04X, off=0x%04X), want (0xB800, 0x0040)", seg, off)
	}
	if got := s.Regs.ReadU16(RegSP); got != 0x0200 {
		t.Errorf("SP after round trip = 0x%04X, want 0x0200", got)
	}
}

func TestStack_PushSegmentedAddress_MemoryLayout(t *testing.T) {
	st, s := newTestStack()
	st.PushSegmentedAddress(0xB800, 0x0040)
	mem := st.Mem
	if got := mem.ReadU16(PhysicalAddress(0x0100, 0x01FE)); got != 0xB800 {
		t.Errorf("segment word at SS:0x01FE = 0x%04X, want 0xB800", got)
	}
	if got := mem.ReadU16(PhysicalAddress(0x0100, 0x01FC)); got != 0x0040 {
		t.Errorf("offset word at SS:0x01FC = 0x%04X, want 0x0040", got)
	}
	_ = s
}

func TestStack_Discard(t *testing.T) {
	st, s := newTestStack()
	st.Push16(0x1111)
	st.Push16(0x2222)
	st.Discard(4)
	if got := s.Regs.ReadU16(RegSP); got != 0x0200 {
		t.Errorf("SP after Discard(4) = 0x%04X, want 0x0200", got)
	}
}

func TestStack_SetFlagOnInterruptStack(t *testing.T) {
	st, _ := newTestStack()
	// Simulate an interrupt frame: IP, CS, FLAGS (top to bottom).
	st.Push16(0x00FF) // flags (deepest)
	st.Push16(0x0F00) // CS
	st.Push16(0x1234) // IP (topmost, at SP)
	st.SetFlagOnInterruptStack(FlagZF, true)
	if got := st.Peek(4); got&FlagZF == 0 {
		t.Errorf("flags word at SP+4 = 0x%04X, ZF not set", got)
	}
}
