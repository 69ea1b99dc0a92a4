package x86core

import "testing"

func TestPhysicalAddress(t *testing.T) {
	if got := PhysicalAddress(0x1000, 0x0210); got != 0x10210 {
		t.Errorf("PhysicalAddress(0x1000, 0x0210) = 0x%05X, want 0x10210", got)
	}
}

func TestCpuState_Direction(t *testing.T) {
	s := NewCpuState(Model8086)
	if got := s.Direction8(); got != 1 {
		t.Errorf("Direction8() with DF clear = %d, want 1", got)
	}
	s.Flags.SetFlag(FlagDF, true)
	if got := s.Direction8(); got != -1 {
		t.Errorf("Direction8() with DF set = %d, want -1", got)
	}
	if got := s.Direction16(); got != -2 {
		t.Errorf("Direction16() with DF set = %d, want -2", got)
	}
	if got := s.Direction32(); got != -4 {
		t.Errorf("Direction32() with DF set = %d, want -4", got)
	}
}

func TestCpuState_IncCyclesAndClearPrefixes(t *testing.T) {
	s := NewCpuState(Model8086)
	v := true
	idx := SegES
	s.ContinueZeroFlagValue = &v
	s.SegmentOverrideIndex = &idx

	before := s.Cycles
	s.IncCycles()
	if s.Cycles != before+1 {
		t.Errorf("Cycles = %d, want %d", s.Cycles, before+1)
	}

	s.ClearPrefixes()
	if s.ContinueZeroFlagValue != nil || s.SegmentOverrideIndex != nil {
		t.Error("ClearPrefixes did not reset both prefix fields to absent")
	}
}

func TestCpuState_StackPhysicalAddress(t *testing.T) {
	s := NewCpuState(Model8086)
	s.Regs.WriteSeg(SegSS, 0x0100)
	s.Regs.WriteU16(RegSP, 0x0200)
	if got := s.StackPhysicalAddress(); got != 0x01200 {
		t.Errorf("StackPhysicalAddress() = 0x%05X, want 0x01200", got)
	}
}
