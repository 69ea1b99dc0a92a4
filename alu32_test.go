package x86core

import "testing"

func newAlu32() (Alu32, *Flags) {
	f := NewFlags(Model386)
	return Alu32{Flags: f}, f
}

func TestAlu32_ADD_Basic(t *testing.T) {
	a, f := newAlu32()
	r := a.ADD(0xFFFFFFFF, 0x00000001)
	if r != 0 {
		t.Errorf("result = 0x%08X, want 0", r)
	}
	if !f.CF() {
		t.Error("CF should be set")
	}
	if !f.ZF() {
		t.Error("ZF should be set")
	}
}

func TestAlu32_NEG(t *testing.T) {
	a, f := newAlu32()
	r := a.NEG(0)
	if r != 0 {
		t.Errorf("NEG(0) = 0x%08X, want 0", r)
	}
	if f.CF() {
		t.Error("NEG(0) should clear CF")
	}
	r = a.NEG(1)
	if r != 0xFFFFFFFF {
		t.Errorf("NEG(1) = 0x%08X, want 0xFFFFFFFF", r)
	}
	if !f.CF() {
		t.Error("NEG(nonzero) should set CF")
	}
}

func TestAlu32_DIV_QuotientOverflow(t *testing.T) {
	a, _ := newAlu32()
	_, _, err := a.DIV(0x1_0000_0000, 1)
	if _, ok := err.(*DivisionFault); !ok {
		t.Fatalf("expected *DivisionFault for quotient overflow, got %v", err)
	}
}

func TestAlu32_RotateCarryWraps(t *testing.T) {
	a, f := newAlu32()
	f.SetFlag(FlagCF, false)
	r := a.RCR(1, 1)
	if r != 0 {
		t.Errorf("RCR(1,1) with CF=0 = 0x%08X, want 0", r)
	}
	if !f.CF() {
		t.Error("the bit rotated out of bit0 should land in CF")
	}
}
