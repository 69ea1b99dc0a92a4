package x86core

import "testing"

func newAlu8() (Alu8, *Flags) {
	f := NewFlags(Model8086)
	return Alu8{Flags: f}, f
}

func TestAlu8_ADD_CarryAndAux(t *testing.T) {
	a, f := newAlu8()
	r := a.ADD(0xF0, 0x20)
	if r != 0x10 {
		t.Errorf("result = 0x%02X, want 0x10", r)
	}
	if !f.CF() {
		t.Error("CF should be set")
	}
	if f.ZF() {
		t.Error("ZF should be clear")
	}
	if f.SF() {
		t.Error("SF should be clear")
	}
	if f.OF() {
		t.Error("OF should be clear")
	}
	if f.PF() {
		t.Error("PF should be clear: 0x10 has an odd popcount")
	}
	if f.AF() {
		t.Error("AF should be clear: no carry out of bit 3 (0x0 + 0x0)")
	}
}

func TestAlu8_INC_PreservesCF(t *testing.T) {
	a, f := newAlu8()
	f.SetFlag(FlagCF, true)
	r := a.INC(0xFF)
	if r != 0x00 {
		t.Errorf("INC(0xFF) = 0x%02X, want 0x00", r)
	}
	if !f.ZF() {
		t.Error("ZF should be set")
	}
	if !f.CF() {
		t.Error("CF must be preserved across INC")
	}
}

func TestAlu8_DEC_PreservesCF(t *testing.T) {
	a, f := newAlu8()
	f.SetFlag(FlagCF, false)
	_ = a.DEC(0x01)
	if f.CF() {
		t.Error("CF must be preserved (stay clear) across DEC")
	}
}

func TestAlu8_LogicalOpsClearCFOF(t *testing.T) {
	a, f := newAlu8()
	f.SetFlag(FlagCF, true)
	f.SetFlag(FlagOF, true)
	a.AND(0x0F, 0xF0)
	if f.CF() || f.OF() {
		t.Error("AND must clear CF and OF")
	}
	if !f.ZF() {
		t.Error("AND(0x0F, 0xF0) should be zero")
	}
}

func TestAlu8_ShiftZeroCountIsNoOp(t *testing.T) {
	a, f := newAlu8()
	f.SetWhole(0xF0)
	before := f.Whole32()
	r := a.SHR(0x34, 0x20) // 0x20 & 0x1F == 0
	if r != 0x34 {
		t.Errorf("SHR with masked-zero count changed value: got 0x%02X", r)
	}
	if f.Whole32() != before {
		t.Errorf("SHR with masked-zero count touched flags: got 0x%08X, want 0x%08X", f.Whole32(), before)
	}
}

func TestAlu8_DivisionByZeroFaults(t *testing.T) {
	a, _ := newAlu8()
	_, _, err := a.DIV(0x1000, 0x00)
	df, ok := err.(*DivisionFault)
	if !ok {
		t.Fatalf("expected *DivisionFault, got %T", err)
	}
	if df.Kind != DivisionError {
		t.Errorf("Kind = %v, want DivisionError", df.Kind)
	}
	if !df.Kind.Recoverable() {
		t.Error("DivisionError should be recoverable")
	}
}

func TestAlu8_DIV_QuotientOverflowFaults(t *testing.T) {
	a, _ := newAlu8()
	_, _, err := a.DIV(0x1000, 0x01)
	if _, ok := err.(*DivisionFault); !ok {
		t.Fatalf("expected overflow to fault, got %v", err)
	}
}

func TestAlu8_MUL_SetsCFOFOnOverflow(t *testing.T) {
	a, f := newAlu8()
	r := a.MUL(0x10, 0x10)
	if r != 0x0100 {
		t.Errorf("MUL(0x10,0x10) = 0x%04X, want 0x0100", r)
	}
	if !f.CF() || !f.OF() {
		t.Error("CF and OF should be set when high byte is nonzero")
	}
}

func TestAlu8_RotateThroughCarry(t *testing.T) {
	a, f := newAlu8()
	f.SetFlag(FlagCF, true)
	r := a.RCL(0x00, 1)
	if r != 0x01 {
		t.Errorf("RCL(0x00,1) with CF=1 = 0x%02X, want 0x01", r)
	}
}
