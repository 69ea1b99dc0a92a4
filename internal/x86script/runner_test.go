package x86script

import (
	"testing"

	"github.com/intuitionamiga/x86core"
)

func TestHarness_AddEbGbScenario(t *testing.T) {
	h := NewHarness(x86core.Model8086)
	defer h.Close()

	h.Mem.WriteU8(h.State.IPPhysicalAddress(), 0x00)
	h.Mem.WriteU8(h.State.IPPhysicalAddress()+1, 0xD8) // mode=3 reg=3(BL) rm=0(AL)

	err := h.Run(`
		setreg8(0, 0xF0) -- AL
		setreg8(3, 0x20) -- BL
		local dispatchErr = dispatch()
		expecteq("dispatch error", dispatchErr == nil and 0 or 1, 0)
		expecteq("AL", getreg8(0), 0x10)
		expecteq("CF", getflag(1) and 1 or 0, 1)
	`)
	if err != nil {
		t.Fatalf("script error: %v", err)
	}
	if len(h.Failures) != 0 {
		t.Errorf("scenario failures: %v", h.Failures)
	}
}

func TestHarness_ShrMaskedZeroCountScenario(t *testing.T) {
	h := NewHarness(x86core.Model8086)
	defer h.Close()

	h.Mem.WriteU8(h.State.IPPhysicalAddress(), 0xD2)
	h.Mem.WriteU8(h.State.IPPhysicalAddress()+1, 0xE8) // GRP2 Eb,CL: reg=5(SHR) rm=0(AL)

	err := h.Run(`
		setreg16(0, 0x1234) -- AX
		setreg8(1, 0x20)    -- CL, masked to 0
		dispatch()
		expecteq("AX unchanged", getreg16(0), 0x1234)
	`)
	if err != nil {
		t.Fatalf("script error: %v", err)
	}
	if len(h.Failures) != 0 {
		t.Errorf("scenario failures: %v", h.Failures)
	}
}

func TestHarness_PokeAndDispatchStosb(t *testing.T) {
	h := NewHarness(x86core.Model8086)
	defer h.Close()

	h.Mem.WriteU8(h.State.IPPhysicalAddress(), 0xAA) // STOSB

	err := h.Run(`
		setreg8(0, 0x42)     -- AL
		setreg16(7, 0x0100)  -- DI
		dispatch()
		expecteq("DI advanced", getreg16(7), 0x0101)
	`)
	if err != nil {
		t.Fatalf("script error: %v", err)
	}
	if len(h.Failures) != 0 {
		t.Errorf("scenario failures: %v", h.Failures)
	}
}
