// dump.go - canonical textual register/flag dump (§6), used by deterministic
// tracing and by the x86trace/x86dbg tooling.
package x86core

import "fmt"

func sprintfDump(s *CpuState, cs uint16, phys uint32) string {
	r := s.Regs
	return fmt.Sprintf(
		"Cycles=%d CS:IP=%04X:%04X/%05X EAX=%08X EBX=%08X ECX=%08X EDX=%08X ESI=%08X EDI=%08X EBP=%08X ESP=%08X SS=%04X DS=%04X ES=%04X FS=%04X GS=%04X flags=%08X (%s)",
		s.Cycles, cs, s.IP, phys,
		r.ReadU32(RegAX), r.ReadU32(RegBX), r.ReadU32(RegCX), r.ReadU32(RegDX),
		r.ReadU32(RegSI), r.ReadU32(RegDI), r.ReadU32(RegBP), r.ReadU32(RegSP),
		r.ReadSeg(SegSS), r.ReadSeg(SegDS), r.ReadSeg(SegES), r.ReadSeg(SegFS), r.ReadSeg(SegGS),
		s.Flags.Whole32(), s.Flags.Dump(),
	)
}
