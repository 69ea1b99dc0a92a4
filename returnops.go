// returnops.go - near/far RET and IRET control-transfer primitives (§4.5).
package x86core

// ReturnOps implements near/far return and interrupt-return sequences over
// a Stack and the owning CpuState's registers/flags.
type ReturnOps struct {
	State *CpuState
	St    Stack
}

// NearRet pops IP (from a 16-bit pop) then discards n bytes of arguments.
func (r ReturnOps) NearRet(n uint16) {
	r.State.IP = r.St.Pop16()
	r.St.Discard(n)
}

// NearRet32 pops IP from a 32-bit pop, truncating to 16 bits by discarding
// the upper half, then discards n bytes of arguments.
func (r ReturnOps) NearRet32(n uint16) {
	r.State.IP = uint16(r.St.Pop32())
	r.St.Discard(n)
}

// FarRet16 pops (IP, CS) as a 16-bit segmented address, then discards n
// bytes of arguments.
func (r ReturnOps) FarRet16(n uint16) {
	cs, ip := r.St.PopSegmentedAddress()
	r.State.IP = ip
	r.State.Regs.WriteSeg(SegCS, cs)
	r.St.Discard(n)
}

// FarRet32 pops a 32-bit segmented address (IP truncated to 16 bits, CS
// takes only the low 16 bits of its 32-bit slot), then discards n+2 bytes.
func (r ReturnOps) FarRet32(n uint16) {
	ip32 := r.St.Pop32()
	cs32 := r.St.Pop32()
	r.State.IP = uint16(ip32)
	r.State.Regs.WriteSeg(SegCS, uint16(cs32))
	r.St.Discard(n + 2)
}

// InterruptRet pops (IP, CS) then a 16-bit flags word, re-applying the
// model's sanitizer on write.
func (r ReturnOps) InterruptRet() {
	cs, ip := r.St.PopSegmentedAddress()
	r.State.IP = ip
	r.State.Regs.WriteSeg(SegCS, cs)
	flags := r.St.Pop16()
	r.State.Flags.SetWhole(uint32(flags))
}
