// state.go - CpuState: the architectural state shared by every component.
package x86core

// CpuState aggregates the register file and flag register and adds the
// instruction pointer, cycle counter, prefix state and lifecycle flag.
type CpuState struct {
	Regs  *RegisterFile
	Flags *Flags

	IP     uint16
	Cycles uint64

	// ContinueZeroFlagValue is the REPE/REPNE prefix predicate: nil when
	// absent, else the zero-flag value the string op should continue on.
	ContinueZeroFlagValue *bool

	// SegmentOverrideIndex replaces the default segment for the next
	// effective-address resolution; nil when absent.
	SegmentOverrideIndex *int

	IsRunning bool
}

// NewCpuState creates a CpuState for the given CPU model. IsRunning starts
// false; the embedder sets it true before the first fetch.
func NewCpuState(model Model) *CpuState {
	return &CpuState{
		Regs:  &RegisterFile{},
		Flags: NewFlags(model),
	}
}

// IncCycles increments the cycle counter by exactly one. Dispatch must
// call this exactly once per architectural instruction.
func (s *CpuState) IncCycles() {
	s.Cycles++
}

// ClearPrefixes resets both prefix fields to absent. Must be called
// exactly once per architectural instruction boundary.
func (s *CpuState) ClearPrefixes() {
	s.ContinueZeroFlagValue = nil
	s.SegmentOverrideIndex = nil
}

// Direction8 returns the signed per-element step for an 8-bit string
// instruction: -1 when DF is set, else +1.
func (s *CpuState) Direction8() int16 {
	if s.Flags.DF() {
		return -1
	}
	return 1
}

// Direction16 returns the signed per-element step for a 16-bit string
// instruction: -2 when DF is set, else +2.
func (s *CpuState) Direction16() int16 {
	if s.Flags.DF() {
		return -2
	}
	return 2
}

// Direction32 returns the signed per-element step for a 32-bit string
// instruction: -4 when DF is set, else +4.
func (s *CpuState) Direction32() int32 {
	if s.Flags.DF() {
		return -4
	}
	return 4
}

// PhysicalAddress computes (segment << 4) + offset, truncated to 20 bits.
func PhysicalAddress(segment, offset uint16) uint32 {
	return (uint32(segment)<<4 + uint32(offset)) & 0xFFFFF
}

// IPSegmentedAddress returns the current (CS, IP) pair.
func (s *CpuState) IPSegmentedAddress() (segment, offset uint16) {
	return s.Regs.ReadSeg(SegCS), s.IP
}

// IPPhysicalAddress returns the physical address of the next byte to fetch.
func (s *CpuState) IPPhysicalAddress() uint32 {
	return PhysicalAddress(s.Regs.ReadSeg(SegCS), s.IP)
}

// StackPhysicalAddress returns the physical address of SS:SP.
func (s *CpuState) StackPhysicalAddress() uint32 {
	return PhysicalAddress(s.Regs.ReadSeg(SegSS), s.Regs.ReadU16(RegSP))
}

// DumpedRegFlags renders the canonical textual register/flag dump used by
// deterministic tracing, per §6 of the spec.
func (s *CpuState) DumpedRegFlags() string {
	cs := s.Regs.ReadSeg(SegCS)
	phys := PhysicalAddress(cs, s.IP)
	return sprintfDump(s, cs, phys)
}
