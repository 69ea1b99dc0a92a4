// modrm.go - ModR/M + SIB effective-address decoding (§4.4).
package x86core

// AddressSize selects 16-bit or 32-bit effective-address computation.
type AddressSize int

const (
	AddressSize16 AddressSize = iota
	AddressSize32
)

// ModRM holds the decoded state produced by Read(): the register/rm field
// indices, and the memory operand when one was encoded (both fields zero
// values/absent when the operand is a register).
type ModRM struct {
	State   *CpuState
	Mem     Memory
	Fetch   Fetcher
	AddrSz  AddressSize

	Mode          byte
	RegisterIndex byte
	RmIndex       byte

	HasMemory    bool
	MemoryOffset uint16
	MemoryAddr   uint32
}

// defaultSegment16 implements §4.4 step 6's default-segment table for
// 16-bit addressing.
func defaultSegment16(rmIndex byte, mode byte) int {
	switch rmIndex {
	case 0, 1, 4, 5, 7:
		return SegDS
	case 2, 3:
		return SegSS
	case 6:
		if mode == 0 {
			return SegDS
		}
		return SegSS
	}
	return SegDS
}

func (m *ModRM) computeOffset16() (uint16, error) {
	r := m.State.Regs
	switch m.RmIndex {
	case 0:
		return r.ReadU16(RegBX) + r.ReadU16(RegSI), nil
	case 1:
		return r.ReadU16(RegBX) + r.ReadU16(RegDI), nil
	case 2:
		return r.ReadU16(RegBP) + r.ReadU16(RegSI), nil
	case 3:
		return r.ReadU16(RegBP) + r.ReadU16(RegDI), nil
	case 4:
		return r.ReadU16(RegSI), nil
	case 5:
		return r.ReadU16(RegDI), nil
	case 6:
		if m.Mode == 0 {
			return m.Fetch.Fetch16(), nil
		}
		return r.ReadU16(RegBP), nil
	case 7:
		return r.ReadU16(RegBX), nil
	}
	return 0, newFault(InvalidMode, 0, "rm_index out of range", m.State)
}

// readSIB decodes a SIB byte per §4.4's SIB decoding rule.
func (m *ModRM) readSIB() (uint32, error) {
	sib := m.Fetch.Fetch8()
	scale := uint32(1) << (sib >> 6)
	indexReg := (sib >> 3) & 7
	baseReg := sib & 7

	var indexValue uint32
	if indexReg != 4 {
		indexValue = m.State.Regs.ReadU32(int(indexReg))
	}

	var baseValue uint32
	if baseReg == 5 && m.Mode == 0 {
		baseValue = m.Fetch.Fetch32()
	} else {
		baseValue = m.State.Regs.ReadU32(int(baseReg))
	}

	return baseValue + scale*indexValue, nil
}

func (m *ModRM) computeOffset32() (uint32, error) {
	switch m.RmIndex {
	case 4:
		return m.readSIB()
	case 5:
		if m.Mode == 0 {
			return m.Fetch.Fetch32(), nil
		}
		return m.State.Regs.ReadU32(RegBP), nil
	}
	if m.RmIndex > 7 {
		return 0, newFault(InvalidMode, 0, "rm_index out of range", m.State)
	}
	return m.State.Regs.ReadU32(int(m.RmIndex)), nil
}

// Read consumes one ModR/M byte, and depending on mode, zero or more
// displacement/SIB bytes, populating the decoded fields.
func (m *ModRM) Read() error {
	b := m.Fetch.Fetch8()
	m.Mode = b >> 6
	m.RegisterIndex = (b >> 3) & 7
	m.RmIndex = b & 7

	if m.Mode == 3 {
		m.HasMemory = false
		m.MemoryOffset = 0
		m.MemoryAddr = 0
		return nil
	}

	var segIndex int
	if m.AddrSz == AddressSize16 {
		baseOffset, err := m.computeOffset16()
		if err != nil {
			return err
		}
		var disp uint16
		switch m.Mode {
		case 1:
			disp = uint16(int16(int8(m.Fetch.Fetch8())))
		case 2:
			disp = m.Fetch.Fetch16()
		}
		m.MemoryOffset = baseOffset + disp
		if m.State.SegmentOverrideIndex != nil {
			segIndex = *m.State.SegmentOverrideIndex
		} else {
			segIndex = defaultSegment16(m.RmIndex, m.Mode)
		}
	} else {
		baseOffset, err := m.computeOffset32()
		if err != nil {
			return err
		}
		var disp uint32
		switch m.Mode {
		case 1:
			disp = uint32(int32(int8(m.Fetch.Fetch8())))
		case 2:
			disp = m.Fetch.Fetch32()
		}
		offset32 := baseOffset + disp
		if offset32 > 0xFFFF {
			return newFault(GeneralProtectionFault, 0, "32-bit effective address exceeds 16-bit offset range", m.State)
		}
		m.MemoryOffset = uint16(offset32)
		if m.State.SegmentOverrideIndex != nil {
			segIndex = *m.State.SegmentOverrideIndex
		} else {
			segIndex = SegDS
		}
	}

	m.HasMemory = true
	m.MemoryAddr = PhysicalAddress(m.State.Regs.ReadSeg(segIndex), m.MemoryOffset)
	return nil
}

// GetRm8 reads the r/m operand as a byte: memory if HasMemory, else the
// encoded 8-bit register selected by RmIndex.
func (m *ModRM) GetRm8() byte {
	if m.HasMemory {
		return m.Mem.ReadU8(m.MemoryAddr)
	}
	return m.State.Regs.ReadEncoded8(m.RmIndex)
}

// SetRm8 writes the r/m operand as a byte.
func (m *ModRM) SetRm8(v byte) {
	if m.HasMemory {
		m.Mem.WriteU8(m.MemoryAddr, v)
		return
	}
	m.State.Regs.WriteEncoded8(m.RmIndex, v)
}

// GetRm16 reads the r/m operand as a word.
func (m *ModRM) GetRm16() uint16 {
	if m.HasMemory {
		return m.Mem.ReadU16(m.MemoryAddr)
	}
	return m.State.Regs.ReadU16(int(m.RmIndex))
}

// SetRm16 writes the r/m operand as a word.
func (m *ModRM) SetRm16(v uint16) {
	if m.HasMemory {
		m.Mem.WriteU16(m.MemoryAddr, v)
		return
	}
	m.State.Regs.WriteU16(int(m.RmIndex), v)
}

// GetRm32 reads the r/m operand as a dword.
func (m *ModRM) GetRm32() uint32 {
	if m.HasMemory {
		return m.Mem.ReadU32(m.MemoryAddr)
	}
	return m.State.Regs.ReadU32(int(m.RmIndex))
}

// SetRm32 writes the r/m operand as a dword.
func (m *ModRM) SetRm32(v uint32) {
	if m.HasMemory {
		m.Mem.WriteU32(m.MemoryAddr, v)
		return
	}
	m.State.Regs.WriteU32(int(m.RmIndex), v)
}

// R8 reads the register-field operand as a byte.
func (m *ModRM) R8() byte { return m.State.Regs.ReadEncoded8(m.RegisterIndex) }

// SetR8 writes the register-field operand as a byte.
func (m *ModRM) SetR8(v byte) { m.State.Regs.WriteEncoded8(m.RegisterIndex, v) }

// R16 reads the register-field operand as a word.
func (m *ModRM) R16() uint16 { return m.State.Regs.ReadU16(int(m.RegisterIndex)) }

// SetR16 writes the register-field operand as a word.
func (m *ModRM) SetR16(v uint16) { m.State.Regs.WriteU16(int(m.RegisterIndex), v) }

// R32 reads the register-field operand as a dword.
func (m *ModRM) R32() uint32 { return m.State.Regs.ReadU32(int(m.RegisterIndex)) }

// SetR32 writes the register-field operand as a dword.
func (m *ModRM) SetR32(v uint32) { m.State.Regs.WriteU32(int(m.RegisterIndex), v) }

// SegmentRegister reads the segment register selected by RegisterIndex,
// for MOV Sreg, r/m style operations.
func (m *ModRM) SegmentRegister() uint16 { return m.State.Regs.ReadSeg(int(m.RegisterIndex)) }

// SetSegmentRegister writes the segment register selected by RegisterIndex.
func (m *ModRM) SetSegmentRegister(v uint16) { m.State.Regs.WriteSeg(int(m.RegisterIndex), v) }

// RequireMemory fails with MemoryAddressMandatory when the decoded operand
// turned out to be a register (mode==3), for instruction variants that are
// only encoded against a memory destination.
func (m *ModRM) RequireMemory(opcode byte) error {
	if !m.HasMemory {
		return newFault(MemoryAddressMandatory, opcode, "instruction requires a memory operand", m.State)
	}
	return nil
}
