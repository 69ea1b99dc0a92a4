// instructions8.go - the 8-bit representative instruction dispatch surface
// (§4.6). A dense opcode table maps each byte to a handler; handlers never
// touch Cycles or the prefix fields directly, per the design note that
// keeps cycle counting and prefix clearing in the dispatch harness.
package x86core

// Dispatch8 wires together every collaborator an 8-bit opcode handler may
// need: state, memory, the instruction-stream fetcher, the stack, return
// sequences and the interrupt vector table.
type Dispatch8 struct {
	State *CpuState
	Mem   Memory
	Fetch Fetcher
	St    Stack
	Ret   ReturnOps
	IVT   InterruptVectorTable
	Alu   Alu8

	// Callback is the Group 4/5 subfunction-7 escape hatch; nil means the
	// embedder has wired nothing there.
	Callback func(d *Dispatch8) error
}

type opcodeHandler8 func(d *Dispatch8, opcode byte) error

var opcodeTable8 [256]opcodeHandler8

func (d *Dispatch8) newModRM() *ModRM {
	return &ModRM{State: d.State, Mem: d.Mem, Fetch: d.Fetch, AddrSz: AddressSize16}
}

// DispatchOne fetches one opcode and executes it. Regardless of outcome it
// increments Cycles and clears prefix state exactly once, per invariant 7;
// a fatal fault halts the core by clearing IsRunning.
func (d *Dispatch8) DispatchOne() error {
	opcode := d.Fetch.Fetch8()
	handler := opcodeTable8[opcode]
	var err error
	if handler == nil {
		err = newFault(InvalidOpCode, opcode, "no 8-bit handler registered", d.State)
	} else {
		err = handler(d, opcode)
	}
	if fault, ok := err.(*Fault); ok && fault.Opcode == 0 {
		fault.Opcode = opcode
	}
	d.State.IncCycles()
	d.State.ClearPrefixes()
	if fault, ok := err.(*Fault); ok && !fault.Kind.Recoverable() {
		d.State.IsRunning = false
	}
	return err
}

func reg8(d *Dispatch8) *RegisterFile { return d.State.Regs }

// ADD/OR/ADC/SBB/AND/SUB/XOR/CMP share the same Eb,Gb / Gb,Eb / AL,Ib shape.
func aluRmR8(d *Dispatch8, op func(Alu8, byte, byte) byte, storeToRm bool) error {
	rm := d.newModRM()
	if err := rm.Read(); err != nil {
		return err
	}
	a := rm.GetRm8()
	b := rm.R8()
	if storeToRm {
		r := op(d.Alu, a, b)
		rm.SetRm8(r)
	} else {
		r := op(d.Alu, b, a)
		rm.SetR8(r)
	}
	return nil
}

func aluAlIb8(d *Dispatch8, op func(Alu8, byte, byte) byte) error {
	imm := d.Fetch.Fetch8()
	al := reg8(d).ReadU8Low(RegAX)
	reg8(d).WriteU8Low(RegAX, op(d.Alu, al, imm))
	return nil
}

func cmpRmR8(d *Dispatch8, toReg bool) error {
	rm := d.newModRM()
	if err := rm.Read(); err != nil {
		return err
	}
	if toReg {
		d.Alu.CMP(rm.GetRm8(), rm.R8())
	} else {
		d.Alu.CMP(rm.R8(), rm.GetRm8())
	}
	return nil
}

func testRmR8(d *Dispatch8) error {
	rm := d.newModRM()
	if err := rm.Read(); err != nil {
		return err
	}
	d.Alu.AND(rm.GetRm8(), rm.R8())
	return nil
}

func movRmR8(d *Dispatch8, toReg bool) error {
	rm := d.newModRM()
	if err := rm.Read(); err != nil {
		return err
	}
	if toReg {
		rm.SetR8(rm.GetRm8())
	} else {
		rm.SetRm8(rm.R8())
	}
	return nil
}

func xchgRmR8(d *Dispatch8) error {
	rm := d.newModRM()
	if err := rm.Read(); err != nil {
		return err
	}
	a, b := rm.GetRm8(), rm.R8()
	rm.SetRm8(b)
	rm.SetR8(a)
	return nil
}

// movAlMoffs8/movMoffsAl8 use a direct 16-bit offset immediate into the
// current (overridable) data segment, bypassing ModRM entirely.
func movAlMoffs8(d *Dispatch8) error {
	offset := d.Fetch.Fetch16()
	seg := SegDS
	if d.State.SegmentOverrideIndex != nil {
		seg = *d.State.SegmentOverrideIndex
	}
	addr := PhysicalAddress(d.State.Regs.ReadSeg(seg), offset)
	reg8(d).WriteU8Low(RegAX, d.Mem.ReadU8(addr))
	return nil
}

func movMoffsAl8(d *Dispatch8) error {
	offset := d.Fetch.Fetch16()
	seg := SegDS
	if d.State.SegmentOverrideIndex != nil {
		seg = *d.State.SegmentOverrideIndex
	}
	addr := PhysicalAddress(d.State.Regs.ReadSeg(seg), offset)
	d.Mem.WriteU8(addr, reg8(d).ReadU8Low(RegAX))
	return nil
}

// dataSegmentForString resolves the source segment for MOVS/CMPS/LODS,
// honoring a segment override; destination (ES:DI) is never overridable.
func (d *Dispatch8) dataSegmentForString() int {
	if d.State.SegmentOverrideIndex != nil {
		return *d.State.SegmentOverrideIndex
	}
	return SegDS
}

func movsb(d *Dispatch8) error {
	si := reg8(d).ReadU16(RegSI)
	di := reg8(d).ReadU16(RegDI)
	srcAddr := PhysicalAddress(reg8(d).ReadSeg(d.dataSegmentForString()), si)
	dstAddr := PhysicalAddress(reg8(d).ReadSeg(SegES), di)
	d.Mem.WriteU8(dstAddr, d.Mem.ReadU8(srcAddr))
	step := uint16(d.State.Direction8())
	reg8(d).WriteU16(RegSI, si+step)
	reg8(d).WriteU16(RegDI, di+step)
	return nil
}

func cmpsb(d *Dispatch8) error {
	si := reg8(d).ReadU16(RegSI)
	di := reg8(d).ReadU16(RegDI)
	srcAddr := PhysicalAddress(reg8(d).ReadSeg(d.dataSegmentForString()), si)
	dstAddr := PhysicalAddress(reg8(d).ReadSeg(SegES), di)
	d.Alu.CMP(d.Mem.ReadU8(srcAddr), d.Mem.ReadU8(dstAddr))
	step := uint16(d.State.Direction8())
	reg8(d).WriteU16(RegSI, si+step)
	reg8(d).WriteU16(RegDI, di+step)
	return nil
}

func stosb(d *Dispatch8) error {
	di := reg8(d).ReadU16(RegDI)
	dstAddr := PhysicalAddress(reg8(d).ReadSeg(SegES), di)
	d.Mem.WriteU8(dstAddr, reg8(d).ReadU8Low(RegAX))
	reg8(d).WriteU16(RegDI, di+uint16(d.State.Direction8()))
	return nil
}

func lodsb(d *Dispatch8) error {
	si := reg8(d).ReadU16(RegSI)
	srcAddr := PhysicalAddress(reg8(d).ReadSeg(d.dataSegmentForString()), si)
	reg8(d).WriteU8Low(RegAX, d.Mem.ReadU8(srcAddr))
	reg8(d).WriteU16(RegSI, si+uint16(d.State.Direction8()))
	return nil
}

func scasb(d *Dispatch8) error {
	di := reg8(d).ReadU16(RegDI)
	dstAddr := PhysicalAddress(reg8(d).ReadSeg(SegES), di)
	d.Alu.CMP(reg8(d).ReadU8Low(RegAX), d.Mem.ReadU8(dstAddr))
	reg8(d).WriteU16(RegDI, di+uint16(d.State.Direction8()))
	return nil
}

// sahf/lahf move between AH and the low byte of the flag register.
func sahf(d *Dispatch8) error {
	ah := reg8(d).ReadU8High(RegAX)
	mask := uint32(FlagSF | FlagZF | FlagAF | FlagPF | FlagCF)
	d.State.Flags.SetWhole((d.State.Flags.Whole32() &^ mask) | (uint32(ah) & mask))
	return nil
}

func lahf(d *Dispatch8) error {
	reg8(d).WriteU8High(RegAX, byte(d.State.Flags.Whole16()))
	return nil
}

// salc: AL := (CF ? 0x00 : 0xFF).
func salc(d *Dispatch8) error {
	if d.State.Flags.CF() {
		reg8(d).WriteU8Low(RegAX, 0x00)
	} else {
		reg8(d).WriteU8Low(RegAX, 0xFF)
	}
	return nil
}

// xlat: AL := mem[DS:BX + AL], honoring a segment override.
func xlat(d *Dispatch8) error {
	seg := SegDS
	if d.State.SegmentOverrideIndex != nil {
		seg = *d.State.SegmentOverrideIndex
	}
	al := reg8(d).ReadU8Low(RegAX)
	addr := PhysicalAddress(reg8(d).ReadSeg(seg), reg8(d).ReadU16(RegBX)+uint16(al))
	reg8(d).WriteU8Low(RegAX, d.Mem.ReadU8(addr))
	return nil
}

func init() {
	bind := func(op byte, h opcodeHandler8) { opcodeTable8[op] = h }

	bind(0x00, func(d *Dispatch8, _ byte) error { return aluRmR8(d, Alu8.ADD, true) })
	bind(0x02, func(d *Dispatch8, _ byte) error { return aluRmR8(d, Alu8.ADD, false) })
	bind(0x04, func(d *Dispatch8, _ byte) error { return aluAlIb8(d, Alu8.ADD) })

	bind(0x08, func(d *Dispatch8, _ byte) error { return aluRmR8(d, Alu8.OR, true) })
	bind(0x0A, func(d *Dispatch8, _ byte) error { return aluRmR8(d, Alu8.OR, false) })
	bind(0x0C, func(d *Dispatch8, _ byte) error { return aluAlIb8(d, Alu8.OR) })

	bind(0x10, func(d *Dispatch8, _ byte) error { return aluRmR8(d, Alu8.ADC, true) })
	bind(0x12, func(d *Dispatch8, _ byte) error { return aluRmR8(d, Alu8.ADC, false) })
	bind(0x14, func(d *Dispatch8, _ byte) error { return aluAlIb8(d, Alu8.ADC) })

	bind(0x18, func(d *Dispatch8, _ byte) error { return aluRmR8(d, Alu8.SBB, true) })
	bind(0x1A, func(d *Dispatch8, _ byte) error { return aluRmR8(d, Alu8.SBB, false) })
	bind(0x1C, func(d *Dispatch8, _ byte) error { return aluAlIb8(d, Alu8.SBB) })

	bind(0x20, func(d *Dispatch8, _ byte) error { return aluRmR8(d, Alu8.AND, true) })
	bind(0x22, func(d *Dispatch8, _ byte) error { return aluRmR8(d, Alu8.AND, false) })
	bind(0x24, func(d *Dispatch8, _ byte) error { return aluAlIb8(d, Alu8.AND) })

	bind(0x28, func(d *Dispatch8, _ byte) error { return aluRmR8(d, Alu8.SUB, true) })
	bind(0x2A, func(d *Dispatch8, _ byte) error { return aluRmR8(d, Alu8.SUB, false) })
	bind(0x2C, func(d *Dispatch8, _ byte) error { return aluAlIb8(d, Alu8.SUB) })
	bind(0x2F, func(d *Dispatch8, _ byte) error { return das(d) })

	bind(0x30, func(d *Dispatch8, _ byte) error { return aluRmR8(d, Alu8.XOR, true) })
	bind(0x32, func(d *Dispatch8, _ byte) error { return aluRmR8(d, Alu8.XOR, false) })
	bind(0x34, func(d *Dispatch8, _ byte) error { return aluAlIb8(d, Alu8.XOR) })
	bind(0x37, func(d *Dispatch8, _ byte) error { return aaa(d) })

	bind(0x38, func(d *Dispatch8, _ byte) error { return cmpRmR8(d, true) })
	bind(0x3A, func(d *Dispatch8, _ byte) error { return cmpRmR8(d, false) })
	bind(0x3C, func(d *Dispatch8, _ byte) error {
		imm := d.Fetch.Fetch8()
		d.Alu.CMP(reg8(d).ReadU8Low(RegAX), imm)
		return nil
	})
	bind(0x3F, func(d *Dispatch8, _ byte) error { return aas(d) })

	bind(0x27, func(d *Dispatch8, _ byte) error { return daa(d) })

	bind(0x84, func(d *Dispatch8, _ byte) error { return testRmR8(d) })
	bind(0x86, func(d *Dispatch8, _ byte) error { return xchgRmR8(d) })
	bind(0x88, func(d *Dispatch8, _ byte) error { return movRmR8(d, false) })
	bind(0x8A, func(d *Dispatch8, _ byte) error { return movRmR8(d, true) })

	bind(0xA0, func(d *Dispatch8, _ byte) error { return movAlMoffs8(d) })
	bind(0xA2, func(d *Dispatch8, _ byte) error { return movMoffsAl8(d) })
	bind(0xA8, func(d *Dispatch8, _ byte) error {
		imm := d.Fetch.Fetch8()
		d.Alu.AND(reg8(d).ReadU8Low(RegAX), imm)
		return nil
	})

	bind(0xA4, func(d *Dispatch8, _ byte) error { return movsb(d) })
	bind(0xA6, func(d *Dispatch8, _ byte) error { return cmpsb(d) })
	bind(0xAA, func(d *Dispatch8, _ byte) error { return stosb(d) })
	bind(0xAC, func(d *Dispatch8, _ byte) error { return lodsb(d) })
	bind(0xAE, func(d *Dispatch8, _ byte) error { return scasb(d) })

	bind(0x9E, func(d *Dispatch8, _ byte) error { return sahf(d) })
	bind(0x9F, func(d *Dispatch8, _ byte) error { return lahf(d) })
	bind(0xD6, func(d *Dispatch8, _ byte) error { return salc(d) })
	bind(0xD7, func(d *Dispatch8, _ byte) error { return xlat(d) })

	bind(0xD4, func(d *Dispatch8, _ byte) error { return aam(d) })
	bind(0xD5, func(d *Dispatch8, _ byte) error { return aad(d) })

	bind(0x80, func(d *Dispatch8, op byte) error { return group1_8(d, op) })
	bind(0xD0, func(d *Dispatch8, op byte) error { return group2_8(d, op, 1, false) })
	bind(0xD2, func(d *Dispatch8, op byte) error { return group2_8(d, op, 0, true) })
	bind(0xF6, func(d *Dispatch8, op byte) error { return group3_8(d, op) })
	bind(0xFE, func(d *Dispatch8, op byte) error { return group45_8(d, op) })
}
