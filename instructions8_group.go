// instructions8_group.go - the Group 1-5 opcode tables for 8-bit operands
// (§4.6). Each group's subfunction is selected by ModRM.RegisterIndex.
package x86core

// group1_8 implements immediate arithmetic (opcode 0x80): ADD/OR/ADC/SBB/
// AND/SUB/XOR/CMP against an 8-bit immediate.
func group1_8(d *Dispatch8, opcode byte) error {
	rm := d.newModRM()
	if err := rm.Read(); err != nil {
		return err
	}
	imm := d.Fetch.Fetch8()
	a := rm.GetRm8()

	switch rm.RegisterIndex {
	case 0:
		rm.SetRm8(d.Alu.ADD(a, imm))
	case 1:
		rm.SetRm8(d.Alu.OR(a, imm))
	case 2:
		rm.SetRm8(d.Alu.ADC(a, imm))
	case 3:
		rm.SetRm8(d.Alu.SBB(a, imm))
	case 4:
		rm.SetRm8(d.Alu.AND(a, imm))
	case 5:
		rm.SetRm8(d.Alu.SUB(a, imm))
	case 6:
		rm.SetRm8(d.Alu.XOR(a, imm))
	case 7:
		d.Alu.CMP(a, imm)
	default:
		return newFault(InvalidGroupIndex, opcode, "group1 subfunction", d.State)
	}
	return nil
}

// group2_8 implements shift/rotate (opcodes 0xD0/0xD2). fixedCount is used
// when useCL is false (the "by 1" encodings); otherwise the count comes
// from CL.
func group2_8(d *Dispatch8, opcode byte, fixedCount byte, useCL bool) error {
	rm := d.newModRM()
	if err := rm.Read(); err != nil {
		return err
	}
	n := fixedCount
	if useCL {
		n = d.State.Regs.ReadU8Low(RegCX)
	}
	v := rm.GetRm8()

	switch rm.RegisterIndex {
	case 0:
		rm.SetRm8(d.Alu.ROL(v, n))
	case 1:
		rm.SetRm8(d.Alu.ROR(v, n))
	case 2:
		rm.SetRm8(d.Alu.RCL(v, n))
	case 3:
		rm.SetRm8(d.Alu.RCR(v, n))
	case 4:
		rm.SetRm8(d.Alu.SHL(v, n))
	case 5:
		rm.SetRm8(d.Alu.SHR(v, n))
	case 6:
		return newFault(InvalidGroupIndex, opcode, "group2 subfunction", d.State)
	case 7:
		rm.SetRm8(d.Alu.SAR(v, n))
	}
	return nil
}

// group3_8 implements the unary group (opcode 0xF6): TEST/NOT/NEG/MUL/
// IMUL/DIV/IDIV against the accumulator.
func group3_8(d *Dispatch8, opcode byte) error {
	rm := d.newModRM()
	if err := rm.Read(); err != nil {
		return err
	}
	v := rm.GetRm8()

	switch rm.RegisterIndex {
	case 0:
		imm := d.Fetch.Fetch8()
		d.Alu.AND(v, imm)
	case 1:
		return newFault(InvalidGroupIndex, opcode, "group3 subfunction 1 reserved", d.State)
	case 2:
		rm.SetRm8(d.Alu.NOT(v))
	case 3:
		rm.SetRm8(d.Alu.NEG(v))
	case 4:
		al := d.State.Regs.ReadU8Low(RegAX)
		d.State.Regs.WriteU16(RegAX, d.Alu.MUL(al, v))
	case 5:
		al := d.State.Regs.ReadU8Low(RegAX)
		d.State.Regs.WriteU16(RegAX, d.Alu.IMUL(al, v))
	case 6:
		ax := d.State.Regs.ReadU16(RegAX)
		q, r, err := d.Alu.DIV(ax, v)
		if err != nil {
			return err
		}
		d.State.Regs.WriteU8Low(RegAX, q)
		d.State.Regs.WriteU8High(RegAX, r)
	case 7:
		ax := int16(d.State.Regs.ReadU16(RegAX))
		q, r, err := d.Alu.IDIV(ax, int8(v))
		if err != nil {
			return err
		}
		d.State.Regs.WriteU8Low(RegAX, byte(q))
		d.State.Regs.WriteU8High(RegAX, byte(r))
	}
	return nil
}

// group45_8 implements INC/DEC r/m8 (opcode 0xFE) plus the subfunction-7
// emulator callback escape.
func group45_8(d *Dispatch8, opcode byte) error {
	rm := d.newModRM()
	if err := rm.Read(); err != nil {
		return err
	}

	switch rm.RegisterIndex {
	case 0:
		rm.SetRm8(d.Alu.INC(rm.GetRm8()))
	case 1:
		rm.SetRm8(d.Alu.DEC(rm.GetRm8()))
	case 7:
		if d.Callback == nil {
			return newFault(InvalidGroupIndex, opcode, "no callback wired for subfunction 7", d.State)
		}
		return d.Callback(d)
	default:
		return newFault(InvalidGroupIndex, opcode, "group4/5 subfunction", d.State)
	}
	return nil
}
