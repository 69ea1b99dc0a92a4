// instructions8_bcd.go - packed/unpacked BCD adjust opcodes. Supplemented
// beyond the distilled representative set: a real 8-bit dispatcher always
// carries DAA/DAS/AAA/AAS/AAM/AAD alongside the binary ALU ops.
package x86core

func daa(d *Dispatch8) error {
	al := d.State.Regs.ReadU8Low(RegAX)
	oldAL := al
	oldCF := d.State.Flags.CF()
	cf, af := false, false

	if al&0x0F > 9 || d.State.Flags.AF() {
		cf = oldAL > 0xF9 || oldCF
		al += 6
		af = true
	}
	if oldAL > 0x99 || oldCF {
		al += 0x60
		cf = true
	}

	d.State.Regs.WriteU8Low(RegAX, al)
	d.State.Flags.SetFlag(FlagAF, af)
	d.State.Flags.SetFlag(FlagCF, cf)
	zf, sf, pf := zeroSignParity(bits8, uint64(al))
	d.State.Flags.SetFlag(FlagZF, zf)
	d.State.Flags.SetFlag(FlagSF, sf)
	d.State.Flags.SetFlag(FlagPF, pf)
	return nil
}

func das(d *Dispatch8) error {
	al := d.State.Regs.ReadU8Low(RegAX)
	oldAL := al
	oldCF := d.State.Flags.CF()
	cf, af := false, false

	if al&0x0F > 9 || d.State.Flags.AF() {
		cf = oldAL < 6 || oldCF
		al -= 6
		af = true
	}
	if oldAL > 0x99 || oldCF {
		al -= 0x60
		cf = true
	}

	d.State.Regs.WriteU8Low(RegAX, al)
	d.State.Flags.SetFlag(FlagAF, af)
	d.State.Flags.SetFlag(FlagCF, cf)
	zf, sf, pf := zeroSignParity(bits8, uint64(al))
	d.State.Flags.SetFlag(FlagZF, zf)
	d.State.Flags.SetFlag(FlagSF, sf)
	d.State.Flags.SetFlag(FlagPF, pf)
	return nil
}

func aaa(d *Dispatch8) error {
	al := d.State.Regs.ReadU8Low(RegAX)
	ah := d.State.Regs.ReadU8High(RegAX)
	if al&0x0F > 9 || d.State.Flags.AF() {
		al += 6
		ah += 1
		d.State.Flags.SetFlag(FlagAF, true)
		d.State.Flags.SetFlag(FlagCF, true)
	} else {
		d.State.Flags.SetFlag(FlagAF, false)
		d.State.Flags.SetFlag(FlagCF, false)
	}
	al &= 0x0F
	d.State.Regs.WriteU8Low(RegAX, al)
	d.State.Regs.WriteU8High(RegAX, ah)
	return nil
}

func aas(d *Dispatch8) error {
	al := d.State.Regs.ReadU8Low(RegAX)
	ah := d.State.Regs.ReadU8High(RegAX)
	if al&0x0F > 9 || d.State.Flags.AF() {
		al -= 6
		ah -= 1
		d.State.Flags.SetFlag(FlagAF, true)
		d.State.Flags.SetFlag(FlagCF, true)
	} else {
		d.State.Flags.SetFlag(FlagAF, false)
		d.State.Flags.SetFlag(FlagCF, false)
	}
	al &= 0x0F
	d.State.Regs.WriteU8Low(RegAX, al)
	d.State.Regs.WriteU8High(RegAX, ah)
	return nil
}

// aam divides AL by an immediate base (conventionally 0x0A), placing the
// quotient in AH and the remainder in AL.
func aam(d *Dispatch8) error {
	base := d.Fetch.Fetch8()
	if base == 0 {
		return newDivisionFault(uint64(d.State.Regs.ReadU8Low(RegAX)), 0)
	}
	al := d.State.Regs.ReadU8Low(RegAX)
	d.State.Regs.WriteU8High(RegAX, al/base)
	d.State.Regs.WriteU8Low(RegAX, al%base)
	zf, sf, pf := zeroSignParity(bits8, uint64(al%base))
	d.State.Flags.SetFlag(FlagZF, zf)
	d.State.Flags.SetFlag(FlagSF, sf)
	d.State.Flags.SetFlag(FlagPF, pf)
	return nil
}

// aad combines AH and AL into AL (AL = AH*base + AL) before a binary
// division, then zeroes AH, per an immediate base (conventionally 0x0A).
func aad(d *Dispatch8) error {
	base := d.Fetch.Fetch8()
	al := d.State.Regs.ReadU8Low(RegAX)
	ah := d.State.Regs.ReadU8High(RegAX)
	result := byte(uint16(ah)*uint16(base) + uint16(al))
	d.State.Regs.WriteU8Low(RegAX, result)
	d.State.Regs.WriteU8High(RegAX, 0)
	zf, sf, pf := zeroSignParity(bits8, uint64(result))
	d.State.Flags.SetFlag(FlagZF, zf)
	d.State.Flags.SetFlag(FlagSF, sf)
	d.State.Flags.SetFlag(FlagPF, pf)
	return nil
}
