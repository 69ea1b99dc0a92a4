// flags.go - the packed flag register, with model-dependent bit sanitization.
package x86core

// Flag bit positions, as laid out in the EFLAGS/FLAGS register.
const (
	FlagCF = 1 << 0  // Carry
	FlagPF = 1 << 2  // Parity
	FlagAF = 1 << 4  // Auxiliary carry
	FlagZF = 1 << 6  // Zero
	FlagSF = 1 << 7  // Sign
	FlagTF = 1 << 8  // Trap
	FlagIF = 1 << 9  // Interrupt enable
	FlagDF = 1 << 10 // Direction
	FlagOF = 1 << 11 // Overflow
)

// Model selects the CPU generation, which fixes which flag bits are
// forced on or off on every write to the whole register.
type Model int

const (
	Model8086 Model = iota
	Model286
	Model386
)

// forcedOn/forcedOff masks per §3 of the spec.
func (m Model) forcedOn() uint32 {
	switch m {
	case Model8086:
		return 1<<1 | 1<<12 | 1<<13 | 1<<14 | 1<<15
	case Model286, Model386:
		return 1 << 1
	}
	return 1 << 1
}

func (m Model) forcedOff() uint32 {
	switch m {
	case Model8086:
		return 1<<3 | 1<<5
	case Model286, Model386:
		return 1<<3 | 1<<5 | 1<<12 | 1<<13 | 1<<14 | 1<<15
	}
	return 0
}

// Flags is a 32-bit flag register whose writes are always sanitized
// through the active model's forced-on/forced-off masks.
type Flags struct {
	model    Model
	register uint32
}

// NewFlags creates a Flags register for the given model, already
// sanitized to that model's forced bits.
func NewFlags(model Model) *Flags {
	f := &Flags{model: model}
	f.SetWhole(0)
	return f
}

// Model returns the model this register is sanitizing for.
func (f *Flags) Model() Model { return f.model }

// SetWhole replaces the entire register, re-applying the model's forced
// masks: (written | forced_on) &^ forced_off.
func (f *Flags) SetWhole(v uint32) {
	f.register = (v | f.model.forcedOn()) &^ f.model.forcedOff()
}

// Whole32 returns the full 32-bit register value.
func (f *Flags) Whole32() uint32 { return f.register }

// Whole16 returns the low 16 bits of the register.
func (f *Flags) Whole16() uint16 { return uint16(f.register) }

// GetFlag reports whether every bit in mask is set.
func (f *Flags) GetFlag(mask uint32) bool {
	return f.register&mask == mask
}

// SetFlag sets or clears every bit in mask.
func (f *Flags) SetFlag(mask uint32, v bool) {
	if v {
		f.SetWhole(f.register | mask)
	} else {
		f.SetWhole(f.register &^ mask)
	}
}

// CF, ZF, SF, OF, PF, AF, DF, IF, TF are named single-flag accessors.
func (f *Flags) CF() bool { return f.GetFlag(FlagCF) }
func (f *Flags) ZF() bool { return f.GetFlag(FlagZF) }
func (f *Flags) SF() bool { return f.GetFlag(FlagSF) }
func (f *Flags) OF() bool { return f.GetFlag(FlagOF) }
func (f *Flags) PF() bool { return f.GetFlag(FlagPF) }
func (f *Flags) AF() bool { return f.GetFlag(FlagAF) }
func (f *Flags) DF() bool { return f.GetFlag(FlagDF) }
func (f *Flags) IF() bool { return f.GetFlag(FlagIF) }
func (f *Flags) TF() bool { return f.GetFlag(FlagTF) }

// Dump renders the canonical fixed-order "ODITSZAPC" textual dump, with a
// space where the corresponding bit is clear.
func (f *Flags) Dump() string {
	letters := "ODITSZAPC"
	masks := []uint32{FlagOF, FlagDF, FlagIF, FlagTF, FlagSF, FlagZF, FlagAF, FlagPF, FlagCF}
	buf := make([]byte, len(letters))
	for i, m := range masks {
		if f.GetFlag(m) {
			buf[i] = letters[i]
		} else {
			buf[i] = ' '
		}
	}
	return string(buf)
}

// parityTable9669 implements the parity lookup from §4.1: bits with an
// even number of 1s read 1. Indexed by the low 4 bits of a nibble.
const parityTable9669 = 0x9669

// parity reports whether the low byte of v has an even population count,
// computed as "parity of low nibble XOR parity of high nibble" against
// the 16-bit lookup table.
func parity(v byte) bool {
	lo := (parityTable9669 >> (v & 0xF)) & 1
	hi := (parityTable9669 >> ((v >> 4) & 0xF)) & 1
	return (lo^hi)&1 == 0
}
