// errors.go - the closed set of recoverable/fatal CPU faults (§7).
package x86core

import "fmt"

// FaultKind identifies which of the closed set of core faults occurred.
type FaultKind int

const (
	DivisionError FaultKind = iota
	InvalidOpCode
	InvalidGroupIndex
	InvalidMode
	InvalidRegisterMemoryIndex
	GeneralProtectionFault
	MemoryAddressMandatory
)

func (k FaultKind) String() string {
	switch k {
	case DivisionError:
		return "DivisionError"
	case InvalidOpCode:
		return "InvalidOpCode"
	case InvalidGroupIndex:
		return "InvalidGroupIndex"
	case InvalidMode:
		return "InvalidMode"
	case InvalidRegisterMemoryIndex:
		return "InvalidRegisterMemoryIndex"
	case GeneralProtectionFault:
		return "GeneralProtectionFault"
	case MemoryAddressMandatory:
		return "MemoryAddressMandatory"
	}
	return "UnknownFault"
}

// Recoverable reports whether an embedder may resume the core after this
// fault (by invoking the corresponding interrupt handler) rather than
// treating it as fatal.
func (k FaultKind) Recoverable() bool {
	switch k {
	case InvalidMode, InvalidRegisterMemoryIndex:
		return false
	default:
		return true
	}
}

// Fault is the error type core failures are reported as. Faults built by
// newFault carry a snapshot of the relevant state for diagnostics. Division
// failures are reported as *DivisionFault, whose embedded Fault carries no
// state snapshot.
type Fault struct {
	Kind    FaultKind
	Opcode  byte
	Detail  string
	StateAt string // CpuState.DumpedRegFlags() at the point of failure
}

func (e *Fault) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (opcode=0x%02X)", e.Kind, e.Detail, e.Opcode)
	}
	return fmt.Sprintf("%s (opcode=0x%02X)", e.Kind, e.Opcode)
}

// newFault builds a Fault, snapshotting state for diagnostics.
func newFault(kind FaultKind, opcode byte, detail string, s *CpuState) *Fault {
	f := &Fault{Kind: kind, Opcode: opcode, Detail: detail}
	if s != nil {
		f.StateAt = s.DumpedRegFlags()
	}
	return f
}

// DivisionFault carries the numerator/denominator that failed to divide,
// per §4.1's "recoverable fault kind DivisionError carrying the attempted
// numerator and denominator".
type DivisionFault struct {
	*Fault
	Numerator   uint64
	Denominator uint64
}

func newDivisionFault(num, den uint64) *DivisionFault {
	return &DivisionFault{
		Fault:       &Fault{Kind: DivisionError, Detail: fmt.Sprintf("%d / %d", num, den)},
		Numerator:   num,
		Denominator: den,
	}
}
