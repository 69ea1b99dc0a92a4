// memory.go - the external memory/fetch contract (§6). The core never owns
// storage; it is handed a Memory implementation by the embedder and only
// ever addresses it through 20-bit physical addresses produced by
// PhysicalAddress.
package x86core

// Memory is the byte-addressable physical store the core operates over.
// Implementations are expected to wrap addresses modulo their own size;
// the core itself never wraps beyond the 20-bit real-mode address space.
type Memory interface {
	ReadU8(addr uint32) byte
	ReadU16(addr uint32) uint16
	ReadU32(addr uint32) uint32
	WriteU8(addr uint32, v byte)
	WriteU16(addr uint32, v uint16)
	WriteU32(addr uint32, v uint32)
}

// Fetcher reads the next byte(s) of the instruction stream at CS:IP and
// advances IP by the width fetched, per §6's fetch_u8/16/32 contract.
// Decoder construction is out of scope, but ModRM/SIB decoding (in scope)
// pulls displacement and immediate bytes through exactly this contract.
type Fetcher interface {
	Fetch8() byte
	Fetch16() uint16
	Fetch32() uint32
}

// StateFetcher is the default Fetcher, reading through CS:IP on the given
// CpuState/Memory pair and advancing IP by the fetched width.
type StateFetcher struct {
	State *CpuState
	Mem   Memory
}

func (f StateFetcher) Fetch8() byte {
	v := f.Mem.ReadU8(f.State.IPPhysicalAddress())
	f.State.IP++
	return v
}

func (f StateFetcher) Fetch16() uint16 {
	v := f.Mem.ReadU16(f.State.IPPhysicalAddress())
	f.State.IP += 2
	return v
}

func (f StateFetcher) Fetch32() uint32 {
	v := f.Mem.ReadU32(f.State.IPPhysicalAddress())
	f.State.IP += 4
	return v
}

// ReadSegmentedAddress reads a 16-bit offset followed by a 16-bit segment
// at consecutive addresses, as used by far pointers and IVT entries.
func ReadSegmentedAddress(m Memory, addr uint32) (segment, offset uint16) {
	offset = m.ReadU16(addr)
	segment = m.ReadU16(addr + 2)
	return segment, offset
}

// WriteSegmentedAddress writes a far pointer as offset then segment, the
// inverse of ReadSegmentedAddress.
func WriteSegmentedAddress(m Memory, addr uint32, segment, offset uint16) {
	m.WriteU16(addr, offset)
	m.WriteU16(addr+2, segment)
}
