package mem

import "fmt"

// AddressBus is implemented by every memory backend the CPU can be attached
// to.
//
// Implementations mask addresses to the bus width (see AddrBusMask) so callers
// may pass any 32-bit value. Multi-byte values are big-endian and may sit at
// odd addresses: alignment traps are the CPU's business, not the bus'. The
// address space is always passed along, even to backends that do not use it.
type AddressBus interface {
	Read8(space AddressSpace, addr uint32) uint8
	Read16(space AddressSpace, addr uint32) uint16
	Read32(space AddressSpace, addr uint32) uint32

	Write8(space AddressSpace, addr uint32, val uint8)
	Write16(space AddressSpace, addr uint32, val uint16)
	Write32(space AddressSpace, addr uint32, val uint32)
}

// Width is the size of a bus transfer.
type Width uint8

const (
	Byte Width = 1
	Word Width = 2
	Long Width = 4
)

func (w Width) String() string {
	switch w {
	case Byte:
		return "byte"
	case Word:
		return "word"
	case Long:
		return "long"
	}
	return fmt.Sprintf("Width(%d)", uint8(w))
}

// WidthByName returns the width named "byte", "word" or "long".
func WidthByName(name string) (Width, bool) {
	switch name {
	case "byte":
		return Byte, true
	case "word":
		return Word, true
	case "long":
		return Long, true
	}
	return 0, false
}

// Read performs a read of the given width on b, zero-extended to 32 bits.
func Read(b AddressBus, space AddressSpace, addr uint32, w Width) uint32 {
	switch w {
	case Byte:
		return uint32(b.Read8(space, addr))
	case Word:
		return uint32(b.Read16(space, addr))
	case Long:
		return b.Read32(space, addr)
	}
	panic(fmt.Sprintf("invalid bus width: %v", w))
}

// Write performs a write of the given width on b, truncating val as needed.
func Write(b AddressBus, space AddressSpace, addr uint32, w Width, val uint32) {
	switch w {
	case Byte:
		b.Write8(space, addr, uint8(val))
	case Word:
		b.Write16(space, addr, uint16(val))
	case Long:
		b.Write32(space, addr, val)
	default:
		panic(fmt.Sprintf("invalid bus width: %v", w))
	}
}
