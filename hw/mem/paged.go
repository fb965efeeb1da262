package mem

import (
	"errors"
	"fmt"
	"iter"

	"m68kmem/emu/log"
)

const (
	PageShift = 12
	PageSize  = 1 << PageShift // 4KB
	pageMask  = PageSize - 1

	// MaxSize is the largest memory the external bus can address.
	MaxSize = AddrBusMask + 1
)

var (
	ErrZeroSize     = errors.New("memory size is zero")
	ErrSizeTooLarge = errors.New("memory size exceeds bus address space")
)

type page [PageSize]byte

// PagedMem is an AddressBus backed by RAM pages allocated on first write.
// Memory never written reads as zero.
//
// Addresses are masked to the bus width first and then wrap around the memory
// size, so a PagedMem smaller than 16MB is mirrored across the whole bus.
//
// PagedMem is not safe for concurrent use.
type PagedMem struct {
	size  uint32
	pages []*page // indexed by page number, nil until first write
	count int     // allocated pages
}

// NewPagedMem creates a memory of size bytes, which must be in ]0, MaxSize].
func NewPagedMem(size uint32) (*PagedMem, error) {
	switch {
	case size == 0:
		return nil, ErrZeroSize
	case size > MaxSize:
		return nil, fmt.Errorf("%w: 0x%x > 0x%x", ErrSizeTooLarge, size, MaxSize)
	}

	m := &PagedMem{size: size}
	m.pages = make([]*page, (size+pageMask)>>PageShift)

	log.ModMem.DebugZ("paged memory created").
		Hex32("size", size).
		Int("pages", len(m.pages)).
		End()
	return m, nil
}

// MustNewPagedMem is like NewPagedMem but panics on error.
func MustNewPagedMem(size uint32) *PagedMem {
	m, err := NewPagedMem(size)
	if err != nil {
		panic(err)
	}
	return m
}

// Size returns the memory size in bytes.
func (m *PagedMem) Size() uint32 { return m.size }

// AllocatedPages returns the number of pages backed by actual storage.
func (m *PagedMem) AllocatedPages() int { return m.count }

// Reset releases all pages; the whole memory reads as zero again.
func (m *PagedMem) Reset() {
	clear(m.pages)
	m.count = 0
}

// translate maps a bus address to a memory offset.
func (m *PagedMem) translate(addr uint32) uint32 {
	addr &= AddrBusMask
	if addr >= m.size {
		addr %= m.size
	}
	return addr
}

// pageFor returns the page holding off, allocating it if needed.
func (m *PagedMem) pageFor(off uint32) *page {
	idx := off >> PageShift
	if p := m.pages[idx]; p != nil {
		return p
	}

	p := new(page)
	m.pages[idx] = p
	m.count++

	log.ModMem.DebugZ("page allocated").
		Hex32("addr", idx<<PageShift).
		Uint("index", uint64(idx)).
		Int("allocated", m.count).
		End()
	return p
}

func (m *PagedMem) peek(off uint32) uint8 {
	p := m.pages[off>>PageShift]
	if p == nil {
		return 0
	}
	return p[off&pageMask]
}

func (m *PagedMem) poke(off uint32, val uint8) {
	m.pageFor(off)[off&pageMask] = val
}

// contiguous reports whether the n bytes at bus address addr, translated to
// off, lie in a single page without wrapping around the end of memory or the
// end of the bus.
func (m *PagedMem) contiguous(addr, off, n uint32) bool {
	return off&pageMask <= PageSize-n && off+n <= m.size && addr&AddrBusMask <= MaxSize-n
}

func (m *PagedMem) Read8(_ AddressSpace, addr uint32) uint8 {
	return m.peek(m.translate(addr))
}

func (m *PagedMem) Read16(_ AddressSpace, addr uint32) uint16 {
	off := m.translate(addr)
	if m.contiguous(addr, off, 2) {
		p := m.pages[off>>PageShift]
		if p == nil {
			return 0
		}
		i := off & pageMask
		return uint16(p[i])<<8 | uint16(p[i+1])
	}

	hi := m.peek(off)
	lo := m.peek(m.translate(addr + 1))
	return uint16(hi)<<8 | uint16(lo)
}

func (m *PagedMem) Read32(_ AddressSpace, addr uint32) uint32 {
	off := m.translate(addr)
	if m.contiguous(addr, off, 4) {
		p := m.pages[off>>PageShift]
		if p == nil {
			return 0
		}
		i := off & pageMask
		return uint32(p[i])<<24 | uint32(p[i+1])<<16 | uint32(p[i+2])<<8 | uint32(p[i+3])
	}

	var val uint32
	for i := range uint32(4) {
		val = val<<8 | uint32(m.peek(m.translate(addr+i)))
	}
	return val
}

func (m *PagedMem) Write8(_ AddressSpace, addr uint32, val uint8) {
	m.poke(m.translate(addr), val)
}

func (m *PagedMem) Write16(_ AddressSpace, addr uint32, val uint16) {
	off := m.translate(addr)
	if m.contiguous(addr, off, 2) {
		p := m.pageFor(off)
		i := off & pageMask
		p[i] = uint8(val >> 8)
		p[i+1] = uint8(val)
		return
	}

	m.poke(off, uint8(val>>8))
	m.poke(m.translate(addr+1), uint8(val))
}

func (m *PagedMem) Write32(_ AddressSpace, addr uint32, val uint32) {
	off := m.translate(addr)
	if m.contiguous(addr, off, 4) {
		p := m.pageFor(off)
		i := off & pageMask
		p[i] = uint8(val >> 24)
		p[i+1] = uint8(val >> 16)
		p[i+2] = uint8(val >> 8)
		p[i+3] = uint8(val)
		return
	}

	for i := range uint32(4) {
		m.poke(m.translate(addr+i), uint8(val>>(24-8*i)))
	}
}

// Load copies data at addr, following the same masking and wrap-around rules
// as byte writes.
func (m *PagedMem) Load(space AddressSpace, addr uint32, data []byte) {
	for i, b := range data {
		m.Write8(space, addr+uint32(i), b)
	}
}

// Diffs yields the address and value of every non-zero byte, in ascending
// address order.
func (m *PagedMem) Diffs() iter.Seq2[uint32, uint8] {
	return func(yield func(uint32, uint8) bool) {
		for idx, p := range m.pages {
			if p == nil {
				continue
			}
			base := uint32(idx) << PageShift
			for i, b := range p {
				if b == 0 || base+uint32(i) >= m.size {
					continue
				}
				if !yield(base+uint32(i), b) {
					return
				}
			}
		}
	}
}

var _ AddressBus = (*PagedMem)(nil)
