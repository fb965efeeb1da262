package mem

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type testMem struct {
	t testing.TB
	*PagedMem
}

func newTestMem(tb testing.TB, size uint32) *testMem {
	tb.Helper()
	m, err := NewPagedMem(size)
	if err != nil {
		tb.Fatal(err)
	}
	return &testMem{t: tb, PagedMem: m}
}

func (m *testMem) wantRead8(addr uint32, want uint8) {
	m.t.Helper()
	if got := m.Read8(UserData, addr); got != want {
		m.t.Errorf("Read8(%08X) = %02X, want %02X", addr, got, want)
	}
}

func (m *testMem) wantRead16(addr uint32, want uint16) {
	m.t.Helper()
	if got := m.Read16(UserData, addr); got != want {
		m.t.Errorf("Read16(%08X) = %04X, want %04X", addr, got, want)
	}
}

func (m *testMem) wantRead32(addr uint32, want uint32) {
	m.t.Helper()
	if got := m.Read32(UserData, addr); got != want {
		m.t.Errorf("Read32(%08X) = %08X, want %08X", addr, got, want)
	}
}

func TestNewPagedMem(t *testing.T) {
	tests := []struct {
		size    uint32
		wantErr error
	}{
		{0, ErrZeroSize},
		{1, nil},
		{1000, nil},
		{PageSize, nil},
		{MaxSize, nil},
		{MaxSize + 1, ErrSizeTooLarge},
		{0xFFFFFFFF, ErrSizeTooLarge},
	}
	for _, tt := range tests {
		m, err := NewPagedMem(tt.size)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("NewPagedMem(0x%x) error = %v, want %v", tt.size, err, tt.wantErr)
			continue
		}
		if err != nil {
			continue
		}
		if m.Size() != tt.size {
			t.Errorf("Size() = 0x%x, want 0x%x", m.Size(), tt.size)
		}
	}
}

func TestMustNewPagedMemPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("MustNewPagedMem(0) did not panic")
		}
	}()
	MustNewPagedMem(0)
}

func TestUnwrittenMemoryReadsZero(t *testing.T) {
	m := newTestMem(t, MaxSize)
	for _, addr := range []uint32{0, 1, 0xFFF, 0x1000, 0x123456, 0xFFFFFC, 0xFFFFFF, 0xFFFFFFFF} {
		m.wantRead8(addr, 0)
		m.wantRead16(addr, 0)
		m.wantRead32(addr, 0)
	}
	if n := m.AllocatedPages(); n != 0 {
		t.Errorf("reads allocated %d pages", n)
	}
}

func TestReadWrite8(t *testing.T) {
	m := newTestMem(t, MaxSize)
	for addr := uint32(0x2000); addr < 0x2000+256; addr++ {
		m.Write8(SupervisorData, addr, uint8(addr))
	}
	for addr := uint32(0x2000); addr < 0x2000+256; addr++ {
		m.wantRead8(addr, uint8(addr))
	}
	if n := m.AllocatedPages(); n != 1 {
		t.Errorf("AllocatedPages() = %d, want 1", n)
	}
}

func TestAddressMasking(t *testing.T) {
	m := newTestMem(t, MaxSize)

	m.Write8(UserData, 0xAB001234, 0x42)
	m.wantRead8(0x001234, 0x42)
	m.wantRead8(0xFF001234, 0x42)

	m.Write8(UserData, 0x00FFFFFF, 0x99)
	m.wantRead8(0xFFFFFFFF, 0x99)

	for _, addr := range []uint32{0x01000000, 0x80000000, 0xFFFFFFFF, 0x12345678} {
		for _, as := range AllSpaces {
			if a, b := m.Read8(as, addr), m.Read8(as, addr&AddrBusMask); a != b {
				t.Errorf("Read8(%s, %08X) = %02X, Read8 on masked address = %02X", as, addr, a, b)
			}
		}
	}
}

func TestSmallMemoryWraps(t *testing.T) {
	m := newTestMem(t, 1000)

	m.Write8(UserData, 1000, 0x11)
	m.wantRead8(0, 0x11)
	m.wantRead8(2000, 0x11)

	// Long at the end of memory wraps to its start.
	m.Write32(UserData, 998, 0xAABBCCDD)
	m.wantRead8(998, 0xAA)
	m.wantRead8(999, 0xBB)
	m.wantRead8(0, 0xCC)
	m.wantRead8(1, 0xDD)
	m.wantRead32(998, 0xAABBCCDD)
}

func TestSmallMemoryBusWrap(t *testing.T) {
	m := newTestMem(t, 1000)
	for i := range uint32(1000) {
		m.Write8(UserData, i, uint8(i*7+3))
	}

	bytewise := func(addr, n uint32) uint32 {
		var val uint32
		for i := range n {
			val = val<<8 | uint32(m.Read8(UserData, addr+i))
		}
		return val
	}

	// 0xFFFFFF maps to offset 215 but its next byte is bus address 0, offset 0.
	for _, addr := range []uint32{0xFFFFFC, 0xFFFFFD, 0xFFFFFE, 0xFFFFFF, 0xFFFFFFFF} {
		m.wantRead16(addr, uint16(bytewise(addr, 2)))
		m.wantRead32(addr, bytewise(addr, 4))
	}

	for _, addr := range []uint32{0xFFFFFD, 0xFFFFFE, 0xFFFFFF} {
		m.Write16(UserData, addr, 0xBEEF)
		m.wantRead8(addr, 0xBE)
		m.wantRead8(addr+1, 0xEF)
		m.wantRead16(addr, 0xBEEF)

		m.Write32(UserData, addr, 0x01234567)
		for i, want := range []uint8{0x01, 0x23, 0x45, 0x67} {
			m.wantRead8(addr+uint32(i), want)
		}
		m.wantRead32(addr, 0x01234567)
	}
}

func TestBigEndian(t *testing.T) {
	m := newTestMem(t, MaxSize)

	m.Write32(SupervisorData, 0x100, 0x12345678)
	got := []uint8{m.Read8(UserData, 0x100), m.Read8(UserData, 0x101), m.Read8(UserData, 0x102), m.Read8(UserData, 0x103)}
	if diff := cmp.Diff([]uint8{0x12, 0x34, 0x56, 0x78}, got); diff != "" {
		t.Fatalf("bytes differ (-want +got):\n%s", diff)
	}
	m.wantRead16(0x100, 0x1234)
	m.wantRead16(0x102, 0x5678)
	m.wantRead16(0x101, 0x3456)

	m.Write16(UserData, 0x201, 0xBEEF)
	m.wantRead8(0x201, 0xBE)
	m.wantRead8(0x202, 0xEF)
	m.wantRead32(0x200, 0x00BEEF00)
}

func TestPageBoundary(t *testing.T) {
	const val = 0xCAFEBABE

	ref := newTestMem(t, MaxSize)
	ref.Write32(UserData, 0x100, val)

	for _, addr := range []uint32{PageSize - 3, PageSize - 2, PageSize - 1, 5*PageSize - 1, MaxSize - 2} {
		m := newTestMem(t, MaxSize)
		m.Write32(UserData, addr, val)
		m.wantRead32(addr, val)
		for i := range uint32(4) {
			m.wantRead8(addr+i, ref.Read8(UserData, 0x100+i))
		}
		m.wantRead16(addr, val>>16)
		m.wantRead16(addr+2, val&0xFFFF)
		if n := m.AllocatedPages(); n != 2 {
			t.Errorf("write at %08X allocated %d pages, want 2", addr, n)
		}
	}

	m := newTestMem(t, MaxSize)
	m.Write16(UserData, PageSize-1, 0x1234)
	m.wantRead8(PageSize-1, 0x12)
	m.wantRead8(PageSize, 0x34)
	m.wantRead16(PageSize-1, 0x1234)
}

func TestBusWrapAround(t *testing.T) {
	m := newTestMem(t, MaxSize)
	m.Write32(UserData, 0xFFFFFE, 0x01020304)
	m.wantRead8(0xFFFFFE, 0x01)
	m.wantRead8(0xFFFFFF, 0x02)
	m.wantRead8(0x000000, 0x03)
	m.wantRead8(0x000001, 0x04)
	m.wantRead32(0xFFFFFFFE, 0x01020304)
}

func TestReset(t *testing.T) {
	m := newTestMem(t, MaxSize)
	m.Write32(UserData, 0x4000, 0xFFFFFFFF)
	m.Write8(UserData, 0x800000, 0x01)
	if n := m.AllocatedPages(); n != 2 {
		t.Fatalf("AllocatedPages() = %d, want 2", n)
	}

	m.Reset()
	if n := m.AllocatedPages(); n != 0 {
		t.Fatalf("AllocatedPages() after Reset = %d", n)
	}
	m.wantRead32(0x4000, 0)
	m.wantRead8(0x800000, 0)
}

func TestLoadAndDiffs(t *testing.T) {
	m := newTestMem(t, 0x3000)
	m.Load(SupervisorProgram, 0x0FFE, []byte{0x4E, 0x71, 0x00, 0x4E, 0x75})
	m.Write8(UserData, 0x2FFF, 0x01)

	type diff struct {
		Addr uint32
		Val  uint8
	}
	var got []diff
	for addr, val := range m.Diffs() {
		got = append(got, diff{addr, val})
	}
	want := []diff{
		{0x0FFE, 0x4E},
		{0x0FFF, 0x71},
		{0x1001, 0x4E},
		{0x1002, 0x75},
		{0x2FFF, 0x01},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Fatalf("diffs differ (-want +got):\n%s", d)
	}

	// Early stop.
	n := 0
	for range m.Diffs() {
		n++
		break
	}
	if n != 1 {
		t.Fatalf("Diffs did not stop")
	}
}

func BenchmarkRead32(b *testing.B) {
	m := MustNewPagedMem(MaxSize)
	m.Write32(UserProgram, 0x1000, 0x4E714E71)
	for range b.N {
		m.Read32(UserProgram, 0x1000)
	}
}
