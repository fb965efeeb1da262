package mem

import "strconv"

//go:generate go tool stringer -type=Mode,Segment -output=space_string.go

// AddrBusMask masks an address to the 24 address lines wired on the external
// bus. The upper 8 bits of an address are ignored, so high addresses alias
// onto the 16MB physical space.
const AddrBusMask uint32 = 0x00FF_FFFF

// Mode is the privilege mode of a bus cycle.
type Mode uint8

const (
	User Mode = iota
	Supervisor
)

// Segment tells an instruction fetch from an operand access.
type Segment uint8

const (
	Program Segment = iota
	Data
)

// AddressSpace classifies a bus cycle by privilege mode and segment. Its
// underlying value is the function code the CPU drives on its FC0-FC2 pins:
//
//	FC2  supervisor
//	FC1  program
//	FC0  data
//
// Only the four constants below are ordinary bus cycles. The remaining codes
// (interrupt acknowledge, CPU space, reserved) are deliberately left out.
type AddressSpace uint8

const (
	UserData          AddressSpace = 1
	UserProgram       AddressSpace = 2
	SupervisorData    AddressSpace = 5
	SupervisorProgram AddressSpace = 6
)

// AllSpaces lists the address spaces, highest function code first.
var AllSpaces = [...]AddressSpace{SupervisorProgram, SupervisorData, UserProgram, UserData}

// FC returns the hardware function code of the address space.
func (as AddressSpace) FC() uint32 { return uint32(as) }

func (as AddressSpace) Mode() Mode {
	if as&0b100 != 0 {
		return Supervisor
	}
	return User
}

func (as AddressSpace) Segment() Segment {
	if as&0b010 != 0 {
		return Program
	}
	return Data
}

// Valid reports whether as is one of the four ordinary bus cycles.
func (as AddressSpace) Valid() bool {
	switch as {
	case UserData, UserProgram, SupervisorData, SupervisorProgram:
		return true
	}
	return false
}

// String returns the mode/segment pair, for example "[Supervisor/Program]".
func (as AddressSpace) String() string {
	if !as.Valid() {
		return "AddressSpace(" + strconv.Itoa(int(as)) + ")"
	}
	return "[" + as.Mode().String() + "/" + as.Segment().String() + "]"
}

// SpaceFromFC returns the address space driving the given function code.
func SpaceFromFC(fc uint32) (AddressSpace, bool) {
	as := AddressSpace(fc)
	if fc > 7 || !as.Valid() {
		return 0, false
	}
	return as, true
}

var spaceNames = map[string]AddressSpace{
	"supervisor-program": SupervisorProgram,
	"supervisor-data":    SupervisorData,
	"user-program":       UserProgram,
	"user-data":          UserData,
}

// SpaceByName looks up an address space by its configuration name, one of
// supervisor-program, supervisor-data, user-program or user-data.
func SpaceByName(name string) (AddressSpace, bool) {
	as, ok := spaceNames[name]
	return as, ok
}

// SpaceNames returns the names accepted by SpaceByName, in AllSpaces order.
func SpaceNames() []string {
	return []string{"supervisor-program", "supervisor-data", "user-program", "user-data"}
}
