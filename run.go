package main

import (
	"fmt"
	"io"
	"os"

	"m68kmem/emu"
	"m68kmem/hw/mem"
)

func printInfos(w io.Writer, sess *emu.Session) {
	pm := sess.Mem
	npages := (pm.Size() + mem.PageSize - 1) / mem.PageSize
	fmt.Fprintf(w, "memory size:     0x%06X (%d bytes)\n", pm.Size(), pm.Size())
	fmt.Fprintf(w, "page size:       0x%X\n", mem.PageSize)
	fmt.Fprintf(w, "pages:           %d\n", npages)
	fmt.Fprintf(w, "allocated pages: %d\n", pm.AllocatedPages())
}

// peekMain prints args.Count values read from the bus, one line per 16 bytes.
func peekMain(w io.Writer, bus mem.AddressBus, args Peek) error {
	width, ok := mem.WidthByName(args.Width)
	if !ok {
		return fmt.Errorf("invalid width %q", args.Width)
	}
	space, ok := mem.SpaceByName(args.Space)
	if !ok {
		return fmt.Errorf("invalid address space %q", args.Space)
	}
	if args.Count <= 0 {
		return fmt.Errorf("invalid count %d", args.Count)
	}

	perLine := 16 / int(width)
	addr := uint32(args.Addr)
	for i := range args.Count {
		if i%perLine == 0 {
			if i != 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%06X %s", addr&mem.AddrBusMask, space)
		}
		val := mem.Read(bus, space, addr, width)
		fmt.Fprintf(w, " %0*X", 2*int(width), val)
		addr += uint32(width)
	}
	fmt.Fprintln(w)
	return nil
}

func dumpMain(sess *emu.Session, args Dump) error {
	if args.Out == nil {
		return sess.Mem.WriteSnapshot(os.Stdout)
	}
	err := sess.Mem.WriteSnapshot(args.Out)
	if cerr := args.Out.Close(); err == nil {
		err = cerr
	}
	return err
}
