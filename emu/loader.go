package emu

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"m68kmem/emu/log"
	"m68kmem/hw/mem"
)

// maxImageSize bounds the size of a single image file.
const maxImageSize = mem.MaxSize

// LoadImages reads all image files concurrently then writes them onto the bus,
// in order, so that overlapping images resolve as "last one wins". Nothing is
// written if any image fails to load.
//
// size is the size of the memory behind bus, used to warn about images
// wrapping around the end of memory.
func LoadImages(ctx context.Context, bus mem.AddressBus, size uint32, images []ImageConfig) error {
	spaces := make([]mem.AddressSpace, len(images))
	for i, img := range images {
		as, err := img.AddressSpace()
		if err != nil {
			return err
		}
		spaces[i] = as
	}

	start := time.Now()
	data := make([][]byte, len(images))
	g, ctx := errgroup.WithContext(ctx)
	for i, img := range images {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			buf, err := readImage(img.Path)
			if err != nil {
				return err
			}
			data[i] = buf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, img := range images {
		buf := data[i]
		if uint64(imageOffset(img.Addr, size))+uint64(len(buf)) > uint64(size) {
			log.ModLoader.WarnZ("image wraps around end of memory").
				String("path", img.Path).
				Hex32("addr", img.Addr).
				Int("len", len(buf)).
				Hex32("memsize", size).
				End()
		}

		for j, b := range buf {
			bus.Write8(spaces[i], img.Addr+uint32(j), b)
		}

		log.ModLoader.InfoZ("image loaded").
			String("path", img.Path).
			Hex32("addr", img.Addr).
			Int("len", len(buf)).
			Stringer("space", spaces[i]).
			End()
	}

	log.ModLoader.InfoZ("images loaded").
		Int("count", len(images)).
		Duration("elapsed", time.Since(start)).
		End()
	return nil
}

// imageOffset returns the memory offset an image at bus address addr starts
// at, once masked to the bus and mirrored into [0, size).
func imageOffset(addr, size uint32) uint32 {
	return (addr & mem.AddrBusMask) % size
}

func readImage(path string) ([]byte, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.Size() > int64(maxImageSize) {
		return nil, fmt.Errorf("image %s: size %d exceeds 0x%x bytes", path, fi.Size(), maxImageSize)
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("image %s: %w", path, err)
	}
	return buf, nil
}
