package emu

import (
	"context"

	"m68kmem/emu/log"
	"m68kmem/hw/mem"
)

// Session owns the memory of one emulation session. It is meant to be used by
// a single goroutine.
type Session struct {
	Mem *mem.PagedMem
	Bus mem.AddressBus
}

// NewSession creates the memory described by cfg and loads its images.
func NewSession(ctx context.Context, cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	for _, name := range cfg.Log.Modules {
		mod, _ := log.ModuleByName(name)
		log.EnableDebugModules(mod.Mask())
	}

	pm, err := mem.NewPagedMem(cfg.Memory.Size)
	if err != nil {
		return nil, err
	}
	s := &Session{Mem: pm, Bus: pm}

	if err := LoadImages(ctx, s.Bus, pm.Size(), cfg.Images); err != nil {
		return nil, err
	}

	log.ModEmu.InfoZ("session ready").
		Hex32("memsize", pm.Size()).
		Int("images", len(cfg.Images)).
		Int("pages", pm.AllocatedPages()).
		Bool("mirrored", pm.Size() < mem.MaxSize).
		End()
	return s, nil
}
