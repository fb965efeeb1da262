package emu

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"

	"m68kmem/emu/log"
	"m68kmem/hw/mem"
)

type Config struct {
	Memory MemoryConfig  `toml:"memory"`
	Log    LogConfig     `toml:"log"`
	Images []ImageConfig `toml:"image"`
}

type MemoryConfig struct {
	Size uint32 `toml:"size"`
}

type LogConfig struct {
	Modules []string `toml:"modules"`
}

// ImageConfig describes a binary file copied into memory at startup.
type ImageConfig struct {
	Path  string `toml:"path"`
	Addr  uint32 `toml:"addr"`
	Space string `toml:"space"` // defaults to supervisor-program
}

// AddressSpace returns the address space the image is written through.
func (ic ImageConfig) AddressSpace() (mem.AddressSpace, error) {
	if ic.Space == "" {
		return mem.SupervisorProgram, nil
	}
	as, ok := mem.SpaceByName(ic.Space)
	if !ok {
		return 0, fmt.Errorf("image %s: unknown address space %q", ic.Path, ic.Space)
	}
	return as, nil
}

func DefaultConfig() Config {
	return Config{
		Memory: MemoryConfig{Size: mem.MaxSize},
	}
}

func (cfg Config) Validate() error {
	switch {
	case cfg.Memory.Size == 0:
		return fmt.Errorf("memory size: %w", mem.ErrZeroSize)
	case cfg.Memory.Size > mem.MaxSize:
		return fmt.Errorf("memory size 0x%x: %w", cfg.Memory.Size, mem.ErrSizeTooLarge)
	}

	for _, img := range cfg.Images {
		if img.Path == "" {
			return errors.New("image with empty path")
		}
		if _, err := img.AddressSpace(); err != nil {
			return err
		}
	}
	for _, name := range cfg.Log.Modules {
		if _, ok := log.ModuleByName(name); !ok {
			return fmt.Errorf("unknown log module %q", name)
		}
	}
	return nil
}

// LoadConfig decodes and validates the TOML configuration at path. Missing
// keys keep their DefaultConfig value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.ModConfig.ErrorZ("failed to decode configuration").
				String("file", path).
				Error("err", err).
				End()
		}
		return Config{}, err
	}
	for _, key := range md.Undecoded() {
		log.ModConfig.WarnZ("unknown configuration key").
			String("key", key.String()).
			String("file", path).
			End()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadConfigOrDefault loads the configuration at path, or provides the default
// one if the file does not exist.
func LoadConfigOrDefault(path string) (Config, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.ModConfig.InfoZ("no configuration file, using defaults").
			String("file", path).
			End()
		return DefaultConfig(), nil
	}
	return cfg, err
}

func SaveConfig(path string, cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, buf, 0644)
}
