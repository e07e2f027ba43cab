package main

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/uvm/cpu"
	"github.com/ezrec/uvm/emulator"
	uvmio "github.com/ezrec/uvm/io"
)

// DumpConfig selects the memory range and format of a dump.
type DumpConfig struct {
	Start  uint32 `toml:"start"`
	End    uint32 `toml:"end"`
	Format string `toml:"format"`
}

// Config is the optional TOML configuration file.
type Config struct {
	MaxSteps int        `toml:"max_steps"`
	Verbose  bool       `toml:"verbose"`
	Lang     string     `toml:"lang"` // Message locale, empty for the host locale.
	Dump     DumpConfig `toml:"dump"`
}

// DefaultConfig returns the configuration used without a file.
func DefaultConfig() Config {
	return Config{
		MaxSteps: cpu.STEP_LIMIT,
		Dump: DumpConfig{
			Start:  emulator.DUMP_START,
			End:    emulator.DUMP_END,
			Format: "json",
		},
	}
}

// LoadConfig overlays a TOML file onto the defaults.
func LoadConfig(path string) (config Config, err error) {
	config = DefaultConfig()
	if len(path) == 0 {
		return
	}

	_, err = toml.DecodeFile(path, &config)
	return
}

// Validate checks the step bound, the dump range against the memory size,
// and the dump format.
func (config *Config) Validate() (err error) {
	if config.MaxSteps < 0 {
		err = fmt.Errorf("%w: %d", ErrMaxSteps, config.MaxSteps)
		return
	}

	dump := &config.Dump
	if dump.Start > cpu.MEMORY_SIZE || dump.End > cpu.MEMORY_SIZE || dump.Start > dump.End {
		err = fmt.Errorf("%w: 0x%x..0x%x", uvmio.ErrDumpRange, dump.Start, dump.End)
		return
	}

	_, err = uvmio.ParseDumpFormat(dump.Format)
	return
}
