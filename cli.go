package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"m68kmem/emu/log"
	"m68kmem/hw/mem"
)

type mode byte

const (
	infoMode    mode = iota // Show memory layout
	peekMode                // Read memory
	dumpMode                // Write memory snapshot
	versionMode             // Show version
)

type (
	CLI struct {
		Info    Info    `cmd:"" help:"Show memory layout after loading images. (default command)" default:"true"`
		Peek    Peek    `cmd:"" help:"Read memory through the address bus."`
		Dump    Dump    `cmd:"" help:"Write a JSON snapshot of memory."`
		Version Version `cmd:"" help:"Show m68kmem version."`

		Config string     `name:"config" short:"c" help:"${config_help}" type:"path" default:"m68kmem.toml"`
		Log    logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`

		mode mode
	}

	Info struct{}

	Peek struct {
		Addr  busAddr `arg:"" name:"addr" help:"${addr_help}"`
		Count int     `name:"count" short:"n" help:"Number of values to read." default:"16"`
		Width string  `name:"width" short:"w" help:"Access width." enum:"byte,word,long" default:"byte"`
		Space string  `name:"space" short:"s" help:"Address space." enum:"${spaces}" default:"supervisor-data"`
	}

	Dump struct {
		Out *outfile `name:"out" short:"o" help:"Write snapshot to file." placeholder:"FILE|stdout|stderr"`
	}

	Version struct{}
)

var vars = kong.Vars{
	"config_help": "Configuration file (defaults are used if it does not exist).",
	"log_help":    "Enable logging for specified modules.",
	"addr_help":   "Bus address, in hex (0x prefix) or decimal.",
	"spaces":      strings.Join(mem.SpaceNames(), ","),
}

func parseArgs(args []string) CLI {
	cfg, err := newCLI(args)
	checkf(err, "failed to parse command line")
	return cfg
}

func newCLI(args []string, opts ...kong.Option) (CLI, error) {
	var cfg CLI
	opts = append([]kong.Option{
		kong.Name("m68kmem"),
		kong.Description("68000 paged memory bus. Loads images into memory and inspects it."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars,
	}, opts...)

	parser, err := kong.New(&cfg, opts...)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return CLI{}, err
	}

	switch strings.Fields(ctx.Command())[0] {
	case "peek":
		cfg.mode = peekMode
	case "dump":
		cfg.mode = dumpMode
	case "version":
		cfg.mode = versionMode
	default:
		cfg.mode = infoMode
	}
	return cfg, nil
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}

	loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
	var strs []string
	for _, m := range log.ModuleNames() {
		strs = append(strs, "    - "+m)
	}

	fmt.Fprintf(ctx.Stdout, loggingHelp, strings.Join(strs, "\n"))
	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	nolog := false
	allLogs := false

	tok := ctx.Scan.Pop()
	for _, v := range strings.Split(tok.Value.(string), ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return fmt.Errorf("unknown log module %s", v)
			}
			lm |= logModMask(mod.Mask())
		}
	}

	if nolog {
		if allLogs {
			return fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if lm != 0 {
			return fmt.Errorf("cannot combine 'no' with other log modules")
		}
		log.Disable()
		return nil
	}

	if allLogs {
		lm = logModMask(log.ModuleMaskAll)
	}

	log.EnableDebugModules(log.ModuleMask(lm))
	return nil
}

type busAddr uint32

// Decode parses a 32-bit address. Upper bits are kept, the bus masks them.
//
// Implements kong.MapperValue interface.
func (a *busAddr) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	s, ok := tok.Value.(string)
	if !ok {
		return fmt.Errorf("expected an address, got %v", tok.Value)
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", s, err)
	}
	*a = busAddr(v)
	return nil
}

type outfile struct {
	w     io.Writer
	name  string
	close func() error
}

// Decode decodes FILE|stdout|stderr into an io.WriteCloser
// that writes to that file.
//
// Implements kong.MapperValue interface.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	f.name = tok.Value.(string)
	f.close = func() error { return nil }

	switch f.name {
	case "stdout":
		f.w = os.Stdout
	case "stderr":
		f.w = os.Stderr
	default:
		fd, err := os.Create(f.name)
		if err != nil {
			return err
		}
		f.w = fd
		f.close = fd.Close
	}
	return nil
}

func (f *outfile) String() string              { return f.name }
func (f *outfile) Write(p []byte) (int, error) { return f.w.Write(p) }
func (f *outfile) Close() error                { return f.close() }

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
