package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	sdlbridge "github.com/wippyai/sdl-bridge"
	"github.com/wippyai/sdl-bridge/native/sim"
	"github.com/wippyai/sdl-bridge/wasmhost"
)

func init() {
	// SDL video and event calls must stay on the main thread.
	runtime.LockOSThread()
}

type options struct {
	wasmFile    string
	funcName    string
	affinity    string
	simulate    bool
	wasi        bool
	list        bool
	interactive bool
	verbose     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.wasmFile, "wasm", "", "Path to guest module importing \""+wasmhost.ModuleName+"\"")
	flag.StringVar(&opts.funcName, "func", "", "Guest export to call (default _start, run or main)")
	flag.StringVar(&opts.affinity, "affinity", "enforce", "Thread affinity check: enforce or off")
	flag.BoolVar(&opts.simulate, "sim", false, "Use the simulated SDL library")
	flag.BoolVar(&opts.wasi, "wasi", true, "Provide wasi_snapshot_preview1 to the guest")
	flag.BoolVar(&opts.list, "list", false, "List bridge functions and exit")
	flag.BoolVar(&opts.interactive, "i", false, "Interactive mode with TUI")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	flag.Parse()

	if opts.wasmFile == "" && !opts.list && !opts.interactive {
		fmt.Fprintln(os.Stderr, "Usage: sdlhost -wasm <guest.wasm> [-func name] [-sim] [-v]")
		fmt.Fprintln(os.Stderr, "       sdlhost -list")
		fmt.Fprintln(os.Stderr, "       sdlhost -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	b, err := newBridge(opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close: %v\n", err)
		}
	}()

	switch {
	case opts.list:
		listFunctions(b)
		return nil
	case opts.interactive:
		return runInteractive(b)
	}
	return runGuest(opts, b)
}

func newBridge(opts options) (*sdlbridge.Bridge, error) {
	cfg := sdlbridge.Config{}
	switch opts.affinity {
	case "enforce":
		cfg.Affinity = sdlbridge.AffinityEnforce
	case "off":
		cfg.Affinity = sdlbridge.AffinityOff
	default:
		return nil, fmt.Errorf("unknown affinity mode %q", opts.affinity)
	}
	if opts.simulate {
		cfg.Library = sim.New()
	}
	if opts.verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("create logger: %w", err)
		}
		cfg.Logger = log
		wasmhost.SetLogger(log.Named("wasmhost"))
	}
	return sdlbridge.New(cfg)
}

func listFunctions(b *sdlbridge.Bridge) {
	family := ""
	for _, e := range b.Functions() {
		if string(e.Family) != family {
			family = string(e.Family)
			fmt.Printf("\n%s:\n", family)
		}
		fmt.Printf("  %s\n", e.Signature())
	}
}

func runGuest(opts options, b *sdlbridge.Bridge) error {
	ctx := context.Background()

	data, err := os.ReadFile(opts.wasmFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	if opts.wasi {
		if _, err := wasmhost.InstantiateWASI(ctx, r); err != nil {
			return fmt.Errorf("instantiate WASI: %w", err)
		}
	}
	if _, err := wasmhost.New(b).Instantiate(ctx, r); err != nil {
		return fmt.Errorf("instantiate %s: %w", wasmhost.ModuleName, err)
	}

	compiled, err := r.CompileModule(ctx, data)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	exports := compiled.ExportedFunctions()

	fmt.Printf("Module: %s\n", opts.wasmFile)
	fmt.Printf("Imports: %d\n", len(compiled.ImportedFunctions()))
	fmt.Printf("Exports: %d\n", len(exports))

	funcName := opts.funcName
	if funcName == "" {
		funcName = entryPoint(exports)
		if funcName == "" {
			fmt.Printf("\nNo function specified and no common entry point found.\n")
			fmt.Printf("Use -func to specify a function to call.\n")
			return nil
		}
	}
	def, ok := exports[funcName]
	if !ok {
		return fmt.Errorf("guest does not export %q", funcName)
	}
	if len(def.ParamTypes()) != 0 {
		return fmt.Errorf("%s takes %d parameters, expected none", funcName, len(def.ParamTypes()))
	}

	// _start runs through the normal call path instead of at instantiation.
	cfg := wazero.NewModuleConfig().
		WithStartFunctions().
		WithStdout(os.Stdout).
		WithStderr(os.Stderr).
		WithArgs(opts.wasmFile)
	mod, err := r.InstantiateModule(ctx, compiled, cfg)
	if err != nil {
		return fmt.Errorf("instantiate: %w", err)
	}
	defer mod.Close(ctx)

	fmt.Printf("\nCalling %s()...\n", funcName)
	results, err := mod.ExportedFunction(funcName).Call(ctx)
	var exit *sys.ExitError
	if errors.As(err, &exit) && exit.ExitCode() == 0 {
		return nil
	}
	if err != nil {
		return fmt.Errorf("call %s: %w", funcName, err)
	}
	if len(results) > 0 {
		fmt.Printf("Result: %s\n", formatResults(def.ResultTypes(), results))
	}
	return nil
}

func entryPoint(exports map[string]api.FunctionDefinition) string {
	for _, name := range []string{"_start", "run", "main"} {
		if _, ok := exports[name]; ok {
			return name
		}
	}
	if len(exports) == 1 {
		for name := range exports {
			return name
		}
	}
	return ""
}

func formatResults(types []api.ValueType, results []uint64) string {
	out := make([]string, len(results))
	for i, v := range results {
		switch types[i] {
		case api.ValueTypeI32:
			out[i] = fmt.Sprint(api.DecodeI32(v))
		case api.ValueTypeF32:
			out[i] = fmt.Sprint(api.DecodeF32(v))
		case api.ValueTypeF64:
			out[i] = fmt.Sprint(api.DecodeF64(v))
		default:
			out[i] = fmt.Sprint(int64(v))
		}
	}
	return strings.Join(out, ", ")
}
