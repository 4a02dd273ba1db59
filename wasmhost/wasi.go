package wasmhost

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

const (
	errnoBadf   = 8          // EBADF
	invalidDesc = 0xFFFFFFFF // -1 as u32
)

// InstantiateWASI registers wasi_snapshot_preview1 in r together with the
// stubs that guests linked through the preview1 component adapter import.
// Guests built with a plain wasi-libc only use the standard set.
func InstantiateWASI(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	builder := r.NewHostModuleBuilder(wasi_snapshot_preview1.ModuleName)
	wasi_snapshot_preview1.NewFunctionExporter().ExportFunctions(builder)

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(context.Context, api.Module, []uint64) {}), nil, nil).
		Export("reset_adapter_state")

	for _, name := range []string{"adapter_close_badfd", "adapter_open_badfd"} {
		result := uint64(errnoBadf)
		if name == "adapter_open_badfd" {
			result = invalidDesc
		}
		builder = builder.NewFunctionBuilder().
			WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = result
			}), i32, i32).
			Export(name)
	}

	return builder.Instantiate(ctx)
}
