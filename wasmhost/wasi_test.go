package wasmhost

import (
	"context"
	"testing"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

func TestInstantiateWASI(t *testing.T) {
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	mod, err := InstantiateWASI(ctx, r)
	if err != nil {
		t.Fatalf("InstantiateWASI: %v", err)
	}
	if mod.Name() != wasi_snapshot_preview1.ModuleName {
		t.Errorf("module name = %q", mod.Name())
	}

	tests := []struct {
		name string
		want uint64
	}{
		{"adapter_close_badfd", errnoBadf},
		{"adapter_open_badfd", invalidDesc},
	}
	for _, tt := range tests {
		fn := mod.ExportedFunction(tt.name)
		if fn == nil {
			t.Fatalf("%s not exported", tt.name)
		}
		res, err := fn.Call(ctx, 3)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if res[0] != tt.want {
			t.Errorf("%s = %#x, want %#x", tt.name, res[0], tt.want)
		}
	}
	if mod.ExportedFunction("fd_write") == nil {
		t.Error("standard preview1 functions missing")
	}
}
