package transport

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/bindgen/errors"
)

// Guest ABI of WasmEndpoint.
const (
	// WasmAlloc is the exported allocator: (size i32) -> ptr i32.
	WasmAlloc = "alloc"
)

// WasmConfig holds configuration for a WasmEndpoint.
type WasmConfig struct {
	// MemoryLimitPages caps guest memory in 64KiB pages. 0 keeps the
	// runtime default.
	MemoryLimitPages uint32
}

// WasmEndpoint carries direct calls into an in-process WebAssembly guest.
// The guest exports memory, alloc and one function per command path,
// named like the path ("namespace/function"), with the signature
// (ptr, len i32) -> i64. The result packs the response as ptr<<32 | len.
// Calls are serialized; a guest instance is single threaded.
type WasmEndpoint struct {
	runtime wazero.Runtime
	module  api.Module
	alloc   api.Function
	mu      sync.Mutex
}

// NewWasmEndpoint compiles and instantiates the guest.
func NewWasmEndpoint(ctx context.Context, wasm []byte, cfg *WasmConfig) (*WasmEndpoint, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	mod, err := rt.InstantiateWithConfig(ctx, wasm, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseTransport, errors.KindInvalidInput, err, "instantiate guest")
	}
	alloc := mod.ExportedFunction(WasmAlloc)
	if alloc == nil || mod.Memory() == nil {
		_ = rt.Close(ctx)
		return nil, errors.InvalidInput(errors.PhaseTransport, "guest must export memory and "+WasmAlloc)
	}
	return &WasmEndpoint{runtime: rt, module: mod, alloc: alloc}, nil
}

// Paths lists the guest exports that can serve a command path, sorted.
func (e *WasmEndpoint) Paths() []string {
	var out []string
	for name, def := range e.module.ExportedFunctionDefinitions() {
		if name == WasmAlloc {
			continue
		}
		params, results := def.ParamTypes(), def.ResultTypes()
		if len(params) == 2 && len(results) == 1 && results[0] == api.ValueTypeI64 {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func (e *WasmEndpoint) Call(ctx context.Context, path string, payload []byte) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	fn := e.module.ExportedFunction(path)
	if fn == nil {
		return nil, noRoute(path)
	}
	mem := e.module.Memory()

	var ptr uint32
	if len(payload) > 0 {
		res, err := e.alloc.Call(ctx, uint64(len(payload)))
		if err != nil {
			return nil, errors.Wrap(errors.PhaseTransport, errors.KindInvalidData, err, "guest alloc")
		}
		ptr = uint32(res[0])
		if !mem.Write(ptr, payload) {
			return nil, errors.InvalidData(errors.PhaseTransport, []string{path},
				fmt.Sprintf("alloc returned %#x outside guest memory", ptr))
		}
	}

	res, err := fn.Call(ctx, uint64(ptr), uint64(len(payload)))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseTransport, errors.KindInvalidData, err, "guest "+path)
	}
	outPtr, outLen := uint32(res[0]>>32), uint32(res[0])
	out, ok := mem.Read(outPtr, outLen)
	if !ok {
		return nil, errors.InvalidData(errors.PhaseTransport, []string{path},
			fmt.Sprintf("response %#x+%d outside guest memory", outPtr, outLen))
	}
	// the view aliases guest memory, which the next call may overwrite
	return append([]byte{}, out...), nil
}

// Send runs the guest function to completion and drops its response. The
// guest has accepted the request once it returns.
func (e *WasmEndpoint) Send(ctx context.Context, path string, payload []byte) error {
	_, err := e.Call(ctx, path, payload)
	return err
}

// Close releases the guest and its runtime.
func (e *WasmEndpoint) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}
