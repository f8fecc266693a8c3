// Package engine implements the minimum capability set spec §4.6 asks
// of an opaque WASM engine — compile, instantiate with an import table,
// exported-function lookup and call, and a linear-memory handle — on top
// of wazero. This is the one component the spec treats as a replaceable
// external collaborator; wazero is the concrete choice, grounded on the
// wasm-host pattern in the retrieval pack's reglet-dev-reglet example
// (internal/infrastructure/wasm/plugin.go), which builds its guest
// imports the same HostModuleBuilder-per-namespace way.
package engine

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// HostFunc is a single host-import implementation: it receives the raw
// i32/i64/f32/f64 stack wazero hands it and returns the same.
type HostFunc struct {
	// Name is the import's function name within its namespace.
	Name string
	// ParamTypes/ResultTypes describe the wasm signature wazero needs to
	// generate the trampoline (api.ValueType constants).
	ParamTypes  []api.ValueType
	ResultTypes []api.ValueType
	Func        func(ctx context.Context, mod api.Module, stack []uint64)
}

// Namespace groups host functions under one import module name
// ("env", "std", "aidoku", "net", "json", "defaults" — spec §4.4).
type Namespace struct {
	Name      string
	Functions []HostFunc
}

// Engine compiles and instantiates guest modules against a fixed import
// table. Instantiate registers the host namespaces under their fixed names
// in this Engine's runtime, so one Engine hosts one guest instance; each
// parallel session uses its own Engine.
type Engine struct {
	runtime wazero.Runtime
}

// New creates an Engine backed by a fresh wazero runtime.
func New(ctx context.Context) *Engine {
	return &Engine{runtime: wazero.NewRuntime(ctx)}
}

// Close releases the underlying wazero runtime and every module compiled
// against it.
func (e *Engine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// Module is a compiled, not-yet-instantiated guest module.
type Module struct {
	compiled wazero.CompiledModule
}

// Compile compiles wasmBytes. Per spec §4.6, a later Instantiate failure
// is fatal to session construction; Compile failure is reported the same
// way to its caller.
func (e *Engine) Compile(ctx context.Context, wasmBytes []byte) (*Module, error) {
	compiled, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("compile module: %w", err)
	}
	return &Module{compiled: compiled}, nil
}

// ExportNames returns the guest module's declared function export names,
// in no particular order, for the CLI's "inspect" subcommand.
func (m *Module) ExportNames() []string {
	defs := m.compiled.ExportedFunctions()
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	return names
}

// Instance is one instantiated guest module: its exports, its linear
// memory, and the engine that owns it.
type Instance struct {
	mod api.Module
}

// Instantiate links namespaces as host modules and instantiates mod
// against them. Instantiation failure at construction is fatal (spec
// §4.6) — callers should propagate the error up to session construction
// without retry.
func (e *Engine) Instantiate(ctx context.Context, mod *Module, namespaces []Namespace) (*Instance, error) {
	for _, ns := range namespaces {
		builder := e.runtime.NewHostModuleBuilder(ns.Name)
		for _, fn := range ns.Functions {
			builder = builder.NewFunctionBuilder().
				WithGoModuleFunction(api.GoModuleFunc(fn.Func), fn.ParamTypes, fn.ResultTypes).
				Export(fn.Name)
		}
		if _, err := builder.Instantiate(ctx); err != nil {
			return nil, fmt.Errorf("instantiate host module %q: %w", ns.Name, err)
		}
	}

	config := wazero.NewModuleConfig().WithStartFunctions()
	instance, err := e.runtime.InstantiateModule(ctx, mod.compiled, config)
	if err != nil {
		return nil, fmt.Errorf("instantiate guest module: %w", err)
	}
	return &Instance{mod: instance}, nil
}

// Memory returns the instance's single linear memory handle (spec §4.6).
func (i *Instance) Memory() api.Memory {
	return i.mod.Memory()
}

// HasExport reports whether name is an exported function, used to decide
// whether an optional export (initialize, get_manga_listing, …) is
// present before calling it (spec §4.5, §6).
func (i *Instance) HasExport(name string) bool {
	return i.mod.ExportedFunction(name) != nil
}

// Call invokes the exported function name with the given i32 arguments
// (the ABI's exports are documented entirely in terms of i32 descriptors
// and page numbers) and returns its i32 results.
func (i *Instance) Call(ctx context.Context, name string, args ...int32) ([]int32, error) {
	fn := i.mod.ExportedFunction(name)
	if fn == nil {
		return nil, fmt.Errorf("export %q not found", name)
	}
	u64args := make([]uint64, len(args))
	for idx, a := range args {
		u64args[idx] = api.EncodeI32(a)
	}
	results, err := fn.Call(ctx, u64args...)
	if err != nil {
		return nil, fmt.Errorf("call %q: %w", name, err)
	}
	out := make([]int32, len(results))
	for idx, r := range results {
		out[idx] = api.DecodeI32(r)
	}
	return out, nil
}

// Close releases this instance's resources.
func (i *Instance) Close(ctx context.Context) error {
	return i.mod.Close(ctx)
}
