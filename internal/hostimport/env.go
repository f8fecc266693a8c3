package hostimport

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/aidoku-host/aidoku-host/internal/engine"
	"github.com/aidoku-host/aidoku-host/internal/memaccess"
)

// EnvNamespace implements env.abort/env.print (spec §4.4.1). Both log
// and continue — neither ever terminates the host, per the original's
// own "log and keep going" behavior.
func EnvNamespace(st *State) engine.Namespace {
	return engine.Namespace{
		Name: "env",
		Functions: []engine.HostFunc{
			{
				Name:        "abort",
				ParamTypes:  types(4, i32Type),
				ResultTypes: nil,
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					msgPtr, filePtr := argI32(stack, 0), argI32(stack, 1)
					line, col := argI32(stack, 2), argI32(stack, 3)
					// The ABI gives no byte lengths for msg/file — AssemblyScript
					// encodes them as length-prefixed UTF-16 strings, which this
					// host does not decode (spec §4.4.1 only requires "log and
					// continue"). Logging the raw addresses still lets an operator
					// correlate an abort with the guest's source map.
					st.Log.Errorf("guest abort at %d:%d (msg=0x%x file=0x%x)", line, col, msgPtr, filePtr)
				},
			},
			{
				Name:        "print",
				ParamTypes:  types(2, i32Type),
				ResultTypes: nil,
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					ptr, length := argU32(stack, 0), argU32(stack, 1)
					msg := memaccess.New(mod.Memory()).ReadString(ptr, length)
					st.Log.Tracef("print: %s", msg)
				},
			},
		},
	}
}
