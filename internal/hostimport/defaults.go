package hostimport

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/aidoku-host/aidoku-host/internal/descriptor"
	"github.com/aidoku-host/aidoku-host/internal/engine"
	"github.com/aidoku-host/aidoku-host/internal/memaccess"
)

// DefaultsNamespace implements the session-scoped key/value store (spec
// §4.4.5). It is never persisted across process restarts (spec.md
// Non-goals); internal/store's audit log is a separate, additive
// history of driver calls, not a backing store for this map.
func DefaultsNamespace(st *State) engine.Namespace {
	return engine.Namespace{
		Name: "defaults",
		Functions: []engine.HostFunc{
			{
				Name:        "get",
				ParamTypes:  types(2, i32Type),
				ResultTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					key := memaccess.New(mod.Memory()).ReadString(argU32(stack, 0), argU32(stack, 1))
					v, ok := st.getDefault(key)
					if !ok {
						setI32(stack, 0, descriptor.NoDescriptor)
						return
					}
					setI32(stack, 0, st.Values.Allocate(v.Clone()))
				},
			},
			{
				Name:       "set",
				ParamTypes: types(3, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					key := memaccess.New(mod.Memory()).ReadString(argU32(stack, 0), argU32(stack, 1))
					v, ok := st.Values.Read(argI32(stack, 2))
					if !ok {
						return
					}
					st.setDefault(key, v.Clone())
				},
			},
		},
	}
}
