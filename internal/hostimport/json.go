package hostimport

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/aidoku-host/aidoku-host/internal/descriptor"
	"github.com/aidoku-host/aidoku-host/internal/engine"
	"github.com/aidoku-host/aidoku-host/internal/hostimport/jsonimport"
	"github.com/aidoku-host/aidoku-host/internal/memaccess"
)

// JSONNamespace implements json.parse (spec §4.4.6).
func JSONNamespace(st *State) engine.Namespace {
	return engine.Namespace{
		Name: "json",
		Functions: []engine.HostFunc{
			{
				Name:        "parse",
				ParamTypes:  types(2, i32Type),
				ResultTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					raw, ok := memaccess.New(mod.Memory()).ReadBytes(argU32(stack, 0), argU32(stack, 1))
					if !ok {
						setI32(stack, 0, descriptor.NoDescriptor)
						return
					}
					v, err := jsonimport.Parse(raw)
					if err != nil {
						setI32(stack, 0, descriptor.NoDescriptor)
						return
					}
					setI32(stack, 0, st.Values.Allocate(v))
				},
			},
		},
	}
}
