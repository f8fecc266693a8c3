package hostimport

import (
	"context"
	"time"

	"github.com/tetratelabs/wazero/api"

	"github.com/aidoku-host/aidoku-host/internal/descriptor"
	"github.com/aidoku-host/aidoku-host/internal/engine"
	"github.com/aidoku-host/aidoku-host/internal/hostimport/stdimport"
	"github.com/aidoku-host/aidoku-host/internal/memaccess"
	"github.com/aidoku-host/aidoku-host/internal/value"
)

// StdNamespace implements the std value-heap surface (spec §4.4.2):
// construction, coercing reads, and the object/array accessor protocol.
// Every function here returns a documented sentinel on a missing or
// type-mismatched descriptor; none of them ever fault the guest.
func StdNamespace(st *State) engine.Namespace {
	return engine.Namespace{
		Name: "std",
		Functions: []engine.HostFunc{
			{
				Name: "copy", ParamTypes: types(1, i32Type), ResultTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					id := st.Values.Clone(argI32(stack, 0))
					st.Log.Tracef("copy(%d) -> %d", argI32(stack, 0), id)
					setI32(stack, 0, id)
				},
			},
			{
				Name: "destroy", ParamTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					st.Values.Remove(argI32(stack, 0))
				},
			},
			{
				Name: "typeof", ParamTypes: types(1, i32Type), ResultTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					v, ok := st.Values.Read(argI32(stack, 0))
					if !ok {
						setI32(stack, 0, int32(value.KindNull))
						return
					}
					setI32(stack, 0, int32(v.Kind()))
				},
			},
			{
				Name: "create_null", ResultTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					setI32(stack, 0, st.Values.Allocate(value.Null))
				},
			},
			{
				Name: "create_int", ParamTypes: types(1, i64Type), ResultTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					setI32(stack, 0, st.Values.Allocate(value.NewInt(argI64(stack, 0))))
				},
			},
			{
				Name: "create_float", ParamTypes: types(1, f64Type), ResultTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					setI32(stack, 0, st.Values.Allocate(value.NewFloat(argF64(stack, 0))))
				},
			},
			{
				Name: "create_bool", ParamTypes: types(1, i32Type), ResultTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					setI32(stack, 0, st.Values.Allocate(value.NewBool(argI32(stack, 0) != 0)))
				},
			},
			{
				Name: "create_string", ResultTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					setI32(stack, 0, st.Values.Allocate(value.NewString("")))
				},
			},
			{
				Name: "create_object", ResultTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					setI32(stack, 0, st.Values.Allocate(value.NewObject(nil)))
				},
			},
			{
				Name: "create_array", ResultTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					setI32(stack, 0, st.Values.Allocate(value.NewArray(nil)))
				},
			},
			{
				Name: "create_date", ParamTypes: types(1, f64Type), ResultTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					epoch := argF64(stack, 0)
					if epoch <= 0 {
						epoch = float64(time.Now().UTC().Unix())
					}
					setI32(stack, 0, st.Values.Allocate(value.NewDate(epoch)))
				},
			},
			{
				Name: "string_len", ParamTypes: types(1, i32Type), ResultTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					v, _ := st.Values.Read(argI32(stack, 0))
					setI32(stack, 0, int32(v.StringByteLen()))
				},
			},
			{
				Name: "read_string", ParamTypes: []api.ValueType{i32Type, i32Type, i32Type},
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					v, ok := st.Values.Read(argI32(stack, 0))
					if !ok {
						return
					}
					s, ok := v.AsString()
					if !ok {
						return
					}
					bufPtr, size := argU32(stack, 1), argU32(stack, 2)
					data := []byte(s)
					if uint32(len(data)) > size {
						data = data[:size]
					}
					memaccess.New(mod.Memory()).WriteBytes(data, bufPtr)
				},
			},
			{
				Name: "read_int", ParamTypes: types(1, i32Type), ResultTypes: types(1, i64Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					v, ok := st.Values.Read(argI32(stack, 0))
					if !ok {
						setI64(stack, 0, -1)
						return
					}
					i, ok := v.AsInt()
					if !ok {
						setI64(stack, 0, -1)
						return
					}
					setI64(stack, 0, i)
				},
			},
			{
				Name: "read_float", ParamTypes: types(1, i32Type), ResultTypes: types(1, f64Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					v, ok := st.Values.Read(argI32(stack, 0))
					if !ok {
						setF64(stack, 0, -1)
						return
					}
					f, ok := v.AsFloat()
					if !ok {
						setF64(stack, 0, -1)
						return
					}
					setF64(stack, 0, f)
				},
			},
			{
				Name: "read_bool", ParamTypes: types(1, i32Type), ResultTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					v, ok := st.Values.Read(argI32(stack, 0))
					if !ok {
						setI32(stack, 0, 0)
						return
					}
					b, ok := v.AsBool()
					if !ok || !b {
						setI32(stack, 0, 0)
						return
					}
					setI32(stack, 0, 1)
				},
			},
			{
				Name: "read_date", ParamTypes: types(1, i32Type), ResultTypes: types(1, f64Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					v, ok := st.Values.Read(argI32(stack, 0))
					if !ok {
						setF64(stack, 0, -1)
						return
					}
					d, ok := v.AsDate()
					if !ok {
						setF64(stack, 0, -1)
						return
					}
					setF64(stack, 0, d)
				},
			},
			{
				Name:       "read_date_string",
				ParamTypes: []api.ValueType{i32Type, i32Type, i32Type, i32Type, i32Type, i32Type, i32Type},
				ResultTypes: types(1, f64Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					v, ok := st.Values.Read(argI32(stack, 0))
					if !ok {
						setF64(stack, 0, -1)
						return
					}
					s, ok := v.AsString()
					if !ok {
						setF64(stack, 0, -1)
						return
					}
					acc := memaccess.New(mod.Memory())
					format := acc.ReadString(argU32(stack, 1), argU32(stack, 2))
					// Locale and timezone are accepted but ignored, per spec §4.4.2's
					// "minimal contract is accept and ignore" for this open question.
					_ = acc.ReadString(argU32(stack, 3), argU32(stack, 4))
					_ = acc.ReadString(argU32(stack, 5), argU32(stack, 6))

					layout := stdimport.GoLayoutFromABI(format)
					t, err := time.Parse(layout, s)
					if err != nil {
						setF64(stack, 0, -1)
						return
					}
					setF64(stack, 0, float64(t.Unix()))
				},
			},
			{
				Name: "object_len", ParamTypes: types(1, i32Type), ResultTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					v, _ := st.Values.Read(argI32(stack, 0))
					if v.Variant() != value.VariantObject {
						setI32(stack, 0, 0)
						return
					}
					setI32(stack, 0, int32(v.Len()))
				},
			},
			{
				Name:        "object_get",
				ParamTypes:  []api.ValueType{i32Type, i32Type, i32Type},
				ResultTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					id := argI32(stack, 0)
					v, ok := st.Values.Read(id)
					if !ok || !v.IsMapLike() {
						setI32(stack, 0, descriptor.NoDescriptor)
						return
					}
					key := memaccess.New(mod.Memory()).ReadString(argU32(stack, 1), argU32(stack, 2))
					found, ok := v.Get(key)
					if !ok {
						setI32(stack, 0, descriptor.NoDescriptor)
						return
					}
					newID := st.Values.Allocate(found.Clone())
					st.Log.Tracef("object_get(%d, %q) -> %d", id, key, newID)
					setI32(stack, 0, newID)
				},
			},
			{
				Name:       "object_set",
				ParamTypes: []api.ValueType{i32Type, i32Type, i32Type, i32Type},
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					id := argI32(stack, 0)
					v, ok := st.Values.Read(id)
					if !ok {
						return
					}
					valueID := argI32(stack, 3)
					toStore, ok := st.Values.Read(valueID)
					if !ok {
						return
					}
					key := memaccess.New(mod.Memory()).ReadString(argU32(stack, 1), argU32(stack, 2))
					updated, ok := v.ObjectSet(key, toStore.Clone())
					if !ok {
						return
					}
					st.Values.Replace(id, updated)
				},
			},
			{
				Name: "object_values", ParamTypes: types(1, i32Type), ResultTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					v, ok := st.Values.Read(argI32(stack, 0))
					if !ok {
						setI32(stack, 0, descriptor.NoDescriptor)
						return
					}
					values, ok := v.ObjectValues()
					if !ok {
						setI32(stack, 0, descriptor.NoDescriptor)
						return
					}
					clones := make([]value.Value, len(values))
					for i, item := range values {
						clones[i] = item.Clone()
					}
					setI32(stack, 0, st.Values.Allocate(value.NewArray(clones)))
				},
			},
			{
				Name: "array_len", ParamTypes: types(1, i32Type), ResultTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					v, _ := st.Values.Read(argI32(stack, 0))
					if v.Variant() != value.VariantArray {
						setI32(stack, 0, 0)
						return
					}
					setI32(stack, 0, int32(v.Len()))
				},
			},
			{
				Name:        "array_get",
				ParamTypes:  types(2, i32Type),
				ResultTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					v, ok := st.Values.Read(argI32(stack, 0))
					if !ok {
						setI32(stack, 0, descriptor.NoDescriptor)
						return
					}
					elem, ok := v.ArrayIndex(int(argI32(stack, 1)))
					if !ok {
						setI32(stack, 0, descriptor.NoDescriptor)
						return
					}
					setI32(stack, 0, st.Values.Allocate(elem.Clone()))
				},
			},
			{
				Name:       "array_append",
				ParamTypes: types(2, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					id := argI32(stack, 0)
					v, ok := st.Values.Read(id)
					if !ok {
						return
					}
					elem, ok := st.Values.Read(argI32(stack, 1))
					if !ok {
						return
					}
					updated, ok := v.ArrayAppend(elem.Clone())
					if !ok {
						return
					}
					st.Values.Replace(id, updated)
				},
			},
			{
				Name:       "array_set",
				ParamTypes: types(3, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					id := argI32(stack, 0)
					v, ok := st.Values.Read(id)
					if !ok {
						return
					}
					elem, ok := st.Values.Read(argI32(stack, 2))
					if !ok {
						return
					}
					updated, ok := v.ArraySet(int(argI32(stack, 1)), elem.Clone())
					if !ok {
						return
					}
					st.Values.Replace(id, updated)
				},
			},
			{
				Name:       "array_remove",
				ParamTypes: types(2, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					id := argI32(stack, 0)
					v, ok := st.Values.Read(id)
					if !ok {
						return
					}
					updated, ok := v.ArrayRemove(int(argI32(stack, 1)))
					if !ok {
						return
					}
					st.Values.Replace(id, updated)
				},
			},
		},
	}
}
