package hostimport

import "github.com/tetratelabs/wazero/api"

// Small decode/encode helpers for the raw uint64 stack wazero's
// GoModuleFunc hands every dynamic-signature host function (the engine
// adapter builds functions this way — see internal/engine.HostFunc).

func argI32(stack []uint64, i int) int32   { return api.DecodeI32(stack[i]) }
func argU32(stack []uint64, i int) uint32  { return uint32(argI32(stack, i)) }
func argF32(stack []uint64, i int) float32 { return api.DecodeF32(stack[i]) }
func argF64(stack []uint64, i int) float64 { return api.DecodeF64(stack[i]) }
func argI64(stack []uint64, i int) int64   { return int64(stack[i]) }

func setI32(stack []uint64, i int, v int32)   { stack[i] = api.EncodeI32(v) }
func setI64(stack []uint64, i int, v int64)   { stack[i] = uint64(v) }
func setF64(stack []uint64, i int, v float64) { stack[i] = api.EncodeF64(v) }

var (
	i32Type = api.ValueTypeI32
	i64Type = api.ValueTypeI64
	f32Type = api.ValueTypeF32
	f64Type = api.ValueTypeF64
)

func types(n int, t api.ValueType) []api.ValueType {
	out := make([]api.ValueType, n)
	for i := range out {
		out[i] = t
	}
	return out
}
