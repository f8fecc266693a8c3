// Package memaccess implements the guest-linear-memory read/write
// primitives the host-import surface builds on (spec §4.3). It is a
// thin, permissive wrapper over wazero's api.Memory — wazero's Memory is
// itself the third-party surface here; there is no further library to
// reach for underneath it.
package memaccess

import (
	"encoding/binary"
	"strings"

	"github.com/tetratelabs/wazero/api"
)

// Accessor reads and writes the single linear memory of a guest
// instance. Host imports create a new Accessor on each call over the
// calling module's memory, so it never outlives the instance it wraps.
type Accessor struct {
	mem api.Memory
}

func New(mem api.Memory) *Accessor {
	return &Accessor{mem: mem}
}

// ReadBytes returns the len bytes at ptr, or (nil, false) if the range
// is out of bounds (spec §4.3).
func (a *Accessor) ReadBytes(ptr, length uint32) ([]byte, bool) {
	buf, ok := a.mem.Read(ptr, length)
	if !ok {
		return nil, false
	}
	// Read returns a view into the guest's memory; copy it out so later
	// guest writes can't retroactively mutate a value already stored in
	// the descriptor table.
	out := make([]byte, len(buf))
	copy(out, buf)
	return out, true
}

// ReadString reads len bytes at ptr and decodes them as UTF-8, lossily
// replacing invalid sequences (spec §4.3). Returns "" if the range is
// out of bounds.
func (a *Accessor) ReadString(ptr, length uint32) string {
	buf, ok := a.ReadBytes(ptr, length)
	if !ok {
		return ""
	}
	return strings.ToValidUTF8(string(buf), "�")
}

// ReadInt32Array reads count consecutive little-endian i32 values
// starting at ptr — used for the fixed-width descriptor/length arrays
// create_manga's tags parameter passes (spec §4.3, §4.4.3).
func (a *Accessor) ReadInt32Array(ptr uint32, count int) ([]int32, bool) {
	if count <= 0 {
		return nil, true
	}
	raw, ok := a.ReadBytes(ptr, uint32(count)*4)
	if !ok {
		return nil, false
	}
	out := make([]int32, count)
	for i := 0; i < count; i++ {
		out[i] = int32(binary.LittleEndian.Uint32(raw[i*4 : i*4+4]))
	}
	return out, true
}

// WriteBytes writes src at ptr. Out-of-bounds writes are a silent no-op,
// matching the original runtime's permissive contract (spec §4.3, §7).
func (a *Accessor) WriteBytes(src []byte, ptr uint32) {
	if len(src) == 0 {
		return
	}
	_ = a.mem.Write(ptr, src)
}
