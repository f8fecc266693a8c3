// Package descriptor implements the monotonic-id value heap the guest
// addresses by i32 handle (spec §3.3, §4.1). Its shape is grounded on the
// teacher's internal/hub.Hub: a small mutex-protected map keyed by an
// integer id, adapted here to the ABI's specific cursor and clone
// semantics rather than hub's pub/sub fan-out.
package descriptor

import (
	"sync"

	"github.com/aidoku-host/aidoku-host/internal/value"
)

// NoDescriptor is the sentinel (-1) for "no descriptor" or "failure"
// (spec §3.3, §6).
const NoDescriptor int32 = -1

// Table is the descriptor → Value heap for one session. The cursor is
// monotonic for the session's lifetime: remove deletes an entry but
// never lets a future allocate reuse its id (invariant §3.3/§3.5).
type Table struct {
	mu     sync.Mutex
	cursor int32
	values map[int32]value.Value
}

// New returns an empty Table with the cursor initialized so the first
// Allocate returns 0 (spec §3.3).
func New() *Table {
	return &Table{
		cursor: -1,
		values: make(map[int32]value.Value),
	}
}

// Allocate stores v under a freshly minted descriptor and returns it.
func (t *Table) Allocate(v value.Value) int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cursor++
	id := t.cursor
	t.values[id] = v
	return id
}

// Read returns the value at id, or (Null, false) if id is unallocated or
// already removed.
func (t *Table) Read(id int32) (value.Value, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.values[id]
	return v, ok
}

// Replace overwrites the value at an existing descriptor in place
// (object_set/array_append/array_set mutate by replacing the whole
// value, since Value is copied by value throughout this package).
// It is a no-op if id is not currently allocated.
func (t *Table) Replace(id int32, v value.Value) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.values[id]; !ok {
		return
	}
	t.values[id] = v
}

// Remove deletes id from the table. Removing an unallocated id is a
// no-op (spec §4.1).
func (t *Table) Remove(id int32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.values, id)
}

// Len reports the number of live descriptors, used by tests asserting
// the scoped-cleanup invariant (spec §8 property 6: table size unchanged
// across a driver call).
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.values)
}

// Clone allocates a deep copy of the value at id and returns its new
// descriptor, or NoDescriptor if id is absent (std.copy, spec §4.2).
func (t *Table) Clone(id int32) int32 {
	t.mu.Lock()
	v, ok := t.values[id]
	if !ok {
		t.mu.Unlock()
		return NoDescriptor
	}
	cloned := v.Clone()
	t.cursor++
	newID := t.cursor
	t.values[newID] = cloned
	t.mu.Unlock()
	return newID
}
