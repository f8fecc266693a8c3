package descriptor

import (
	"testing"

	"github.com/aidoku-host/aidoku-host/internal/value"
)

func TestAllocateIsMonotonicAndNeverReused(t *testing.T) {
	tbl := New()
	ids := make([]int32, 5)
	for i := range ids {
		ids[i] = tbl.Allocate(value.NewInt(int64(i)))
	}
	for i, id := range ids {
		if id != int32(i) {
			t.Fatalf("Allocate()[%d] = %d, want %d", i, id, i)
		}
	}
	tbl.Remove(2)
	next := tbl.Allocate(value.NewInt(99))
	if next != 5 {
		t.Fatalf("Allocate after Remove(2) = %d, want 5 (no reuse)", next)
	}
}

func TestReadMissingReturnsFalse(t *testing.T) {
	tbl := New()
	if _, ok := tbl.Read(42); ok {
		t.Error("Read of unallocated id should return false")
	}
}

func TestRemoveIsNoOpForUnknown(t *testing.T) {
	tbl := New()
	tbl.Remove(42) // must not panic
	if tbl.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tbl.Len())
	}
}

func TestCloneProducesFreshDescriptor(t *testing.T) {
	tbl := New()
	id := tbl.Allocate(value.NewObject(map[string]value.Value{"a": value.NewInt(1)}))
	cloneID := tbl.Clone(id)
	if cloneID == id {
		t.Fatal("Clone must return a different descriptor")
	}
	if cloneID == NoDescriptor {
		t.Fatal("Clone of a live descriptor should not fail")
	}

	original, _ := tbl.Read(id)
	mutated, _ := original.ObjectSet("b", value.NewInt(2))
	tbl.Replace(id, mutated)

	clonedVal, _ := tbl.Read(cloneID)
	if _, ok := clonedVal.Get("b"); ok {
		t.Error("mutating the original after Clone must not affect the clone")
	}
}

func TestCloneOfMissingReturnsNoDescriptor(t *testing.T) {
	tbl := New()
	if id := tbl.Clone(7); id != NoDescriptor {
		t.Errorf("Clone(missing) = %d, want %d", id, NoDescriptor)
	}
}

func TestReplaceNoOpOnUnallocated(t *testing.T) {
	tbl := New()
	tbl.Replace(3, value.NewInt(1))
	if _, ok := tbl.Read(3); ok {
		t.Error("Replace on an unallocated id should not allocate it")
	}
}
