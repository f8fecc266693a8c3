package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aidoku-host/aidoku-host/internal/descriptor"
	"github.com/aidoku-host/aidoku-host/internal/hostlog"
	"github.com/aidoku-host/aidoku-host/internal/value"
)

// fakeInstance stands in for a real wazero-backed engine.Instance in
// driver unit tests, the same role the teacher's fake ProcessRunner
// plays for exec.Cmd in session manager tests.
type fakeInstance struct {
	exports map[string]func(args []int32) []int32
}

func newFakeInstance() *fakeInstance {
	return &fakeInstance{exports: make(map[string]func(args []int32) []int32)}
}

func (f *fakeInstance) HasExport(name string) bool {
	_, ok := f.exports[name]
	return ok
}

func (f *fakeInstance) Call(ctx context.Context, name string, args ...int32) (results []int32, err error) {
	fn, ok := f.exports[name]
	if !ok {
		return nil, errExportMissing(name)
	}
	// A panic inside a fake export stands in for a guest trap, which the
	// real engine reports as an error from Call.
	defer func() {
		if r := recover(); r != nil {
			results, err = nil, fmt.Errorf("guest trap: %v", r)
		}
	}()
	return fn(args), nil
}

type errExportMissing string

func (e errExportMissing) Error() string { return "export missing: " + string(e) }

func newDriver(inst *fakeInstance) (*Driver, *descriptor.Table) {
	values := descriptor.New()
	return New(inst, values, hostlog.New()), values
}

func TestGetMangaListEmptyFilters(t *testing.T) {
	inst := newFakeInstance()
	driver, values := newDriver(inst)

	inst.exports["get_manga_list"] = func(args []int32) []int32 {
		if args[0] != descriptor.NoDescriptor {
			t.Errorf("filter_d = %d, want %d for empty filters", args[0], descriptor.NoDescriptor)
		}
		result := value.NewMangaResult(value.MangaResult{
			Manga:   []value.Manga{{ID: "a", Title: strPtr("T")}},
			HasMore: false,
		})
		return []int32{values.Allocate(result)}
	}

	sizeBefore := values.Len()
	result, ok := driver.GetMangaList(context.Background(), nil, 1)
	if !ok {
		t.Fatal("GetMangaList failed")
	}
	if len(result.Manga) != 1 || result.Manga[0].ID != "a" {
		t.Errorf("unexpected result: %+v", result)
	}
	if values.Len() != sizeBefore {
		t.Errorf("descriptor leak: table size %d, want %d", values.Len(), sizeBefore)
	}
}

func TestGetMangaListWithFiltersAllocatesDescriptor(t *testing.T) {
	inst := newFakeInstance()
	driver, values := newDriver(inst)

	inst.exports["get_manga_list"] = func(args []int32) []int32 {
		filterD := args[0]
		if filterD == descriptor.NoDescriptor {
			t.Fatal("expected a real filter descriptor")
		}
		v, ok := values.Read(filterD)
		if !ok {
			t.Fatal("filter descriptor not found")
		}
		items, _ := v.AsArray()
		if len(items) != 1 {
			t.Fatalf("expected 1 filter, got %d", len(items))
		}
		val, _ := items[0].Get("value")
		if s, _ := val.AsString(); s != "1" {
			t.Errorf("filter value = %q, want \"1\"", s)
		}
		return []int32{values.Allocate(value.NewMangaResult(value.MangaResult{}))}
	}

	filters := []value.Filter{{Kind: value.FilterTypeTitle, Name: "Title", Value: value.NewString("1")}}
	sizeBefore := values.Len()
	if _, ok := driver.GetMangaList(context.Background(), filters, 1); !ok {
		t.Fatal("GetMangaList failed")
	}
	if values.Len() != sizeBefore {
		t.Errorf("descriptor leak: table size %d, want %d", values.Len(), sizeBefore)
	}
}

func TestGetChapterListFiltersNonChapterEntries(t *testing.T) {
	inst := newFakeInstance()
	driver, values := newDriver(inst)

	inst.exports["get_chapter_list"] = func(args []int32) []int32 {
		arr := value.NewArray([]value.Value{
			value.NewChapter(value.Chapter{ID: "1"}),
			value.NewInt(7),
			value.NewChapter(value.Chapter{ID: "2"}),
		})
		return []int32{values.Allocate(arr)}
	}

	chapters, ok := driver.GetChapterList(context.Background(), value.Manga{ID: "m"})
	if !ok {
		t.Fatal("GetChapterList failed")
	}
	if len(chapters) != 2 {
		t.Fatalf("got %d chapters, want 2", len(chapters))
	}
	if chapters[0].ID != "1" || chapters[1].ID != "2" {
		t.Errorf("chapter order not preserved: %+v", chapters)
	}
}

func TestMissingOptionalExportReturnsFalse(t *testing.T) {
	inst := newFakeInstance()
	driver, values := newDriver(inst)

	sizeBefore := values.Len()
	if _, ok := driver.GetMangaDetails(context.Background(), value.Manga{ID: "m"}); ok {
		t.Error("GetMangaDetails should fail when export absent")
	}
	if values.Len() != sizeBefore {
		t.Errorf("descriptor leak on missing export: table size %d, want %d", values.Len(), sizeBefore)
	}
}

func TestGuestFaultStillFreesDriverAllocatedDescriptors(t *testing.T) {
	inst := newFakeInstance()
	driver, values := newDriver(inst)
	inst.exports["get_manga_details"] = func(args []int32) []int32 {
		panic("simulated guest trap")
	}

	sizeBefore := values.Len()
	if _, ok := driver.GetMangaDetails(context.Background(), value.Manga{ID: "m"}); ok {
		t.Fatal("expected failure")
	}
	if values.Len() != sizeBefore {
		t.Errorf("descriptor leak: table size %d, want %d", values.Len(), sizeBefore)
	}
}

func strPtr(s string) *string { return &s }
