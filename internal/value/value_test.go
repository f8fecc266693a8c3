package value

import "testing"

func TestKindCodesAreStable(t *testing.T) {
	cases := []struct {
		v    Value
		want Kind
	}{
		{Null, KindNull},
		{NewInt(1), KindInt},
		{NewFloat(1), KindFloat},
		{NewString("x"), KindString},
		{NewBool(true), KindBool},
		{NewArray(nil), KindArray},
		{NewObject(nil), KindObject},
		{NewDate(1), KindDate},
		{NewNode(), KindNode},
		{NewUnknown(), KindUnknown},
		{NewManga(Manga{ID: "a"}), KindObject},
		{NewChapter(Chapter{ID: "a"}), KindObject},
		{NewFilter(Filter{}), KindObject},
	}
	for _, tc := range cases {
		if got := tc.v.Kind(); got != tc.want {
			t.Errorf("Kind() = %d, want %d", got, tc.want)
		}
	}
}

func TestCoercions(t *testing.T) {
	if i, ok := NewFloat(3.7).AsInt(); !ok || i != 3 {
		t.Errorf("Float.AsInt() = %d,%v want 3,true", i, ok)
	}
	if i, ok := NewBool(true).AsInt(); !ok || i != 1 {
		t.Errorf("Bool.AsInt() = %d,%v want 1,true", i, ok)
	}
	if f, ok := NewInt(4).AsFloat(); !ok || f != 4 {
		t.Errorf("Int.AsFloat() = %v,%v want 4,true", f, ok)
	}
	if b, ok := NewInt(0).AsBool(); !ok || b {
		t.Errorf("Int(0).AsBool() = %v,%v want false,true", b, ok)
	}
	if _, ok := NewString("x").AsInt(); ok {
		t.Errorf("String.AsInt() should fail")
	}
}

func TestObjectGetSetRoundTrip(t *testing.T) {
	obj := NewObject(nil)
	obj, ok := obj.ObjectSet("id", NewString("a"))
	if !ok {
		t.Fatal("ObjectSet failed")
	}
	got, ok := obj.Get("id")
	if !ok {
		t.Fatal("Get(id) missing")
	}
	if s, _ := got.AsString(); s != "a" {
		t.Errorf("got %q want a", s)
	}
	if _, ok := obj.Get("missing"); ok {
		t.Error("Get(missing) should fail")
	}
}

func TestArrayOperations(t *testing.T) {
	arr := NewArray(nil)
	arr, ok := arr.ArrayAppend(NewInt(1))
	if !ok {
		t.Fatal("append failed")
	}
	arr, ok = arr.ArrayAppend(NewInt(2))
	if !ok {
		t.Fatal("append failed")
	}
	if arr.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", arr.Len())
	}
	if _, ok := arr.ArrayIndex(5); ok {
		t.Error("out-of-range ArrayIndex should fail")
	}
	v, ok := arr.ArrayIndex(1)
	if !ok {
		t.Fatal("ArrayIndex(1) failed")
	}
	if i, _ := v.AsInt(); i != 2 {
		t.Errorf("ArrayIndex(1) = %d, want 2", i)
	}
	removed, ok := arr.ArrayRemove(0)
	if !ok || removed.Len() != 1 {
		t.Fatalf("ArrayRemove failed: %v %v", removed, ok)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	original := NewObject(map[string]Value{"a": NewInt(1)})
	cloned := original.Clone()

	mutated, ok := cloned.ObjectSet("b", NewInt(2))
	if !ok {
		t.Fatal("ObjectSet failed")
	}
	if mutated.Len() == original.Len() {
		t.Fatal("mutating the clone's result should not match the original's length")
	}
	if _, ok := original.Get("b"); ok {
		t.Error("mutating a clone must not affect the original")
	}
}

func TestMangaKeyAccessor(t *testing.T) {
	m := Manga{ID: "a"}
	got, ok := m.Get("id")
	if !ok {
		t.Fatal("Get(id) missing")
	}
	if s, _ := got.AsString(); s != "a" {
		t.Errorf("id = %q, want a", s)
	}
	if _, ok := m.Get("title"); ok {
		t.Error("unset optional field should be absent")
	}
	if _, ok := m.Get("nonexistent"); ok {
		t.Error("unknown key should be absent")
	}
}

func TestChapterSentinels(t *testing.T) {
	c := Chapter{ID: "c1"}
	if _, ok := c.Get("volume"); ok {
		t.Error("unset volume should be absent")
	}
	chNum := float32(2.5)
	c.ChapterNum = &chNum
	v, ok := c.Get("chapter")
	if !ok {
		t.Fatal("chapter should be present")
	}
	if f, _ := v.AsFloat(); f != 2.5 {
		t.Errorf("chapter = %v, want 2.5", f)
	}
}
