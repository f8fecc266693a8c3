package value

import (
	"encoding/json"
	"testing"
)

func TestMarshalJSONScalars(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Null, "null"},
		{NewInt(42), "42"},
		{NewBool(true), "true"},
		{NewString("hi\"there"), `"hi\"there"`},
	}
	for _, tc := range cases {
		got, err := tc.v.MarshalJSON()
		if err != nil {
			t.Fatalf("MarshalJSON: %v", err)
		}
		if string(got) != tc.want {
			t.Errorf("MarshalJSON(%+v) = %s, want %s", tc.v, got, tc.want)
		}
	}
}

func TestMarshalJSONArrayAndObject(t *testing.T) {
	v := NewArray([]Value{NewInt(1), NewString("a"), NewBool(false)})
	raw, err := v.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	var decoded []any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode: %v, raw=%s", err, raw)
	}
	if len(decoded) != 3 {
		t.Fatalf("decoded len = %d, want 3", len(decoded))
	}

	obj := NewObject(map[string]Value{"k": NewInt(7)})
	raw, err = obj.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	var decodedObj map[string]any
	if err := json.Unmarshal(raw, &decodedObj); err != nil {
		t.Fatalf("decode: %v, raw=%s", err, raw)
	}
	if decodedObj["k"].(float64) != 7 {
		t.Errorf("k = %v, want 7", decodedObj["k"])
	}
}

func TestMarshalJSONMangaRecord(t *testing.T) {
	title := "Title"
	m := NewManga(Manga{ID: "m1", Title: &title, Categories: []string{"action"}, Status: MangaStatusOngoing})
	raw, err := m.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode: %v, raw=%s", err, raw)
	}
	if decoded["id"] != "m1" {
		t.Errorf("id = %v, want m1", decoded["id"])
	}
	if decoded["title"] != "Title" {
		t.Errorf("title = %v, want Title", decoded["title"])
	}
	cats, ok := decoded["categories"].([]any)
	if !ok || len(cats) != 1 || cats[0] != "action" {
		t.Errorf("categories = %v", decoded["categories"])
	}
	// description was never set (nil pointer), so it must be omitted entirely.
	if _, present := decoded["description"]; present {
		t.Error("description should be omitted when nil")
	}
}
