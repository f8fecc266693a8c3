package jsonimport

import "testing"

func TestParseScalars(t *testing.T) {
	cases := []struct {
		in string
	}{
		{`null`}, {`true`}, {`false`}, {`42`}, {`3.14`}, {`"hi"`},
	}
	for _, tc := range cases {
		if _, err := Parse([]byte(tc.in)); err != nil {
			t.Errorf("Parse(%q) error: %v", tc.in, err)
		}
	}
}

func TestParseIntVsFloat(t *testing.T) {
	v, err := Parse([]byte(`42`))
	if err != nil {
		t.Fatal(err)
	}
	if i, ok := v.AsInt(); !ok || i != 42 {
		t.Errorf("42 should parse as Int(42), got %v ok=%v", i, ok)
	}

	v, err = Parse([]byte(`3.5`))
	if err != nil {
		t.Fatal(err)
	}
	if f, ok := v.AsFloat(); !ok || f != 3.5 {
		t.Errorf("3.5 should parse as Float(3.5), got %v ok=%v", f, ok)
	}
}

func TestParseObjectAndArray(t *testing.T) {
	v, err := Parse([]byte(`{"a": 1, "b": [1, 2, 3], "c": {"nested": true}}`))
	if err != nil {
		t.Fatal(err)
	}
	a, ok := v.Get("a")
	if !ok {
		t.Fatal("missing key a")
	}
	if i, _ := a.AsInt(); i != 1 {
		t.Errorf("a = %d, want 1", i)
	}
	b, ok := v.Get("b")
	if !ok || b.Len() != 3 {
		t.Fatalf("b missing or wrong length: %v ok=%v", b, ok)
	}
	c, ok := v.Get("c")
	if !ok {
		t.Fatal("missing key c")
	}
	nested, ok := c.Get("nested")
	if !ok {
		t.Fatal("missing nested.nested")
	}
	if b2, _ := nested.AsBool(); !b2 {
		t.Error("nested should be true")
	}
}

func TestParseMalformedReturnsError(t *testing.T) {
	if _, err := Parse([]byte(`{not valid json`)); err == nil {
		t.Error("expected an error for malformed JSON")
	}
	if _, err := Parse([]byte(``)); err == nil {
		t.Error("expected an error for empty input")
	}
}
