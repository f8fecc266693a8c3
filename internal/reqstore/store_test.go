package reqstore

import "testing"

func TestMethodFromCode(t *testing.T) {
	cases := []struct {
		code int32
		want Method
	}{
		{0, MethodGet},
		{1, MethodPost},
		{2, MethodHead},
		{3, MethodPut},
		{4, MethodDelete},
		{99, MethodGet}, // unrecognized -> default GET, per spec §4.4.4
	}
	for _, tc := range cases {
		if got := MethodFromCode(tc.code); got != tc.want {
			t.Errorf("MethodFromCode(%d) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestInitCursorIsMonotonic(t *testing.T) {
	s := New()
	a := s.Init(MethodGet)
	b := s.Init(MethodPost)
	if a != 0 || b != 1 {
		t.Fatalf("Init() sequence = %d,%d want 0,1", a, b)
	}
}

func TestMutateAndGet(t *testing.T) {
	s := New()
	id := s.Init(MethodPost)
	url := "https://example.com"
	s.Mutate(id, func(r *Request) { r.URL = &url })

	got, ok := s.Get(id)
	if !ok {
		t.Fatal("Get failed after Mutate")
	}
	if got.URL == nil || *got.URL != url {
		t.Errorf("URL = %v, want %q", got.URL, url)
	}
}

func TestMutateNoOpOnMissing(t *testing.T) {
	s := New()
	s.Mutate(42, func(r *Request) { t.Fatal("fn should not run for a missing id") })
}

func TestHeaderLastWriteWins(t *testing.T) {
	s := New()
	id := s.Init(MethodGet)
	v1, v2 := "first", "second"
	s.Mutate(id, func(r *Request) { r.Headers["K"] = &v1 })
	s.Mutate(id, func(r *Request) { r.Headers["K"] = &v2 })

	got, _ := s.Get(id)
	if got.Headers["K"] == nil || *got.Headers["K"] != "second" {
		t.Errorf("Headers[K] = %v, want \"second\"", got.Headers["K"])
	}
}

func TestRemove(t *testing.T) {
	s := New()
	id := s.Init(MethodGet)
	s.Remove(id)
	if _, ok := s.Get(id); ok {
		t.Error("Get after Remove should fail")
	}
	s.Remove(id) // no-op, must not panic
}
