package stdimport

import (
	"testing"
	"time"
)

func TestTranslateToStrftime(t *testing.T) {
	got := TranslateToStrftime("yyyy-MM-dd HH:mm:ss")
	want := "%Y-%m-%d %H:%M:%S"
	if got != want {
		t.Errorf("TranslateToStrftime() = %q, want %q", got, want)
	}
}

func TestTranslateToStrftimeLongestTokenFirst(t *testing.T) {
	// "d" is a prefix of "dd"; a naive scan matching "d" first would
	// consume "dd" as two single-day tokens instead of one (spec §6:
	// "replacement order matters").
	got := TranslateToStrftime("dd")
	if got != "%d" {
		t.Errorf("TranslateToStrftime(dd) = %q, want %%d", got)
	}

	got = TranslateToStrftime("d/dd")
	if got != "%d/%d" {
		t.Errorf("TranslateToStrftime(d/dd) = %q, want %%d/%%d", got)
	}
}

func TestGoLayoutFromABIParsesDate(t *testing.T) {
	layout := GoLayoutFromABI("yyyy-MM-dd")
	parsed, err := time.Parse(layout, "2024-05-07")
	if err != nil {
		t.Fatalf("time.Parse(%q, ...) error: %v", layout, err)
	}
	if got, want := parsed.UTC().Unix(), int64(1715040000); got != want {
		t.Errorf("epoch = %d, want %d", got, want)
	}
}
