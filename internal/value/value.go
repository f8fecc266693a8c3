// Package value implements the host-side typed value graph the plugin ABI
// exchanges with guest descriptors: primitives, arrays, maps, and the
// domain-record embeddings (Manga, Chapter, Page, Filter, Listing,
// DeepLink, MangaResult).
package value

// Kind is the wire-level variant tag exposed to the guest through
// std.typeof. It is a separate, narrower space than Variant: every
// domain-record embedding reports KindObject regardless of its internal
// Variant, per the ABI's "domain records are object-equivalent" contract.
type Kind int32

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindString
	KindBool
	KindArray
	KindObject
	KindDate
	KindNode
	KindUnknown
)

// Variant is the internal discriminator, richer than Kind, that lets the
// session driver and host imports tell a Manga apart from a MangaResult
// even though both report KindObject on the wire.
type Variant uint8

const (
	VariantNull Variant = iota
	VariantInt
	VariantFloat
	VariantString
	VariantBool
	VariantArray
	VariantObject
	VariantDate
	VariantNode
	VariantUnknown
	VariantManga
	VariantMangaResult
	VariantChapter
	VariantPage
	VariantFilter
	VariantListing
	VariantDeepLink
)

// Record is the key-accessor protocol (spec §4.5 / §9): a domain
// embedding knows how to answer object_get by name without being a real
// map. Every domain record type in this package implements it.
type Record interface {
	Get(key string) (Value, bool)
}

// Value is exactly one of the variants in Variant, carried by value
// (never by reference) so that copy/object_get/array_get can hand out
// clones without ever constructing a cycle (spec §9).
type Value struct {
	variant Variant

	i   int64
	f   float64
	s   string
	b   bool
	arr []Value
	obj map[string]Value

	manga       *Manga
	mangaResult *MangaResult
	chapter     *Chapter
	page        *Page
	filter      *Filter
	listing     *Listing
	deepLink    *DeepLink
}

// Null is the zero Value.
var Null = Value{variant: VariantNull}

func NewInt(v int64) Value     { return Value{variant: VariantInt, i: v} }
func NewFloat(v float64) Value { return Value{variant: VariantFloat, f: v} }
func NewBool(v bool) Value     { return Value{variant: VariantBool, b: v} }
func NewString(v string) Value { return Value{variant: VariantString, s: v} }
func NewDate(epochSeconds float64) Value {
	return Value{variant: VariantDate, f: epochSeconds}
}
func NewUnknown() Value { return Value{variant: VariantUnknown} }
func NewNode() Value    { return Value{variant: VariantNode} }

// NewArray takes ownership of items; callers must not mutate the slice
// afterward. Use Clone to make an independent copy.
func NewArray(items []Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{variant: VariantArray, arr: items}
}

// NewObject takes ownership of m; callers must not mutate it afterward.
func NewObject(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{variant: VariantObject, obj: m}
}

func NewManga(m Manga) Value             { return Value{variant: VariantManga, manga: &m} }
func NewMangaResult(r MangaResult) Value { return Value{variant: VariantMangaResult, mangaResult: &r} }
func NewChapter(c Chapter) Value         { return Value{variant: VariantChapter, chapter: &c} }
func NewPage(p Page) Value               { return Value{variant: VariantPage, page: &p} }
func NewFilter(f Filter) Value           { return Value{variant: VariantFilter, filter: &f} }
func NewListing(l Listing) Value         { return Value{variant: VariantListing, listing: &l} }
func NewDeepLink(d DeepLink) Value       { return Value{variant: VariantDeepLink, deepLink: &d} }

// Variant returns the internal discriminator.
func (v Value) Variant() Variant { return v.variant }

// Kind returns the wire-level kind code (spec §3.1). Deterministic and
// total, per invariant §3.5.
func (v Value) Kind() Kind {
	switch v.variant {
	case VariantNull:
		return KindNull
	case VariantInt:
		return KindInt
	case VariantFloat:
		return KindFloat
	case VariantString:
		return KindString
	case VariantBool:
		return KindBool
	case VariantArray:
		return KindArray
	case VariantObject:
		return KindObject
	case VariantDate:
		return KindDate
	case VariantNode:
		return KindNode
	case VariantUnknown:
		return KindUnknown
	default:
		// Manga, MangaResult, Chapter, Page, Filter, Listing, DeepLink.
		return KindObject
	}
}

// IsMapLike reports whether object_get should treat v as map-shaped: a
// real Object or a domain record exposing the key-accessor protocol.
// object_len, object_set and object_values accept only a real Object.
func (v Value) IsMapLike() bool {
	switch v.variant {
	case VariantObject, VariantManga, VariantFilter, VariantChapter,
		VariantPage, VariantMangaResult, VariantListing, VariantDeepLink:
		return true
	default:
		return false
	}
}

// Get implements the key-accessor protocol for whichever shape v holds.
// ok is false if v is not map-like or the key is absent.
func (v Value) Get(key string) (Value, bool) {
	switch v.variant {
	case VariantObject:
		val, ok := v.obj[key]
		return val, ok
	case VariantManga:
		return v.manga.Get(key)
	case VariantFilter:
		return v.filter.Get(key)
	case VariantChapter:
		return v.chapter.Get(key)
	case VariantPage:
		return v.page.Get(key)
	case VariantMangaResult:
		return v.mangaResult.Get(key)
	case VariantListing:
		return v.listing.Get(key)
	case VariantDeepLink:
		return v.deepLink.Get(key)
	default:
		return Null, false
	}
}

// Len returns the map/array size, or 0 for any other shape (object_len,
// array_len both route through here with a pre-check on Variant).
func (v Value) Len() int {
	switch v.variant {
	case VariantArray:
		return len(v.arr)
	case VariantObject:
		return len(v.obj)
	default:
		return 0
	}
}

// ArrayIndex returns the element at idx, or (Null, false) if v is not an
// Array or idx is out of range.
func (v Value) ArrayIndex(idx int) (Value, bool) {
	if v.variant != VariantArray || idx < 0 || idx >= len(v.arr) {
		return Null, false
	}
	return v.arr[idx], true
}

// ArrayAppend returns a new Array Value with elem appended. ok is false
// if v is not an Array.
func (v Value) ArrayAppend(elem Value) (Value, bool) {
	if v.variant != VariantArray {
		return v, false
	}
	next := make([]Value, len(v.arr), len(v.arr)+1)
	copy(next, v.arr)
	next = append(next, elem)
	return Value{variant: VariantArray, arr: next}, true
}

// ArraySet returns a new Array Value with the element at idx replaced.
// ok is false if v is not an Array or idx is out of range.
func (v Value) ArraySet(idx int, elem Value) (Value, bool) {
	if v.variant != VariantArray || idx < 0 || idx >= len(v.arr) {
		return v, false
	}
	next := make([]Value, len(v.arr))
	copy(next, v.arr)
	next[idx] = elem
	return Value{variant: VariantArray, arr: next}, true
}

// ArrayRemove returns a new Array Value with the element at idx deleted.
// ok is false if v is not an Array or idx is out of range.
func (v Value) ArrayRemove(idx int) (Value, bool) {
	if v.variant != VariantArray || idx < 0 || idx >= len(v.arr) {
		return v, false
	}
	next := make([]Value, 0, len(v.arr)-1)
	next = append(next, v.arr[:idx]...)
	next = append(next, v.arr[idx+1:]...)
	return Value{variant: VariantArray, arr: next}, true
}

// ObjectSet returns a new Object Value with key bound to val. ok is false
// if v is not a real Object (domain records are read-only through this API).
func (v Value) ObjectSet(key string, val Value) (Value, bool) {
	if v.variant != VariantObject {
		return v, false
	}
	next := make(map[string]Value, len(v.obj)+1)
	for k, existing := range v.obj {
		next[k] = existing
	}
	next[key] = val
	return Value{variant: VariantObject, obj: next}, true
}

// ObjectValues returns the map's values as a slice, in unspecified order
// (spec §9 Open Question). ok is false if v is not an Object.
func (v Value) ObjectValues() ([]Value, bool) {
	if v.variant != VariantObject {
		return nil, false
	}
	out := make([]Value, 0, len(v.obj))
	for _, val := range v.obj {
		out = append(out, val)
	}
	return out, true
}

// AsInt coerces Int/Float/Bool to int64 per std.read_int's documented
// coercion; ok is false for any other shape.
func (v Value) AsInt() (int64, bool) {
	switch v.variant {
	case VariantInt:
		return v.i, true
	case VariantFloat:
		return int64(v.f), true
	case VariantBool:
		if v.b {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// AsFloat coerces Float/Int to float64 per std.read_float.
func (v Value) AsFloat() (float64, bool) {
	switch v.variant {
	case VariantFloat:
		return v.f, true
	case VariantInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// AsBool coerces Bool/Int per std.read_bool.
func (v Value) AsBool() (bool, bool) {
	switch v.variant {
	case VariantBool:
		return v.b, true
	case VariantInt:
		return v.i != 0, true
	default:
		return false, false
	}
}

// AsDate coerces Date/Float per std.read_date.
func (v Value) AsDate() (float64, bool) {
	switch v.variant {
	case VariantDate:
		return v.f, true
	case VariantFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// AsString returns the underlying string only for an exact String shape.
func (v Value) AsString() (string, bool) {
	if v.variant != VariantString {
		return "", false
	}
	return v.s, true
}

// StringByteLen returns the UTF-8 byte length for a String, else 0.
func (v Value) StringByteLen() int {
	if v.variant != VariantString {
		return 0
	}
	return len(v.s)
}

// AsManga, AsMangaResult, AsChapter, AsPage, AsFilter, AsListing, and
// AsDeepLink expose the typed domain record when v holds exactly that
// variant; used by the session driver to validate guest return values.

func (v Value) AsManga() (Manga, bool) {
	if v.variant != VariantManga {
		return Manga{}, false
	}
	return *v.manga, true
}

func (v Value) AsMangaResult() (MangaResult, bool) {
	if v.variant != VariantMangaResult {
		return MangaResult{}, false
	}
	return *v.mangaResult, true
}

func (v Value) AsChapter() (Chapter, bool) {
	if v.variant != VariantChapter {
		return Chapter{}, false
	}
	return *v.chapter, true
}

func (v Value) AsPage() (Page, bool) {
	if v.variant != VariantPage {
		return Page{}, false
	}
	return *v.page, true
}

func (v Value) AsFilter() (Filter, bool) {
	if v.variant != VariantFilter {
		return Filter{}, false
	}
	return *v.filter, true
}

func (v Value) AsArray() ([]Value, bool) {
	if v.variant != VariantArray {
		return nil, false
	}
	return v.arr, true
}

func (v Value) AsDeepLink() (DeepLink, bool) {
	if v.variant != VariantDeepLink {
		return DeepLink{}, false
	}
	return *v.deepLink, true
}

// Clone deep-copies v so that std.copy, object_get, and array_get always
// hand the guest a fresh descriptor rather than an alias (invariant §3.5).
func (v Value) Clone() Value {
	switch v.variant {
	case VariantArray:
		cloned := make([]Value, len(v.arr))
		for i, elem := range v.arr {
			cloned[i] = elem.Clone()
		}
		return Value{variant: VariantArray, arr: cloned}
	case VariantObject:
		cloned := make(map[string]Value, len(v.obj))
		for k, elem := range v.obj {
			cloned[k] = elem.Clone()
		}
		return Value{variant: VariantObject, obj: cloned}
	case VariantManga:
		m := *v.manga
		m.Categories = append([]string(nil), v.manga.Categories...)
		return Value{variant: VariantManga, manga: &m}
	case VariantMangaResult:
		r := *v.mangaResult
		r.Manga = append([]Manga(nil), v.mangaResult.Manga...)
		for i := range r.Manga {
			r.Manga[i].Categories = append([]string(nil), r.Manga[i].Categories...)
		}
		return Value{variant: VariantMangaResult, mangaResult: &r}
	case VariantChapter:
		c := *v.chapter
		return Value{variant: VariantChapter, chapter: &c}
	case VariantPage:
		p := *v.page
		return Value{variant: VariantPage, page: &p}
	case VariantFilter:
		f := *v.filter
		fv := v.filter.Value.Clone()
		f.Value = fv
		return Value{variant: VariantFilter, filter: &f}
	case VariantListing:
		l := *v.listing
		return Value{variant: VariantListing, listing: &l}
	case VariantDeepLink:
		d := *v.deepLink
		return Value{variant: VariantDeepLink, deepLink: &d}
	default:
		return v
	}
}
