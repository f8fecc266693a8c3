package value

// Chapter is a single chapter record (spec §3.2). Volume and Chapter use
// a nil pointer to mean "absent" at the Go level; create_chapter maps the
// wire sentinels (negative volume/chapter, non-positive date_uploaded)
// into these nil pointers once, so the rest of the host never has to
// re-check sentinel values.
type Chapter struct {
	ID           string
	Title        *string
	Scanlator    *string
	URL          *string
	Lang         *string
	Volume       *float32
	ChapterNum   *float32
	DateUploaded *float64
}

func (c *Chapter) Get(key string) (Value, bool) {
	switch key {
	case "id":
		return NewString(c.ID), true
	case "title":
		return optionalString(c.Title)
	case "scanlator":
		return optionalString(c.Scanlator)
	case "url":
		return optionalString(c.URL)
	case "lang":
		return optionalString(c.Lang)
	case "volume":
		if c.Volume == nil {
			return Null, false
		}
		return NewFloat(float64(*c.Volume)), true
	case "chapter":
		if c.ChapterNum == nil {
			return Null, false
		}
		return NewFloat(float64(*c.ChapterNum)), true
	case "date_uploaded":
		if c.DateUploaded == nil {
			return Null, false
		}
		return NewDate(*c.DateUploaded), true
	default:
		return Null, false
	}
}

// Page is a single page record (spec §3.2).
type Page struct {
	Index    int32
	ImageURL *string
	Base64   *string
	Text     *string
}

func (p *Page) Get(key string) (Value, bool) {
	switch key {
	case "index":
		return NewInt(int64(p.Index)), true
	case "image_url":
		return optionalString(p.ImageURL)
	case "base64":
		return optionalString(p.Base64)
	case "text":
		return optionalString(p.Text)
	default:
		return Null, false
	}
}

// FilterType enumerates the filter kinds a source can declare (spec §3.2).
type FilterType int32

const (
	FilterTypeBase FilterType = iota
	FilterTypeGroup
	FilterTypeText
	FilterTypeCheck
	FilterTypeSelect
	FilterTypeSort
	FilterTypeSortSelection
	FilterTypeTitle
	FilterTypeAuthor
	FilterTypeGenre
)

// Filter is a single search/listing filter (spec §3.2). Its minimum
// required accessors are type, name, and value.
type Filter struct {
	Kind  FilterType
	Name  string
	Value Value
}

func (f *Filter) Get(key string) (Value, bool) {
	switch key {
	case "type":
		return NewInt(int64(f.Kind)), true
	case "name":
		return NewString(f.Name), true
	case "value":
		return f.Value, true
	default:
		return Null, false
	}
}

// Listing names a browsable category a source exposes (e.g. "Popular",
// "Latest"); spec §3.2.
type Listing struct {
	Name string
}

func (l *Listing) Get(key string) (Value, bool) {
	if key == "name" {
		return NewString(l.Name), true
	}
	return Null, false
}

// DeepLink resolves a source URL to either a Manga or a Chapter (spec
// §3.2, populated by handle_url).
type DeepLink struct {
	Manga   *Manga
	Chapter *Chapter
}

func (d *DeepLink) Get(key string) (Value, bool) {
	switch key {
	case "manga":
		if d.Manga == nil {
			return Null, false
		}
		return NewManga(*d.Manga), true
	case "chapter":
		if d.Chapter == nil {
			return Null, false
		}
		return NewChapter(*d.Chapter), true
	default:
		return Null, false
	}
}
