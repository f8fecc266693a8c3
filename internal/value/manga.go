package value

// MangaStatus is the publication-status enum (spec §3.2).
type MangaStatus int32

const (
	MangaStatusUnknown MangaStatus = iota
	MangaStatusOngoing
	MangaStatusCompleted
	MangaStatusCancelled
	MangaStatusHiatus
)

// MangaContentRating is the nsfw enum (spec §3.2).
type MangaContentRating int32

const (
	MangaContentRatingSafe MangaContentRating = iota
	MangaContentRatingSuggestive
	MangaContentRatingNsfw
)

// MangaViewer is the reading-direction enum (spec §3.2). Its zero value
// is intentionally not a valid member: the wire encodes Rtl as 1.
type MangaViewer int32

const (
	MangaViewerRtl MangaViewer = iota + 1
	MangaViewerLtr
	MangaViewerVertical
	MangaViewerScroll
)

func MangaStatusFromInt(v int32) MangaStatus {
	switch v {
	case 1:
		return MangaStatusOngoing
	case 2:
		return MangaStatusCompleted
	case 3:
		return MangaStatusCancelled
	case 4:
		return MangaStatusHiatus
	default:
		return MangaStatusUnknown
	}
}

func MangaContentRatingFromInt(v int32) MangaContentRating {
	switch v {
	case 1:
		return MangaContentRatingSuggestive
	case 2:
		return MangaContentRatingNsfw
	default:
		return MangaContentRatingSafe
	}
}

func MangaViewerFromInt(v int32) MangaViewer {
	switch v {
	case 2:
		return MangaViewerLtr
	case 3:
		return MangaViewerVertical
	case 4:
		return MangaViewerScroll
	default:
		return MangaViewerRtl
	}
}

// Manga is the source's per-title record (spec §3.2).
type Manga struct {
	ID          string
	Cover       *string
	Title       *string
	Author      *string
	Artist      *string
	Description *string
	URL         *string
	Categories  []string
	Status      MangaStatus
	NSFW        MangaContentRating
	Viewer      MangaViewer
}

// Get implements the key-accessor protocol. The minimum required
// accessor is "id" (spec §3.2); the rest are exposed for completeness so
// guest plugins can round-trip a Manga they previously received back
// through object_get without the host silently dropping fields.
func (m *Manga) Get(key string) (Value, bool) {
	switch key {
	case "id":
		return NewString(m.ID), true
	case "cover":
		return optionalString(m.Cover)
	case "title":
		return optionalString(m.Title)
	case "author":
		return optionalString(m.Author)
	case "artist":
		return optionalString(m.Artist)
	case "description":
		return optionalString(m.Description)
	case "url":
		return optionalString(m.URL)
	case "categories":
		items := make([]Value, len(m.Categories))
		for i, c := range m.Categories {
			items[i] = NewString(c)
		}
		return NewArray(items), true
	case "status":
		return NewInt(int64(m.Status)), true
	case "nsfw":
		return NewInt(int64(m.NSFW)), true
	case "viewer":
		return NewInt(int64(m.Viewer)), true
	default:
		return Null, false
	}
}

func optionalString(s *string) (Value, bool) {
	if s == nil {
		return Null, false
	}
	return NewString(*s), true
}

// MangaResult is the response shape for get_manga_list/get_manga_listing
// (spec §3.2).
type MangaResult struct {
	Manga   []Manga
	HasMore bool
}

func (r *MangaResult) Get(key string) (Value, bool) {
	switch key {
	case "manga":
		items := make([]Value, len(r.Manga))
		for i := range r.Manga {
			items[i] = NewManga(r.Manga[i])
		}
		return NewArray(items), true
	case "has_more":
		return NewBool(r.HasMore), true
	default:
		return Null, false
	}
}
