package hostimport

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/aidoku-host/aidoku-host/internal/descriptor"
	"github.com/aidoku-host/aidoku-host/internal/engine"
	"github.com/aidoku-host/aidoku-host/internal/memaccess"
	"github.com/aidoku-host/aidoku-host/internal/value"
)

// AidokuNamespace implements the domain-record constructors (spec
// §4.4.3): create_manga, create_manga_result, create_chapter,
// create_page, create_deeplink.
func AidokuNamespace(st *State) engine.Namespace {
	return engine.Namespace{
		Name: "aidoku",
		Functions: []engine.HostFunc{
			{
				Name: "create_manga",
				ParamTypes: append(
					types(16, i32Type), // id, id_len, cover, cover_len, title, title_len, author, author_len, artist, artist_len, description, description_len, url, url_len, tags_ptr, tag_lens_ptr
					i32Type, i32Type, i32Type, i32Type, // tags_count, status, nsfw, viewer
				),
				ResultTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					acc := memaccess.New(mod.Memory())
					idLen := argU32(stack, 1)
					if idLen == 0 {
						setI32(stack, 0, descriptor.NoDescriptor)
						return
					}
					id := acc.ReadString(argU32(stack, 0), idLen)
					cover := optionalStr(acc, stack, 2, 3)
					title := optionalStr(acc, stack, 4, 5)
					author := optionalStr(acc, stack, 6, 7)
					artist := optionalStr(acc, stack, 8, 9)
					description := optionalStr(acc, stack, 10, 11)
					url := optionalStr(acc, stack, 12, 13)

					tagsPtr, tagLensPtr := argU32(stack, 14), argU32(stack, 15)
					tagsCount := int(argI32(stack, 16))
					categories := readTagStrings(acc, tagsPtr, tagLensPtr, tagsCount)

					m := value.Manga{
						ID:          id,
						Cover:       cover,
						Title:       title,
						Author:      author,
						Artist:      artist,
						Description: description,
						URL:         url,
						Categories:  categories,
						Status:      value.MangaStatusFromInt(argI32(stack, 17)),
						NSFW:        value.MangaContentRatingFromInt(argI32(stack, 18)),
						Viewer:      value.MangaViewerFromInt(argI32(stack, 19)),
					}
					setI32(stack, 0, st.Values.Allocate(value.NewManga(m)))
				},
			},
			{
				Name:        "create_manga_result",
				ParamTypes:  types(2, i32Type),
				ResultTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					arr, ok := st.Values.Read(argI32(stack, 0))
					if !ok {
						setI32(stack, 0, descriptor.NoDescriptor)
						return
					}
					items, ok := arr.AsArray()
					if !ok {
						setI32(stack, 0, descriptor.NoDescriptor)
						return
					}
					var manga []value.Manga
					for _, item := range items {
						m, ok := item.AsManga()
						if ok {
							manga = append(manga, m)
						}
					}
					result := value.MangaResult{Manga: manga, HasMore: argI32(stack, 1) == 1}
					setI32(stack, 0, st.Values.Allocate(value.NewMangaResult(result)))
				},
			},
			{
				Name: "create_chapter",
				ParamTypes: []api.ValueType{
					i32Type, i32Type, // id, id_len
					i32Type, i32Type, // title, title_len
					f32Type, f32Type, f64Type, // volume, chapter, date_uploaded
					i32Type, i32Type, // scanlator, scanlator_len
					i32Type, i32Type, // url, url_len
					i32Type, i32Type, // lang, lang_len
				},
				ResultTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					acc := memaccess.New(mod.Memory())
					idLen := argU32(stack, 1)
					if idLen == 0 {
						setI32(stack, 0, descriptor.NoDescriptor)
						return
					}
					id := acc.ReadString(argU32(stack, 0), idLen)
					title := optionalStr(acc, stack, 2, 3)

					volume := argF32(stack, 4)
					chapterNum := argF32(stack, 5)
					dateUploaded := argF64(stack, 6)

					c := value.Chapter{
						ID:        id,
						Title:     title,
						Scanlator: optionalStr(acc, stack, 7, 8),
						URL:       optionalStr(acc, stack, 9, 10),
						Lang:      optionalStr(acc, stack, 11, 12),
					}
					if volume >= 0 {
						v := volume
						c.Volume = &v
					}
					if chapterNum >= 0 {
						v := chapterNum
						c.ChapterNum = &v
					}
					if dateUploaded > 0 {
						v := dateUploaded
						c.DateUploaded = &v
					}
					setI32(stack, 0, st.Values.Allocate(value.NewChapter(c)))
				},
			},
			{
				Name:        "create_page",
				ParamTypes:  []api.ValueType{i32Type, i32Type, i32Type, i32Type, i32Type, i32Type, i32Type},
				ResultTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					acc := memaccess.New(mod.Memory())
					p := value.Page{
						Index:    argI32(stack, 0),
						ImageURL: optionalStr(acc, stack, 1, 2),
						Base64:   optionalStr(acc, stack, 3, 4),
						Text:     optionalStr(acc, stack, 5, 6),
					}
					setI32(stack, 0, st.Values.Allocate(value.NewPage(p)))
				},
			},
			{
				Name:        "create_deeplink",
				ParamTypes:  types(2, i32Type),
				ResultTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					d := value.DeepLink{}
					if m, ok := st.Values.Read(argI32(stack, 0)); ok {
						if manga, ok := m.AsManga(); ok {
							d.Manga = &manga
						}
					}
					if c, ok := st.Values.Read(argI32(stack, 1)); ok {
						if chapter, ok := c.AsChapter(); ok {
							d.Chapter = &chapter
						}
					}
					setI32(stack, 0, st.Values.Allocate(value.NewDeepLink(d)))
				},
			},
		},
	}
}

// optionalStr reads the string at (ptr, len) args[ptrIdx]/args[lenIdx],
// returning nil when len is 0 (spec §4.4.3: "length 0 => None").
func optionalStr(acc *memaccess.Accessor, stack []uint64, ptrIdx, lenIdx int) *string {
	length := argU32(stack, lenIdx)
	if length == 0 {
		return nil
	}
	s := acc.ReadString(argU32(stack, ptrIdx), length)
	return &s
}

// readTagStrings reads tagsCount i32 descriptor-pointers from tagsPtr and
// tagsCount i32 lengths from tagLensPtr, then reads each string those
// pairs describe directly out of guest memory (spec §4.4.3: tags_ptr
// holds raw guest pointers, not value-table descriptors).
func readTagStrings(acc *memaccess.Accessor, tagsPtr, tagLensPtr uint32, count int) []string {
	if count <= 0 {
		return nil
	}
	ptrs, ok := acc.ReadInt32Array(tagsPtr, count)
	if !ok {
		return nil
	}
	lens, ok := acc.ReadInt32Array(tagLensPtr, count)
	if !ok {
		return nil
	}
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		if i >= len(lens) || lens[i] <= 0 {
			continue
		}
		out = append(out, acc.ReadString(uint32(ptrs[i]), uint32(lens[i])))
	}
	return out
}
