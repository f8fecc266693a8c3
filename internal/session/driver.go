// Package session implements the session driver (spec §4.5): the
// host-side object offering typed methods that invoke guest exports,
// marshal domain inputs into descriptors, and guarantee descriptor
// cleanup on every exit path. Its scoped-acquisition discipline is
// grounded on the Rust original's Deferred RAII guard
// (original_source/lib/api/src/wasm/source.rs), which maps directly
// onto Go's defer.
package session

import (
	"context"
	"fmt"

	"github.com/aidoku-host/aidoku-host/internal/descriptor"
	"github.com/aidoku-host/aidoku-host/internal/hostlog"
	"github.com/aidoku-host/aidoku-host/internal/value"
)

// GuestInstance is the subset of internal/engine.Instance the driver
// needs. Tests substitute a fake implementation, the same role the
// teacher's ProcessRunner interface plays for exec.Cmd.
type GuestInstance interface {
	HasExport(name string) bool
	Call(ctx context.Context, name string, args ...int32) ([]int32, error)
}

// Driver wraps one guest instance and its descriptor table, exposing the
// typed operations of spec §4.5 plus the handle_url wrapper supplemented
// from original_source (SPEC_FULL.md §3.1).
type Driver struct {
	Instance GuestInstance
	Values   *descriptor.Table
	Log      *hostlog.Logger
}

// New returns a Driver over an already-instantiated guest.
func New(instance GuestInstance, values *descriptor.Table, log *hostlog.Logger) *Driver {
	return &Driver{Instance: instance, Values: values, Log: log}
}

// Initialize invokes the guest export "initialize" if present. Absence
// and faults are both ignored per spec §4.5.
func (d *Driver) Initialize(ctx context.Context) {
	if !d.Instance.HasExport("initialize") {
		return
	}
	if _, err := d.Instance.Call(ctx, "initialize"); err != nil {
		d.Log.Tracef("initialize: guest fault: %v", err)
	}
}

// GetMangaList calls get_manga_list(filter_d, page). filter_d is -1 when
// filters is empty (spec §4.5).
func (d *Driver) GetMangaList(ctx context.Context, filters []value.Filter, page int32) (*value.MangaResult, bool) {
	filterD := descriptor.NoDescriptor
	if len(filters) > 0 {
		items := make([]value.Value, len(filters))
		for i, f := range filters {
			items[i] = value.NewFilter(f)
		}
		filterD = d.Values.Allocate(value.NewArray(items))
	}
	defer d.free(filterD)

	resultD, ok := d.callForDescriptor(ctx, "get_manga_list", filterD, page)
	if !ok {
		return nil, false
	}
	defer d.free(resultD)

	v, ok := d.Values.Read(resultD)
	if !ok {
		return nil, false
	}
	mr, ok := v.AsMangaResult()
	if !ok {
		return nil, false
	}
	return &mr, true
}

// GetMangaListing calls get_manga_listing(listing_d, page). A Listing
// descriptor is always allocated, unlike GetMangaList's filters (spec
// §4.5).
func (d *Driver) GetMangaListing(ctx context.Context, listing value.Listing, page int32) (*value.MangaResult, bool) {
	listingD := d.Values.Allocate(value.NewListing(listing))
	defer d.free(listingD)

	resultD, ok := d.callForDescriptor(ctx, "get_manga_listing", listingD, page)
	if !ok {
		return nil, false
	}
	defer d.free(resultD)

	v, ok := d.Values.Read(resultD)
	if !ok {
		return nil, false
	}
	mr, ok := v.AsMangaResult()
	if !ok {
		return nil, false
	}
	return &mr, true
}

// GetMangaDetails calls get_manga_details(manga_d).
func (d *Driver) GetMangaDetails(ctx context.Context, manga value.Manga) (*value.Manga, bool) {
	mangaD := d.Values.Allocate(value.NewManga(manga))
	defer d.free(mangaD)

	resultD, ok := d.callForDescriptor(ctx, "get_manga_details", mangaD)
	if !ok {
		return nil, false
	}
	defer d.free(resultD)

	v, ok := d.Values.Read(resultD)
	if !ok {
		return nil, false
	}
	m, ok := v.AsManga()
	if !ok {
		return nil, false
	}
	return &m, true
}

// GetChapterList calls get_chapter_list(manga_d); the guest's Array
// return is flattened, filtering any non-Chapter entries (spec §4.5, S3).
func (d *Driver) GetChapterList(ctx context.Context, manga value.Manga) ([]value.Chapter, bool) {
	mangaD := d.Values.Allocate(value.NewManga(manga))
	defer d.free(mangaD)

	resultD, ok := d.callForDescriptor(ctx, "get_chapter_list", mangaD)
	if !ok {
		return nil, false
	}
	defer d.free(resultD)

	v, ok := d.Values.Read(resultD)
	if !ok {
		return nil, false
	}
	items, ok := v.AsArray()
	if !ok {
		return nil, false
	}
	var chapters []value.Chapter
	for _, item := range items {
		if c, ok := item.AsChapter(); ok {
			chapters = append(chapters, c)
		}
	}
	return chapters, true
}

// GetPageList calls get_page_list(chapter_d); as GetChapterList, filters
// non-Page entries out of the returned Array.
func (d *Driver) GetPageList(ctx context.Context, chapter value.Chapter) ([]value.Page, bool) {
	chapterD := d.Values.Allocate(value.NewChapter(chapter))
	defer d.free(chapterD)

	resultD, ok := d.callForDescriptor(ctx, "get_page_list", chapterD)
	if !ok {
		return nil, false
	}
	defer d.free(resultD)

	v, ok := d.Values.Read(resultD)
	if !ok {
		return nil, false
	}
	items, ok := v.AsArray()
	if !ok {
		return nil, false
	}
	var pages []value.Page
	for _, item := range items {
		if p, ok := item.AsPage(); ok {
			pages = append(pages, p)
		}
	}
	return pages, true
}

// HandleNotification calls handle_notification(str_d) if the guest
// exports it, ignoring any return value (spec §4.5).
func (d *Driver) HandleNotification(ctx context.Context, payload string) {
	if !d.Instance.HasExport("handle_notification") {
		return
	}
	strD := d.Values.Allocate(value.NewString(payload))
	defer d.free(strD)

	if _, err := d.Instance.Call(ctx, "handle_notification", strD); err != nil {
		d.Log.Tracef("handle_notification: guest fault: %v", err)
	}
}

// HandleURL calls the optional handle_url(str_d) -> i32 export, resolving
// a source URL to a DeepLink. spec.md §9 notes this export exists in the
// guest ABI with no driver-side wrapper in the source; SPEC_FULL.md §3.1
// adds one using the same descriptor-in/descriptor-out and scoped-cleanup
// convention as GetMangaDetails.
func (d *Driver) HandleURL(ctx context.Context, url string) (*value.DeepLink, bool) {
	strD := d.Values.Allocate(value.NewString(url))
	defer d.free(strD)

	resultD, ok := d.callForDescriptor(ctx, "handle_url", strD)
	if !ok {
		return nil, false
	}
	defer d.free(resultD)

	v, ok := d.Values.Read(resultD)
	if !ok {
		return nil, false
	}
	dl, ok := v.AsDeepLink()
	if !ok {
		return nil, false
	}
	return &dl, true
}

// callForDescriptor invokes an optional guest export and extracts a
// single i32 descriptor result, returning ok=false for a missing export,
// a guest fault, or a -1/sentinel result (spec §7: guest trap -> driver
// returns None, any descriptors the driver itself allocated are still
// freed by the caller's own defers).
func (d *Driver) callForDescriptor(ctx context.Context, export string, args ...int32) (int32, bool) {
	if !d.Instance.HasExport(export) {
		return descriptor.NoDescriptor, false
	}
	results, err := d.Instance.Call(ctx, export, args...)
	if err != nil {
		d.Log.Tracef("%s: guest fault: %v", export, err)
		return descriptor.NoDescriptor, false
	}
	if len(results) == 0 {
		return descriptor.NoDescriptor, false
	}
	if results[0] < 0 {
		return descriptor.NoDescriptor, false
	}
	d.Log.Tracef("%s(%v) -> %d", export, args, results[0])
	return results[0], true
}

// free removes id if it was actually allocated (id != NoDescriptor).
func (d *Driver) free(id int32) {
	if id == descriptor.NoDescriptor {
		return
	}
	d.Values.Remove(id)
}

// MustExport is used by callers (cmd/aidoku-host) that want an error
// instead of a bare bool when a driver call failed, matching the
// teacher's fmt.Errorf wrapping convention at the CLI boundary even
// though the core driver stays non-exceptional.
func MustExport(ok bool, export string) error {
	if ok {
		return nil
	}
	return fmt.Errorf("guest export %q returned no usable result", export)
}
