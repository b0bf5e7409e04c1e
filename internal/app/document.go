package app

import (
	"github.com/dshills/inkstorm/internal/library"
)

// Document is the reading session for one open book. Page moves persist
// through the library store when one is attached.
type Document struct {
	book      library.Book
	store     *library.Store
	page      int
	bookmarks map[int]bool
}

// OpenDocument starts a session at the book's saved position.
func OpenDocument(store *library.Store, book library.Book) (*Document, error) {
	d := &Document{
		book:      book,
		store:     store,
		page:      book.CurrentPage,
		bookmarks: make(map[int]bool),
	}
	if d.page < 0 || d.page >= book.Pages {
		d.page = 0
	}

	if store != nil {
		pages, err := store.Bookmarks(book.ID)
		if err != nil {
			return nil, NewComponentError("library", "load bookmarks", err)
		}
		for _, p := range pages {
			d.bookmarks[p] = true
		}
	}
	return d, nil
}

// Book returns the library record this session was opened from.
func (d *Document) Book() library.Book { return d.book }

// Page returns the current zero-based page.
func (d *Document) Page() int { return d.page }

// Pages returns the page count.
func (d *Document) Pages() int { return d.book.Pages }

// NextPage advances one page. Returns false at the end of the book.
func (d *Document) NextPage() bool {
	return d.GoTo(d.page + 1)
}

// PrevPage goes back one page. Returns false at the start.
func (d *Document) PrevPage() bool {
	return d.GoTo(d.page - 1)
}

// FirstPage jumps to the start.
func (d *Document) FirstPage() bool {
	return d.GoTo(0)
}

// LastPage jumps to the end.
func (d *Document) LastPage() bool {
	return d.GoTo(d.book.Pages - 1)
}

// GoTo moves to a specific page. Out-of-range targets are refused, not
// clamped, so a held page-turn cannot run off the book.
func (d *Document) GoTo(page int) bool {
	if page < 0 || page >= d.book.Pages || page == d.page {
		return false
	}
	d.page = page
	if d.store != nil {
		// Persistence failures must not block reading.
		_ = d.store.Touch(d.book.ID, page)
	}
	return true
}

// IsBookmarked reports whether the current page is bookmarked.
func (d *Document) IsBookmarked() bool {
	return d.bookmarks[d.page]
}

// ToggleBookmark flips the bookmark on the current page and reports the
// new state.
func (d *Document) ToggleBookmark() (bool, error) {
	if d.store != nil {
		on, err := d.store.ToggleBookmark(d.book.ID, d.page)
		if err != nil {
			return false, NewComponentError("library", "toggle bookmark", err)
		}
		d.bookmarks[d.page] = on
		return on, nil
	}

	on := !d.bookmarks[d.page]
	d.bookmarks[d.page] = on
	return on, nil
}

// BookmarkedPages returns the session's bookmarked pages.
func (d *Document) BookmarkedPages() []int {
	pages := make([]int, 0, len(d.bookmarks))
	for p, on := range d.bookmarks {
		if on {
			pages = append(pages, p)
		}
	}
	return pages
}
