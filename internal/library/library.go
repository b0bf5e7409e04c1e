// Package library stores book metadata and reading state in sqlite:
// paths, titles, page counts, reading positions, and bookmarks. Search
// is fuzzy so a misspelled title on an e-ink keyboard still finds its
// book.
package library

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/dustin/go-humanize"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a book is not in the library.
var ErrNotFound = errors.New("library: book not found")

// Book is one document in the library.
type Book struct {
	ID          int64
	Path        string
	Title       string
	Author      string
	Pages       int
	CurrentPage int
	SizeBytes   int64
	AddedAt     time.Time
	LastReadAt  time.Time
}

// SizeHuman returns the file size for display, e.g. "2.4 MB".
func (b Book) SizeHuman() string {
	return humanize.Bytes(uint64(b.SizeBytes))
}

// Progress returns the reading position as a fraction in [0, 1].
func (b Book) Progress() float64 {
	if b.Pages <= 0 {
		return 0
	}
	return float64(b.CurrentPage+1) / float64(b.Pages)
}

const schema = `
CREATE TABLE IF NOT EXISTS books (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	path          TEXT    NOT NULL UNIQUE,
	title         TEXT    NOT NULL,
	author        TEXT    NOT NULL DEFAULT '',
	pages         INTEGER NOT NULL DEFAULT 0,
	current_page  INTEGER NOT NULL DEFAULT 0,
	size_bytes    INTEGER NOT NULL DEFAULT 0,
	added_at      TIMESTAMP NOT NULL,
	last_read_at  TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS bookmarks (
	book_id    INTEGER NOT NULL REFERENCES books(id) ON DELETE CASCADE,
	page       INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL,
	UNIQUE (book_id, page)
);
`

// Store is the sqlite-backed library.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the library database at path.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("library: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("library: schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Upsert inserts a book or, when the path is already known, refreshes
// its metadata while keeping the reading position. The book's ID is
// filled in on return.
func (s *Store) Upsert(b *Book) error {
	if b.AddedAt.IsZero() {
		b.AddedAt = time.Now()
	}
	if b.LastReadAt.IsZero() {
		b.LastReadAt = b.AddedAt
	}

	res, err := s.db.Exec(`
		INSERT INTO books (path, title, author, pages, size_bytes, added_at, last_read_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			pages = excluded.pages,
			size_bytes = excluded.size_bytes`,
		b.Path, b.Title, b.Author, b.Pages, b.SizeBytes, b.AddedAt, b.LastReadAt)
	if err != nil {
		return fmt.Errorf("library: upsert %s: %w", b.Path, err)
	}

	if id, err := res.LastInsertId(); err == nil && id != 0 {
		b.ID = id
	}
	if b.ID == 0 {
		existing, err := s.GetByPath(b.Path)
		if err != nil {
			return err
		}
		b.ID = existing.ID
	}
	return nil
}

// Get returns the book with the given id.
func (s *Store) Get(id int64) (Book, error) {
	return s.scanOne(s.db.QueryRow(selectBooks+" WHERE id = ?", id))
}

// GetByPath returns the book stored under path.
func (s *Store) GetByPath(path string) (Book, error) {
	return s.scanOne(s.db.QueryRow(selectBooks+" WHERE path = ?", path))
}

// List returns all books, most recently read first.
func (s *Store) List() ([]Book, error) {
	rows, err := s.db.Query(selectBooks + " ORDER BY last_read_at DESC, title ASC")
	if err != nil {
		return nil, fmt.Errorf("library: list: %w", err)
	}
	defer rows.Close()
	return scanAll(rows)
}

// Touch records that the book is open at the given page.
func (s *Store) Touch(id int64, page int) error {
	res, err := s.db.Exec(
		`UPDATE books SET current_page = ?, last_read_at = ? WHERE id = ?`,
		page, time.Now(), id)
	if err != nil {
		return fmt.Errorf("library: touch %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleBookmark flips the bookmark on a page and reports the new state.
func (s *Store) ToggleBookmark(bookID int64, page int) (bool, error) {
	res, err := s.db.Exec(
		`DELETE FROM bookmarks WHERE book_id = ? AND page = ?`, bookID, page)
	if err != nil {
		return false, fmt.Errorf("library: bookmark: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return false, nil
	}

	_, err = s.db.Exec(
		`INSERT INTO bookmarks (book_id, page, created_at) VALUES (?, ?, ?)`,
		bookID, page, time.Now())
	if err != nil {
		return false, fmt.Errorf("library: bookmark: %w", err)
	}
	return true, nil
}

// Bookmarks returns the bookmarked pages of a book in ascending order.
func (s *Store) Bookmarks(bookID int64) ([]int, error) {
	rows, err := s.db.Query(
		`SELECT page FROM bookmarks WHERE book_id = ? ORDER BY page`, bookID)
	if err != nil {
		return nil, fmt.Errorf("library: bookmarks: %w", err)
	}
	defer rows.Close()

	var pages []int
	for rows.Next() {
		var page int
		if err := rows.Scan(&page); err != nil {
			return nil, fmt.Errorf("library: bookmarks: %w", err)
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

// Search returns books whose title or author resembles the query,
// best matches first. Substring hits rank above fuzzy hits; fuzzy hits
// need an edit distance below half the query length.
func (s *Store) Search(query string) ([]Book, error) {
	books, err := s.List()
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return books, nil
	}

	type scored struct {
		book Book
		rank int
	}
	var hits []scored
	for _, b := range books {
		rank, ok := matchRank(q, b)
		if !ok {
			continue
		}
		hits = append(hits, scored{book: b, rank: rank})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].rank < hits[j].rank
	})

	out := make([]Book, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.book)
	}
	return out, nil
}

func matchRank(q string, b Book) (int, bool) {
	title := strings.ToLower(b.Title)
	author := strings.ToLower(b.Author)

	if strings.Contains(title, q) || strings.Contains(author, q) {
		return 0, true
	}

	limit := len(q) / 2
	if limit < 1 {
		limit = 1
	}
	best := levenshtein.ComputeDistance(q, title)
	if d := levenshtein.ComputeDistance(q, author); d < best {
		best = d
	}
	if best > limit {
		return 0, false
	}
	return best, true
}

const selectBooks = `
	SELECT id, path, title, author, pages, current_page, size_bytes, added_at, last_read_at
	FROM books`

func (s *Store) scanOne(row *sql.Row) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Path, &b.Title, &b.Author, &b.Pages,
		&b.CurrentPage, &b.SizeBytes, &b.AddedAt, &b.LastReadAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Book{}, ErrNotFound
	}
	if err != nil {
		return Book{}, fmt.Errorf("library: scan: %w", err)
	}
	return b, nil
}

func scanAll(rows *sql.Rows) ([]Book, error) {
	var books []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Path, &b.Title, &b.Author, &b.Pages,
			&b.CurrentPage, &b.SizeBytes, &b.AddedAt, &b.LastReadAt); err != nil {
			return nil, fmt.Errorf("library: scan: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}
