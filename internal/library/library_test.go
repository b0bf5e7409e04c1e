package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func addBook(t *testing.T, s *Store, path, title, author string, pages int) Book {
	t.Helper()
	b := Book{Path: path, Title: title, Author: author, Pages: pages, SizeBytes: 1 << 21}
	require.NoError(t, s.Upsert(&b))
	require.NotZero(t, b.ID)
	return b
}

func TestUpsertAndGet(t *testing.T) {
	s := openTestStore(t)

	b := addBook(t, s, "/books/dune.epub", "Dune", "Frank Herbert", 412)

	got, err := s.Get(b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, 412, got.Pages)
	assert.Equal(t, "2.1 MB", got.SizeHuman())
}

func TestUpsertKeepsReadingPosition(t *testing.T) {
	s := openTestStore(t)

	b := addBook(t, s, "/books/dune.epub", "Dune", "Frank Herbert", 412)
	require.NoError(t, s.Touch(b.ID, 99))

	// A rescan refreshes metadata but must not lose the position.
	again := Book{Path: "/books/dune.epub", Title: "Dune (annotated)", Author: "Frank Herbert", Pages: 430}
	require.NoError(t, s.Upsert(&again))
	assert.Equal(t, b.ID, again.ID)

	got, err := s.Get(b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune (annotated)", got.Title)
	assert.Equal(t, 99, got.CurrentPage)
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(42)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Touch(42, 1), ErrNotFound)
}

func TestListOrdersByRecency(t *testing.T) {
	s := openTestStore(t)

	a := addBook(t, s, "/books/a.epub", "Annihilation", "Jeff VanderMeer", 200)
	b := addBook(t, s, "/books/b.epub", "Borne", "Jeff VanderMeer", 300)

	require.NoError(t, s.Touch(a.ID, 10))

	books, err := s.List()
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, a.ID, books[0].ID, "recently read book should lead")
	assert.Equal(t, b.ID, books[1].ID)
}

func TestToggleBookmark(t *testing.T) {
	s := openTestStore(t)
	b := addBook(t, s, "/books/dune.epub", "Dune", "Frank Herbert", 412)

	on, err := s.ToggleBookmark(b.ID, 50)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = s.ToggleBookmark(b.ID, 120)
	require.NoError(t, err)
	assert.True(t, on)

	pages, err := s.Bookmarks(b.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{50, 120}, pages)

	on, err = s.ToggleBookmark(b.ID, 50)
	require.NoError(t, err)
	assert.False(t, on, "second toggle clears the bookmark")

	pages, err = s.Bookmarks(b.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{120}, pages)
}

func TestSearch(t *testing.T) {
	s := openTestStore(t)
	addBook(t, s, "/books/dune.epub", "Dune", "Frank Herbert", 412)
	addBook(t, s, "/books/neuromancer.epub", "Neuromancer", "William Gibson", 271)
	addBook(t, s, "/books/ubik.epub", "Ubik", "Philip K. Dick", 216)

	t.Run("substring", func(t *testing.T) {
		got, err := s.Search("neuro")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Neuromancer", got[0].Title)
	})

	t.Run("misspelled title still matches", func(t *testing.T) {
		got, err := s.Search("duune")
		require.NoError(t, err)
		require.NotEmpty(t, got)
		assert.Equal(t, "Dune", got[0].Title)
	})

	t.Run("author match", func(t *testing.T) {
		got, err := s.Search("gibson")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Neuromancer", got[0].Title)
	})

	t.Run("no match", func(t *testing.T) {
		got, err := s.Search("zzzzzzzz")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("empty query returns everything", func(t *testing.T) {
		got, err := s.Search("  ")
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})
}

func TestProgress(t *testing.T) {
	b := Book{Pages: 200, CurrentPage: 99}
	assert.InDelta(t, 0.5, b.Progress(), 0.001)

	assert.Zero(t, Book{}.Progress())
}
