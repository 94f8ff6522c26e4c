package fakeapi

import (
	"context"
	"math/rand"
	"testing"

	"bookmemo/internal/book"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCatalog(t *testing.T) {
	c := GenerateCatalog(25, rand.New(rand.NewSource(1)))
	require.Len(t, c, 25)

	for i := 0; i < 25; i++ {
		isbn := SeedISBN(i)
		assert.True(t, book.ValidISBN13(isbn), isbn)

		b, err := c.Resolve(context.Background(), isbn)
		require.NoError(t, err)
		assert.Equal(t, isbn, b.ISBN13)
		assert.NotEmpty(t, b.Title)
		assert.NotEmpty(t, b.Authors)
	}

	_, err := c.Resolve(context.Background(), SeedISBN(25))
	assert.ErrorIs(t, err, book.ErrNotFound)
}

func TestGenerateCatalog_Deterministic(t *testing.T) {
	a := GenerateCatalog(5, rand.New(rand.NewSource(7)))
	b := GenerateCatalog(5, rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b)
}
