package fakeapi

import (
	"context"

	"bookmemo/internal/book"
)

// Resolver turns an ISBN-13 into full book metadata, the way the real
// collaborator does server side. It returns book.ErrNotFound for unknown
// ISBNs.
type Resolver interface {
	Resolve(ctx context.Context, isbn13 string) (book.Book, error)
}

// Catalog is a fixed in-memory Resolver keyed by ISBN-13.
type Catalog map[string]book.Book

func (c Catalog) Resolve(_ context.Context, isbn13 string) (book.Book, error) {
	b, ok := c[isbn13]
	if !ok {
		return book.Book{}, book.ErrNotFound
	}
	b.ISBN13 = isbn13
	return b, nil
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, isbn13 string) (book.Book, error)

func (f ResolverFunc) Resolve(ctx context.Context, isbn13 string) (book.Book, error) {
	return f(ctx, isbn13)
}
