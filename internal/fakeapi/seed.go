package fakeapi

import (
	"fmt"
	"math/rand"

	"bookmemo/internal/book"
)

var (
	seedWords = []string{
		"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
		"Love", "War", "Peace", "Science", "Nature", "Technology", "History", "Future",
		"Past", "Present", "Reality", "Imagination", "Wisdom", "Life", "Death",
		"Light", "Darkness", "World", "Universe", "Time", "Space", "Mind", "Soul",
	}
	seedPublishers = []string{"Penguin", "HarperCollins", "Oxford", "Cambridge", "MIT Press", "Springer", "Wiley", "Elsevier"}
	seedAuthors    = []string{"A. Writer", "B. Author", "C. Novelist", "D. Scholar", "E. Poet", "F. Critic"}
)

// SeedISBN returns the ISBN-13 GenerateCatalog assigns to entry i.
func SeedISBN(i int) string {
	return fmt.Sprintf("978%010d", i+1)
}

// GenerateCatalog builds n synthetic books keyed SeedISBN(0) .. SeedISBN(n-1).
func GenerateCatalog(n int, rnd *rand.Rand) Catalog {
	word := func() string { return seedWords[rnd.Intn(len(seedWords))] }

	c := make(Catalog, n)
	for i := 0; i < n; i++ {
		year := 1950 + rnd.Intn(75)
		authors := []string{seedAuthors[rnd.Intn(len(seedAuthors))]}
		if rnd.Intn(3) == 0 {
			authors = append(authors, seedAuthors[rnd.Intn(len(seedAuthors))])
		}
		isbn := SeedISBN(i)
		c[isbn] = book.Book{
			ISBN13:        isbn,
			Title:         fmt.Sprintf("Book Title %d - %s: A %s Story", i+1, word(), word()),
			Authors:       authors,
			Description:   fmt.Sprintf("This is a book about %s. It explores the fundamental concepts and provides insights into the subject matter.", word()),
			Publisher:     seedPublishers[rnd.Intn(len(seedPublishers))],
			PublishedDate: fmt.Sprintf("%d-01-01", year),
		}
	}
	return c
}
