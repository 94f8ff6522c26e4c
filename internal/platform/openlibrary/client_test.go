package openlibrary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"bookmemo/internal/book"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
  "ISBN:9780000000001": {
    "title": "The Book",
    "subtitle": "A Story",
    "publishers": [{"name": "Pub One"}, {"name": "Pub Two"}],
    "publish_date": "2001",
    "cover": {"large": "https://covers.example/L.jpg", "medium": "https://covers.example/M.jpg"},
    "authors": [{"url": "/a/1", "name": "Alice"}, {"url": "/a/2", "name": "Bob"}],
    "notes": {"type": "/type/text", "value": "A note."}
  }
}`

func TestClient_Resolve(t *testing.T) {
	var gotUA, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.RawQuery
		if r.URL.Query().Get("bibkeys") == "ISBN:9780000000001" {
			_, _ = w.Write([]byte(sampleResponse))
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient("test-agent/1.0", 100, 0, WithBaseURL(srv.URL))

	b, err := c.Resolve(context.Background(), "9780000000001")
	require.NoError(t, err)
	assert.Equal(t, book.Book{
		ISBN13:        "9780000000001",
		Title:         "The Book: A Story",
		Authors:       []string{"Alice", "Bob"},
		Description:   "A note.",
		ImageURL:      "https://covers.example/L.jpg",
		Publisher:     "Pub One",
		PublishedDate: "2001",
	}, b)
	assert.Equal(t, "test-agent/1.0", gotUA)
	assert.Contains(t, gotQuery, "jscmd=data")

	_, err = c.Resolve(context.Background(), "9780000000002")
	assert.ErrorIs(t, err, book.ErrNotFound)
}

func TestClient_NoRetryOn4xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient("ua", 100, 2, WithBaseURL(srv.URL))

	_, err := c.Resolve(context.Background(), "9780000000001")
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ServerErrorWithoutRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient("ua", 100, 0, WithBaseURL(srv.URL))

	_, err := c.Resolve(context.Background(), "9780000000001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 0 retries")
	assert.NotErrorIs(t, err, book.ErrNotFound)
}

func TestBookDetails_Description(t *testing.T) {
	assert.Equal(t, "plain", BookDetails{Notes: []byte(`"plain"`)}.description())
	d := BookDetails{}
	d.Excerpt = append(d.Excerpt, struct {
		Text string `json:"text"`
	}{Text: "excerpt"})
	assert.Equal(t, "excerpt", d.description())
	assert.Equal(t, "", BookDetails{}.description())
}

func TestGetBooksByISBN_Empty(t *testing.T) {
	c := NewClient("ua", 1, 0)
	res, err := c.GetBooksByISBN(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, res)
}
