// Package testutil starts the in-memory collaborator for tests and builds
// clients and requests against it.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookmemo/internal/apiclient"
	"bookmemo/internal/book"
	"bookmemo/internal/fakeapi"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	Secret   = "test-secret"
	Email    = "reader@example.com"
	Password = "correct horse"
)

// TestBook resolves in the catalog Live starts with.
var TestBook = book.Book{
	ISBN13:        "9784167158057",
	Title:         "Test Book Title",
	Authors:       []string{"Test Author", "Second Author"},
	Description:   "A test book description",
	ImageURL:      "https://covers.example/9784167158057-L.jpg",
	Publisher:     "Test Publisher",
	PublishedDate: "2001-01-01",
}

// OtherBook is a second catalog entry.
var OtherBook = book.Book{
	ISBN13:  "9780000000002",
	Title:   "Another Book",
	Authors: []string{"Someone"},
}

// Live is a running fake collaborator with one account.
type Live struct {
	API *fakeapi.Server
	URL string
}

// NewLive starts the collaborator on a local listener. It is closed when
// the test ends.
func NewLive(t testing.TB) *Live {
	t.Helper()
	api := fakeapi.New(Secret, fakeapi.Catalog{
		TestBook.ISBN13:  TestBook,
		OtherBook.ISBN13: OtherBook,
	})
	require.NoError(t, api.AddAccount(Email, Password))

	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return &Live{API: api, URL: srv.URL}
}

// Client returns a client that is not logged in.
func (l *Live) Client(t testing.TB, opts ...apiclient.Option) *apiclient.Client {
	t.Helper()
	c, err := apiclient.New(l.URL, opts...)
	require.NoError(t, err)
	return c
}

// LoggedInClient returns a client holding a session for the test account.
func (l *Live) LoggedInClient(t testing.TB, opts ...apiclient.Option) *apiclient.Client {
	t.Helper()
	c := l.Client(t, opts...)
	require.NoError(t, c.Login(context.Background(), Email, Password))
	return c
}

// GenerateExpiredToken signs a session token that expired an hour ago.
func GenerateExpiredToken(secret, email string) string {
	c := jwt.MapClaims{
		"sub": email,
		"jti": "expired",
		"exp": jwt.NewNumericDate(time.Now().Add(-time.Hour)).Unix(),
		"iat": jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	token, _ := t.SignedString([]byte(secret))
	return token
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// NewRequestWithSession creates a request carrying a session cookie.
func NewRequestWithSession(method, path string, body interface{}, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: fakeapi.SessionCookie, Value: token})
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// RecordHTTPResponse records the HTTP response
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		_ = json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}
