package fakeapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"bookmemo/internal/book"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

var testBook = book.Book{
	ISBN13:  "9780000000001",
	Title:   "A",
	Authors: []string{"X", "Y"},
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s := New(testSecret, Catalog{testBook.ISBN13: testBook})
	require.NoError(t, s.AddAccount("a@example.com", "pw"))
	return s
}

func do(s *Server, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func postForm(s *Server, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", SessionCookie)
	return nil
}

func login(t *testing.T, s *Server) *http.Cookie {
	t.Helper()
	w := postForm(s, "/login", url.Values{"email": {"a@example.com"}, "password": {"pw"}})
	require.Equal(t, http.StatusOK, w.Code)
	return sessionCookie(t, w)
}

func TestServer_Login(t *testing.T) {
	s := newTestServer(t)

	t.Run("success redirects to next", func(t *testing.T) {
		w := postForm(s, "/login", url.Values{
			"email": {"a@example.com"}, "password": {"pw"}, "next": {"/library"}, "failed": {"/login"},
		})
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/library", w.Header().Get("Location"))
		assert.NotEmpty(t, sessionCookie(t, w).Value)
	})

	t.Run("wrong password redirects to failed page", func(t *testing.T) {
		w := postForm(s, "/login", url.Values{
			"email": {"a@example.com"}, "password": {"nope"}, "next": {"/library"}, "failed": {"/login"},
		})
		assert.Equal(t, http.StatusSeeOther, w.Code)
		loc, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "/login", loc.Path)
		assert.Equal(t, "authentication failed", loc.Query().Get("failed"))
	})

	t.Run("unknown account without failed page is 400", func(t *testing.T) {
		w := postForm(s, "/login", url.Values{"email": {"b@example.com"}, "password": {"pw"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestServer_CheckLoginStatus(t *testing.T) {
	s := newTestServer(t)

	var status map[string]bool
	w := do(s, http.MethodGet, "/check-login-status", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.False(t, status["is_login"])

	cookie := login(t, s)
	w = do(s, http.MethodGet, "/check-login-status", "", cookie)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status["is_login"])

	w = do(s, http.MethodGet, "/logout", "", cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(s, http.MethodGet, "/check-login-status", "", cookie)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.False(t, status["is_login"], "revoked session must not count")
}

func TestServer_Account(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodGet, "/account", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postForm(s, "/create-account", url.Values{"email": {"new@example.com"}, "password": {"pw2"}})
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)

	w = do(s, http.MethodGet, "/account", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"new@example.com"}`, w.Body.String())

	w = postForm(s, "/account", url.Values{"email": {"new@example.com"}, "password": {"x"}, "failed": {"/create-account"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "failed=account+already+exists")

	w = do(s, http.MethodDelete, "/account", "", cookie)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(s, http.MethodGet, "/account", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestServer_Books(t *testing.T) {
	s := newTestServer(t)

	t.Run("requires session", func(t *testing.T) {
		w := do(s, http.MethodGet, "/book", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	cookie := login(t, s)

	t.Run("empty list is an empty array", func(t *testing.T) {
		w := do(s, http.MethodGet, "/book", "", cookie)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("create resolves metadata", func(t *testing.T) {
		w := do(s, http.MethodPost, "/book", `{"isbn_13":"9780000000001"}`, cookie)
		require.Equal(t, http.StatusCreated, w.Code)

		var got []book.Book
		w = do(s, http.MethodGet, "/book", "", cookie)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, testBook, got[0])
	})

	t.Run("duplicate is 400", func(t *testing.T) {
		w := do(s, http.MethodPost, "/book", `{"isbn_13":"9780000000001"}`, cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown isbn is 404", func(t *testing.T) {
		w := do(s, http.MethodPost, "/book", `{"isbn_13":"9780000000002"}`, cookie)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("get one", func(t *testing.T) {
		w := do(s, http.MethodGet, "/book/9780000000001", "", cookie)
		assert.Equal(t, http.StatusOK, w.Code)
		w = do(s, http.MethodGet, "/book/9780000000009", "", cookie)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := do(s, http.MethodDelete, "/book/9780000000001", "", cookie)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, s.Books())

		w = do(s, http.MethodDelete, "/book/9780000000001", "", cookie)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestServer_ResolverFailure(t *testing.T) {
	s := New(testSecret, ResolverFunc(func(context.Context, string) (book.Book, error) {
		return book.Book{}, errors.New("upstream down")
	}))
	require.NoError(t, s.AddAccount("a@example.com", "pw"))
	cookie := login(t, s)

	w := do(s, http.MethodPost, "/book", `{"isbn_13":"9780000000001"}`, cookie)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestServer_Memos(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.SeedBook(testBook))
	cookie := login(t, s)

	w := do(s, http.MethodGet, "/book/9780000000001/memo", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(s, http.MethodPost, "/book/9780000000001/memo", `{"text":"first"}`, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	var created book.Memo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)

	w = do(s, http.MethodPost, "/book/9780000000009/memo", `{"text":"orphan"}`, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(s, http.MethodGet, "/memo/"+created.ID.String(), "", cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(s, http.MethodDelete, "/memo/"+created.ID.String(), "", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, s.Memos(testBook.ISBN13))

	w = do(s, http.MethodDelete, "/memo/"+created.ID.String(), "", cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_DeleteBookDropsMemos(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.SeedBook(testBook))
	_, err := s.SeedMemo(testBook.ISBN13, "note")
	require.NoError(t, err)

	cookie := login(t, s)
	w := do(s, http.MethodDelete, "/book/"+testBook.ISBN13, "", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Empty(t, s.Memos(testBook.ISBN13))
}

func TestServer_FailNext(t *testing.T) {
	s := newTestServer(t)
	cookie := login(t, s)

	s.FailNext(http.MethodGet, "/book", http.StatusInternalServerError)

	w := do(s, http.MethodGet, "/book", "", cookie)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = do(s, http.MethodGet, "/book", "", cookie)
	assert.Equal(t, http.StatusOK, w.Code, "failure is consumed once")

	assert.Equal(t, 2, s.CountRequests(http.MethodGet, "/book"))
	assert.Equal(t, 1, s.CountRequests(http.MethodPost, "/login"))
}
