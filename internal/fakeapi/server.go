// Package fakeapi is an in-memory stand-in for the book/memo collaborator
// API. It serves the same routes, status codes and session cookie the
// client relies on, plus hooks for injecting failures and inspecting the
// requests it received. Nothing is written to disk.
package fakeapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"bookmemo/internal/book"
	"bookmemo/internal/httpx"
)

const maxBodyBytes = 1 << 20

// Request is one request the server received.
type Request struct {
	Method string
	Path   string
}

type Server struct {
	secret   []byte
	resolver Resolver
	store    *store
	handler  http.Handler

	mu       sync.Mutex
	requests []Request
	failures map[string][]int
}

// New builds a server signing sessions with secret and resolving ISBNs with
// resolver. A nil resolver knows no books.
func New(secret string, resolver Resolver) *Server {
	if resolver == nil {
		resolver = Catalog{}
	}
	s := &Server{
		secret:   []byte(secret),
		resolver: resolver,
		store:    newStore(),
		failures: make(map[string][]int),
	}

	auth := httpx.AuthMiddleware(SessionCookie, s.verifySession)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /check-login-status", s.checkLoginStatus)
	mux.HandleFunc("GET /account", s.getAccount)
	mux.HandleFunc("POST /account", s.createAccount)
	mux.HandleFunc("POST /create-account", s.createAccount)
	mux.Handle("DELETE /account", auth(http.HandlerFunc(s.deleteAccount)))
	mux.HandleFunc("POST /login", s.login)
	mux.HandleFunc("GET /logout", s.logout)

	mux.Handle("GET /book", auth(http.HandlerFunc(s.listBooks)))
	mux.Handle("POST /book", auth(http.HandlerFunc(s.createBook)))
	mux.Handle("GET /book/{isbn_13}", auth(http.HandlerFunc(s.getBook)))
	mux.Handle("DELETE /book/{isbn_13}", auth(http.HandlerFunc(s.deleteBook)))
	mux.Handle("GET /book/{isbn_13}/memo", auth(http.HandlerFunc(s.listMemos)))
	mux.Handle("POST /book/{isbn_13}/memo", auth(http.HandlerFunc(s.createMemo)))
	mux.Handle("GET /memo/{id}", auth(http.HandlerFunc(s.getMemo)))
	mux.Handle("DELETE /memo/{id}", auth(http.HandlerFunc(s.deleteMemo)))

	s.handler = httpx.Chain(mux,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		s.recordMiddleware,
		httpx.RequestSizeLimitMiddleware(maxBodyBytes),
	)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// AddAccount registers an account directly.
func (s *Server) AddAccount(email, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	return s.store.createAccount(email, hash)
}

// SeedBook registers b without going through the resolver.
func (s *Server) SeedBook(b book.Book) error {
	return s.store.addBook(b)
}

// SeedMemo attaches a memo to a registered book.
func (s *Server) SeedMemo(isbn13, text string) (book.Memo, error) {
	return s.store.addMemo(isbn13, text)
}

// Books returns the server-side book list.
func (s *Server) Books() []book.Book {
	return s.store.listBooks()
}

// Memos returns the server-side memo list of one book.
func (s *Server) Memos(isbn13 string) []book.Memo {
	return s.store.listMemos(isbn13)
}

// FailNext makes the next request matching method and path prefix answer
// with status instead of being handled. Calls queue up.
func (s *Server) FailNext(method, pathPrefix string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + pathPrefix
	s.failures[key] = append(s.failures[key], status)
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// CountRequests counts received requests matching method and path prefix.
func (s *Server) CountRequests(method, pathPrefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if r.Method == method && strings.HasPrefix(r.Path, pathPrefix) {
			n++
		}
	}
	return n
}

func (s *Server) recordMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path})
		status, injected := s.popFailureLocked(r.Method, r.URL.Path)
		s.mu.Unlock()

		if injected {
			slog.Debug("injected failure", slog.String("path", r.URL.Path), slog.Int("status", status))
			httpx.JSONError(w, r, status, "INJECTED", http.StatusText(status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) popFailureLocked(method, path string) (int, bool) {
	for key, queue := range s.failures {
		m, prefix, _ := strings.Cut(key, " ")
		if m != method || !strings.HasPrefix(path, prefix) || len(queue) == 0 {
			continue
		}
		s.failures[key] = queue[1:]
		return queue[0], true
	}
	return 0, false
}

func (s *Server) verifySession(token string) (string, error) {
	c, err := parseSessionToken(s.secret, token)
	if err != nil {
		return "", err
	}
	if s.store.isRevoked(c.ID) {
		return "", errSessionRevoked
	}
	if _, err := s.store.passwordHash(c.Sub); err != nil {
		return "", err
	}
	return c.Sub, nil
}

func (s *Server) currentAccount(r *http.Request) (string, bool) {
	return httpx.SessionAccount(r, SessionCookie, s.verifySession)
}

func (s *Server) checkLoginStatus(w http.ResponseWriter, r *http.Request) {
	_, ok := s.currentAccount(r)
	httpx.JSONSuccess(w, map[string]bool{"is_login": ok})
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	email, ok := s.currentAccount(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	httpx.JSONSuccess(w, map[string]string{"email": email})
}

type credentials struct {
	email    string
	password string
	next     string
	failed   string
}

func readCredentials(r *http.Request) (credentials, bool) {
	if err := r.ParseForm(); err != nil {
		return credentials{}, false
	}
	c := credentials{
		email:    r.PostForm.Get("email"),
		password: r.PostForm.Get("password"),
		next:     r.PostForm.Get("next"),
		failed:   r.PostForm.Get("failed"),
	}
	return c, c.email != "" && c.password != ""
}

// fail answers a form request the way the collaborator does: a redirect to
// failed?failed=<message> when a failure page was given, a bare 400 otherwise.
func fail(w http.ResponseWriter, r *http.Request, failedPage, message string) {
	if failedPage == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", message)
		return
	}
	http.Redirect(w, r, failedPage+"?failed="+url.QueryEscape(message), http.StatusSeeOther)
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	creds, ok := readCredentials(r)
	if !ok {
		fail(w, r, creds.failed, "email and password are required")
		return
	}
	hash, err := hashPassword(creds.password)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "server error")
		return
	}
	if err := s.store.createAccount(creds.email, hash); err != nil {
		fail(w, r, creds.failed, "account already exists")
		return
	}
	s.startSession(w, r, creds.email, creds.next)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	creds, ok := readCredentials(r)
	if !ok {
		fail(w, r, creds.failed, "email and password are required")
		return
	}
	hash, err := s.store.passwordHash(creds.email)
	if err != nil {
		fail(w, r, creds.failed, "account not found")
		return
	}
	if !verifyPassword(hash, creds.password) {
		fail(w, r, creds.failed, "authentication failed")
		return
	}
	s.startSession(w, r, creds.email, creds.next)
}

// startSession sets the session cookie and redirects to next when given.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, email, next string) {
	token, _, err := generateSessionToken(s.secret, email, sessionTTL)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "server error")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(sessionTTL),
	})
	if next != "" {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if c, err := parseSessionToken(s.secret, cookie.Value); err == nil {
			s.store.revoke(c.ID)
		}
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	httpx.JSONSuccess(w, map[string]string{"message": "ok"})
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	s.store.deleteAccount(httpx.AccountFrom(r))
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listBooks(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, s.store.listBooks())
}

func (s *Server) createBook(w http.ResponseWriter, r *http.Request) {
	var req book.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ISBN13 == "" {
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "INVALID_BODY", "isbn_13 is required")
		return
	}
	if _, exists := s.store.findBook(req.ISBN13); exists {
		httpx.JSONError(w, r, http.StatusBadRequest, "ALREADY_REGISTERED", "book already registered")
		return
	}

	b, err := s.resolver.Resolve(r.Context(), req.ISBN13)
	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "ISBN not found")
			return
		}
		slog.Error("isbn resolve failed", slog.String("isbn_13", req.ISBN13), slog.String("err", err.Error()))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "server error")
		return
	}
	// The resolver may normalize to a different edition; only exact matches count.
	if b.ISBN13 != req.ISBN13 {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "ISBN not found")
		return
	}

	if err := s.store.addBook(b); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "ALREADY_REGISTERED", "book already registered")
		return
	}
	httpx.JSONSuccessCreated(w, b)
}

func (s *Server) getBook(w http.ResponseWriter, r *http.Request) {
	b, ok := s.store.findBook(r.PathValue("isbn_13"))
	if !ok {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "book not found")
		return
	}
	httpx.JSONSuccess(w, b)
}

func (s *Server) deleteBook(w http.ResponseWriter, r *http.Request) {
	if err := s.store.deleteBook(r.PathValue("isbn_13")); err != nil {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "book not found")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) listMemos(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, s.store.listMemos(r.PathValue("isbn_13")))
}

type createMemoRequest struct {
	Text string `json:"text"`
}

func (s *Server) createMemo(w http.ResponseWriter, r *http.Request) {
	var req createMemoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "INVALID_BODY", "text is required")
		return
	}
	m, err := s.store.addMemo(r.PathValue("isbn_13"), req.Text)
	if err != nil {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "book not found")
		return
	}
	httpx.JSONSuccessCreated(w, m)
}

func (s *Server) getMemo(w http.ResponseWriter, r *http.Request) {
	m, ok := s.store.findMemo(book.MemoID(r.PathValue("id")))
	if !ok {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "memo not found")
		return
	}
	httpx.JSONSuccess(w, m)
}

func (s *Server) deleteMemo(w http.ResponseWriter, r *http.Request) {
	if err := s.store.deleteMemo(book.MemoID(r.PathValue("id"))); err != nil {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "memo not found")
		return
	}
	w.WriteHeader(http.StatusOK)
}
