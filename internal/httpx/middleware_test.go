package httpx

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestSizeLimitMiddleware_UnderLimit(t *testing.T) {
	handler := RequestSizeLimitMiddleware(1024)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/book", bytes.NewBuffer(make([]byte, 512)))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for request under limit, got %d", w.Code)
	}
}

func TestRequestSizeLimitMiddleware_OverLimit(t *testing.T) {
	handler := RequestSizeLimitMiddleware(1024)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/book", bytes.NewBuffer(make([]byte, 2048)))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected 413 for request over limit, got %d", w.Code)
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Chain(okHandler(), mark("outer"), mark("inner"))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Errorf("Expected [outer inner], got %v", order)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r)
	}))

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if seen == "" {
			t.Fatal("Expected a generated request id")
		}
		if got := w.Header().Get(RequestIDHeader); got != seen {
			t.Errorf("Expected header %q, got %q", seen, got)
		}
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if seen != "req-123" {
			t.Errorf("Expected req-123, got %q", seen)
		}
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), RequestIDMiddleware, AccessLogMiddleware, RecoveryMiddleware)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/book", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 after panic, got %d", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	verify := func(token string) (string, error) {
		if token == "good" {
			return "a@example.com", nil
		}
		return "", errors.New("bad token")
	}

	var account string
	handler := AuthMiddleware("session", verify)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account = AccountFrom(r)
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		cookie string
		want   int
	}{
		{name: "no cookie", want: http.StatusUnauthorized},
		{name: "bad cookie", cookie: "bad", want: http.StatusUnauthorized},
		{name: "good cookie", cookie: "good", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account = ""
			req := httptest.NewRequest(http.MethodGet, "/book", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "session", Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, w.Code)
			}
			if tt.want == http.StatusOK && account != "a@example.com" {
				t.Errorf("Expected account in context, got %q", account)
			}
		})
	}
}
