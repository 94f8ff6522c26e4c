// Package apiclient talks to the book/memo collaborator API.
//
// The client owns an in-memory cookie jar so the collaborator's session
// cookie rides every request. Nothing is persisted, retried or timed out:
// requests are bounded only by the caller's context.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"bookmemo/internal/book"

	"github.com/google/uuid"
)

const (
	// DefaultSessionPath is the collaborator's dedicated login status endpoint.
	DefaultSessionPath = "/check-login-status"

	requestIDHeader = "X-Request-Id"

	// Page paths sent with the login forms; the collaborator redirects to
	// failedPage?failed=<message> on failure.
	nextPage   = "/library"
	failedPage = "/login"
)

type Client struct {
	httpClient  *http.Client
	baseURL     string
	sessionPath string
	userAgent   string
}

type Option func(*Client)

// WithHTTPClient replaces the transport. The client is copied; a cookie jar
// is attached to the copy when the given client has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		c.httpClient = &cp
	}
}

// WithSessionPath sets the endpoint probed by CheckSession.
func WithSessionPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.sessionPath = path
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}

	c := &Client{
		httpClient:  &http.Client{},
		baseURL:     strings.TrimRight(baseURL, "/"),
		sessionPath: DefaultSessionPath,
		userAgent:   "bookmemo/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		c.httpClient.Jar = jar
	}
	// Redirects are surfaced, not followed: the login forms report failure
	// through a redirect to failed?failed=<message>.
	c.httpClient.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return c, nil
}

// BaseURL returns the collaborator base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type loginStatus struct {
	IsLogin *bool `json:"is_login"`
}

// CheckSession probes the session endpoint. A non-2xx status is reported as
// (false, nil); a transport failure as (false, err).
func (c *Client) CheckSession(ctx context.Context) (bool, error) {
	const op = "apiclient.CheckSession"

	resp, err := c.send(ctx, op, http.MethodGet, c.sessionPath, "", nil)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			return false, nil
		}
		return false, err
	}
	defer resp.Body.Close()
	if isRedirect(resp.StatusCode) {
		return false, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
	}

	var status loginStatus
	if json.Unmarshal(body, &status) == nil && status.IsLogin != nil {
		return *status.IsLogin, nil
	}
	return true, nil
}

// ListBooks returns every registered book in server order.
func (c *Client) ListBooks(ctx context.Context) ([]book.Book, error) {
	var books []book.Book
	if err := c.get(ctx, "apiclient.ListBooks", "/book", &books); err != nil {
		return nil, err
	}
	if books == nil {
		books = []book.Book{}
	}
	return books, nil
}

// CreateBook asks the collaborator to resolve and register isbn13. A 400
// means the book is already registered, a 404 that the ISBN is unknown.
func (c *Client) CreateBook(ctx context.Context, isbn13 string) error {
	const op = "apiclient.CreateBook"

	err := c.sendJSON(ctx, op, http.MethodPost, "/book", book.CreateRequest{ISBN13: isbn13})
	var se *StatusError
	if errors.As(err, &se) {
		switch se.StatusCode {
		case http.StatusBadRequest:
			se.kind = book.ErrAlreadyRegistered
		case http.StatusNotFound:
			se.kind = book.ErrNotFound
		}
	}
	return err
}

func (c *Client) DeleteBook(ctx context.Context, isbn13 string) error {
	return c.discard(ctx, "apiclient.DeleteBook", http.MethodDelete, "/book/"+url.PathEscape(isbn13))
}

// ListMemos returns the memos of one book in server order.
func (c *Client) ListMemos(ctx context.Context, isbn13 string) ([]book.Memo, error) {
	var memos []book.Memo
	if err := c.get(ctx, "apiclient.ListMemos", memoPath(isbn13), &memos); err != nil {
		return nil, err
	}
	if memos == nil {
		memos = []book.Memo{}
	}
	return memos, nil
}

type createMemoRequest struct {
	Text string `json:"text"`
}

func (c *Client) CreateMemo(ctx context.Context, isbn13, text string) error {
	return c.sendJSON(ctx, "apiclient.CreateMemo", http.MethodPost, memoPath(isbn13), createMemoRequest{Text: text})
}

func (c *Client) DeleteMemo(ctx context.Context, id book.MemoID) error {
	return c.discard(ctx, "apiclient.DeleteMemo", http.MethodDelete, "/memo/"+url.PathEscape(id.String()))
}

// Login posts form-encoded credentials. On success the session cookie is in
// the jar.
func (c *Client) Login(ctx context.Context, email, password string) error {
	return c.postForm(ctx, "apiclient.Login", "/login", email, password)
}

// CreateAccount registers and logs in a new account.
func (c *Client) CreateAccount(ctx context.Context, email, password string) error {
	return c.postForm(ctx, "apiclient.CreateAccount", "/account", email, password)
}

// Logout ends the collaborator session.
func (c *Client) Logout(ctx context.Context) error {
	return c.discard(ctx, "apiclient.Logout", http.MethodGet, "/logout")
}

func memoPath(isbn13 string) string {
	return "/book/" + url.PathEscape(isbn13) + "/memo"
}

func (c *Client) postForm(ctx context.Context, op, path, email, password string) error {
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)
	form.Set("next", nextPage)
	form.Set("failed", failedPage)

	resp, err := c.send(ctx, op, http.MethodPost, path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if isRedirect(resp.StatusCode) {
		if msg, failed := failedRedirect(resp); failed {
			return &StatusError{Op: op, StatusCode: http.StatusBadRequest, Message: msg, kind: ErrBadRequest}
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, op, path string, target any) error {
	resp, err := c.send(ctx, op, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if isRedirect(resp.StatusCode) {
		return &StatusError{Op: op, StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%s: %w: decode: %w", op, ErrTransport, err)
	}
	return nil
}

func (c *Client) sendJSON(ctx context.Context, op, method, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: encode: %w", op, err)
	}
	resp, err := c.send(ctx, op, method, path, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if isRedirect(resp.StatusCode) {
		return &StatusError{Op: op, StatusCode: resp.StatusCode}
	}
	return nil
}

func (c *Client) discard(ctx context.Context, op, method, path string) error {
	resp, err := c.send(ctx, op, method, path, "", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if isRedirect(resp.StatusCode) {
		return &StatusError{Op: op, StatusCode: resp.StatusCode}
	}
	return nil
}

// send performs one request. 2xx and 3xx responses are returned open;
// anything else is drained and turned into a StatusError.
func (c *Client) send(ctx context.Context, op, method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("request failed",
			slog.String("op", op),
			slog.String("method", method),
			slog.String("path", path),
			slog.String("request_id", requestID),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
	}

	slog.Debug("request done",
		slog.String("op", op),
		slog.String("method", method),
		slog.String("path", path),
		slog.String("request_id", requestID),
		slog.Int("status", resp.StatusCode),
	)

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		return resp, nil
	}

	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	return nil, &StatusError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Message:    errorMessage(raw),
		kind:       statusKind(resp.StatusCode),
	}
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
}

// errorMessage pulls a human readable message out of an error body. Both the
// {"detail": "..."} and {"error": {"message": "..."}} shapes are understood.
func errorMessage(raw []byte) string {
	var body errorBody
	if len(raw) == 0 || json.Unmarshal(raw, &body) != nil {
		return ""
	}
	if body.Error.Message != "" {
		return body.Error.Message
	}
	var detail string
	if json.Unmarshal(body.Detail, &detail) == nil {
		return detail
	}
	return ""
}

func isRedirect(code int) bool {
	return code >= 300 && code < 400
}

// failedRedirect reports whether resp redirects to a failure page and
// returns the failed= message it carries.
func failedRedirect(resp *http.Response) (string, bool) {
	loc, err := resp.Location()
	if err != nil {
		return "", false
	}
	q := loc.Query()
	if !q.Has("failed") {
		return "", false
	}
	return q.Get("failed"), true
}
