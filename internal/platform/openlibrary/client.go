// Package openlibrary resolves ISBNs against the Open Library books API.
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bookmemo/internal/book"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://openlibrary.org"

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
}

type Option func(*Client)

// WithBaseURL points the client at another Open Library compatible host.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(userAgent string, rps int, maxRetries int, opts ...Option) *Client {
	if rps <= 0 {
		rps = 1
	}
	c := &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent:  userAgent,
		baseURL:    defaultBaseURL,
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: maxRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type Publisher struct {
	Name string `json:"name"`
}

// BookDetails matches api/books?jscmd=data
type BookDetails struct {
	Title       string      `json:"title"`
	Subtitle    string      `json:"subtitle"`
	Publishers  []Publisher `json:"publishers"`
	PublishDate string      `json:"publish_date"`
	Cover       struct {
		Large  string `json:"large"`
		Medium string `json:"medium"`
	} `json:"cover"`
	Authors []struct {
		URL  string `json:"url"`
		Name string `json:"name"`
	} `json:"authors"`
	Notes   json.RawMessage `json:"notes"` // string or {type, value}
	Excerpt []struct {
		Text string `json:"text"`
	} `json:"excerpts"`
}

func (c *Client) GetBooksByISBN(ctx context.Context, isbns []string) (map[string]BookDetails, error) {
	if len(isbns) == 0 {
		return nil, nil
	}

	bibkeys := make([]string, len(isbns))
	for i, isbn := range isbns {
		bibkeys[i] = "ISBN:" + isbn
	}

	u := fmt.Sprintf("%s/api/books?bibkeys=%s&jscmd=data&format=json",
		c.baseURL, strings.Join(bibkeys, ","))

	var res map[string]BookDetails
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// Resolve looks up a single ISBN-13. Unknown ISBNs yield book.ErrNotFound.
func (c *Client) Resolve(ctx context.Context, isbn13 string) (book.Book, error) {
	const op = "openlibrary.Client.Resolve"

	res, err := c.GetBooksByISBN(ctx, []string{isbn13})
	if err != nil {
		return book.Book{}, fmt.Errorf("%s: %w", op, err)
	}
	details, ok := res["ISBN:"+isbn13]
	if !ok {
		slog.Debug("isbn unknown upstream", slog.String("op", op), slog.String("isbn_13", isbn13))
		return book.Book{}, book.ErrNotFound
	}
	return details.toBook(isbn13), nil
}

func (d BookDetails) toBook(isbn13 string) book.Book {
	b := book.Book{
		ISBN13:        isbn13,
		Title:         d.Title,
		Description:   d.description(),
		ImageURL:      d.Cover.Large,
		PublishedDate: d.PublishDate,
	}
	if d.Subtitle != "" {
		b.Title += ": " + d.Subtitle
	}
	if b.ImageURL == "" {
		b.ImageURL = d.Cover.Medium
	}
	for _, a := range d.Authors {
		b.Authors = append(b.Authors, a.Name)
	}
	if len(d.Publishers) > 0 {
		b.Publisher = d.Publishers[0].Name
	}
	return b
}

func (d BookDetails) description() string {
	if len(d.Notes) > 0 {
		var s string
		if json.Unmarshal(d.Notes, &s) == nil {
			return s
		}
		var typed struct {
			Value string `json:"value"`
		}
		if json.Unmarshal(d.Notes, &typed) == nil && typed.Value != "" {
			return typed.Value
		}
	}
	if len(d.Excerpt) > 0 {
		return d.Excerpt[0].Text
	}
	return ""
}

func (c *Client) get(ctx context.Context, url string, target interface{}) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		retry, err := c.getOnce(ctx, url, target)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) getOnce(ctx context.Context, url string, target interface{}) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500, err
	}

	return false, json.NewDecoder(resp.Body).Decode(target)
}
