package book

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned when the collaborator cannot resolve an ISBN-13.
var ErrNotFound = errors.New("book not found")

// ErrAlreadyRegistered is returned when the ISBN-13 is already in the library.
var ErrAlreadyRegistered = errors.New("book already registered")

// Book represents a registered book. ISBN13 is the only stable key.
type Book struct {
	ISBN13        string   `json:"isbn_13"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Description   string   `json:"description"`
	ImageURL      string   `json:"image_url"`
	Publisher     string   `json:"publisher"`
	PublishedDate string   `json:"published_date"`
}

// MainAuthor returns the first author, suffixed with an ellipsis when there are more.
func (b Book) MainAuthor() string {
	switch len(b.Authors) {
	case 0:
		return ""
	case 1:
		return b.Authors[0]
	default:
		return b.Authors[0] + " ..."
	}
}

// MemoID is the collaborator-assigned memo identifier. The server may send it
// as a JSON string or a JSON number.
type MemoID string

func (id *MemoID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = MemoID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("memo id: %w", err)
	}
	*id = MemoID(n.String())
	return nil
}

func (id MemoID) String() string {
	return string(id)
}

// Memo is a free-text note attached to exactly one book.
type Memo struct {
	ID   MemoID `json:"id"`
	Text string `json:"text"`
}
