package book

import (
	"github.com/go-playground/validator/v10"
)

// ISBN13Length is the only rule an ISBN-13 input has to pass. There is no
// checksum or digit validation.
const ISBN13Length = 13

var validate = validator.New()

// CreateRequest is the body of POST /book.
type CreateRequest struct {
	ISBN13 string `json:"isbn_13" validate:"len=13"`
}

// ValidISBN13 reports whether s is accepted as an ISBN-13 input.
func ValidISBN13(s string) bool {
	return validate.Struct(CreateRequest{ISBN13: s}) == nil
}
