package book

import (
	"context"
)

//go:generate mockgen -destination=../mocks/mock_ports.go -package=mocks bookmemo/internal/book Repository,MemoRepository,SessionProber

// Repository defines the contract for the collaborator's book endpoints.
type Repository interface {
	ListBooks(ctx context.Context) ([]Book, error)
	CreateBook(ctx context.Context, isbn13 string) error
	DeleteBook(ctx context.Context, isbn13 string) error
}

// MemoRepository defines the contract for the collaborator's memo endpoints.
type MemoRepository interface {
	ListMemos(ctx context.Context, isbn13 string) ([]Memo, error)
	CreateMemo(ctx context.Context, isbn13, text string) error
	DeleteMemo(ctx context.Context, id MemoID) error
}

// SessionProber asks the collaborator whether the ambient session is valid.
type SessionProber interface {
	CheckSession(ctx context.Context) (bool, error)
}
