package repository

import (
	"context"

	"quirknotes/internal/domain"
)

// NoteRepository exposes persistence operations for notes.
//
// Create assigns the note id. Update and Delete match on both id and owner and
// report whether a row was actually changed; they never insert.
type NoteRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, note *domain.Note) (string, error)
	Get(ctx context.Context, id string) (*domain.Note, error)
	ListByOwner(ctx context.Context, owner string) ([]domain.Note, error)
	Update(ctx context.Context, id, owner string, update domain.NoteUpdate) (bool, error)
	Delete(ctx context.Context, id, owner string) (bool, error)
}
