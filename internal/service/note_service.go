package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"quirknotes/internal/domain"
	"quirknotes/internal/repository"
)

// NoteService runs note operations on behalf of an already verified subject.
type NoteService interface {
	CreateNote(ctx context.Context, subject, title, content string) (*domain.Note, error)
	GetNote(ctx context.Context, subject, id string) (*domain.Note, error)
	ListByUser(ctx context.Context, target string) ([]domain.Note, error)
	UpdateNote(ctx context.Context, subject, id string, update domain.NoteUpdate) error
	DeleteNote(ctx context.Context, subject, id string) error
}

// NoteServiceOptions tunes the ownership policy.
type NoteServiceOptions struct {
	// HideForeignNotes reports a note owned by someone else as not found
	// instead of forbidden, so its existence is not revealed.
	HideForeignNotes bool
}

type noteService struct {
	notes repository.NoteRepository
	users repository.UserRepository
	opts  NoteServiceOptions
}

func NewNoteService(notes repository.NoteRepository, users repository.UserRepository, opts NoteServiceOptions) NoteService {
	return &noteService{
		notes: notes,
		users: users,
		opts:  opts,
	}
}

func (s *noteService) CreateNote(ctx context.Context, subject, title, content string) (*domain.Note, error) {
	if title == "" || content == "" {
		return nil, fmt.Errorf("%w: title and content are both required", domain.ErrInvalidInput)
	}

	note := &domain.Note{
		Title:   title,
		Content: content,
		Owner:   subject,
	}
	if _, err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *noteService) GetNote(ctx context.Context, subject, id string) (*domain.Note, error) {
	return s.authorize(ctx, subject, id)
}

func (s *noteService) ListByUser(ctx context.Context, target string) ([]domain.Note, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}

	exists, err := s.users.Exists(ctx, target)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: no user named %q", domain.ErrNotFound, target)
	}

	return s.notes.ListByOwner(ctx, target)
}

func (s *noteService) UpdateNote(ctx context.Context, subject, id string, update domain.NoteUpdate) error {
	if _, err := parseNoteID(id); err != nil {
		return err
	}
	if update.Empty() {
		return fmt.Errorf("%w: no changes provided", domain.ErrInvalidInput)
	}

	note, err := s.authorize(ctx, subject, id)
	if err != nil {
		return err
	}

	modified, err := s.notes.Update(ctx, note.ID, subject, update)
	if err != nil {
		return err
	}
	if !modified {
		return domain.ErrNoChange
	}
	return nil
}

func (s *noteService) DeleteNote(ctx context.Context, subject, id string) error {
	note, err := s.authorize(ctx, subject, id)
	if err != nil {
		return err
	}

	deleted, err := s.notes.Delete(ctx, note.ID, subject)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrDeleteFailed
	}
	return nil
}

// authorize loads the note and checks ownership. Existence is checked first.
func (s *noteService) authorize(ctx context.Context, subject, id string) (*domain.Note, error) {
	id, err := parseNoteID(id)
	if err != nil {
		return nil, err
	}

	note, err := s.notes.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unable to find note with given id", domain.ErrNotFound)
		}
		return nil, err
	}

	if note.Owner != subject {
		if s.opts.HideForeignNotes {
			return nil, fmt.Errorf("%w: unable to find note with given id", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: note belongs to another user", domain.ErrForbidden)
	}
	return note, nil
}

// parseNoteID checks that id is a UUID and returns its canonical form.
func parseNoteID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: invalid note id", domain.ErrInvalidInput)
	}
	return parsed.String(), nil
}
