// Package memory keeps users and notes in process memory. It backs the
// "memory" database driver and the service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"quirknotes/internal/domain"
	"quirknotes/internal/repository"
)

// Store holds both collections behind one lock so that every operation is atomic.
type Store struct {
	mu    sync.RWMutex
	users map[string]domain.User
	notes map[string]domain.Note
}

func NewStore() *Store {
	return &Store{
		users: make(map[string]domain.User),
		notes: make(map[string]domain.Note),
	}
}

// Users returns the credential view of the store.
func (s *Store) Users() repository.UserRepository { return &userRepo{s} }

// Notes returns the note view of the store.
func (s *Store) Notes() repository.NoteRepository { return &noteRepo{s} }

type userRepo struct{ s *Store }

func (r *userRepo) Init(context.Context) error { return nil }

func (r *userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.Username]; ok {
		return domain.ErrConflict
	}
	user.CreatedAt = time.Now().UTC()
	r.s.users[user.Username] = *user
	return nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) Exists(_ context.Context, username string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.users[username]
	return ok, nil
}

type noteRepo struct{ s *Store }

func (r *noteRepo) Init(context.Context) error { return nil }

func (r *noteRepo) Create(_ context.Context, note *domain.Note) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[note.Owner]; !ok {
		return "", fmt.Errorf("%w: no account for %q", domain.ErrUnauthenticated, note.Owner)
	}

	now := time.Now().UTC()
	note.ID = uuid.NewString()
	note.CreatedAt = now
	note.UpdatedAt = now
	r.s.notes[note.ID] = *note
	return note.ID, nil
}

func (r *noteRepo) Get(_ context.Context, id string) (*domain.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n, ok := r.s.notes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &n, nil
}

func (r *noteRepo) ListByOwner(_ context.Context, owner string) ([]domain.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	notes := []domain.Note{}
	for _, n := range r.s.notes {
		if n.Owner == owner {
			notes = append(notes, n)
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].ID < notes[j].ID
		}
		return notes[i].CreatedAt.Before(notes[j].CreatedAt)
	})
	return notes, nil
}

func (r *noteRepo) Update(_ context.Context, id, owner string, update domain.NoteUpdate) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notes[id]
	if !ok || n.Owner != owner {
		return false, nil
	}
	updated := update.Apply(n)
	if updated.Title == n.Title && updated.Content == n.Content {
		return false, nil
	}
	updated.UpdatedAt = time.Now().UTC()
	r.s.notes[id] = updated
	return true, nil
}

func (r *noteRepo) Delete(_ context.Context, id, owner string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notes[id]
	if !ok || n.Owner != owner {
		return false, nil
	}
	delete(r.s.notes, id)
	return true, nil
}
