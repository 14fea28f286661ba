package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quirknotes/internal/domain"
	"quirknotes/internal/repository"
	"quirknotes/internal/repository/memory"
)

func ptr(s string) *string { return &s }

func newNoteFixture(t *testing.T, opts NoteServiceOptions, usernames ...string) (NoteService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	for _, name := range usernames {
		require.NoError(t, store.Users().Create(context.Background(), &domain.User{Username: name, PasswordHash: "x"}))
	}
	return NewNoteService(store.Notes(), store.Users(), opts), store
}

func TestCreateNote(t *testing.T) {
	ctx := context.Background()
	svc, _ := newNoteFixture(t, NoteServiceOptions{}, "alice")

	note, err := svc.CreateNote(ctx, "alice", "Groceries", "milk")
	require.NoError(t, err)
	assert.Equal(t, "alice", note.Owner)
	_, err = uuid.Parse(note.ID)
	require.NoError(t, err)

	_, err = svc.CreateNote(ctx, "alice", "", "milk")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.CreateNote(ctx, "alice", "Groceries", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.CreateNote(ctx, "ghost", "Groceries", "milk")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestGetNote_RepeatedReadsAreIdentical(t *testing.T) {
	ctx := context.Background()
	svc, _ := newNoteFixture(t, NoteServiceOptions{}, "alice")

	created, err := svc.CreateNote(ctx, "alice", "t", "c")
	require.NoError(t, err)

	first, err := svc.GetNote(ctx, "alice", created.ID)
	require.NoError(t, err)
	second, err := svc.GetNote(ctx, "alice", created.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "t", first.Title)
	assert.Equal(t, "c", first.Content)
	assert.Equal(t, "alice", first.Owner)
}

func TestGetNote_InvalidAndMissing(t *testing.T) {
	ctx := context.Background()
	svc, _ := newNoteFixture(t, NoteServiceOptions{}, "alice")

	_, err := svc.GetNote(ctx, "alice", "not-an-id")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.GetNote(ctx, "alice", uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOwnershipEnforced(t *testing.T) {
	ctx := context.Background()
	svc, _ := newNoteFixture(t, NoteServiceOptions{}, "alice", "bob")

	note, err := svc.CreateNote(ctx, "alice", "secret", "plans")
	require.NoError(t, err)

	_, err = svc.GetNote(ctx, "bob", note.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = svc.UpdateNote(ctx, "bob", note.ID, domain.NoteUpdate{Title: ptr("mine now")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = svc.DeleteNote(ctx, "bob", note.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := svc.GetNote(ctx, "alice", note.ID)
	require.NoError(t, err)
	assert.Equal(t, "secret", got.Title)
	assert.Equal(t, "alice", got.Owner)
}

func TestOwnershipEnforced_HideForeignNotes(t *testing.T) {
	ctx := context.Background()
	svc, _ := newNoteFixture(t, NoteServiceOptions{HideForeignNotes: true}, "alice", "bob")

	note, err := svc.CreateNote(ctx, "alice", "secret", "plans")
	require.NoError(t, err)

	_, foreign := svc.GetNote(ctx, "bob", note.ID)
	_, missing := svc.GetNote(ctx, "bob", uuid.NewString())

	require.ErrorIs(t, foreign, domain.ErrNotFound)
	require.ErrorIs(t, missing, domain.ErrNotFound)
	assert.Equal(t, missing.Error(), foreign.Error())
	assert.ErrorIs(t, svc.DeleteNote(ctx, "bob", note.ID), domain.ErrNotFound)
}

func TestUpdateNote_Partial(t *testing.T) {
	ctx := context.Background()
	svc, _ := newNoteFixture(t, NoteServiceOptions{}, "alice")

	note, err := svc.CreateNote(ctx, "alice", "old", "body")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateNote(ctx, "alice", note.ID, domain.NoteUpdate{Title: ptr("X")}))

	got, err := svc.GetNote(ctx, "alice", note.ID)
	require.NoError(t, err)
	assert.Equal(t, "X", got.Title)
	assert.Equal(t, "body", got.Content)

	require.NoError(t, svc.UpdateNote(ctx, "alice", note.ID, domain.NoteUpdate{Title: ptr(""), Content: ptr("new body")}))
	got, err = svc.GetNote(ctx, "alice", note.ID)
	require.NoError(t, err)
	assert.Equal(t, "X", got.Title)
	assert.Equal(t, "new body", got.Content)
}

func TestUpdateNote_Failures(t *testing.T) {
	ctx := context.Background()
	svc, _ := newNoteFixture(t, NoteServiceOptions{}, "alice")

	note, err := svc.CreateNote(ctx, "alice", "t", "c")
	require.NoError(t, err)

	err = svc.UpdateNote(ctx, "alice", "bad-id", domain.NoteUpdate{Title: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = svc.UpdateNote(ctx, "alice", note.ID, domain.NoteUpdate{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = svc.UpdateNote(ctx, "alice", note.ID, domain.NoteUpdate{Title: ptr(""), Content: ptr("")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = svc.UpdateNote(ctx, "alice", uuid.NewString(), domain.NoteUpdate{Title: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.UpdateNote(ctx, "alice", note.ID, domain.NoteUpdate{Title: ptr("t")})
	assert.ErrorIs(t, err, domain.ErrNoChange)
}

func TestDeleteNote_IsFinal(t *testing.T) {
	ctx := context.Background()
	svc, _ := newNoteFixture(t, NoteServiceOptions{}, "alice")

	note, err := svc.CreateNote(ctx, "alice", "t", "c")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteNote(ctx, "alice", note.ID))

	_, err = svc.GetNote(ctx, "alice", note.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteNote(ctx, "alice", note.ID), domain.ErrNotFound)
}

func TestListByUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newNoteFixture(t, NoteServiceOptions{}, "alice", "bob")

	empty, err := svc.ListByUser(ctx, "bob")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = svc.CreateNote(ctx, "alice", "one", "1")
	require.NoError(t, err)
	_, err = svc.CreateNote(ctx, "alice", "two", "2")
	require.NoError(t, err)
	_, err = svc.CreateNote(ctx, "bob", "other", "3")
	require.NoError(t, err)

	notes, err := svc.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	for _, n := range notes {
		assert.Equal(t, "alice", n.Owner)
	}

	_, err = svc.ListByUser(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.ListByUser(ctx, "carol")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGroceriesScenario(t *testing.T) {
	ctx := context.Background()
	svc, _ := newNoteFixture(t, NoteServiceOptions{}, "alice")

	n1, err := svc.CreateNote(ctx, "alice", "Groceries", "milk")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateNote(ctx, "alice", n1.ID, domain.NoteUpdate{Content: ptr("milk, eggs")}))

	got, err := svc.GetNote(ctx, "alice", n1.ID)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Title)
	assert.Equal(t, "milk, eggs", got.Content)
	assert.Equal(t, "alice", got.Owner)

	require.NoError(t, svc.DeleteNote(ctx, "alice", n1.ID))
	_, err = svc.GetNote(ctx, "alice", n1.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// racyNotes reports the note as present but loses every mutation, as if the
// owner deleted it between the check and the write.
type racyNotes struct {
	repository.NoteRepository
}

func (r racyNotes) Update(context.Context, string, string, domain.NoteUpdate) (bool, error) {
	return false, nil
}

func (r racyNotes) Delete(context.Context, string, string) (bool, error) {
	return false, nil
}

func TestMutationLostToConcurrentDelete(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Users().Create(ctx, &domain.User{Username: "alice", PasswordHash: "x"}))
	svc := NewNoteService(racyNotes{store.Notes()}, store.Users(), NoteServiceOptions{})

	note, err := svc.CreateNote(ctx, "alice", "t", "c")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.UpdateNote(ctx, "alice", note.ID, domain.NoteUpdate{Title: ptr("new")}), domain.ErrNoChange)
	assert.ErrorIs(t, svc.DeleteNote(ctx, "alice", note.ID), domain.ErrDeleteFailed)
}
