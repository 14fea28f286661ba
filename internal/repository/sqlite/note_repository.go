package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"quirknotes/internal/domain"
	"quirknotes/internal/repository"
)

const createNotesTable = `
CREATE TABLE IF NOT EXISTS notes (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	owner TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY(owner) REFERENCES users(username)
);
CREATE INDEX IF NOT EXISTS idx_notes_owner ON notes(owner);
`

type NoteRepository struct {
	db *sql.DB
}

func NewNoteRepository(db *sql.DB) repository.NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createNotesTable); err != nil {
		return fmt.Errorf("create notes table: %w", err)
	}
	return nil
}

func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) (string, error) {
	now := time.Now().UTC()
	note.ID = uuid.NewString()
	note.CreatedAt = now
	note.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO notes (id, title, content, owner, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		note.ID,
		note.Title,
		note.Content,
		note.Owner,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return "", fmt.Errorf("%w: no account for %q", domain.ErrUnauthenticated, note.Owner)
		}
		return "", fmt.Errorf("insert note: %w", err)
	}
	return note.ID, nil
}

func (r *NoteRepository) Get(ctx context.Context, id string) (*domain.Note, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, content, owner, created_at, updated_at
FROM notes
WHERE id = ?`,
		id,
	)
	return scanNote(row)
}

func (r *NoteRepository) ListByOwner(ctx context.Context, owner string) ([]domain.Note, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, content, owner, created_at, updated_at
FROM notes
WHERE owner = ?
ORDER BY created_at ASC, id ASC`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	notes := []domain.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *note)
	}
	return notes, rows.Err()
}

// Update only counts a row as modified when one of the provided values differs
// from what is stored.
func (r *NoteRepository) Update(ctx context.Context, id, owner string, update domain.NoteUpdate) (bool, error) {
	update = update.Normalize()
	title, content := nullString(update.Title), nullString(update.Content)

	res, err := r.db.ExecContext(ctx, `
UPDATE notes
SET title = COALESCE(?, title), content = COALESCE(?, content), updated_at = ?
WHERE id = ? AND owner = ? AND (title <> COALESCE(?, title) OR content <> COALESCE(?, content))`,
		title,
		content,
		time.Now().UTC(),
		id,
		owner,
		title,
		content,
	)
	if err != nil {
		return false, fmt.Errorf("update note: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("note update rows affected: %w", err)
	}
	return aff > 0, nil
}

func (r *NoteRepository) Delete(ctx context.Context, id, owner string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ? AND owner = ?`, id, owner)
	if err != nil {
		return false, fmt.Errorf("delete note: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("note delete rows affected: %w", err)
	}
	return aff > 0, nil
}

func scanNote(scanner interface {
	Scan(dest ...any) error
}) (*domain.Note, error) {
	var note domain.Note
	if err := scanner.Scan(
		&note.ID,
		&note.Title,
		&note.Content,
		&note.Owner,
		&note.CreatedAt,
		&note.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan note: %w", err)
	}
	return &note, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
