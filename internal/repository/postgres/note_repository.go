package postgres

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

type NoteRepository struct {
	db *sql.DB
}

func NewNoteRepository(db *sql.DB) repository.NoteRepository {
	return &NoteRepository{db: db}
}

// Init is a no-op, the schema comes from Migrate.
func (r *NoteRepository) Init(ctx context.Context) error {
	return nil
}

func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) (string, error) {
	now := time.Now().UTC()
	note.ID = uuid.NewString()
	note.CreatedAt = now
	note.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notes (id, title, content, owner, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		note.ID, note.Title, note.Content, note.Owner, note.CreatedAt, note.UpdatedAt,
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
	note := &domain.Note{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, content, owner, created_at, updated_at FROM notes WHERE id = $1`,
		id,
	).Scan(&note.ID, &note.Title, &note.Content, &note.Owner, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select note: %w", err)
	}
	return note, nil
}

func (r *NoteRepository) ListByOwner(ctx context.Context, owner string) ([]domain.Note, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, content, owner, created_at, updated_at FROM notes
		 WHERE owner = $1
		 ORDER BY created_at, id`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	notes := []domain.Note{}
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.Owner, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return notes, nil
}

func (r *NoteRepository) Update(ctx context.Context, id, owner string, update domain.NoteUpdate) (bool, error) {
	update = update.Normalize()

	res, err := r.db.ExecContext(ctx,
		`UPDATE notes
		 SET title = COALESCE($1, title), content = COALESCE($2, content), updated_at = $3
		 WHERE id = $4 AND owner = $5
		   AND (title IS DISTINCT FROM COALESCE($1, title) OR content IS DISTINCT FROM COALESCE($2, content))`,
		nullString(update.Title), nullString(update.Content), time.Now().UTC(), id, owner,
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1 AND owner = $2`, id, owner)
	if err != nil {
		return false, fmt.Errorf("delete note: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("note delete rows affected: %w", err)
	}
	return aff > 0, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
