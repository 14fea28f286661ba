package domain

import "time"

// Note is a text note owned by exactly one user.
type Note struct {
	ID        string
	Title     string
	Content   string
	Owner     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NoteUpdate carries the fields of a partial edit. A nil or empty field is left untouched.
type NoteUpdate struct {
	Title   *string
	Content *string
}

// Normalize drops empty fields so that only provided values remain.
func (u NoteUpdate) Normalize() NoteUpdate {
	out := NoteUpdate{}
	if u.Title != nil && *u.Title != "" {
		out.Title = u.Title
	}
	if u.Content != nil && *u.Content != "" {
		out.Content = u.Content
	}
	return out
}

// Empty reports whether no field is provided.
func (u NoteUpdate) Empty() bool {
	n := u.Normalize()
	return n.Title == nil && n.Content == nil
}

// Apply returns a copy of note with the provided fields replaced.
func (u NoteUpdate) Apply(note Note) Note {
	n := u.Normalize()
	if n.Title != nil {
		note.Title = *n.Title
	}
	if n.Content != nil {
		note.Content = *n.Content
	}
	return note
}
