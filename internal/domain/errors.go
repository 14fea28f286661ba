package domain

import "errors"

var (
	// ErrInvalidInput reports malformed or missing fields and ids.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict is returned when a username is already registered.
	ErrConflict = errors.New("username already exists")
	// ErrAuthFailed covers both an unknown user and a wrong password.
	ErrAuthFailed = errors.New("authentication failed")
	// ErrUnauthenticated means the request carried no usable credential.
	ErrUnauthenticated = errors.New("unauthorized")
	// ErrTokenInvalid is returned for bad signatures, malformed payloads and expired tokens.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrForbidden means the note belongs to someone else.
	ErrForbidden = errors.New("forbidden")
	ErrNotFound  = errors.New("not found")
	// ErrNoChange is returned when an update modified nothing.
	ErrNoChange = errors.New("no changes made")
	// ErrDeleteFailed is returned when a delete removed nothing after the note was found.
	ErrDeleteFailed = errors.New("failed to delete note")
)
