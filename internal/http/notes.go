package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"quirknotes/internal/domain"
)

type NoteResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Owner     string `json:"owner"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type createNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type editNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (h *Handler) postNote(c *gin.Context) {
	var req createNoteRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}

	note, err := h.notes.CreateNote(c.Request.Context(), subject(c), req.Title, req.Content)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": "Note added successfully.", "insertedId": note.ID})
}

func (h *Handler) getNote(c *gin.Context) {
	note, err := h.notes.GetNote(c.Request.Context(), subject(c), c.Param("noteId"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": noteToResponse(*note)})
}

func (h *Handler) getAllNotes(c *gin.Context) {
	notes, err := h.notes.ListByUser(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]NoteResponse, len(notes))
	for i := range notes {
		resp[i] = noteToResponse(notes[i])
	}
	c.JSON(http.StatusOK, gin.H{"response": resp})
}

func (h *Handler) editNote(c *gin.Context) {
	var req editNoteRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}

	id := c.Param("noteId")
	update := domain.NoteUpdate{Title: req.Title, Content: req.Content}
	if err := h.notes.UpdateNote(c.Request.Context(), subject(c), id, update); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": "Document with ID " + id + " properly updated"})
}

func (h *Handler) deleteNote(c *gin.Context) {
	id := c.Param("noteId")
	if err := h.notes.DeleteNote(c.Request.Context(), subject(c), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": "Document with ID " + id + " properly deleted"})
}

func noteToResponse(note domain.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		Owner:     note.Owner,
		CreatedAt: note.CreatedAt.Format(time.RFC3339),
		UpdatedAt: note.UpdatedAt.Format(time.RFC3339),
	}
}
