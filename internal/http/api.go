package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"quirknotes/internal/domain"
	"quirknotes/internal/service"
)

// TokenVerifier resolves a session token to its username.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users  service.UserService
	notes  service.NoteService
	tokens TokenVerifier
	logger *logrus.Logger
}

func NewHandler(users service.UserService, notes service.NoteService, tokens TokenVerifier, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:  users,
		notes:  notes,
		tokens: tokens,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware(), requestLogger(h.logger))

	router.POST("/registerUser", h.registerUser)
	router.POST("/loginUser", h.loginUser)

	authed := router.Group("/", h.requireAuth())
	{
		authed.POST("/postNote", h.postNote)
		authed.GET("/getNote/:noteId", h.getNote)
		authed.GET("/getAllNotes/:username", h.getAllNotes)
		authed.GET("/getAllNotes/", h.getAllNotes)
		authed.PATCH("/editNote/:noteId", h.editNote)
		authed.DELETE("/deleteNote/:noteId", h.deleteNote)
	}

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) registerUser(c *gin.Context) {
	var req credentialsRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}

	token, err := h.users.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"response": "User registered successfully.", "token": token})
}

func (h *Handler) loginUser(c *gin.Context) {
	var req credentialsRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}

	token, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": "User logged in successfully.", "token": token})
}

// bindJSON decodes the request body into dst.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return fmt.Errorf("%w: request body must be a JSON object", domain.ErrInvalidInput)
	}
	return nil
}

// writeError maps domain errors onto status codes. Credential failures carry
// no detail beyond a fixed message.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAuthFailed):
		c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrAuthFailed.Error()})
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrUnauthenticated.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNoChange), errors.Is(err, domain.ErrDeleteFailed):
		h.logger.WithField("path", c.FullPath()).Warn(err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		h.logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
