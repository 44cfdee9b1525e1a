package artifacts

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"study-backend/internal/shared/server/middleware"
	"study-backend/internal/shared/server/respond"
)

// Handler serves generated artifacts for a document.
type Handler struct {
	Repo Repo
}

func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/documents/:id/summary", h.summary)
	rg.GET("/documents/:id/notes", h.notes)
	rg.PUT("/documents/:id/notes", h.updateNotes)
	rg.GET("/documents/:id/flashcards", h.flashcards)
	rg.GET("/documents/:id/quiz", h.quiz)
}

func (h *Handler) summary(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	s, err := h.Repo.GetSummary(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to load summary")
		return
	}
	respond.JSON(c, http.StatusOK, s)
}

func (h *Handler) notes(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	n, err := h.Repo.GetNote(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to load notes")
		return
	}
	respond.JSON(c, http.StatusOK, n)
}

type updateNotesRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handler) updateNotes(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req updateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "content is required", nil)
		return
	}
	n, err := h.Repo.UpdateNoteContent(c.Request.Context(), userID, c.Param("id"), req.Content)
	if err != nil {
		h.writeError(c, err, "failed to update notes")
		return
	}
	respond.JSON(c, http.StatusOK, n)
}

func (h *Handler) flashcards(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	cards, err := h.Repo.ListFlashcards(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to load flashcards")
		return
	}
	if cards == nil {
		cards = []Flashcard{}
	}
	respond.JSON(c, http.StatusOK, cards)
}

func (h *Handler) quiz(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	questions, err := h.Repo.ListQuizQuestions(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to load quiz")
		return
	}
	if questions == nil {
		questions = []QuizQuestion{}
	}
	respond.JSON(c, http.StatusOK, questions)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "not_found", "artifact not found", nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
}
