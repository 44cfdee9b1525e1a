package reviews

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"study-backend/internal/artifacts"
	"study-backend/internal/documents"
	"study-backend/internal/shared/server/middleware"
	"study-backend/internal/shared/server/respond"
)

// Handler exposes review endpoints.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/flashcards/:id/review", h.reviewFlashcard)
	rg.POST("/quiz/:id/answer", h.answerQuiz)
	rg.GET("/errorbook", h.errorBook)
	rg.DELETE("/errorbook/:id", h.deleteErrorBookEntry)
	rg.POST("/sessions", h.logSession)
	rg.GET("/reviews/stats", h.stats)
}

type reviewRequest struct {
	Verdict string `json:"verdict" binding:"required"`
}

func (h *Handler) reviewFlashcard(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "verdict is required", nil)
		return
	}
	if err := h.Svc.ReviewFlashcard(c.Request.Context(), userID, c.Param("id"), req.Verdict); err != nil {
		switch {
		case errors.Is(err, ErrInvalidVerdict):
			respond.Error(c, http.StatusBadRequest, "validation_error", "verdict must be one of again, hard, good, easy", nil)
		case errors.Is(err, artifacts.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "flashcard not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to record review", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"recorded": true})
}

type answerRequest struct {
	SelectedIndex *int `json:"selectedIndex" binding:"required"`
}

func (h *Handler) answerQuiz(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SelectedIndex == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "selectedIndex is required", nil)
		return
	}
	result, err := h.Svc.AnswerQuiz(c.Request.Context(), userID, c.Param("id"), *req.SelectedIndex)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidIndex):
			respond.Error(c, http.StatusBadRequest, "validation_error", "selectedIndex is out of range", nil)
		case errors.Is(err, artifacts.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "quiz question not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to record answer", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, result)
}

func (h *Handler) errorBook(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	groups, err := h.Svc.ErrorBook(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load error book", nil)
		return
	}
	respond.JSON(c, http.StatusOK, groups)
}

func (h *Handler) deleteErrorBookEntry(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if err := h.Svc.DeleteErrorBookEntry(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "entry not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete entry", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

type sessionRequest struct {
	DocumentID      string `json:"documentId"`
	Kind            string `json:"kind" binding:"required"`
	DurationSeconds int    `json:"durationSeconds"`
	ItemsReviewed   int    `json:"itemsReviewed"`
}

func (h *Handler) logSession(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "kind is required", nil)
		return
	}
	session, err := h.Svc.LogSession(c.Request.Context(), userID, req.DocumentID, req.Kind, req.DurationSeconds, req.ItemsReviewed)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	respond.JSON(c, http.StatusCreated, session)
}

func (h *Handler) stats(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	stats, err := h.Svc.GetStats(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load stats", nil)
		return
	}
	respond.JSON(c, http.StatusOK, stats)
}
