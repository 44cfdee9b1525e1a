package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"study-backend/internal/shared/server/middleware"
	"study-backend/internal/shared/server/respond"
	"study-backend/internal/shared/telemetry"
)

// Handler serves the admin stats endpoint. Routes must be registered
// behind middleware.RequireAdmin.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/admin/stats", middleware.RequireAdmin(), h.stats)
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		telemetry.Error("admin.stats_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to collect stats", nil)
		return
	}
	respond.JSON(c, http.StatusOK, stats)
}
