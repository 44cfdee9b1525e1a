package documents

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"study-backend/internal/shared/server/middleware"
	"study-backend/internal/shared/server/respond"
	"study-backend/internal/usage"
	"study-backend/internal/youtube"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document and folder routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.upload)
	rg.POST("/documents/youtube", h.createFromYouTube)
	rg.GET("/documents", h.list)
	rg.GET("/documents/:id", h.get)
	rg.DELETE("/documents/:id", h.delete)
	rg.POST("/folders", h.createFolder)
	rg.GET("/folders", h.listFolders)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	folderID := c.PostForm("folderId")
	doc, err := h.Svc.Upload(c.Request.Context(), userID, fileHeader.Filename, folderID, fileHeader.Size, file)
	if err != nil {
		h.writeError(c, err, "failed to upload document")
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(doc))
}

type youtubeRequest struct {
	URL      string `json:"url" binding:"required"`
	FolderID string `json:"folderId"`
}

func (h *Handler) createFromYouTube(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req youtubeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "url is required", nil)
		return
	}

	doc, educational, err := h.Svc.CreateFromYouTube(c.Request.Context(), userID, req.URL, req.FolderID)
	if err != nil {
		var tooLong *VideoTooLongError
		switch {
		case errors.As(err, &tooLong):
			respond.Error(c, http.StatusBadRequest, "video_too_long", tooLong.Error(), gin.H{
				"measuredDuration": youtube.FormatMinutes(tooLong.Measured),
				"maxDuration":      youtube.FormatMinutes(tooLong.Max),
			})
		case errors.Is(err, youtube.ErrInvalidURL):
			respond.Error(c, http.StatusBadRequest, "validation_error", "not a recognizable YouTube URL", nil)
		case errors.Is(err, youtube.ErrNotFound):
			respond.Error(c, http.StatusBadRequest, "validation_error", "video not found", nil)
		default:
			h.writeError(c, err, "failed to add video")
		}
		return
	}

	resp := toResponse(doc)
	respond.JSON(c, http.StatusCreated, gin.H{
		"document":    resp,
		"educational": educational,
	})
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	docs, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.writeError(c, err, "failed to list documents")
		return
	}
	resp := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, toResponse(doc))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	doc, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to fetch document")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(doc))
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.writeError(c, err, "failed to delete document")
		return
	}
	c.Status(http.StatusNoContent)
}

type folderRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) createFolder(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req folderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "name is required", nil)
		return
	}
	folder, err := h.Svc.CreateFolder(c.Request.Context(), userID, req.Name)
	if err != nil {
		h.writeError(c, err, "failed to create folder")
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{
		"id":        folder.ID,
		"name":      folder.Name,
		"createdAt": folder.CreatedAt,
	})
}

func (h *Handler) listFolders(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	folders, err := h.Svc.ListFolders(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err, "failed to list folders")
		return
	}
	resp := make([]gin.H, 0, len(folders))
	for _, folder := range folders {
		resp = append(resp, gin.H{
			"id":        folder.ID,
			"name":      folder.Name,
			"createdAt": folder.CreatedAt,
		})
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnsupportedType):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, usage.ErrLimitReached):
		respond.Error(c, http.StatusTooManyRequests, "limit_reached", "daily document limit reached", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
