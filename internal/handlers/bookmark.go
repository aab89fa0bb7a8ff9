package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"Bookmarker/internal/auth"
	dom "Bookmarker/internal/domain"
	"Bookmarker/internal/dto"
	"Bookmarker/internal/service"

	"github.com/gin-gonic/gin"
)

type BookmarkHandler struct {
	svc *service.BookmarkService
}

func NewBookmarkHandler(svc *service.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{svc: svc}
}

// Create godoc
// @Summary      Create a bookmark
// @Tags         bookmarks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateBookmarkRequest  true  "Bookmark body"
// @Success      201   {object}  dto.BookmarkResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /bookmarks [post]
func (h *BookmarkHandler) Create(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	var req dto.CreateBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.svc.Create(c.Request.Context(), userID, req.Title, req.Description, req.Link)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create bookmark"})
		return
	}
	c.JSON(http.StatusCreated, bookmarkToResponse(b))
}

// List godoc
// @Summary      List own bookmarks
// @Tags         bookmarks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   dto.BookmarkResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /bookmarks [get]
func (h *BookmarkHandler) List(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	list, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookmarks"})
		return
	}
	c.JSON(http.StatusOK, bookmarksToResponses(list))
}

// GetByID godoc
// @Summary      Get a bookmark by ID
// @Tags         bookmarks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Bookmark ID"
// @Success      200  {object}  dto.BookmarkResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /bookmarks/{id} [get]
func (h *BookmarkHandler) GetByID(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	b, err := h.svc.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			// Absent and not-owned look the same: an empty result, not an error.
			c.JSON(http.StatusOK, nil)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load bookmark"})
		return
	}
	c.JSON(http.StatusOK, bookmarkToResponse(b))
}

// Edit godoc
// @Summary      Edit a bookmark
// @Tags         bookmarks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Bookmark ID"
// @Param        body  body      dto.EditBookmarkRequest  true  "Partial update"
// @Success      200   {object}  dto.BookmarkResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /bookmarks/{id} [patch]
func (h *BookmarkHandler) Edit(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.EditBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.svc.Edit(c.Request.Context(), userID, id, req.Title, req.Description, req.Link)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to edit bookmark"})
		return
	}
	c.JSON(http.StatusOK, bookmarkToResponse(b))
}

// Delete godoc
// @Summary      Delete a bookmark
// @Tags         bookmarks
// @Security     BearerAuth
// @Param        id   path  int  true  "Bookmark ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /bookmarks/{id} [delete]
func (h *BookmarkHandler) Delete(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete bookmark"})
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func bookmarkToResponse(b dom.Bookmark) dto.BookmarkResponse {
	return dto.BookmarkResponse{
		ID:          b.ID,
		UserID:      b.UserID,
		Title:       b.Title,
		Description: b.Description,
		Link:        b.Link,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// bookmarksToResponses always returns a non-nil slice so an empty list
// serializes as [] rather than null.
func bookmarksToResponses(list []dom.Bookmark) []dto.BookmarkResponse {
	out := make([]dto.BookmarkResponse, len(list))
	for i := range list {
		out[i] = bookmarkToResponse(list[i])
	}
	return out
}
