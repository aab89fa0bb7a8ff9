package dto

import "time"

// CreateBookmarkRequest is the JSON body for POST /bookmarks.
type CreateBookmarkRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=120"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Link        string  `json:"link" binding:"required"`
}

// EditBookmarkRequest is the JSON body for PATCH /bookmarks/:id.
// nil = leave unchanged, value = set.
type EditBookmarkRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=120"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Link        *string `json:"link" binding:"omitempty,min=1"`
}

type BookmarkResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Link        string    `json:"link"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
