package domain

import "time"

// Domain entity: does not depend on Gin, Postgres or Redis.
// UserID is set once at creation and never changes afterwards.
type Bookmark struct {
	ID          int64
	UserID      int64
	Title       string
	Description *string
	Link        string

	CreatedAt time.Time
	UpdatedAt time.Time
}
