package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	dom "Bookmarker/internal/domain"
	"Bookmarker/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"

	"Bookmarker/internal/cache"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned for a missing bookmark and for someone
	// else's bookmark alike; the two cases are not distinguishable from
	// the outside.
	ErrForbidden = errors.New("access denied")
)

type BookmarkService struct {
	repo  repo.BookmarkRepo
	cache *cache.BookmarkCache
	sf    singleflight.Group
}

// NewBookmarkService creates a BookmarkService. If c is nil, caching is disabled.
func NewBookmarkService(r repo.BookmarkRepo, c *cache.BookmarkCache) *BookmarkService {
	return &BookmarkService{repo: r, cache: c}
}

// Create stores a new bookmark. The owner is always the authenticated caller,
// never caller-supplied input.
func (s *BookmarkService) Create(ctx context.Context, userID int64, title string, desc *string, link string) (dom.Bookmark, error) {
	title = strings.TrimSpace(title)
	link = strings.TrimSpace(link)

	b, err := s.repo.Create(ctx, dom.Bookmark{
		UserID:      userID,
		Title:       title,
		Description: desc,
		Link:        link,
	})
	if err != nil {
		return dom.Bookmark{}, err
	}
	s.invalidateCache(ctx, userID)
	return b, nil
}

// List returns all bookmarks owned by the user.
func (s *BookmarkService) List(ctx context.Context, userID int64) ([]dom.Bookmark, error) {
	if s.cache != nil {
		key := "list:" + strconv.FormatInt(userID, 10)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx, userID); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx, userID)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, userID, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Bookmark), nil
	}
	return s.repo.List(ctx, userID)
}

// GetByID returns the bookmark only when both the ID and the owner match.
func (s *BookmarkService) GetByID(ctx context.Context, userID, id int64) (dom.Bookmark, error) {
	b, err := s.repo.GetByIDForUser(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Bookmark{}, ErrNotFound
		}
		return dom.Bookmark{}, err
	}
	return b, nil
}

// Edit fetches the bookmark by ID alone, rejects it unless the caller owns
// it, then applies only the supplied fields.
func (s *BookmarkService) Edit(ctx context.Context, userID, id int64, title, desc, link *string) (dom.Bookmark, error) {
	existing, err := s.checkOwnership(ctx, userID, id)
	if err != nil {
		return dom.Bookmark{}, err
	}
	patch := existing
	if title != nil {
		patch.Title = strings.TrimSpace(*title)
	}
	if desc != nil {
		patch.Description = desc
	}
	if link != nil {
		patch.Link = strings.TrimSpace(*link)
	}
	b, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Bookmark{}, ErrForbidden
		}
		return dom.Bookmark{}, err
	}
	s.invalidateCache(ctx, userID)
	return b, nil
}

// Delete removes the bookmark after the same ownership check as Edit.
func (s *BookmarkService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.checkOwnership(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx, userID)
	return nil
}

// checkOwnership loads the bookmark by ID and verifies the caller owns it.
// A missing bookmark and an ownership mismatch produce the same error.
func (s *BookmarkService) checkOwnership(ctx context.Context, userID, id int64) (dom.Bookmark, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Bookmark{}, ErrForbidden
		}
		return dom.Bookmark{}, err
	}
	if b.UserID != userID {
		return dom.Bookmark{}, ErrForbidden
	}
	return b, nil
}

func (s *BookmarkService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
}
