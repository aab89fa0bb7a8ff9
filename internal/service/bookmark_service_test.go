package service

import (
	"context"
	"errors"
	"testing"
	"time"

	dom "Bookmarker/internal/domain"

	"github.com/jackc/pgx/v5"
)

// In-memory BookmarkRepo for testing. Misses surface as pgx.ErrNoRows, like
// the real repo.
type fakeBookmarkRepo struct {
	seq   int64
	items map[int64]dom.Bookmark
}

func newFakeBookmarkRepo() *fakeBookmarkRepo {
	return &fakeBookmarkRepo{items: make(map[int64]dom.Bookmark)}
}

func (f *fakeBookmarkRepo) Create(_ context.Context, b dom.Bookmark) (dom.Bookmark, error) {
	f.seq++
	b.ID = f.seq
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	f.items[b.ID] = b
	return b, nil
}

func (f *fakeBookmarkRepo) GetByID(_ context.Context, id int64) (dom.Bookmark, error) {
	b, ok := f.items[id]
	if !ok {
		return dom.Bookmark{}, pgx.ErrNoRows
	}
	return b, nil
}

func (f *fakeBookmarkRepo) GetByIDForUser(_ context.Context, userID, id int64) (dom.Bookmark, error) {
	b, ok := f.items[id]
	if !ok || b.UserID != userID {
		return dom.Bookmark{}, pgx.ErrNoRows
	}
	return b, nil
}

func (f *fakeBookmarkRepo) List(_ context.Context, userID int64) ([]dom.Bookmark, error) {
	var list []dom.Bookmark
	for _, b := range f.items {
		if b.UserID == userID {
			list = append(list, b)
		}
	}
	return list, nil
}

func (f *fakeBookmarkRepo) Update(_ context.Context, id int64, patch dom.Bookmark) (dom.Bookmark, error) {
	b, ok := f.items[id]
	if !ok {
		return dom.Bookmark{}, pgx.ErrNoRows
	}
	b.Title = patch.Title
	b.Description = patch.Description
	b.Link = patch.Link
	b.UpdatedAt = time.Now().UTC()
	f.items[id] = b
	return b, nil
}

func (f *fakeBookmarkRepo) Delete(_ context.Context, id int64) error {
	delete(f.items, id)
	return nil
}

func strPtr(s string) *string { return &s }

func TestCreateForcesOwner(t *testing.T) {
	svc := NewBookmarkService(newFakeBookmarkRepo(), nil)

	b, err := svc.Create(context.Background(), 1, "  t  ", nil, " https://x ")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if b.UserID != 1 {
		t.Errorf("Create() owner = %d, want 1", b.UserID)
	}
	if b.ID == 0 {
		t.Error("Create() did not assign an ID")
	}
	if b.Title != "t" || b.Link != "https://x" {
		t.Errorf("Create() did not trim fields: title=%q link=%q", b.Title, b.Link)
	}
}

func TestGetByIDScopedToOwner(t *testing.T) {
	repo := newFakeBookmarkRepo()
	svc := NewBookmarkService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "t", nil, "https://x")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if _, err := svc.GetByID(ctx, 1, created.ID); err != nil {
		t.Errorf("GetByID(owner) error: %v", err)
	}
	if _, err := svc.GetByID(ctx, 2, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(other user) error = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetByID(ctx, 1, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestEditOwnershipCheck(t *testing.T) {
	repo := newFakeBookmarkRepo()
	svc := NewBookmarkService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "t", nil, "https://x")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// Someone else's bookmark and a missing bookmark fail identically.
	if _, err := svc.Edit(ctx, 2, created.ID, strPtr("stolen"), nil, nil); !errors.Is(err, ErrForbidden) {
		t.Errorf("Edit(other user) error = %v, want ErrForbidden", err)
	}
	if _, err := svc.Edit(ctx, 1, 999, strPtr("x"), nil, nil); !errors.Is(err, ErrForbidden) {
		t.Errorf("Edit(missing) error = %v, want ErrForbidden", err)
	}
	if got := repo.items[created.ID].Title; got != "t" {
		t.Errorf("rejected edit mutated the record: title = %q", got)
	}
}

func TestEditPartialUpdate(t *testing.T) {
	repo := newFakeBookmarkRepo()
	svc := NewBookmarkService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "original", strPtr("desc"), "https://x")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	updated, err := svc.Edit(ctx, 1, created.ID, strPtr("renamed"), nil, nil)
	if err != nil {
		t.Fatalf("Edit() error: %v", err)
	}
	if updated.Title != "renamed" {
		t.Errorf("title = %q, want %q", updated.Title, "renamed")
	}
	if updated.Description == nil || *updated.Description != "desc" {
		t.Errorf("description changed: %v", updated.Description)
	}
	if updated.Link != "https://x" {
		t.Errorf("link changed: %q", updated.Link)
	}
	if updated.UserID != 1 {
		t.Errorf("owner changed: %d", updated.UserID)
	}
}

func TestEditNoOpWhenSameValues(t *testing.T) {
	repo := newFakeBookmarkRepo()
	svc := NewBookmarkService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "t", nil, "https://x")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	updated, err := svc.Edit(ctx, 1, created.ID, strPtr("t"), nil, strPtr("https://x"))
	if err != nil {
		t.Fatalf("Edit() error: %v", err)
	}
	if updated.Title != created.Title || updated.Link != created.Link {
		t.Errorf("no-op edit changed fields: %+v", updated)
	}
}

func TestDeleteOwnershipCheck(t *testing.T) {
	repo := newFakeBookmarkRepo()
	svc := NewBookmarkService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "t", nil, "https://x")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := svc.Delete(ctx, 2, created.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Delete(other user) error = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, 1, 999); !errors.Is(err, ErrForbidden) {
		t.Errorf("Delete(missing) error = %v, want ErrForbidden", err)
	}
	if _, ok := repo.items[created.ID]; !ok {
		t.Fatal("rejected delete removed the record")
	}

	if err := svc.Delete(ctx, 1, created.ID); err != nil {
		t.Fatalf("Delete(owner) error: %v", err)
	}
	if _, ok := repo.items[created.ID]; ok {
		t.Error("Delete(owner) left the record in place")
	}
}

func TestListScopedToOwner(t *testing.T) {
	repo := newFakeBookmarkRepo()
	svc := NewBookmarkService(repo, nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, 1, "a", nil, "https://a"); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := svc.Create(ctx, 1, "b", nil, "https://b"); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := svc.Create(ctx, 2, "c", nil, "https://c"); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	list, err := svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List(user 1) returned %d bookmarks, want 2", len(list))
	}
	for _, b := range list {
		if b.UserID != 1 {
			t.Errorf("List(user 1) leaked bookmark owned by %d", b.UserID)
		}
	}
}

func TestDeleteShrinksListByOne(t *testing.T) {
	repo := newFakeBookmarkRepo()
	svc := NewBookmarkService(repo, nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, 1, "a", nil, "https://a")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := svc.Create(ctx, 1, "b", nil, "https://b"); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := svc.Delete(ctx, 1, first.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	list, err := svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("List() after delete returned %d bookmarks, want 1", len(list))
	}
	if list[0].ID == first.ID {
		t.Error("deleted bookmark still listed")
	}
}
