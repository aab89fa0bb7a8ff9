package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Bookmarker/internal/auth"
	dom "Bookmarker/internal/domain"
	"Bookmarker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// In-memory repos mirroring the real pgx repos' error behavior.

type memUserRepo struct {
	seq   int64
	users map[int64]dom.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]dom.User)}
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (dom.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (m *memUserRepo) GetByID(_ context.Context, id int64) (dom.User, error) {
	u, ok := m.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (m *memUserRepo) Create(_ context.Context, email, passwordHash string) (dom.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return dom.User{}, &pgconn.PgError{Code: "23505"}
		}
	}
	m.seq++
	u := dom.User{
		ID:           m.seq,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *memUserRepo) Update(_ context.Context, id int64, patch dom.User) (dom.User, error) {
	u, ok := m.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	for otherID, other := range m.users {
		if otherID != id && other.Email == patch.Email {
			return dom.User{}, &pgconn.PgError{Code: "23505"}
		}
	}
	u.Email = patch.Email
	u.FirstName = patch.FirstName
	u.LastName = patch.LastName
	u.UpdatedAt = time.Now().UTC()
	m.users[id] = u
	return u, nil
}

type memBookmarkRepo struct {
	seq   int64
	items map[int64]dom.Bookmark
}

func newMemBookmarkRepo() *memBookmarkRepo {
	return &memBookmarkRepo{items: make(map[int64]dom.Bookmark)}
}

func (m *memBookmarkRepo) Create(_ context.Context, b dom.Bookmark) (dom.Bookmark, error) {
	m.seq++
	b.ID = m.seq
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	m.items[b.ID] = b
	return b, nil
}

func (m *memBookmarkRepo) GetByID(_ context.Context, id int64) (dom.Bookmark, error) {
	b, ok := m.items[id]
	if !ok {
		return dom.Bookmark{}, pgx.ErrNoRows
	}
	return b, nil
}

func (m *memBookmarkRepo) GetByIDForUser(_ context.Context, userID, id int64) (dom.Bookmark, error) {
	b, ok := m.items[id]
	if !ok || b.UserID != userID {
		return dom.Bookmark{}, pgx.ErrNoRows
	}
	return b, nil
}

func (m *memBookmarkRepo) List(_ context.Context, userID int64) ([]dom.Bookmark, error) {
	var list []dom.Bookmark
	for _, b := range m.items {
		if b.UserID == userID {
			list = append(list, b)
		}
	}
	return list, nil
}

func (m *memBookmarkRepo) Update(_ context.Context, id int64, patch dom.Bookmark) (dom.Bookmark, error) {
	b, ok := m.items[id]
	if !ok {
		return dom.Bookmark{}, pgx.ErrNoRows
	}
	b.Title = patch.Title
	b.Description = patch.Description
	b.Link = patch.Link
	b.UpdatedAt = time.Now().UTC()
	m.items[id] = b
	return b, nil
}

func (m *memBookmarkRepo) Delete(_ context.Context, id int64) error {
	delete(m.items, id)
	return nil
}

// newTestRouter wires the handlers over in-memory repos the same way
// app.Setup wires them over Postgres. Caching is off.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()

	tokens := auth.NewTokenManager("test-secret", 15*time.Minute)
	userSvc := service.NewUserService(newMemUserRepo())
	authHandler := NewAuthHandler(tokens, userSvc)
	r.POST("/auth/signup", authHandler.Signup)
	r.POST("/auth/signin", authHandler.Signin)

	protected := r.Group("", auth.RequireAuth(tokens))

	userHandler := NewUserHandler(userSvc)
	protected.GET("/users/get-self", userHandler.GetSelf)
	protected.PATCH("/users/edit", userHandler.Edit)

	bookmarkSvc := service.NewBookmarkService(newMemBookmarkRepo(), nil)
	bookmarkHandler := NewBookmarkHandler(bookmarkSvc)
	protected.POST("/bookmarks", bookmarkHandler.Create)
	protected.GET("/bookmarks", bookmarkHandler.List)
	protected.GET("/bookmarks/:id", bookmarkHandler.GetByID)
	protected.PATCH("/bookmarks/:id", bookmarkHandler.Edit)
	protected.DELETE("/bookmarks/:id", bookmarkHandler.Delete)

	return r
}

// doJSON performs a request against the test router. A non-empty token goes
// into the Authorization header; a nil body sends no payload.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// signup registers a user and returns the access token.
func signup(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/auth/signup", "", gin.H{"email": email, "password": password})
	if w.Code != http.StatusCreated {
		t.Fatalf("signup(%s) status = %d, body %s", email, w.Code, w.Body.String())
	}
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("signup(%s) response: %v", email, err)
	}
	if resp.AccessToken == "" {
		t.Fatalf("signup(%s) returned empty token", email)
	}
	return resp.AccessToken
}
