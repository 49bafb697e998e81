package admin

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"blogsmith/internal/domain"
	"blogsmith/internal/domain/models"
	"blogsmith/internal/domain/models/blog"
	"blogsmith/internal/domain/services"
	"blogsmith/internal/repository/memory"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	users   []services.DirectoryUser
	updates map[string]map[string]interface{}
}

func (f *fakeDirectory) ListUsers(ctx context.Context) ([]services.DirectoryUser, error) {
	return f.users, nil
}

func (f *fakeDirectory) FindByEmail(ctx context.Context, email string) (*services.DirectoryUser, error) {
	for i := range f.users {
		if strings.EqualFold(f.users[i].Email, email) {
			return &f.users[i], nil
		}
	}
	return nil, &domain.NotFoundError{Message: "user not found"}
}

func (f *fakeDirectory) UpdateAppMetadata(ctx context.Context, userID string, md map[string]interface{}) error {
	if f.updates == nil {
		f.updates = make(map[string]map[string]interface{})
	}
	f.updates[userID] = md
	return nil
}

func claims(sub, role string) *models.SupabaseClaims {
	return &models.SupabaseClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: sub},
		AppMetadata:      map[string]interface{}{"role": role},
	}
}

func setup(t *testing.T) (services.AdminService, *fakeDirectory) {
	t.Helper()
	store := memory.NewStore()
	categories := memory.NewCategoryRepository(store)
	posts := memory.NewPostRepository(store)

	cat, err := categories.EnsureGlobal(context.Background(), "General", "general")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, posts.Create(context.Background(), &blog.Post{
			UserID: "u1", Title: "p", Slug: "p", Content: "c", Status: blog.PostStatusDraft, CategoryID: cat.ID,
		}))
	}

	dir := &fakeDirectory{users: []services.DirectoryUser{
		{ID: "u1", Email: "writer@example.com", UserMetadata: map[string]interface{}{"full_name": "Wren Writer"}, AppMetadata: map[string]interface{}{"provider": "email"}},
		{ID: "u2", Email: "admin@example.com", AppMetadata: map[string]interface{}{"role": "admin"}},
	}}
	return NewService(dir, posts, slog.New(slog.NewTextHandler(io.Discard, nil))), dir
}

func TestListUsers(t *testing.T) {
	svc, _ := setup(t)

	users, err := svc.ListUsers(context.Background(), claims("u2", models.RoleAdmin))
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, "Wren Writer", users[0].Name)
	assert.Equal(t, "user", users[0].Role)
	assert.Equal(t, 3, users[0].BlogCount)
	assert.Equal(t, models.RoleAdmin, users[1].Role)
	assert.Zero(t, users[1].BlogCount)
}

func TestListUsersForbidden(t *testing.T) {
	svc, _ := setup(t)

	for _, caller := range []*models.SupabaseClaims{nil, claims("u1", ""), claims("u1", "editor")} {
		_, err := svc.ListUsers(context.Background(), caller)
		require.ErrorIs(t, err, domain.ErrForbidden)
	}
}

func TestGrantAdminMergesMetadata(t *testing.T) {
	svc, dir := setup(t)

	require.NoError(t, svc.GrantAdmin(context.Background(), "Writer@Example.com"))
	assert.Equal(t, map[string]interface{}{"provider": "email", "role": "admin"}, dir.updates["u1"])
	assert.NotContains(t, dir.users[0].AppMetadata, "role", "existing metadata must not be mutated")

	require.ErrorIs(t, svc.GrantAdmin(context.Background(), "ghost@example.com"), domain.ErrNotFound)
	require.ErrorIs(t, svc.GrantAdmin(context.Background(), " "), domain.ErrValidation)
}
