package publisher

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"blogsmith/internal/domain"
	"blogsmith/internal/domain/models/blog"
	"blogsmith/internal/domain/repositories"
	"blogsmith/internal/domain/services"
	"blogsmith/internal/repository/memory"
	"blogsmith/internal/service/converter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "user-1"

// fakeWordPress records the last post body and answers like the WP REST API
type fakeWordPress struct {
	srv      *httptest.Server
	calls    atomic.Int32
	lastBody map[string]any
	status   int
	reply    string
}

func newFakeWordPress(t *testing.T) *fakeWordPress {
	t.Helper()
	f := &fakeWordPress{status: http.StatusCreated}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /wp-json/wp/v2/posts", func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "editor", user)
		assert.Equal(t, "app pass word", pass)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		f.lastBody = body
		if f.status != http.StatusCreated {
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.reply))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":42,"link":"https://wp.test/?p=42","status":"` + f.lastBody["status"].(string) + `"}`))
	})
	mux.HandleFunc("GET /wp-json/wp/v2/categories", func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		_, _, ok := r.BasicAuth()
		assert.True(t, ok)
		_, _ = w.Write([]byte(`[{"id":1,"name":"Uncategorized","slug":"uncategorized","count":3},{"id":7,"name":"Go","slug":"go","count":1}]`))
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

type fixture struct {
	svc   services.PublisherService
	wp    *fakeWordPress
	posts repositories.PostRepository
	cats  repositories.CategoryRepository
}

func newFixture(t *testing.T, connect bool) *fixture {
	t.Helper()
	store := memory.NewStore()
	posts := memory.NewPostRepository(store)
	svc := NewService(
		memory.NewWordPressRepository(store),
		posts,
		converter.NewMarkdownRenderer(),
		5*time.Second,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	f := &fixture{svc: svc, wp: newFakeWordPress(t), posts: posts, cats: memory.NewCategoryRepository(store)}
	if connect {
		_, err := svc.SaveIntegration(context.Background(), testUserID, &services.SaveIntegrationRequest{
			WPURL:         f.wp.srv.URL + "/",
			WPUsername:    "editor",
			WPAppPassword: "app pass word",
		})
		require.NoError(t, err)
	}
	return f
}

func TestPublishDraft(t *testing.T) {
	f := newFixture(t, true)

	ref, err := f.svc.Publish(context.Background(), testUserID, &services.PublishRequest{
		Title:   "Hello",
		Content: "# Heading\n\nSome **bold** text.<script>alert(1)</script>",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(42), ref.ID)
	assert.Equal(t, "draft", ref.Status)
	assert.Equal(t, "https://wp.test/?p=42", ref.Link)

	body := f.wp.lastBody
	assert.Equal(t, "Hello", body["title"])
	assert.Equal(t, "draft", body["status"])
	assert.Equal(t, []any{}, body["categories"])
	assert.NotContains(t, body, "date")

	html := body["content"].(string)
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "<strong>bold</strong>")
	assert.NotContains(t, html, "<script")
}

func TestPublishFuture(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.svc.Publish(context.Background(), testUserID, &services.PublishRequest{
		Title:      "Later",
		Content:    "body",
		Status:     "future",
		Date:       "2030-01-02T09:00:00",
		Categories: []int64{7},
	})
	require.NoError(t, err)

	assert.Equal(t, "2030-01-02T09:00:00", f.wp.lastBody["date"])
	assert.Equal(t, []any{float64(7)}, f.wp.lastBody["categories"])
}

func TestPublishDateOnlyForFuture(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.svc.Publish(context.Background(), testUserID, &services.PublishRequest{
		Title: "Now", Content: "body", Status: "publish", Date: "2030-01-02T09:00:00Z",
	})
	require.NoError(t, err)
	assert.NotContains(t, f.wp.lastBody, "date")
}

func TestPublishValidatesBeforeAnyCall(t *testing.T) {
	tests := []struct {
		name    string
		connect bool
		req     services.PublishRequest
		target  error
	}{
		{name: "future without date", connect: true, req: services.PublishRequest{Title: "T", Content: "c", Status: "future"}, target: domain.ErrValidation},
		{name: "future with bad date", connect: true, req: services.PublishRequest{Title: "T", Content: "c", Status: "future", Date: "next tuesday"}, target: domain.ErrValidation},
		{name: "unknown status", connect: true, req: services.PublishRequest{Title: "T", Content: "c", Status: "pending"}, target: domain.ErrValidation},
		{name: "missing title", connect: true, req: services.PublishRequest{Content: "c"}, target: domain.ErrValidation},
		{name: "missing content", connect: true, req: services.PublishRequest{Title: "T"}, target: domain.ErrValidation},
		{name: "future without date and no integration", req: services.PublishRequest{Title: "T", Content: "c", Status: "future"}, target: domain.ErrValidation},
		{name: "no integration", req: services.PublishRequest{Title: "T", Content: "c"}, target: domain.ErrNoIntegration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.connect)
			_, err := f.svc.Publish(context.Background(), testUserID, &tt.req)
			require.ErrorIs(t, err, tt.target)
			assert.Zero(t, f.wp.calls.Load())
		})
	}
}

func TestPublishRelaysWordPressError(t *testing.T) {
	f := newFixture(t, true)
	f.wp.status = http.StatusUnauthorized
	f.wp.reply = `{"code":"rest_cannot_create","message":"Sorry, you are not allowed to create posts as this user."}`

	_, err := f.svc.Publish(context.Background(), testUserID, &services.PublishRequest{Title: "T", Content: "c"})

	var pubErr *domain.PublishError
	require.ErrorAs(t, err, &pubErr)
	assert.Equal(t, http.StatusUnauthorized, pubErr.StatusCode())
	assert.Equal(t, f.wp.reply, pubErr.Body)
}

func TestPublishStoredPost(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	cat, err := f.cats.EnsureGlobal(ctx, "General", "general")
	require.NoError(t, err)
	post := &blog.Post{UserID: testUserID, Title: "Stored", Slug: "stored", Content: "stored *body*", Status: blog.PostStatusDraft, CategoryID: cat.ID}
	require.NoError(t, f.posts.Create(ctx, post))

	_, err = f.svc.Publish(ctx, testUserID, &services.PublishRequest{PostID: post.ID})
	require.NoError(t, err)
	assert.Equal(t, "Stored", f.wp.lastBody["title"])
	assert.Contains(t, f.wp.lastBody["content"], "<em>body</em>")

	_, err = f.svc.Publish(ctx, "user-2", &services.PublishRequest{PostID: post.ID})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListRemoteCategories(t *testing.T) {
	f := newFixture(t, true)

	categories, err := f.svc.ListRemoteCategories(context.Background(), testUserID)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "go", categories[1].Slug)

	_, err = f.svc.ListRemoteCategories(context.Background(), "user-2")
	require.ErrorIs(t, err, domain.ErrNoIntegration)
}

func TestIntegrationLifecycle(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	got, err := f.svc.GetIntegration(ctx, testUserID)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = f.svc.SaveIntegration(ctx, testUserID, &services.SaveIntegrationRequest{})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "Missing WordPress site URL", err.Error())

	_, err = f.svc.SaveIntegration(ctx, testUserID, &services.SaveIntegrationRequest{WPURL: "wp.example.com"})
	require.ErrorIs(t, err, domain.ErrValidation)

	saved, err := f.svc.SaveIntegration(ctx, testUserID, &services.SaveIntegrationRequest{
		WPURL: "https://wp.example.com/", WPUsername: "a", WPAppPassword: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://wp.example.com", saved.WPURL)

	replaced, err := f.svc.SaveIntegration(ctx, testUserID, &services.SaveIntegrationRequest{WPURL: "https://other.example.com"})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, replaced.ID)

	got, err = f.svc.GetIntegration(ctx, testUserID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.WPAppPassword)
	assert.Empty(t, got.WPUsername)

	encoded, err := json.Marshal(got)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(encoded), "wp_app_password"))

	require.NoError(t, f.svc.DeleteIntegration(ctx, testUserID))
	require.ErrorIs(t, f.svc.DeleteIntegration(ctx, testUserID), domain.ErrNotFound)
}
