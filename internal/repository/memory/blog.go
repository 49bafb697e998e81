package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"blogsmith/internal/domain"
	"blogsmith/internal/domain/models/blog"
	"blogsmith/internal/domain/repositories"

	"github.com/google/uuid"
)

// OutlineRepository is the in-memory repositories.OutlineRepository
type OutlineRepository struct{ s *Store }

// NewOutlineRepository creates an outline repository over s
func NewOutlineRepository(s *Store) repositories.OutlineRepository {
	return &OutlineRepository{s: s}
}

func (r *OutlineRepository) Create(ctx context.Context, outline *blog.Outline) error {
	defer r.s.lock(ctx)()

	if outline.PostID != nil {
		if _, ok := r.s.posts[*outline.PostID]; !ok {
			return fmt.Errorf("blog post %s: %w", *outline.PostID, domain.ErrNotFound)
		}
	}

	outline.ID = uuid.NewString()
	outline.CreatedAt = time.Now()
	outline.KeyPoints = cloneOrEmpty(outline.KeyPoints)

	stored := *outline
	stored.Feedback = nil
	r.s.outlines[stored.ID] = stored
	r.s.outlineOrder = append(r.s.outlineOrder, stored.ID)
	return nil
}

func (r *OutlineRepository) GetByID(ctx context.Context, id, userID string) (*blog.Outline, error) {
	defer r.s.lock(ctx)()

	o, ok := r.s.outlines[id]
	if !ok || o.UserID != userID {
		return nil, fmt.Errorf("outline %s: %w", id, domain.ErrNotFound)
	}
	o.KeyPoints = slices.Clone(o.KeyPoints)
	return &o, nil
}

func (r *OutlineRepository) List(ctx context.Context, userID, postID string) ([]blog.Outline, error) {
	defer r.s.lock(ctx)()

	outlines := []blog.Outline{}
	for i := len(r.s.outlineOrder) - 1; i >= 0; i-- {
		o := r.s.outlines[r.s.outlineOrder[i]]
		if o.UserID != userID {
			continue
		}
		if postID != "" && (o.PostID == nil || *o.PostID != postID) {
			continue
		}
		o.KeyPoints = slices.Clone(o.KeyPoints)
		outlines = append(outlines, o)
	}
	return outlines, nil
}

// FeedbackRepository is the in-memory repositories.FeedbackRepository
type FeedbackRepository struct{ s *Store }

// NewFeedbackRepository creates a feedback repository over s
func NewFeedbackRepository(s *Store) repositories.FeedbackRepository {
	return &FeedbackRepository{s: s}
}

func (r *FeedbackRepository) Create(ctx context.Context, feedback *blog.Feedback) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.outlines[feedback.OutlineID]; !ok {
		return fmt.Errorf("outline %s: %w", feedback.OutlineID, domain.ErrNotFound)
	}

	feedback.ID = uuid.NewString()
	feedback.CreatedAt = time.Now()
	r.s.feedback[feedback.ID] = *feedback
	r.s.feedbackSeq = append(r.s.feedbackSeq, feedback.ID)
	return nil
}

func (r *FeedbackRepository) ListByOutlines(ctx context.Context, outlineIDs []string) ([]blog.Feedback, error) {
	defer r.s.lock(ctx)()

	feedback := []blog.Feedback{}
	for _, id := range r.s.feedbackSeq {
		f := r.s.feedback[id]
		if slices.Contains(outlineIDs, f.OutlineID) {
			feedback = append(feedback, f)
		}
	}
	return feedback, nil
}

// PostRepository is the in-memory repositories.PostRepository
type PostRepository struct{ s *Store }

// NewPostRepository creates a post repository over s
func NewPostRepository(s *Store) repositories.PostRepository {
	return &PostRepository{s: s}
}

func (r *PostRepository) Create(ctx context.Context, post *blog.Post) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.categories[post.CategoryID]; !ok {
		return fmt.Errorf("category %s: %w", post.CategoryID, domain.ErrNotFound)
	}

	post.ID = uuid.NewString()
	r.s.posts[post.ID] = *post
	r.s.postOrder = append(r.s.postOrder, post.ID)
	return nil
}

func (r *PostRepository) Update(ctx context.Context, post *blog.Post) error {
	defer r.s.lock(ctx)()

	existing, ok := r.s.posts[post.ID]
	if !ok || existing.UserID != post.UserID {
		return fmt.Errorf("post %s: %w", post.ID, domain.ErrNotFound)
	}
	if _, ok := r.s.categories[post.CategoryID]; !ok {
		return fmt.Errorf("category %s: %w", post.CategoryID, domain.ErrNotFound)
	}

	existing.Title = post.Title
	existing.Slug = post.Slug
	existing.Content = post.Content
	existing.Status = post.Status
	existing.CategoryID = post.CategoryID
	existing.UpdatedAt = post.UpdatedAt
	r.s.posts[post.ID] = existing

	post.CreatedAt = existing.CreatedAt
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id, userID string) (*blog.Post, error) {
	defer r.s.lock(ctx)()

	p, ok := r.s.posts[id]
	if !ok || p.UserID != userID {
		return nil, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

func (r *PostRepository) List(ctx context.Context, userID string) ([]blog.Post, error) {
	defer r.s.lock(ctx)()

	posts := []blog.Post{}
	for i := len(r.s.postOrder) - 1; i >= 0; i-- {
		if p := r.s.posts[r.s.postOrder[i]]; p.UserID == userID {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

func (r *PostRepository) Delete(ctx context.Context, id, userID string) error {
	defer r.s.lock(ctx)()

	p, ok := r.s.posts[id]
	if !ok || p.UserID != userID {
		return fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}

	delete(r.s.posts, id)
	r.s.postOrder = slices.DeleteFunc(slices.Clone(r.s.postOrder), func(s string) bool { return s == id })

	// blog_post_id is ON DELETE SET NULL
	for oid, o := range r.s.outlines {
		if o.PostID != nil && *o.PostID == id {
			o.PostID = nil
			r.s.outlines[oid] = o
		}
	}
	return nil
}

func (r *PostRepository) CountByUser(ctx context.Context) (map[string]int, error) {
	defer r.s.lock(ctx)()

	counts := make(map[string]int)
	for _, p := range r.s.posts {
		counts[p.UserID]++
	}
	return counts, nil
}

// CategoryRepository is the in-memory repositories.CategoryRepository
type CategoryRepository struct{ s *Store }

// NewCategoryRepository creates a category repository over s
func NewCategoryRepository(s *Store) repositories.CategoryRepository {
	return &CategoryRepository{s: s}
}

func (r *CategoryRepository) Create(ctx context.Context, category *blog.Category) error {
	defer r.s.lock(ctx)()

	for _, c := range r.s.categories {
		if c.Slug == category.Slug && sameOwner(c.UserID, category.UserID) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("category '%s' already exists", category.Slug),
				ResourceType: "category",
				ResourceID:   c.ID,
			}
		}
	}

	category.ID = uuid.NewString()
	category.CreatedAt = time.Now()
	r.s.categories[category.ID] = *category
	return nil
}

func (r *CategoryRepository) GetVisible(ctx context.Context, id, userID string) (*blog.Category, error) {
	defer r.s.lock(ctx)()

	c, ok := r.s.categories[id]
	if !ok || !c.VisibleTo(userID) {
		return nil, fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
	}
	return &c, nil
}

func (r *CategoryRepository) ListVisible(ctx context.Context, userID string) ([]blog.Category, error) {
	defer r.s.lock(ctx)()

	categories := []blog.Category{}
	for _, c := range r.s.categories {
		if c.VisibleTo(userID) {
			categories = append(categories, c)
		}
	}

	sort.Slice(categories, func(i, j int) bool {
		if categories[i].IsGlobal() != categories[j].IsGlobal() {
			return categories[i].IsGlobal()
		}
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

func (r *CategoryRepository) EnsureGlobal(ctx context.Context, name, slug string) (*blog.Category, error) {
	defer r.s.lock(ctx)()

	for _, c := range r.s.categories {
		if c.IsGlobal() && c.Slug == slug {
			return &c, nil
		}
	}

	c := blog.Category{ID: uuid.NewString(), Name: name, Slug: slug, CreatedAt: time.Now()}
	r.s.categories[c.ID] = c
	return &c, nil
}

func sameOwner(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func cloneOrEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return slices.Clone(in)
}
