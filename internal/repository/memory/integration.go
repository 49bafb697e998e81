package memory

import (
	"context"
	"fmt"
	"time"

	"blogsmith/internal/domain"
	"blogsmith/internal/domain/models/integration"
	"blogsmith/internal/domain/repositories"

	"github.com/google/uuid"
)

// WordPressRepository is the in-memory repositories.WordPressIntegrationRepository
type WordPressRepository struct{ s *Store }

// NewWordPressRepository creates a WordPress integration repository over s
func NewWordPressRepository(s *Store) repositories.WordPressIntegrationRepository {
	return &WordPressRepository{s: s}
}

func (r *WordPressRepository) GetByUserID(ctx context.Context, userID string) (*integration.WordPressIntegration, error) {
	defer r.s.lock(ctx)()

	wp, ok := r.s.integrations[userID]
	if !ok {
		return nil, fmt.Errorf("wordpress integration: %w", domain.ErrNotFound)
	}
	return &wp, nil
}

func (r *WordPressRepository) Upsert(ctx context.Context, wp *integration.WordPressIntegration) error {
	defer r.s.lock(ctx)()

	now := time.Now()
	if existing, ok := r.s.integrations[wp.UserID]; ok {
		wp.ID = existing.ID
		wp.CreatedAt = existing.CreatedAt
	} else {
		wp.ID = uuid.NewString()
		wp.CreatedAt = now
	}
	wp.UpdatedAt = now
	r.s.integrations[wp.UserID] = *wp
	return nil
}

func (r *WordPressRepository) Delete(ctx context.Context, userID string) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.integrations[userID]; !ok {
		return fmt.Errorf("wordpress integration: %w", domain.ErrNotFound)
	}
	delete(r.s.integrations, userID)
	return nil
}
