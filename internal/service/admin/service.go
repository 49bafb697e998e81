// Package admin implements operator views over the identity provider's users.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"blogsmith/internal/domain"
	"blogsmith/internal/domain/models"
	"blogsmith/internal/domain/repositories"
	"blogsmith/internal/domain/services"

	"golang.org/x/sync/errgroup"
)

// adminService implements the AdminService interface
type adminService struct {
	directory services.UserDirectory
	postRepo  repositories.PostRepository
	logger    *slog.Logger
}

// NewService creates a new admin service
func NewService(directory services.UserDirectory, postRepo repositories.PostRepository, logger *slog.Logger) services.AdminService {
	return &adminService{directory: directory, postRepo: postRepo, logger: logger}
}

// ListUsers joins directory users with their post counts
func (s *adminService) ListUsers(ctx context.Context, caller *models.SupabaseClaims) ([]models.AdminUser, error) {
	if caller == nil || !caller.IsAdmin() {
		return nil, &domain.ForbiddenError{Message: "Forbidden"}
	}

	var (
		users  []services.DirectoryUser
		counts map[string]int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.directory.ListUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.postRepo.CountByUser(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]models.AdminUser, 0, len(users))
	for _, u := range users {
		role, _ := u.AppMetadata["role"].(string)
		if role == "" {
			role = "user"
		}
		name, _ := u.UserMetadata["full_name"].(string)
		if name == "" {
			name, _ = u.UserMetadata["name"].(string)
		}
		out = append(out, models.AdminUser{
			ID:           u.ID,
			Email:        u.Email,
			Name:         name,
			Role:         role,
			CreatedAt:    u.CreatedAt,
			LastSignInAt: u.LastSignInAt,
			BlogCount:    counts[u.ID],
		})
	}

	s.logger.Info("admin listed users", "caller_id", caller.GetUserID(), "count", len(out))
	return out, nil
}

// GrantAdmin merges role=admin into the user's existing app metadata
func (s *adminService) GrantAdmin(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}

	user, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	metadata := make(map[string]interface{}, len(user.AppMetadata)+1)
	for k, v := range user.AppMetadata {
		metadata[k] = v
	}
	metadata["role"] = models.RoleAdmin

	if err := s.directory.UpdateAppMetadata(ctx, user.ID, metadata); err != nil {
		return err
	}

	s.logger.Info("admin role granted", "user_id", user.ID, "email", user.Email)
	return nil
}
