package billing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"blogsmith/internal/domain"
	"blogsmith/internal/domain/repositories"
	"blogsmith/internal/domain/services"
	"blogsmith/internal/metrics"
)

// ledgerService implements the LedgerService interface
type ledgerService struct {
	ledgerRepo repositories.LedgerRepository
	logger     *slog.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(ledgerRepo repositories.LedgerRepository, logger *slog.Logger) services.LedgerService {
	return &ledgerService{ledgerRepo: ledgerRepo, logger: logger}
}

// Credit adds amount tokens to the user's balance and returns the new balance
func (s *ledgerService) Credit(ctx context.Context, userID string, amount int64, source string) (int64, error) {
	if strings.TrimSpace(userID) == "" {
		return 0, &domain.MissingParameterError{Param: "userId"}
	}
	if amount <= 0 {
		return 0, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}

	balance, err := s.ledgerRepo.Credit(ctx, userID, amount)
	if err != nil {
		return 0, fmt.Errorf("credit tokens: %w", err)
	}

	metrics.TokensCredited.WithLabelValues(source).Add(float64(amount))
	s.logger.Info("tokens credited",
		"user_id", userID,
		"amount", amount,
		"source", source,
		"balance", balance,
	)

	return balance, nil
}

func (s *ledgerService) Balance(ctx context.Context, userID string) (int64, error) {
	return s.ledgerRepo.GetBalance(ctx, userID)
}
