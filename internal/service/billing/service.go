// Package billing implements the token ledger and the Stripe checkout and webhook bridge.
package billing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"blogsmith/internal/domain"
	"blogsmith/internal/domain/models/billing"
	"blogsmith/internal/domain/repositories"
	"blogsmith/internal/domain/services"
	"blogsmith/internal/plans"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/sync/errgroup"
)

// Repositories groups the stores the bridge writes to
type Repositories struct {
	Ledger        repositories.LedgerRepository
	Subscriptions repositories.SubscriptionRepository
	Purchases     repositories.PurchaseRepository
	Customers     repositories.CustomerRepository
	Events        repositories.WebhookEventRepository
	TxManager     repositories.TransactionManager
}

// billingService implements the BillingService interface
type billingService struct {
	repos         Repositories
	provider      Provider
	plans         *plans.Catalog
	webhookSecret string
	baseURL       string
	logger        *slog.Logger
}

// NewService creates a new billing service. baseURL is the frontend origin checkout redirects back to.
func NewService(
	repos Repositories,
	provider Provider,
	catalog *plans.Catalog,
	webhookSecret string,
	baseURL string,
	logger *slog.Logger,
) services.BillingService {
	return &billingService{
		repos:         repos,
		provider:      provider,
		plans:         catalog,
		webhookSecret: webhookSecret,
		baseURL:       strings.TrimRight(baseURL, "/"),
		logger:        logger,
	}
}

// CreateCheckoutSession creates a hosted checkout page for one price
func (s *billingService) CreateCheckoutSession(ctx context.Context, userID string, req *services.CheckoutRequest) (*billing.CheckoutSession, error) {
	priceID := strings.TrimSpace(req.PriceID)
	if priceID == "" {
		return nil, &domain.MissingParameterError{Param: "priceId"}
	}
	if strings.TrimSpace(userID) == "" {
		return nil, &domain.MissingParameterError{Param: "userId"}
	}

	mode := strings.TrimSpace(req.Mode)
	if mode == "" {
		mode = billing.ModePayment
		if plan, ok := s.plans.ByPrice(priceID); ok {
			mode = plan.Mode
		}
	}
	if err := validation.Validate(mode, validation.In(billing.ModePayment, billing.ModeSubscription)); err != nil {
		return nil, fmt.Errorf("%w: mode: %v", domain.ErrValidation, err)
	}

	session, err := s.provider.CreateCheckoutSession(ctx, &CheckoutParams{
		PriceID:    priceID,
		Mode:       mode,
		UserID:     userID,
		SuccessURL: s.baseURL + "/dashboard?success=true",
		CancelURL:  s.baseURL + "/dashboard?canceled=true",
	})
	if err != nil {
		return nil, &domain.ProviderError{Message: err.Error()}
	}

	s.logger.Info("checkout session created",
		"session_id", session.ID,
		"user_id", userID,
		"price_id", priceID,
		"mode", mode,
	)

	return session, nil
}

// Summary returns the user's balance and subscription state
func (s *billingService) Summary(ctx context.Context, userID string) (*billing.Summary, error) {
	var (
		balance int64
		sub     *billing.Subscription
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		balance, err = s.repos.Ledger.GetBalance(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		sub, err = s.repos.Subscriptions.GetByUserID(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("billing summary: %w", err)
	}

	summary := &billing.Summary{Balance: balance, SubscriptionStatus: billing.SubscriptionStatusNone}
	if sub != nil {
		summary.SubscriptionStatus = sub.Status
		summary.CurrentPeriodEnd = sub.CurrentPeriodEnd
	}
	return summary, nil
}
