package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"blogsmith/internal/domain"
	"blogsmith/internal/domain/models/billing"
	"blogsmith/internal/domain/services"
	"blogsmith/internal/metrics"
	"blogsmith/internal/plans"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Event types the bridge acts on
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventInvoicePaid       = "invoice.paid"
)

// HandleWebhook verifies the signature and applies the event.
// Storage failures are returned so the provider redelivers; everything else is acknowledged.
func (s *billingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		s.logger.Warn("webhook signature rejected", "error", err)
		return &domain.SignatureVerificationError{Message: err.Error()}
	}

	eventType := string(event.Type)
	logger := s.logger.With("event_id", event.ID, "event_type", eventType)

	var result string
	switch eventType {
	case EventCheckoutCompleted:
		result, err = s.handleCheckoutCompleted(ctx, &event, logger)
	case EventInvoicePaid:
		result, err = s.handleInvoicePaid(ctx, &event, logger)
	default:
		logger.Debug("webhook event ignored")
		result = metrics.ResultIgnored
	}

	if err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(eventType, metrics.ResultError).Inc()
		logger.Error("webhook processing failed", "error", err)
		return fmt.Errorf("process %s: %w", eventType, err)
	}

	metrics.WebhookEventsTotal.WithLabelValues(eventType, result).Inc()
	return nil
}

func (s *billingService) handleCheckoutCompleted(ctx context.Context, event *stripe.Event, logger *slog.Logger) (string, error) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		logger.Warn("checkout session payload malformed", "error", err)
		return metrics.ResultIgnored, nil
	}
	logger = logger.With("session_id", session.ID)

	userID := session.Metadata["userId"]
	priceID := session.Metadata["priceId"]
	if priceID == "" && session.ID != "" {
		var err error
		if priceID, err = s.provider.SessionPriceID(ctx, session.ID); err != nil {
			return "", fmt.Errorf("retrieve line items: %w", err)
		}
	}
	if userID == "" || priceID == "" {
		logger.Warn("checkout session missing user or price", "user_id", userID, "price_id", priceID)
		return metrics.ResultIgnored, nil
	}
	logger = logger.With("user_id", userID, "price_id", priceID)

	var (
		result   = metrics.ResultOK
		credited int64
		source   string
	)
	err := s.repos.TxManager.ExecTx(ctx, func(txCtx context.Context) error {
		fresh, err := s.repos.Events.MarkProcessed(txCtx, event.ID, string(event.Type))
		if err != nil {
			return fmt.Errorf("record event: %w", err)
		}
		if !fresh {
			result = metrics.ResultDuplicate
			return nil
		}

		if session.Customer != nil && session.Customer.ID != "" {
			customer := &billing.StripeCustomer{UserID: userID, StripeCustomerID: session.Customer.ID}
			if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
				email := session.CustomerDetails.Email
				customer.Email = &email
			}
			if err := s.repos.Customers.Upsert(txCtx, customer); err != nil {
				return fmt.Errorf("upsert customer: %w", err)
			}
		}

		plan, ok := s.plans.ByPrice(priceID)
		if !ok {
			logger.Warn("checkout for unknown price")
			result = metrics.ResultIgnored
			return nil
		}

		if _, err := s.repos.Ledger.Credit(txCtx, userID, plan.Tokens); err != nil {
			return fmt.Errorf("credit tokens: %w", err)
		}
		credited = plan.Tokens

		switch plan.Kind {
		case plans.KindTokenPack:
			source = services.CreditSourceTokenPack
			purchase := &billing.TokenPurchase{
				UserID:          userID,
				StripeSessionID: session.ID,
				TokensPurchased: plan.Tokens,
				AmountPaid:      session.AmountTotal,
			}
			if session.PaymentIntent != nil && session.PaymentIntent.ID != "" {
				id := session.PaymentIntent.ID
				purchase.StripePaymentIntentID = &id
			}
			if err := s.repos.Purchases.Create(txCtx, purchase); err != nil {
				return fmt.Errorf("record purchase: %w", err)
			}
		case plans.KindSubscription:
			source = services.CreditSourceSubscription
			if session.Subscription == nil || session.Subscription.ID == "" {
				return nil
			}
			sub := &billing.Subscription{
				UserID:               userID,
				StripeSubscriptionID: session.Subscription.ID,
				Status:               billing.SubscriptionStatusActive,
				CurrentPeriodEnd:     unixTime(session.ExpiresAt),
			}
			if err := s.repos.Subscriptions.Upsert(txCtx, sub); err != nil {
				return fmt.Errorf("upsert subscription: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if result == metrics.ResultDuplicate {
		logger.Info("webhook event already processed")
		return result, nil
	}
	if credited > 0 {
		metrics.TokensCredited.WithLabelValues(source).Add(float64(credited))
		logger.Info("checkout fulfilled", "tokens", credited, "source", source)
	}
	return result, nil
}

// invoicePayload covers both the legacy top-level subscription field and the
// parent.subscription_details shape of newer API versions.
type invoicePayload struct {
	ID           string          `json:"id"`
	Subscription json.RawMessage `json:"subscription"`
	Parent       *struct {
		SubscriptionDetails *struct {
			Subscription json.RawMessage `json:"subscription"`
		} `json:"subscription_details"`
	} `json:"parent"`
	Lines struct {
		Data []struct {
			Period struct {
				End int64 `json:"end"`
			} `json:"period"`
		} `json:"data"`
	} `json:"lines"`
}

func (p *invoicePayload) subscriptionID() string {
	if id := expandableID(p.Subscription); id != "" {
		return id
	}
	if p.Parent != nil && p.Parent.SubscriptionDetails != nil {
		return expandableID(p.Parent.SubscriptionDetails.Subscription)
	}
	return ""
}

func (p *invoicePayload) periodEnd() *time.Time {
	if len(p.Lines.Data) == 0 {
		return nil
	}
	return unixTime(p.Lines.Data[0].Period.End)
}

func (s *billingService) handleInvoicePaid(ctx context.Context, event *stripe.Event, logger *slog.Logger) (string, error) {
	var invoice invoicePayload
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		logger.Warn("invoice payload malformed", "error", err)
		return metrics.ResultIgnored, nil
	}

	subscriptionID := invoice.subscriptionID()
	if subscriptionID == "" {
		logger.Warn("invoice without subscription", "invoice_id", invoice.ID)
		return metrics.ResultIgnored, nil
	}
	logger = logger.With("invoice_id", invoice.ID, "subscription_id", subscriptionID)

	sub, err := s.repos.Subscriptions.GetByStripeID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("invoice for unknown subscription")
			return metrics.ResultIgnored, nil
		}
		return "", fmt.Errorf("lookup subscription: %w", err)
	}
	logger = logger.With("user_id", sub.UserID)

	plan, ok := s.subscriptionPlan()
	if !ok {
		logger.Warn("no subscription plan configured")
		return metrics.ResultIgnored, nil
	}

	result := metrics.ResultOK
	err = s.repos.TxManager.ExecTx(ctx, func(txCtx context.Context) error {
		fresh, err := s.repos.Events.MarkProcessed(txCtx, event.ID, string(event.Type))
		if err != nil {
			return fmt.Errorf("record event: %w", err)
		}
		if !fresh {
			result = metrics.ResultDuplicate
			return nil
		}
		if _, err := s.repos.Ledger.Credit(txCtx, sub.UserID, plan.Tokens); err != nil {
			return fmt.Errorf("credit tokens: %w", err)
		}
		if err := s.repos.Subscriptions.UpdatePeriod(txCtx, sub.UserID, billing.SubscriptionStatusActive, invoice.periodEnd()); err != nil {
			return fmt.Errorf("update subscription: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if result == metrics.ResultDuplicate {
		logger.Info("webhook event already processed")
		return result, nil
	}

	metrics.TokensCredited.WithLabelValues(services.CreditSourceRenewal).Add(float64(plan.Tokens))
	logger.Info("subscription renewed", "tokens", plan.Tokens)
	return result, nil
}

// subscriptionPlan returns the plan renewals are credited from
func (s *billingService) subscriptionPlan() (plans.Plan, bool) {
	for _, p := range s.plans.List() {
		if p.Kind == plans.KindSubscription {
			return p, true
		}
	}
	return plans.Plan{}, false
}

// expandableID reads a Stripe field that is either an id string or an expanded object
func expandableID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			return ""
		}
		return id
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	return obj.ID
}

func unixTime(sec int64) *time.Time {
	if sec <= 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}
