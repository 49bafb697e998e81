package billing

import "time"

// Subscription statuses written by the webhook bridge
const (
	SubscriptionStatusActive = "active"
	SubscriptionStatusNone   = "none"
)

// Checkout modes accepted by the payment provider
const (
	ModePayment      = "payment"
	ModeSubscription = "subscription"
)

// TokenBalance is a user's spendable generation credit. It is only ever incremented.
type TokenBalance struct {
	UserID    string    `json:"user_id"`
	Balance   int64     `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subscription links a user to a recurring provider subscription.
type Subscription struct {
	UserID               string     `json:"user_id"`
	StripeSubscriptionID string     `json:"stripe_subscription_id"`
	Status               string     `json:"status"`
	CurrentPeriodEnd     *time.Time `json:"current_period_end"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// TokenPurchase is an append-only record of a one-time token pack purchase.
type TokenPurchase struct {
	ID                    string    `json:"id"`
	UserID                string    `json:"user_id"`
	StripeSessionID       string    `json:"stripe_session_id"`
	StripePaymentIntentID *string   `json:"stripe_payment_intent_id"`
	TokensPurchased       int64     `json:"tokens_purchased"`
	AmountPaid            int64     `json:"amount_paid"`
	CreatedAt             time.Time `json:"created_at"`
}

// StripeCustomer maps a user to the provider's customer id. Last write wins.
type StripeCustomer struct {
	UserID           string    `json:"user_id"`
	StripeCustomerID string    `json:"stripe_customer_id"`
	Email            *string   `json:"email"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CheckoutSession is the hosted payment page created for a user.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Summary is the billing view returned to the owning user.
type Summary struct {
	Balance            int64      `json:"balance"`
	SubscriptionStatus string     `json:"subscription_status"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
}
