// Package stripe adapts the Stripe API client to the billing bridge.
package stripe

import (
	"context"
	"errors"
	"fmt"

	"blogsmith/internal/domain/models/billing"
	billingsvc "blogsmith/internal/service/billing"

	stripeapi "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// Client implements billing.Provider against the Stripe API
type Client struct {
	api *client.API
}

// NewClient creates a Stripe client for secretKey
func NewClient(secretKey string) *Client {
	return newClient(client.New(secretKey, nil))
}

func newClient(api *client.API) *Client {
	return &Client{api: api}
}

var _ billingsvc.Provider = (*Client)(nil)

// CreateCheckoutSession creates a session with a single line item. The user and
// price are carried in metadata so the webhook can fulfil the order.
func (c *Client) CreateCheckoutSession(ctx context.Context, p *billingsvc.CheckoutParams) (*billing.CheckoutSession, error) {
	params := &stripeapi.CheckoutSessionParams{
		Mode: stripeapi.String(p.Mode),
		LineItems: []*stripeapi.CheckoutSessionLineItemParams{
			{Price: stripeapi.String(p.PriceID), Quantity: stripeapi.Int64(1)},
		},
		SuccessURL:        stripeapi.String(p.SuccessURL),
		CancelURL:         stripeapi.String(p.CancelURL),
		ClientReferenceID: stripeapi.String(p.UserID),
	}
	params.Context = ctx
	params.AddMetadata("userId", p.UserID)
	params.AddMetadata("priceId", p.PriceID)

	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, providerMessage(err)
	}

	return &billing.CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

// SessionPriceID retrieves the session with its line items expanded
func (c *Client) SessionPriceID(ctx context.Context, sessionID string) (string, error) {
	params := &stripeapi.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("line_items")

	session, err := c.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return "", providerMessage(err)
	}

	if session.LineItems == nil || len(session.LineItems.Data) == 0 {
		return "", nil
	}
	item := session.LineItems.Data[0]
	if item.Price == nil {
		return "", nil
	}
	return item.Price.ID, nil
}

// providerMessage unwraps Stripe's error envelope to its human readable message
func providerMessage(err error) error {
	var apiErr *stripeapi.Error
	if errors.As(err, &apiErr) && apiErr.Msg != "" {
		return errors.New(apiErr.Msg)
	}
	return fmt.Errorf("stripe request failed: %w", err)
}
