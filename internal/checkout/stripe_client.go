package checkout

import (
	"context"
	"fmt"

	pkgstripe "github.com/MyResellApp/MyResell/pkg/stripe"
	"github.com/stripe/stripe-go/v84"
)

// StripeCheckoutClient exposes the subset of Stripe operations required by the orchestrator.
type StripeCheckoutClient interface {
	CreateSession(ctx context.Context, params *stripe.CheckoutSessionCreateParams) (*stripe.CheckoutSession, error)
	GetSession(ctx context.Context, id string) (*stripe.CheckoutSession, error)
}

type stripeClientWrapper struct {
	api *stripe.Client
}

// NewStripeClient wraps the provided Stripe client so the orchestrator can be tested.
func NewStripeClient(client *pkgstripe.Client) StripeCheckoutClient {
	if client == nil || client.API() == nil {
		return nil
	}
	return &stripeClientWrapper{api: client.API()}
}

func (w *stripeClientWrapper) CreateSession(ctx context.Context, params *stripe.CheckoutSessionCreateParams) (*stripe.CheckoutSession, error) {
	if params == nil {
		return nil, fmt.Errorf("checkout session params are required")
	}
	return w.api.V1CheckoutSessions.Create(ctx, params)
}

func (w *stripeClientWrapper) GetSession(ctx context.Context, id string) (*stripe.CheckoutSession, error) {
	return w.api.V1CheckoutSessions.Retrieve(ctx, id, &stripe.CheckoutSessionRetrieveParams{})
}
