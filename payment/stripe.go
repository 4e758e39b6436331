package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82"
)

var _ Processor = (*StripeProcessor)(nil)

type StripeProcessor struct {
	client *stripe.Client
}

func NewStripeProcessor(secretKey string) *StripeProcessor {
	return NewStripeProcessorWithClient(stripe.NewClient(secretKey))
}

func NewStripeProcessorWithClient(client *stripe.Client) *StripeProcessor {
	return &StripeProcessor{
		client: client,
	}
}

func (s *StripeProcessor) CreateTaxRate(ctx context.Context, params TaxRateParams) (string, error) {
	taxRate, err := s.client.V1TaxRates.Create(ctx, &stripe.TaxRateCreateParams{
		DisplayName:  stripe.String(params.DisplayName),
		Description:  stripe.String(params.Description),
		Percentage:   stripe.Float64(params.Percentage),
		Inclusive:    stripe.Bool(params.Inclusive),
		Country:      stripe.String(params.Country),
		Jurisdiction: stripe.String(params.Jurisdiction),
	})
	if err != nil {
		return "", processorError(err)
	}

	return taxRate.ID, nil
}

// CreateCheckoutSession creates a card-only subscription session. Stripe's
// automatic tax and tax id collection stay disabled because the attached tax
// rates are authoritative.
func (s *StripeProcessor) CreateCheckoutSession(ctx context.Context, params SessionParams) (string, error) {
	sessionParams := &stripe.CheckoutSessionCreateParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				Price:    stripe.String(params.PriceId),
				Quantity: stripe.Int64(params.Quantity),
				TaxRates: stripe.StringSlice(params.TaxRateIds),
			},
		},
		Mode:                     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:               stripe.String(params.SuccessURL),
		CancelURL:                stripe.String(params.CancelURL),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionAuto)),
		ShippingAddressCollection: &stripe.CheckoutSessionCreateShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(params.AllowedCountries),
		},
		AutomaticTax: &stripe.CheckoutSessionCreateAutomaticTaxParams{
			Enabled: stripe.Bool(false),
		},
		TaxIDCollection: &stripe.CheckoutSessionCreateTaxIDCollectionParams{
			Enabled: stripe.Bool(false),
		},
		Metadata: params.Metadata,
	}

	session, err := s.client.V1CheckoutSessions.Create(ctx, sessionParams)
	if err != nil {
		return "", processorError(err)
	}
	if session.ID == "" {
		return "", fmt.Errorf("checkout session created without an id")
	}

	return session.ID, nil
}

// ProcessorError keeps the processor's human readable message as the error
// text; *stripe.Error otherwise prints itself as JSON.
type ProcessorError struct {
	Message string
	Err     error
}

func (e *ProcessorError) Error() string {
	return e.Message
}

func (e *ProcessorError) Unwrap() error {
	return e.Err
}

func processorError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return &ProcessorError{Message: stripeErr.Msg, Err: err}
	}

	return err
}
