package payment

import "context"

type TaxRateParams struct {
	DisplayName  string
	Description  string
	Percentage   float64
	Inclusive    bool
	Country      string
	Jurisdiction string
}

type SessionParams struct {
	PriceId          string
	Quantity         int64
	TaxRateIds       []string
	SuccessURL       string
	CancelURL        string
	AllowedCountries []string
	Metadata         map[string]string
}

// Processor is the subset of the payment processor used during checkout.
// Both calls create a new upstream resource on every invocation.
type Processor interface {
	CreateTaxRate(ctx context.Context, params TaxRateParams) (string, error)
	CreateCheckoutSession(ctx context.Context, params SessionParams) (string, error)
}
