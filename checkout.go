package main

import (
	"context"

	"github.com/debyltech/go-kintsugi-checkout/config"
	"github.com/debyltech/go-kintsugi-checkout/payment"
	"github.com/rs/zerolog"
)

const (
	TaxRateDisplayName   string = "Sales Tax"
	TaxCalculationMethod string = "kintsugi"
)

type CheckoutSession struct {
	Id string `json:"id"`
}

type taxEstimator interface {
	EstimateTax(ctx context.Context, amount int64) (*TaxEstimate, error)
}

type CheckoutBuilder struct {
	config    *config.Config
	taxes     taxEstimator
	processor payment.Processor
	log       zerolog.Logger
}

func NewCheckoutBuilder(config *config.Config, taxes taxEstimator, processor payment.Processor, log zerolog.Logger) *CheckoutBuilder {
	return &CheckoutBuilder{
		config:    config,
		taxes:     taxes,
		processor: processor,
		log:       log,
	}
}

// CreateCheckoutSession estimates tax on the base price, registers a fresh tax
// rate with the payment processor and opens a subscription checkout session
// carrying it. A tax rate created before a failed session is left in place.
func (b *CheckoutBuilder) CreateCheckoutSession(ctx context.Context) (*CheckoutSession, error) {
	estimate, err := b.taxes.EstimateTax(ctx, b.config.BasePrice)
	if err != nil {
		b.log.Error().Err(err).Str("event", "checkout.tax_estimate").Msg("error with tax estimate")
		return nil, &RequestError{Err: err}
	}
	b.log.Info().Str("event", "checkout.tax_estimate").Float64("tax_rate", estimate.Rate).Str("tax_description", estimate.Description).Msg("tax estimated")

	taxRateId, err := b.processor.CreateTaxRate(ctx, payment.TaxRateParams{
		DisplayName:  TaxRateDisplayName,
		Description:  estimate.Description,
		Percentage:   estimate.Rate,
		Inclusive:    false,
		Country:      b.config.TaxCountry,
		Jurisdiction: b.config.TaxJurisdiction,
	})
	if err != nil {
		b.log.Error().Err(err).Str("event", "checkout.tax_rate").Msg("error with creating tax rate")
		return nil, &RequestError{Err: err}
	}
	b.log.Info().Str("event", "checkout.tax_rate").Str("tax_rate_id", taxRateId).Msg("tax rate created")

	sessionId, err := b.processor.CreateCheckoutSession(ctx, payment.SessionParams{
		PriceId:          b.config.PriceId,
		Quantity:         1,
		TaxRateIds:       []string{taxRateId},
		SuccessURL:       b.config.SuccessURL(),
		CancelURL:        b.config.CancelURL(),
		AllowedCountries: b.config.AllowedShippingCountries,
		Metadata: map[string]string{
			"tax_jurisdiction": b.config.TaxJurisdiction,
			"tax_calculation":  TaxCalculationMethod,
		},
	})
	if err != nil {
		// Not rolled back: the tax rate stays orphaned upstream.
		b.log.Warn().Err(err).Str("event", "checkout.session").Str("orphaned_tax_rate_id", taxRateId).Msg("error with creating checkout session")
		return nil, &RequestError{Err: err}
	}
	b.log.Info().Str("event", "checkout.session").Str("session_id", sessionId).Msg("checkout session created")

	return &CheckoutSession{Id: sessionId}, nil
}
