package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/debyltech/go-kintsugi-checkout/config"
	"github.com/debyltech/go-kintsugi-checkout/kintsugi"
	"github.com/rs/zerolog"
)

const (
	isoTimestampLayout string = "2006-01-02T15:04:05.000000-07:00"
)

type TaxEstimate struct {
	// Rate is a percentage rounded to two decimal places, e.g. 8.25.
	Rate        float64
	Description string
}

type estimateClient interface {
	Estimate(ctx context.Context, request kintsugi.EstimateRequest) (*kintsugi.EstimateResponse, error)
}

type TaxEstimator struct {
	config *config.Config
	client estimateClient
	log    zerolog.Logger
	now    func() time.Time
}

func NewTaxEstimator(config *config.Config, client estimateClient, log zerolog.Logger) *TaxEstimator {
	return &TaxEstimator{
		config: config,
		client: client,
		log:    log,
		now:    time.Now,
	}
}

// BuildEstimateRequest describes a single-item purchase of amount (minor units)
// shipped to the configured address.
func (t *TaxEstimator) BuildEstimateRequest(amount int64, now time.Time) kintsugi.EstimateRequest {
	now = now.UTC()
	date := now.Format(isoTimestampLayout)
	shipTo := t.config.ShipTo

	return kintsugi.EstimateRequest{
		Date:        date,
		ExternalId:  fmt.Sprintf("est_%d", now.Unix()),
		TotalAmount: amount,
		Currency:    t.config.Currency,
		Customer: kintsugi.Customer{
			Street1:    shipTo.Street1,
			City:       shipTo.City,
			State:      shipTo.State,
			PostalCode: shipTo.PostalCode,
			Country:    shipTo.Country,
		},
		Addresses: []kintsugi.Address{
			{
				Type:       kintsugi.AddressTypeShipTo,
				Street1:    shipTo.Street1,
				City:       shipTo.City,
				State:      shipTo.State,
				PostalCode: shipTo.PostalCode,
				Country:    shipTo.Country,
			},
		},
		TransactionItems: []kintsugi.TransactionItem{
			{
				ExternalProductId: t.config.ProductId,
				Date:              date,
				ProductName:       t.config.ProductName,
				Amount:            amount,
				Quantity:          1,
			},
		},
		SimulateActiveRegistration: false,
	}
}

// EstimateTax asks the tax provider for an estimate on amount and reduces the
// answer to an effective rate and a breakdown. A non-200 answer yields an
// *UpstreamError.
func (t *TaxEstimator) EstimateTax(ctx context.Context, amount int64) (*TaxEstimate, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %d", amount)
	}

	request := t.BuildEstimateRequest(amount, t.now())
	debugPayload(t.log, "tax.estimate.request", request)

	response, err := t.client.Estimate(ctx, request)
	if err != nil {
		var httpErr *kintsugi.HTTPError
		if errors.As(err, &httpErr) {
			t.log.Error().Err(err).Str("event", "tax.estimate").Int("status_code", httpErr.StatusCode).Msg("tax provider rejected estimate")
			return nil, &UpstreamError{
				StatusCode: httpErr.StatusCode,
				Message:    TaxCalculationFailed,
			}
		}

		return nil, err
	}
	debugPayload(t.log, "tax.estimate.response", response)

	return ReduceEstimate(amount, response)
}

// ReduceEstimate derives the effective percentage
// taxable_amount * tax_rate_calculated / amount * 100 and joins every tax item
// as "name: $x.xx" with " + ". An absent taxable_amount falls back to amount
// and an absent tax_rate_calculated to zero; an explicit null is an error.
// Rounding works on the float64 value with ties to even.
func ReduceEstimate(amount int64, response *kintsugi.EstimateResponse) (*TaxEstimate, error) {
	if amount == 0 {
		return nil, errors.New("cannot derive a tax rate for a zero amount")
	}

	taxableAmount := float64(amount)
	if response.TaxableAmount.Set {
		if response.TaxableAmount.Null {
			return nil, errors.New("taxable_amount is null")
		}
		taxableAmount = response.TaxableAmount.Decimal.InexactFloat64()
	}

	taxRate := 0.0
	if response.TaxRateCalculated.Set {
		if response.TaxRateCalculated.Null {
			return nil, errors.New("tax_rate_calculated is null")
		}
		taxRate = response.TaxRateCalculated.Decimal.InexactFloat64()
	}

	calculatedTax := taxableAmount * taxRate
	effectiveRate, err := roundFloat(calculatedTax/float64(amount)*100, 2)
	if err != nil {
		return nil, err
	}

	var description []string
	for _, item := range response.TransactionItems {
		for _, taxItem := range item.TaxItems {
			if taxItem.Name == nil {
				return nil, errors.New("tax item without name")
			}
			if !taxItem.Amount.Set || taxItem.Amount.Null {
				return nil, fmt.Errorf("tax item '%s' without amount", *taxItem.Name)
			}
			description = append(description, fmt.Sprintf("%s: $%.2f", *taxItem.Name, taxItem.Amount.Decimal.InexactFloat64()))
		}
	}

	return &TaxEstimate{
		Rate:        effectiveRate,
		Description: strings.Join(description, " + "),
	}, nil
}

// roundFloat rounds the exact binary value of f to places decimals, ties to even.
func roundFloat(f float64, places int) (float64, error) {
	return strconv.ParseFloat(strconv.FormatFloat(f, 'f', places, 64), 64)
}
