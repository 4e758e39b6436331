package main

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/debyltech/go-kintsugi-checkout/kintsugi"
	"github.com/debyltech/go-kintsugi-checkout/payment"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcessor struct {
	taxRateErr error
	sessionErr error

	taxRates []payment.TaxRateParams
	sessions []payment.SessionParams
}

func (f *fakeProcessor) CreateTaxRate(ctx context.Context, params payment.TaxRateParams) (string, error) {
	f.taxRates = append(f.taxRates, params)
	if f.taxRateErr != nil {
		return "", f.taxRateErr
	}

	return "txr_test_1", nil
}

func (f *fakeProcessor) CreateCheckoutSession(ctx context.Context, params payment.SessionParams) (string, error) {
	f.sessions = append(f.sessions, params)
	if f.sessionErr != nil {
		return "", f.sessionErr
	}

	return "cs_test_1", nil
}

func newTestBuilder(t *testing.T, status int, body string, processor *fakeProcessor) *CheckoutBuilder {
	t.Helper()

	cfg := testConfig()
	server := newTaxServer(t, status, body)
	client := kintsugi.NewClient(cfg.KintsugiApiKey, cfg.KintsugiOrgId, kintsugi.WithEndpoint(server.URL))

	return NewCheckoutBuilder(cfg, NewTaxEstimator(cfg, client, zerolog.Nop()), processor, zerolog.Nop())
}

const texasEstimate = `{
	"taxable_amount": 1000,
	"tax_rate_calculated": 0.0825,
	"transaction_items": [{"tax_items": [{"name": "State Tax", "amount": 0.625}, {"name": "City Tax", "amount": 0.2}]}]
}`

func TestCheckoutBuilder_CreateCheckoutSession(t *testing.T) {
	processor := &fakeProcessor{}
	builder := newTestBuilder(t, http.StatusOK, texasEstimate, processor)

	session, err := builder.CreateCheckoutSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.Id)

	require.Len(t, processor.taxRates, 1)
	assert.Equal(t, payment.TaxRateParams{
		DisplayName:  "Sales Tax",
		Description:  "State Tax: $0.62 + City Tax: $0.20",
		Percentage:   8.25,
		Inclusive:    false,
		Country:      "US",
		Jurisdiction: "TX",
	}, processor.taxRates[0])

	require.Len(t, processor.sessions, 1)
	sessionParams := processor.sessions[0]
	assert.Equal(t, "price_test", sessionParams.PriceId)
	assert.Equal(t, int64(1), sessionParams.Quantity)
	assert.Equal(t, []string{"txr_test_1"}, sessionParams.TaxRateIds)
	assert.Equal(t, "https://shop.example.com/success", sessionParams.SuccessURL)
	assert.Equal(t, "https://shop.example.com/cancel", sessionParams.CancelURL)
	assert.Equal(t, []string{"US"}, sessionParams.AllowedCountries)
	assert.Equal(t, map[string]string{
		"tax_jurisdiction": "TX",
		"tax_calculation":  "kintsugi",
	}, sessionParams.Metadata)
}

func TestCheckoutBuilder_NewTaxRateEveryAttempt(t *testing.T) {
	processor := &fakeProcessor{}
	builder := newTestBuilder(t, http.StatusOK, texasEstimate, processor)

	for i := 0; i < 3; i++ {
		_, err := builder.CreateCheckoutSession(context.Background())
		require.NoError(t, err)
	}

	assert.Len(t, processor.taxRates, 3)
	assert.Len(t, processor.sessions, 3)
}

func TestCheckoutBuilder_TaxProviderFailure(t *testing.T) {
	processor := &fakeProcessor{}
	builder := newTestBuilder(t, http.StatusInternalServerError, `{}`, processor)

	session, err := builder.CreateCheckoutSession(context.Background())
	assert.Nil(t, session)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to calculate tax")

	var requestErr *RequestError
	assert.ErrorAs(t, err, &requestErr)
	var upstreamErr *UpstreamError
	assert.ErrorAs(t, err, &upstreamErr)

	assert.Empty(t, processor.taxRates)
	assert.Empty(t, processor.sessions)
}

func TestCheckoutBuilder_TaxRateFailure(t *testing.T) {
	processor := &fakeProcessor{taxRateErr: errors.New("Invalid percentage")}
	builder := newTestBuilder(t, http.StatusOK, texasEstimate, processor)

	_, err := builder.CreateCheckoutSession(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Invalid percentage", err.Error())

	var requestErr *RequestError
	assert.ErrorAs(t, err, &requestErr)
	assert.Len(t, processor.taxRates, 1)
	assert.Empty(t, processor.sessions)
}

func TestCheckoutBuilder_SessionFailureKeepsTaxRate(t *testing.T) {
	processor := &fakeProcessor{sessionErr: errors.New("No such price: 'price_test'")}
	builder := newTestBuilder(t, http.StatusOK, texasEstimate, processor)

	_, err := builder.CreateCheckoutSession(context.Background())
	require.Error(t, err)
	assert.Equal(t, "No such price: 'price_test'", err.Error())

	assert.Len(t, processor.taxRates, 1)
	assert.Len(t, processor.sessions, 1)
}
