package kintsugi

import (
	"github.com/shopspring/decimal"
)

const (
	AddressTypeShipTo string = "SHIP_TO"
)

type Customer struct {
	Street1    string `json:"street_1"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type Address struct {
	Type       string `json:"type"`
	Street1    string `json:"street_1"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type TransactionItem struct {
	ExternalProductId string `json:"external_product_id"`
	Date              string `json:"date"`
	ProductName       string `json:"product_name"`
	Amount            int64  `json:"amount"`
	Quantity          int    `json:"quantity"`
}

type EstimateRequest struct {
	Date                       string            `json:"date"`
	ExternalId                 string            `json:"external_id"`
	TotalAmount                int64             `json:"total_amount"`
	Currency                   string            `json:"currency"`
	Customer                   Customer          `json:"customer"`
	Addresses                  []Address         `json:"addresses"`
	TransactionItems           []TransactionItem `json:"transaction_items"`
	SimulateActiveRegistration bool              `json:"simulate_active_registration"`
}

// OptionalDecimal tells an absent field (Set false) apart from an explicit
// null (Set and Null true). Numbers and numeric strings are both accepted.
type OptionalDecimal struct {
	Decimal decimal.Decimal
	Set     bool
	Null    bool
}

func (d *OptionalDecimal) UnmarshalJSON(decimalBytes []byte) error {
	d.Set = true
	if string(decimalBytes) == "null" {
		d.Null = true
		return nil
	}

	return d.Decimal.UnmarshalJSON(decimalBytes)
}

func NewOptionalDecimal(d decimal.Decimal) OptionalDecimal {
	return OptionalDecimal{Decimal: d, Set: true}
}

type TaxItem struct {
	Name   *string         `json:"name"`
	Amount OptionalDecimal `json:"amount"`
}

type EstimateTransactionItem struct {
	TaxItems []TaxItem `json:"tax_items"`
}

// EstimateResponse keeps only the fields the checkout needs.
type EstimateResponse struct {
	TaxableAmount     OptionalDecimal           `json:"taxable_amount"`
	TaxRateCalculated OptionalDecimal           `json:"tax_rate_calculated"`
	TransactionItems  []EstimateTransactionItem `json:"transaction_items"`
}
