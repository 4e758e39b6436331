package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v7"
	"github.com/joho/godotenv"
)

type Address struct {
	Street1    string `json:"street_1" env:"STREET_1" envDefault:"10 1/2nd Street, East"`
	City       string `json:"city" env:"CITY" envDefault:"Houston"`
	State      string `json:"state" env:"STATE" envDefault:"TX"`
	PostalCode string `json:"postal_code" env:"POSTAL_CODE" envDefault:"77008"`
	Country    string `json:"country" env:"COUNTRY" envDefault:"US"`
}

// Config is built once at startup by Load and only read afterwards.
type Config struct {
	StripeSecretKey      string `json:"stripe_secret_key" env:"STRIPE_SECRET_KEY"`
	StripePublishableKey string `json:"stripe_publishable_key" env:"STRIPE_PUBLISHABLE_KEY"`
	KintsugiApiKey       string `json:"kintsugi_api_key" env:"KINTSUGI_API_KEY"`
	KintsugiOrgId        string `json:"kintsugi_org_id" env:"KINTSUGI_ORG_ID"`
	KintsugiEndpoint     string `json:"kintsugi_endpoint" env:"KINTSUGI_ENDPOINT" envDefault:"https://api.trykintsugi.com/v1/tax/estimate"`
	Domain               string `json:"domain" env:"DOMAIN"`
	SecretsId            string `json:"secrets_id" env:"SECRETS_ID"`
	Debug                bool   `json:"debug" env:"DEBUG"`

	PriceId         string  `json:"price_id" env:"SUBSCRIPTION_PRICE_ID" envDefault:"price_1QxU7SFjcd67I34X3X5XaHo0"`
	ProductId       string  `json:"product_id" env:"PRODUCT_ID" envDefault:"prod_RrCWtJMg5ktz14"`
	ProductName     string  `json:"product_name" env:"PRODUCT_NAME" envDefault:"Form Subscription"`
	BasePrice       int64   `json:"base_price" env:"BASE_PRICE" envDefault:"1000"`
	Currency        string  `json:"currency" env:"CURRENCY" envDefault:"USD"`
	TaxCountry      string  `json:"tax_country" env:"TAX_COUNTRY" envDefault:"US"`
	TaxJurisdiction string  `json:"tax_jurisdiction" env:"TAX_JURISDICTION" envDefault:"TX"`
	ShipTo          Address `json:"ship_to" envPrefix:"SHIP_TO_"`

	AllowedShippingCountries []string `json:"allowed_shipping_countries" env:"ALLOWED_SHIPPING_COUNTRIES" envDefault:"US" envSeparator:","`
}

// Load reads, in increasing precedence: built-in defaults, a .env file, the
// process environment, the JSON file at filePath (if any) and finally the AWS
// Secrets Manager secret named by SECRETS_ID (if any).
func Load(filePath string) (*Config, error) {
	return load(filePath, newSecretCache)
}

func load(filePath string, secrets func() (SecretGetter, error)) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error with loading .env: %w", err)
	}

	var config Config
	if err := env.Parse(&config); err != nil {
		return nil, fmt.Errorf("error with parsing environment: %w", err)
	}

	if filePath != "" {
		if err := config.applyFile(filePath); err != nil {
			return nil, err
		}
	}

	if config.SecretsId != "" {
		getter, err := secrets()
		if err != nil {
			return nil, fmt.Errorf("error with creating secret cache: %w", err)
		}
		if err := config.applySecret(getter); err != nil {
			return nil, err
		}
	}

	return &config, nil
}

func (c *Config) applyFile(filePath string) error {
	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("error with reading config file: %w", err)
	}

	if err := json.NewDecoder(bytes.NewBuffer(configBytes)).Decode(c); err != nil {
		return fmt.Errorf("error with decoding config file: %w", err)
	}

	return nil
}

// Validate reports every missing credential in one error.
func (c *Config) Validate() error {
	var missing []string
	if c.StripeSecretKey == "" {
		missing = append(missing, "STRIPE_SECRET_KEY")
	}
	if c.StripePublishableKey == "" {
		missing = append(missing, "STRIPE_PUBLISHABLE_KEY")
	}
	if c.KintsugiApiKey == "" {
		missing = append(missing, "KINTSUGI_API_KEY")
	}
	if c.KintsugiOrgId == "" {
		missing = append(missing, "KINTSUGI_ORG_ID")
	}
	if c.Domain == "" {
		missing = append(missing, "DOMAIN")
	}
	if c.BasePrice <= 0 {
		missing = append(missing, "BASE_PRICE (must be positive)")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return nil
}

func (c *Config) SuccessURL() string {
	return c.Domain + "/success"
}

func (c *Config) CancelURL() string {
	return c.Domain + "/cancel"
}
