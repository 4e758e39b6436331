package kintsugi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	DefaultEndpoint string = "https://api.trykintsugi.com/v1/tax/estimate"
)

// HTTPError is returned when the estimate endpoint answers with anything but 200.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("kintsugi estimate failed with status %d %s: %s", e.StatusCode, e.Status, e.Body)
}

type ClientOption func(*Client)

type Client struct {
	apiKey         string
	organizationId string
	endpoint       string
	httpClient     *http.Client
}

func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(apiKey string, organizationId string, options ...ClientOption) *Client {
	client := &Client{
		apiKey:         apiKey,
		organizationId: organizationId,
		endpoint:       DefaultEndpoint,
		httpClient:     &http.Client{},
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// Estimate posts a tax estimate request. There is no retry and no timeout
// beyond what ctx and the underlying http.Client impose.
func (c *Client) Estimate(ctx context.Context, request EstimateRequest) (*EstimateResponse, error) {
	requestBytes, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("error with encoding estimate request: %w", err)
	}

	estimateRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(requestBytes))
	if err != nil {
		return nil, err
	}

	estimateRequest.Header.Set("X-API-KEY", c.apiKey)
	estimateRequest.Header.Set("x-organization-id", c.organizationId)
	estimateRequest.Header.Set("Content-Type", "application/json")

	estimateResponse, err := c.httpClient.Do(estimateRequest)
	if err != nil {
		return nil, err
	}
	defer estimateResponse.Body.Close()

	if estimateResponse.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(estimateResponse.Body)
		return nil, &HTTPError{
			StatusCode: estimateResponse.StatusCode,
			Status:     estimateResponse.Status,
			Body:       string(body),
		}
	}

	var response EstimateResponse
	if err := json.NewDecoder(estimateResponse.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("error with decoding estimate response: %w", err)
	}

	return &response, nil
}
