package main

const (
	TaxCalculationFailed string = "Failed to calculate tax"
)

// UpstreamError means the tax provider rejected the estimate request.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// RequestError carries any checkout failure back to the HTTP caller. Its
// message is the message of the error it wraps, unchanged.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
