// Package types defines the JSON envelopes every retail ops endpoint writes,
// from product and order payloads down to health checks.
package types

// SuccessEnvelope wraps any successful payload, whether a single product or
// a page of movements, under one data key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the wire form of a pkg/errors code, such as VALIDATION_ERROR
// or INSUFFICIENT_BALANCE.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps an APIError for non-2xx responses.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
