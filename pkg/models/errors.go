package models

// APIError is the uniform error shape surfaced to consumers. Transport
// failures, non-2xx responses and malformed payloads are all normalized to
// this shape before they leave the service layer.
type APIError struct {
	Detail string `json:"detail"`
}

func (e *APIError) Error() string {
	return e.Detail
}
