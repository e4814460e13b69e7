package types

// SuccessEnvelope wraps every successful API payload under a data key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the wire shape of a failed request.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps an APIError the same way SuccessEnvelope wraps data.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
