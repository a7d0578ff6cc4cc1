package types

// SuccessEnvelope wraps every successful AssetDesk API response body.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing error shape. Code carries the machine-readable
// failure class; Details holds allocation diagnostics when the engine rejects
// a request (reason, current usage, capacity).
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every failed API response body.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
