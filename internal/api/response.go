// Package api defines the common JSON envelope shared by all endpoints.
package api

// Response is the envelope returned by every endpoint:
// {success, message, data?}.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// OK builds a success envelope.
func OK(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Fail builds a failure envelope with a user-facing message.
// Internal error detail is logged server-side, never returned here.
func Fail(message string) Response {
	return Response{Success: false, Message: message}
}
