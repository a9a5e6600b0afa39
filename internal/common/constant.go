// Package common contains constants and helpers shared by the client packages.
package common

const (
	// AuthorizationHeaderName carries "Bearer <token>" on authenticated calls.
	AuthorizationHeaderName = "Authorization"

	// RequestIDHeaderName tags every outbound request for backend-side tracing.
	RequestIDHeaderName = "X-Request-ID"

	// FallbackErrorMessage is shown when a failure carries no usable message.
	FallbackErrorMessage = "Something went wrong. Please try again."
)
