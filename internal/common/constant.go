// Package common contains shared constants and helpers used across the
// ZeroBalance client packages.
package common

const (
	// AuthorizationHeader carries the bearer credential on outbound requests.
	AuthorizationHeader = "Authorization"

	// BearerScheme prefixes the credential inside AuthorizationHeader.
	BearerScheme = "Bearer"

	// RequestIDHeader correlates a client request with backend logs.
	RequestIDHeader = "X-Request-ID"

	// CredentialKey is the well-known metadata key the bearer token lives under.
	CredentialKey = "token"

	// CredentialSavedAtKey records when CredentialKey was last written.
	CredentialSavedAtKey = "token_saved_at"
)
