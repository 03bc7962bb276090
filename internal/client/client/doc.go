// Package client contains the client-side building blocks that talk to the
// outside world: the ZeroBalance REST API and the local SQLite database.
//
// # Overview
//
//  1. Client, the transport-agnostic contract of the backend: Signup, Login,
//     Me, profile operations, Health and Ping.
//  2. HTTPClient, its REST/JSON implementation. The credential is attached
//     per request, either explicitly (Request.Token) or from the injected
//     TokenSource. Every request gets an X-Request-ID and is logged.
//  3. InitDatabase and RunMigrations, which open the local database and
//     apply the embedded goose migrations.
//
// # Error Handling
//
// Failed calls return *HTTPError, which unwraps to one of ErrValidation,
// ErrSessionExpired, ErrNetwork or ErrServer. ErrNotAuthenticated is
// returned when no credential is available. Use UserMessage to get the
// server's message for display with a fallback.
package client
