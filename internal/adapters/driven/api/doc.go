// Package api implements the driven catalog, auth and user ports against
// the marketplace HTTP backend.
//
// Every request passes through a client-side rate limiter, carries a fresh
// X-Request-ID and, when a session is stored, a bearer token. Transient
// failures (connection errors, 429 and 5xx) are retried with backoff by
// go-retryablehttp.
package api
