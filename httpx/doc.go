// Package httpx is the HTTP client used by the provider adapters:
// - safe, reusable transports with defaults suited to long LLM responses
// - request building with base URL, default headers, query parameters and bearer auth
// - per-request timeouts layered under the caller's context
// - error type carrying status, request id, retry-after and a limited body
// - fault classification of transport errors (timeout, reset, DNS) for retry policies
// - hook points and an optional rate limiter, without hard dependencies
//
// Retrying is left to the caller (see llm/retry); a Client performs exactly one
// attempt per Do call.
package httpx
