// Package catalog provides an HTTP client for the ramyun catalog API.
//
// # Overview
//
// The client covers the three remote contracts the browser depends on:
//
//   - GET /main/search: one page of items for an encoded query address
//   - GET /main/ramyun/{id}: a single item's detail record
//   - POST and DELETE /api/favorites: create or remove a favorite
//
// Responses are decoded with goccy/go-json into the types in types.go. Item
// keeps the remote field names as JSON tags so that a snapshot written by the
// recency cache reads back without a translation layer.
//
// # Credentials
//
// Every call takes an explicit session.Credential. When a token is present it
// is sent as a bearer Authorization header. The favorites calls refuse to run
// without a token and return ErrAuthRequired before any request is made.
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json
//   - Include User-Agent: ramyun/0.1
//   - Carry a fresh X-Request-ID (uuid v4) for server-side correlation
//   - Use the configured request timeout (five seconds by default)
//
// # Error Handling
//
//   - 401 and 403 map to ErrAuthRequired
//   - any other status of 400 or above is a *NetworkError carrying the status
//   - transport failures and undecodable bodies are a *NetworkError carrying the cause
//   - context.Canceled is returned unchanged so callers can tell a superseded
//     request from a failed one
//
// errors.Is(err, ErrNetwork) matches every *NetworkError.
//
// # URL Construction
//
// The API URL accepts "host:port" or a full URL. The scheme defaults to
// http and any path, query or fragment is dropped:
//
//   - "127.0.0.1:8080" → http://127.0.0.1:8080
//   - "https://api.example.com/x" → https://api.example.com
//
// The client does not retry. Refresh cadence and backoff belong to the app
// package; favorite retries are always manual.
package catalog
