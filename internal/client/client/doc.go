// Package client contains the transport layer of the recognition client.
//
// # Overview
//
//  1. A transport-agnostic contract (Client) covering session fetch, create
//     and phase patch, participant management, token check and join,
//     nominations and votes.
//  2. A JSON-over-HTTP implementation (HTTPClient) that attaches the admin
//     password as a bearer value, tags requests with an X-Request-ID and maps
//     responses onto the package's error kinds.
//  3. Local store bootstrap (InitDatabase, RunMigrations) wiring SQLite and
//     the embedded goose migrations.
//
// # Error Handling
//
// Responses carry failures as {"error": "..."}. "Unauthorized" (or HTTP 401)
// becomes ErrUnauthorized and clears the stored admin password. Other error
// strings become *APIError. Transport failures wrap ErrUnavailable. Classify
// groups all of them into the three recoveries offered by the UI.
//
// # Concurrency
//
// HTTPClient is safe for concurrent use. Every call takes a context and
// honours its cancellation; the http.Client carries an overall timeout.
package client
