// Package delivery defines the contract every transport entrypoint satisfies.
package delivery

import "context"

// Delivery is a long-running entrypoint such as an HTTP server.
// Serve blocks until the entrypoint stops or the context is canceled.
type Delivery interface {
	Serve(ctx context.Context) error
}
