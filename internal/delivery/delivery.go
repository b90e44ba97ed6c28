// Package delivery defines the contract every transport implementation
// (HTTP, future gRPC, etc.) exposes to the application entrypoint.
package delivery

import "context"

// Delivery is a long-running transport server started by the entrypoint.
type Delivery interface {
	Serve(ctx context.Context) error
}
