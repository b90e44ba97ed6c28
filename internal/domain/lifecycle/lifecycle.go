// Package lifecycle holds shared constants for application startup and shutdown.
package lifecycle

import "time"

// DefaultTimeout bounds lifecycle hooks such as the database ping on startup
// and the HTTP server drain on shutdown.
const DefaultTimeout = 10 * time.Second
