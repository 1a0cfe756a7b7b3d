package providers

import "time"

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 30 * time.Second

	// initTimeout bounds the first settings load at startup. It covers the
	// store timeout plus any configured load latency.
	initTimeout = time.Minute
)
