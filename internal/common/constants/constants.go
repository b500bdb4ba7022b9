package constants

import "time"

const (
	ServerReadHeaderTimeout = 5 * time.Second
	ServerReadTimeout       = 15 * time.Second
	ServerWriteTimeout      = 15 * time.Second
	ServerIdleTimeout       = 60 * time.Second

	DefaultMaxRequestSize = int64(1 << 20)

	DBPoolMetricsInterval = 30 * time.Second

	MaxMessageBodyLength = 10000
)
