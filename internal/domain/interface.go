package domain

import "time"

// Reader supplies the three per-domain values the tracker consumes. A
// location (sysfs directory, NVML device handle) is bound at
// construction; the reader itself holds no sampling state.
//
// Counter values are microjoules. ReadCounter pairs the raw value with
// a timestamp taken immediately after the read completes, so elapsed
// time between samples includes the read latency consistently.
type Reader interface {
	// DisplayName returns the human-readable domain identifier.
	DisplayName() (string, error)

	// MaxRange returns the counter's wraparound ceiling in microjoules.
	MaxRange() (uint64, error)

	// ReadCounter returns the current raw counter value and the time
	// the read completed.
	ReadCounter() (uint64, time.Time, error)
}
