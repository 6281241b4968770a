package domain

import "codeberg.org/mutker/raplmon/internal/errors"

const (
	// Construction errors (fatal to the domain)
	ErrMetadataUnreadable = errors.ErrorCode("domain_metadata_unreadable")

	// Per-sample errors (recoverable, the cycle is skipped)
	ErrCounterUnreadable = errors.ErrorCode("domain_counter_unreadable")
	ErrCounterOutOfRange = errors.ErrorCode("domain_counter_out_of_range")
	ErrZeroInterval      = errors.ErrorCode("domain_zero_interval")
)
