package rapl

import "codeberg.org/mutker/raplmon/internal/errors"

const (
	ErrReadFailed      = errors.ErrorCode("rapl_read_failed")
	ErrParseFailed     = errors.ErrorCode("rapl_parse_failed")
	ErrDiscoveryFailed = errors.ErrorCode("rapl_discovery_failed")
	ErrNoDomains       = errors.ErrorCode("rapl_no_domains_found")
)
