package elasticsearch

import "errors"

var (
	ErrConnectFailed     = errors.New("failed to create elasticsearch client")
	ErrPingFailed        = errors.New("failed to ping elasticsearch")
	ErrEncodeFailed      = errors.New("failed to encode bulk body")
	ErrBulkRequestFailed = errors.New("bulk request failed")
	ErrDecodeFailed      = errors.New("failed to decode bulk response")
)
