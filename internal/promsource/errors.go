package promsource

import (
	"context"
	"errors"
	"net"

	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
)

// ErrorKind classifies a backend query failure. All kinds are handled
// identically by the evaluator (the check goes unhealthy) but each is
// logged and counted separately.
type ErrorKind string

const (
	// KindConnection covers refused connections and DNS failures.
	KindConnection ErrorKind = "connection"
	// KindTimeout covers the query deadline expiring.
	KindTimeout ErrorKind = "timeout"
	// KindStatus covers non-success HTTP responses from the backend.
	KindStatus ErrorKind = "status"
	// KindDecode covers responses that could not be parsed.
	KindDecode ErrorKind = "decode"
)

// Kind classifies err. The Prometheus API client reports non-2xx responses
// and unparseable payloads as *promv1.Error; transport failures come
// through as raw net/url errors.
func Kind(err error) ErrorKind {
	var apiErr *promv1.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Type {
		case promv1.ErrServer, promv1.ErrClient:
			return KindStatus
		case promv1.ErrBadResponse, promv1.ErrBadData:
			return KindDecode
		case promv1.ErrTimeout:
			return KindTimeout
		}
		return KindStatus
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	return KindConnection
}
