package gateway

import (
	"errors"
	"fmt"
)

// ErrRequestFailed matches every failure returned by the gateway. Callers that
// only need "did it work" check errors.Is(err, ErrRequestFailed).
var ErrRequestFailed = errors.New("request failed")

// ErrorKind says which layer a request failed in.
type ErrorKind int

const (
	// KindTransport: the request never produced an HTTP response.
	KindTransport ErrorKind = iota
	// KindStatus: the backend answered with a non-2xx status.
	KindStatus
	// KindDecode: the body could not be decoded into the expected shape.
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	}
	return "unknown"
}

// Error is the concrete failure returned by every Client operation.
type Error struct {
	Op     string // list, create, advance, remove, ai
	Kind   ErrorKind
	Status int // HTTP status for KindStatus
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("%s: %s: backend returned status %d", e.Op, ErrRequestFailed, e.Status)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %s (%s): %v", e.Op, ErrRequestFailed, e.Kind, e.Err)
		}
		return fmt.Sprintf("%s: %s (%s)", e.Op, ErrRequestFailed, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes every *Error match ErrRequestFailed.
func (e *Error) Is(target error) bool {
	return target == ErrRequestFailed
}

// KindOf extracts the failure kind from err, if it came from the gateway.
func KindOf(err error) (ErrorKind, bool) {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind, true
	}
	return 0, false
}
