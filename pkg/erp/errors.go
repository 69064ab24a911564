package erp

import (
	"fmt"
	"net/http"
)

// Error is the transport-level failure of one ERP operation.
type Error struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" && e.StatusCode != 0 {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = fmt.Sprintf("%s: %v", msg, e.Err)
		}
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("erp %s failed (status %d): %s", e.Op, e.StatusCode, msg)
	}
	return fmt.Sprintf("erp %s failed: %s", e.Op, msg)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Operation names the remote operation that failed.
func (e *Error) Operation() string {
	if e == nil {
		return ""
	}
	return e.Op
}
