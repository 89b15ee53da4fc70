package ai

import (
	"fmt"
	"net/http"
)

// BackendError is a non-2xx vendor response or a failed vendor call.
// Detail holds the raw response body when there was one.
type BackendError struct {
	Vendor string
	Status int
	Detail string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend error: status=%d body=%s", e.Vendor, e.Status, short(e.Detail))
}

func (e *BackendError) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusBadGateway
	}
	return e.Status
}

func (e *BackendError) ErrorDetail() string { return e.Detail }

func short(s string) string {
	r := []rune(s)
	if len(r) > 180 {
		return string(r[:180]) + "..."
	}
	return s
}
