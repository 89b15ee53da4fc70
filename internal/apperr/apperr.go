package apperr

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Error is a failure the transport reports to the caller verbatim.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Detail)
}

func (e *Error) HTTPStatus() int { return e.Status }

func BadRequest(format string, args ...any) error {
	return &Error{Status: http.StatusBadRequest, Detail: "bad request: " + fmt.Sprintf(format, args...)}
}

func Unauthorized() error {
	return &Error{Status: http.StatusUnauthorized, Detail: "unauthorized"}
}

func Internal(format string, args ...any) error {
	return &Error{Status: http.StatusInternalServerError, Detail: fmt.Sprintf(format, args...)}
}

type statusCarrier interface {
	HTTPStatus() int
}

// StatusOf maps any error in the chain to the status reported on the wire.
// Unclassified errors are 500.
func StatusOf(err error) int {
	var sc statusCarrier
	if errors.As(err, &sc) {
		return sc.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// DetailOf returns the caller-facing detail for err.
func DetailOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	type detailCarrier interface{ ErrorDetail() string }
	var dc detailCarrier
	if errors.As(err, &dc) {
		return dc.ErrorDetail()
	}
	return "agent error: " + err.Error()
}

// Canceled reports whether err only means the caller went away.
func Canceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
