package services

import "errors"

// Sentinel errors raised at the service boundary. Handlers map them to HTTP
// statuses; wrap with fmt.Errorf("%w: detail", Err...) to attach context.
var (
	ErrNotFound      = errors.New("not found")
	ErrBadRequest    = errors.New("bad request")
	ErrForbidden     = errors.New("forbidden")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrDataIntegrity = errors.New("data integrity violation")
)
