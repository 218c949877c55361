package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrMissingCredential  = errors.New("no API credential configured")
	ErrRequestInProgress  = errors.New("a request is already in flight for this session")
	ErrMalformedResponse  = errors.New("provider response is missing the reply text")
	ErrImportParse        = errors.New("import payload is not valid")
	ErrStoreRead          = errors.New("stored value could not be read")
	ErrUnknownAIProvider  = errors.New("unknown AI provider")
	ErrUnknownStoreDriver = errors.New("unknown store backend")
)

// APIError reports a non-2xx response from the completion provider.
type APIError struct {
	Status int
	Reason string
}

func (e *APIError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("provider returned HTTP %d", e.Status)
	}
	return fmt.Sprintf("provider returned HTTP %d: %s", e.Status, e.Reason)
}

// TransportError reports a request that never produced an HTTP response,
// including timeouts and context cancellation.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("provider unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
