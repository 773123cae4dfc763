package errors

import (
	"fmt"
	"strings"
)

// Error codes for the mediator contracts. Keep stable; used across adapters and the dispatcher.
const (
	ErrCodeInvalidSelector        = "mediator.invalid_selector"
	ErrCodeHandlerNotFound        = "mediator.handler_not_found"
	ErrCodeAmbiguousHandler       = "mediator.ambiguous_handler"
	ErrCodeHandlerTypeMismatch    = "mediator.handler_type_mismatch"
	ErrCodeHandlerFailed          = "mediator.handler_failed"
	ErrCodeHandlerPanicked        = "mediator.handler_panicked"
	ErrCodeCanceled               = "mediator.canceled"
	ErrCodeNilMessage             = "mediator.nil_message"
	ErrCodeAlreadyRegistered      = "mediator.already_registered"
	ErrCodeSealed                 = "mediator.sealed"
	ErrCodeResolveFailed          = "mediator.resolve_failed"
	ErrCodeTransportNotConfigured = "mediator.transport_not_configured"
	ErrCodeForwardFailed          = "mediator.forward_failed"
	ErrCodeSerializationFailed    = "mediator.serialization_failed"
)

// Code returns an error value that carries only a code string.
// It implements error by returning the code string in Error().
func Code(code string) error { return codedError(code) }

type codedError string

func (e codedError) Error() string { return string(e) }

var (
	ErrInvalidSelector        = Code(ErrCodeInvalidSelector)
	ErrHandlerNotFound        = Code(ErrCodeHandlerNotFound)
	ErrAmbiguousHandler       = Code(ErrCodeAmbiguousHandler)
	ErrHandlerTypeMismatch    = Code(ErrCodeHandlerTypeMismatch)
	ErrHandlerFailed          = Code(ErrCodeHandlerFailed)
	ErrHandlerPanicked        = Code(ErrCodeHandlerPanicked)
	ErrCanceled               = Code(ErrCodeCanceled)
	ErrNilMessage             = Code(ErrCodeNilMessage)
	ErrAlreadyRegistered      = Code(ErrCodeAlreadyRegistered)
	ErrSealed                 = Code(ErrCodeSealed)
	ErrResolveFailed          = Code(ErrCodeResolveFailed)
	ErrTransportNotConfigured = Code(ErrCodeTransportNotConfigured)
	ErrForwardFailed          = Code(ErrCodeForwardFailed)
	ErrSerializationFailed    = Code(ErrCodeSerializationFailed)
)

// AggregateError collects the failures of a fan-out delivery.
// Every handler was attempted; Errs holds the failures in registration order.
type AggregateError struct {
	Op   string
	Errs []error
}

func (e *AggregateError) Error() string {
	parts := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		parts = append(parts, err.Error())
	}

	return fmt.Sprintf("%s: %d handler(s) failed: %s", e.Op, len(e.Errs), strings.Join(parts, "; "))
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error { return e.Errs }

// Is reports the aggregate itself as ErrHandlerFailed.
func (e *AggregateError) Is(target error) bool { return target == ErrHandlerFailed }

// Len returns the number of collected failures.
func (e *AggregateError) Len() int { return len(e.Errs) }
