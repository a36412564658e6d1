package soap

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingElement is reported, wrapped in a *FieldError, when
	// a required element is absent.
	ErrMissingElement = errors.New("element not found")

	// ErrNotImplemented is returned by operations that declare
	// faults. Their responses cannot be decoded yet.
	ErrNotImplemented = errors.New("soap: operations with faults are not implemented")
)

// A FieldError reports an element that is missing, or whose content
// could not be parsed.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return "field " + e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error { return e.Err }

// An EnvelopeError is returned when a response is not a SOAP
// envelope with a body.
type EnvelopeError struct {
	Method string
	Err    error
}

func (e *EnvelopeError) Error() string {
	return fmt.Sprintf("soap: bad response envelope for %s: %v", e.Method, e.Err)
}

func (e *EnvelopeError) Unwrap() error { return e.Err }

// A RequestError is returned when the request envelope of a call
// cannot be written. No request is sent.
type RequestError struct {
	Method string
	Err    error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("soap: could not encode request for %s: %v", e.Method, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// A TransportError is returned when a call cannot be completed
// over HTTP. StatusCode is zero if no response was received.
type TransportError struct {
	Method     string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("soap: %s: HTTP status %d: %v", e.Method, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("soap: %s: %v", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// A Fault is a SOAP 1.1 fault returned by the server.
type Fault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
	Actor  string `xml:"faultactor"`
	Detail struct {
		Inner []byte `xml:",innerxml"`
	} `xml:"detail"`
}

func (f *Fault) Error() string {
	if f.Code == "" {
		return "soap fault: " + f.String
	}
	return fmt.Sprintf("soap fault %s: %s", f.Code, f.String)
}
