package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures in the estimation pipeline
type ErrorKind string

const (
	KindInput              ErrorKind = "input"
	KindRetrieval          ErrorKind = "retrieval"
	KindPredictorTransport ErrorKind = "predictor_transport"
	KindPredictorParse     ErrorKind = "predictor_parse"
	KindConfig             ErrorKind = "config"
)

// Error is a pipeline error with its kind attached
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func InputError(message string) *Error {
	return NewError(KindInput, message, nil)
}

func RetrievalFailure(message string, err error) *Error {
	return NewError(KindRetrieval, message, err)
}

func PredictorTransportFailure(message string, err error) *Error {
	return NewError(KindPredictorTransport, message, err)
}

func PredictorParseFailure(message string, err error) *Error {
	return NewError(KindPredictorParse, message, err)
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
