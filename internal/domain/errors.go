package domain

import "fmt"

// ErrorKind classifies an AnalysisError per the engine's error handling
// policy: InvalidInput and Fatal propagate to the caller, DetectorError
// is logged and swallowed so the remaining detectors still run.
type ErrorKind string

const (
	KindInvalidInput  ErrorKind = "invalid_input"
	KindDetectorError ErrorKind = "detector_error"
	KindFatal         ErrorKind = "fatal"
)

// AnalysisError is the engine's only error type. Callers use errors.As to
// recover the Kind and decide how to map it onto a transport response.
type AnalysisError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// NewInvalidInput builds an InvalidInput error, surfaced as 400 at the API layer.
func NewInvalidInput(message string) *AnalysisError {
	return &AnalysisError{Kind: KindInvalidInput, Message: message}
}

// NewDetectorError builds a DetectorError. It never aborts the analysis;
// the engine logs it and continues with the next detector.
func NewDetectorError(detector string, err error) *AnalysisError {
	return &AnalysisError{Kind: KindDetectorError, Message: "detector failed: " + detector, Err: err}
}

// NewFatal builds a Fatal error, surfaced as 500 at the API layer.
func NewFatal(message string, err error) *AnalysisError {
	return &AnalysisError{Kind: KindFatal, Message: message, Err: err}
}
