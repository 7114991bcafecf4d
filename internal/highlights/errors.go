package highlights

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed detection options. The pipeline never
// starts when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid detection options: %s: %s", e.Field, e.Message)
}

// TimeoutError reports that the pipeline deadline expired before the fusion
// join point. No partial result accompanies it.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("highlight detection timed out: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// PartialSignalError reports that one signal source's upstream data was
// unavailable. It never fails a detection call on its own; the detector folds
// it into a degraded (but successful) result.
type PartialSignalError struct {
	Source Source
	Err    error
}

func (e *PartialSignalError) Error() string {
	return fmt.Sprintf("signal source %q unavailable: %v", e.Source, e.Err)
}

func (e *PartialSignalError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsTimeout reports whether err is a TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
