package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors used to classify failures. Callers test against them with
// errors.Is or the Is* helpers below.
var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrInternal      = errors.New("internal error")
)

// InternalError is the concrete error produced by the builder. It keeps the
// display message separate from the wrapped cause and carries details that
// are safe to surface to callers.
type InternalError struct {
	Err               error
	DisplayError      string
	ReportableDetails map[string]any
}

func (e *InternalError) Error() string {
	if e.DisplayError != "" {
		return e.DisplayError
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// ErrorBuilder assembles an InternalError with hints and details before it is
// marked with one of the sentinel errors.
type ErrorBuilder struct {
	err     error
	msg     string
	hints   []string
	details map[string]any
}

// NewError starts a builder for a new error with the given message
func NewError(msg string) *ErrorBuilder {
	return &ErrorBuilder{
		err: errors.NewWithDepth(1, msg),
		msg: msg,
	}
}

// NewErrorf starts a builder for a new formatted error
func NewErrorf(format string, args ...any) *ErrorBuilder {
	msg := fmt.Sprintf(format, args...)
	return &ErrorBuilder{
		err: errors.NewWithDepth(1, msg),
		msg: msg,
	}
}

// WithError starts a builder wrapping an existing error
func WithError(err error) *ErrorBuilder {
	if err == nil {
		err = errors.NewWithDepth(1, "unknown error")
	}
	return &ErrorBuilder{
		err: err,
		msg: err.Error(),
	}
}

func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.hints = append(b.hints, hint)
	return b
}

func (b *ErrorBuilder) WithHintf(format string, args ...any) *ErrorBuilder {
	return b.WithHint(fmt.Sprintf(format, args...))
}

func (b *ErrorBuilder) WithReportableDetails(details map[string]any) *ErrorBuilder {
	if b.details == nil {
		b.details = make(map[string]any, len(details))
	}
	for k, v := range details {
		b.details[k] = v
	}
	return b
}

// Mark finalises the builder and tags the error with the given sentinel
func (b *ErrorBuilder) Mark(reference error) error {
	var err error = &InternalError{
		Err:               b.err,
		DisplayError:      b.msg,
		ReportableDetails: b.details,
	}
	for _, hint := range b.hints {
		err = errors.WithHint(err, hint)
	}
	return errors.Mark(err, reference)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// GetHints returns every hint attached to err, outermost first
func GetHints(err error) []string {
	return errors.GetAllHints(err)
}

// GetReportableDetails returns the details attached by the builder, if any
func GetReportableDetails(err error) map[string]any {
	var ie *InternalError
	if errors.As(err, &ie) {
		return ie.ReportableDetails
	}
	return nil
}
