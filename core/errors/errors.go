// Package errors provides standardized error types and helpers for the ProseMark codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrNotFound indicates a boundary, tag, or marker search found nothing
	// before a document boundary
	ErrNotFound = errors.New("not found")
	// ErrStructuralConflict indicates labeling would split a forbidden
	// element or double-wrap an already labeled region
	ErrStructuralConflict = errors.New("structural conflict")
	// ErrInterveningText indicates unlabeled prose between two sentences
	ErrInterveningText = errors.New("intervening text")
	// ErrUnbalancedMarkup indicates a tag with no matching counterpart
	// anywhere in the document
	ErrUnbalancedMarkup = errors.New("unbalanced markup")
	// ErrInvalidRegion indicates a region outside the buffer bounds
	ErrInvalidRegion = errors.New("invalid region")
	// ErrEmptyRegion indicates an operation that requires a non-empty region
	ErrEmptyRegion = errors.New("empty region")
	// ErrStaleRegion indicates a region computed against an older buffer version
	ErrStaleRegion = errors.New("stale region")
)

// ConflictError represents a refused labeling operation with context
type ConflictError struct {
	Reason string // Why the label was refused
	Begin  int    // Region begin offset
	End    int    // Region end offset
	Err    error  // Underlying error, if any
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("cannot label [%d,%d): %s", e.Begin, e.End, e.Reason)
}

func (e *ConflictError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrStructuralConflict
}

// InterveningTextError represents unlabeled prose found between a region
// and the next located sentence
type InterveningTextError struct {
	From int    // End of the preceding region
	To   int    // Resolved start of the next sentence
	Text string // First stretch of unexpected text (may be truncated)
}

func (e *InterveningTextError) Error() string {
	return fmt.Sprintf("unexpected text between %d and %d: %q", e.From, e.To, e.Text)
}

func (e *InterveningTextError) Unwrap() error {
	return ErrInterveningText
}

// UnbalancedTagError represents a tag whose counterpart could not be found
// before a document boundary
type UnbalancedTagError struct {
	Name    string // Tag name
	Pos     int    // Offset of the unmatched tag
	Closing bool   // True when the unmatched tag is a closing tag
}

func (e *UnbalancedTagError) Error() string {
	if e.Closing {
		return fmt.Sprintf("no opening tag for </%s> at %d", e.Name, e.Pos)
	}
	return fmt.Sprintf("no closing tag for <%s> at %d", e.Name, e.Pos)
}

func (e *UnbalancedTagError) Unwrap() error {
	return ErrUnbalancedMarkup
}

// StaleRegionError represents a region used after the buffer was mutated
type StaleRegionError struct {
	Have uint64 // Version the region was computed against
	Want uint64 // Current buffer version
}

func (e *StaleRegionError) Error() string {
	return fmt.Sprintf("region computed against buffer version %d, buffer is now at %d", e.Have, e.Want)
}

func (e *StaleRegionError) Unwrap() error {
	return ErrStaleRegion
}

// RegionBoundsError represents a region that does not fit the buffer
type RegionBoundsError struct {
	Begin int // Region begin offset
	End   int // Region end offset
	Len   int // Buffer length
}

func (e *RegionBoundsError) Error() string {
	return fmt.Sprintf("region [%d,%d) out of bounds for buffer of length %d", e.Begin, e.End, e.Len)
}

func (e *RegionBoundsError) Unwrap() error {
	return ErrInvalidRegion
}

// Helper functions for creating common errors

// NewConflict creates a ConflictError
func NewConflict(reason string, begin, end int) *ConflictError {
	return &ConflictError{
		Reason: reason,
		Begin:  begin,
		End:    end,
	}
}

// NewInterveningText creates an InterveningTextError
func NewInterveningText(from, to int, text string) *InterveningTextError {
	return &InterveningTextError{
		From: from,
		To:   to,
		Text: text,
	}
}

// NewUnbalancedTag creates an UnbalancedTagError
func NewUnbalancedTag(name string, pos int, closing bool) *UnbalancedTagError {
	return &UnbalancedTagError{
		Name:    name,
		Pos:     pos,
		Closing: closing,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
