package errors

import (
	"errors"
	"testing"
)

func TestConflictError(t *testing.T) {
	err := NewConflict("region crosses </p>", 4, 21)
	if got, want := err.Error(), "cannot label [4,21): region crosses </p>"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrStructuralConflict) {
		t.Error("ConflictError should unwrap to ErrStructuralConflict")
	}
}

func TestInterveningTextError(t *testing.T) {
	err := NewInterveningText(10, 21, "but")
	if got, want := err.Error(), `unexpected text between 10 and 21: "but"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrInterveningText) {
		t.Error("InterveningTextError should unwrap to ErrInterveningText")
	}
}

func TestUnbalancedTagError(t *testing.T) {
	tests := []struct {
		name    string
		err     *UnbalancedTagError
		wantMsg string
	}{
		{
			name:    "unmatched opening tag",
			err:     NewUnbalancedTag("b", 17, false),
			wantMsg: "no closing tag for <b> at 17",
		},
		{
			name:    "unmatched closing tag",
			err:     NewUnbalancedTag("i", 42, true),
			wantMsg: "no opening tag for </i> at 42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, ErrUnbalancedMarkup) {
				t.Error("UnbalancedTagError should unwrap to ErrUnbalancedMarkup")
			}
		})
	}
}

func TestStaleRegionError(t *testing.T) {
	err := &StaleRegionError{Have: 3, Want: 5}
	if got, want := err.Error(), "region computed against buffer version 3, buffer is now at 5"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrStaleRegion) {
		t.Error("StaleRegionError should unwrap to ErrStaleRegion")
	}
}

func TestRegionBoundsError(t *testing.T) {
	err := &RegionBoundsError{Begin: 0, End: 99, Len: 6}
	if got, want := err.Error(), "region [0,99) out of bounds for buffer of length 6"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrInvalidRegion) {
		t.Error("RegionBoundsError should unwrap to ErrInvalidRegion")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}

	wrapped := Wrap(ErrNotFound, "locating sentence start")
	if got, want := wrapped.Error(), "locating sentence start: not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("wrapped error should keep its sentinel")
	}
}

func TestWrapf(t *testing.T) {
	if Wrapf(nil, "context %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}

	wrapped := Wrapf(ErrEmptyRegion, "label [%d,%d)", 3, 3)
	if got, want := wrapped.Error(), "label [3,3): empty region"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(wrapped, ErrEmptyRegion) {
		t.Error("Is() should see through Wrapf")
	}
}
