package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      *NotFoundError
		wantMsg  string
		wantBase error
	}{
		{
			name:     "with ID",
			err:      &NotFoundError{Resource: "verse", ID: "John.3.16"},
			wantMsg:  "verse not found: John.3.16",
			wantBase: ErrNotFound,
		},
		{
			name:     "without ID",
			err:      &NotFoundError{Resource: "chapter"},
			wantMsg:  "chapter not found",
			wantBase: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, tt.wantBase) {
				t.Errorf("Unwrap() = %v, want %v", got, tt.wantBase)
			}
		})
	}

	t.Run("with underlying error", func(t *testing.T) {
		underlyingErr := fmt.Errorf("disk error")
		err := &NotFoundError{Resource: "highlight", ID: "abc", Err: underlyingErr}
		if got := err.Error(); got != "highlight not found: abc" {
			t.Errorf("Error() = %q, want %q", got, "highlight not found: abc")
		}
		if got := err.Unwrap(); got != underlyingErr {
			t.Errorf("Unwrap() = %v, want %v", got, underlyingErr)
		}
	})
}

func TestRangeError(t *testing.T) {
	err := NewRange("Gen.1.1", 10, 80, 54)
	wantMsg := "range [10,80) exceeds verse Gen.1.1 (length 54)"
	if got := err.Error(); got != wantMsg {
		t.Errorf("Error() = %q, want %q", got, wantMsg)
	}
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("errors.Is(err, ErrOutOfRange) = false, want true")
	}
	var re *RangeError
	if !errors.As(error(err), &re) {
		t.Errorf("errors.As failed to match RangeError")
	}
}

func TestBoundsError(t *testing.T) {
	err := NewBounds(-1, 54)
	wantMsg := "position -1 out of bounds for text of length 54"
	if got := err.Error(); got != wantMsg {
		t.Errorf("Error() = %q, want %q", got, wantMsg)
	}
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("errors.Is(err, ErrOutOfRange) = false, want true")
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name    string
		err     *ValidationError
		wantMsg string
	}{
		{
			name:    "with field",
			err:     &ValidationError{Field: "color", Message: "unknown palette token"},
			wantMsg: "validation failed for color: unknown palette token",
		},
		{
			name:    "without field",
			err:     &ValidationError{Message: "empty record"},
			wantMsg: "validation failed: empty record",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, ErrInvalidInput) {
				t.Errorf("errors.Is(err, ErrInvalidInput) = false, want true")
			}
		})
	}
}

func TestParseError(t *testing.T) {
	err := NewParse("OSIS", "kjv.xml", "missing osisID")
	wantMsg := "failed to parse OSIS at kjv.xml: missing osisID"
	if got := err.Error(); got != wantMsg {
		t.Errorf("Error() = %q, want %q", got, wantMsg)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("errors.Is(err, ErrInvalidInput) = false, want true")
	}
}

func TestWrap(t *testing.T) {
	if got := Wrap(nil, "context"); got != nil {
		t.Errorf("Wrap(nil) = %v, want nil", got)
	}

	base := errors.New("base")
	wrapped := Wrap(base, "loading chapter")
	if wrapped == nil {
		t.Fatal("Wrap returned nil for non-nil error")
	}
	if !errors.Is(wrapped, base) {
		t.Errorf("wrapped error does not match base via errors.Is")
	}
	if got, want := wrapped.Error(), "loading chapter: base"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWrapf(t *testing.T) {
	if got := Wrapf(nil, "context %d", 1); got != nil {
		t.Errorf("Wrapf(nil) = %v, want nil", got)
	}

	base := errors.New("base")
	wrapped := Wrapf(base, "verse %s", "Gen.1.1")
	if got, want := wrapped.Error(), "verse Gen.1.1: base"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
