package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeInvalidVertex, "vertex %d out of range", 7)
	if err.Code != ErrCodeInvalidVertex || err.Message != "vertex 7 out of range" {
		t.Fatalf("New() = %+v", err)
	}
	if got, want := err.Error(), "INVALID_VERTEX: vertex 7 out of range"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	noPath := errors.New("no path between 0 and 4")
	wrapped := Wrap(ErrCodeDisconnected, noPath, "dependency #%d", 3)
	if errors.Unwrap(wrapped) != noPath || !errors.Is(wrapped, noPath) {
		t.Errorf("Wrap() does not expose its cause: %v", wrapped)
	}
}

// routeFailure mimics the chain a failed run produces: a finder error wrapped
// by the router, then annotated by the pipeline with fmt.Errorf.
func routeFailure() error {
	find := Wrap(ErrCodeDisconnected, errors.New("no path between 0 and 4"), "dependency #3")
	route := Wrap(ErrCodeInternal, find, "route")
	return fmt.Errorf("execute: %w", route)
}

func TestCodeLookups(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		has      []Code
		lacks    []Code
		outer    Code
		root     Code
		userText string
	}{
		{
			name:     "single",
			err:      New(ErrCodeNotFound, "unknown device %q", "ibmqx9"),
			has:      []Code{ErrCodeNotFound},
			lacks:    []Code{ErrCodeIntractable},
			outer:    ErrCodeNotFound,
			root:     ErrCodeNotFound,
			userText: `unknown device "ibmqx9"`,
		},
		{
			name:     "route chain",
			err:      routeFailure(),
			has:      []Code{ErrCodeInternal, ErrCodeDisconnected},
			lacks:    []Code{ErrCodeTimeout},
			outer:    ErrCodeInternal,
			root:     ErrCodeDisconnected,
			userText: "route: dependency #3: no path between 0 and 4",
		},
		{
			name:     "plain",
			err:      errors.New("plain error"),
			lacks:    []Code{ErrCodeInvalidInput},
			userText: "plain error",
		},
		{
			name:  "nil",
			lacks: []Code{ErrCodeInvalidInput},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, c := range tt.has {
				if !Is(tt.err, c) {
					t.Errorf("Is(%s) = false", c)
				}
			}
			for _, c := range tt.lacks {
				if Is(tt.err, c) {
					t.Errorf("Is(%s) = true", c)
				}
			}
			if got := GetCode(tt.err); got != tt.outer {
				t.Errorf("GetCode() = %q, want %q", got, tt.outer)
			}
			if got := RootCode(tt.err); got != tt.root {
				t.Errorf("RootCode() = %q, want %q", got, tt.root)
			}
			if tt.err != nil {
				if got := UserMessage(tt.err); got != tt.userText {
					t.Errorf("UserMessage() = %q, want %q", got, tt.userText)
				}
			}
		})
	}
}
