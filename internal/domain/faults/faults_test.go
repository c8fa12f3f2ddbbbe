package faults_test

import (
	"errors"
	"fmt"
	"testing"

	"gameclub/internal/domain/faults"
)

// TestKindOf tests classification extraction through wrapping.
func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want faults.Kind
	}{
		{"nil", nil, faults.KindInternal},
		{"plain error", errors.New("boom"), faults.KindInternal},
		{"not found", faults.New(faults.KindNotFound, "game not found"), faults.KindNotFound},
		{"conflict", faults.New(faults.KindConflict, "duplicate"), faults.KindConflict},
		{"wrapped once", fmt.Errorf("adding game: %w", faults.New(faults.KindConflict, "duplicate")), faults.KindConflict},
		{"forbidden", faults.Newf(faults.KindForbidden, "member %s is not the owner", "m1"), faults.KindForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := faults.KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestWrapNil tests that wrapping nil stays nil.
func TestWrapNil(t *testing.T) {
	if err := faults.Wrap(faults.KindNotFound, nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

// TestUnwrap tests that the original sentinel survives classification.
func TestUnwrap(t *testing.T) {
	sentinel := errors.New("rotation is completed")
	err := faults.Wrap(faults.KindInvalidState, sentinel)
	if !errors.Is(err, sentinel) {
		t.Error("expected errors.Is to find the wrapped sentinel")
	}
	if faults.KindOf(err) != faults.KindInvalidState {
		t.Errorf("expected invalid_state, got %v", faults.KindOf(err))
	}
}

// TestKindString tests the string form used in log events.
func TestKindString(t *testing.T) {
	if faults.KindInvalidArgument.String() != "invalid_argument" {
		t.Errorf("unexpected string: %s", faults.KindInvalidArgument.String())
	}
	if faults.KindInternal.String() != "internal" {
		t.Errorf("unexpected string: %s", faults.KindInternal.String())
	}
}

// TestHelpers tests the NotFound/Conflict convenience predicates.
func TestHelpers(t *testing.T) {
	if !faults.NotFound(faults.New(faults.KindNotFound, "missing")) {
		t.Error("expected NotFound to be true")
	}
	if faults.Conflict(errors.New("plain")) {
		t.Error("expected Conflict to be false for unclassified error")
	}
}
