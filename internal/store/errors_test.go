package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelMatchingSurvivesVariants(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want func(error) bool
	}{
		{"bare sentinel", ErrNotFound, IsNotFound},
		{"with message", ErrNotFound.WithMessage("no log for this day"), IsNotFound},
		{"with cause", ErrNotFound.WithCause(errors.New("sql: no rows")), IsNotFound},
		{"message then wrapped", fmt.Errorf("get log for day: %w", ErrNotFound.WithMessage("no log for this day")), IsNotFound},
		{"already exists with message", ErrAlreadyExists.WithMessage("log exists for this day"), IsAlreadyExists},
		{"already exists wrapped", fmt.Errorf("create log: %w", ErrAlreadyExists.WithCause(errors.New("constraint failed"))), IsAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.want(tt.err) {
				t.Errorf("sentinel did not match %v", tt.err)
			}
		})
	}
}

func TestSentinelMatchingRejectsOtherCodes(t *testing.T) {
	if IsNotFound(ErrAlreadyExists.WithMessage("log exists")) {
		t.Error("IsNotFound matched a conflict error")
	}
	if IsAlreadyExists(ErrNotFound) {
		t.Error("IsAlreadyExists matched a not-found error")
	}
	if IsNotFound(errors.New("plain")) {
		t.Error("IsNotFound matched a plain error")
	}
}
