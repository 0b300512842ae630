package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	ferrors "github.com/fleetingdev/fleeting/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"interrupted", fmt.Errorf("fetch forks: %w", context.Canceled), 130},
		{"invalid repo", ferrors.New(ferrors.ErrCodeInvalidRepo, "invalid repository: %s", "mozilla"), 2},
		{"invalid config wrapped", fmt.Errorf("setup: %w", ferrors.New(ferrors.ErrCodeInvalidConfig, "bad ttl")), 2},
		{"pagination loop", ferrors.New(ferrors.ErrCodePaginationLoop, "page seen twice"), 1},
		{"plain", errors.New("connection refused"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
