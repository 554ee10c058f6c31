package common

import (
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestAppErrorFormatting(t *testing.T) {
	cause := errors.New("disk full")
	err := NewAppError("CONFIG_ERROR", "state file unwritable", cause)

	if got := err.Error(); got != "CONFIG_ERROR: state file unwritable: disk full" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}

	bare := NewAppError("CONFIG_ERROR", "no cause", nil)
	if got := bare.Error(); got != "CONFIG_ERROR: no cause" {
		t.Errorf("Error() = %q", got)
	}
}

func TestWrapErrorNil(t *testing.T) {
	if WrapError(nil, "context") != nil {
		t.Error("wrapping nil should stay nil")
	}
}

func TestStatusCodedErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"invalid argument", InvalidArgumentError("bad dsn"), codes.InvalidArgument},
		{"not found", NotFoundError("no schema"), codes.NotFound},
		{"internal", InternalError("boom"), codes.Internal},
		{"internal formatted", InternalErrorf("status %d", 502), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := status.Code(tt.err); got != tt.want {
				t.Errorf("status.Code = %v, want %v", got, tt.want)
			}
		})
	}
}
