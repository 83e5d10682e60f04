package gpucopy

import (
	"errors"
	"testing"
)

func TestStructuredErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType ErrorType
		wantOp   string
		wantMsg  string
		checkFn  func(error) bool
	}{
		{
			name:     "Memory Error",
			err:      ErrOutOfMemory,
			wantType: ErrTypeMemory,
			wantOp:   "Malloc",
			wantMsg:  "out of memory",
			checkFn:  IsMemoryError,
		},
		{
			name:     "Invalid Arg Error",
			err:      ErrInvalidSize,
			wantType: ErrTypeInvalidArg,
			wantOp:   "Malloc",
			wantMsg:  "size must be positive",
			checkFn:  IsInvalidArgError,
		},
		{
			name:     "Double Free Error",
			err:      ErrDoubleFree,
			wantType: ErrTypeMemory,
			wantOp:   "Free",
			wantMsg:  "double free detected",
			checkFn:  IsMemoryError,
		},
		{
			name:     "Nil Stream Error",
			err:      ErrNilStream,
			wantType: ErrTypeLaunch,
			wantOp:   "Launch",
			wantMsg:  "nil stream",
			checkFn:  IsLaunchError,
		},
		{
			name:     "Stream Closed Error",
			err:      ErrStreamClosed,
			wantType: ErrTypeLaunch,
			wantOp:   "Launch",
			wantMsg:  "stream is closed",
			checkFn:  IsLaunchError,
		},
		{
			name:     "Zero Geometry Error",
			err:      ErrZeroGeometry,
			wantType: ErrTypeLaunch,
			wantOp:   "Launch",
			wantMsg:  "zero-sized launch geometry",
			checkFn:  IsLaunchError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			copyErr, ok := tt.err.(*CopyError)
			if !ok {
				t.Fatalf("Expected CopyError, got %T", tt.err)
			}

			if copyErr.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", copyErr.Type, tt.wantType)
			}
			if copyErr.Op != tt.wantOp {
				t.Errorf("Op = %v, want %v", copyErr.Op, tt.wantOp)
			}
			if copyErr.Message != tt.wantMsg {
				t.Errorf("Message = %v, want %v", copyErr.Message, tt.wantMsg)
			}
			if !tt.checkFn(tt.err) {
				t.Errorf("Type check function returned false")
			}
			if tt.err.Error() == "" {
				t.Error("Error string is empty")
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	baseErr := errors.New("base error")
	wrappedErr := NewLaunchError("Test", "wrapped error", baseErr)

	copyErr, ok := wrappedErr.(*CopyError)
	if !ok {
		t.Fatal("Expected CopyError")
	}

	if unwrapped := copyErr.Unwrap(); unwrapped != baseErr {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, baseErr)
	}

	if !errors.Is(wrappedErr, baseErr) {
		t.Error("errors.Is() should return true for wrapped error")
	}
}

func TestErrorTypeString(t *testing.T) {
	tests := []struct {
		errType ErrorType
		want    string
	}{
		{ErrTypeMemory, "Memory"},
		{ErrTypeInvalidArg, "InvalidArgument"},
		{ErrTypeLaunch, "LaunchFailure"},
		{ErrTypeDevice, "Device"},
		{ErrorType(999), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.errType.String(); got != tt.want {
				t.Errorf("String() = %v, want %v", got, tt.want)
			}
		})
	}
}
