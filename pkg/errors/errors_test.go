package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodePayloadShape, "expected %s", "array")

	if err.Code != ErrCodePayloadShape {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodePayloadShape)
	}

	if err.Message != "expected array" {
		t.Errorf("Message = %v, want %v", err.Message, "expected array")
	}

	expected := "PAYLOAD_SHAPE: expected array"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected token")
	err := Wrap(ErrCodeExternalEngine, cause, "compile expression")

	if err.Code != ErrCodeExternalEngine {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeExternalEngine)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "EXTERNAL_ENGINE: compile expression: unexpected token"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodePayloadDecode, "test"),
			code:     ErrCodePayloadDecode,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodePayloadDecode, "test"),
			code:     ErrCodePayloadShape,
			expected: false,
		},
		{
			name:     "outermost code wins",
			err:      Wrap(ErrCodeExternalEngine, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeExternalEngine,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInternal,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInvalidConfig, "bad")); got != ErrCodeInvalidConfig {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeInvalidConfig)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestIsPayload(t *testing.T) {
	if !IsPayload(New(ErrCodePayloadDecode, "x")) {
		t.Error("IsPayload(decode) = false, want true")
	}
	if !IsPayload(New(ErrCodePayloadShape, "x")) {
		t.Error("IsPayload(shape) = false, want true")
	}
	if IsPayload(New(ErrCodeExternalEngine, "x")) {
		t.Error("IsPayload(engine) = true, want false")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"coded", New(ErrCodeInvalidFormat, "unknown format %q", "gif"), `unknown format "gif"`},
		{"coded with cause", Wrap(ErrCodeFileNotFound, errors.New("no such file"), "open doc.md"), "open doc.md: no such file"},
		{"plain", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
