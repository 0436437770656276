package errors

import (
	"testing"
)

func TestValidateTargetName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"producer name", "onnxruntime_common", false},
		{"output dir", "onnxruntime/core/providers/cuda", false},
		{"root dir", ".", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"path traversal", "foo/../bar", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTargetName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTargetName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "a.cc", false},
		{"nested", "core/providers/shared_library/provider_bridge_cpu.cc", false},
		{"dotted name", "foo..bar.cc", false},

		{"empty", "", true},
		{"absolute", "/vendor/lib/a.cc", true},
		{"traversal", "core/../a.cc", true},
		{"backslash", "core\\a.cc", true},
		{"control char", "a\x01.cc", true},
		{"too long", string(make([]byte, 600)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidatePaths(t *testing.T) {
	if err := ValidatePaths([]string{"a.cc", "b/c.cc"}); err != nil {
		t.Errorf("ValidatePaths() error = %v", err)
	}
	if err := ValidatePaths([]string{"a.cc", "/abs.cc"}); err == nil {
		t.Error("ValidatePaths() expected error for absolute path")
	}
}
