package errors

import (
	"strings"
	"testing"
)

func TestValidateOrderID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"stripe style", "ord_8f2a91c4e7b3", false},
		{"uuid", "3f0c2a6e-5b1d-4c8e-9a7f-2d4b6e8c0a1f", false},
		{"short", "42", false},
		{"dots inside", "order.2026.10", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("a", MaxOrderIDLength+1), true},
		{"slash", "ord/../../etc", true},
		{"parent dir", "..", true},
		{"backslash", "ord\\x", true},
		{"null byte", "ord\x00x", true},
		{"newline", "ord\nx", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOrderID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOrderID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidOrder) {
				t.Errorf("ValidateOrderID(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidDesign,
		ErrCodeInvalidAddress,
		ErrCodeInvalidFormat,
		ErrCodeInvalidOrder,
		ErrCodeInvalidPath,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeArtwork,
		ErrCodeNetwork,
		ErrCodeTimeout,
		ErrCodeRender,
		ErrCodeConverter,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
