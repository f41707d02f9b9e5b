package errors

import (
	"strings"
	"testing"
)

func TestValidateRegisterName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "q", false},
		{"valid with digits", "q0", false},
		{"valid with underscore", "anc_reg", false},

		{"empty", "", true},
		{"too long", "q" + strings.Repeat("a", 80), true},
		{"uppercase start", "Q", true},
		{"digit start", "0q", true},
		{"brackets", "q[0]", true},
		{"dash", "my-reg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegisterName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRegisterName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT code, got %v", GetCode(err))
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
		{"relative", "arch/ibmqx2.txt", false},
		{"absolute", "/tmp/circuit.qasm", false},

		{"empty", "", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"leading space", " foo", true},
		{"too long", strings.Repeat("a", 5000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
