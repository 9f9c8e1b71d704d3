package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type sampleRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Quantity int    `json:"quantity" validate:"gte=0"`
	Category string `json:"category" validate:"required,oneof=antibiotic painkiller supplement other"`
}

func TestValidateRequest(t *testing.T) {
	valid := sampleRequest{Email: "vet@clinic.com", Quantity: 3, Category: "antibiotic"}
	if err := ValidateRequest(valid); err != nil {
		t.Errorf("Expected valid struct to pass, got %v", err)
	}

	invalid := sampleRequest{Email: "not-an-email", Quantity: 3, Category: "antibiotic"}
	if err := ValidateRequest(invalid); err == nil {
		t.Error("Expected invalid email to fail validation")
	}
}

func TestDecodeAndValidate(t *testing.T) {
	body := `{"email": "vet@clinic.com", "quantity": 2, "category": "painkiller"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var decoded sampleRequest
	if err := DecodeAndValidate(req, &decoded); err != nil {
		t.Fatalf("Expected valid body to decode, got %v", err)
	}
	if decoded.Email != "vet@clinic.com" || decoded.Quantity != 2 {
		t.Errorf("Decoded struct has wrong values: %+v", decoded)
	}

	// Malformed JSON
	req = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{"email":`)))
	var bad sampleRequest
	if err := DecodeAndValidate(req, &bad); err == nil {
		t.Error("Expected malformed JSON to fail")
	}

	// Valid JSON failing validation
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email": "vet@clinic.com", "quantity": -1, "category": "other"}`))
	var negative sampleRequest
	if err := DecodeAndValidate(req, &negative); err == nil {
		t.Error("Expected negative quantity to fail validation")
	}
}

func TestValidationMessage(t *testing.T) {
	tests := []struct {
		name     string
		input    sampleRequest
		expected string
	}{
		{
			name:     "missing required field",
			input:    sampleRequest{Quantity: 1, Category: "other"},
			expected: "Email: this field is required",
		},
		{
			name:     "invalid email",
			input:    sampleRequest{Email: "nope", Quantity: 1, Category: "other"},
			expected: "Email: invalid email format",
		},
		{
			name:     "negative quantity",
			input:    sampleRequest{Email: "vet@clinic.com", Quantity: -2, Category: "other"},
			expected: "Quantity: value must be greater than or equal to 0",
		},
		{
			name:     "unknown category",
			input:    sampleRequest{Email: "vet@clinic.com", Quantity: 1, Category: "homeopathy"},
			expected: "Category: value must be one of: antibiotic painkiller supplement other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.input)
			if err == nil {
				t.Fatal("Expected validation to fail")
			}
			if got := ValidationMessage(err); got != tt.expected {
				t.Errorf("Expected message %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestValidationMessage_NonValidationError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`not json`)))
	var decoded sampleRequest
	err := DecodeAndValidate(req, &decoded)
	if err == nil {
		t.Fatal("Expected decode error")
	}

	if got := ValidationMessage(err); got != "invalid request body" {
		t.Errorf("Expected fallback message, got %q", got)
	}
}
