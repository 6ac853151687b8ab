// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

package validation

import (
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

type upsertClientRequest struct {
	Name  string `validate:"required,min=1,max=100"`
	Email string `validate:"omitempty,email"`
}

type publishRequest struct {
	Category string `validate:"required,category"`
	Mode     string `validate:"required,audiencemode"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantError bool
		wantField string
	}{
		{
			name:  "valid client",
			input: upsertClientRequest{Name: "Jana Nováková", Email: "jana@example.com"},
		},
		{
			name:  "email optional",
			input: upsertClientRequest{Name: "Jana"},
		},
		{
			name:      "missing name",
			input:     upsertClientRequest{Email: "jana@example.com"},
			wantError: true,
			wantField: "Name",
		},
		{
			name:      "malformed email",
			input:     upsertClientRequest{Name: "Jana", Email: "not-an-email"},
			wantError: true,
			wantField: "Email",
		},
		{
			name:  "known category and mode",
			input: publishRequest{Category: "gastro", Mode: "CLIENTS_TAGS"},
		},
		{
			name:      "unknown category",
			input:     publishRequest{Category: "travel", Mode: "PUBLIC"},
			wantError: true,
			wantField: "Category",
		},
		{
			name:      "unknown audience mode",
			input:     publishRequest{Category: "beauty", Mode: "FRIENDS"},
			wantError: true,
			wantField: "Mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if !tt.wantError {
				if err != nil {
					t.Fatalf("unexpected validation error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if len(err.Errors()) == 0 {
				t.Fatal("expected at least one field error")
			}
			if got := err.Errors()[0].Field(); got != tt.wantField {
				t.Errorf("failing field = %q, want %q", got, tt.wantField)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	err := ValidateStruct(upsertClientRequest{})
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Message == "" {
		t.Error("expected non-empty message")
	}
	if apiErr.Details["field"] != "Name" {
		t.Errorf("Details[field] = %v, want Name", apiErr.Details["field"])
	}
}
