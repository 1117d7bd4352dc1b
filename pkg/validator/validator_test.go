package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-cdms-inventory/internal/apperror"
)

type sample struct {
	Code     string `json:"hs_code" validate:"required,hs_code"`
	Password string `json:"password" validate:"required,min=8,strong_password"`
	Role     string `json:"role" validate:"omitempty,role"`
	Email    string `json:"email" validate:"required,email"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name   string
		input  sample
		fields []string
	}{
		{
			name:  "when valid",
			input: sample{Code: "123456", Password: "Secret1!", Role: "gudang", Email: "a@b.co"},
		},
		{
			name:   "when hs code has letters",
			input:  sample{Code: "12a456", Password: "Secret1!", Email: "a@b.co"},
			fields: []string{"hs_code"},
		},
		{
			name:   "when hs code too long",
			input:  sample{Code: "12345678901", Password: "Secret1!", Email: "a@b.co"},
			fields: []string{"hs_code"},
		},
		{
			name:   "when password weak and role unknown",
			input:  sample{Code: "1234567890", Password: "password", Role: "root", Email: "a@b.co"},
			fields: []string{"password", "role"},
		},
		{
			name:   "when everything missing",
			input:  sample{},
			fields: []string{"hs_code", "password", "email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateStruct(tt.input)
			got := make([]string, 0, len(errs))
			for _, e := range errs {
				got = append(got, e.Field)
				assert.NotEmpty(t, e.Message)
			}
			assert.Equal(t, tt.fields, nilIfEmpty(got))
		})
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(sample{Code: "123456", Password: "Secret1!", Email: "a@b.co"}))

	err := Check(sample{})
	require.Error(t, err)
	appErr := apperror.From(err)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Equal(t, "Validation failed", appErr.Message)
	assert.Len(t, appErr.Fields, 3)
}

func TestIsStrongPassword(t *testing.T) {
	assert.True(t, IsStrongPassword("Abcdef1@"))
	assert.False(t, IsStrongPassword("abcdef1@"))
	assert.False(t, IsStrongPassword("ABCDEF1@"))
	assert.False(t, IsStrongPassword("Abcdefg@"))
	assert.False(t, IsStrongPassword("Abcdefg1"))
	assert.False(t, IsStrongPassword("Abcdef1@ "))
}
