package validation

import (
	"testing"

	apperrors "checkinn/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	Role     string `json:"role" validate:"omitempty,oneof=Customer HotelPartner"`
}

func TestStruct_Valid(t *testing.T) {
	v := New()
	err := v.Struct(signup{Name: "Ada", Email: "ada@example.com", Password: "Str0ng!pass"})
	assert.NoError(t, err)
}

func TestStruct_ReportsFirstFailingField(t *testing.T) {
	v := New()
	tests := []struct {
		name    string
		in      signup
		message string
	}{
		{"missing name", signup{Email: "a@b.co", Password: "Str0ng!pass"}, "name is required"},
		{"bad email", signup{Name: "A", Email: "nope", Password: "Str0ng!pass"}, "email must be a valid email address"},
		{"weak password", signup{Name: "A", Email: "a@b.co", Password: "weakpassword"}, "password must contain at least one uppercase letter"},
		{"bad role", signup{Name: "A", Email: "a@b.co", Password: "Str0ng!pass", Role: "Admin"}, "role must be one of: Customer, HotelPartner"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			require.Error(t, err)
			assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
			assert.Equal(t, tt.message, apperrors.PublicMessage(err))
		})
	}
}

func TestPasswordProblem(t *testing.T) {
	assert.Equal(t, "must be at least 8 characters long", PasswordProblem("Ab1!"))
	assert.Equal(t, "must contain at least one lowercase letter", PasswordProblem("ABCDEFG1!"))
	assert.Equal(t, "must contain at least one number", PasswordProblem("Abcdefgh!"))
	assert.Equal(t, "must contain at least one special character", PasswordProblem("Abcdefgh1"))
	assert.Empty(t, PasswordProblem("Abcdefg1!"))
}
