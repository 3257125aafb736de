package validation

import (
	"unicode"

	"github.com/go-playground/validator/v10"
)

// PasswordProblem returns the first unmet password requirement, or "" when
// the password is acceptable.
func PasswordProblem(password string) string {
	if len(password) < MinPasswordLength {
		return "must be at least 8 characters long"
	}
	if len(password) > MaxPasswordLength {
		return "must not be more than 72 characters long"
	}

	var (
		hasUpper   bool
		hasLower   bool
		hasNumber  bool
		hasSpecial bool
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return "must contain at least one uppercase letter"
	case !hasLower:
		return "must contain at least one lowercase letter"
	case !hasNumber:
		return "must contain at least one number"
	case !hasSpecial:
		return "must contain at least one special character"
	}
	return ""
}

func validatePassword(fl validator.FieldLevel) bool {
	return PasswordProblem(fl.Field().String()) == ""
}
