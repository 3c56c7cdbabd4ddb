package utils

import "regexp"

var (
	emailRegex = regexp.MustCompile(`^[\w\.-]+@[\w\.-]+\.\w+$`)
	phoneRegex = regexp.MustCompile(`^[\d\+\-]+$`)
	upperRegex = regexp.MustCompile(`[A-Z]`)
	digitRegex = regexp.MustCompile(`[0-9]`)
)

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidPassword enforces 8-16 characters with at least one uppercase
// letter and one digit.
func IsValidPassword(password string) bool {
	if len(password) < 8 || len(password) > 16 {
		return false
	}
	return upperRegex.MatchString(password) && digitRegex.MatchString(password)
}

// IsValidPhone accepts digits, '+' and '-', minimum 9 characters.
func IsValidPhone(phone string) bool {
	return len(phone) >= 9 && phoneRegex.MatchString(phone)
}
