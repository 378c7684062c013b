package email

import "strings"

// IsValidEmail performs lightweight validation of an email address format.
// It filters obviously unusable addresses before a provider call; the
// provider remains the authority on deliverability.
func IsValidEmail(email string) bool {
	if email == "" {
		return false
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	if parts[0] == "" || parts[1] == "" {
		return false
	}
	if !strings.Contains(parts[1], ".") {
		return false
	}
	return true
}
