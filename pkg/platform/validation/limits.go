package validation

import (
	"fmt"

	dErrors "lifeline/pkg/domain-errors"
)

// HTTP body limits
const (
	// MaxBodySize is the maximum allowed request body size (64 KB).
	// Sufficient for JSON APIs while preventing memory exhaustion attacks.
	MaxBodySize = 64 * 1024
)

// Slice element count limits
const (
	// MaxContacts is the maximum number of emergency contacts per subject.
	MaxContacts = 25

	// MaxDeviceTokens is the maximum number of push device tokens per subject.
	MaxDeviceTokens = 10

	// MaxRecipients is the maximum number of recipients per outbound email.
	MaxRecipients = 50
)

// String element length limits
const (
	// MaxSubjectIDLength is the maximum length of a subject identifier.
	MaxSubjectIDLength = 100

	// MaxEmailLength is the maximum length of an email address.
	MaxEmailLength = 255

	// MaxNameLength is the maximum length of a person's display name.
	MaxNameLength = 200

	// MaxPhoneLength is the maximum length of a phone number string.
	MaxPhoneLength = 32

	// MaxUserAgentLength is the maximum length of a stored user agent string.
	MaxUserAgentLength = 512
)

// CheckSliceCount validates that a slice does not exceed the maximum count.
func CheckSliceCount(fieldName string, count, max int) error {
	if count > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("too many %s: max %d allowed", fieldName, max))
	}
	return nil
}

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}

// CheckEachStringLength validates that each string in a slice does not exceed the maximum length.
func CheckEachStringLength(fieldName string, values []string, max int) error {
	for _, v := range values {
		if len(v) > max {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
		}
	}
	return nil
}
