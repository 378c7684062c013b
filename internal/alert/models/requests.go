package models

import (
	"strings"

	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/platform/validation"
)

// ProcessSOSRequest is the inbound payload for raising an alert.
//
// Coordinates are pointers so that absent fields are distinguishable from
// an explicit zero: latitude 0 / longitude 0 are valid positions and must
// not be rejected.
type ProcessSOSRequest struct {
	Latitude  *float64 `json:"lat"`
	Longitude *float64 `json:"lon"`
	SubjectID string   `json:"userId"`
}

// Normalize trims input for stable validation and storage.
func (r *ProcessSOSRequest) Normalize() {
	if r == nil {
		return
	}
	r.SubjectID = strings.TrimSpace(r.SubjectID)
}

// Validate checks presence only. Coordinate ranges are intentionally not
// checked here; the record is stored as reported by the device.
func (r *ProcessSOSRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Latitude == nil {
		return dErrors.New(dErrors.CodeValidation, "lat is required")
	}
	if r.Longitude == nil {
		return dErrors.New(dErrors.CodeValidation, "lon is required")
	}
	if r.SubjectID == "" {
		return dErrors.New(dErrors.CodeValidation, "userId is required")
	}
	if len(r.SubjectID) > validation.MaxSubjectIDLength {
		return dErrors.New(dErrors.CodeValidation, "userId exceeds maximum length")
	}
	return nil
}
