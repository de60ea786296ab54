package registry

import "errors"

// Every failure the registry reports is one of these. The text is meant to be
// shown to the user as-is.
var (
	ErrFacilityNameRequired = errors.New("hospital name cannot be empty")
	ErrFacilityNotSet       = errors.New("facility not set: set the hospital before adding doctors")
	ErrFacilityNotFound     = errors.New("facility not found")
	ErrFieldsRequired       = errors.New("all fields required: dni, name and specialty")
	ErrIDNotNumeric         = errors.New("id must be numeric")
	ErrDuplicateID          = errors.New("duplicate id: a doctor with that DNI is already registered")
	ErrPractitionerNotFound = errors.New("practitioner not found")
	ErrUnexpected           = errors.New("unexpected error while saving")
)
