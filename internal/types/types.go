// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, storage, the dashboard and the terminal client can all import
// types without depending on each other.
package types

import "time"

// Model is the technical name of the student record model. The query
// service and the navigation service address records by model name.
const Model = "student.student"

// DateLayout is the ISO calendar date format used for dob and
// admission_date, both in the database and on the wire.
const DateLayout = "2006-01-02"

// Gender values accepted by the record store. An empty string means the
// gender is not set and is reported as false by group-by queries.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Student represents a student record in our system.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  controls how the field appears when encoded to JSON
//     (lowercase names match REST API conventions).
//
//  2. validate:"..." rules checked by the go-playground/validator
//     package. "required" means the field must be non-zero / non-empty,
//     "omitempty" skips the remaining rules when the field is blank.
//
// Age is never taken from the client: it is computed from DOB on every
// write (see ComputeAge).
type Student struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"           validate:"required"`
	DOB           string `json:"dob"            validate:"omitempty,datetime=2006-01-02"`
	Age           int    `json:"age"`
	Gender        string `json:"gender"         validate:"omitempty,oneof=male female other"`
	Email         string `json:"email"          validate:"omitempty,email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	AdmissionDate string `json:"admission_date" validate:"omitempty,datetime=2006-01-02"`
	Active        *bool  `json:"active,omitempty"`
}

// IsActive reports the active flag, treating an unset flag as true.
func (s Student) IsActive() bool {
	return s.Active == nil || *s.Active
}

// ApplyDefaults fills the fields a new record gets when the client leaves
// them blank: gender "male", admission date today, active true.
func (s *Student) ApplyDefaults(today time.Time) {
	if s.Gender == "" {
		s.Gender = GenderMale
	}
	if s.AdmissionDate == "" {
		s.AdmissionDate = today.Format(DateLayout)
	}
	if s.Active == nil {
		active := true
		s.Active = &active
	}
}

// ComputeAge returns the age in whole years on the given day for someone
// born on dob (formatted DateLayout). A blank or unparsable dob gives 0.
func ComputeAge(dob string, today time.Time) int {
	if dob == "" {
		return 0
	}
	born, err := time.Parse(DateLayout, dob)
	if err != nil {
		return 0
	}

	age := today.Year() - born.Year()
	if today.Month() < born.Month() ||
		(today.Month() == born.Month() && today.Day() < born.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
