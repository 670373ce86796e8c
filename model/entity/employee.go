package entity

import "strings"

// DefaultGender is applied when a directory row leaves Lytis blank.
const DefaultGender = "Vyras"

// Employee is an employee's current organizational context, keyed by personnel number.
// Department and Position are mutable; ledger rows keep their own snapshot.
type Employee struct {
	ID         string `json:"id" validate:"required"`
	FullName   string `json:"full_name" validate:"required"`
	Department string `json:"department" validate:"required"`
	Position   string `json:"position" validate:"required"`
	Gender     string `json:"gender"`
}

// Normalize trims every field, collapses inner whitespace in the name and applies the default gender.
func (e Employee) Normalize() Employee {
	e.ID = strings.TrimSpace(e.ID)
	e.FullName = strings.Join(strings.Fields(e.FullName), " ")
	e.Department = strings.TrimSpace(e.Department)
	e.Position = strings.TrimSpace(e.Position)
	e.Gender = strings.TrimSpace(e.Gender)
	if e.Gender == "" {
		e.Gender = DefaultGender
	}
	return e
}

// SplitName returns the first name (first token) and last name (remaining tokens).
func (e Employee) SplitName() (first, last string) {
	parts := strings.Fields(e.FullName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// JoinName rebuilds a full name from directory columns.
func JoinName(first, last string) string {
	return strings.Join(strings.Fields(first+" "+last), " ")
}

// SameContext reports whether two contexts share department and position exactly.
func (e Employee) SameContext(department, position string) bool {
	return e.Department == department && e.Position == position
}
