// Package issuance is the transaction boundary for issuing gear and recording
// organizational changes.
package issuance

import (
	"context"
	"strings"
	"time"

	"ppe.GO/model/entity"
)

// Mode selects which issuance flow a session belongs to.
type Mode int

const (
	// ModeExisting issues to a known employee; the issue date is today.
	ModeExisting Mode = iota
	// ModeNewEmployee registers the employee first; the issue date may be chosen.
	ModeNewEmployee
	// ModeContextChange follows a department/position change; the issue date is today.
	ModeContextChange
)

func (m Mode) String() string {
	switch m {
	case ModeNewEmployee:
		return "new_employee"
	case ModeContextChange:
		return "context_change"
	default:
		return "existing"
	}
}

// ParseMode maps a mode name to a Mode; unknown names yield ModeExisting.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "new", "new_employee":
		return ModeNewEmployee
	case "change", "context_change":
		return ModeContextChange
	default:
		return ModeExisting
	}
}

// Session carries the employee and flow of one issuance.
type Session struct {
	Employee entity.Employee
	IssuedOn time.Time
	Mode     Mode
}

// Line is one operator-entered batch line. WearMonths 0 means "use the catalog default".
type Line struct {
	Code       string `json:"code"`
	WearMonths int    `json:"wear_months"`
	// Name answers the prompt for an unknown code without asking.
	Name string `json:"name,omitempty"`
}

// NamePrompter asks the operator for the display name of an unknown code.
// An empty answer declines and the line is dropped.
type NamePrompter interface {
	PromptName(ctx context.Context, code string) (string, error)
}

// PromptFunc adapts a function to NamePrompter.
type PromptFunc func(ctx context.Context, code string) (string, error)

func (f PromptFunc) PromptName(ctx context.Context, code string) (string, error) {
	return f(ctx, code)
}
