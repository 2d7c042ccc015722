package models

import "time"

// Role is the fixed role tag attached to accounts created by a flow.
type Role string

const (
	RoleStudent  Role = "student"
	RoleProvider Role = "provider"
)

// Flow describes one registration entry point. Flows share the wizard and
// the validation engine and differ only in these parameters.
type Flow struct {
	Name              string
	Role              Role
	MinPasswordLength int
	MinimumAge        int
	SignInURL         string
	RedirectDelay     time.Duration
}

const (
	FlowStudent  = "student"
	FlowProvider = "provider"
)
