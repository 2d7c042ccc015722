package audit

import (
	"time"

	id "agora/pkg/domain"
)

// Action names a registration lifecycle event.
type Action string

const (
	ActionStarted   Action = "registration.started"
	ActionSubmitted Action = "registration.submitted"
	ActionSucceeded Action = "registration.succeeded"
	ActionFailed    Action = "registration.failed"
)

// Event is emitted from the registration service. It carries no field
// values beyond the email, and never the password or artifact payloads.
type Event struct {
	Timestamp time.Time  `json:"timestamp"`
	Action    Action     `json:"action"`
	DraftID   id.DraftID `json:"draft_id"`
	AccountID id.UserID  `json:"account_id,omitzero"`
	Flow      string     `json:"flow"`
	Email     string     `json:"email,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	// NonFatal lists provisioning phases that failed without aborting.
	NonFatal  []string `json:"non_fatal,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
	Client    Client   `json:"client,omitzero"`
}

// Client describes the browser that drove the registration.
type Client struct {
	Browser string `json:"browser,omitempty"`
	OS      string `json:"os,omitempty"`
	Mobile  bool   `json:"mobile,omitempty"`
	Bot     bool   `json:"bot,omitempty"`
}
