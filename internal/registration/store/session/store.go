// Package session persists wizard snapshots between requests.
//
// A snapshot lives for the configured TTL from its last save. Saves that
// move a wizard into submission use SaveIf so two instances cannot both
// start provisioning the same draft.
package session

import (
	"time"

	"agora/internal/registration/wizard"
)

// DefaultTTL keeps an abandoned draft resumable for a day.
const DefaultTTL = 24 * time.Hour

func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}

func cloneSnapshot(s wizard.Snapshot) wizard.Snapshot {
	out := s
	out.Draft = s.Draft.Clone()
	out.Status = make(map[int]wizard.StepStatus, len(s.Status))
	for k, v := range s.Status {
		out.Status[k] = v
	}
	if s.LastError != nil {
		fe := *s.LastError
		out.LastError = &fe
	}
	if s.Redirect != nil {
		r := *s.Redirect
		out.Redirect = &r
	}
	return out
}
