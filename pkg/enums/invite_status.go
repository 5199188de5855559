package enums

import "fmt"

// InviteStatus captures the lifecycle of a deck invitation. Pending is the
// only non-terminal state; accepted, revoked and expired are terminal.
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusRevoked  InviteStatus = "revoked"
	InviteStatusExpired  InviteStatus = "expired"
)

var validInviteStatuses = []InviteStatus{
	InviteStatusPending,
	InviteStatusAccepted,
	InviteStatusRevoked,
	InviteStatusExpired,
}

// String implements fmt.Stringer.
func (s InviteStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches a known InviteStatus.
func (s InviteStatus) IsValid() bool {
	for _, candidate := range validInviteStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from s.
func (s InviteStatus) IsTerminal() bool {
	return s == InviteStatusAccepted || s == InviteStatusRevoked || s == InviteStatusExpired
}

// CanTransitionTo reports whether the s -> next transition is legal.
func (s InviteStatus) CanTransitionTo(next InviteStatus) bool {
	return s == InviteStatusPending && next.IsTerminal()
}

// ParseInviteStatus converts raw input into an InviteStatus.
func ParseInviteStatus(value string) (InviteStatus, error) {
	status := InviteStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid invite status %q", value)
	}
	return status, nil
}
