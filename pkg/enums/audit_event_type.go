package enums

import "fmt"

// AuditEventType tags the append-only audit trail entries.
type AuditEventType string

const (
	AuditEventInviteCreated     AuditEventType = "invite-created"
	AuditEventInviteAccepted    AuditEventType = "invite-accepted"
	AuditEventInviteRevoked     AuditEventType = "invite-revoked"
	AuditEventMembershipAdded   AuditEventType = "membership-added"
	AuditEventMembershipRemoved AuditEventType = "membership-removed"
	AuditEventRoleChanged       AuditEventType = "role-changed"
)

var validAuditEventTypes = []AuditEventType{
	AuditEventInviteCreated,
	AuditEventInviteAccepted,
	AuditEventInviteRevoked,
	AuditEventMembershipAdded,
	AuditEventMembershipRemoved,
	AuditEventRoleChanged,
}

// String implements fmt.Stringer.
func (a AuditEventType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AuditEventType.
func (a AuditEventType) IsValid() bool {
	for _, candidate := range validAuditEventTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAuditEventType converts raw input into an AuditEventType.
func ParseAuditEventType(value string) (AuditEventType, error) {
	eventType := AuditEventType(value)
	if !eventType.IsValid() {
		return "", fmt.Errorf("invalid audit event type %q", value)
	}
	return eventType, nil
}
