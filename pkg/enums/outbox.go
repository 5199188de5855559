package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateDeck   OutboxAggregateType = "deck"
	AggregateInvite OutboxAggregateType = "invite"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateDeck,
	AggregateInvite,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventInviteCreated  OutboxEventType = "invite_created"
	EventInviteAccepted OutboxEventType = "invite_accepted"
	EventInviteRevoked  OutboxEventType = "invite_revoked"
	EventInviteExpired  OutboxEventType = "invite_expired"
)

var validOutboxEventTypes = []OutboxEventType{
	EventInviteCreated,
	EventInviteAccepted,
	EventInviteRevoked,
	EventInviteExpired,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
