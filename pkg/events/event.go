package events

import (
	"time"

	"github.com/google/uuid"
)

// ContributionVerified is emitted once per computed (non-cached) verification
const ContributionVerified = "CONTRIBUTION_VERIFIED"

// Event is what the outbound bus carries
type Event interface {
	// EventID is stable across redeliveries of the same source message
	EventID() string
	// EventType is the subject suffix, e.g. "CONTRIBUTION_VERIFIED"
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	ID         string
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventID() string {
	return e.ID
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewContributionVerifiedEvent reuses id when given so JetStream can
// deduplicate redeliveries; an empty id gets a fresh one.
func NewContributionVerifiedEvent(id string, data map[string]interface{}, at time.Time) Event {
	if id == "" {
		id = uuid.NewString()
	}
	return BaseEvent{
		ID:         id,
		Type:       ContributionVerified,
		Data:       data,
		OccurredAt: at,
	}
}
