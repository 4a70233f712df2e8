package event

import "time"

const (
	// ActionsTopic carries one message per mutation confirmed by the service.
	ActionsTopic = "frontdesk.actions"
	// ActionsStream is the JetStream stream that retains ActionsTopic for replay.
	ActionsStream = "FRONTDESK_ACTIONS"

	EventActionCompleted = "frontdesk.action.completed"
)

// ActionEvent records a console action after the service accepted it.
type ActionEvent struct {
	EventType   string    `json:"event_type"`
	OccurredAt  time.Time `json:"occurred_at"`
	Action      string    `json:"action"`
	EntityID    string    `json:"entity_id,omitempty"`
	TableID     string    `json:"table_id,omitempty"`
	Status      string    `json:"status,omitempty"`
	Actor       string    `json:"actor,omitempty"`
	Invalidated []string  `json:"invalidated"`
}

func NewActionEvent(action string, at time.Time) ActionEvent {
	return ActionEvent{
		EventType:  EventActionCompleted,
		OccurredAt: at,
		Action:     action,
	}
}
