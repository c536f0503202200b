package domain

import "time"

// Event types
const (
	EventTypeAccountOpened       = "account.opened"
	EventTypeAccountUpdated      = "account.updated"
	EventTypeAccountClosed       = "account.closed"
	EventTypeMovementRecorded    = "movement.recorded"
	EventTypeMovementDeactivated = "movement.deactivated"
)

// Aggregate types
const (
	AggregateTypeAccount  = "account"
	AggregateTypeMovement = "movement"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// NewMovementRecordedEvent builds the outbox event for a recorded movement.
func NewMovementRecordedEvent(id string, m *Movement) *OutboxEvent {
	return &OutboxEvent{
		ID:            id,
		AggregateID:   m.ID,
		AggregateType: AggregateTypeMovement,
		EventType:     EventTypeMovementRecorded,
		Payload: map[string]any{
			"movement_id": m.ID,
			"account_id":  m.AccountID,
			"kind":        string(m.Kind),
			"value":       m.Value.String(),
			"balance":     m.Balance.String(),
			"recorded_at": m.CreatedAt.Format(time.RFC3339Nano),
		},
		CreatedAt: m.CreatedAt,
	}
}

// NewMovementDeactivatedEvent builds the outbox event for a soft-deleted movement.
func NewMovementDeactivatedEvent(id string, m *Movement) *OutboxEvent {
	return &OutboxEvent{
		ID:            id,
		AggregateID:   m.ID,
		AggregateType: AggregateTypeMovement,
		EventType:     EventTypeMovementDeactivated,
		Payload: map[string]any{
			"movement_id": m.ID,
			"account_id":  m.AccountID,
		},
		CreatedAt: m.UpdatedAt,
	}
}

// NewAccountOpenedEvent builds the outbox event for a new account.
func NewAccountOpenedEvent(id string, a *Account) *OutboxEvent {
	return &OutboxEvent{
		ID:            id,
		AggregateID:   a.ID,
		AggregateType: AggregateTypeAccount,
		EventType:     EventTypeAccountOpened,
		Payload: map[string]any{
			"account_id":      a.ID,
			"number":          a.Number,
			"kind":            string(a.Kind),
			"opening_balance": a.OpeningBalance.String(),
			"customer_id":     a.CustomerID,
		},
		CreatedAt: a.CreatedAt,
	}
}

// NewAccountUpdatedEvent builds the outbox event for an admin edit.
func NewAccountUpdatedEvent(id string, a *Account) *OutboxEvent {
	return &OutboxEvent{
		ID:            id,
		AggregateID:   a.ID,
		AggregateType: AggregateTypeAccount,
		EventType:     EventTypeAccountUpdated,
		Payload: map[string]any{
			"account_id":      a.ID,
			"number":          a.Number,
			"kind":            string(a.Kind),
			"opening_balance": a.OpeningBalance.String(),
			"customer_id":     a.CustomerID,
		},
		CreatedAt: a.UpdatedAt,
	}
}

// NewAccountClosedEvent builds the outbox event for a soft-deleted account.
func NewAccountClosedEvent(id string, a *Account) *OutboxEvent {
	return &OutboxEvent{
		ID:            id,
		AggregateID:   a.ID,
		AggregateType: AggregateTypeAccount,
		EventType:     EventTypeAccountClosed,
		Payload: map[string]any{
			"account_id": a.ID,
			"number":     a.Number,
		},
		CreatedAt: a.UpdatedAt,
	}
}
