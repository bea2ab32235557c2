package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"clarity/internal/model"
)

// Routing keys for transaction lifecycle events.
const (
	TransactionCreated = "transaction.created"
	TransactionUpdated = "transaction.updated"
	TransactionDeleted = "transaction.deleted"
)

// TransactionEvent is published after a transaction change has been committed.
type TransactionEvent struct {
	Event         string             `json:"event"`
	TransactionID uuid.UUID          `json:"transactionId"`
	UserID        uuid.UUID          `json:"userId"`
	Transaction   *model.Transaction `json:"transaction,omitempty"`
	OccurredAt    time.Time          `json:"occurredAt"`
}

// NewTransactionEvent builds an event for tx. Deleted transactions carry no body.
func NewTransactionEvent(event string, tx *model.Transaction) TransactionEvent {
	e := TransactionEvent{
		Event:         event,
		TransactionID: tx.ID,
		UserID:        tx.UserID,
		OccurredAt:    time.Now().UTC(),
	}
	if event != TransactionDeleted {
		e.Transaction = tx
	}
	return e
}

// ToJSON encodes the event.
func (e TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers transaction events to downstream consumers.
type Publisher interface {
	PublishTransaction(ctx context.Context, event TransactionEvent) error
	Close() error
}

// Noop discards every event. It is used when no broker is configured.
type Noop struct{}

var _ Publisher = Noop{}

// PublishTransaction implements Publisher.
func (Noop) PublishTransaction(context.Context, TransactionEvent) error { return nil }

// Close implements Publisher.
func (Noop) Close() error { return nil }
