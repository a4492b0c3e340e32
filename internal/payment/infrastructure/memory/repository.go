package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/paygate/payment-gateway/internal/payment/application"
	"github.com/paygate/payment-gateway/internal/payment/domain"
)

// RecordedEvent keeps what SaveWithOutbox would have written to the outbox
// table, so tests and memory-store runs can observe event emission.
type RecordedEvent struct {
	PaymentID uuid.UUID
	Type      string
	Payload   []byte
}

// Repository is the Postgres repository's in-process stand-in: a
// mutex-guarded map plus a slice of recorded events.
type Repository struct {
	mu       sync.RWMutex
	payments map[uuid.UUID]domain.Payment
	events   []RecordedEvent
}

func NewRepository() *Repository {
	return &Repository{payments: make(map[uuid.UUID]domain.Payment)}
}

func (r *Repository) SaveWithOutbox(ctx context.Context, p domain.Payment, eventType string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.payments[p.ID] = p
	r.events = append(r.events, RecordedEvent{PaymentID: p.ID, Type: eventType, Payload: payload})
	return nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Payment{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.payments[id]
	if !ok {
		return domain.Payment{}, application.ErrNotFound
	}
	return p, nil
}

// Len reports how many payments are stored.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.payments)
}

// Events returns a copy of the recorded outbox events.
func (r *Repository) Events() []RecordedEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]RecordedEvent, len(r.events))
	copy(out, r.events)
	return out
}
