package domain

import (
	"context"
	"time"
)

// TextCompleter is the generative-text provider: one prompt in, one text out,
// for a named model.
type TextCompleter interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}

// StateRecord is the persisted document, one per user.
type StateRecord struct {
	UserID    UserID
	State     AppState
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StateStore persists one AppState snapshot per user. Upserts are last-write-wins:
// the first write sets CreatedAt, every write sets UpdatedAt.
type StateStore interface {
	GetState(ctx context.Context, userID UserID) (*StateRecord, error)
	UpsertState(ctx context.Context, userID UserID, state AppState, now time.Time) error
}
