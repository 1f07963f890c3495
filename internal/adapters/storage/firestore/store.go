package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/compass-agent/internal/domain"
)

// DefaultCollection holds one document per user, keyed by user id.
const DefaultCollection = "user_states"

type Store struct {
	client     *firestore.Client
	collection string
}

// NewStore creates a Firestore store.
// Uses the project passed (COMPASS_GCP_PROJECT).
func NewStore(ctx context.Context, projectID, collection string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}
	if collection == "" {
		collection = DefaultCollection
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client, collection: collection}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) statesCol() *firestore.CollectionRef {
	return s.client.Collection(s.collection)
}

func (s *Store) stateDoc(userID domain.UserID) *firestore.DocumentRef {
	return s.statesCol().Doc(string(userID))
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type stateDoc struct {
	UserID    string          `firestore:"userId"`
	State     domain.AppState `firestore:"state"`
	CreatedAt time.Time       `firestore:"createdAt"`
	UpdatedAt time.Time       `firestore:"updatedAt"`
}

// ─────────────────────────────────────────
// StateStore implementation
// ─────────────────────────────────────────

func (s *Store) GetState(ctx context.Context, userID domain.UserID) (*domain.StateRecord, error) {
	snap, err := s.stateDoc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrStateNotFound
		}
		return nil, fmt.Errorf("firestore GetState: %w", err)
	}

	var doc stateDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetState decode: %w", err)
	}
	if doc.State.Chat == nil {
		doc.State.Chat = []domain.ChatMessage{}
	}

	return &domain.StateRecord{
		UserID:    userID,
		State:     doc.State,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

// UpsertState writes the snapshot inside a transaction so createdAt is only
// set by the first write. There is no version check: the last writer wins.
func (s *Store) UpsertState(ctx context.Context, userID domain.UserID, state domain.AppState, now time.Time) error {
	ref := s.stateDoc(userID)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		createdAt := now

		snap, err := tx.Get(ref)
		switch {
		case status.Code(err) == codes.NotFound:
		case err != nil:
			return err
		default:
			var existing stateDoc
			if err := snap.DataTo(&existing); err == nil && !existing.CreatedAt.IsZero() {
				createdAt = existing.CreatedAt
			}
		}

		return tx.Set(ref, stateDoc{
			UserID:    string(userID),
			State:     state,
			CreatedAt: createdAt,
			UpdatedAt: now,
		})
	})
	if err != nil {
		return fmt.Errorf("firestore UpsertState: %w", err)
	}
	return nil
}
