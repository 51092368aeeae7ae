package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/kiranshivaraju/cancerscan/pkg/models"
)

// FirestoreStore keeps predictions as documents keyed by prediction ID.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreStore opens a Firestore client for projectID. Credentials come
// from the environment (Application Default Credentials, or
// FIRESTORE_EMULATOR_HOST when set).
func NewFirestoreStore(ctx context.Context, projectID, collection string) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return &FirestoreStore{client: client, collection: collection}, nil
}

func (s *FirestoreStore) Ping(ctx context.Context) error {
	if _, err := s.client.Collection(s.collection).Limit(1).Documents(ctx).GetAll(); err != nil {
		return fmt.Errorf("ping firestore: %w", err)
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func (s *FirestoreStore) CreatePrediction(ctx context.Context, p *models.Prediction) error {
	if _, err := s.client.Collection(s.collection).Doc(p.ID).Set(ctx, p); err != nil {
		return fmt.Errorf("create prediction: %w", err)
	}
	return nil
}

// ListPredictions reads the whole collection in document order.
func (s *FirestoreStore) ListPredictions(ctx context.Context) ([]*models.Prediction, error) {
	docs, err := s.client.Collection(s.collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}

	predictions := make([]*models.Prediction, 0, len(docs))
	for _, doc := range docs {
		var p models.Prediction
		if err := doc.DataTo(&p); err != nil {
			return nil, fmt.Errorf("decode prediction %s: %w", doc.Ref.ID, err)
		}
		predictions = append(predictions, &p)
	}
	return predictions, nil
}

var _ Store = (*FirestoreStore)(nil)
