package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/crmlite/crm/internal/core/ports"
)

const collectionSlots = "slots"

// slotDocument is one slot; the payload is kept as the raw JSON text.
type slotDocument struct {
	Name    string `bson:"_id"`
	Payload string `bson:"payload"`
}

type SlotStore struct {
	col *mongo.Collection
}

func NewSlotStore(db *mongo.Database) *SlotStore {
	return &SlotStore{col: db.Collection(collectionSlots)}
}

func (s *SlotStore) Get(ctx context.Context, slot string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc slotDocument
	err := s.col.FindOne(ctx, bson.M{"_id": slot}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ports.ErrSlotNotFound
		}
		return nil, fmt.Errorf("mongo find %s: %w", slot, classify(err))
	}
	return []byte(doc.Payload), nil
}

// Put replaces the slot document, creating it on first write.
func (s *SlotStore) Put(ctx context.Context, slot string, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := slotDocument{Name: slot, Payload: string(payload)}
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": slot}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo replace %s: %w", slot, classify(err))
	}
	return nil
}

func (s *SlotStore) Ping(ctx context.Context) error {
	return s.col.Database().Client().Ping(ctx, nil)
}
