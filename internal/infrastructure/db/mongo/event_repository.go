package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/workerhub/jobboard/internal/core/domain"
)

const eventsCollection = "application_events"

// EventRepository implements ports.ApplicationEventRepository using MongoDB.
type EventRepository struct {
	db *mongo.Database
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{db: db}
}

// InsertEvent persists an application change to the audit collection.
func (r *EventRepository) InsertEvent(ctx context.Context, event *domain.ApplicationEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"listing_id":  event.ListingID,
		"worker_id":   event.WorkerID,
		"actor_id":    event.ActorID,
		"status":      string(event.Status),
		"at":          event.At.UTC(),
		"recorded_at": time.Now().UTC(),
	}

	_, err := r.db.Collection(eventsCollection).InsertOne(ctx, doc)
	return err
}
