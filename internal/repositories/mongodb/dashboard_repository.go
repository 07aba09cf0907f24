package mongodb

import (
	"context"
	"fmt"
	"time"

	"towdash/internal/models"
	"towdash/internal/repositories/interfaces"
	"towdash/internal/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	towCacheKeyPrefix = "tow:record:"
	towCacheTTL       = 5 * time.Minute
)

type dashboardRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

// NewDashboardRepository returns a record store backed by the tows
// collection with a Redis read-through on GetByID. Cache may be nil.
func NewDashboardRepository(db *mongo.Database, cache services.CacheService) interfaces.DashboardRepository {
	return &dashboardRepository{
		collection: db.Collection("tows"),
		cache:      cache,
	}
}

func (r *dashboardRepository) GetByID(ctx context.Context, id string) (*models.TowRecord, error) {
	if record := r.recordFromCache(ctx, id); record != nil {
		return record, nil
	}

	var record models.TowRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tow record: %w", err)
	}

	r.cacheRecord(ctx, &record)
	return &record, nil
}

func (r *dashboardRepository) Insert(ctx context.Context, record *models.TowRecord) error {
	record.Revision = 1
	record.UpdatedAt = time.Now().Unix()

	_, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to insert tow record: %w", err)
	}

	r.cacheRecord(ctx, record)
	return nil
}

// Update is a compare-and-swap on the revision column: the write only
// lands when nobody else has written since the caller's read. Two
// simultaneous status advances on the same tow cannot silently lose one
// update; the loser gets ErrConflict.
func (r *dashboardRepository) Update(ctx context.Context, record *models.TowRecord, expectedRevision int64) error {
	record.Revision = expectedRevision + 1
	record.UpdatedAt = time.Now().Unix()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": record.ID, "revision": expectedRevision},
		bson.M{"$set": bson.M{
			"payload":    record.Payload,
			"revision":   record.Revision,
			"updated_at": record.UpdatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update tow record: %w", err)
	}

	if result.MatchedCount == 0 {
		r.invalidate(ctx, record.ID)
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": record.ID})
		if err != nil {
			return fmt.Errorf("failed to check tow record existence: %w", err)
		}
		if count == 0 {
			return interfaces.ErrNotFound
		}
		return interfaces.ErrConflict
	}

	r.cacheRecord(ctx, record)
	return nil
}

func (r *dashboardRepository) ScanAll(ctx context.Context) ([]models.TowRecord, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to scan tow records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.TowRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode tow records: %w", err)
	}

	return records, nil
}

// Cache helpers. Failures are ignored; the collection stays the source
// of truth.

func (r *dashboardRepository) cacheRecord(ctx context.Context, record *models.TowRecord) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Set(ctx, towCacheKeyPrefix+record.ID, record, towCacheTTL)
}

func (r *dashboardRepository) recordFromCache(ctx context.Context, id string) *models.TowRecord {
	if r.cache == nil {
		return nil
	}
	var record models.TowRecord
	if err := r.cache.Get(ctx, towCacheKeyPrefix+id, &record); err != nil {
		return nil
	}
	return &record
}

func (r *dashboardRepository) invalidate(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Delete(ctx, towCacheKeyPrefix+id)
}
