package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"towdash/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Migration struct {
	Version     int
	Description string
	Up          func(*mongo.Database) error
}

type Migrator struct {
	db         *mongo.Database
	migrations []Migration
}

func NewMigrator(db *mongo.Database) *Migrator {
	return &Migrator{
		db:         db,
		migrations: getMigrations(),
	}
}

func (m *Migrator) Up() error {
	currentVersion, err := m.getCurrentVersion()
	if err != nil {
		return err
	}

	for _, migration := range m.migrations {
		if migration.Version > currentVersion {
			log.Printf("Running migration %d: %s", migration.Version, migration.Description)

			if err := migration.Up(m.db); err != nil {
				return fmt.Errorf("migration %d failed: %w", migration.Version, err)
			}

			if err := m.updateVersion(migration.Version); err != nil {
				return fmt.Errorf("failed to update migration version: %w", err)
			}
		}
	}

	return nil
}

func (m *Migrator) getCurrentVersion() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var doc struct {
		Version int `bson:"version"`
	}
	err := m.db.Collection("migrations").
		FindOne(ctx, bson.M{}, options.FindOne().SetSort(bson.M{"version": -1})).
		Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return doc.Version, nil
}

func (m *Migrator) updateVersion(version int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := m.db.Collection("migrations").InsertOne(ctx, bson.M{
		"version":    version,
		"applied_at": time.Now(),
	})
	return err
}

func getMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create tows collection indexes",
			Up: func(db *mongo.Database) error {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				_, err := db.Collection("tows").Indexes().CreateMany(ctx, []mongo.IndexModel{
					{Keys: bson.M{"updated_at": -1}},
					{Keys: bson.M{"revision": 1}},
				})
				return err
			},
		},
		{
			Version:     2,
			Description: "Seed demo tow record",
			Up: func(db *mongo.Database) error {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				payload, err := json.Marshal(models.FallbackDashboard())
				if err != nil {
					return err
				}

				record := models.TowRecord{
					ID:        fmt.Sprintf("tow-%d-demo", time.Now().UnixMilli()),
					Payload:   string(payload),
					Revision:  1,
					UpdatedAt: time.Now().Unix(),
				}
				_, err = db.Collection("tows").InsertOne(ctx, record)
				if mongo.IsDuplicateKeyError(err) {
					return nil
				}
				return err
			},
		},
	}
}
