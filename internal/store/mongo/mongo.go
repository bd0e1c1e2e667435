// Package mongo implements store.Sink on MongoDB.
//
// Records arrive rarely, one per accepted song, so every Save opens its own
// client, pings the primary, inserts and disconnects.
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/nadzzz/jukebox/internal/config"
	"github.com/nadzzz/jukebox/internal/store"
)

// Sink writes records into a MongoDB collection.
type Sink struct {
	uri        string
	database   string
	collection string
	timeout    time.Duration
}

// New creates a MongoDB sink from config.
func New(cfg config.MongoConfig) *Sink {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Sink{
		uri:        cfg.URI,
		database:   cfg.Database,
		collection: cfg.Collection,
		timeout:    timeout,
	}
}

// Save inserts rec and returns the hex ObjectID of the new document.
func (s *Sink) Save(ctx context.Context, rec store.Record) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.uri))
	if err != nil {
		return "", fmt.Errorf("connecting to mongodb: %w", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			slog.Warn("mongodb disconnect failed", "error", err)
		}
	}()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return "", fmt.Errorf("pinging mongodb: %w", err)
	}

	res, err := client.Database(s.database).Collection(s.collection).InsertOne(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("inserting song record: %w", err)
	}

	id := fmt.Sprint(res.InsertedID)
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		id = oid.Hex()
	}
	slog.Info("song record saved", "id", id, "song", rec.SongName, "database", s.database, "collection", s.collection)
	return id, nil
}
