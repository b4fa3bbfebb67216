// Package mongo implements the repository interfaces on MongoDB.
//
// COLLECTIONS:
//   - users:   one document per account, unique index on email
//   - resumes: one document per resume, sections stored as embedded
//     documents and arrays, indexed on (userId, updatedAt)
//
// Ids are ObjectIDs in the database and their hex form in the model. A
// string that is not a valid ObjectID can never match a document, so it is
// reported as apperror.ErrNotFound rather than as a malformed request.
package mongo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/resume-builder/internal/repository"
)

var _ repository.Store = (*DB)(nil)

const (
	usersCollection   = "users"
	resumesCollection = "resumes"

	disconnectTimeout = 10 * time.Second
)

// DB holds one client and the two collections and implements
// repository.Store.
type DB struct {
	client  *mongo.Client
	users   *mongo.Collection
	resumes *mongo.Collection
	clock   *clock
}

// New connects to uri, pings the server and ensures the indexes exist.
func New(ctx context.Context, uri, dbName string) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connecting: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: pinging server: %w", err)
	}

	database := client.Database(dbName)
	db := &DB{
		client:  client,
		users:   database.Collection(usersCollection),
		resumes: database.Collection(resumesCollection),
		clock:   newClock(time.Now),
	}

	if err := db.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: creating indexes: %w", err)
	}

	return db, nil
}

func (db *DB) ensureIndexes(ctx context.Context) error {
	_, err := db.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users.email: %w", err)
	}

	_, err = db.resumes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "updatedAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("resumes.userId_updatedAt: %w", err)
	}
	return nil
}

// Ping checks that the server is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (db *DB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	return db.client.Disconnect(ctx)
}

// clock hands out write timestamps at the millisecond precision BSON dates
// keep. Every stamp is strictly later than the previous one, so two writes
// landing in the same millisecond still order by updatedAt.
// The guarantee holds per process only.
type clock struct {
	mu   sync.Mutex
	src  func() time.Time
	last time.Time
}

func newClock(src func() time.Time) *clock {
	return &clock{src: src}
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.src().UTC().Truncate(time.Millisecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Millisecond)
	}
	c.last = t
	return t
}

// objectID parses hex. ok is false for anything that is not a valid id.
func objectID(hex string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
