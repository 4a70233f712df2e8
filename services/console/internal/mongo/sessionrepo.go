// Package mongo persists console sessions so they survive a restart.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appetiteclub/frontdesk/services/console/internal/console"
)

const sessionsCollection = "sessions"

var errNotStarted = errors.New("mongo session repo not started")

type Options struct {
	URL      string
	Database string
	Timeout  time.Duration
}

// OptionsFrom reads db.mongo.url and db.mongo.name.
func OptionsFrom(config *aqm.Config) Options {
	opts := Options{
		URL:      "mongodb://localhost:27017",
		Database: "frontdesk_console",
		Timeout:  10 * time.Second,
	}
	if config == nil {
		return opts
	}
	if v, _ := config.GetString("db.mongo.url"); v != "" {
		opts.URL = v
	}
	if v, _ := config.GetString("db.mongo.name"); v != "" {
		opts.Database = v
	}
	return opts
}

// SessionRepo stores console sessions in one Mongo collection with a TTL
// index on expires_at. It owns its client and is started as a lifecycle hook.
type SessionRepo struct {
	opts   Options
	client *mongo.Client
	coll   *mongo.Collection
	logger aqm.Logger
	now    func() time.Time
}

func NewSessionRepo(opts Options, logger aqm.Logger) *SessionRepo {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &SessionRepo{opts: opts, logger: logger, now: time.Now}
}

func (r *SessionRepo) Start(ctx context.Context) error {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(r.opts.URL).
		SetConnectTimeout(r.opts.Timeout).
		SetServerSelectionTimeout(r.opts.Timeout))
	if err != nil {
		return fmt.Errorf("cannot connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("cannot ping MongoDB: %w", err)
	}

	coll := client.Database(r.opts.Database).Collection(sessionsCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("cannot create session ttl index: %w", err)
	}

	r.client = client
	r.coll = coll
	r.logger.Infof("Session store ready in MongoDB database %s", r.opts.Database)
	return nil
}

func (r *SessionRepo) Stop(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("cannot disconnect from MongoDB: %w", err)
	}
	r.client, r.coll = nil, nil
	r.logger.Info("Session store disconnected")
	return nil
}

func (r *SessionRepo) Save(ctx context.Context, s *console.Session) error {
	if s == nil {
		return errors.New("session is nil")
	}
	if r.coll == nil {
		return errNotStarted
	}

	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": s.ID}, s, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("cannot save session: %w", err)
	}
	return nil
}

// Get treats an expired record as gone even before the TTL monitor removes it.
func (r *SessionRepo) Get(ctx context.Context, id string) (*console.Session, error) {
	if r.coll == nil {
		return nil, errNotStarted
	}

	var s console.Session
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, console.ErrSessionNotFound
		}
		return nil, fmt.Errorf("cannot get session: %w", err)
	}

	if s.Expired(r.now()) {
		return nil, console.ErrSessionExpired
	}
	return &s, nil
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	if r.coll == nil {
		return errNotStarted
	}
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("cannot delete session: %w", err)
	}
	return nil
}
