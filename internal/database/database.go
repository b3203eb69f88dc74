package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/folio-space/core/internal/config"
	"github.com/folio-space/core/internal/pkg/apperr"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
	"go.uber.org/zap"
)

// Collection names.
const (
	CollectionSubscribers  = "subscribers"
	CollectionAdmins       = "admins"
	CollectionHeaderImages = "headerimages"
	CollectionHeaderVideos = "headervideos"
	CollectionHeroImages   = "heroimages"
	CollectionLatestPosts  = "latestposts"
)

// indexRetryInterval spaces out index creation attempts while they keep failing.
const indexRetryInterval = 30 * time.Second

// Store owns the process-wide MongoDB client. It holds no connection-state
// flag; callers ask Ping when they need to know whether the server is reachable.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger

	indexMu      sync.Mutex
	indexReady   bool
	indexTried   time.Time
	now          func() time.Time
	buildIndexes func(ctx context.Context) error
}

// Connect creates the client. The driver connects lazily, so an unreachable
// server does not fail here; only a malformed URI does.
func Connect(cfg config.MongoConfig, logger *zap.Logger) (*Store, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout)
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mongodb uri: %w", err)
	}

	client, err := mongo.Connect(context.Background(), opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	s := &Store{
		client: client,
		db:     client.Database(cfg.Database),
		logger: logger,
		now:    time.Now,
	}
	s.buildIndexes = s.createIndexes
	return s, nil
}

// Collection returns a handle to the named collection.
func (s *Store) Collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// Ping checks that the primary is reachable and, while the indexes are
// missing, retries creating them at most once per indexRetryInterval.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return err
	}
	s.ensureIndexes(ctx)
	return nil
}

// IndexesReady reports whether the collection indexes have been created.
func (s *Store) IndexesReady() bool {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()
	return s.indexReady
}

// ensureIndexes never blocks a request behind another attempt in flight.
func (s *Store) ensureIndexes(ctx context.Context) {
	if !s.indexMu.TryLock() {
		return
	}
	defer s.indexMu.Unlock()
	if s.indexReady {
		return
	}
	now := s.now()
	if !s.indexTried.IsZero() && now.Sub(s.indexTried) < indexRetryInterval {
		return
	}
	s.indexTried = now
	if err := s.buildIndexes(ctx); err != nil {
		s.logger.Error("index creation failed, unique email constraint is not enforced",
			zap.Duration("retry_in", indexRetryInterval), zap.Error(err))
		return
	}
	s.indexReady = true
	s.logger.Info("indexes ready")
}

func (s *Store) createIndexes(ctx context.Context) error {
	for name, models := range indexes() {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// IsDuplicateKey reports whether err is a unique index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// Classify maps connectivity failures to apperr.Unavailable and wraps other
// errors with op. It returns nil for nil.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsUnavailable(err) {
		return apperr.Unavailable(fmt.Errorf("%s: %w", op, err))
	}
	return fmt.Errorf("%s: %w", op, err)
}

// IsUnavailable reports whether err means the server could not be reached.
func IsUnavailable(err error) bool {
	var selErr topology.ServerSelectionError
	switch {
	case errors.As(err, &selErr),
		errors.Is(err, mongo.ErrClientDisconnected),
		errors.Is(err, topology.ErrServerSelectionTimeout),
		mongo.IsNetworkError(err),
		mongo.IsTimeout(err):
		return true
	}
	return false
}
