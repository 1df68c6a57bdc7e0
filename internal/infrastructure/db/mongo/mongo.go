package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// Store groups the MongoDB repositories of one database.
type Store struct {
	Accounts    *AccountRepository
	Counselors  *CounselorRepository
	Meetings    *MeetingRepository
	Payouts     *PayoutRepository
	Interviews  *InterviewRepository
	Audit       *AuditRepository
	Credentials *CredentialRepository
}

func NewStore(db *mongo.Database) *Store {
	return &Store{
		Accounts:    NewAccountRepository(db),
		Counselors:  NewCounselorRepository(db),
		Meetings:    NewMeetingRepository(db),
		Payouts:     NewPayoutRepository(db),
		Interviews:  NewInterviewRepository(db),
		Audit:       NewAuditRepository(db),
		Credentials: NewCredentialRepository(db),
	}
}

// EnsureIndexes creates the indexes of every collection. It is idempotent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	for _, ensure := range []func(context.Context) error{
		s.Accounts.EnsureIndexes,
		s.Counselors.EnsureIndexes,
		s.Meetings.EnsureIndexes,
		s.Payouts.EnsureIndexes,
		s.Interviews.EnsureIndexes,
		s.Audit.EnsureIndexes,
		s.Credentials.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return err
		}
	}
	return nil
}
