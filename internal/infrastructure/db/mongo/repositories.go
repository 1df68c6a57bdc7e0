package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carevillage/admin-api/internal/core/domain"
	"github.com/carevillage/admin-api/internal/core/query"
)

const (
	collectionAccounts    = "accounts"
	collectionCounselors  = "counselors"
	collectionMeetings    = "meetings"
	collectionPayouts     = "payouts"
	collectionInterviews  = "interviews"
	collectionAudit       = "audit_log"
	collectionCredentials = "admin_credentials"
)

var accountSpec = listSpec{
	search: []string{"name", "email"},
	filters: map[string]filterFunc{
		domain.AccountFilterStatus:   boolean("active", domain.AccountStatusActive, domain.AccountStatusInactive),
		domain.AccountFilterRole:     equals("role"),
		domain.AccountFilterCalendar: boolean("calendar_connected", domain.CalendarStatusConnected, domain.CalendarStatusDisconnected),
	},
	sortField: "created_at",
}

var counselorSpec = listSpec{
	search: []string{"name", "email", "specialties"},
	filters: map[string]filterFunc{
		domain.CounselorFilterStatus:    equals("status"),
		domain.CounselorFilterSpecialty: equalsFold("specialties"),
	},
	sortField: "application_date",
}

var meetingSpec = listSpec{
	search: []string{"title", "counselor_name", "client_name"},
	filters: map[string]filterFunc{
		domain.MeetingFilterStatus: equals("status"),
		domain.MeetingFilterType:   equals("type"),
	},
	sortField: "scheduled_at",
}

var payoutSpec = listSpec{
	search: []string{"counselor_name", "counselor_email", "period"},
	filters: map[string]filterFunc{
		domain.PayoutFilterStatus: equals("status"),
	},
	sortField: "request_date",
}

var interviewSpec = listSpec{sortField: "scheduled_at"}

var auditSpec = listSpec{
	search: []string{"actor_email", "action", "target"},
	filters: map[string]filterFunc{
		domain.AuditFilterAction: equals("action"),
	},
	sortField: "created_at",
	sortDesc:  true,
}

// AccountRepository implements ports.AccountRepository using MongoDB.
type AccountRepository struct {
	*collection[domain.Account]
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{&collection[domain.Account]{
		col:      db.Collection(collectionAccounts),
		spec:     accountSpec,
		notFound: domain.ErrAccountNotFound,
		id:       func(a *domain.Account) string { return a.ID },
	}}
}

// Create relies on the unique e-mail index. Callers store normalised e-mails.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	err := r.collection.Create(ctx, a)
	if errors.Is(err, domain.ErrDuplicate) {
		return domain.ErrEmailTaken
	}
	return err
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	return r.ensureIndexes(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "active", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	})
}

// CounselorRepository implements ports.CounselorRepository using MongoDB.
type CounselorRepository struct {
	*collection[domain.Counselor]
}

func NewCounselorRepository(db *mongo.Database) *CounselorRepository {
	return &CounselorRepository{&collection[domain.Counselor]{
		col:      db.Collection(collectionCounselors),
		spec:     counselorSpec,
		notFound: domain.ErrCounselorNotFound,
		id:       func(c *domain.Counselor) string { return c.ID },
	}}
}

func (r *CounselorRepository) EnsureIndexes(ctx context.Context) error {
	return r.ensureIndexes(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "application_date", Value: 1}}},
		{Keys: bson.D{{Key: "account_id", Value: 1}}},
	})
}

// MeetingRepository implements ports.MeetingRepository using MongoDB.
type MeetingRepository struct {
	*collection[domain.Meeting]
}

func NewMeetingRepository(db *mongo.Database) *MeetingRepository {
	return &MeetingRepository{&collection[domain.Meeting]{
		col:      db.Collection(collectionMeetings),
		spec:     meetingSpec,
		notFound: domain.ErrMeetingNotFound,
		id:       func(m *domain.Meeting) string { return m.ID },
	}}
}

func (r *MeetingRepository) ScheduledBetween(ctx context.Context, rng domain.DateRange) ([]domain.Meeting, error) {
	return r.find(ctx, scheduledBetween(rng))
}

func (r *MeetingRepository) EnsureIndexes(ctx context.Context) error {
	return r.ensureIndexes(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "scheduled_at", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "counselor_id", Value: 1}}},
	})
}

// PayoutRepository implements ports.PayoutRepository using MongoDB.
type PayoutRepository struct {
	*collection[domain.Payout]
}

func NewPayoutRepository(db *mongo.Database) *PayoutRepository {
	return &PayoutRepository{&collection[domain.Payout]{
		col:      db.Collection(collectionPayouts),
		spec:     payoutSpec,
		notFound: domain.ErrPayoutNotFound,
		id:       func(p *domain.Payout) string { return p.ID },
	}}
}

func (r *PayoutRepository) EnsureIndexes(ctx context.Context) error {
	return r.ensureIndexes(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "request_date", Value: 1}}},
		{Keys: bson.D{{Key: "counselor_id", Value: 1}}},
	})
}

// InterviewRepository implements ports.InterviewRepository using MongoDB.
type InterviewRepository struct {
	c *collection[domain.Interview]
}

func NewInterviewRepository(db *mongo.Database) *InterviewRepository {
	return &InterviewRepository{&collection[domain.Interview]{
		col:      db.Collection(collectionInterviews),
		spec:     interviewSpec,
		notFound: domain.ErrInterviewNotFound,
		id:       func(i *domain.Interview) string { return i.ID },
	}}
}

func (r *InterviewRepository) Create(ctx context.Context, i *domain.Interview) error {
	return r.c.Create(ctx, i)
}

func (r *InterviewRepository) FindByID(ctx context.Context, id string) (*domain.Interview, error) {
	return r.c.FindByID(ctx, id)
}

func (r *InterviewRepository) ScheduledBetween(ctx context.Context, rng domain.DateRange) ([]domain.Interview, error) {
	return r.c.find(ctx, scheduledBetween(rng))
}

func (r *InterviewRepository) EnsureIndexes(ctx context.Context) error {
	return r.c.ensureIndexes(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "scheduled_at", Value: 1}}},
	})
}

// AuditRepository is the append-only audit log.
type AuditRepository struct {
	c *collection[domain.AuditEntry]
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{&collection[domain.AuditEntry]{
		col:      db.Collection(collectionAudit),
		spec:     auditSpec,
		notFound: domain.ErrNotFound,
		id:       func(e *domain.AuditEntry) string { return e.ID },
	}}
}

func (r *AuditRepository) Insert(ctx context.Context, e *domain.AuditEntry) error {
	return r.c.Create(ctx, e)
}

// List returns entries newest first.
func (r *AuditRepository) List(ctx context.Context, d query.Descriptor) (*query.Page[domain.AuditEntry], error) {
	return r.c.List(ctx, d)
}

func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	return r.c.ensureIndexes(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "action", Value: 1}}},
	})
}

// CredentialRepository stores admin password hashes keyed by e-mail.
type CredentialRepository struct {
	col *mongo.Collection
}

func NewCredentialRepository(db *mongo.Database) *CredentialRepository {
	return &CredentialRepository{col: db.Collection(collectionCredentials)}
}

func (r *CredentialRepository) FindByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	c := &collection[domain.Credential]{col: r.col, notFound: domain.ErrCredentialNotFound}
	return c.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

// Upsert inserts or replaces the credential for c.Email. The stored id of an
// existing credential is kept.
func (r *CredentialRepository) Upsert(ctx context.Context, c *domain.Credential) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	email := domain.NormalizeEmail(c.Email)
	update := bson.M{
		"$set": bson.M{
			"email":         email,
			"password_hash": c.PasswordHash,
			"updated_at":    c.UpdatedAt.UTC(),
		},
		"$setOnInsert": bson.M{
			"_id":        c.ID,
			"created_at": c.CreatedAt.UTC(),
		},
	}
	_, err := r.col.UpdateOne(ctx, bson.M{"email": email}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert credential: %w", err)
	}
	return nil
}

func (r *CredentialRepository) EnsureIndexes(ctx context.Context) error {
	c := &collection[domain.Credential]{col: r.col}
	return c.ensureIndexes(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
}
