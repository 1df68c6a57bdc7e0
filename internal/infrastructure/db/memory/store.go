package memory

import (
	"time"

	"github.com/carevillage/admin-api/internal/core/domain"
)

// Store groups one repository per collection.
type Store struct {
	Accounts    *AccountRepository
	Counselors  *CounselorRepository
	Meetings    *MeetingRepository
	Payouts     *PayoutRepository
	Interviews  *InterviewRepository
	Audit       *AuditLog
	Credentials *CredentialRepository
}

func NewStore() *Store {
	return &Store{
		Accounts:    NewAccountRepository(),
		Counselors:  NewCounselorRepository(),
		Meetings:    NewMeetingRepository(),
		Payouts:     NewPayoutRepository(),
		Interviews:  NewInterviewRepository(),
		Audit:       NewAuditLog(),
		Credentials: NewCredentialRepository(),
	}
}

// Seed loads the demo data set. It is meant for an empty store; records that
// already exist are skipped.
func (s *Store) Seed() {
	s.Accounts.load(seedAccounts())
	s.Counselors.load(seedCounselors())
	s.Meetings.load(seedMeetings())
	s.Payouts.load(seedPayouts())
	s.Interviews.load(seedInterviews())
}

func ts(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		panic(err)
	}
	return t
}

func tsp(v string) *time.Time {
	t := ts(v)
	return &t
}

func rating(v float64) *float64 { return &v }

func seedAccounts() []domain.Account {
	return []domain.Account{
		{ID: "1", Email: "sarah.johnson@example.com", Name: "Sarah Johnson", Role: domain.RoleUser, Active: true, CalendarConnected: true, CreatedAt: ts("2024-01-15T10:30:00Z"), UpdatedAt: ts("2024-01-15T10:30:00Z"), LastSignIn: tsp("2024-01-20T14:22:00Z")},
		{ID: "2", Email: "dr.smith@carevillage.io", Name: "Dr. Michael Smith", Role: domain.RoleCVC, Active: true, CalendarConnected: true, CreatedAt: ts("2024-01-10T09:15:00Z"), UpdatedAt: ts("2024-01-10T09:15:00Z"), LastSignIn: tsp("2024-01-20T16:45:00Z")},
		{ID: "3", Email: "maria.garcia@example.com", Name: "Maria Garcia", Role: domain.RoleCVC, Active: true, CalendarConnected: true, CreatedAt: ts("2024-01-12T11:20:00Z"), UpdatedAt: ts("2024-01-12T11:20:00Z"), LastSignIn: tsp("2024-01-19T13:30:00Z")},
		{ID: "4", Email: "admin@carevillage.io", Name: "Admin User", Role: domain.RoleAdmin, Active: true, CreatedAt: ts("2024-01-01T08:00:00Z"), UpdatedAt: ts("2024-01-01T08:00:00Z"), LastSignIn: tsp("2024-01-20T17:00:00Z")},
		{ID: "5", Email: "david.chen@example.com", Name: "David Chen", Role: domain.RoleUser, Active: false, CreatedAt: ts("2024-01-18T15:45:00Z"), UpdatedAt: ts("2024-01-18T15:45:00Z")},
		{ID: "6", Email: "dr.johnson@example.com", Name: "Dr. Sarah Johnson", Role: domain.RoleCVC, Active: true, CreatedAt: ts("2024-01-20T16:45:00Z"), UpdatedAt: ts("2024-01-20T16:45:00Z")},
		{ID: "7", Email: "therapist.chen@example.com", Name: "David Chen", Role: domain.RoleCVC, Active: true, CreatedAt: ts("2024-01-19T13:30:00Z"), UpdatedAt: ts("2024-01-19T13:30:00Z")},
		{ID: "8", Email: "rejected.therapist@example.com", Name: "John Doe", Role: domain.RoleCVC, Active: false, CreatedAt: ts("2024-01-08T12:00:00Z"), UpdatedAt: ts("2024-01-08T12:00:00Z")},
		{ID: "9", Email: "emily.r@example.com", Name: "Emily R.", Role: domain.RoleUser, Active: true, CreatedAt: ts("2024-01-14T09:00:00Z"), UpdatedAt: ts("2024-01-14T09:00:00Z")},
		{ID: "10", Email: "michael.s@example.com", Name: "Michael S.", Role: domain.RoleUser, Active: true, CreatedAt: ts("2024-01-16T09:00:00Z"), UpdatedAt: ts("2024-01-16T09:00:00Z")},
	}
}

func seedCounselors() []domain.Counselor {
	return []domain.Counselor{
		{ID: "cvc-1", AccountID: "2", Email: "dr.smith@carevillage.io", Name: "Dr. Michael Smith", Specialties: []string{"Anxiety", "Depression", "Trauma"}, Status: domain.CounselorApproved, ApplicationDate: ts("2024-01-10T09:15:00Z"), ApprovalDate: tsp("2024-01-15T14:30:00Z"), Rating: rating(5), TotalSessions: 156, TotalEarnings: 23400},
		{ID: "cvc-2", AccountID: "3", Email: "maria.garcia@example.com", Name: "Maria Garcia", Specialties: []string{"Relationships", "Family Therapy"}, Status: domain.CounselorApproved, ApplicationDate: ts("2024-01-12T11:20:00Z"), ApprovalDate: tsp("2024-01-18T10:15:00Z"), Rating: rating(4.5), TotalSessions: 89, TotalEarnings: 13350},
		{ID: "cvc-3", AccountID: "6", Email: "dr.johnson@example.com", Name: "Dr. Sarah Johnson", Specialties: []string{"Grief & Loss", "Trauma", "ADHD"}, Status: domain.CounselorPending, ApplicationDate: ts("2024-01-20T16:45:00Z")},
		{ID: "cvc-4", AccountID: "7", Email: "therapist.chen@example.com", Name: "David Chen", Specialties: []string{"Addiction", "Depression"}, Status: domain.CounselorPending, ApplicationDate: ts("2024-01-19T13:30:00Z")},
		{ID: "cvc-5", AccountID: "8", Email: "rejected.therapist@example.com", Name: "John Doe", Specialties: []string{"Anxiety"}, Status: domain.CounselorRejected, ApplicationDate: ts("2024-01-08T12:00:00Z")},
	}
}

func seedMeetings() []domain.Meeting {
	return []domain.Meeting{
		{ID: "meeting-1", CounselorID: "cvc-1", CounselorName: "Dr. Michael Smith", ClientID: "1", ClientName: "Sarah J.", Title: "Anxiety Management Session", ScheduledAt: ts("2024-01-22T10:00:00Z"), DurationMinutes: 60, Type: domain.MeetingIndividual, Status: domain.MeetingScheduled, Revenue: 12000, CreatedAt: ts("2024-01-15T10:00:00Z")},
		{ID: "meeting-2", CounselorID: "cvc-2", CounselorName: "Maria Garcia", ClientID: "5", ClientName: "David C.", Title: "Relationship Counseling", ScheduledAt: ts("2024-01-22T14:30:00Z"), DurationMinutes: 90, Type: domain.MeetingIndividual, Status: domain.MeetingCompleted, Revenue: 18000, CreatedAt: ts("2024-01-15T11:00:00Z")},
		{ID: "meeting-3", CounselorID: "cvc-3", CounselorName: "Dr. Sarah Johnson", ClientID: "10", ClientName: "Group A", Title: "Grief Support Group", ScheduledAt: ts("2024-01-23T16:00:00Z"), DurationMinutes: 120, Type: domain.MeetingGroup, Status: domain.MeetingScheduled, Revenue: 24000, CreatedAt: ts("2024-01-16T09:00:00Z")},
		{ID: "meeting-4", CounselorID: "cvc-1", CounselorName: "Dr. Michael Smith", ClientID: "9", ClientName: "Emily R.", Title: "Depression Therapy", ScheduledAt: ts("2024-01-21T11:00:00Z"), DurationMinutes: 60, Type: domain.MeetingIndividual, Status: domain.MeetingCancelled, Revenue: 0, CreatedAt: ts("2024-01-14T12:00:00Z")},
		{ID: "meeting-5", CounselorID: "cvc-2", CounselorName: "Maria Garcia", ClientID: "10", ClientName: "Michael S.", Title: "Family Therapy Session", ScheduledAt: ts("2024-01-20T15:00:00Z"), DurationMinutes: 90, Type: domain.MeetingIndividual, Status: domain.MeetingNoShow, Revenue: 0, CreatedAt: ts("2024-01-13T15:00:00Z")},
	}
}

func seedPayouts() []domain.Payout {
	return []domain.Payout{
		{ID: "payout-1", CounselorID: "cvc-1", CounselorName: "Dr. Michael Smith", CounselorEmail: "dr.smith@carevillage.io", Amount: 285000, Period: "May 2024", Status: domain.PayoutPending, RequestDate: ts("2024-06-01T00:00:00Z"), ScheduledDate: ts("2024-06-15T00:00:00Z")},
		{ID: "payout-2", CounselorID: "cvc-2", CounselorName: "Maria Garcia", CounselorEmail: "maria.garcia@example.com", Amount: 320000, Period: "May 2024", Status: domain.PayoutProcessing, RequestDate: ts("2024-06-01T00:00:00Z"), ScheduledDate: ts("2024-06-15T00:00:00Z")},
		{ID: "payout-3", CounselorID: "cvc-1", CounselorName: "Dr. Michael Smith", CounselorEmail: "dr.smith@carevillage.io", Amount: 265000, Period: "April 2024", Status: domain.PayoutCompleted, RequestDate: ts("2024-05-01T00:00:00Z"), ScheduledDate: ts("2024-05-15T00:00:00Z")},
	}
}

func seedInterviews() []domain.Interview {
	return []domain.Interview{
		{ID: "interview-1", CounselorID: "cvc-3", CounselorName: "Dr. Sarah Johnson", ScheduledAt: ts("2024-01-22T14:00:00Z"), DurationMinutes: 45, Type: domain.InterviewVideo, Interviewer: "Admin", Status: domain.InterviewScheduled, CreatedAt: ts("2024-01-20T17:00:00Z")},
	}
}
