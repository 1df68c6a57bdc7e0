package domain

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestCounselorStatus_CanTransitionTo(t *testing.T) {
	all := []CounselorStatus{CounselorPending, CounselorApproved, CounselorRejected, CounselorSuspended}
	allowed := map[[2]CounselorStatus]bool{
		{CounselorPending, CounselorApproved}:   true,
		{CounselorPending, CounselorRejected}:   true,
		{CounselorApproved, CounselorSuspended}: true,
		{CounselorSuspended, CounselorApproved}: true,
	}
	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]CounselorStatus{from, to}]
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("%s -> %s: got %v, want %v", from, to, got, want)
			}
		}
	}
	if !CounselorRejected.Terminal() {
		t.Errorf("rejected must be terminal")
	}
}

func TestCounselor_RejectedToApprovedLeavesRecordUnchanged(t *testing.T) {
	c := Counselor{ID: "5", Name: "Applicant", Email: "a@example.com", Status: CounselorRejected, Specialties: []string{"Anxiety"}}
	before := c.Clone()

	err := c.TransitionTo(CounselorApproved, time.Now())
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	var te *TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransitionError, got %T", err)
	}
	if te.From != "rejected" || te.To != "approved" {
		t.Errorf("unexpected edge in error: %+v", te)
	}
	if !reflect.DeepEqual(before, c) {
		t.Errorf("record mutated: before %+v after %+v", before, c)
	}
}

func TestCounselor_ApprovalDateSetOnceAndKept(t *testing.T) {
	first := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	c := Counselor{Status: CounselorPending}

	if err := c.TransitionTo(CounselorApproved, first); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if c.ApprovalDate == nil || !c.ApprovalDate.Equal(first) {
		t.Fatalf("expected approval date %v, got %v", first, c.ApprovalDate)
	}

	if err := c.TransitionTo(CounselorSuspended, first.Add(time.Hour)); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if err := c.TransitionTo(CounselorApproved, first.Add(48*time.Hour)); err != nil {
		t.Fatalf("reinstate: %v", err)
	}
	if !c.ApprovalDate.Equal(first) {
		t.Errorf("approval date changed to %v", c.ApprovalDate)
	}
}

func TestCounselor_Validate(t *testing.T) {
	approved := time.Now()
	half, off := 4.5, 4.3

	cases := []struct {
		name string
		c    Counselor
		ok   bool
	}{
		{"pending", Counselor{Name: "A", Email: "a@x.io", Status: CounselorPending}, true},
		{"approved with date", Counselor{Name: "A", Email: "a@x.io", Status: CounselorApproved, ApprovalDate: &approved, Rating: &half}, true},
		{"approved without date", Counselor{Name: "A", Email: "a@x.io", Status: CounselorApproved}, false},
		{"off-grid rating", Counselor{Name: "A", Email: "a@x.io", Status: CounselorPending, Rating: &off}, false},
		{"empty tag", Counselor{Name: "A", Email: "a@x.io", Status: CounselorPending, Specialties: []string{" "}}, false},
		{"negative sessions", Counselor{Name: "A", Email: "a@x.io", Status: CounselorPending, TotalSessions: -1}, false},
	}
	for _, tc := range cases {
		err := tc.c.Validate()
		if tc.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}

func TestNormalizeSpecialties(t *testing.T) {
	got := NormalizeSpecialties([]string{" Anxiety", "anxiety", "", "Trauma "})
	want := []string{"Anxiety", "Trauma"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMeeting_RevenueOnTransition(t *testing.T) {
	base := Meeting{ID: "m1", Status: MeetingScheduled, Revenue: 18000}

	cancelled := base
	if err := cancelled.TransitionTo(MeetingCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Revenue != 0 {
		t.Errorf("cancelled revenue = %d, want 0", cancelled.Revenue)
	}

	noShow := base
	if err := noShow.TransitionTo(MeetingNoShow); err != nil {
		t.Fatalf("no-show: %v", err)
	}
	if noShow.Revenue != 0 {
		t.Errorf("no-show revenue = %d, want 0", noShow.Revenue)
	}

	completed := base
	if err := completed.TransitionTo(MeetingCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Revenue != 18000 {
		t.Errorf("completed revenue = %d, want 18000", completed.Revenue)
	}
}

func TestMeeting_TerminalStatuses(t *testing.T) {
	for _, from := range []MeetingStatus{MeetingCompleted, MeetingCancelled, MeetingNoShow} {
		m := Meeting{Status: from, Revenue: 500}
		for _, to := range []MeetingStatus{MeetingScheduled, MeetingCompleted, MeetingCancelled, MeetingNoShow} {
			if err := m.TransitionTo(to); !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("%s -> %s: expected ErrInvalidTransition, got %v", from, to, err)
			}
		}
		if m.Status != from || m.Revenue != 500 {
			t.Errorf("%s: record mutated to %+v", from, m)
		}
	}
}

func TestPayoutStatus_CanTransitionTo(t *testing.T) {
	all := []PayoutStatus{PayoutPending, PayoutProcessing, PayoutCompleted, PayoutFailed}
	allowed := map[[2]PayoutStatus]bool{
		{PayoutPending, PayoutProcessing}:   true,
		{PayoutProcessing, PayoutCompleted}: true,
		{PayoutPending, PayoutFailed}:       true,
		{PayoutProcessing, PayoutFailed}:    true,
	}
	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]PayoutStatus{from, to}]
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("%s -> %s: got %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestParseStatus_RejectsUnknownValues(t *testing.T) {
	if _, err := ParseCounselorStatus("archived"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("counselor: expected ErrInvalidInput, got %v", err)
	}
	if _, err := ParseMeetingStatus("Scheduled"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("meeting: expected ErrInvalidInput, got %v", err)
	}
	if _, err := ParsePayoutStatus(""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("payout: expected ErrInvalidInput, got %v", err)
	}
	if s, err := ParsePayoutStatus("processing"); err != nil || s != PayoutProcessing {
		t.Errorf("payout: got %q, %v", s, err)
	}
}
