package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/carevillage/admin-api/internal/core/domain"
	"github.com/carevillage/admin-api/internal/core/ports"
	"github.com/carevillage/admin-api/internal/core/query"
)

const (
	reportMonths   = 6
	topCounselors  = 5
	recentWindow   = 30 * 24 * time.Hour
	countPageSize  = 1
	reportPageSize = 500
)

var serviceNames = map[domain.MeetingType]string{
	domain.MeetingIndividual: "Individual Therapy",
	domain.MeetingGroup:      "Group Sessions",
}

// ReportService computes the dashboard overview and the financial report
// from the live collections.
type ReportService struct {
	accounts   ports.AccountRepository
	counselors ports.CounselorRepository
	meetings   ports.MeetingRepository
	payouts    ports.PayoutRepository
	logger     zerolog.Logger
	now        func() time.Time
}

func NewReportService(
	accounts ports.AccountRepository,
	counselors ports.CounselorRepository,
	meetings ports.MeetingRepository,
	payouts ports.PayoutRepository,
	logger zerolog.Logger,
) *ReportService {
	return &ReportService{
		accounts:   accounts,
		counselors: counselors,
		meetings:   meetings,
		payouts:    payouts,
		logger:     logger,
		now:        time.Now,
	}
}

// count returns the filtered total without materialising the items.
func count[T any](ctx context.Context, list query.Fetcher[T], filters map[string]string) (int, error) {
	page, err := list(ctx, query.Descriptor{Filters: filters, PageSize: countPageSize})
	if err != nil {
		return 0, err
	}
	return page.Total, nil
}

func collect[T any](ctx context.Context, list query.Fetcher[T], filters map[string]string) ([]T, error) {
	return query.Collect(ctx, query.Descriptor{Filters: filters, PageSize: reportPageSize}, list)
}

func (s *ReportService) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	now := s.now().UTC()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.ActiveUsers, err = count(gctx, s.accounts.List, map[string]string{domain.AccountFilterStatus: domain.AccountStatusActive})
		return err
	})
	g.Go(func() (err error) {
		stats.ConnectedCalendars, err = count(gctx, s.accounts.List, map[string]string{domain.AccountFilterCalendar: domain.CalendarStatusConnected})
		return err
	})
	g.Go(func() error {
		recent, err := s.meetings.ScheduledBetween(gctx, domain.DateRange{Start: now.Add(-recentWindow), End: now})
		stats.Meetings30d = len(recent)
		return err
	})
	g.Go(func() error {
		completed, err := collect(gctx, s.meetings.List, map[string]string{domain.MeetingFilterStatus: string(domain.MeetingCompleted)})
		for _, m := range completed {
			stats.TotalRevenue += m.Revenue
		}
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveCounselors, err = count(gctx, s.counselors.List, map[string]string{domain.CounselorFilterStatus: string(domain.CounselorApproved)})
		return err
	})
	g.Go(func() (err error) {
		stats.PendingPayouts, err = count(gctx, s.payouts.List, map[string]string{domain.PayoutFilterStatus: string(domain.PayoutPending)})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &stats, nil
}

func (s *ReportService) Financials(ctx context.Context) (*domain.Financials, error) {
	var (
		completed   []domain.Meeting
		outstanding [2][]domain.Payout
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		completed, err = collect(gctx, s.meetings.List, map[string]string{domain.MeetingFilterStatus: string(domain.MeetingCompleted)})
		return err
	})
	for i, st := range []domain.PayoutStatus{domain.PayoutPending, domain.PayoutProcessing} {
		g.Go(func() (err error) {
			outstanding[i], err = collect(gctx, s.payouts.List, map[string]string{domain.PayoutFilterStatus: string(st)})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("financials: %w", err)
	}

	f := &domain.Financials{}
	for _, m := range completed {
		f.TotalRevenue += m.Revenue
	}
	f.CounselorEarning = domain.CounselorShare(f.TotalRevenue)
	f.PlatformRevenue = f.TotalRevenue - f.CounselorEarning
	for _, batch := range outstanding {
		for _, p := range batch {
			f.PendingPayouts += p.Amount
		}
	}

	f.MonthlyRevenue = monthlyRevenue(completed, s.now().UTC())
	f.RevenueGrowth = growth(f.MonthlyRevenue)
	f.RevenueByService = revenueByService(completed, f.TotalRevenue)

	f.TopCounselors = s.topCounselors(ctx, completed)
	return f, nil
}

// monthlyRevenue buckets revenue into the last reportMonths calendar months,
// oldest first, ending with the month containing now.
func monthlyRevenue(meetings []domain.Meeting, now time.Time) []domain.MonthlyRevenue {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(reportMonths - 1), 0)

	out := make([]domain.MonthlyRevenue, reportMonths)
	for i := range out {
		out[i].Month = first.AddDate(0, i, 0).Format("Jan")
	}
	for _, m := range meetings {
		at := m.ScheduledAt.UTC()
		idx := (at.Year()-first.Year())*12 + int(at.Month()) - int(first.Month())
		if idx < 0 || idx >= reportMonths {
			continue
		}
		out[idx].Total += m.Revenue
	}
	for i := range out {
		out[i].Counselor = domain.CounselorShare(out[i].Total)
		out[i].Platform = out[i].Total - out[i].Counselor
	}
	return out
}

// growth compares the last two months, in percent with one decimal.
func growth(months []domain.MonthlyRevenue) float64 {
	if len(months) < 2 {
		return 0
	}
	prev, cur := months[len(months)-2].Total, months[len(months)-1].Total
	if prev == 0 {
		return 0
	}
	return round1(float64(cur-prev) / float64(prev) * 100)
}

func revenueByService(meetings []domain.Meeting, total int64) []domain.RevenueSlice {
	byType := map[domain.MeetingType]int64{}
	for _, m := range meetings {
		byType[m.Type] += m.Revenue
	}

	out := make([]domain.RevenueSlice, 0, len(byType))
	for t, v := range byType {
		name, ok := serviceNames[t]
		if !ok {
			name = string(t)
		}
		pct := 0.0
		if total > 0 {
			pct = round1(float64(v) / float64(total) * 100)
		}
		out = append(out, domain.RevenueSlice{Name: name, Value: v, Percentage: pct})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// topCounselors ranks by completed revenue. Name and rating come from the
// counselor record when it can still be read.
func (s *ReportService) topCounselors(ctx context.Context, meetings []domain.Meeting) []domain.TopCounselor {
	agg := map[string]*domain.TopCounselor{}
	for _, m := range meetings {
		t, ok := agg[m.CounselorID]
		if !ok {
			t = &domain.TopCounselor{ID: m.CounselorID, Name: m.CounselorName}
			agg[m.CounselorID] = t
		}
		t.Revenue += m.Revenue
		t.Sessions++
	}

	ranked := make([]domain.TopCounselor, 0, len(agg))
	for _, t := range agg {
		ranked = append(ranked, *t)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Revenue != ranked[j].Revenue {
			return ranked[i].Revenue > ranked[j].Revenue
		}
		return ranked[i].ID < ranked[j].ID
	})
	if len(ranked) > topCounselors {
		ranked = ranked[:topCounselors]
	}

	for i := range ranked {
		c, err := s.counselors.FindByID(ctx, ranked[i].ID)
		if err != nil {
			s.logger.Debug().Err(err).Str("counselor_id", ranked[i].ID).Msg("top counselor lookup failed")
			continue
		}
		ranked[i].Name = c.Name
		ranked[i].Rating = c.Rating
	}
	return ranked
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
