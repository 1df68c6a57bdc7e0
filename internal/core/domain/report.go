package domain

// CounselorSharePercent is the part of session revenue paid out to counselors.
const CounselorSharePercent = 70

// CounselorShare splits revenue into the counselor's part; the rest is the
// platform's. Rounds down in favour of the platform.
func CounselorShare(revenue int64) int64 {
	return revenue * CounselorSharePercent / 100
}

// DashboardStats are the headline counters of the admin overview.
type DashboardStats struct {
	ActiveUsers        int   `json:"activeUsers"`
	ConnectedCalendars int   `json:"connectedCalendars"`
	Meetings30d        int   `json:"meetings30d"`
	TotalRevenue       int64 `json:"totalRevenue"`
	ActiveCounselors   int   `json:"activeCVCs"`
	PendingPayouts     int   `json:"pendingPayouts"`
}

type MonthlyRevenue struct {
	Month     string `json:"month"`
	Total     int64  `json:"total"`
	Counselor int64  `json:"cvc"`
	Platform  int64  `json:"platform"`
}

type RevenueSlice struct {
	Name       string  `json:"name"`
	Value      int64   `json:"value"`
	Percentage float64 `json:"percentage"`
}

type TopCounselor struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Revenue  int64    `json:"revenue"`
	Sessions int      `json:"sessions"`
	Rating   *float64 `json:"rating,omitempty"`
}

// Financials is the revenue report. Amounts are minor units.
type Financials struct {
	TotalRevenue     int64            `json:"totalRevenue"`
	CounselorEarning int64            `json:"cvcEarnings"`
	PlatformRevenue  int64            `json:"platformRevenue"`
	PendingPayouts   int64            `json:"pendingPayouts"`
	RevenueGrowth    float64          `json:"revenueGrowth"`
	MonthlyRevenue   []MonthlyRevenue `json:"monthlyRevenue"`
	RevenueByService []RevenueSlice   `json:"revenueByService"`
	TopCounselors    []TopCounselor   `json:"topCVCs"`
}
