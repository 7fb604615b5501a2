package domain

import (
	"context"
	"time"
)

// MembershipReport summarizes memberships by effective status.
type MembershipReport struct {
	Total     int           `json:"total"`
	Active    int           `json:"active"`
	Expired   int           `json:"expired"`
	Cancelled int           `json:"cancelled"`
	Data      []*Membership `json:"data"`
}

// EventReport summarizes events by status and seat usage.
type EventReport struct {
	Total              int      `json:"total"`
	Upcoming           int      `json:"upcoming"`
	Ongoing            int      `json:"ongoing"`
	Completed          int      `json:"completed"`
	Cancelled          int      `json:"cancelled"`
	TotalCapacity      int      `json:"totalCapacity"`
	TotalRegistrations int      `json:"totalRegistrations"`
	Data               []*Event `json:"data"`
}

// FinancialReport summarizes the ledger. Revenue only counts completed entries.
type FinancialReport struct {
	TotalTransactions int            `json:"totalTransactions"`
	TotalRevenue      float64        `json:"totalRevenue"`
	ByType            map[string]int `json:"byType"`
	ByPaymentMethod   map[string]int `json:"byPaymentMethod"`
	ByStatus          map[string]int `json:"byStatus"`
	Data              []*Transaction `json:"data"`
}

// Dashboard is the landing page summary. Financials is only set for admins.
type Dashboard struct {
	Memberships DashboardMemberships `json:"memberships"`
	Events      DashboardEvents      `json:"events"`
	Financials  *DashboardFinancials `json:"financials,omitempty"`
}

type DashboardMemberships struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Expired int `json:"expired"`
}

type DashboardEvents struct {
	Total     int `json:"total"`
	Upcoming  int `json:"upcoming"`
	Completed int `json:"completed"`
}

type DashboardFinancials struct {
	TotalRevenue     float64 `json:"totalRevenue"`
	TransactionCount int     `json:"transactionCount"`
}

// SummarizeMemberships counts memberships by the status they have at now.
// Records in the returned data carry that effective status.
func SummarizeMemberships(memberships []*Membership, now time.Time) *MembershipReport {
	report := &MembershipReport{Total: len(memberships), Data: make([]*Membership, 0, len(memberships))}
	for _, m := range memberships {
		m.Status = EffectiveStatus(m, now)
		switch m.Status {
		case MembershipStatusActive:
			report.Active++
		case MembershipStatusExpired:
			report.Expired++
		case MembershipStatusCancelled:
			report.Cancelled++
		}
		report.Data = append(report.Data, m)
	}
	return report
}

func SummarizeEvents(events []*Event) *EventReport {
	report := &EventReport{Total: len(events), Data: make([]*Event, 0, len(events))}
	for _, e := range events {
		switch e.Status {
		case EventStatusUpcoming:
			report.Upcoming++
		case EventStatusOngoing:
			report.Ongoing++
		case EventStatusCompleted:
			report.Completed++
		case EventStatusCancelled:
			report.Cancelled++
		}
		report.TotalCapacity += e.Capacity
		report.TotalRegistrations += e.Registrations
		report.Data = append(report.Data, e)
	}
	return report
}

func SummarizeTransactions(txns []*Transaction) *FinancialReport {
	report := &FinancialReport{
		TotalTransactions: len(txns),
		ByType:            zeroCounts(TransactionTypes),
		ByPaymentMethod:   zeroCounts(PaymentMethods),
		ByStatus:          zeroCounts(TransactionStatuses),
		Data:              make([]*Transaction, 0, len(txns)),
	}
	for _, t := range txns {
		if t.Status == TransactionStatusCompleted {
			report.TotalRevenue += t.Amount
		}
		report.ByType[t.Type]++
		report.ByPaymentMethod[t.PaymentMethod]++
		report.ByStatus[t.Status]++
		report.Data = append(report.Data, t)
	}
	return report
}

// BuildDashboard condenses the three reports into the dashboard view.
func BuildDashboard(m *MembershipReport, e *EventReport, f *FinancialReport, isAdmin bool) *Dashboard {
	d := &Dashboard{
		Memberships: DashboardMemberships{Total: m.Total, Active: m.Active, Expired: m.Expired},
		Events:      DashboardEvents{Total: e.Total, Upcoming: e.Upcoming, Completed: e.Completed},
	}
	if isAdmin && f != nil {
		d.Financials = &DashboardFinancials{
			TotalRevenue:     f.TotalRevenue,
			TransactionCount: f.TotalTransactions,
		}
	}
	return d
}

func zeroCounts(keys []string) map[string]int {
	counts := make(map[string]int, len(keys))
	for _, k := range keys {
		counts[k] = 0
	}
	return counts
}

// ArchiveRecord describes one report snapshot written to the archive.
type ArchiveRecord struct {
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// ArchiveIndex remembers recently archived snapshots. Reports themselves are
// never stored; they are recomputed on every call.
type ArchiveIndex interface {
	RecordArchive(ctx context.Context, rec ArchiveRecord) error
	// RecentArchives returns at most limit records, newest first.
	RecentArchives(ctx context.Context, limit int) ([]ArchiveRecord, error)
}
