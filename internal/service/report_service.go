package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/mansoorceksport/clubhouse/internal/domain"
	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"
)

// maxRecentArchives caps how many snapshots RecentArchives returns.
const maxRecentArchives = 50

// ReportArchive stores report snapshots and returns their location.
type ReportArchive interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// ReportService computes reports from the current state of every collection.
// Nothing is cached: every call reads storage again.
type ReportService struct {
	membershipRepo domain.MembershipRepository
	eventRepo      domain.EventRepository
	txnRepo        domain.TransactionRepository
	archive        ReportArchive
	index          domain.ArchiveIndex
	now            func() time.Time
}

// NewReportService creates a new ReportService instance. archive may be nil,
// in which case ArchiveSnapshot reports domain.ErrArchiveNotConfigured.
func NewReportService(
	membershipRepo domain.MembershipRepository,
	eventRepo domain.EventRepository,
	txnRepo domain.TransactionRepository,
	archive ReportArchive,
) *ReportService {
	return &ReportService{
		membershipRepo: membershipRepo,
		eventRepo:      eventRepo,
		txnRepo:        txnRepo,
		archive:        archive,
		now:            utcNow,
	}
}

// WithArchiveIndex records every archived snapshot in index.
func (s *ReportService) WithArchiveIndex(index domain.ArchiveIndex) *ReportService {
	s.index = index
	return s
}

// Snapshot is the document written to the report archive.
type Snapshot struct {
	GeneratedAt time.Time               `json:"generatedAt"`
	Dashboard   *domain.Dashboard       `json:"dashboard"`
	Financial   *domain.FinancialReport `json:"financial"`
}

func (s *ReportService) MembershipReport(ctx context.Context) (*domain.MembershipReport, error) {
	memberships, err := s.membershipRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load memberships: %w", err)
	}
	return domain.SummarizeMemberships(memberships, s.now()), nil
}

func (s *ReportService) EventReport(ctx context.Context) (*domain.EventReport, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	return domain.SummarizeEvents(events), nil
}

func (s *ReportService) FinancialReport(ctx context.Context) (*domain.FinancialReport, error) {
	txns, err := s.txnRepo.List(ctx, domain.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return domain.SummarizeTransactions(txns), nil
}

// Dashboard loads the three collections concurrently. Financial figures are
// only computed for admins.
func (s *ReportService) Dashboard(ctx context.Context, isAdmin bool) (*domain.Dashboard, error) {
	m, e, f, err := s.loadAll(ctx, isAdmin)
	if err != nil {
		return nil, err
	}
	return domain.BuildDashboard(m, e, f, isAdmin), nil
}

func (s *ReportService) loadAll(ctx context.Context, withFinancials bool) (*domain.MembershipReport, *domain.EventReport, *domain.FinancialReport, error) {
	var (
		m *domain.MembershipReport
		e *domain.EventReport
		f *domain.FinancialReport
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		m, err = s.MembershipReport(gCtx)
		return err
	})

	g.Go(func() error {
		var err error
		e, err = s.EventReport(gCtx)
		return err
	})

	if withFinancials {
		g.Go(func() error {
			var err error
			f, err = s.FinancialReport(gCtx)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return m, e, f, nil
}

// ArchiveSnapshot writes the admin dashboard and financial report to the
// archive under reports/<yyyy-mm-dd>/<ulid>.json and returns its URL.
func (s *ReportService) ArchiveSnapshot(ctx context.Context) (string, error) {
	if s.archive == nil {
		return "", domain.ErrArchiveNotConfigured
	}

	m, e, f, err := s.loadAll(ctx, true)
	if err != nil {
		return "", err
	}

	now := s.now()
	body, err := json.Marshal(Snapshot{
		GeneratedAt: now,
		Dashboard:   domain.BuildDashboard(m, e, f, true),
		Financial:   f,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := fmt.Sprintf("reports/%s/%s.json", now.Format("2006-01-02"), ulid.Make().String())
	url, err := s.archive.Put(ctx, key, body, "application/json")
	if err != nil {
		return "", err
	}

	if s.index != nil {
		rec := domain.ArchiveRecord{Key: key, URL: url, GeneratedAt: now}
		if err := s.index.RecordArchive(ctx, rec); err != nil {
			log.Printf("[Report] failed to index snapshot %s: %v", key, err)
		}
	}
	return url, nil
}

// RecentArchives lists the latest archived snapshots, newest first. Without
// an index the list is empty.
func (s *ReportService) RecentArchives(ctx context.Context, limit int) ([]domain.ArchiveRecord, error) {
	if s.index == nil {
		return []domain.ArchiveRecord{}, nil
	}
	if limit <= 0 || limit > maxRecentArchives {
		limit = maxRecentArchives
	}
	return s.index.RecentArchives(ctx, limit)
}
