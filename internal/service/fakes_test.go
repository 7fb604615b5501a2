package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mansoorceksport/clubhouse/internal/domain"
)

// In-memory repositories. Each returns copies so services cannot mutate
// stored state without calling the repository.

type fakeDurationRepo struct {
	mu    sync.Mutex
	seq   int
	items map[string]domain.DurationOption
}

func newFakeDurationRepo() *fakeDurationRepo {
	return &fakeDurationRepo{items: map[string]domain.DurationOption{}}
}

func (r *fakeDurationRepo) Create(_ context.Context, d *domain.DurationOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.DurationMonths == d.DurationMonths {
			return domain.ErrDuplicate
		}
	}
	r.seq++
	d.ID = fmt.Sprintf("dur-%d", r.seq)
	r.items[d.ID] = *d
	return nil
}

func (r *fakeDurationRepo) GetByID(_ context.Context, id string) (*domain.DurationOption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &d, nil
}

func (r *fakeDurationRepo) GetByMonths(_ context.Context, months int) (*domain.DurationOption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.items {
		if d.DurationMonths == months {
			d := d
			return &d, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeDurationRepo) List(_ context.Context) ([]*domain.DurationOption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.DurationOption{}
	for _, d := range r.items {
		d := d
		out = append(out, &d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DurationMonths < out[j].DurationMonths })
	return out, nil
}

func (r *fakeDurationRepo) Update(_ context.Context, d *domain.DurationOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[d.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, existing := range r.items {
		if id != d.ID && existing.DurationMonths == d.DurationMonths {
			return domain.ErrDuplicate
		}
	}
	r.items[d.ID] = *d
	return nil
}

func (r *fakeDurationRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type fakeMembershipRepo struct {
	mu    sync.Mutex
	items map[string]domain.Membership
	err   error
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{items: map[string]domain.Membership{}}
}

func (r *fakeMembershipRepo) Create(_ context.Context, m *domain.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[m.MembershipNumber]; ok {
		return domain.ErrDuplicate
	}
	m.ID = "id-" + m.MembershipNumber
	r.items[m.MembershipNumber] = *m
	return nil
}

func (r *fakeMembershipRepo) GetByNumber(_ context.Context, number string) (*domain.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[number]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

func (r *fakeMembershipRepo) GetByNumbers(_ context.Context, numbers []string) ([]*domain.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Membership{}
	for _, n := range numbers {
		if m, ok := r.items[n]; ok {
			out = append(out, &m)
		}
	}
	return out, nil
}

func (r *fakeMembershipRepo) List(_ context.Context) ([]*domain.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := []*domain.Membership{}
	for _, m := range r.items {
		m := m
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MembershipNumber < out[j].MembershipNumber })
	return out, nil
}

func (r *fakeMembershipRepo) Update(_ context.Context, m *domain.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[m.MembershipNumber]; !ok {
		return domain.ErrNotFound
	}
	r.items[m.MembershipNumber] = *m
	return nil
}

func (r *fakeMembershipRepo) MarkExpired(_ context.Context, number string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.items[number]; ok && m.Status == domain.MembershipStatusActive {
		m.Status = domain.MembershipStatusExpired
		r.items[number] = m
	}
	return nil
}

func (r *fakeMembershipRepo) ExpireDue(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	var n int64
	for number, m := range r.items {
		if m.Status == domain.MembershipStatusActive && domain.IsPastEnd(m.EndDate, now) {
			m.Status = domain.MembershipStatusExpired
			r.items[number] = m
			n++
		}
	}
	return n, nil
}

func (r *fakeMembershipRepo) put(m domain.Membership) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[m.MembershipNumber] = m
}

func (r *fakeMembershipRepo) stored(number string) domain.Membership {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[number]
}

type fakeTransactionRepo struct {
	mu    sync.Mutex
	items []domain.Transaction
}

func (r *fakeTransactionRepo) Append(_ context.Context, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = fmt.Sprintf("rec-%d", len(r.items)+1)
	r.items = append(r.items, *t)
	return nil
}

func (r *fakeTransactionRepo) GetByID(_ context.Context, id string) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.items {
		if t.TransactionID == id || t.ID == id {
			t := t
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeTransactionRepo) List(_ context.Context, f domain.TransactionFilter) ([]*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Transaction{}
	for i := len(r.items) - 1; i >= 0; i-- {
		t := r.items[i]
		if (f.Type == "" || t.Type == f.Type) &&
			(f.Status == "" || t.Status == f.Status) &&
			(f.MembershipNumber == "" || t.MembershipNumber == f.MembershipNumber) {
			out = append(out, &t)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) all() []domain.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Transaction(nil), r.items...)
}

type fakeEventRepo struct {
	mu    sync.Mutex
	seq   int
	items map[string]domain.Event
	// beforeUpdate runs once, outside the lock, when Update is called.
	beforeUpdate func()
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{items: map[string]domain.Event{}}
}

func (r *fakeEventRepo) Create(_ context.Context, e *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	e.ID = fmt.Sprintf("evt-%d", r.seq)
	if e.RegisteredMembers == nil {
		e.RegisteredMembers = []domain.EventRegistration{}
	}
	r.items[e.ID] = cloneEvent(*e)
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e = cloneEvent(e)
	return &e, nil
}

func (r *fakeEventRepo) List(_ context.Context) ([]*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Event{}
	for _, e := range r.items {
		e := cloneEvent(e)
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventDate.Before(out[j].EventDate) })
	return out, nil
}

func (r *fakeEventRepo) Update(_ context.Context, e *domain.Event) error {
	if hook := r.beforeUpdate; hook != nil {
		r.beforeUpdate = nil
		hook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[e.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Registrations > e.Capacity {
		return domain.ErrCapacityTooLow
	}
	stored.EventName = e.EventName
	stored.EventDate = e.EventDate
	stored.Location = e.Location
	stored.Description = e.Description
	stored.Capacity = e.Capacity
	stored.Status = e.Status
	r.items[e.ID] = stored
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeEventRepo) AddRegistration(_ context.Context, id string, reg domain.EventRegistration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if e.IsFull() || e.IsRegistered(reg.MembershipNumber) {
		return false, nil
	}
	e.Registrations++
	e.RegisteredMembers = append(cloneEvent(e).RegisteredMembers, reg)
	r.items[id] = e
	return true, nil
}

func (r *fakeEventRepo) RemoveRegistration(_ context.Context, id, number string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if e.Registrations <= 0 || !e.IsRegistered(number) {
		return false, nil
	}
	kept := []domain.EventRegistration{}
	for _, reg := range e.RegisteredMembers {
		if reg.MembershipNumber != number {
			kept = append(kept, reg)
		}
	}
	e.RegisteredMembers = kept
	e.Registrations--
	r.items[id] = e
	return true, nil
}

func cloneEvent(e domain.Event) domain.Event {
	e.RegisteredMembers = append([]domain.EventRegistration{}, e.RegisteredMembers...)
	return e
}

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	items map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{items: map[string]domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Username == u.Username || existing.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	r.seq++
	u.ID = fmt.Sprintf("user-%d", r.seq)
	r.items[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.items {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) GetByUsernameOrEmail(_ context.Context, username, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.items {
		if u.Username == username || u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.User{}
	for _, u := range r.items {
		u := u
		out = append(out, &u)
	}
	return out, nil
}

func (r *fakeUserRepo) SetVerified(_ context.Context, id string, verified bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Verified = verified
	r.items[id] = u
	return nil
}

type fakeRefreshTokenRepo struct {
	mu    sync.Mutex
	items map[string]domain.RefreshToken
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{items: map[string]domain.RefreshToken{}}
}

func (r *fakeRefreshTokenRepo) Create(_ context.Context, t *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[t.TokenHash] = *t
	return nil
}

func (r *fakeRefreshTokenRepo) FindByHash(_ context.Context, hash string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[hash]
	if !ok || t.Revoked {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (r *fakeRefreshTokenRepo) RevokeByHash(_ context.Context, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.items[hash]; ok {
		t.Revoked = true
		r.items[hash] = t
	}
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeAllByUserID(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for h, t := range r.items {
		if t.UserID == userID {
			t.Revoked = true
			r.items[h] = t
		}
	}
	return nil
}

type fakeArchive struct {
	keys   []string
	bodies [][]byte
}

func (a *fakeArchive) Put(_ context.Context, key string, body []byte, _ string) (string, error) {
	a.keys = append(a.keys, key)
	a.bodies = append(a.bodies, body)
	return "http://archive.local/" + key, nil
}

// fixedClock returns a settable clock for services under test.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock(t time.Time) *fixedClock { return &fixedClock{t: t} }

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type fakeArchiveIndex struct {
	mu      sync.Mutex
	records []domain.ArchiveRecord
	err     error
}

func (f *fakeArchiveIndex) RecordArchive(_ context.Context, rec domain.ArchiveRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append([]domain.ArchiveRecord{rec}, f.records...)
	return nil
}

func (f *fakeArchiveIndex) RecentArchives(_ context.Context, limit int) ([]domain.ArchiveRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if limit > len(f.records) {
		limit = len(f.records)
	}
	return append([]domain.ArchiveRecord(nil), f.records[:limit]...), nil
}

type fakeMaintenanceRepo struct {
	mu    sync.Mutex
	seq   int
	items map[string]domain.MaintenanceTask
}

func newFakeMaintenanceRepo() *fakeMaintenanceRepo {
	return &fakeMaintenanceRepo{items: map[string]domain.MaintenanceTask{}}
}

func (r *fakeMaintenanceRepo) Create(_ context.Context, t *domain.MaintenanceTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	t.ID = fmt.Sprintf("mnt-%d", r.seq)
	r.items[t.ID] = *t
	return nil
}

func (r *fakeMaintenanceRepo) GetByID(_ context.Context, id string) (*domain.MaintenanceTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (r *fakeMaintenanceRepo) List(context.Context) ([]*domain.MaintenanceTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.MaintenanceTask, 0, len(r.items))
	for _, t := range r.items {
		t := t
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledDate.Before(out[j].ScheduledDate) })
	return out, nil
}

func (r *fakeMaintenanceRepo) Update(_ context.Context, t *domain.MaintenanceTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[t.ID]; !ok {
		return domain.ErrNotFound
	}
	r.items[t.ID] = *t
	return nil
}

func (r *fakeMaintenanceRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
