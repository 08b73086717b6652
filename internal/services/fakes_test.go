package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jafrydeep2/offmarket-sub000/internal/models"
	"github.com/jafrydeep2/offmarket-sub000/internal/pkg/email"
	"github.com/jafrydeep2/offmarket-sub000/internal/repositories"
)

// ---------------------------------------------------------------------------
// In-memory notification repository
// ---------------------------------------------------------------------------

type fakeNotificationRepo struct {
	mu       sync.Mutex
	seq      int
	stored   []*models.Notification
	failFor  map[string]error // userID -> error on Create
	createMu sync.Mutex

	// concurrency accounting for fan-out tests
	inFlight    int
	maxInFlight int
	createDelay time.Duration
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{failFor: make(map[string]error)}
}

func (f *fakeNotificationRepo) Create(n *models.Notification) error {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	delay := f.createDelay
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight--

	if n.UserID != nil {
		if err, ok := f.failFor[*n.UserID]; ok {
			return err
		}
	}

	f.seq++
	n.ID = fmt.Sprintf("n-%d", f.seq)
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	f.stored = append(f.stored, n)
	return nil
}

func (f *fakeNotificationRepo) CreateBatch(notifications []*models.Notification) error {
	for _, n := range notifications {
		if err := f.Create(n); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeNotificationRepo) FindByID(id string) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.stored {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, repositories.ErrNotificationNotFound
}

func (f *fakeNotificationRepo) FindByCriteria(criteria repositories.NotificationCriteria) ([]models.Notification, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, n := range f.stored {
		if criteria.UserID != nil && (n.UserID == nil || *n.UserID != *criteria.UserID) {
			continue
		}
		if criteria.AdminID != nil && (n.AdminID == nil || *n.AdminID != *criteria.AdminID) {
			continue
		}
		if criteria.IsRead != nil && n.IsRead != *criteria.IsRead {
			continue
		}
		out = append(out, *n)
	}
	return out, int64(len(out)), nil
}

func (f *fakeNotificationRepo) FindSince(since time.Time) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, n := range f.stored {
		if !n.CreatedAt.Before(since) {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkAsRead(id string, readAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.stored {
		if n.ID == id {
			n.IsRead = true
			n.ReadAt = &readAt
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (f *fakeNotificationRepo) MarkAsUnread(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.stored {
		if n.ID == id {
			n.IsRead = false
			n.ReadAt = nil
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (f *fakeNotificationRepo) MarkAllAsRead(userID, adminID *string, readAt time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var affected int64
	for _, n := range f.stored {
		if userID != nil && (n.UserID == nil || *n.UserID != *userID) {
			continue
		}
		if adminID != nil && (n.AdminID == nil || *n.AdminID != *adminID) {
			continue
		}
		if !n.IsRead {
			n.IsRead = true
			n.ReadAt = &readAt
			affected++
		}
	}
	return affected, nil
}

func (f *fakeNotificationRepo) CountUnread(userID, adminID *string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.stored {
		if n.IsRead {
			continue
		}
		if userID != nil && (n.UserID == nil || *n.UserID != *userID) {
			continue
		}
		if adminID != nil && (n.AdminID == nil || *n.AdminID != *adminID) {
			continue
		}
		count++
	}
	return count, nil
}

func (f *fakeNotificationRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.stored {
		if n.ID == id {
			f.stored = append(f.stored[:i], f.stored[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (f *fakeNotificationRepo) DeleteMany(ids []string) (int64, error) {
	var affected int64
	for _, id := range ids {
		if err := f.Delete(id); err == nil {
			affected++
		}
	}
	return affected, nil
}

func (f *fakeNotificationRepo) DeleteAllForRecipient(userID, adminID *string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []*models.Notification
	var affected int64
	for _, n := range f.stored {
		match := true
		if userID != nil && (n.UserID == nil || *n.UserID != *userID) {
			match = false
		}
		if adminID != nil && (n.AdminID == nil || *n.AdminID != *adminID) {
			match = false
		}
		if match {
			affected++
		} else {
			kept = append(kept, n)
		}
	}
	f.stored = kept
	return affected, nil
}

func (f *fakeNotificationRepo) DeleteOlderThan(cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []*models.Notification
	var affected int64
	for _, n := range f.stored {
		if n.CreatedAt.Before(cutoff) {
			affected++
		} else {
			kept = append(kept, n)
		}
	}
	f.stored = kept
	return affected, nil
}

func (f *fakeNotificationRepo) all() []*models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Notification, len(f.stored))
	copy(out, f.stored)
	return out
}

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == "" {
		user.ID = fmt.Sprintf("u-%d", len(f.users)+1)
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) FindAdmins() ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.users {
		if u.Role == models.UserRoleAdmin && u.IsActive {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) FindSubscribers() ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.users {
		if u.SubscriptionExpiry != nil && u.IsActive {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) UpdatePreferences(userID string, prefs models.NotificationPreferences) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Preferences = prefs
	return nil
}

// ---------------------------------------------------------------------------
// In-memory alert repository
// ---------------------------------------------------------------------------

type fakeAlertRepo struct {
	mu     sync.Mutex
	seq    int
	alerts map[string]*models.Alert
}

func newFakeAlertRepo(alerts ...*models.Alert) *fakeAlertRepo {
	f := &fakeAlertRepo{alerts: make(map[string]*models.Alert)}
	for _, a := range alerts {
		f.seq++
		if a.ID == "" {
			a.ID = fmt.Sprintf("a-%d", f.seq)
		}
		f.alerts[a.ID] = a
	}
	return f
}

func (f *fakeAlertRepo) Create(alert *models.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	alert.ID = fmt.Sprintf("a-%d", f.seq)
	f.alerts[alert.ID] = alert
	return nil
}

func (f *fakeAlertRepo) FindByID(id string) (*models.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.alerts[id]; ok {
		return a, nil
	}
	return nil, repositories.ErrAlertNotFound
}

func (f *fakeAlertRepo) FindByCriteria(criteria repositories.AlertCriteria) ([]models.Alert, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Alert
	for _, a := range f.alerts {
		if criteria.UserID != nil && a.UserID != *criteria.UserID {
			continue
		}
		if criteria.IsActive != nil && a.IsActive != *criteria.IsActive {
			continue
		}
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAlertRepo) FindAllActive() ([]models.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Alert
	for _, a := range f.alerts {
		if a.IsActive {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAlertRepo) Update(alert *models.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.alerts[alert.ID]; !ok {
		return repositories.ErrAlertNotFound
	}
	f.alerts[alert.ID] = alert
	return nil
}

func (f *fakeAlertRepo) SetActive(id string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.alerts[id]
	if !ok {
		return repositories.ErrAlertNotFound
	}
	a.IsActive = active
	return nil
}

func (f *fakeAlertRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.alerts[id]; !ok {
		return repositories.ErrAlertNotFound
	}
	delete(f.alerts, id)
	return nil
}

func (f *fakeAlertRepo) CountByUser(userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, a := range f.alerts {
		if a.UserID == userID {
			count++
		}
	}
	return count, nil
}

// ---------------------------------------------------------------------------
// Recording email sender
// ---------------------------------------------------------------------------

type sentMail struct {
	to      string
	subject string
	kind    string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

var errSMTP = errors.New("smtp connection refused")

func (f *fakeSender) record(to, subject, kind string) error {
	if f.fail {
		return errSMTP
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{to: to, subject: subject, kind: kind})
	return nil
}

func (f *fakeSender) Send(e *email.Email) error {
	return f.record(e.To[0], e.Subject, "raw")
}

func (f *fakeSender) SendTemplate(to []string, subject, templateName string, _ interface{}) error {
	return f.record(to[0], subject, templateName)
}

func (f *fakeSender) SendNotification(to, subject, _ string) error {
	return f.record(to, subject, "notification")
}

func (f *fakeSender) SendPropertyMatch(to, _, _, _, _, _ string) error {
	return f.record(to, "property match", "property_match")
}

func (f *fakeSender) SendSubscriptionExpiring(to, _ string, _ int) error {
	return f.record(to, "subscription expiring", "subscription_expiring")
}

func (f *fakeSender) SendSubscriptionExpired(to, _ string) error {
	return f.record(to, "subscription expired", "subscription_expired")
}

func (f *fakeSender) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// ---------------------------------------------------------------------------
// In-memory property repository
// ---------------------------------------------------------------------------

type fakePropertyRepo struct {
	mu         sync.Mutex
	seq        int
	properties map[string]*models.Property
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{properties: make(map[string]*models.Property)}
}

func (f *fakePropertyRepo) Create(p *models.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	if p.ID == "" {
		p.ID = fmt.Sprintf("p-%d", f.seq)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	cp := *p
	f.properties[p.ID] = &cp
	return nil
}

func (f *fakePropertyRepo) FindByID(id string) (*models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.properties[id]
	if !ok {
		return nil, repositories.ErrPropertyNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePropertyRepo) FindByCriteria(repositories.PropertyCriteria) ([]models.Property, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Property
	for _, p := range f.properties {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (f *fakePropertyRepo) Update(p *models.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.properties[p.ID]; !ok {
		return repositories.ErrPropertyNotFound
	}
	cp := *p
	f.properties[p.ID] = &cp
	return nil
}

func (f *fakePropertyRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.properties, id)
	return nil
}

func (f *fakePropertyRepo) CountCreatedSince(since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, p := range f.properties {
		if !p.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// ---------------------------------------------------------------------------
// Recording fan-out coordinator
// ---------------------------------------------------------------------------

type fakeFanout struct {
	calls chan string
}

func newFakeFanout() *fakeFanout {
	return &fakeFanout{calls: make(chan string, 8)}
}

func (f *fakeFanout) OnPropertyPublished(_ context.Context, p *models.Property) (*FanoutReport, error) {
	f.calls <- p.ID
	return &FanoutReport{}, nil
}
