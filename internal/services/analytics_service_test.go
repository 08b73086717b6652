package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jafrydeep2/offmarket-sub000/internal/models"
	"github.com/jafrydeep2/offmarket-sub000/internal/repositories"
)

type fakePropertyCounter struct {
	count int64
}

func (f *fakePropertyCounter) Create(*models.Property) error { return nil }
func (f *fakePropertyCounter) FindByID(string) (*models.Property, error) {
	return nil, repositories.ErrPropertyNotFound
}
func (f *fakePropertyCounter) FindByCriteria(repositories.PropertyCriteria) ([]models.Property, int64, error) {
	return nil, 0, nil
}
func (f *fakePropertyCounter) Update(*models.Property) error { return nil }
func (f *fakePropertyCounter) Delete(string) error           { return nil }
func (f *fakePropertyCounter) CountCreatedSince(time.Time) (int64, error) {
	return f.count, nil
}

func seedNotification(repo *fakeNotificationRepo, userID string, createdAt time.Time, cause string, kind models.NotificationKind, read bool) {
	n := &models.Notification{
		Type:  cause,
		Kind:  kind,
		Title: "t",
	}
	if userID != "" {
		n.UserID = &userID
	} else {
		adminID := "adm-1"
		n.AdminID = &adminID
	}
	n.IsRead = read
	n.CreatedAt = createdAt
	_ = repo.Create(n)
}

func TestNotificationStats_DenseDayBuckets(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	repo := newFakeNotificationRepo()

	// two events today, one three days ago, nothing else
	seedNotification(repo, "u-1", now.Add(-1*time.Hour), CausePropertyMatch, models.NotificationKindInfo, true)
	seedNotification(repo, "u-1", now.Add(-2*time.Hour), CausePropertyMatch, models.NotificationKindInfo, false)
	seedNotification(repo, "u-2", now.AddDate(0, 0, -3), CauseSubscriptionExpiring, models.NotificationKindWarning, false)

	svc := NewAnalyticsService(repo, &fakePropertyCounter{})
	stats, err := svc.NotificationStats(7, now)
	require.NoError(t, err)

	assert.Equal(t, 7, stats.WindowDays)
	require.Len(t, stats.ByDay, 7, "every day of the window appears")

	assert.Equal(t, "2026-03-04", stats.ByDay[0].Date)
	assert.Equal(t, "2026-03-10", stats.ByDay[6].Date)

	var total int64
	zeroDays := 0
	for _, b := range stats.ByDay {
		total += b.Count
		if b.Count == 0 {
			zeroDays++
		}
	}
	assert.Equal(t, int64(3), total)
	assert.Equal(t, 5, zeroDays, "empty days still present with zero count")

	assert.Equal(t, int64(2), stats.ByDay[6].Count)
	assert.Equal(t, int64(1), stats.ByDay[6].Read)
	assert.Equal(t, int64(1), stats.ByDay[6].Unread)
	assert.Equal(t, int64(1), stats.ByDay[3].Count)
	assert.Equal(t, int64(0), stats.ByDay[3].Read)
	assert.Equal(t, int64(1), stats.ByDay[3].Unread)

	assert.Equal(t, int64(1), stats.Read)
	assert.Equal(t, int64(2), stats.Unread)
}

func TestNotificationStats_KindsTypesAndEngagement(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeNotificationRepo()

	seedNotification(repo, "u-1", now, CausePropertyMatch, models.NotificationKindInfo, true)
	seedNotification(repo, "u-2", now, CausePropertyMatch, models.NotificationKindInfo, false)
	seedNotification(repo, "u-3", now, CauseSubscriptionExpired, models.NotificationKindError, false)
	seedNotification(repo, "", now, CausePropertyInquiry, models.NotificationKindInfo, false) // admin feed

	svc := NewAnalyticsService(repo, &fakePropertyCounter{})
	stats, err := svc.NotificationStats(7, now)
	require.NoError(t, err)

	// all four kinds present, zero-valued ones included
	require.Len(t, stats.ByKind, 4)
	assert.Equal(t, int64(3), stats.ByKind[string(models.NotificationKindInfo)])
	assert.Equal(t, int64(1), stats.ByKind[string(models.NotificationKindError)])
	assert.Equal(t, int64(0), stats.ByKind[string(models.NotificationKindSuccess)])
	assert.Equal(t, int64(0), stats.ByKind[string(models.NotificationKindWarning)])

	require.NotEmpty(t, stats.TopTypes)
	assert.Equal(t, CausePropertyMatch, stats.TopTypes[0].Type)
	assert.Equal(t, int64(2), stats.TopTypes[0].Count)

	// engagement covers user-addressed rows only: 1 of 3 read
	assert.Equal(t, int64(3), stats.UserEngagement.TotalRecipients)
	assert.Equal(t, int64(1), stats.UserEngagement.ReadCount)
	assert.Equal(t, 33, stats.UserEngagement.ReadRatePercent)
}

func TestNotificationStats_ZeroActivity(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := NewAnalyticsService(newFakeNotificationRepo(), &fakePropertyCounter{})

	stats, err := svc.NotificationStats(14, now)
	require.NoError(t, err)

	assert.Equal(t, int64(0), stats.Total)
	assert.Equal(t, int64(0), stats.Read)
	assert.Equal(t, int64(0), stats.Unread)
	assert.Len(t, stats.ByDay, 14)
	require.Len(t, stats.ByKind, 4)
	// zero recipients must read as zero percent, not a division error
	assert.Equal(t, 0, stats.UserEngagement.ReadRatePercent)
}

func TestNotificationStats_RejectsEmptyWindow(t *testing.T) {
	t.Parallel()

	svc := NewAnalyticsService(newFakeNotificationRepo(), &fakePropertyCounter{})
	_, err := svc.NotificationStats(0, time.Now().UTC())
	assert.Error(t, err)
}

func TestPlatformStats(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeNotificationRepo()
	seedNotification(repo, "u-1", now, CausePropertyMatch, models.NotificationKindInfo, true)
	seedNotification(repo, "u-2", now, CausePropertyMatch, models.NotificationKindInfo, false)

	svc := NewAnalyticsService(repo, &fakePropertyCounter{count: 9})
	stats, err := svc.PlatformStats(30, now)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalNotifications)
	assert.Equal(t, int64(1), stats.UnreadTotal)
	assert.Equal(t, int64(9), stats.PropertiesCreated)
}
