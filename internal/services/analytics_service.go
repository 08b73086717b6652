package services

import (
	"sort"
	"time"

	"github.com/jafrydeep2/offmarket-sub000/internal/models"
	"github.com/jafrydeep2/offmarket-sub000/internal/repositories"
	"github.com/jafrydeep2/offmarket-sub000/internal/services/dto"
	"github.com/jafrydeep2/offmarket-sub000/pkg/apperrors"
)

const topTypesLimit = 5

// AnalyticsService aggregates notification activity over a trailing
// window of calendar days. All bucketing is done in UTC so a day's
// counts do not shift with the server's timezone.
type AnalyticsService interface {
	NotificationStats(windowDays int, now time.Time) (*dto.NotificationStatsResponse, error)
	PlatformStats(windowDays int, now time.Time) (*dto.PlatformStatsResponse, error)
}

type AnalyticsServiceImpl struct {
	notificationRepo repositories.NotificationRepository
	propertyRepo     repositories.PropertyRepository
}

func NewAnalyticsService(
	notificationRepo repositories.NotificationRepository,
	propertyRepo repositories.PropertyRepository,
) AnalyticsService {
	return &AnalyticsServiceImpl{
		notificationRepo: notificationRepo,
		propertyRepo:     propertyRepo,
	}
}

// windowStart returns midnight UTC of the first day in a trailing
// window that includes today.
func windowStart(windowDays int, now time.Time) time.Time {
	day := now.UTC().Truncate(24 * time.Hour)
	return day.AddDate(0, 0, -(windowDays - 1))
}

func (s *AnalyticsServiceImpl) NotificationStats(windowDays int, now time.Time) (*dto.NotificationStatsResponse, error) {
	if windowDays < 1 {
		return nil, apperrors.NewBadRequestError("window must be at least 1 day")
	}

	start := windowStart(windowDays, now)
	notifications, err := s.notificationRepo.FindSince(start)
	if err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}

	// Dense day buckets: every day of the window appears, zero or not.
	byDay := make([]dto.DayBucket, windowDays)
	dayIndex := make(map[string]int, windowDays)
	for i := 0; i < windowDays; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		byDay[i] = dto.DayBucket{Date: date}
		dayIndex[date] = i
	}

	// Every kind appears in the breakdown, zero-valued or not.
	byKind := map[string]int64{
		string(models.NotificationKindInfo):    0,
		string(models.NotificationKindSuccess): 0,
		string(models.NotificationKindWarning): 0,
		string(models.NotificationKindError):   0,
	}
	typeCounts := make(map[string]int64)
	var read, unread int64
	var userTotal, userRead int64

	for i := range notifications {
		n := &notifications[i]

		date := n.CreatedAt.UTC().Format("2006-01-02")
		if idx, ok := dayIndex[date]; ok {
			byDay[idx].Count++
			if n.IsRead {
				byDay[idx].Read++
			} else {
				byDay[idx].Unread++
			}
		}

		if n.IsRead {
			read++
		} else {
			unread++
		}

		byKind[string(n.Kind)]++
		typeCounts[n.Type]++

		if n.UserID != nil {
			userTotal++
			if n.IsRead {
				userRead++
			}
		}
	}

	topTypes := make([]dto.TypeCount, 0, len(typeCounts))
	for t, c := range typeCounts {
		topTypes = append(topTypes, dto.TypeCount{Type: t, Count: c})
	}
	sort.Slice(topTypes, func(i, j int) bool {
		if topTypes[i].Count != topTypes[j].Count {
			return topTypes[i].Count > topTypes[j].Count
		}
		return topTypes[i].Type < topTypes[j].Type
	})
	if len(topTypes) > topTypesLimit {
		topTypes = topTypes[:topTypesLimit]
	}

	engagement := dto.UserEngagement{
		TotalRecipients: userTotal,
		ReadCount:       userRead,
	}
	// Zero recipients reads as zero engagement, never a division error.
	if userTotal > 0 {
		engagement.ReadRatePercent = int(float64(userRead)/float64(userTotal)*100 + 0.5)
	}

	return &dto.NotificationStatsResponse{
		WindowDays:     windowDays,
		Total:          int64(len(notifications)),
		Read:           read,
		Unread:         unread,
		ByDay:          byDay,
		ByKind:         byKind,
		TopTypes:       topTypes,
		UserEngagement: engagement,
	}, nil
}

func (s *AnalyticsServiceImpl) PlatformStats(windowDays int, now time.Time) (*dto.PlatformStatsResponse, error) {
	if windowDays < 1 {
		return nil, apperrors.NewBadRequestError("window must be at least 1 day")
	}

	start := windowStart(windowDays, now)
	notifications, err := s.notificationRepo.FindSince(start)
	if err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}

	var unread int64
	for i := range notifications {
		if !notifications[i].IsRead {
			unread++
		}
	}

	propertiesCreated, err := s.propertyRepo.CountCreatedSince(start)
	if err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}

	return &dto.PlatformStatsResponse{
		TotalNotifications: int64(len(notifications)),
		UnreadTotal:        unread,
		PropertiesCreated:  propertiesCreated,
		WindowDays:         windowDays,
	}, nil
}
