package services

import (
	"context"
	"sync"

	"github.com/jafrydeep2/offmarket-sub000/internal/logger"
	"github.com/jafrydeep2/offmarket-sub000/internal/models"
	"github.com/jafrydeep2/offmarket-sub000/internal/repositories"
	"github.com/jafrydeep2/offmarket-sub000/pkg/apperrors"
)

// FanoutReport summarizes one alert fan-out pass for a new listing.
type FanoutReport struct {
	Evaluated  int
	Matched    int
	Notified   int
	Suppressed int
	Failed     int
}

// FanoutService walks every active alert when a listing is published and
// notifies the owners of the alerts it satisfies. Evaluation runs on a
// bounded worker pool; one slow or failing recipient never stalls or
// aborts the rest of the batch.
type FanoutService interface {
	OnPropertyPublished(ctx context.Context, property *models.Property) (*FanoutReport, error)
}

type FanoutServiceImpl struct {
	alertRepo    repositories.AlertRepository
	userRepo     repositories.UserRepository
	matching     MatchingService
	notification NotificationService
	workers      int
}

func NewFanoutService(
	alertRepo repositories.AlertRepository,
	userRepo repositories.UserRepository,
	matching MatchingService,
	notification NotificationService,
	workers int,
) FanoutService {
	if workers <= 0 {
		workers = 1
	}
	return &FanoutServiceImpl{
		alertRepo:    alertRepo,
		userRepo:     userRepo,
		matching:     matching,
		notification: notification,
		workers:      workers,
	}
}

type fanoutOutcome struct {
	matched    bool
	notified   bool
	suppressed bool
	failed     bool
}

func (s *FanoutServiceImpl) OnPropertyPublished(ctx context.Context, property *models.Property) (*FanoutReport, error) {
	if !property.IsPublished {
		return &FanoutReport{}, nil
	}

	alerts, err := s.alertRepo.FindAllActive()
	if err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}

	report := &FanoutReport{Evaluated: len(alerts)}
	if len(alerts) == 0 {
		return report, nil
	}

	outcomes := make([]fanoutOutcome, len(alerts))
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup

	for i := range alerts {
		if ctx.Err() != nil {
			// Stop launching new work on cancel; in-flight items drain below.
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes[idx] = s.processAlert(ctx, &alerts[idx], property)
		}(i)
	}
	wg.Wait()

	for _, o := range outcomes {
		if o.matched {
			report.Matched++
		}
		if o.notified {
			report.Notified++
		}
		if o.suppressed {
			report.Suppressed++
		}
		if o.failed {
			report.Failed++
		}
	}

	logger.Info("alert fan-out completed",
		"property_id", property.ID,
		"evaluated", report.Evaluated,
		"matched", report.Matched,
		"notified", report.Notified,
		"suppressed", report.Suppressed,
		"failed", report.Failed,
	)

	return report, nil
}

func (s *FanoutServiceImpl) processAlert(ctx context.Context, alert *models.Alert, property *models.Property) fanoutOutcome {
	result := s.matching.Evaluate(alert, property)
	if !result.Matched {
		logger.Debug("alert did not match",
			"alert_id", alert.ID,
			"property_id", property.ID,
			"reason", result.Reason,
		)
		return fanoutOutcome{}
	}

	outcome := fanoutOutcome{matched: true}

	user, err := s.userRepo.FindByID(alert.UserID)
	if err != nil {
		logger.WithError(err).Error("fan-out recipient lookup failed", "alert_id", alert.ID, "user_id", alert.UserID)
		outcome.failed = true
		return outcome
	}
	if !user.IsActive {
		outcome.suppressed = true
		return outcome
	}

	delivered, err := s.notification.NotifyPropertyMatch(ctx, user, property, alert)
	if err != nil {
		logger.WithError(err).Error("fan-out notification failed", "alert_id", alert.ID, "user_id", user.ID)
		outcome.failed = true
		return outcome
	}
	if delivered {
		outcome.notified = true
	} else {
		outcome.suppressed = true
	}
	return outcome
}
