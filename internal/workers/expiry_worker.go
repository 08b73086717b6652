package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/jafrydeep2/offmarket-sub000/internal/logger"
	"github.com/jafrydeep2/offmarket-sub000/internal/models"
	"github.com/jafrydeep2/offmarket-sub000/internal/repositories"
)

const expiryLeaseName = "subscription-expiry-sweep"

// LeaseStore is the mutual-exclusion primitive guarding the sweep.
// Only one instance sweeps at a time; others skip the tick.
type LeaseStore interface {
	AcquireLease(ctx context.Context, name string, ttl time.Duration) (bool, error)
	ReleaseLease(ctx context.Context, name string) error
}

// ExpiryNotifier is the slice of the notification dispatcher the sweep
// needs. The second return reports whether delivery actually happened
// or the idempotency key suppressed it.
type ExpiryNotifier interface {
	NotifySubscriptionExpiring(ctx context.Context, user *models.User, daysLeft int, dedupKey string) (bool, error)
	NotifySubscriptionExpired(ctx context.Context, user *models.User, dedupKey string) (bool, error)
}

// ExpiryWorker periodically classifies subscriber expiry dates and
// notifies users whose subscription has lapsed or is about to. Each
// (user, state, expiry date) is notified at most once per dedup window,
// so overlapping or restarted sweeps never double-send.
type ExpiryWorker struct {
	userRepo     repositories.UserRepository
	notification ExpiryNotifier
	lease        LeaseStore
	interval     time.Duration
	leaseTTL     time.Duration
}

func NewExpiryWorker(
	userRepo repositories.UserRepository,
	notification ExpiryNotifier,
	lease LeaseStore,
	interval, leaseTTL time.Duration,
) *ExpiryWorker {
	return &ExpiryWorker{
		userRepo:     userRepo,
		notification: notification,
		lease:        lease,
		interval:     interval,
		leaseTTL:     leaseTTL,
	}
}

// Start runs the sweep loop until ctx is canceled.
func (w *ExpiryWorker) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *ExpiryWorker) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// One pass at startup so a long interval does not delay the first sweep.
	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("expiry worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
	if err := w.RunOnce(ctx, time.Now().UTC()); err != nil {
		logger.WorkerLog("expiry", "sweep", err)
	}
}

// SweepResult counts what one pass did.
type SweepResult struct {
	Scanned  int
	Expiring int
	Expired  int
	Skipped  int
	Failed   int
}

// RunOnce performs a single sweep at the given reference time. It takes
// the cluster lease first and returns without work when another holder
// has it.
func (w *ExpiryWorker) RunOnce(ctx context.Context, now time.Time) error {
	if w.lease != nil {
		acquired, err := w.lease.AcquireLease(ctx, expiryLeaseName, w.leaseTTL)
		if err != nil {
			return fmt.Errorf("acquire sweep lease: %w", err)
		}
		if !acquired {
			logger.Debug("expiry sweep skipped, lease held elsewhere")
			return nil
		}
		defer func() {
			if err := w.lease.ReleaseLease(ctx, expiryLeaseName); err != nil {
				logger.WithError(err).Warn("release sweep lease failed")
			}
		}()
	}

	result, err := w.classifyAndNotify(ctx, now)
	if err != nil {
		return err
	}

	logger.Info("expiry sweep completed",
		"scanned", result.Scanned,
		"expiring", result.Expiring,
		"expired", result.Expired,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return nil
}

func (w *ExpiryWorker) classifyAndNotify(ctx context.Context, now time.Time) (*SweepResult, error) {
	users, err := w.userRepo.FindSubscribers()
	if err != nil {
		return nil, fmt.Errorf("load subscribers: %w", err)
	}

	result := &SweepResult{Scanned: len(users)}
	for i := range users {
		user := &users[i]
		state, daysLeft := user.SubscriptionStateAt(now)

		// One user failing never stops the rest of the sweep.
		switch state {
		case models.SubscriptionStateExpiringSoon:
			key := idempotencyKey(user, state)
			delivered, err := w.notification.NotifySubscriptionExpiring(ctx, user, daysLeft, key)
			if err != nil {
				logger.WithError(err).Error("expiring notification failed", "user_id", user.ID)
				result.Failed++
				continue
			}
			if delivered {
				result.Expiring++
			} else {
				result.Skipped++
			}

		case models.SubscriptionStateExpired:
			key := idempotencyKey(user, state)
			delivered, err := w.notification.NotifySubscriptionExpired(ctx, user, key)
			if err != nil {
				logger.WithError(err).Error("expired notification failed", "user_id", user.ID)
				result.Failed++
				continue
			}
			if delivered {
				result.Expired++
			} else {
				result.Skipped++
			}
		}
	}

	return result, nil
}

// idempotencyKey ties one notification to one (user, state, expiry date)
// triple. Renewing the subscription changes the date and re-arms the key.
func idempotencyKey(user *models.User, state models.SubscriptionState) string {
	expiry := ""
	if user.SubscriptionExpiry != nil {
		expiry = user.SubscriptionExpiry.UTC().Format("2006-01-02")
	}
	return fmt.Sprintf("expiry:%s:%s:%s", user.ID, state, expiry)
}
