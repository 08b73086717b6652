package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func userWithExpiry(expiry time.Time) *User {
	return &User{SubscriptionExpiry: &expiry}
}

func TestSubscriptionStateAt(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		expiry    time.Time
		wantState SubscriptionState
		wantDays  int
	}{
		{"well in the future", now.AddDate(0, 0, 30), SubscriptionStateActive, 30},
		{"eight days out", now.AddDate(0, 0, 8), SubscriptionStateActive, 8},
		{"exactly seven days", now.AddDate(0, 0, 7), SubscriptionStateExpiringSoon, 7},
		{"five days out", now.AddDate(0, 0, 5), SubscriptionStateExpiringSoon, 5},
		{"half a day rounds up", now.Add(12 * time.Hour), SubscriptionStateExpiringSoon, 1},
		{"partial day over rounds to seven", now.Add(6*24*time.Hour + time.Minute), SubscriptionStateExpiringSoon, 7},
		{"expires this instant", now, SubscriptionStateExpired, 0},
		{"half a day past", now.Add(-12 * time.Hour), SubscriptionStateExpired, 0},
		{"one day past", now.AddDate(0, 0, -1), SubscriptionStateExpired, -1},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			state, days := userWithExpiry(tc.expiry).SubscriptionStateAt(now)
			assert.Equal(t, tc.wantState, state)
			assert.Equal(t, tc.wantDays, days)
		})
	}
}

func TestSubscriptionStateAt_NoSubscription(t *testing.T) {
	t.Parallel()

	state, days := (&User{}).SubscriptionStateAt(time.Now().UTC())
	assert.Equal(t, SubscriptionStateActive, state)
	assert.Zero(t, days)
}

func TestPropertyTypeCategory(t *testing.T) {
	t.Parallel()

	_, ok := PropertyType("warehouse").Category()
	assert.False(t, ok, "unknown types map to no category")

	category, ok := PropertyTypeStudio.Category()
	assert.True(t, ok)
	assert.Equal(t, AlertCategoryApartment, category)
}
