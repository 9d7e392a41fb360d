package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from SubscriptionStatus
		to   SubscriptionStatus
		ok   bool
	}{
		{SubscriptionStatusPending, SubscriptionStatusActive, true},
		{SubscriptionStatusPending, SubscriptionStatusCancelled, true},
		{SubscriptionStatusPending, SubscriptionStatusExpired, false},
		{SubscriptionStatusActive, SubscriptionStatusExpired, true},
		{SubscriptionStatusActive, SubscriptionStatusCancelled, true},
		{SubscriptionStatusActive, SubscriptionStatusPending, false},
		{SubscriptionStatusExpired, SubscriptionStatusActive, false},
		{SubscriptionStatusExpired, SubscriptionStatusCancelled, false},
		{SubscriptionStatusCancelled, SubscriptionStatusActive, false},
		{SubscriptionStatusCancelled, SubscriptionStatusPending, false},
		// Переход в тот же статус всегда допустим
		{SubscriptionStatusActive, SubscriptionStatusActive, true},
		{SubscriptionStatusExpired, SubscriptionStatusExpired, true},
	}

	for _, tt := range tests {
		got := ValidTransition(tt.from, tt.to)
		assert.Equal(t, tt.ok, got, "переход %s -> %s", tt.from, tt.to)
	}
}

func TestSubscription_IsRenewal(t *testing.T) {
	t.Parallel()

	first := Subscription{RenewalCount: 1}
	assert.False(t, first.IsRenewal(), "первая подписка абонента - не продление")

	renewal := Subscription{RenewalCount: 2}
	assert.True(t, renewal.IsRenewal())
}
