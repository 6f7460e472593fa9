package outbox_test

import (
	"testing"
	"time"

	"github.com/hwstore/order/internal/worker/outbox"
	"github.com/stretchr/testify/assert"
)

func TestNextRetryAt(t *testing.T) {
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name       string
		retryCount int
		expected   time.Time
	}{
		{name: "first_retry", retryCount: 1, expected: now.Add(60 * time.Second)},
		{name: "second_retry", retryCount: 2, expected: now.Add(120 * time.Second)},
		{name: "third_retry", retryCount: 3, expected: now.Add(240 * time.Second)},
		{name: "fifth_retry", retryCount: 5, expected: now.Add(960 * time.Second)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, outbox.NextRetryAt(tc.retryCount, now))
		})
	}
}

func TestNextRetryAt_BackoffDoubles(t *testing.T) {
	now := time.Now()
	prev := outbox.NextRetryAt(1, now).Sub(now)

	for retryCount := 2; retryCount <= 8; retryCount++ {
		cur := outbox.NextRetryAt(retryCount, now).Sub(now)
		assert.Equal(t, 2*prev, cur, "retry %d", retryCount)
		prev = cur
	}
}
