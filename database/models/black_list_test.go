package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBlackListEffectiveAt(t *testing.T) {
	now := time.Now()
	hourMs := int64(time.Hour / time.Millisecond)

	tests := []struct {
		name      string
		blackList BlackList
		want      bool
	}{
		{"permanent_active", BlackList{Active: true, CreatedAt: now.Add(-24 * time.Hour)}, true},
		{"permanent_inactive", BlackList{Active: false, CreatedAt: now.Add(-24 * time.Hour)}, false},
		{"timed_still_running", BlackList{Active: true, CreatedAt: now.Add(-30 * time.Minute), Time: &hourMs}, true},
		{"timed_expired", BlackList{Active: true, CreatedAt: now.Add(-2 * time.Hour), Time: &hourMs}, false},
		{"timed_exact_boundary", BlackList{Active: true, CreatedAt: now.Add(-time.Hour), Time: &hourMs}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.blackList.EffectiveAt(now))
		})
	}
}

func TestBlackListExpiresAt(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	hourMs := int64(time.Hour / time.Millisecond)

	permanent := BlackList{CreatedAt: created}
	assert.Nil(t, permanent.ExpiresAt())

	timed := BlackList{CreatedAt: created, Time: &hourMs}
	exp := timed.ExpiresAt()
	assert.NotNil(t, exp)
	assert.Equal(t, created.Add(time.Hour), *exp)
}
