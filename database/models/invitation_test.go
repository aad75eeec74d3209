package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvitationUsableAt(t *testing.T) {
	now := time.Now()
	hourMs := int64(time.Hour / time.Millisecond)
	zero := 0
	one := 1

	tests := []struct {
		name       string
		invitation Invitation
		want       bool
	}{
		{"unlimited", Invitation{CreatedAt: now.Add(-time.Hour)}, true},
		{"uses_left", Invitation{CreatedAt: now, NumOfInvits: &one}, true},
		{"uses_exhausted", Invitation{CreatedAt: now, NumOfInvits: &zero}, false},
		{"time_still_running", Invitation{CreatedAt: now.Add(-30 * time.Minute), Time: &hourMs}, true},
		{"time_expired", Invitation{CreatedAt: now.Add(-2 * time.Hour), Time: &hourMs}, false},
		{"expired_with_uses_left", Invitation{CreatedAt: now.Add(-2 * time.Hour), Time: &hourMs, NumOfInvits: &one}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.invitation.UsableAt(now))
		})
	}
}
