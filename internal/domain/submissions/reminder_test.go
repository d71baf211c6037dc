package submissions

import (
	"testing"
	"time"
)

func pendingSub(createdAgo time.Duration, now time.Time) Submission {
	expires := now.Add(24 * time.Hour)
	return Submission{
		ID:             "sub1",
		SheetKey:       "team1",
		Month:          3,
		Year:           2025,
		Status:         StatusPendingRecipient,
		SignToken:      "tok",
		TokenExpiresAt: &expires,
		CreatedAt:      now.Add(-createdAgo),
	}
}

func TestIsReminderDue(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("due just past the cool-down with no prior reminder", func(t *testing.T) {
		sub := pendingSub(48*time.Hour+time.Second, now)
		if !IsReminderDue(sub, now, DefaultReminderCooldown) {
			t.Fatal("expected due")
		}
	})

	t.Run("not due when a reminder went out an hour ago", func(t *testing.T) {
		sub := pendingSub(48*time.Hour+time.Second, now)
		last := now.Add(-time.Hour)
		sub.LastReminderAt = &last
		if IsReminderDue(sub, now, DefaultReminderCooldown) {
			t.Fatal("expected not due inside cool-down")
		}
	})

	t.Run("due again once the cool-down since the last reminder passed", func(t *testing.T) {
		sub := pendingSub(10*24*time.Hour, now)
		last := now.Add(-49 * time.Hour)
		sub.LastReminderAt = &last
		if !IsReminderDue(sub, now, DefaultReminderCooldown) {
			t.Fatal("expected due")
		}
	})

	t.Run("not due right after creation", func(t *testing.T) {
		sub := pendingSub(time.Minute, now)
		if IsReminderDue(sub, now, DefaultReminderCooldown) {
			t.Fatal("expected not due")
		}
	})

	t.Run("not due with an expired token", func(t *testing.T) {
		sub := pendingSub(72*time.Hour, now)
		past := now.Add(-time.Minute)
		sub.TokenExpiresAt = &past
		if IsReminderDue(sub, now, DefaultReminderCooldown) {
			t.Fatal("expected not due with expired token")
		}
	})

	t.Run("not due without a token expiry", func(t *testing.T) {
		sub := pendingSub(72*time.Hour, now)
		sub.TokenExpiresAt = nil
		if IsReminderDue(sub, now, DefaultReminderCooldown) {
			t.Fatal("expected not due without expiry")
		}
	})

	t.Run("only pending-recipient submissions qualify", func(t *testing.T) {
		for _, status := range []string{StatusPendingEmployees, StatusCompleted} {
			sub := pendingSub(72*time.Hour, now)
			sub.Status = status
			if IsReminderDue(sub, now, DefaultReminderCooldown) {
				t.Fatalf("expected %s not due", status)
			}
		}
	})
}
