package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizku_backend/internals/databases/dbtest"
	access "quizku_backend/internals/features/access/service"
)

func at(t time.Time) *time.Time { return &t }

func TestEvaluate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	hour := time.Hour.Milliseconds()

	cases := []struct {
		name       string
		snap       access.AccountSnapshot
		trial      bool
		subscribed bool
		hasAccess  bool
		remaining  *int64
	}{
		{
			name: "tanpa trial dan langganan",
			snap: access.AccountSnapshot{},
		},
		{
			name:      "admin tanpa masa aktif",
			snap:      access.AccountSnapshot{IsAdmin: true},
			hasAccess: true,
		},
		{
			name:      "trial aktif",
			snap:      access.AccountSnapshot{TrialEndsAt: at(now.Add(time.Hour))},
			trial:     true,
			hasAccess: true,
			remaining: &hour,
		},
		{
			name: "trial berakhir tepat sekarang",
			snap: access.AccountSnapshot{TrialEndsAt: at(now)},
		},
		{
			name: "langganan berakhir tepat sekarang",
			snap: access.AccountSnapshot{SubscriptionEndsAt: at(now)},
		},
		{
			name: "keduanya sudah lewat",
			snap: access.AccountSnapshot{
				TrialEndsAt:        at(now.Add(-time.Hour)),
				SubscriptionEndsAt: at(now.Add(-time.Minute)),
			},
		},
		{
			name: "trial dan langganan aktif → sisa ke akhir langganan",
			snap: access.AccountSnapshot{
				TrialEndsAt:        at(now.Add(time.Minute)),
				SubscriptionEndsAt: at(now.Add(time.Hour)),
			},
			trial:      true,
			subscribed: true,
			hasAccess:  true,
			remaining:  &hour,
		},
		{
			name: "langganan aktif, trial lewat",
			snap: access.AccountSnapshot{
				TrialEndsAt:        at(now.Add(-time.Hour)),
				SubscriptionEndsAt: at(now.Add(time.Hour)),
			},
			subscribed: true,
			hasAccess:  true,
			remaining:  &hour,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := access.Evaluate(tc.snap, now)
			assert.Equal(t, tc.snap.IsAdmin, st.IsAdmin)
			assert.Equal(t, tc.trial, st.IsTrialActive)
			assert.Equal(t, tc.subscribed, st.IsSubscribed)
			assert.Equal(t, tc.hasAccess, st.HasAccess)
			if tc.remaining == nil {
				assert.Nil(t, st.TimeRemainingMs)
			} else {
				require.NotNil(t, st.TimeRemainingMs)
				assert.Equal(t, *tc.remaining, *st.TimeRemainingMs)
			}
			assert.False(t, st.Degraded)
		})
	}
}

func TestCan(t *testing.T) {
	admin := access.AccessStatus{IsAdmin: true, HasAccess: true}
	trial := access.AccessStatus{IsTrialActive: true, HasAccess: true}
	expired := access.AccessStatus{}

	for _, c := range []access.Capability{access.CapManageContent, access.CapManageUsers, access.CapManageSettings, access.CapViewStats} {
		assert.True(t, access.Can(admin, c), c)
		assert.False(t, access.Can(trial, c), c)
	}
	assert.True(t, access.Can(trial, access.CapTakeTests))
	assert.False(t, access.Can(expired, access.CapTakeTests))
	assert.False(t, access.Can(admin, access.Capability("unknown")))
	assert.True(t, access.SystemActor().Can(access.CapManageContent))
}

func TestLoadStatusFullRead(t *testing.T) {
	db := dbtest.Open(t)
	now := time.Now().UTC()
	u := dbtest.SeedUser(t, db, dbtest.TrialUntil(now.Add(time.Hour)))

	st := access.LoadStatus(context.Background(), db, u.ID, now)
	assert.True(t, st.IsTrialActive)
	assert.True(t, st.HasAccess)
	assert.False(t, st.Degraded)

	// user tidak ada → tanpa akses, bukan degraded
	st = access.LoadStatus(context.Background(), db, uuid.New(), now)
	assert.Equal(t, access.AccessStatus{}, st)
}

// Skema users tanpa subscription_ends_at: baca lengkap gagal, hanya is_admin yang dipakai.
func TestLoadStatusDegradedFallback(t *testing.T) {
	db := dbtest.OpenEmpty(t)
	require.NoError(t, db.Exec(`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		trial_ends_at DATETIME
	)`).Error)

	now := time.Now().UTC()
	member := uuid.New()
	admin := uuid.New()
	require.NoError(t, db.Exec(`INSERT INTO users (id, is_admin, trial_ends_at) VALUES (?, ?, ?), (?, ?, ?)`,
		member.String(), false, now.Add(24*time.Hour),
		admin.String(), true, nil).Error)

	t.Run("trial aktif tidak memberi akses", func(t *testing.T) {
		st := access.LoadStatus(context.Background(), db, member, now)
		assert.True(t, st.Degraded)
		assert.False(t, st.IsAdmin)
		assert.False(t, st.IsTrialActive)
		assert.False(t, st.IsSubscribed)
		assert.False(t, st.HasAccess)
		assert.Nil(t, st.TimeRemainingMs)
		assert.False(t, access.Can(st, access.CapTakeTests))
	})

	t.Run("admin tetap admin", func(t *testing.T) {
		st := access.LoadStatus(context.Background(), db, admin, now)
		assert.True(t, st.Degraded)
		assert.True(t, st.IsAdmin)
		assert.True(t, st.HasAccess)
		assert.True(t, access.Can(st, access.CapManageContent))
	})
}

func TestLoadStatusNoTable(t *testing.T) {
	db := dbtest.OpenEmpty(t)
	st := access.LoadStatus(context.Background(), db, uuid.New(), time.Now().UTC())
	assert.Equal(t, access.AccessStatus{Degraded: true}, st)
}
