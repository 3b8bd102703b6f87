package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================================================
   Evaluator (pure)
========================================================= */

// AccountSnapshot: field users yang menentukan hak akses
type AccountSnapshot struct {
	IsAdmin            bool       `gorm:"column:is_admin"`
	TrialEndsAt        *time.Time `gorm:"column:trial_ends_at"`
	SubscriptionEndsAt *time.Time `gorm:"column:subscription_ends_at"`
}

type AccessStatus struct {
	IsAdmin         bool   `json:"is_admin"`
	IsTrialActive   bool   `json:"is_trial_active"`
	IsSubscribed    bool   `json:"is_subscribed"`
	HasAccess       bool   `json:"has_access"`
	TimeRemainingMs *int64 `json:"time_remaining_ms"`
	// true kalau record user tidak bisa dibaca lengkap dan hanya is_admin yang dipakai
	Degraded bool `json:"degraded,omitempty"`
}

// Evaluate menghitung status akses pada waktu now.
// Trial/langganan aktif hanya kalau end-nya ada dan strictly setelah now.
// Kalau keduanya aktif, sisa waktu dihitung ke akhir langganan.
func Evaluate(a AccountSnapshot, now time.Time) AccessStatus {
	st := AccessStatus{
		IsAdmin:       a.IsAdmin,
		IsTrialActive: a.TrialEndsAt != nil && a.TrialEndsAt.After(now),
		IsSubscribed:  a.SubscriptionEndsAt != nil && a.SubscriptionEndsAt.After(now),
	}
	st.HasAccess = st.IsAdmin || st.IsTrialActive || st.IsSubscribed

	var end *time.Time
	switch {
	case st.IsSubscribed:
		end = a.SubscriptionEndsAt
	case st.IsTrialActive:
		end = a.TrialEndsAt
	}
	if end != nil {
		ms := end.Sub(now).Milliseconds()
		st.TimeRemainingMs = &ms
	}
	return st
}

/* =========================================================
   Capability check
========================================================= */

type Capability string

const (
	CapManageContent  Capability = "manage_content"
	CapManageUsers    Capability = "manage_users"
	CapManageSettings Capability = "manage_settings"
	CapViewStats      Capability = "view_stats"
	CapTakeTests      Capability = "take_tests"
)

// Can adalah satu-satunya titik keputusan otorisasi (API, halaman, write-guard DB).
func Can(st AccessStatus, c Capability) bool {
	switch c {
	case CapManageContent, CapManageUsers, CapManageSettings, CapViewStats:
		return st.IsAdmin
	case CapTakeTests:
		return st.HasAccess
	default:
		return false
	}
}

/* =========================================================
   Loader (1 query + fallback is_admin saja)
========================================================= */

// LoadStatus membaca users.id = userID. Gagal baca lengkap → fallback is_admin
// saja (Degraded). Gagal juga → semua false. Tidak pernah memberi akses saat error.
func LoadStatus(ctx context.Context, db *gorm.DB, userID uuid.UUID, now time.Time) AccessStatus {
	var snap AccountSnapshot
	err := db.WithContext(ctx).
		Table("users").
		Select("is_admin, trial_ends_at, subscription_ends_at").
		Where("id = ?", userID).
		Take(&snap).Error
	if err == nil {
		return Evaluate(snap, now)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return AccessStatus{}
	}
	log.Printf("[ACCESS] read account %s gagal, fallback is_admin: %v", userID, err)

	var row struct {
		IsAdmin bool `gorm:"column:is_admin"`
	}
	if err := db.WithContext(ctx).
		Table("users").
		Select("is_admin").
		Where("id = ?", userID).
		Take(&row).Error; err != nil {
		log.Printf("[ACCESS] fallback is_admin %s gagal: %v", userID, err)
		return AccessStatus{Degraded: true}
	}
	return AccessStatus{IsAdmin: row.IsAdmin, HasAccess: row.IsAdmin, Degraded: true}
}

/* =========================================================
   Actor di context (dibaca write-guard GORM)
========================================================= */

type Actor struct {
	UserID uuid.UUID
	Status AccessStatus
	System bool // seeder / job internal
}

func (a Actor) Can(c Capability) bool {
	return a.System || Can(a.Status, c)
}

func SystemActor() Actor { return Actor{System: true} }

type actorKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}
