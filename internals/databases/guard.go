package database

import (
	"errors"

	"gorm.io/gorm"

	access "quizku_backend/internals/features/access/service"
)

var ErrWriteForbidden = errors.New("write not permitted for current actor")

// tabel konten/settings → capability yang dibutuhkan untuk menulis
var guardedTables = map[string]access.Capability{
	"test_categories": access.CapManageContent,
	"tests":           access.CapManageContent,
	"test_questions":  access.CapManageContent,
	"app_settings":    access.CapManageSettings,
}

// RegisterWriteGuard: backstop di lapisan storage. Create/Update/Delete ke tabel
// di atas ditolak kecuali context statement membawa Actor yang punya capability-nya.
// Controller wajib memakai DB.WithContext(c.UserContext()).
func RegisterWriteGuard(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("quizku:write_guard_create", writeGuard); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("quizku:write_guard_update", writeGuard); err != nil {
		return err
	}
	return cb.Delete().Before("gorm:delete").Register("quizku:write_guard_delete", writeGuard)
}

func writeGuard(tx *gorm.DB) {
	if tx.Error != nil {
		return
	}
	table := tx.Statement.Table
	if table == "" && tx.Statement.Schema != nil {
		table = tx.Statement.Schema.Table
	}
	capability, ok := guardedTables[table]
	if !ok {
		return
	}
	actor, ok := access.ActorFromContext(tx.Statement.Context)
	if !ok || !actor.Can(capability) {
		_ = tx.AddError(ErrWriteForbidden)
	}
}
