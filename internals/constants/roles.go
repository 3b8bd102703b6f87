package constants

import "fmt"

// Template pesan error hak akses
const (
	ErrOnlyAdminsCanAccess = "❌ Hanya admin yang boleh mengakses fitur %s."
	ErrAccessExpired       = "Akses habis. Aktifkan langganan untuk mengerjakan test."
)

// RoleErrorAdmin: pesan 403 untuk fitur admin
func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}
