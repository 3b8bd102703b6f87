package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	access "quizku_backend/internals/features/access/service"
)

const (
	PathLogin         = "/auth/login"
	PathDashboard     = "/dashboard"
	PathSignUpSuccess = "/auth/sign-up-success"
)

func hasPrefixSegment(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// decideRedirect: aturan redirect halaman, dicek berurutan. "" = lanjut.
//  1. /admin* dan bukan admin           → /dashboard
//  2. /dashboard* atau /test* tanpa login → /auth/login
//  3. /auth* sudah login (kecuali sign-up-success) → /dashboard
func decideRedirect(path string, authed, admin bool) string {
	switch {
	case hasPrefixSegment(path, "/admin") && !admin:
		return PathDashboard
	case (hasPrefixSegment(path, "/dashboard") || hasPrefixSegment(path, "/test")) && !authed:
		return PathLogin
	case hasPrefixSegment(path, "/auth") && authed && path != PathSignUpSuccess:
		return PathDashboard
	}
	return ""
}

// PageGuard dipasang setelah OptionalAuth pada route halaman.
func PageGuard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, authed := AccessStatusFrom(c)
		admin := authed && access.Can(st, access.CapManageContent)
		if to := decideRedirect(c.Path(), authed, admin); to != "" {
			return c.Redirect(to, fiber.StatusSeeOther)
		}
		return c.Next()
	}
}
