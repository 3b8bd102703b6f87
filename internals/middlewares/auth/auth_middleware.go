// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	access "quizku_backend/internals/features/access/service"
	helper "quizku_backend/internals/helpers"
)

const LocAccessStatus = "access_status"

// nowFunc bisa diganti di test
var nowFunc = time.Now

// AuthMiddleware: wajib login. Mengisi Locals user_id, raw_token, access_status
// dan Actor di UserContext (dibaca write-guard GORM).
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
		}

		userID, err := verifyAccessToken(db, tokenString)
		if err != nil {
			switch {
			case errors.Is(err, errUserInactive):
				return helper.JsonError(c, fiber.StatusForbidden, err.Error())
			case errors.Is(err, errMissingJWT):
				return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
			case errors.Is(err, errBlacklisted), errors.Is(err, errTokenParse), errors.Is(err, errTokenExpired),
				errors.Is(err, errNoUserID), errors.Is(err, errUserNotFound):
				return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
			default:
				return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
			}
		}

		helper.SetRawAccessToken(c, tokenString)
		attachIdentity(c, db, userID)
		return c.Next()
	}
}

// OptionalAuth: token valid → isi identitas; tidak ada/invalid → lanjut sebagai anonymous.
func OptionalAuth(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return c.Next()
		}
		userID, err := verifyAccessToken(db, tokenString)
		if err != nil {
			log.Printf("[INFO] OptionalAuth: %v, lanjut sebagai anonymous", err)
			return c.Next()
		}
		helper.SetRawAccessToken(c, tokenString)
		attachIdentity(c, db, userID)
		return c.Next()
	}
}

func attachIdentity(c *fiber.Ctx, db *gorm.DB, userID uuid.UUID) {
	st := access.LoadStatus(c.UserContext(), db, userID, nowFunc().UTC())
	c.Locals(helper.LocUserID, userID.String())
	c.Locals(LocAccessStatus, st)
	c.SetUserContext(access.WithActor(c.UserContext(), access.Actor{UserID: userID, Status: st}))
}

// AccessStatusFrom: status akses yang dimuat AuthMiddleware/OptionalAuth.
func AccessStatusFrom(c *fiber.Ctx) (access.AccessStatus, bool) {
	st, ok := c.Locals(LocAccessStatus).(access.AccessStatus)
	return st, ok
}
