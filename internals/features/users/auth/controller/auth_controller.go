package controller

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"quizku_backend/internals/configs"
	"quizku_backend/internals/features/users/auth/dto"
	"quizku_backend/internals/features/users/auth/service"
	userDTO "quizku_backend/internals/features/users/user/dto"
	helper "quizku_backend/internals/helpers"
	authMiddleware "quizku_backend/internals/middlewares/auth"
)

type AuthController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Now      func() time.Time
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{
		DB:       db,
		Validate: helper.NewValidator(),
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

func writeAuthError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidRefresh),
		errors.Is(err, service.ErrInvalidGoogleToken):
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrAccountInactive):
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrMissingSecret):
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	default:
		log.Println("[ERROR] auth:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}
}

// SetAuthCookies dipakai juga oleh halaman login.
func SetAuthCookies(c *fiber.Ctx, pair service.TokenPair) {
	secure := configs.GetEnvBool("COOKIE_SECURE", true)
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    pair.AccessToken,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		Expires:  pair.AccessExpiresAt,
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    pair.RefreshToken,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		Expires:  pair.RefreshExpiresAt,
	})
}

func ClearAuthCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Path:     "/",
			Expires:  expired,
			MaxAge:   -1,
		})
	}
}

func (ac *AuthController) respondWithTokens(c *fiber.Ctx, msg string, u userDTO.UserResponse, pair service.TokenPair) error {
	SetAuthCookies(c, pair)
	return helper.JsonOK(c, msg, fiber.Map{
		"user":          u,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

// POST /api/auth/register
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if ok, err := helper.BindAndValidate(c, ac.Validate, &req); !ok {
		return err
	}
	user, err := service.RegisterUser(c.UserContext(), ac.DB, req, ac.Now())
	if err != nil {
		return writeAuthError(c, err)
	}
	return helper.JsonCreated(c, "Registration successful", userDTO.FromModel(user))
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if ok, err := helper.BindAndValidate(c, ac.Validate, &req); !ok {
		return err
	}
	user, err := service.Authenticate(c.UserContext(), ac.DB, req.Identifier, req.Password)
	if err != nil {
		return writeAuthError(c, err)
	}
	pair, err := service.IssueTokens(c.UserContext(), ac.DB, *user, c.Get(fiber.HeaderUserAgent), c.IP(), ac.Now())
	if err != nil {
		return writeAuthError(c, err)
	}
	return ac.respondWithTokens(c, "Login berhasil", userDTO.FromModel(user), pair)
}

// POST /api/auth/login-google
func (ac *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if ok, err := helper.BindAndValidate(c, ac.Validate, &req); !ok {
		return err
	}
	user, err := service.LoginWithGoogle(c.UserContext(), ac.DB, req.IDToken, ac.Now())
	if err != nil {
		return writeAuthError(c, err)
	}
	pair, err := service.IssueTokens(c.UserContext(), ac.DB, *user, c.Get(fiber.HeaderUserAgent), c.IP(), ac.Now())
	if err != nil {
		return writeAuthError(c, err)
	}
	return ac.respondWithTokens(c, "Login berhasil", userDTO.FromModel(user), pair)
}

// POST /api/auth/refresh-token (cookie refresh_token atau body {refresh_token})
func (ac *AuthController) RefreshToken(c *fiber.Ctx) error {
	raw := helper.GetRefreshTokenFromCookie(c)
	if raw == "" {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		_ = c.BodyParser(&body)
		raw = body.RefreshToken
	}
	if raw == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token tidak ada")
	}

	user, pair, err := service.RotateRefreshToken(c.UserContext(), ac.DB, raw, c.Get(fiber.HeaderUserAgent), c.IP(), ac.Now())
	if err != nil {
		return writeAuthError(c, err)
	}
	return ac.respondWithTokens(c, "Token diperbarui", userDTO.FromModel(user), pair)
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	service.RevokeSession(c.UserContext(), ac.DB, helper.GetRawAccessToken(c), helper.GetRefreshTokenFromCookie(c), ac.Now())
	ClearAuthCookies(c)
	return helper.JsonOK(c, "Logout successful", nil)
}

// GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var user userDTO.UserResponse
	if err := ac.DB.WithContext(c.UserContext()).
		Table("users").
		Where("id = ?", userID).
		Take(&user).Error; err != nil {
		return writeAuthError(c, err)
	}
	st, _ := authMiddleware.AccessStatusFrom(c)
	return helper.JsonOK(c, "ok", fiber.Map{
		"user":   user,
		"access": st,
	})
}

// POST /api/auth/change-password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.ChangePasswordRequest
	if ok, err := helper.BindAndValidate(c, ac.Validate, &req); !ok {
		return err
	}
	if err := service.ChangeUserPassword(c.UserContext(), ac.DB, userID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Current password incorrect")
		}
		return writeAuthError(c, err)
	}
	return helper.JsonUpdated(c, "Password changed successfully", nil)
}
