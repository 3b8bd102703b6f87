package pages

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	authController "quizku_backend/internals/features/users/auth/controller"
	"quizku_backend/internals/features/users/auth/dto"
	authService "quizku_backend/internals/features/users/auth/service"
	helper "quizku_backend/internals/helpers"
	authMiddleware "quizku_backend/internals/middlewares/auth"
)

func (p *Pages) Home(c *fiber.Ctx) error {
	return p.render(c, fiber.StatusOK, "home", "Quizku", nil)
}

func (p *Pages) LoginForm(c *fiber.Ctx) error {
	return p.render(c, fiber.StatusOK, "auth/login", "Masuk", nil)
}

// POST /auth/login (form identifier, password)
func (p *Pages) LoginSubmit(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil || p.Validate.Struct(&in) != nil {
		return p.render(c, fiber.StatusBadRequest, "auth/login", "Masuk", fiber.Map{
			"Error":      "Email/username dan password wajib diisi",
			"Identifier": in.Identifier,
		})
	}

	user, err := authService.Authenticate(c.UserContext(), p.DB, strings.TrimSpace(in.Identifier), in.Password)
	if err != nil {
		status := fiber.StatusUnauthorized
		msg := authService.ErrInvalidCredentials.Error()
		if errors.Is(err, authService.ErrAccountInactive) {
			status, msg = fiber.StatusForbidden, err.Error()
		} else if !errors.Is(err, authService.ErrInvalidCredentials) {
			logReadError("login", err)
			status, msg = fiber.StatusInternalServerError, "Terjadi kesalahan, coba lagi"
		}
		return p.render(c, status, "auth/login", "Masuk", fiber.Map{"Error": msg, "Identifier": in.Identifier})
	}

	pair, err := authService.IssueTokens(c.UserContext(), p.DB, *user, c.Get("User-Agent"), c.IP(), p.Now())
	if err != nil {
		logReadError("issue tokens", err)
		return p.render(c, fiber.StatusInternalServerError, "auth/login", "Masuk", fiber.Map{
			"Error": "Terjadi kesalahan, coba lagi",
		})
	}
	authController.SetAuthCookies(c, pair)
	return p.redirect(c, authMiddleware.PathDashboard)
}

func (p *Pages) SignUpForm(c *fiber.Ctx) error {
	return p.render(c, fiber.StatusOK, "auth/sign_up", "Daftar", nil)
}

// POST /auth/sign-up (form user_name, email, password)
func (p *Pages) SignUpSubmit(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return p.render(c, fiber.StatusBadRequest, "auth/sign_up", "Daftar", fiber.Map{"Error": "Form tidak valid"})
	}
	in.Normalize()
	form := fiber.Map{"UserName": in.UserName, "Email": in.Email}
	if err := p.Validate.Struct(&in); err != nil {
		form["Error"] = "Periksa kembali isian form"
		form["Errors"] = helper.ValidationErrorMap(err)
		return p.render(c, fiber.StatusBadRequest, "auth/sign_up", "Daftar", form)
	}

	if _, err := authService.RegisterUser(c.UserContext(), p.DB, in, p.Now()); err != nil {
		if errors.Is(err, authService.ErrEmailTaken) {
			form["Error"] = "Email atau username sudah terdaftar"
			return p.render(c, fiber.StatusConflict, "auth/sign_up", "Daftar", form)
		}
		logReadError("sign-up", err)
		form["Error"] = "Terjadi kesalahan, coba lagi"
		return p.render(c, fiber.StatusInternalServerError, "auth/sign_up", "Daftar", form)
	}
	return p.redirect(c, authMiddleware.PathSignUpSuccess)
}

func (p *Pages) SignUpSuccess(c *fiber.Ctx) error {
	return p.render(c, fiber.StatusOK, "auth/sign_up_success", "Pendaftaran Berhasil", nil)
}

// POST /logout: cabut sesi (blacklist access + hapus refresh) lalu kembali ke login.
func (p *Pages) Logout(c *fiber.Ctx) error {
	authService.RevokeSession(c.UserContext(), p.DB,
		helper.GetRawAccessToken(c), helper.GetRefreshTokenFromCookie(c), p.Now())
	authController.ClearAuthCookies(c)
	return p.redirect(c, authMiddleware.PathLogin)
}
