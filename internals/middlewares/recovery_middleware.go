package middlewares

import (
	"errors"
	"log"
	"runtime/debug"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	helper "quizku_backend/internals/helpers"
)

// RecoveryMiddleware: panic di handler → error 500 ke ErrorHandler, stack trace ke log.
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			log.Printf("[PANIC] id=%v %s %s: %v\n%s", c.Locals("reqid"), c.Method(), c.Path(), e, debug.Stack())
		},
	})
}

// ErrorHandler dipasang di fiber.Config. /api selalu dapat envelope JSON,
// halaman dapat teks polos supaya tidak bergantung pada template.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal Server Error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	} else {
		log.Printf("[ERROR] id=%v %s %s: %v", c.Locals("reqid"), c.Method(), c.Path(), err)
	}

	if strings.HasPrefix(c.Path(), "/api") {
		return helper.JsonError(c, code, msg)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(code).SendString(msg)
}
