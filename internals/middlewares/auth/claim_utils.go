// internals/middlewares/auth/claim_utils.go
package auth

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"quizku_backend/internals/configs"
	authModel "quizku_backend/internals/features/users/auth/model"
)

var (
	errNoToken      = errors.New("Unauthorized - No token provided")
	errBlacklisted  = errors.New("Unauthorized - Token is blacklisted")
	errTokenParse   = errors.New("Unauthorized - Token parse error")
	errTokenExpired = errors.New("Unauthorized - Token expired")
	errNoUserID     = errors.New("Unauthorized - Invalid or missing user ID")
	errUserNotFound = errors.New("Unauthorized - User not found")
	errUserInactive = errors.New("Akun Anda telah dinonaktifkan")
	errMissingJWT   = errors.New("Missing JWT Secret")
)

/* ======== Extractors ======== */

func extractBearerToken(c *fiber.Ctx) (string, error) {
	// 1) Ambil dari Authorization header atau fallback cookie
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if auth == "" {
		if cookieTok := strings.TrimSpace(c.Cookies("access_token")); cookieTok != "" {
			return strings.Trim(cookieTok, "\"'"), nil
		}
		return "", errNoToken
	}

	// 2) toleransi spasi ganda & case-insensitive
	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", fmt.Errorf("Unauthorized - Invalid token format")
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", errNoToken
	}
	return tok, nil
}

func validateTokenExpiry(claims jwt.MapClaims, now time.Time, skew time.Duration) error {
	var expUnix int64
	switch t := claims["exp"].(type) {
	case nil:
		return fmt.Errorf("token has no exp")
	case float64:
		expUnix = int64(t)
	case int64:
		expUnix = t
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid exp format")
		}
		expUnix = n
	default:
		return fmt.Errorf("invalid exp type %T", t)
	}

	expTime := time.Unix(expUnix, 0).UTC()
	if now.After(expTime.Add(skew)) {
		return fmt.Errorf("token expired at %v", expTime)
	}
	return nil
}

func extractUserID(claims jwt.MapClaims) (uuid.UUID, error) {
	v, ok := claims["id"].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("no user id")
	}
	return uuid.Parse(strings.TrimSpace(v))
}

func ensureUserActive(db *gorm.DB, userID uuid.UUID) error {
	var user struct {
		IsActive bool
	}
	if err := db.Table("users").Select("is_active").Where("id = ?", userID).Take(&user).Error; err != nil {
		return err
	}
	if !user.IsActive {
		return errUserInactive
	}
	return nil
}

// verifyAccessToken: blacklist → signature → exp → user aktif.
// Error yang dikembalikan sudah berupa pesan untuk client.
func verifyAccessToken(db *gorm.DB, tokenString string) (uuid.UUID, error) {
	var existing authModel.TokenBlacklist
	if err := db.Where("token = ?", tokenString).Take(&existing).Error; err == nil {
		log.Println("[WARNING] Token ditemukan di blacklist")
		return uuid.Nil, errBlacklisted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("[ERROR] DB error saat cek blacklist:", err)
		return uuid.Nil, err
	}

	secretKey := configs.JWTSecret
	if secretKey == "" {
		log.Println("[ERROR] JWT_SECRET kosong")
		return uuid.Nil, errMissingJWT
	}

	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true, ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	}); err != nil {
		log.Println("[ERROR] Gagal parse token:", err)
		return uuid.Nil, errTokenParse
	}

	if err := validateTokenExpiry(claims, time.Now().UTC(), 30*time.Second); err != nil {
		log.Println("[ERROR] Exp validation:", err)
		return uuid.Nil, errTokenExpired
	}
	if typ, _ := claims["typ"].(string); typ != "" && typ != "access" {
		return uuid.Nil, errTokenParse
	}

	userID, err := extractUserID(claims)
	if err != nil {
		log.Println("[ERROR] user_id:", err)
		return uuid.Nil, errNoUserID
	}

	if err := ensureUserActive(db, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, errUserNotFound
		}
		return uuid.Nil, err
	}
	return userID, nil
}
