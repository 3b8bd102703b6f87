package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"log"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"quizku_backend/internals/configs"
	"quizku_backend/internals/features/users/auth/dto"
	authHelper "quizku_backend/internals/features/users/auth/helper"
	authModel "quizku_backend/internals/features/users/auth/model"
	authRepo "quizku_backend/internals/features/users/auth/repository"
	userModel "quizku_backend/internals/features/users/user/model"
	helper "quizku_backend/internals/helpers"
)

/* ==========================
   Const & Types
========================== */

const (
	accessTTLDefault  = 24 * time.Hour
	refreshTTLDefault = 7 * 24 * time.Hour
	defaultTrialDays  = 3
)

var (
	ErrInvalidCredentials = errors.New("Identifier atau Password salah")
	ErrAccountInactive    = errors.New("Akun Anda telah dinonaktifkan. Hubungi admin.")
	ErrEmailTaken         = errors.New("Email already registered")
	ErrInvalidRefresh     = errors.New("Refresh token invalid")
	ErrInvalidGoogleToken = errors.New("Invalid Google ID Token")
	ErrMissingSecret      = errors.New("Missing JWT Secret")
)

type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// GoogleIdentity: klaim yang dipakai dari ID token Google
type GoogleIdentity struct {
	Sub   string
	Email string
	Name  string
}

// nowUTC & verifyGoogleIDToken bisa diganti di test
var nowUTC = func() time.Time { return time.Now().UTC() }

var verifyGoogleIDToken = func(idToken, clientID string) (GoogleIdentity, error) {
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{clientID}); err != nil {
		return GoogleIdentity{}, ErrInvalidGoogleToken
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return GoogleIdentity{}, ErrInvalidGoogleToken
	}
	return GoogleIdentity{Sub: claimSet.Sub, Email: claimSet.Email, Name: claimSet.Name}, nil
}

/* ==========================
   Small Helpers
========================== */

func getJWTSecret() (string, error) {
	if s := strings.TrimSpace(configs.JWTSecret); s != "" {
		return s, nil
	}
	return "", ErrMissingSecret
}

func getRefreshSecret() (string, error) {
	if s := strings.TrimSpace(configs.JWTRefreshSecret); s != "" {
		return s, nil
	}
	return "", ErrMissingSecret
}

func trialDuration() time.Duration {
	days := configs.TrialDays
	if days <= 0 {
		days = defaultTrialDays
	}
	return time.Duration(days) * 24 * time.Hour
}

func strptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func computeRefreshHash(token, secret string) []byte {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(token))
	return m.Sum(nil)
}

/* ==========================
   REGISTER
========================== */

// RegisterUser membuat akun baru dengan trial aktif sampai now + TRIAL_DAYS.
func RegisterUser(ctx context.Context, db *gorm.DB, in dto.RegisterRequest, now time.Time) (*userModel.UserModel, error) {
	in.Normalize()
	hash, err := authHelper.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	trialEnd := now.Add(trialDuration())
	user := &userModel.UserModel{
		UserName:    in.UserName,
		Email:       in.Email,
		Password:    hash,
		IsActive:    true,
		TrialEndsAt: &trialEnd,
	}
	if err := authRepo.CreateUser(ctx, db, user); err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	log.Printf("[AUTH] register user=%s trial_until=%s", user.ID, trialEnd.Format(time.RFC3339))
	return user, nil
}

/* ==========================
   LOGIN
========================== */

func Authenticate(ctx context.Context, db *gorm.DB, identifier, password string) (*userModel.UserModel, error) {
	user, err := authRepo.FindUserByEmailOrUsername(ctx, db, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := authHelper.CheckPasswordHash(user.Password, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	return user, nil
}

// LoginWithGoogle: cari by google_id → link by email → buat akun baru (dengan trial).
func LoginWithGoogle(ctx context.Context, db *gorm.DB, idToken string, now time.Time) (*userModel.UserModel, error) {
	id, err := verifyGoogleIDToken(idToken, configs.GoogleClientID)
	if err != nil {
		return nil, ErrInvalidGoogleToken
	}
	if strings.TrimSpace(id.Sub) == "" || strings.TrimSpace(id.Email) == "" {
		return nil, ErrInvalidGoogleToken
	}

	user, err := authRepo.FindUserByGoogleID(ctx, db, id.Sub)
	switch {
	case err == nil:
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	default:
		user, err = authRepo.FindUserByEmail(ctx, db, id.Email)
		if err == nil {
			if err := authRepo.LinkGoogleID(ctx, db, user.ID, id.Sub); err != nil {
				return nil, err
			}
			user.GoogleID = &id.Sub
			break
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if user, err = createGoogleUser(ctx, db, id, now); err != nil {
			return nil, err
		}
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	return user, nil
}

func createGoogleUser(ctx context.Context, db *gorm.DB, id GoogleIdentity, now time.Time) (*userModel.UserModel, error) {
	hash, err := authHelper.RandomPasswordHash()
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(id.Name)
	if len(name) < 3 {
		name = strings.SplitN(id.Email, "@", 2)[0]
	}
	if len(name) > 50 {
		name = name[:50]
	}
	trialEnd := now.Add(trialDuration())
	sub := id.Sub
	user := &userModel.UserModel{
		UserName:    name,
		Email:       strings.ToLower(strings.TrimSpace(id.Email)),
		Password:    hash,
		GoogleID:    &sub,
		IsActive:    true,
		TrialEndsAt: &trialEnd,
	}
	if err := authRepo.CreateUser(ctx, db, user); err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	log.Printf("[AUTH] google user baru=%s", user.ID)
	return user, nil
}

/* ==========================
   TOKENS
========================== */

func buildAccessClaims(user userModel.UserModel, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"typ":       "access",
		"sub":       user.ID.String(),
		"id":        user.ID.String(),
		"user_name": user.UserName,
		"jti":       uuid.NewString(),
		"iat":       now.Unix(),
		"exp":       now.Add(accessTTLDefault).Unix(),
	}
}

func buildRefreshClaims(userID uuid.UUID, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"typ": "refresh",
		"sub": userID.String(),
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(refreshTTLDefault).Unix(),
	}
}

// IssueTokens: access (24 jam) + refresh (7 hari). Refresh disimpan sebagai HMAC hash.
func IssueTokens(ctx context.Context, db *gorm.DB, user userModel.UserModel, userAgent, ip string, now time.Time) (TokenPair, error) {
	jwtSecret, err := getJWTSecret()
	if err != nil {
		return TokenPair{}, err
	}
	refreshSecret, err := getRefreshSecret()
	if err != nil {
		return TokenPair{}, err
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, buildAccessClaims(user, now)).SignedString([]byte(jwtSecret))
	if err != nil {
		return TokenPair{}, err
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, buildRefreshClaims(user.ID, now)).SignedString([]byte(refreshSecret))
	if err != nil {
		return TokenPair{}, err
	}

	if err := authRepo.CreateRefreshToken(ctx, db, &authModel.RefreshToken{
		UserID:    user.ID,
		TokenHash: computeRefreshHash(refreshToken, refreshSecret),
		ExpiresAt: now.Add(refreshTTLDefault),
		UserAgent: strptr(truncate(userAgent, 255)),
		IP:        strptr(truncate(ip, 64)),
	}); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  now.Add(accessTTLDefault),
		RefreshExpiresAt: now.Add(refreshTTLDefault),
	}, nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// RotateRefreshToken: refresh lama dihapus (sekali pakai), pasangan token baru diterbitkan.
// Dua request yang memakai refresh yang sama: hanya satu yang menang.
func RotateRefreshToken(ctx context.Context, db *gorm.DB, raw, userAgent, ip string, now time.Time) (*userModel.UserModel, TokenPair, error) {
	refreshSecret, err := getRefreshSecret()
	if err != nil {
		return nil, TokenPair{}, err
	}

	claims := jwt.MapClaims{}
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	tok, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return []byte(refreshSecret), nil
	})
	if err != nil || !tok.Valid {
		return nil, TokenPair{}, ErrInvalidRefresh
	}
	if typ, _ := claims["typ"].(string); typ != "refresh" {
		return nil, TokenPair{}, ErrInvalidRefresh
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, TokenPair{}, ErrInvalidRefresh
	}

	hash := computeRefreshHash(raw, refreshSecret)
	var (
		user *userModel.UserModel
		pair TokenPair
	)
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rt, err := authRepo.FindActiveRefreshToken(ctx, tx, hash, now)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}
		if rt.UserID != userID {
			return ErrInvalidRefresh
		}
		n, err := authRepo.DeleteRefreshTokenByHash(ctx, tx, hash)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrInvalidRefresh
		}

		user, err = authRepo.FindUserByID(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}
		if !user.IsActive {
			return ErrAccountInactive
		}
		pair, err = IssueTokens(ctx, tx, *user, userAgent, ip, now)
		return err
	})
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

/* ==========================
   LOGOUT
========================== */

// RevokeSession: blacklist access token sampai exp-nya + hapus refresh token.
// Idempotent: token kosong / sudah di-blacklist tidak dianggap error.
func RevokeSession(ctx context.Context, db *gorm.DB, accessToken, refreshToken string, now time.Time) {
	if accessToken != "" {
		if err := authRepo.BlacklistToken(ctx, db, accessToken, resolveBlacklistTTL(accessToken, now), now); err != nil {
			log.Printf("[WARN] Failed to blacklist token: %v", err)
		}
	} else {
		log.Println("[INFO] Logout tanpa access token; lanjut clear cookies (idempotent)")
	}

	if refreshToken != "" {
		if secret, err := getRefreshSecret(); err == nil {
			if _, err := authRepo.DeleteRefreshTokenByHash(ctx, db, computeRefreshHash(refreshToken, secret)); err != nil {
				log.Printf("[WARN] Failed to delete refresh token: %v", err)
			}
		}
	}
}

// resolveBlacklistTTL: sisa umur token + 60 detik; token tidak terbaca → 2 menit.
func resolveBlacklistTTL(accessToken string, now time.Time) time.Duration {
	ttl := 2 * time.Minute
	jwtSecret, err := getJWTSecret()
	if err != nil || accessToken == "" {
		return ttl
	}
	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	if _, err := parser.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (any, error) {
		return []byte(jwtSecret), nil
	}); err != nil {
		return ttl
	}
	if exp, ok := claims["exp"].(float64); ok {
		until := time.Unix(int64(exp), 0).Sub(now)
		if until > 0 {
			return until + 60*time.Second
		}
		return time.Minute
	}
	return ttl
}

/* ==========================
   PASSWORD
========================== */

func ChangeUserPassword(ctx context.Context, db *gorm.DB, userID uuid.UUID, current, next string) error {
	user, err := authRepo.FindUserByID(ctx, db, userID)
	if err != nil {
		return err
	}
	if err := authHelper.CheckPasswordHash(user.Password, current); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := authHelper.HashPassword(next)
	if err != nil {
		return err
	}
	return authRepo.UpdateUserPassword(ctx, db, userID, hash)
}
