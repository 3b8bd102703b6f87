// internals/helpers/oss/oss_client.go
package helper

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/gofiber/fiber/v2"

	"quizku_backend/internals/configs"
)

// batas ukuran file upload sebelum di-decode
const maxUploadSize = int64(5 * 1024 * 1024)

// ImageStore dipakai controller soal; OSSService adalah implementasi produksinya.
type ImageStore interface {
	UploadImage(ctx context.Context, fh *multipart.FileHeader, dir string) (string, error)
	MoveToSpam(ctx context.Context, publicURL string) (string, error)
}

/* =======================================================================
   OSS Service
======================================================================= */

type OSSService struct {
	Client     *oss.Client
	Bucket     *oss.Bucket
	Endpoint   string
	BucketName string
	PublicBase string
	Prefix     string // optional: "quizku/"
	WebP       WebPOptions
}

type ossEnv struct {
	Endpoint, AccessKey, SecretKey, Bucket, PublicBase string
}

func loadOSSEnv() ossEnv {
	return ossEnv{
		Endpoint:   normalizeEndpoint(configs.GetEnv("ALI_OSS_ENDPOINT")),
		AccessKey:  strings.TrimSpace(configs.GetEnv("ALI_OSS_ACCESS_KEY")),
		SecretKey:  strings.TrimSpace(configs.GetEnv("ALI_OSS_SECRET_KEY")),
		Bucket:     strings.TrimSpace(configs.GetEnv("ALI_OSS_BUCKET")),
		PublicBase: strings.TrimSpace(configs.GetEnv("ALI_OSS_PUBLIC_BASE")),
	}
}

func (e ossEnv) complete() bool {
	return e.Endpoint != "" && e.AccessKey != "" && e.SecretKey != "" && e.Bucket != ""
}

// NewOSSServiceFromEnv mengembalikan error kalau ENV ALI_OSS_* tidak lengkap.
func NewOSSServiceFromEnv(prefix string) (*OSSService, error) {
	env := loadOSSEnv()
	if !env.complete() {
		return nil, fmt.Errorf("missing env: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")
	}

	client, err := oss.New(env.Endpoint, env.AccessKey, env.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bkt, err := client.Bucket(env.Bucket)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	// Verifikasi ringan lokasi bucket
	if loc, err := client.GetBucketLocation(env.Bucket); err != nil {
		var se oss.ServiceError
		if errors.As(err, &se) && se.StatusCode == 403 {
			log.Printf("[OSS] warn: skip location check (bucket=%s): %s", env.Bucket, se.Code)
		} else {
			return nil, fmt.Errorf("verify bucket: %w", err)
		}
	} else {
		log.Printf("[OSS] bucket %s location: %s", env.Bucket, loc)
	}

	return &OSSService{
		Client:     client,
		Bucket:     bkt,
		Endpoint:   env.Endpoint,
		BucketName: env.Bucket,
		PublicBase: env.PublicBase,
		Prefix:     strings.Trim(prefix, "/"),
		WebP:       DefaultWebPOptions(),
	}, nil
}

/* =======================================================================
   Upload / move / delete
======================================================================= */

// UploadImage: recompress ke webp lalu PutObject ke <prefix>/<dir>/<nama>_<ts>_<rand>.webp
func (s *OSSService) UploadImage(ctx context.Context, fh *multipart.FileHeader, dir string) (string, error) {
	if fh == nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "File gambar wajib diisi")
	}
	if fh.Size > maxUploadSize {
		return "", fiber.NewError(fiber.StatusRequestEntityTooLarge, "Ukuran gambar maksimal 5MB")
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer src.Close()

	data, err := ConvertToWebP(src, fh.Filename, s.WebP)
	if err != nil {
		if errors.Is(err, ErrUnsupportedImage) {
			return "", fiber.NewError(fiber.StatusUnsupportedMediaType, "Unsupported image format (pakai jpg/png/webp)")
		}
		return "", err
	}

	base := strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename))
	key := BuildObjectKey(s.Prefix, dir, base, ".webp", time.Now())

	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType("image/webp"),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	}
	if err := s.Bucket.PutObject(key, bytes.NewReader(data), opts...); err != nil {
		return "", err
	}
	return s.PublicURL(key), nil
}

// MoveToSpam memindahkan objek aktif ke spam/YYYY/MM/DD/HHMMSS__basename.
// Objek di spam/ dihapus permanen oleh trash reaper setelah RETENTION_DAYS.
func (s *OSSService) MoveToSpam(ctx context.Context, publicURL string) (string, error) {
	srcKey, err := s.KeyFromPublicURL(publicURL)
	if err != nil {
		return "", err
	}
	dstKey := SpamKey(srcKey, time.Now())

	if _, err := s.Bucket.CopyObject(srcKey, dstKey, oss.WithContext(ctx)); err != nil {
		return "", fmt.Errorf("copy %q -> %q: %w", srcKey, dstKey, err)
	}
	if err := s.Bucket.DeleteObject(srcKey, oss.WithContext(ctx)); err != nil {
		log.Printf("[OSS] delete %q setelah copy gagal: %v", srcKey, err)
	}
	return s.PublicURL(dstKey), nil
}

func (s *OSSService) DeleteObject(ctx context.Context, key string) error {
	return s.Bucket.DeleteObject(key, oss.WithContext(ctx))
}

/* =======================================================================
   Public URL & Key utils
======================================================================= */

func (s *OSSService) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	if s.PublicBase != "" {
		return strings.TrimRight(s.PublicBase, "/") + "/" + key
	}
	host := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.BucketName, host, key)
}

func (s *OSSService) KeyFromPublicURL(publicURL string) (string, error) {
	publicURL = strings.TrimSpace(publicURL)
	if publicURL == "" {
		return "", fmt.Errorf("empty url")
	}
	if s.PublicBase != "" {
		base := strings.TrimRight(s.PublicBase, "/") + "/"
		if strings.HasPrefix(publicURL, base) {
			return strings.TrimPrefix(publicURL, base), nil
		}
	}
	u, err := url.Parse(publicURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", fmt.Errorf("cannot extract key from url: %s", publicURL)
	}
	return key, nil
}

// BuildObjectKey: <prefix>/<dir>/<slug-nama>_<YYYYMMDD_HHMMSS>_<rand6><ext>
func BuildObjectKey(prefix, dir, base, ext string, now time.Time) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{prefix, dir} {
		if p = strings.Trim(strings.TrimSpace(p), "/"); p != "" {
			parts = append(parts, p)
		}
	}
	name := fmt.Sprintf("%s_%s_%s%s", safeName(base), now.Format("20060102_150405"), randHex(3), ext)
	parts = append(parts, name)
	return strings.Join(parts, "/")
}

func SpamKey(srcKey string, now time.Time) string {
	return path.Join(
		"spam",
		now.Format("2006"), now.Format("01"), now.Format("02"),
		fmt.Sprintf("%s__%s", now.Format("150405"), path.Base(srcKey)),
	)
}

func normalizeEndpoint(ep string) string {
	ep = strings.TrimSpace(ep)
	if ep == "" || strings.HasPrefix(ep, "http://") || strings.HasPrefix(ep, "https://") {
		return ep
	}
	return "https://" + ep
}

func safeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "-", "_", "-").Replace(s)
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, s)
	if s == "" {
		return "file"
	}
	return s
}

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
