package helper

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

const DefaultSlugMaxLen = 100

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphen   = regexp.MustCompile(`-+`)
)

// Slugify: "Matematika Dasar – Aljabar" → "matematika-dasar-aljabar".
// Diakritik dibuang via NFD, hasil dipotong ke maxLen, fallback "item".
func Slugify(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultSlugMaxLen
	}

	var b strings.Builder
	for _, r := range norm.NFD.String(strings.ToLower(strings.TrimSpace(s))) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	out := reNonAlnum.ReplaceAllString(b.String(), "-")
	out = strings.Trim(reHyphen.ReplaceAllString(out, "-"), "-")

	if len(out) > maxLen {
		out = strings.Trim(out[:maxLen], "-")
	}
	if out == "" {
		out = "item"
	}
	return out
}

// EnsureUniqueSlugCI memastikan slug unik (case-insensitive) di satu tabel/kolom
// dengan menambah suffix -2, -3, dst. scopeFn boleh nil; dipakai untuk
// mengecualikan row yang sedang di-update.
func EnsureUniqueSlugCI(
	ctx context.Context,
	db *gorm.DB,
	table, column, baseSlug string,
	scopeFn func(*gorm.DB) *gorm.DB,
	maxLen int,
) (string, error) {
	if maxLen <= 0 {
		maxLen = DefaultSlugMaxLen
	}
	slug := baseSlug
	for i := 2; i < 100; i++ {
		q := db.WithContext(ctx).Table(table)
		if scopeFn != nil {
			q = scopeFn(q)
		}
		var count int64
		if err := q.Where(fmt.Sprintf("LOWER(%s) = ?", column), strings.ToLower(slug)).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		suffix := fmt.Sprintf("-%d", i)
		slug = trimForSuffix(baseSlug, suffix, maxLen) + suffix
	}
	return "", fmt.Errorf("slug %q: terlalu banyak duplikat", baseSlug)
}

// trimForSuffix memotong base agar base+suffix <= maxLen.
func trimForSuffix(base, suffix string, maxLen int) string {
	keep := maxLen - len(suffix)
	if keep < 1 {
		return "x"
	}
	if len(base) > keep {
		base = base[:keep]
	}
	if out := strings.Trim(base, "-"); out != "" {
		return out
	}
	return "x"
}
