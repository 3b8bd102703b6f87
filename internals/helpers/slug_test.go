package helper

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Matematika Dasar – Aljabar": "matematika-dasar-aljabar",
		"  Bahasa   Indonésia!! ":    "bahasa-indonesia",
		"TPA / TIU (2025)":           "tpa-tiu-2025",
		"---":                        "item",
		"":                           "item",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in, 0), in)
	}

	long := Slugify(strings.Repeat("abc ", 20), 10)
	assert.LessOrEqual(t, len(long), 10)
	assert.False(t, strings.HasSuffix(long, "-"))
}

func TestEnsureUniqueSlugCI(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Exec(`CREATE TABLE cats (id INTEGER PRIMARY KEY, slug TEXT)`).Error)
	ctx := context.Background()

	got, err := EnsureUniqueSlugCI(ctx, db, "cats", "slug", "umum", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "umum", got)

	require.NoError(t, db.Exec(`INSERT INTO cats (id, slug) VALUES (1, 'Umum'), (2, 'umum-2')`).Error)
	got, err = EnsureUniqueSlugCI(ctx, db, "cats", "slug", "umum", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "umum-3", got)

	// row yang sedang di-update dikecualikan
	got, err = EnsureUniqueSlugCI(ctx, db, "cats", "slug", "umum", func(q *gorm.DB) *gorm.DB {
		return q.Where("id <> ?", 1)
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, "umum", got)

	got, err = EnsureUniqueSlugCI(ctx, db, "cats", "slug", "umum", nil, 5)
	require.NoError(t, err)
	assert.Equal(t, "umu-2", got)
}
