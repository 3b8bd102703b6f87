package pages

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/gofiber/template/html/v2"
)

//go:embed views
var viewsFS embed.FS

const Layout = "layouts/main"

// NewEngine: template html dari folder views yang di-embed ke binary.
func NewEngine() *html.Engine {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("letter", func(i int) string {
		if i < 0 || i > 25 {
			return "-"
		}
		return string(rune('A' + i))
	})
	engine.AddFunc("inc", func(i int) int { return i + 1 })
	engine.AddFunc("dec", func(i int) int { return i - 1 })
	engine.AddFunc("deref", func(b *bool) bool { return b != nil && *b })
	engine.AddFunc("fmtTime", func(t any) string {
		switch v := t.(type) {
		case time.Time:
			return v.Format("02 Jan 2006 15:04")
		case *time.Time:
			if v == nil {
				return "-"
			}
			return v.Format("02 Jan 2006 15:04")
		default:
			return "-"
		}
	})
	engine.AddFunc("duration", func(sec int) string {
		return fmt.Sprintf("%02d:%02d", sec/60, sec%60)
	})
	engine.AddFunc("daysLeft", func(ms *int64) int64 {
		if ms == nil {
			return 0
		}
		return *ms / int64(24*time.Hour/time.Millisecond)
	})
	return engine
}
