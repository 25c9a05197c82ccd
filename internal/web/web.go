// Package web holds the embedded page templates and static assets.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/ahmetcoskunkizilkaya/stockroom/internal/format"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/icons"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/template/html/v2"
)

// Layout wraps every page.
const Layout = "layouts/main"

//go:embed views
var views embed.FS

//go:embed static
var static embed.FS

// NewEngine builds the view engine. Dates render in loc.
func NewEngine(loc *time.Location) *html.Engine {
	engine := html.NewFileSystem(http.FS(sub(views, "views")), ".html")
	for name, fn := range Funcs(loc) {
		engine.AddFunc(name, fn)
	}
	return engine
}

// Funcs are the helpers available to every template.
func Funcs(loc *time.Location) map[string]interface{} {
	return map[string]interface{}{
		"icon":      icons.Icon,
		"alertIcon": icons.Alert,
		"boxid":     format.BoxID,
		"datetime": func(t time.Time) string {
			return format.DateTime(t, loc)
		},
		"today": func(t time.Time) bool {
			return format.IsSameDay(t, time.Now(), loc)
		},
		"hours": func(d time.Duration) string {
			if d <= 0 {
				return ""
			}
			return fmt.Sprintf("%.1f", d.Hours())
		},
	}
}

// Static serves the embedded stylesheet and friends. Mount it with app.Use("/static", ...).
func Static() fiber.Handler {
	return filesystem.New(filesystem.Config{
		Root:   http.FS(sub(static, "static")),
		MaxAge: 3600,
	})
}

func sub(fsys fs.FS, dir string) fs.FS {
	s, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return s
}
