// Package web holds the server-rendered pages and their static assets.
package web

import (
	"embed"
	"encoding/json"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Funcs are available to every page.
var Funcs = template.FuncMap{
	"userPhoto": func(name string) string { return Asset("users", name) },
	"tourImage": func(name string) string { return Asset("tours", name) },
	"firstName": func(name string) string {
		return strings.SplitN(strings.TrimSpace(name), " ", 2)[0]
	},
	"month": func(t time.Time) string { return t.Format("January 2006") },
	"json": func(v any) (template.JS, error) {
		raw, err := json.Marshal(v)
		return template.JS(raw), err
	},
	"stars": func(rating float64) []bool {
		out := make([]bool, 5)
		for i := range out {
			out[i] = rating >= float64(i+1)
		}
		return out
	},
	"firstParagraph": func(s string) string {
		return strings.SplitN(s, "\n", 2)[0]
	},
}

// Asset resolves a stored image name to a URL. Uploaded files already
// carry an absolute path or URL; seeded names live under /img/<dir>.
func Asset(dir, name string) string {
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "/") || strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		return name
	}
	return "/img/" + dir + "/" + name
}

// Templates parses every page; each is addressed by its file name.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(templateFS, "templates/*.html")
}

// Static serves css, js and the seeded images.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
