// Package views holds the embedded HTML templates and static assets.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"

	"rentalweb/internal/utils"

	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const layoutFile = "templates/layout.html"

// Static serves /static.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Renderer implements gin's HTMLRender with one template set per page,
// each combining the shared layout with the page's "content" block.
type Renderer struct {
	pages map[string]*template.Template
}

func New(loc *time.Location) (*Renderer, error) {
	if loc == nil {
		loc = time.UTC
	}
	base, err := template.New("layout.html").Funcs(Funcs(loc)).ParseFS(templateFS, layoutFile)
	if err != nil {
		return nil, err
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		if f == layoutFile {
			continue
		}
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, f); err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		r.pages[strings.TrimSuffix(path.Base(f), ".html")] = t
	}
	return r, nil
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.pages[name]
	if !ok {
		t = r.pages["error"]
	}
	return render.HTML{Template: t, Name: "layout", Data: data}
}

func Funcs(loc *time.Location) template.FuncMap {
	local := func(t time.Time) time.Time { return t.In(loc) }
	return template.FuncMap{
		"money": utils.FormatMoney,
		"date":  func(t time.Time) string { return utils.FormatDate(local(t)) },
		"clock": func(t time.Time) string { return utils.FormatClock(local(t)) },
		"human": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return utils.FormatHuman(local(t))
		},
		"month":    func(t time.Time) string { return local(t).Format("January 2006") },
		"monthKey": func(t time.Time) string { return utils.FormatMonth(local(t)) },
		"fieldErr": func(errs map[string]string, key string) string { return errs[key] },
		"inc":      func(i int) int { return i + 1 },
		"seq": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i
			}
			return out
		},
		"weekdays": func() []string { return []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} },
	}
}
