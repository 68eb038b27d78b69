package api

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgnsrekt/filmscope/internal/config"
	"github.com/dgnsrekt/filmscope/internal/dashboard"
)

//go:embed web
var webFS embed.FS

var indexTmpl = template.Must(template.ParseFS(webFS, "web/index.html.tmpl"))

type indexView struct {
	Layout *config.Layout
	Frame  dashboard.Frame
}

func (v indexView) Has(id string) bool { return v.Layout.Has(id) }

// Fragment is the already rendered content of a container.
func (v indexView) Fragment(id string) template.HTML {
	return template.HTML(v.Frame.Fragments[id])
}

func (v indexView) Version() uint64 { return v.Frame.Version }

func mountDashboard(router chi.Router, svc Service) {
	static, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		view := indexView{Layout: svc.Layout(), Frame: svc.Frame()}
		if err := indexTmpl.Execute(&buf, view); err != nil {
			slog.Error("index render failed", "error", err)
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if _, err := w.Write(buf.Bytes()); err != nil {
			slog.Debug("index response write failed", "error", err)
		}
	})
}
