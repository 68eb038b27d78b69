package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgnsrekt/filmscope/internal/config"
	"github.com/dgnsrekt/filmscope/internal/dashboard"
	"github.com/dgnsrekt/filmscope/internal/relay"
	"github.com/dgnsrekt/filmscope/internal/session"
	"github.com/dgnsrekt/filmscope/internal/snapshot"
	"github.com/dgnsrekt/filmscope/internal/viewstate"
)

type Service interface {
	Health(ctx context.Context, deep bool) session.Health
	State() viewstate.State
	Dispatch(ctx context.Context, in viewstate.Intent) (viewstate.State, error)
	DispatchRaw(ctx context.Context, raw []byte) error
	Reload(ctx context.Context) error

	Layout() *config.Layout
	Frame() dashboard.Frame
	Fragment(ctx context.Context, id string) (string, error)

	Films(ctx context.Context, dataset string) ([]session.FilmView, error)
	Film(ctx context.Context, id int) (session.FilmView, error)
	Tooltip(ctx context.Context, id int, critic, audience string) (string, error)
	Comparison(ctx context.Context, q session.ComparisonQuery) (session.ComparisonView, error)

	Export(ctx context.Context, req session.ExportRequest) (snapshot.Meta, error)
	Screenshot(ctx context.Context, req session.ScreenshotRequest) (snapshot.Meta, error)
	ListSnapshots(ctx context.Context) ([]snapshot.Meta, error)
	GetSnapshot(ctx context.Context, id string) (snapshot.Meta, error)
	ReadSnapshotImage(ctx context.Context, id string) ([]byte, string, error)
	DeleteSnapshot(ctx context.Context, id string) error
}

// NewServer mounts the dashboard page, the JSON API and the live relay
// endpoints. broker may be nil when no live clients are served.
func NewServer(svc Service, broker *relay.Broker) http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	cfg := huma.DefaultConfig("filmscope API", "1.0.0")
	cfg.DocsPath = ""
	api := humachi.New(router, cfg)

	router.Get("/docs", staticPage("docs", docsHTML))
	router.Get("/docs/relay", staticPage("relay docs", relayDocsHTML))

	mountDashboard(router, svc)
	if broker != nil {
		router.Get("/ws", relay.WebSocketHandler(broker, svc))
		router.Get("/events", relay.SSEHandler(broker))
	}

	registerViewHandlers(api, svc)
	registerFilmHandlers(api, svc)
	registerSnapshotHandlers(api, svc)

	return router
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var coded *session.CodedError
	if errors.As(err, &coded) {
		switch coded.Code {
		case session.CodeValidation:
			return huma.Error400BadRequest(coded.Message)
		case session.CodeFilmNotFound, session.CodeSnapshotNotFound:
			return huma.Error404NotFound(coded.Message)
		case session.CodeDataUnavailable:
			return huma.Error503ServiceUnavailable(coded.Message)
		case session.CodeBrowserUnavailable:
			return huma.Error502BadGateway(coded.Message)
		default:
			return huma.Error500InternalServerError(fmt.Sprintf("%s: %s", coded.Code, coded.Message))
		}
	}
	return huma.Error500InternalServerError(err.Error())
}

func staticPage(name, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write([]byte(body)); err != nil {
			slog.Debug(name+" response write failed", "error", err)
		}
	}
}
