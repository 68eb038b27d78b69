package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dgnsrekt/filmscope/internal/config"
	"github.com/dgnsrekt/filmscope/internal/dashboard"
	"github.com/dgnsrekt/filmscope/internal/films"
	"github.com/dgnsrekt/filmscope/internal/relay"
	"github.com/dgnsrekt/filmscope/internal/session"
	"github.com/dgnsrekt/filmscope/internal/snapshot"
	"github.com/dgnsrekt/filmscope/internal/viewstate"
)

type stubService struct {
	dispatched []viewstate.Intent
	filmErr    error
	dataErr    error
	image      []byte
}

func (s *stubService) Health(ctx context.Context, deep bool) session.Health {
	return session.Health{Status: "ok", Loaded: true}
}
func (s *stubService) State() viewstate.State { return viewstate.Initial() }
func (s *stubService) Dispatch(ctx context.Context, in viewstate.Intent) (viewstate.State, error) {
	if s.dataErr != nil {
		return viewstate.State{}, s.dataErr
	}
	s.dispatched = append(s.dispatched, in)
	next := viewstate.Initial()
	if f, ok := in.(viewstate.FocusFilm); ok {
		next.View.FocusedFilm = f.Film
		next.View.ShowRadarPanel = true
	}
	return next, nil
}
func (s *stubService) DispatchRaw(ctx context.Context, raw []byte) error { return nil }
func (s *stubService) Reload(ctx context.Context) error                { return nil }
func (s *stubService) Layout() *config.Layout                          { return config.DefaultLayout() }
func (s *stubService) Frame() dashboard.Frame {
	return dashboard.Frame{Version: 3, Fragments: map[string]string{
		config.GraphContainer: `<div class="chart-container">graph</div>`,
		config.FilmCount:      `<option value="20" selected="selected">20</option>`,
	}}
}
func (s *stubService) Fragment(ctx context.Context, id string) (string, error) {
	if s.dataErr != nil {
		return "", s.dataErr
	}
	return "<p>" + id + "</p>", nil
}
func (s *stubService) Films(ctx context.Context, dataset string) ([]session.FilmView, error) {
	return nil, nil
}
func (s *stubService) Film(ctx context.Context, id int) (session.FilmView, error) {
	if s.filmErr != nil {
		return session.FilmView{}, s.filmErr
	}
	return session.FilmView{ID: films.FilmID(id), Film: "Alien"}, nil
}
func (s *stubService) Tooltip(ctx context.Context, id int, critic, audience string) (string, error) {
	return "<strong>Alien</strong>", nil
}
func (s *stubService) Comparison(ctx context.Context, q session.ComparisonQuery) (session.ComparisonView, error) {
	return session.ComparisonView{Critic: films.ScoreKey(q.Critic), Audience: films.ScoreKey(q.Audience)}, nil
}
func (s *stubService) Export(ctx context.Context, req session.ExportRequest) (snapshot.Meta, error) {
	return snapshot.Meta{ID: "abc", Chart: req.Chart, Format: req.Format}, nil
}
func (s *stubService) Screenshot(ctx context.Context, req session.ScreenshotRequest) (snapshot.Meta, error) {
	return snapshot.Meta{ID: "def", Chart: "page", Format: snapshot.FormatPNG}, nil
}
func (s *stubService) ListSnapshots(ctx context.Context) ([]snapshot.Meta, error) { return nil, nil }
func (s *stubService) GetSnapshot(ctx context.Context, id string) (snapshot.Meta, error) {
	return snapshot.Meta{ID: id}, nil
}
func (s *stubService) ReadSnapshotImage(ctx context.Context, id string) ([]byte, string, error) {
	return s.image, snapshot.FormatPNG, nil
}
func (s *stubService) DeleteSnapshot(ctx context.Context, id string) error { return nil }

func serve(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestDocsDarkMode(t *testing.T) {
	h := NewServer(&stubService{}, nil)
	w := serve(t, h, http.MethodGet, "/docs", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	if !strings.Contains(body, `data-theme="dark"`) {
		t.Fatalf("docs missing dark theme marker")
	}
	if !strings.Contains(body, `href="/docs/relay"`) {
		t.Fatalf("docs missing live updates link")
	}
}

func TestRelayDocs(t *testing.T) {
	h := NewServer(&stubService{}, nil)
	w := serve(t, h, http.MethodGet, "/docs/relay", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "set_comparison_limit") {
		t.Fatalf("relay docs missing intent table")
	}
}

func TestIndexEmbedsFrame(t *testing.T) {
	h := NewServer(&stubService{}, relay.NewBroker())
	w := serve(t, h, http.MethodGet, "/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	for _, want := range []string{
		`<title>Critics vs Audiences</title>`,
		`data-version="3"`,
		`<section id="graph-container" class="graphs"><div class="chart-container">graph</div></section>`,
		`<select id="film-count"><option value="20" selected="selected">20</option></select>`,
		`data-intent="toggle_radar"`,
		`/static/app.js`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
}

func TestIndexSkipsAbsentContainers(t *testing.T) {
	svc := &layoutStub{stubService: &stubService{}, layout: &config.Layout{
		Title:      "Only Graphs",
		Containers: []string{config.GraphContainer},
	}}
	w := serve(t, NewServer(svc, nil), http.MethodGet, "/", "")
	body := w.Body.String()
	if strings.Contains(body, `id="radar-container"`) || strings.Contains(body, `id="film-count"`) {
		t.Fatalf("index rendered containers outside the layout")
	}
	if !strings.Contains(body, `id="graph-container"`) {
		t.Fatalf("index missing graph container")
	}
}

type layoutStub struct {
	*stubService
	layout *config.Layout
}

func (l *layoutStub) Layout() *config.Layout { return l.layout }

func TestStaticAssets(t *testing.T) {
	h := NewServer(&stubService{}, nil)
	for _, p := range []string{"/static/app.js", "/static/style.css", "/static/docs.css"} {
		if w := serve(t, h, http.MethodGet, p, ""); w.Code != http.StatusOK {
			t.Errorf("GET %s status = %d", p, w.Code)
		}
	}
}

func TestDispatchIntent(t *testing.T) {
	svc := &stubService{}
	h := NewServer(svc, nil)

	w := serve(t, h, http.MethodPost, "/api/v1/intents", `{"type":"focus_film","film_id":3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var st viewstate.State
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if st.View.FocusedFilm != 3 || !st.View.ShowRadarPanel {
		t.Fatalf("state = %+v", st.View)
	}
	if len(svc.dispatched) != 1 || svc.dispatched[0] != (viewstate.FocusFilm{Film: 3}) {
		t.Fatalf("dispatched = %#v", svc.dispatched)
	}

	w = serve(t, h, http.MethodPost, "/api/v1/intents", `{"type":"set_comparison_limit","limit":"all"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("limit all status = %d body = %s", w.Code, w.Body.String())
	}
	if got := svc.dispatched[1]; got != (viewstate.SetComparisonLimit{Limit: viewstate.LimitAll}) {
		t.Fatalf("dispatched = %#v", got)
	}
}

func TestDispatchIntentMissingField(t *testing.T) {
	svc := &stubService{}
	w := serve(t, NewServer(svc, nil), http.MethodPost, "/api/v1/intents", `{"type":"hover_film"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if len(svc.dispatched) != 0 {
		t.Fatalf("invalid intent was dispatched")
	}
}

func TestErrorMapping(t *testing.T) {
	svc := &stubService{
		filmErr: &session.CodedError{Code: session.CodeFilmNotFound, Message: "film 99 not found"},
		dataErr: &session.CodedError{Code: session.CodeDataUnavailable, Message: "film data not loaded"},
	}
	h := NewServer(svc, nil)

	if w := serve(t, h, http.MethodGet, "/api/v1/films/99", ""); w.Code != http.StatusNotFound {
		t.Errorf("film status = %d, want 404", w.Code)
	}
	if w := serve(t, h, http.MethodGet, "/api/v1/containers/graph-container", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("container status = %d, want 503", w.Code)
	}
	if w := serve(t, h, http.MethodPost, "/api/v1/intents", `{"type":"toggle_radar"}`); w.Code != http.StatusServiceUnavailable {
		t.Errorf("intent status = %d, want 503", w.Code)
	}
}

func TestMapErr(t *testing.T) {
	cases := map[string]int{
		session.CodeValidation:         http.StatusBadRequest,
		session.CodeFilmNotFound:       http.StatusNotFound,
		session.CodeSnapshotNotFound:   http.StatusNotFound,
		session.CodeDataUnavailable:    http.StatusServiceUnavailable,
		session.CodeBrowserUnavailable: http.StatusBadGateway,
		session.CodeRenderFailure:      http.StatusInternalServerError,
	}
	for code, want := range cases {
		err := mapErr(&session.CodedError{Code: code, Message: "x"})
		se, ok := err.(huma.StatusError)
		if !ok {
			t.Fatalf("%s: mapErr returned %T", code, err)
		}
		if se.GetStatus() != want {
			t.Errorf("%s: status = %d, want %d", code, se.GetStatus(), want)
		}
	}
}

func TestSnapshotRoutes(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n")
	h := NewServer(&stubService{image: png}, nil)

	w := serve(t, h, http.MethodPost, "/api/v1/exports", `{"chart":"radar","format":"png"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d body = %s", w.Code, w.Body.String())
	}
	var out struct {
		Snapshot snapshot.Meta `json:"snapshot"`
		URL      string        `json:"url"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if out.Snapshot.Chart != "radar" || out.URL != "/api/v1/snapshots/abc/image" {
		t.Fatalf("export = %+v", out)
	}

	w = serve(t, h, http.MethodGet, "/api/v1/snapshots/abc/image", "")
	if w.Code != http.StatusOK {
		t.Fatalf("image status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("Content-Type = %q", ct)
	}
	if w.Body.String() != string(png) {
		t.Fatalf("image body mismatch")
	}

	w = serve(t, h, http.MethodGet, "/api/v1/snapshots", "")
	if !strings.Contains(w.Body.String(), `"snapshots":[]`) {
		t.Fatalf("list body = %s", w.Body.String())
	}
}
