// Package session is the single shared dashboard session: it owns the film
// data, the view-state store and the rendered page, and publishes every
// re-render to relay subscribers.
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/dgnsrekt/filmscope/internal/anim"
	"github.com/dgnsrekt/filmscope/internal/browser"
	"github.com/dgnsrekt/filmscope/internal/config"
	"github.com/dgnsrekt/filmscope/internal/dashboard"
	"github.com/dgnsrekt/filmscope/internal/films"
	"github.com/dgnsrekt/filmscope/internal/journal"
	"github.com/dgnsrekt/filmscope/internal/relay"
	"github.com/dgnsrekt/filmscope/internal/snapshot"
	"github.com/dgnsrekt/filmscope/internal/viewstate"
)

// Capturer takes dashboard screenshots.
type Capturer interface {
	Capture(ctx context.Context, opts browser.Options) ([]byte, error)
	Available(ctx context.Context) error
}

// Recorder keeps a record of dispatched intents.
type Recorder interface {
	Record(e journal.Entry) error
}

// Options configures a Session.
type Options struct {
	Horror      films.Source
	NonHorror   films.Source
	LoadTimeout time.Duration

	Layout  *config.Layout
	Initial viewstate.State

	AnimationDuration time.Duration
	AnimationTick     time.Duration

	Snapshots *snapshot.Store
	Capturer  Capturer
	// BaseURL is where the dashboard is served, for screenshots.
	BaseURL string

	// Journal, when set, receives every dispatched intent.
	Journal Recorder
}

// FrameMessage carries a full re-render. Animate lists the line targets the
// client should draw in from nothing.
type FrameMessage struct {
	Type      string            `json:"type"`
	Version   uint64            `json:"version"`
	Fragments map[string]string `json:"fragments"`
	Animate   []string          `json:"animate,omitempty"`
}

// StateMessage follows every frame.
type StateMessage struct {
	Type   string          `json:"type"`
	State  viewstate.State `json:"state"`
	Loaded bool            `json:"loaded"`
	Error  string          `json:"error,omitempty"`
}

// AnimMessage is one animation tick.
type AnimMessage struct {
	Type string `json:"type"`
	anim.Tick
}

// Session serialises every state change and its full re-render.
type Session struct {
	opts   Options
	page   *dashboard.Page
	broker *relay.Broker
	runner *anim.Runner
	store  *viewstate.Store

	ctx    context.Context
	cancel context.CancelFunc

	loadMu   sync.Mutex
	dataMu   sync.RWMutex
	data     dashboard.Data
	loadedAt time.Time
}

// New creates a session publishing to broker. Nothing is loaded until Load.
func New(opts Options, broker *relay.Broker) *Session {
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = 10 * time.Second
	}
	if opts.Layout == nil {
		opts.Layout = config.DefaultLayout()
	}
	if opts.Initial == (viewstate.State{}) {
		opts.Initial = viewstate.Initial()
	}
	if broker == nil {
		broker = relay.NewBroker()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		opts:   opts,
		page:   dashboard.NewPage(opts.Layout),
		broker: broker,
		ctx:    ctx,
		cancel: cancel,
	}
	s.runner = anim.NewRunner(opts.AnimationDuration, opts.AnimationTick, s.publishTick)
	s.store = viewstate.NewStore(opts.Initial, s.render)
	return s
}

// Broker returns the relay the session publishes to.
func (s *Session) Broker() *relay.Broker { return s.broker }

// Close stops running animations.
func (s *Session) Close() {
	s.cancel()
	s.runner.Stop()
}

// Load fetches both datasets concurrently within the load timeout and
// re-renders. On failure only the loading overlay is rendered, with the
// error and a retry action.
func (s *Session) Load(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.opts.LoadTimeout)
	defer cancel()

	started := time.Now()
	d, err := films.Load(ctx, s.opts.Horror, s.opts.NonHorror)

	s.dataMu.Lock()
	if err != nil {
		s.data = dashboard.Data{Err: err}
	} else {
		s.data = dashboard.Data{Datasets: d, Loaded: true}
		s.loadedAt = time.Now().UTC()
	}
	s.dataMu.Unlock()

	s.store.Refresh()

	if err != nil {
		slog.Error("film data load failed", "error", err, "duration_ms", time.Since(started).Milliseconds())
		return newError(CodeDataUnavailable, "film data could not be loaded", err)
	}
	slog.Info("film data loaded",
		"horror", len(d.Horror), "non_horror", len(d.NonHorror),
		"duration_ms", time.Since(started).Milliseconds())
	return nil
}

// Reload shows the loading overlay and loads the data again.
func (s *Session) Reload(ctx context.Context) error {
	s.dataMu.Lock()
	s.data = dashboard.Data{}
	s.dataMu.Unlock()
	s.store.Refresh()
	return s.Load(ctx)
}

func (s *Session) currentData() dashboard.Data {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	return s.data
}

func (s *Session) datasets() (films.Datasets, error) {
	d := s.currentData()
	if !d.Loaded {
		if d.Err != nil {
			return films.Datasets{}, newError(CodeDataUnavailable, "film data failed to load", d.Err)
		}
		return films.Datasets{}, newError(CodeDataUnavailable, "film data is still loading", nil)
	}
	return d.Datasets, nil
}

// State returns the current view state.
func (s *Session) State() viewstate.State { return s.store.State() }

// Layout returns the page layout.
func (s *Session) Layout() *config.Layout { return s.page.Layout() }

// Frame returns every rendered container.
func (s *Session) Frame() dashboard.Frame { return s.page.Frame() }

// Fragment returns one rendered container.
func (s *Session) Fragment(_ context.Context, id string) (string, error) {
	html, ok := s.page.Fragment(id)
	if !ok {
		return "", newError(CodeValidation, "no container "+id+" in the page layout", nil)
	}
	return html, nil
}

// Dispatch applies one intent. Film ids are checked against the loaded data
// before the reducer runs.
func (s *Session) Dispatch(_ context.Context, in viewstate.Intent) (viewstate.State, error) {
	d, err := s.datasets()
	if err != nil {
		return s.store.State(), err
	}
	var (
		id      films.FilmID
		namesID bool
	)
	switch v := in.(type) {
	case viewstate.HoverFilm:
		id, namesID = v.Film, true
	case viewstate.FocusFilm:
		id, namesID = v.Film, true
	}
	if namesID {
		if _, ok := d.Lookup(id); !ok {
			return s.store.State(), newError(CodeFilmNotFound, "no film with that id", nil)
		}
	}

	next, err := s.store.Dispatch(in)
	s.record(in, err)
	if err != nil {
		return next, newError(CodeValidation, err.Error(), nil)
	}
	slog.Debug("intent applied", "intent", in.Kind())
	return next, nil
}

func (s *Session) record(in viewstate.Intent, dispatchErr error) {
	if s.opts.Journal == nil {
		return
	}
	e := journal.Entry{Intent: in.Kind(), Version: s.page.Version()}
	if payload, err := json.Marshal(viewstate.Encode(in)); err == nil {
		e.Payload = payload
	}
	if dispatchErr != nil {
		e.Error = dispatchErr.Error()
	}
	if err := s.opts.Journal.Record(e); err != nil {
		slog.Debug("intent not journaled", "intent", e.Intent, "error", err)
	}
}

// DispatchRaw decodes a wire envelope and dispatches it.
func (s *Session) DispatchRaw(ctx context.Context, raw []byte) error {
	in, err := viewstate.DecodeIntent(raw)
	if err != nil {
		return newError(CodeValidation, err.Error(), nil)
	}
	_, err = s.Dispatch(ctx, in)
	return err
}

// animates reports whether a transition draws the line charts in again.
func animates(cause viewstate.Intent) bool {
	switch cause.(type) {
	case nil, viewstate.SelectScoreKey, viewstate.ToggleAllScores:
		return true
	}
	return false
}

// render runs under the store lock after every accepted transition.
func (s *Session) render(next viewstate.State, cause viewstate.Intent) {
	data := s.currentData()
	dashboard.RerenderAll(s.page, next, data)
	frame := s.page.Frame()

	for _, t := range s.runner.Running() {
		s.runner.Cancel(t)
	}
	var targets []string
	if data.Loaded && s.runner.Enabled() && animates(cause) {
		targets = dashboard.AnimationTargets(s.page)
	}

	msg := FrameMessage{Type: relay.FeedFrame, Version: frame.Version, Fragments: frame.Fragments, Animate: targets}
	if err := s.broker.PublishJSON(relay.FeedFrame, msg); err != nil {
		slog.Warn("frame publish failed", "error", err)
	}
	st := StateMessage{Type: relay.FeedState, State: next, Loaded: data.Loaded}
	if data.Err != nil {
		st.Error = data.Err.Error()
	}
	if err := s.broker.PublishJSON(relay.FeedState, st); err != nil {
		slog.Warn("state publish failed", "error", err)
	}

	for _, t := range targets {
		s.runner.Start(s.ctx, t)
	}
}

func (s *Session) publishTick(t anim.Tick) {
	if err := s.broker.PublishJSON(relay.AnimFeed(t.Target), AnimMessage{Type: "anim", Tick: t}); err != nil {
		slog.Debug("anim publish failed", "target", t.Target, "error", err)
	}
}
