package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"strings"

	"github.com/google/uuid"

	"github.com/dgnsrekt/filmscope/internal/browser"
	"github.com/dgnsrekt/filmscope/internal/export"
	"github.com/dgnsrekt/filmscope/internal/snapshot"
	"github.com/dgnsrekt/filmscope/internal/viewstate"
)

// ExportRequest asks for one chart image.
type ExportRequest struct {
	Chart  string
	Format string
	Notes  string
}

func (s *Session) requireSnapshots() error {
	if s.opts.Snapshots == nil {
		return newError(CodeRenderFailure, "snapshot storage is not configured", nil)
	}
	return nil
}

func metaFor(state viewstate.State, chart, format string) snapshot.Meta {
	m := snapshot.Meta{
		ID:       uuid.New().String(),
		Chart:    chart,
		Format:   format,
		ScoreKey: string(state.View.ActiveScoreKey),
		ShowAll:  state.View.ShowAllScores,
		SortMode: string(state.Comparison.SortMode),
		Limit:    state.Comparison.DisplayCount.String(),
	}
	if state.View.HasFocus() {
		m.FocusFilm = fmt.Sprint(int(state.View.FocusedFilm))
	}
	return m
}

// Export renders a chart for the current state and stores it.
func (s *Session) Export(_ context.Context, req ExportRequest) (snapshot.Meta, error) {
	if err := s.requireSnapshots(); err != nil {
		return snapshot.Meta{}, err
	}
	kind, err := export.ParseKind(strings.TrimSpace(req.Chart))
	if err != nil {
		return snapshot.Meta{}, newError(CodeValidation, err.Error(), nil)
	}
	format, err := export.ParseFormat(strings.TrimSpace(req.Format))
	if err != nil {
		return snapshot.Meta{}, newError(CodeValidation, err.Error(), nil)
	}
	d, err := s.datasets()
	if err != nil {
		return snapshot.Meta{}, err
	}

	state := s.store.State()
	img, err := export.Render(kind, format, state, d)
	if err != nil {
		if errors.Is(err, export.ErrNothingToDraw) {
			return snapshot.Meta{}, newError(CodeValidation, err.Error(), nil)
		}
		return snapshot.Meta{}, newError(CodeRenderFailure, "render "+string(kind), err)
	}

	meta := metaFor(state, string(kind), img.Format)
	meta.Width, meta.Height = img.Width, img.Height
	meta.Notes = strings.TrimSpace(req.Notes)
	saved, err := s.opts.Snapshots.Save(meta, img.Data)
	if err != nil {
		return snapshot.Meta{}, newError(CodeRenderFailure, "save export", err)
	}
	return saved, nil
}

// ScreenshotRequest asks for a browser capture of the dashboard, or of one
// container.
type ScreenshotRequest struct {
	Container string
	Width     int
	Height    int
	Notes     string
}

// Screenshot captures the served dashboard in a headless browser and
// stores the PNG.
func (s *Session) Screenshot(ctx context.Context, req ScreenshotRequest) (snapshot.Meta, error) {
	if err := s.requireSnapshots(); err != nil {
		return snapshot.Meta{}, err
	}
	if s.opts.Capturer == nil || s.opts.BaseURL == "" {
		return snapshot.Meta{}, newError(CodeBrowserUnavailable, "screenshots are not configured", nil)
	}
	if req.Width < 0 || req.Height < 0 {
		return snapshot.Meta{}, newError(CodeValidation, "width and height must not be negative", nil)
	}
	opts := browser.Options{URL: strings.TrimRight(s.opts.BaseURL, "/") + "/", Width: req.Width, Height: req.Height}
	chart := "dashboard"
	if c := strings.TrimSpace(req.Container); c != "" {
		if !s.Layout().Has(c) {
			return snapshot.Meta{}, newError(CodeValidation, "no container "+c+" in the page layout", nil)
		}
		opts.Selector = "#" + c
		chart = c
	}

	data, err := s.opts.Capturer.Capture(ctx, opts)
	if err != nil {
		return snapshot.Meta{}, newError(CodeBrowserUnavailable, "screenshot failed", err)
	}

	meta := metaFor(s.store.State(), chart, snapshot.FormatPNG)
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		meta.Width, meta.Height = cfg.Width, cfg.Height
	}
	meta.Notes = strings.TrimSpace(req.Notes)
	saved, err := s.opts.Snapshots.Save(meta, data)
	if err != nil {
		return snapshot.Meta{}, newError(CodeRenderFailure, "save screenshot", err)
	}
	return saved, nil
}

func snapshotErr(err error) error {
	if errors.Is(err, snapshot.ErrNotFound) {
		return newError(CodeSnapshotNotFound, err.Error(), nil)
	}
	if errors.Is(err, snapshot.ErrInvalidID) {
		return newError(CodeValidation, err.Error(), nil)
	}
	return newError(CodeRenderFailure, "snapshot storage", err)
}

// ListSnapshots returns stored exports, newest first.
func (s *Session) ListSnapshots(_ context.Context) ([]snapshot.Meta, error) {
	if err := s.requireSnapshots(); err != nil {
		return nil, err
	}
	metas, err := s.opts.Snapshots.List()
	if err != nil {
		return nil, snapshotErr(err)
	}
	return metas, nil
}

// GetSnapshot returns one export's metadata.
func (s *Session) GetSnapshot(_ context.Context, id string) (snapshot.Meta, error) {
	if err := s.requireSnapshots(); err != nil {
		return snapshot.Meta{}, err
	}
	meta, err := s.opts.Snapshots.Get(strings.TrimSpace(id))
	if err != nil {
		return snapshot.Meta{}, snapshotErr(err)
	}
	return meta, nil
}

// ReadSnapshotImage returns an export's bytes and format.
func (s *Session) ReadSnapshotImage(_ context.Context, id string) ([]byte, string, error) {
	if err := s.requireSnapshots(); err != nil {
		return nil, "", err
	}
	data, format, err := s.opts.Snapshots.ReadImage(strings.TrimSpace(id))
	if err != nil {
		return nil, "", snapshotErr(err)
	}
	return data, format, nil
}

// DeleteSnapshot removes an export.
func (s *Session) DeleteSnapshot(_ context.Context, id string) error {
	if err := s.requireSnapshots(); err != nil {
		return err
	}
	if err := s.opts.Snapshots.Delete(strings.TrimSpace(id)); err != nil {
		return snapshotErr(err)
	}
	return nil
}
