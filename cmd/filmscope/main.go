package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dgnsrekt/filmscope/internal/api"
	"github.com/dgnsrekt/filmscope/internal/browser"
	"github.com/dgnsrekt/filmscope/internal/config"
	"github.com/dgnsrekt/filmscope/internal/films"
	"github.com/dgnsrekt/filmscope/internal/journal"
	"github.com/dgnsrekt/filmscope/internal/netutil"
	"github.com/dgnsrekt/filmscope/internal/session"
	"github.com/dgnsrekt/filmscope/internal/snapshot"
	"github.com/dgnsrekt/filmscope/internal/viewstate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := setupLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		if _, writeErr := io.WriteString(os.Stderr, "logger setup failed: "+err.Error()+"\n"); writeErr != nil {
			slog.Debug("logger setup stderr write failed", "error", writeErr)
		}
		os.Exit(1)
	}

	slog.Info("filmscope config loaded",
		"bind_addr", cfg.BindAddr,
		"port_auto_fallback", cfg.PortAutoFallback,
		"port_candidates", cfg.PortCandidates,
		"horror_csv", cfg.HorrorCSV,
		"non_horror_csv", cfg.NonHorrorCSV,
		"layout_file", cfg.LayoutFile,
		"animation_ms", cfg.AnimationMS,
		"snapshot_dir", cfg.SnapshotDir,
		"journal_dir", cfg.JournalDir,
		"cdp_url", cfg.GetCDPURL(),
		"log_level", cfg.LogLevel,
		"log_file", cfg.LogFile,
	)

	layout, err := config.LoadLayout(cfg.LayoutFile)
	if err != nil {
		slog.Error("failed to load layout", "path", cfg.LayoutFile, "error", err)
		os.Exit(1)
	}

	initial, err := initialState(cfg)
	if err != nil {
		slog.Error("invalid comparison defaults", "error", err)
		os.Exit(1)
	}

	ln, err := netutil.Listen(cfg.BindAddr, cfg.PortCandidates, cfg.PortAutoFallback)
	if err != nil {
		slog.Error("failed to select bind address", "preferred", cfg.BindAddr, "error", err)
		os.Exit(1)
	}
	bindAddr := ln.Addr().String()

	snapStore, err := snapshot.NewStore(cfg.SnapshotDir)
	if err != nil {
		slog.Error("failed to create snapshot store", "dir", cfg.SnapshotDir, "error", err)
		os.Exit(1)
	}

	var intents session.Recorder
	if cfg.JournalDir != "" {
		j := journal.New(cfg.JournalDir, 256, 25)
		defer j.Close()
		intents = j
	}

	sess := session.New(session.Options{
		Horror:            films.SourceFor(cfg.HorrorCSV),
		NonHorror:         films.SourceFor(cfg.NonHorrorCSV),
		LoadTimeout:       cfg.LoadTimeout(),
		Layout:            layout,
		Initial:           initial,
		AnimationDuration: cfg.AnimationDuration(),
		AnimationTick:     cfg.AnimationTick(),
		Snapshots:         snapStore,
		Capturer:          browser.NewScreenshotter(cfg.GetCDPURL(), cfg.ScreenshotTimeout()),
		BaseURL:           "http://" + bindAddr,
		Journal:           intents,
	}, nil)
	defer sess.Close()

	// The page still serves the error overlay and its retry action when the
	// first load fails.
	if err := sess.Load(context.Background()); err != nil {
		slog.Warn("starting without film data", "error", err)
	}

	h := api.NewServer(sess, sess.Broker())
	srv := &http.Server{Handler: h, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		slog.Info("filmscope listening", "addr", bindAddr, "dashboard", "http://"+bindAddr+"/", "docs", "http://"+bindAddr+"/docs")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("filmscope server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("filmscope shutdown failed", "error", err)
	}
}

func initialState(cfg *config.Config) (viewstate.State, error) {
	limit, err := viewstate.ParseLimit(cfg.ComparisonLimit)
	if err != nil {
		return viewstate.State{}, err
	}
	mode, err := viewstate.ParseSortMode(cfg.ComparisonSort)
	if err != nil {
		return viewstate.State{}, err
	}
	s := viewstate.Initial()
	return s.WithComparison(viewstate.ComparisonSettings{DisplayCount: limit, SortMode: mode}), nil
}

func setupLogger(level, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return err
	}

	logWriter := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    25,
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	}

	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	h := slog.NewTextHandler(io.MultiWriter(os.Stdout, logWriter), &slog.HandlerOptions{Level: slogLevel})
	slog.SetDefault(slog.New(h))
	return nil
}
