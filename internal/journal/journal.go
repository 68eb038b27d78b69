// Package journal appends one JSON line per applied intent to date-organized
// files, rotated by size.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ErrClosed is returned by Record after Close.
var ErrClosed = errors.New("journal closed")

// ErrBufferFull is returned when the write queue is full. The entry is
// dropped.
var ErrBufferFull = errors.New("journal buffer full")

// Entry is one applied intent.
type Entry struct {
	Time    time.Time       `json:"time"`
	Intent  string          `json:"intent"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Version uint64          `json:"frame_version"`
	Error   string          `json:"error,omitempty"`
}

// Journal writes entries asynchronously.
type Journal struct {
	dir       string
	maxSizeMB int
	now       func() time.Time

	queue chan Entry
	done  chan struct{}
	wg    sync.WaitGroup

	mu          sync.Mutex
	currentDate string
	out         *lumberjack.Logger
	closed      bool
}

// New starts a journal under dir. Files live at dir/<yyyy-mm-dd>/intents.jsonl.
func New(dir string, bufferSize, maxSizeMB int) *Journal {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	if maxSizeMB <= 0 {
		maxSizeMB = 25
	}
	j := &Journal{
		dir:       dir,
		maxSizeMB: maxSizeMB,
		now:       func() time.Time { return time.Now().UTC() },
		queue:     make(chan Entry, bufferSize),
		done:      make(chan struct{}),
	}
	j.wg.Add(1)
	go j.loop()
	return j
}

// Record queues e without blocking. A zero Time is filled in.
func (j *Journal) Record(e Entry) error {
	if e.Time.IsZero() {
		e.Time = j.now()
	}
	select {
	case <-j.done:
		return ErrClosed
	default:
	}
	select {
	case j.queue <- e:
		return nil
	default:
		slog.Warn("journal buffer full, dropping entry", "intent", e.Intent)
		return ErrBufferFull
	}
}

// Close flushes queued entries and closes the current file.
func (j *Journal) Close() error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return nil
	}
	j.closed = true
	j.mu.Unlock()

	close(j.done)
	j.wg.Wait()

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.out != nil {
		return j.out.Close()
	}
	return nil
}

func (j *Journal) loop() {
	defer j.wg.Done()
	for {
		select {
		case e := <-j.queue:
			j.write(e)
		case <-j.done:
			for {
				select {
				case e := <-j.queue:
					j.write(e)
				default:
					return
				}
			}
		}
	}
}

func (j *Journal) write(e Entry) {
	data, err := json.Marshal(e)
	if err != nil {
		slog.Error("journal marshal failed", "intent", e.Intent, "error", err)
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	date := e.Time.UTC().Format("2006-01-02")
	if j.out == nil || date != j.currentDate {
		if err := j.rotate(date); err != nil {
			slog.Error("journal rotate failed", "dir", j.dir, "error", err)
			return
		}
	}
	if _, err := j.out.Write(append(data, '\n')); err != nil {
		slog.Error("journal write failed", "error", err)
	}
}

func (j *Journal) rotate(date string) error {
	if j.out != nil {
		if err := j.out.Close(); err != nil {
			slog.Debug("journal close failed", "error", err)
		}
	}
	dir := filepath.Join(j.dir, date)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create journal dir: %w", err)
	}
	j.out = &lumberjack.Logger{
		Filename:   filepath.Join(dir, "intents.jsonl"),
		MaxSize:    j.maxSizeMB,
		MaxBackups: 100,
		MaxAge:     30,
	}
	j.currentDate = date
	slog.Info("journal file opened", "file", j.out.Filename)
	return nil
}
