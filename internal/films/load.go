package films

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
)

// Source opens one tabular input.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// FileSource reads a CSV file from disk.
type FileSource struct {
	Path string
}

func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	return f, nil
}

func (s FileSource) String() string { return s.Path }

// HTTPSource fetches a CSV over HTTP(S).
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	c := s.Client
	if c == nil {
		c = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.URL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: status=%d", s.URL, resp.StatusCode)
	}
	return resp.Body, nil
}

func (s HTTPSource) String() string { return s.URL }

// SourceFor returns an HTTPSource for http(s) locations and a FileSource
// otherwise.
func SourceFor(location string) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return HTTPSource{URL: location}
	}
	return FileSource{Path: location}
}

// Datasets holds both parsed partitions. IDs are assigned horror first, then
// non-horror, so All()[id] is the record with that ID.
type Datasets struct {
	Horror    []FilmRecord
	NonHorror []FilmRecord
}

// NewDatasets assigns stable IDs across both partitions.
func NewDatasets(horror, nonHorror []FilmRecord) Datasets {
	d := Datasets{
		Horror:    append([]FilmRecord(nil), horror...),
		NonHorror: append([]FilmRecord(nil), nonHorror...),
	}
	for i := range d.Horror {
		d.Horror[i].ID = FilmID(i)
	}
	for i := range d.NonHorror {
		d.NonHorror[i].ID = FilmID(len(d.Horror) + i)
	}
	return d
}

// All returns horror then non-horror records in a new slice.
func (d Datasets) All() []FilmRecord {
	out := make([]FilmRecord, 0, len(d.Horror)+len(d.NonHorror))
	out = append(out, d.Horror...)
	return append(out, d.NonHorror...)
}

// Len returns the combined record count.
func (d Datasets) Len() int { return len(d.Horror) + len(d.NonHorror) }

// Lookup returns the record with the given ID.
func (d Datasets) Lookup(id FilmID) (FilmRecord, bool) {
	i := int(id)
	switch {
	case i < 0:
		return FilmRecord{}, false
	case i < len(d.Horror):
		return d.Horror[i], true
	case i < d.Len():
		return d.NonHorror[i-len(d.Horror)], true
	}
	return FilmRecord{}, false
}

// LoadError reports which inputs failed during Load.
type LoadError struct {
	Failures map[Dataset]error
}

func (e *LoadError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, ds := range []Dataset{DatasetHorror, DatasetNonHorror} {
		if err, ok := e.Failures[ds]; ok {
			parts = append(parts, fmt.Sprintf("%s: %v", ds, err))
		}
	}
	return "load datasets: " + strings.Join(parts, "; ")
}

func (e *LoadError) Unwrap() []error {
	out := make([]error, 0, len(e.Failures))
	for _, err := range e.Failures {
		out = append(out, err)
	}
	return out
}

// Load fetches and parses both inputs concurrently. Both must succeed; any
// failure discards the other result.
func Load(ctx context.Context, horror, nonHorror Source) (Datasets, error) {
	type result struct {
		ds    Dataset
		films []FilmRecord
		err   error
	}

	jobs := []struct {
		ds    Dataset
		src   Source
		parse func(io.Reader) ([]FilmRecord, error)
	}{
		{DatasetHorror, horror, ParseHorror},
		{DatasetNonHorror, nonHorror, ParseNonHorror},
	}

	results := make([]result, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := result{ds: job.ds}
			defer func() { results[i] = res }()

			rc, err := job.src.Open(ctx)
			if err != nil {
				res.err = err
				return
			}
			defer func() {
				if err := rc.Close(); err != nil {
					slog.Debug("dataset source close failed", "source", job.src.String(), "error", err)
				}
			}()
			res.films, res.err = job.parse(rc)
		}()
	}
	wg.Wait()

	failures := make(map[Dataset]error)
	for _, r := range results {
		if r.err != nil {
			failures[r.ds] = r.err
		}
	}
	if len(failures) > 0 {
		return Datasets{}, &LoadError{Failures: failures}
	}
	if err := ctx.Err(); err != nil {
		return Datasets{}, fmt.Errorf("load datasets: %w", err)
	}

	slog.Info("datasets loaded",
		"horror", len(results[0].films),
		"non_horror", len(results[1].films),
	)
	return NewDatasets(results[0].films, results[1].films), nil
}
