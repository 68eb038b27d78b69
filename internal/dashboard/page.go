// Package dashboard owns the page containers and rebuilds all of them from
// the view state on every change.
package dashboard

import (
	"strings"
	"sync"

	"github.com/dgnsrekt/filmscope/internal/config"
	"github.com/dgnsrekt/filmscope/internal/dom"
)

// Page is the set of containers declared by a layout. Each container is a
// node whose children are replaced wholesale on every render.
type Page struct {
	layout *config.Layout

	mu         sync.RWMutex
	containers map[string]*dom.Node
	version    uint64
}

// NewPage creates empty containers for every id in layout.
func NewPage(layout *config.Layout) *Page {
	if layout == nil {
		layout = config.DefaultLayout()
	}
	p := &Page{layout: layout, containers: make(map[string]*dom.Node)}
	for _, id := range layout.Containers {
		p.containers[id] = dom.El("div").Attr("id", id)
	}
	return p
}

// Layout returns the page layout.
func (p *Page) Layout() *config.Layout { return p.layout }

// Frame is the rendered content of every container at one version.
type Frame struct {
	Version   uint64            `json:"version"`
	Fragments map[string]string `json:"fragments"`
}

// Frame renders every container's children.
func (p *Page) Frame() Frame {
	p.mu.RLock()
	defer p.mu.RUnlock()
	f := Frame{Version: p.version, Fragments: make(map[string]string, len(p.containers))}
	for id, n := range p.containers {
		f.Fragments[id] = innerHTML(n)
	}
	return f
}

// Fragment renders one container's children. ok is false when the layout
// has no such container.
func (p *Page) Fragment(id string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	n, ok := p.containers[id]
	if !ok {
		return "", false
	}
	return innerHTML(n), true
}

// Inspect runs fn on a container while the page is locked for reading.
func (p *Page) Inspect(id string, fn func(*dom.Node)) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	n, ok := p.containers[id]
	if ok {
		fn(n)
	}
	return ok
}

// Version counts completed renders.
func (p *Page) Version() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.version
}

func innerHTML(n *dom.Node) string {
	var b strings.Builder
	for _, c := range n.Children() {
		b.WriteString(c.String())
	}
	return b.String()
}
