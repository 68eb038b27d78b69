package relay

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
)

const subscriberBufSize = 256

// Feed names. Animation feeds are FeedAnimPrefix + target.
const (
	FeedFrame      = "frame"
	FeedState      = "state"
	FeedAnimPrefix = "anim:"
)

// Event is one message fanned out to SSE and WebSocket clients. Payload is a
// JSON document.
type Event struct {
	Feed    string
	Payload string
}

// AnimFeed returns the feed name for an animation target.
func AnimFeed(target string) string { return FeedAnimPrefix + target }

// Kind is the feed without its target suffix: "frame", "state" or "anim".
func (e Event) Kind() string {
	if strings.HasPrefix(e.Feed, FeedAnimPrefix) {
		return strings.TrimSuffix(FeedAnimPrefix, ":")
	}
	return e.Feed
}

// Matches reports whether the event belongs to feed. The bare name "anim"
// matches every animation feed.
func (e Event) Matches(feed string) bool {
	return e.Feed == feed || e.Kind() == feed
}

// Broker fans out events to every subscriber. The latest frame and state
// events are retained and replayed to new subscribers so a late joiner
// starts from the current page.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[int64]chan Event
	retained    map[string]Event
	nextID      atomic.Int64
}

// NewBroker creates a new event broker.
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[int64]chan Event),
		retained:    make(map[string]Event),
	}
}

// Subscribe registers a new client. Returns the subscriber ID and a channel
// to receive events on, pre-loaded with the retained events. The channel is
// buffered; slow consumers lose animation ticks, never frames.
func (b *Broker) Subscribe() (int64, <-chan Event) {
	id := b.nextID.Add(1)
	ch := make(chan Event, subscriberBufSize)
	b.mu.Lock()
	for _, feed := range []string{FeedState, FeedFrame} {
		if evt, ok := b.retained[feed]; ok {
			ch <- evt
		}
	}
	b.subscribers[id] = ch
	b.mu.Unlock()
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broker) Unsubscribe(id int64) {
	b.mu.Lock()
	ch, ok := b.subscribers[id]
	if ok {
		delete(b.subscribers, id)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers without blocking. Animation
// ticks are dropped for a client whose buffer is full. Frame and state
// events are never dropped: queued ticks and superseded events of the same
// feed are evicted to make room.
func (b *Broker) Publish(evt Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	keep := evt.Feed == FeedFrame || evt.Feed == FeedState
	if keep {
		b.retained[evt.Feed] = evt
	}
	for id, ch := range b.subscribers {
		select {
		case ch <- evt:
			continue
		default:
		}
		if keep {
			b.compact(id, ch, evt)
		}
	}
}

// compact empties a full subscriber buffer, puts back what still matters
// and then queues evt. Called with b.mu held.
func (b *Broker) compact(id int64, ch chan Event, evt Event) {
	var kept []Event
	dropped := 0
drain:
	for {
		select {
		case queued := <-ch:
			if queued.Kind() == "anim" || queued.Feed == evt.Feed {
				dropped++
				continue
			}
			kept = append(kept, queued)
		default:
			break drain
		}
	}
	for _, queued := range append(kept, evt) {
		select {
		case ch <- queued:
		default:
			slog.Warn("relay subscriber buffer still full", "subscriber", id, "feed", queued.Feed)
		}
	}
	slog.Debug("relay evicted queued events for slow subscriber", "subscriber", id, "evicted", dropped, "feed", evt.Feed)
}

// PublishJSON marshals v and publishes it on feed.
func (b *Broker) PublishJSON(feed string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("relay: marshal %s event: %w", feed, err)
	}
	b.Publish(Event{Feed: feed, Payload: string(data)})
	return nil
}

// ClientCount returns the number of active subscribers.
func (b *Broker) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
