package relay

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

const sseKeepAlive = 25 * time.Second

// SSEHandler returns an http.HandlerFunc that streams broker events as SSE.
// Clients may filter feeds via ?feeds=frame,anim query parameter.
func SSEHandler(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming not supported", http.StatusInternalServerError)
			return
		}

		var feeds []string
		if q := r.URL.Query().Get("feeds"); q != "" {
			for _, f := range strings.Split(q, ",") {
				if f = strings.TrimSpace(f); f != "" {
					feeds = append(feeds, f)
				}
			}
		}
		wanted := func(evt Event) bool {
			if feeds == nil {
				return true
			}
			for _, f := range feeds {
				if evt.Matches(f) {
					return true
				}
			}
			return false
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		flusher.Flush()

		id, ch := broker.Subscribe()
		defer broker.Unsubscribe(id)

		keepAlive := time.NewTicker(sseKeepAlive)
		defer keepAlive.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-keepAlive.C:
				fmt.Fprint(w, ": keep-alive\n\n")
				flusher.Flush()
			case evt, ok := <-ch:
				if !ok {
					return
				}
				if !wanted(evt) {
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Kind(), evt.Payload)
				flusher.Flush()
			}
		}
	}
}
