// Package netutil picks the HTTP listen address.
package netutil

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
)

// ErrNoAddress is returned when neither the preferred address nor any
// candidate can be bound.
var ErrNoAddress = errors.New("no available filmscope bind address")

// Listen binds the preferred address, or the first free candidate when
// autoFallback is set. The returned listener is handed straight to the HTTP
// server so the port cannot be taken between the check and the bind.
func Listen(preferred string, candidates []string, autoFallback bool) (net.Listener, error) {
	if preferred != "" {
		ln, err := net.Listen("tcp", preferred)
		if err == nil {
			return ln, nil
		}
		if !autoFallback {
			return nil, fmt.Errorf("preferred bind address in use: %s: %w", preferred, err)
		}
		slog.Warn("preferred bind address unavailable", "addr", preferred, "error", err)
	}

	for _, addr := range candidates {
		if addr == preferred {
			continue
		}
		ln, err := net.Listen("tcp", addr)
		if err == nil {
			return ln, nil
		}
		slog.Debug("candidate bind address unavailable", "addr", addr, "error", err)
	}
	return nil, ErrNoAddress
}
