// Package location resolves a visitor's approximate geographic position.
//
// A browser SPA would ask the platform's geolocation API; here the server
// makes a best-effort IP lookup instead. Resolution failure is never fatal:
// the caller falls back to the unfiltered station list.
package location

import (
	"context"
	"errors"
)

// ErrUnresolvable means the address can never produce a position
// (private range, loopback, malformed). Callers should not retry.
var ErrUnresolvable = errors.New("location: address cannot be resolved")

// Point is a captured user position in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Resolver turns a remote IP address into a Point.
type Resolver interface {
	Resolve(ctx context.Context, ip string) (*Point, error)
}
