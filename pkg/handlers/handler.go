// Package handlers implements the per-domain form handlers of the router
// administration interface. Each handler fetches the configuration snapshot
// it needs, declares a form bound to UCI paths, and registers save callbacks
// that translate validated input into configuration patches.
package handlers

import (
	"context"
	"errors"

	"github.com/goliatone/go-uciform/pkg/form"
)

// ErrNotAvailable reports that a handler's domain is not present on this
// device (for example Wi-Fi on a router without wireless cards).
var ErrNotAvailable = errors.New("handlers: not available on this device")

// Handler orchestrates one configuration domain. Form builds a fresh form
// for the request; pass nil data for initial render. Handlers are stateless
// between requests apart from their backend client.
type Handler interface {
	// Name is the form name, stable across requests.
	Name() string
	// Title is the user-facing name of the domain.
	Title() string
	// Form fetches the needed configuration snapshot and declares the
	// domain's form with its save callbacks registered.
	Form(ctx context.Context, data *form.Data) (*form.Form, error)
}
