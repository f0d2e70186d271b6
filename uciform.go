// Package uciform builds server-side configuration forms for a router's web
// administration interface. Handlers declare typed fields bound to UCI paths,
// the form core resolves values from a configuration snapshot or submitted
// input, validates them with conditional visibility, and save callbacks turn
// the result into patches an external backend applies atomically.
//
// The root package re-exports the working surface of the subpackages so most
// callers only import this one.
package uciform

import (
	"context"
	"fmt"

	"github.com/goliatone/go-uciform/pkg/backend"
	"github.com/goliatone/go-uciform/pkg/form"
	"github.com/goliatone/go-uciform/pkg/handlers"
)

// Re-exported form types. See package form for details.
type (
	Form    = form.Form
	Data    = form.Data
	Field   = form.Field
	Values  = form.Values
	Result  = form.Result
	Action  = form.Action
	Handler = handlers.Handler
)

// Re-exported callback actions.
const (
	ActionEditConfig = form.ActionEditConfig
	ActionSaveResult = form.ActionSaveResult
	ActionNone       = form.ActionNone
)

// FromValues wraps a parsed form body as submitted data.
func FromValues(values map[string][]string) *Data {
	return form.FromValues(values)
}

// ErrNotAvailable reports that a handler's feature is missing on this device.
var ErrNotAvailable = handlers.ErrNotAvailable

// Outcome is the full result of processing one request against a handler:
// the built form for rendering, the validation state, and what the save
// produced, if one ran.
type Outcome struct {
	// Form is the built form, with values resolved and any validation
	// errors recorded on it.
	Form *Form

	// Valid reports whether submitted input passed validation. It is false
	// on initial render.
	Valid bool

	// Errors maps field names to validation messages.
	Errors map[string]string

	// Action and Payload carry the save result when callbacks ran.
	Action  Action
	Payload map[string]any

	// Applied reports whether a configuration patch was submitted to the
	// backend.
	Applied bool
}

// Process runs one request through a handler: it builds the form, and when
// the request carries submitted data, validates it, runs the save callbacks,
// and applies any resulting patch through the client. Pass nil data for
// initial render.
//
// A validation failure is not an error; inspect Outcome.Valid and
// Outcome.Errors. Errors are reserved for snapshot fetching, callback
// failures, and the backend rejecting the patch.
func Process(ctx context.Context, client backend.Client, handler Handler, data *Data) (*Outcome, error) {
	frm, err := handler.Form(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("uciform: build %s form: %w", handler.Name(), err)
	}

	outcome := &Outcome{Form: frm, Action: ActionNone}
	if !frm.Submitted() {
		return outcome, nil
	}

	if !frm.Validate() {
		outcome.Errors = frm.Errors()
		return outcome, nil
	}
	outcome.Valid = true

	result, err := frm.Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("uciform: save %s form: %w", handler.Name(), err)
	}
	outcome.Action = result.Action
	outcome.Payload = result.Payload

	if result.Action == ActionEditConfig {
		if err := client.Apply(ctx, result.Patch); err != nil {
			return nil, fmt.Errorf("uciform: apply %s patch: %w", handler.Name(), err)
		}
		outcome.Applied = true
	}
	return outcome, nil
}
