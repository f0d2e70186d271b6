package form

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/goliatone/go-uciform/pkg/uci"
)

// Action tags what a save callback asks the caller to do with its result.
type Action string

const (
	// ActionEditConfig carries a patch to submit to the configuration store.
	ActionEditConfig Action = "edit_config"
	// ActionSaveResult carries an opaque result for the caller to display,
	// such as a wrong-password notice. It aborts any pending patch.
	ActionSaveResult Action = "save_result"
	// ActionNone asks for nothing further.
	ActionNone Action = "none"
)

// Result is what a save callback returns, and also the aggregate outcome of
// running all of a form's callbacks.
type Result struct {
	Action  Action
	Patch   *uci.Patch
	Payload map[string]any
}

// EditConfig wraps a patch as a callback result.
func EditConfig(patch *uci.Patch) Result {
	return Result{Action: ActionEditConfig, Patch: patch}
}

// SaveResult wraps an opaque payload as a callback result.
func SaveResult(payload map[string]any) Result {
	return Result{Action: ActionSaveResult, Payload: payload}
}

// NoAction reports that the callback has nothing for the caller to do; any
// side effects already happened.
func NoAction() Result {
	return Result{Action: ActionNone}
}

// Callback turns validated form values into a result. Callbacks may invoke
// side-effecting backend calls before returning; those calls are best-effort
// and are not rolled back if a later callback fails.
type Callback func(ctx context.Context, values Values) (Result, error)

// AddCallback registers a save callback. Callbacks run in registration
// order.
func (f *Form) AddCallback(cb Callback) {
	f.callbacks = append(f.callbacks, cb)
}

// ErrNotValidated is returned by Save when the form has not passed
// validation.
var ErrNotValidated = errors.New("form: save requires a validated form")

// Save runs the registered callbacks in order and folds their results.
//
// Patches from edit_config results merge into one; a save_result aborts the
// remaining callbacks and discards any pending patch, so a domain error
// (wrong old password, failed restore) can never end in a config write. A
// none result just moves on. Applying the final patch is the caller's job.
func (f *Form) Save(ctx context.Context) (Result, error) {
	if !f.valid {
		return Result{}, ErrNotValidated
	}

	values := f.Values()
	combined := uci.NewPatch()

	for _, cb := range f.callbacks {
		result, err := cb(ctx, values)
		if err != nil {
			return Result{}, fmt.Errorf("form %q: save callback: %w", f.Name, err)
		}
		switch result.Action {
		case ActionEditConfig:
			combined.Merge(result.Patch)
		case ActionSaveResult:
			return result, nil
		case ActionNone:
			// keep going
		default:
			return Result{}, fmt.Errorf("form %q: unknown callback action %q", f.Name, result.Action)
		}
	}

	if combined.Empty() {
		return NoAction(), nil
	}
	return EditConfig(combined), nil
}

// Values maps field names to their currently assigned values. The typed
// accessors return zero values for missing or differently-typed entries.
type Values map[string]any

// String returns the string value of name.
func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// Bool returns the boolean value of name.
func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

// Strings returns the multi-value entry of name.
func (v Values) Strings(name string) []string {
	s, _ := v[name].([]string)
	return s
}

// File returns the uploaded file stored under name.
func (v Values) File(name string) io.Reader {
	r, _ := v[name].(io.Reader)
	return r
}
