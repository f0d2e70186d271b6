package form

import (
	"io"

	"github.com/goliatone/go-uciform/pkg/validators"
)

const requiredMessage = "This field is required."

// Validate evaluates the form against its submitted input and returns
// whether it passed. It never returns an error: failures accumulate in the
// per-field error map for the caller to render.
//
// Visibility is computed first, as a pure function over the current value
// assignment of every field, so a field hidden by its requirements is exempt
// from both the required check and its validators no matter what was
// submitted for it.
func (f *Form) Validate() bool {
	f.errors = make(map[string]string)
	values := f.Values()

	f.eachField(func(field *Field) {
		if !visible(field, values) {
			return
		}
		if _, dup := f.errors[field.Name]; dup {
			return
		}

		value := field.value
		if field.Required && isEmpty(value) {
			f.errors[field.Name] = requiredMessage
			return
		}

		for _, validator := range field.Validators {
			if isEmpty(value) && !validatesEmpty(validator) {
				continue
			}
			if err := validator.Validate(value, values); err != nil {
				// Errors are per-field: the first failing validator wins.
				f.errors[field.Name] = err.Error()
				break
			}
		}
	})

	f.valid = len(f.errors) == 0
	return f.valid
}

// Valid reports the result of the last Validate call.
func (f *Form) Valid() bool {
	return f.valid
}

// Errors returns the per-field error messages from the last Validate call.
func (f *Form) Errors() map[string]string {
	return f.errors
}

func visible(field *Field, values Values) bool {
	for _, req := range field.requirements {
		if values[req.Field] != req.Value {
			return false
		}
	}
	return true
}

func validatesEmpty(v validators.Validator) bool {
	aware, ok := v.(validators.EmptyAware)
	return ok && aware.ValidatesEmpty()
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []string:
		return len(v) == 0
	case bool:
		// An unchecked box is a value, not an omission.
		return false
	case io.Reader:
		return v == nil
	default:
		return false
	}
}
