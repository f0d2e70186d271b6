package form

import (
	"github.com/goliatone/go-uciform/pkg/uci"
	"github.com/goliatone/go-uciform/pkg/validators"
)

// Kind is the simplified enum for form-friendly field kinds. It decides how
// submitted input is parsed: checkboxes become booleans, multi-checkboxes
// become string slices, files resolve from the request's uploads, everything
// else stays a string.
type Kind string

const (
	KindText          Kind = "text"
	KindPassword      Kind = "password"
	KindCheckbox      Kind = "checkbox"
	KindMultiCheckbox Kind = "multicheckbox"
	KindDropdown      Kind = "dropdown"
	KindRadio         Kind = "radio"
	KindNumber        Kind = "number"
	KindEmail         Kind = "email"
	KindTime          Kind = "time"
	KindHidden        Kind = "hidden"
	KindFile          Kind = "file"
)

// Choice is one selectable option of a dropdown, radio, or multi-checkbox.
type Choice struct {
	Value string
	Label string
}

// Requirement gates a field's visibility on another field holding an exact
// value. All requirements must hold for the field to participate in
// validation and saving.
type Requirement struct {
	Field string
	Value any
}

// Field is a typed, named datum bound to one configuration path.
//
// When the form carries no submitted input, the field's value comes from
// resolving SourcePath against the snapshot tree (passed through Extract when
// set) and falls back to Default when the path is absent. Submitted input
// always takes precedence.
type Field struct {
	Name       string
	Kind       Kind
	Label      string
	Hint       string
	Required   bool
	Default    any
	SourcePath string
	Extract    func(*uci.Node) any
	Choices    []Choice
	Validators []validators.Validator

	requirements []Requirement
	value        any
}

// Requires adds a visibility precondition on another field's current value
// and returns the field for chaining. Only fields declared earlier may be
// referenced; forward references are not supported.
func (f *Field) Requires(field string, value any) *Field {
	f.requirements = append(f.requirements, Requirement{Field: field, Value: value})
	return f
}

// Requirements returns the field's visibility preconditions in order.
func (f *Field) Requirements() []Requirement {
	return f.requirements
}

// Value returns the field's resolved value for this request.
func (f *Field) Value() any {
	return f.value
}

// SafeHint returns the hint with any markup sanitised for embedding.
func (f *Field) SafeHint() string {
	return sanitizeMarkup(f.Hint)
}
