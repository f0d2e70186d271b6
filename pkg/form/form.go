package form

import (
	"github.com/goliatone/go-uciform/pkg/uci"
)

// Form is a named collection of sections holding the submitted input (if
// any), the configuration snapshot it was built from, and the registered
// save callbacks. Forms live for a single request; build one fresh every
// time.
type Form struct {
	Name string

	sections  []*Section
	data      *Data
	tree      *uci.Tree
	callbacks []Callback
	valid     bool
	errors    map[string]string
}

// Option customises a form under construction.
type Option func(*Form)

// WithTree supplies the configuration snapshot fields pre-fill from.
func WithTree(tree *uci.Tree) Option {
	return func(f *Form) {
		f.tree = tree
	}
}

// New constructs a form for one request. Pass nil data for initial render.
func New(name string, data *Data, options ...Option) *Form {
	f := &Form{Name: name, data: data}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Tree returns the snapshot the form was built from, for handlers that need
// auxiliary reads while declaring fields or building patches.
func (f *Form) Tree() *uci.Tree {
	return f.tree
}

// Submitted reports whether the form carries submitted input.
func (f *Form) Submitted() bool {
	return f.data != nil
}

// AddSection appends a named section. Declaration order is rendering and
// validation order.
func (f *Form) AddSection(name, title, description string) *Section {
	section := &Section{Name: name, Title: title, Description: description, form: f}
	f.sections = append(f.sections, section)
	return section
}

// Sections returns the form's sections in declaration order.
func (f *Form) Sections() []*Section {
	return f.sections
}

// Field looks a field up by name across all sections.
func (f *Form) Field(name string) *Field {
	for _, section := range f.sections {
		for _, field := range section.fields {
			if field.Name == name {
				return field
			}
		}
	}
	return nil
}

// Values returns the currently assigned value of every field keyed by name,
// hidden fields included. Callbacks and validators read from this map.
func (f *Form) Values() Values {
	values := make(Values)
	f.eachField(func(field *Field) {
		values[field.Name] = field.value
	})
	return values
}

func (f *Form) eachField(fn func(*Field)) {
	for _, section := range f.sections {
		for _, field := range section.fields {
			fn(field)
		}
	}
}

// resolve computes a field's value for this request. A submitted form is
// authoritative for every field, absent keys included; only an initial
// render reads the snapshot via SourcePath and Extract, then the default.
func (f *Form) resolve(field *Field) any {
	if f.data != nil {
		switch field.Kind {
		case KindCheckbox:
			// A submitted form omits unchecked boxes entirely.
			raw, ok := f.data.Get(field.Name)
			return ok && uci.ParseBool(raw)
		case KindMultiCheckbox:
			return append([]string(nil), f.data.List(field.Name)...)
		case KindFile:
			return f.data.File(field.Name)
		default:
			if raw, ok := f.data.Get(field.Name); ok {
				return raw
			}
			// Absence from a submission reads as empty, same as an
			// unchecked box. The snapshot fallback is for initial render
			// only; reading it here would resurrect stale config.
			return zeroValue(field.Kind)
		}
	}

	if field.SourcePath != "" {
		if node := f.tree.Find(field.SourcePath); node != nil {
			if field.Extract != nil {
				if extracted := field.Extract(node); extracted != nil {
					return coerce(field.Kind, extracted)
				}
			} else if len(node.Children) == 0 {
				return coerce(field.Kind, node.Value)
			} else {
				// A list or section node without an extraction transform is
				// exposed raw.
				return node
			}
		}
	}

	if field.Default != nil {
		return coerce(field.Kind, field.Default)
	}
	return zeroValue(field.Kind)
}

// coerce normalises a pre-fill value to the field kind's value type. Only
// checkboxes need conversion: stored UCI booleans arrive as "0"/"1" strings.
func coerce(kind Kind, value any) any {
	if kind != KindCheckbox {
		return value
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return uci.ParseBool(v)
	default:
		return false
	}
}

func zeroValue(kind Kind) any {
	switch kind {
	case KindCheckbox:
		return false
	case KindMultiCheckbox:
		return []string(nil)
	case KindFile:
		return nil
	default:
		return ""
	}
}

// Section is an ordered, named group of fields with a title and description.
type Section struct {
	Name        string
	Title       string
	Description string

	fields []*Field
	form   *Form
}

// AddField resolves the field's value for this request, appends the field,
// and returns it so visibility requirements can be chained on.
func (s *Section) AddField(field *Field) *Field {
	if field.Label == "" {
		field.Label = defaultLabel(field.Name)
	}
	field.value = s.form.resolve(field)
	s.fields = append(s.fields, field)
	return field
}

// Fields returns the section's fields in declaration order.
func (s *Section) Fields() []*Field {
	return s.fields
}

// SafeDescription returns the description with any markup sanitised.
func (s *Section) SafeDescription() string {
	return sanitizeMarkup(s.Description)
}
