package form

import "io"

// Data holds the raw submitted input for one request: field values keyed by
// name (as an HTTP form would post them) plus any file uploads. A nil *Data
// means the form is being built for initial render, which changes how
// checkbox absence reads: on a submitted form a missing checkbox is false,
// on initial render it falls back to the configuration snapshot.
type Data struct {
	Values map[string][]string
	Files  map[string]io.Reader
}

// FromValues wraps a parsed form body (e.g. url.Values) as submitted data.
func FromValues(values map[string][]string) *Data {
	return &Data{Values: values}
}

// Get returns the first submitted value for name and whether any was sent.
func (d *Data) Get(name string) (string, bool) {
	if d == nil {
		return "", false
	}
	values, ok := d.Values[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// List returns all submitted values for name.
func (d *Data) List(name string) []string {
	if d == nil {
		return nil
	}
	return d.Values[name]
}

// File returns the uploaded file for name, or nil.
func (d *Data) File(name string) io.Reader {
	if d == nil {
		return nil
	}
	return d.Files[name]
}
