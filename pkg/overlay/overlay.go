// Package overlay lets deployments override the wording of generated forms
// (titles, descriptions, labels, hints) with YAML or JSON documents, without
// touching handler code. It stands in for a full translation layer, which
// is out of scope for this module.
package overlay

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-uciform/pkg/form"
)

// FieldOverlay overrides one field's user-facing text. Empty values leave
// the declared text in place.
type FieldOverlay struct {
	Label string `json:"label" yaml:"label"`
	Hint  string `json:"hint" yaml:"hint"`
}

// SectionOverlay overrides one section's title and description.
type SectionOverlay struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// FormOverlay collects the overrides for one named form.
type FormOverlay struct {
	Sections map[string]SectionOverlay `json:"sections" yaml:"sections"`
	Fields   map[string]FieldOverlay   `json:"fields" yaml:"fields"`
}

// Store holds the overlays parsed from a document tree, keyed by form name.
type Store struct {
	forms map[string]FormOverlay
}

// Form returns the overlay registered for the named form.
func (s *Store) Form(name string) (FormOverlay, bool) {
	if s == nil {
		return FormOverlay{}, false
	}
	overlay, ok := s.forms[name]
	return overlay, ok
}

// Empty reports whether the store holds any overlays.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

// Apply rewrites the form's section and field text in place from the stored
// overlay, if one exists for the form's name.
func (s *Store) Apply(frm *form.Form) {
	if frm == nil {
		return
	}
	overlay, ok := s.Form(frm.Name)
	if !ok {
		return
	}
	for _, section := range frm.Sections() {
		if cfg, ok := overlay.Sections[section.Name]; ok {
			if cfg.Title != "" {
				section.Title = cfg.Title
			}
			if cfg.Description != "" {
				section.Description = cfg.Description
			}
		}
		for _, field := range section.Fields() {
			cfg, ok := overlay.Fields[field.Name]
			if !ok {
				continue
			}
			if cfg.Label != "" {
				field.Label = cfg.Label
			}
			if cfg.Hint != "" {
				field.Hint = cfg.Hint
			}
		}
	}
}

type documentFile struct {
	Forms map[string]FormOverlay `json:"forms" yaml:"forms"`
}

// LoadFS walks the provided filesystem and parses every JSON/YAML overlay
// document. A nil filesystem yields an empty store. A form defined by two
// documents is an error; merge semantics would hide typos.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{forms: make(map[string]FormOverlay)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isOverlayFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("overlay: read %s: %w", path, err)
		}
		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for name, overlay := range doc.Forms {
			trimmed := strings.TrimSpace(name)
			if trimmed == "" {
				return fmt.Errorf("overlay: file %s defines an empty form name", path)
			}
			if _, exists := store.forms[trimmed]; exists {
				return fmt.Errorf("overlay: duplicate form %q (file %s)", trimmed, path)
			}
			store.forms[trimmed] = overlay
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("overlay: file %s is empty", source)
	}

	var doc documentFile
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return documentFile{}, fmt.Errorf("overlay: parse %s: invalid JSON or YAML", source)
}

func isOverlayFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
