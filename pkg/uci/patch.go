package uci

import "strconv"

// OpKind enumerates the mutations a patch may request for a single option or
// list within a section.
type OpKind string

const (
	// OpSet assigns a scalar option value, creating the option if needed.
	OpSet OpKind = "set"
	// OpRemove deletes an option.
	OpRemove OpKind = "remove"
	// OpReplaceList replaces the full membership of a list option.
	OpReplaceList OpKind = "replace_list"
	// OpRemoveList deletes a list option entirely.
	OpRemoveList OpKind = "remove_list"
)

// Op is a single mutation. Value is set for OpSet, Values for OpReplaceList.
type Op struct {
	Kind   OpKind
	Name   string
	Value  string
	Values []string
}

// Patch is a purely additive description of configuration mutations, grouped
// by config and section. Applying it atomically is the backend's job; the
// patch itself never touches a Tree.
type Patch struct {
	Configs []*ConfigPatch
}

// NewPatch returns an empty patch.
func NewPatch() *Patch {
	return &Patch{}
}

// Config returns the named config group, adding it on first use.
func (p *Patch) Config(name string) *ConfigPatch {
	for _, config := range p.Configs {
		if config.Name == name {
			return config
		}
	}
	config := &ConfigPatch{Name: name}
	p.Configs = append(p.Configs, config)
	return config
}

// Empty reports whether the patch carries no operations at all.
func (p *Patch) Empty() bool {
	if p == nil {
		return true
	}
	for _, config := range p.Configs {
		for _, section := range config.Sections {
			if len(section.Ops) > 0 {
				return false
			}
		}
	}
	return true
}

// Merge folds the other patch into p, matching configs by name and sections
// by name and type. Operations keep their relative order.
func (p *Patch) Merge(other *Patch) {
	if other == nil {
		return
	}
	for _, config := range other.Configs {
		target := p.Config(config.Name)
		for _, section := range config.Sections {
			merged := target.section(section.Name, section.Type, section.Anonymous)
			merged.Ops = append(merged.Ops, section.Ops...)
		}
	}
}

// ConfigPatch collects section mutations for one named config.
type ConfigPatch struct {
	Name     string
	Sections []*SectionPatch
}

// Section returns the named section of the given type, adding it on first
// use.
func (c *ConfigPatch) Section(name, sectionType string) *SectionPatch {
	return c.section(name, sectionType, false)
}

// AnonymousSection returns an anonymous section of the given type. An empty
// name asks the backend to create a fresh section.
func (c *ConfigPatch) AnonymousSection(name, sectionType string) *SectionPatch {
	return c.section(name, sectionType, true)
}

func (c *ConfigPatch) section(name, sectionType string, anonymous bool) *SectionPatch {
	for _, section := range c.Sections {
		if section.Name == name && section.Type == sectionType && section.Anonymous == anonymous {
			return section
		}
	}
	section := &SectionPatch{Name: name, Type: sectionType, Anonymous: anonymous}
	c.Sections = append(c.Sections, section)
	return section
}

// SectionPatch collects the ordered operations against one section.
type SectionPatch struct {
	Name      string
	Type      string
	Anonymous bool
	Ops       []Op
}

// Set assigns a scalar option value.
func (s *SectionPatch) Set(name, value string) *SectionPatch {
	s.Ops = append(s.Ops, Op{Kind: OpSet, Name: name, Value: value})
	return s
}

// SetBool assigns "1" or "0", matching how UCI stores booleans.
func (s *SectionPatch) SetBool(name string, value bool) *SectionPatch {
	if value {
		return s.Set(name, "1")
	}
	return s.Set(name, "0")
}

// SetInt assigns the decimal representation of value.
func (s *SectionPatch) SetInt(name string, value int) *SectionPatch {
	return s.Set(name, strconv.Itoa(value))
}

// Remove deletes an option, clearing config left over from another mode.
func (s *SectionPatch) Remove(name string) *SectionPatch {
	s.Ops = append(s.Ops, Op{Kind: OpRemove, Name: name})
	return s
}

// ReplaceList replaces the full membership of a list option.
func (s *SectionPatch) ReplaceList(name string, values ...string) *SectionPatch {
	s.Ops = append(s.Ops, Op{Kind: OpReplaceList, Name: name, Values: append([]string(nil), values...)})
	return s
}

// RemoveList deletes a list option entirely.
func (s *SectionPatch) RemoveList(name string) *SectionPatch {
	s.Ops = append(s.Ops, Op{Kind: OpRemoveList, Name: name})
	return s
}
