package mesh

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/retrodesk/render"
)

var (
	// ErrTemplateNotFound is returned when a required template is missing.
	ErrTemplateNotFound = errors.New("mesh: template not found")

	// ErrDuplicateTemplate is returned by NewLibrary for repeated names.
	ErrDuplicateTemplate = errors.New("mesh: duplicate template")

	// ErrInvalidTemplate is returned by NewLibrary for unnamed templates or
	// malformed bounds.
	ErrInvalidTemplate = errors.New("mesh: invalid template")
)

// Template is a reusable piece of geometry with its final material.
type Template struct {
	Name     string
	Bounds   Box3
	Material render.Material
}

// Library maps template names to templates.
// A Library is read-only after NewLibrary and safe for concurrent use.
type Library struct {
	templates map[string]Template
	names     []string
}

// NewLibrary builds a library from templates.
func NewLibrary(templates ...Template) (*Library, error) {
	l := &Library{
		templates: make(map[string]Template, len(templates)),
		names:     make([]string, 0, len(templates)),
	}
	for _, t := range templates {
		if t.Name == "" {
			return nil, fmt.Errorf("%w: empty name", ErrInvalidTemplate)
		}
		if !t.Bounds.Valid() {
			return nil, fmt.Errorf("%w: %q has malformed bounds", ErrInvalidTemplate, t.Name)
		}
		if _, ok := l.templates[t.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTemplate, t.Name)
		}
		l.templates[t.Name] = t
		l.names = append(l.names, t.Name)
	}
	slices.Sort(l.names)
	return l, nil
}

// Template returns the template called name.
func (l *Library) Template(name string) (Template, bool) {
	t, ok := l.templates[name]
	return t, ok
}

// Require checks that every name is present. The returned error lists all
// missing names and matches ErrTemplateNotFound.
func (l *Library) Require(names ...string) error {
	var errs []error
	for _, name := range names {
		if _, ok := l.templates[name]; !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrTemplateNotFound, name))
		}
	}
	return errors.Join(errs...)
}

// Names returns the template names in sorted order.
func (l *Library) Names() []string {
	return slices.Clone(l.names)
}

// Len returns the number of templates.
func (l *Library) Len() int {
	return len(l.templates)
}
