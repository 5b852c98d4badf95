package schema

import "fmt"

// Registry is the name-keyed set of tables making up one schema. Foreign
// keys and CLI surfaces resolve tables through it instead of holding
// object pointers across tables.
type Registry struct {
	tables map[string]*Table
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tables: make(map[string]*Table)}
}

// Add registers a table. Table names are unique within a schema.
func (r *Registry) Add(t *Table) error {
	if _, dup := r.tables[t.Name()]; dup {
		return fmt.Errorf("schema: duplicate table %s", t.Name())
	}
	r.tables[t.Name()] = t
	r.order = append(r.order, t.Name())
	return nil
}

// Table looks up a table by name.
func (r *Registry) Table(name string) (*Table, bool) {
	t, ok := r.tables[name]
	return t, ok
}

// Tables returns all tables in registration order.
func (r *Registry) Tables() []*Table {
	out := make([]*Table, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tables[name])
	}
	return out
}

// Resolve follows a foreign key to its target column.
func (r *Registry) Resolve(fk *ForeignKey) (*Column, error) {
	t, ok := r.tables[fk.Table]
	if !ok {
		return nil, fmt.Errorf("schema: foreign key references unknown table %s", fk.Table)
	}
	c, ok := t.Column(fk.Column)
	if !ok {
		return nil, fmt.Errorf("schema: foreign key references unknown column %s.%s", fk.Table, fk.Column)
	}
	return c, nil
}

// Validate checks every foreign key against the registry and verifies the
// referenced column kinds are compatible.
func (r *Registry) Validate() error {
	for _, name := range r.order {
		t := r.tables[name]
		for _, c := range t.Columns() {
			fk := c.ForeignKey()
			if fk == nil {
				continue
			}
			target, err := r.Resolve(fk)
			if err != nil {
				return fmt.Errorf("table %s, column %s: %w", t.Name(), c.Name(), err)
			}
			if target.Kind() != c.Kind() {
				return fmt.Errorf("table %s, column %s: foreign key kind %s does not match %s.%s kind %s",
					t.Name(), c.Name(), c.Kind(), fk.Table, fk.Column, target.Kind())
			}
		}
	}
	return nil
}
