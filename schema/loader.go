package schema

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/sqlspine/sqlspine/types"
)

// schemaFile is the YAML shape of a schema definition file.
type schemaFile struct {
	Tables []tableDef `yaml:"tables"`
}

type tableDef struct {
	Name     string      `yaml:"name"`
	Columns  []columnDef `yaml:"columns"`
	Indexes  []indexDef  `yaml:"indexes"`
	Triggers *triggerDef `yaml:"triggers"`
}

type columnDef struct {
	Name          string      `yaml:"name"`
	Type          string      `yaml:"type"`
	PrimaryKey    bool        `yaml:"primary_key"`
	AutoIncrement bool        `yaml:"auto_increment"`
	Unique        bool        `yaml:"unique"`
	NotNull       bool        `yaml:"not_null"`
	Default       interface{} `yaml:"default"`
	Index         string      `yaml:"index"`
	References    *refDef     `yaml:"references"`
}

type refDef struct {
	Table  string `yaml:"table"`
	Column string `yaml:"column"`
}

type indexDef struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
	Unique  bool     `yaml:"unique"`
}

type triggerDef struct {
	Handler string   `yaml:"handler"`
	Events  []string `yaml:"events"`
}

// Load reads YAML table definitions and builds a validated registry.
func Load(r io.Reader) (*Registry, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	var file schemaFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if len(file.Tables) == 0 {
		return nil, fmt.Errorf("schema defines no tables")
	}

	reg := NewRegistry()
	for _, td := range file.Tables {
		if td.Name == "" {
			return nil, fmt.Errorf("schema contains a table without a name")
		}
		t := NewTable(td.Name)
		for _, cd := range td.Columns {
			opts, err := columnOptions(cd)
			if err != nil {
				return nil, fmt.Errorf("table %s, column %s: %w", td.Name, cd.Name, err)
			}
			kind, err := types.ParseKind(cd.Type)
			if err != nil {
				return nil, fmt.Errorf("table %s, column %s: %w", td.Name, cd.Name, err)
			}
			if _, err := t.AddColumn(cd.Name, kind, opts...); err != nil {
				return nil, err
			}
		}
		for _, id := range td.Indexes {
			t.AddIndex(id.Name, id.Unique, id.Columns...)
		}
		if td.Triggers != nil {
			events, err := triggerEvents(td.Triggers.Events)
			if err != nil {
				return nil, fmt.Errorf("table %s: %w", td.Name, err)
			}
			t.SetTriggers(td.Triggers.Handler, events...)
		}
		if err := reg.Add(t); err != nil {
			return nil, err
		}
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return reg, nil
}

// LoadFile reads a schema definition from a filesystem.
func LoadFile(fsys afero.Fs, path string) (*Registry, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schema file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func columnOptions(cd columnDef) ([]ColumnOption, error) {
	if cd.Name == "" {
		return nil, fmt.Errorf("column without a name")
	}
	var opts []ColumnOption
	if cd.PrimaryKey {
		opts = append(opts, PrimaryKey())
	}
	if cd.AutoIncrement {
		opts = append(opts, AutoIncrement())
	}
	if cd.Unique {
		opts = append(opts, Unique())
	}
	if cd.NotNull {
		opts = append(opts, NotNull())
	}
	if cd.Default != nil {
		opts = append(opts, Default(cd.Default))
	}
	if cd.Index != "" {
		opts = append(opts, Indexed(cd.Index))
	}
	if cd.References != nil {
		if cd.References.Table == "" || cd.References.Column == "" {
			return nil, fmt.Errorf("references needs both table and column")
		}
		opts = append(opts, References(cd.References.Table, cd.References.Column))
	}
	return opts, nil
}

func triggerEvents(names []string) ([]TriggerEvent, error) {
	events := make([]TriggerEvent, 0, len(names))
	for _, n := range names {
		switch strings.ToLower(n) {
		case "insert":
			events = append(events, TriggerInsert)
		case "update":
			events = append(events, TriggerUpdate)
		case "delete":
			events = append(events, TriggerDelete)
		case "select":
			events = append(events, TriggerSelect)
		default:
			return nil, fmt.Errorf("unknown trigger event %q", n)
		}
	}
	return events, nil
}
