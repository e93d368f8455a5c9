package db

import (
	"errors"
	"fmt"
	"strconv"
)

// IndexFieldType enumerates the field kinds the projection indexes.
type IndexFieldType int

const (
	// IndexFieldGeo holds "lon,lat" and answers radius queries.
	IndexFieldGeo IndexFieldType = iota
	// IndexFieldTag holds separator-joined exact values, matched case-insensitively.
	IndexFieldTag
	// IndexFieldText holds free text.
	IndexFieldText
	// IndexFieldNumeric holds a number.
	IndexFieldNumeric
)

var fieldTypeNames = map[IndexFieldType]string{
	IndexFieldGeo:     "GEO",
	IndexFieldTag:     "TAG",
	IndexFieldText:    "TEXT",
	IndexFieldNumeric: "NUMERIC",
}

func (t IndexFieldType) String() string {
	if s, ok := fieldTypeNames[t]; ok {
		return s
	}
	return "IndexFieldType(" + strconv.Itoa(int(t)) + ")"
}

// IndexField is one schema attribute. Separator applies to TAG fields only.
type IndexField struct {
	Name      string
	Type      IndexFieldType
	Separator string
}

// IndexDefinition describes a hash index over keys with the given prefixes.
type IndexDefinition struct {
	Name     string
	Prefixes []string
	Fields   []IndexField
}

// Validate checks that the definition can be rendered.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if !IsValidIdentifier(idx.Name) {
		return fmt.Errorf("index name %q contains invalid characters", idx.Name)
	}
	if len(idx.Fields) == 0 {
		return errors.New("at least one field is required")
	}

	seen := make(map[string]bool, len(idx.Fields))
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if f.Name == "" {
			return fmt.Errorf("field %d: name is required", i)
		}
		if _, ok := fieldTypeNames[f.Type]; !ok {
			return fmt.Errorf("field %s: unknown type %d", f.Name, int(f.Type))
		}
		if f.Separator != "" && f.Type != IndexFieldTag {
			return fmt.Errorf("field %s: separator is only valid on TAG fields", f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("duplicate field name: %s", f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

// Args renders the FT.CREATE arguments after the command name.
func (idx *IndexDefinition) Args() []string {
	args := []string{idx.Name, "ON", "HASH"}
	if len(idx.Prefixes) > 0 {
		args = append(args, "PREFIX", strconv.Itoa(len(idx.Prefixes)))
		args = append(args, idx.Prefixes...)
	}
	args = append(args, "SCHEMA")
	for i := range idx.Fields {
		f := &idx.Fields[i]
		args = append(args, f.Name, f.Type.String())
		if f.Type == IndexFieldTag && f.Separator != "" {
			args = append(args, "SEPARATOR", f.Separator)
		}
	}
	return args
}

// GeoField reports whether name is a GEO field of the index.
func (idx *IndexDefinition) GeoField(name string) bool {
	for i := range idx.Fields {
		if idx.Fields[i].Type == IndexFieldGeo && idx.Fields[i].Name == name {
			return true
		}
	}
	return false
}

// IsValidIdentifier reports whether s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == ':', r == '-':
		default:
			return false
		}
	}
	return true
}
