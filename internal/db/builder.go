package db

import "strings"

// IndexBuilder assembles an IndexDefinition field by field.
//
//	def, err := db.NewIndex("nearby:shops:idx").
//		Prefix("nearby:shop:").
//		Geo("location").
//		Tags("terms", "|").
//		Build()
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts a definition.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name}}
}

// Prefix restricts the index to keys with these prefixes.
func (b *IndexBuilder) Prefix(prefixes ...string) *IndexBuilder {
	b.def.Prefixes = append(b.def.Prefixes, prefixes...)
	return b
}

// Geo adds a "lon,lat" field.
func (b *IndexBuilder) Geo(name string) *IndexBuilder {
	return b.field(name, IndexFieldGeo, "")
}

// Tags adds a TAG field whose values are joined by separator.
func (b *IndexBuilder) Tags(name, separator string) *IndexBuilder {
	return b.field(name, IndexFieldTag, separator)
}

// Text adds a full-text field.
func (b *IndexBuilder) Text(name string) *IndexBuilder {
	return b.field(name, IndexFieldText, "")
}

// Numeric adds a numeric field.
func (b *IndexBuilder) Numeric(name string) *IndexBuilder {
	return b.field(name, IndexFieldNumeric, "")
}

func (b *IndexBuilder) field(name string, t IndexFieldType, sep string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{Name: name, Type: t, Separator: sep})
	return b
}

// Build validates and returns a copy of the definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	def := IndexDefinition{
		Name:     b.def.Name,
		Prefixes: append([]string(nil), b.def.Prefixes...),
		Fields:   append([]IndexField(nil), b.def.Fields...),
	}
	return &def, nil
}

// String renders the definition as the FT.CREATE command it issues.
func (idx *IndexDefinition) String() string {
	return "FT.CREATE " + strings.Join(idx.Args(), " ")
}
