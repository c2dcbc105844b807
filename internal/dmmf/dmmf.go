// Package dmmf holds the data shapes the query engine prints: the document
// model (DMMF) and the configuration metadata of a datamodel.
package dmmf

import (
	"encoding/json"
	"fmt"
)

// Document is the engine's document model of a datamodel.
type Document struct {
	Datamodel Datamodel `json:"datamodel"`
	// Schema is the generated query schema, kept undecoded.
	Schema   json.RawMessage `json:"schema,omitempty"`
	Mappings []Mapping       `json:"mappings,omitempty"`
}

// Mapping maps a model to the names of its query actions,
// e.g. {"model": "User", "findOne": "user", "findMany": "users"}.
type Mapping map[string]string

// Datamodel is the parsed datamodel part of the document.
type Datamodel struct {
	Enums  []Enum  `json:"enums"`
	Models []Model `json:"models"`

	// Extra keeps engine keys not declared above.
	Extra Extra `json:"-"`
}

// Model returns the model named name.
func (d *Datamodel) Model(name string) (*Model, bool) {
	for i := range d.Models {
		if d.Models[i].Name == name {
			return &d.Models[i], true
		}
	}

	return nil, false
}

func (d Datamodel) MarshalJSON() ([]byte, error) {
	type plain Datamodel

	p := plain(d)
	if p.Enums == nil {
		p.Enums = []Enum{}
	}

	if p.Models == nil {
		p.Models = []Model{}
	}

	return encodeObject(p, d.Extra)
}

func (d *Datamodel) UnmarshalJSON(data []byte) error {
	type plain Datamodel

	var p plain

	extra, err := decodeObject(data, &p)
	if err != nil {
		return err
	}

	*d = Datamodel(p)
	d.Extra = extra

	return nil
}

// Model is a datamodel model.
type Model struct {
	Name          string     `json:"name"`
	DBName        *string    `json:"dbName"`
	IsEmbedded    bool       `json:"isEmbedded"`
	IsGenerated   bool       `json:"isGenerated"`
	Documentation string     `json:"documentation,omitzero"`
	Fields        []Field    `json:"fields"`
	IDFields      []string   `json:"idFields,omitzero"`
	UniqueFields  [][]string `json:"uniqueFields,omitzero"`

	// Extra keeps engine keys not declared above, e.g. uniqueIndexes.
	Extra Extra `json:"-"`
}

func (m Model) MarshalJSON() ([]byte, error) {
	type plain Model

	p := plain(m)
	if p.Fields == nil {
		p.Fields = []Field{}
	}

	return encodeObject(p, m.Extra)
}

func (m *Model) UnmarshalJSON(data []byte) error {
	type plain Model

	var p plain

	extra, err := decodeObject(data, &p)
	if err != nil {
		return err
	}

	*m = Model(p)
	m.Extra = extra

	return nil
}

// FieldKind is the kind of a model field.
type FieldKind string

const (
	FieldKindScalar      FieldKind = "scalar"
	FieldKindObject      FieldKind = "object"
	FieldKindEnum        FieldKind = "enum"
	FieldKindUnsupported FieldKind = "unsupported"
)

// Field is a model field. Slices decoded as [] encode as [] again; only nil
// slices are left out.
type Field struct {
	Name               string    `json:"name"`
	Kind               FieldKind `json:"kind"`
	Type               string    `json:"type"`
	DBNames            []string  `json:"dbNames,omitzero"`
	IsList             bool      `json:"isList"`
	IsRequired         bool      `json:"isRequired"`
	IsUnique           bool      `json:"isUnique"`
	IsID               bool      `json:"isId"`
	IsGenerated        bool      `json:"isGenerated"`
	IsUpdatedAt        bool      `json:"isUpdatedAt"`
	HasDefaultValue    bool      `json:"hasDefaultValue"`
	Default            any       `json:"default,omitzero"`
	Documentation      string    `json:"documentation,omitzero"`
	RelationName       string    `json:"relationName,omitzero"`
	RelationFromFields []string  `json:"relationFromFields,omitzero"`
	RelationToFields   []string  `json:"relationToFields,omitzero"`
	RelationOnDelete   string    `json:"relationOnDelete,omitzero"`

	// Extra keeps engine keys not declared above, e.g. dbName or isReadOnly.
	Extra Extra `json:"-"`
}

func (f Field) MarshalJSON() ([]byte, error) {
	type plain Field

	return encodeObject(plain(f), f.Extra)
}

func (f *Field) UnmarshalJSON(data []byte) error {
	type plain Field

	var p plain

	extra, err := decodeObject(data, &p)
	if err != nil {
		return err
	}

	*f = Field(p)
	f.Extra = extra

	return nil
}

// Enum is a datamodel enum.
type Enum struct {
	Name   string      `json:"name"`
	DBName *string     `json:"dbName"`
	Values []EnumValue `json:"values"`

	// Extra keeps engine keys not declared above, e.g. documentation.
	Extra Extra `json:"-"`
}

func (e Enum) MarshalJSON() ([]byte, error) {
	type plain Enum

	p := plain(e)
	if p.Values == nil {
		p.Values = []EnumValue{}
	}

	return encodeObject(p, e.Extra)
}

func (e *Enum) UnmarshalJSON(data []byte) error {
	type plain Enum

	var p plain

	extra, err := decodeObject(data, &p)
	if err != nil {
		return err
	}

	*e = Enum(p)
	e.Extra = extra

	return nil
}

// EnumValue is one enum member. Older engines print plain strings, newer
// ones print {"name": ..., "dbName": ...}; both decode and encode back in the
// form they arrived in.
type EnumValue struct {
	Name   string  `json:"name"`
	DBName *string `json:"dbName"`

	// Bare marks a value printed as a plain string.
	Bare bool `json:"-"`
}

func (v EnumValue) MarshalJSON() ([]byte, error) {
	if v.Bare && v.DBName == nil {
		return json.Marshal(v.Name)
	}

	type plain EnumValue

	return json.Marshal(plain(v))
}

// UnmarshalJSON accepts both the string and the object form.
func (v *EnumValue) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*v = EnumValue{Name: name, Bare: true}

		return nil
	}

	type plain EnumValue

	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("enum value: %w", err)
	}

	*v = EnumValue(obj)

	return nil
}

// ConfigMetaFormat is the engine's configuration metadata of a datamodel.
type ConfigMetaFormat struct {
	Datasources []DataSource      `json:"datasources"`
	Generators  []GeneratorConfig `json:"generators"`

	// Extra keeps engine keys not declared above, e.g. warnings.
	Extra Extra `json:"-"`
}

func (c ConfigMetaFormat) MarshalJSON() ([]byte, error) {
	type plain ConfigMetaFormat

	p := plain(c)
	if p.Datasources == nil {
		p.Datasources = []DataSource{}
	}

	if p.Generators == nil {
		p.Generators = []GeneratorConfig{}
	}

	return encodeObject(p, c.Extra)
}

func (c *ConfigMetaFormat) UnmarshalJSON(data []byte) error {
	type plain ConfigMetaFormat

	var p plain

	extra, err := decodeObject(data, &p)
	if err != nil {
		return err
	}

	*c = ConfigMetaFormat(p)
	c.Extra = extra

	return nil
}

// DataSource is a datasource block.
type DataSource struct {
	Name          string         `json:"name"`
	ConnectorType string         `json:"connectorType,omitzero"`
	URL           EnvValue       `json:"url"`
	Config        map[string]any `json:"config,omitzero"`

	// Extra keeps engine keys not declared above, e.g. activeProvider.
	Extra Extra `json:"-"`
}

func (d DataSource) MarshalJSON() ([]byte, error) {
	type plain DataSource

	return encodeObject(plain(d), d.Extra)
}

func (d *DataSource) UnmarshalJSON(data []byte) error {
	type plain DataSource

	var p plain

	extra, err := decodeObject(data, &p)
	if err != nil {
		return err
	}

	*d = DataSource(p)
	d.Extra = extra

	return nil
}

// EnvValue is a value that may be read from an environment variable.
type EnvValue struct {
	FromEnvVar *string `json:"fromEnvVar"`
	Value      string  `json:"value"`
}

// GeneratorConfig is a generator block.
type GeneratorConfig struct {
	Name            string            `json:"name"`
	Provider        string            `json:"provider"`
	Output          *string           `json:"output"`
	Config          map[string]string `json:"config,omitzero"`
	BinaryTargets   []string          `json:"binaryTargets,omitzero"`
	PreviewFeatures []string          `json:"previewFeatures,omitzero"`

	// Extra keeps engine keys not declared above.
	Extra Extra `json:"-"`
}

func (g GeneratorConfig) MarshalJSON() ([]byte, error) {
	type plain GeneratorConfig

	return encodeObject(plain(g), g.Extra)
}

func (g *GeneratorConfig) UnmarshalJSON(data []byte) error {
	type plain GeneratorConfig

	var p plain

	extra, err := decodeObject(data, &p)
	if err != nil {
		return err
	}

	*g = GeneratorConfig(p)
	g.Extra = extra

	return nil
}

// WholeDMMF is the input of a document-model-to-schema-text conversion.
type WholeDMMF struct {
	DMMF   *Datamodel        `json:"dmmf"`
	Config *ConfigMetaFormat `json:"config"`
}
