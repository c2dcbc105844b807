package queryengine

import (
	"github.com/wagiedev/query-engine-go/internal/config"
	"github.com/wagiedev/query-engine-go/internal/dmmf"
	"github.com/wagiedev/query-engine-go/internal/engine"
	"github.com/wagiedev/query-engine-go/internal/platform"
)

// Re-export types from internal packages

// ===== Options =====

// Options configures engine calls.
type Options = config.Options

// ===== Engine =====

// Engine runs query engine operations with a fixed set of options.
// It is safe for concurrent use.
type Engine = engine.Engine

// Platform identifies an engine build target.
type Platform = platform.Platform

// ===== Document Model =====

// DMMFDocument is the engine's document model of a datamodel.
type DMMFDocument = dmmf.Document

// Datamodel is the parsed datamodel part of a DMMFDocument.
type Datamodel = dmmf.Datamodel

// Model is a datamodel model.
type Model = dmmf.Model

// Field is a model field.
type Field = dmmf.Field

// FieldKind is the kind of a model field.
type FieldKind = dmmf.FieldKind

const (
	FieldKindScalar      = dmmf.FieldKindScalar
	FieldKindObject      = dmmf.FieldKindObject
	FieldKindEnum        = dmmf.FieldKindEnum
	FieldKindUnsupported = dmmf.FieldKindUnsupported
)

// Enum is a datamodel enum.
type Enum = dmmf.Enum

// EnumValue is one enum member.
type EnumValue = dmmf.EnumValue

// Mapping maps a model to the names of its query actions.
type Mapping = dmmf.Mapping

// ===== Configuration Metadata =====

// ConfigMetaFormat is the engine's configuration metadata of a datamodel.
type ConfigMetaFormat = dmmf.ConfigMetaFormat

// DataSource is a datasource block.
type DataSource = dmmf.DataSource

// EnvValue is a value that may be read from an environment variable.
type EnvValue = dmmf.EnvValue

// GeneratorConfig is a generator block.
type GeneratorConfig = dmmf.GeneratorConfig

// WholeDMMF is the input of DMMFToDML.
type WholeDMMF = dmmf.WholeDMMF
