package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/query-engine-go/internal/dmmf"
)

// Tool names.
const (
	ToolGetDMMF   = "get_dmmf"
	ToolGetConfig = "get_config"
	ToolDMMFToDML = "dmmf_to_dml"
)

// Engine is the subset of the engine the tools call.
type Engine interface {
	GetDMMF(ctx context.Context, datamodel string) (*dmmf.Document, error)
	GetConfig(ctx context.Context, datamodel string) (*dmmf.ConfigMetaFormat, error)
	DMMFToDML(ctx context.Context, input *dmmf.WholeDMMF) (string, error)
}

// DatamodelInput is the input of the get_dmmf and get_config tools.
type DatamodelInput struct {
	Datamodel string `json:"datamodel" jsonschema:"the schema text to process"`
}

// RegisterEngineTools adds the get_dmmf, get_config and dmmf_to_dml tools
// backed by e.
func RegisterEngineTools(s *ToolServer, e Engine) error {
	datamodelSchema, err := jsonschema.For[DatamodelInput](nil)
	if err != nil {
		return fmt.Errorf("datamodel input schema: %w", err)
	}

	s.AddTool(
		NewTool(ToolGetDMMF, "Parse a schema and return its document model (DMMF) as JSON.", datamodelSchema),
		func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var in DatamodelInput
			if err := ParseArguments(req, &in); err != nil {
				return ErrorResult(err.Error()), nil
			}

			doc, err := e.GetDMMF(ctx, in.Datamodel)
			if err != nil {
				return ErrorResult(err.Error()), nil
			}

			return jsonResult(doc)
		},
	)

	s.AddTool(
		NewTool(ToolGetConfig, "Return the datasources and generators declared in a schema as JSON.", datamodelSchema),
		func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var in DatamodelInput
			if err := ParseArguments(req, &in); err != nil {
				return ErrorResult(err.Error()), nil
			}

			cfg, err := e.GetConfig(ctx, in.Datamodel)
			if err != nil {
				return ErrorResult(err.Error()), nil
			}

			return jsonResult(cfg)
		},
	)

	// The datamodel shape is owned by the engine, so the schema only pins the
	// two top-level objects.
	s.AddTool(
		NewTool(ToolDMMFToDML, "Render a {dmmf, config} document back into schema text.",
			SimpleSchema(map[string]string{"dmmf": "object", "config": "object"})),
		func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var in dmmf.WholeDMMF
			if err := ParseArguments(req, &in); err != nil {
				return ErrorResult(err.Error()), nil
			}

			text, err := e.DMMFToDML(ctx, &in)
			if err != nil {
				return ErrorResult(err.Error()), nil
			}

			return TextResult(text), nil
		},
	)

	return nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}

	return TextResult(string(data)), nil
}
