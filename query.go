package queryengine

import (
	"context"

	"github.com/wagiedev/query-engine-go/internal/engine"
)

// NewEngine creates an Engine configured by opts. Reuse one Engine for many
// calls that share options; it keeps no per-call state.
func NewEngine(opts ...Option) (*Engine, error) {
	return engine.New(applyOptions(opts), nil)
}

// GetDMMF returns the document model of datamodel.
//
// The call is retried when the engine answers with its readiness banner or
// its binary is momentarily busy; see WithRetry.
//
// Example:
//
//	doc, err := queryengine.GetDMMF(ctx, schema,
//	    queryengine.WithEnginePath("/opt/prisma/query-engine-debian-openssl-1.1.x"),
//	)
//	if err != nil {
//	    return err
//	}
//	for _, m := range doc.Datamodel.Models {
//	    fmt.Println(m.Name)
//	}
func GetDMMF(ctx context.Context, datamodel string, opts ...Option) (*DMMFDocument, error) {
	e, err := NewEngine(opts...)
	if err != nil {
		return nil, err
	}

	return e.GetDMMF(ctx, datamodel)
}

// GetConfig returns the datasources and generators declared in datamodel.
func GetConfig(ctx context.Context, datamodel string, opts ...Option) (*ConfigMetaFormat, error) {
	e, err := NewEngine(opts...)
	if err != nil {
		return nil, err
	}

	return e.GetConfig(ctx, datamodel)
}

// DMMFToDML renders a document model and its configuration back into
// schema text.
func DMMFToDML(ctx context.Context, input *WholeDMMF, opts ...Option) (string, error) {
	e, err := NewEngine(opts...)
	if err != nil {
		return "", err
	}

	return e.DMMFToDML(ctx, input)
}

// GetDMMFBatch fetches the document models of many datamodels concurrently,
// keyed like datamodels. See WithConcurrency.
func GetDMMFBatch(ctx context.Context, datamodels map[string]string, opts ...Option) (map[string]*DMMFDocument, error) {
	e, err := NewEngine(opts...)
	if err != nil {
		return nil, err
	}

	return e.GetDMMFBatch(ctx, datamodels)
}
