//go:build integration

package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	queryengine "github.com/wagiedev/query-engine-go"
)

func TestGetDMMF(t *testing.T) {
	opts := engineOptions(t)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	doc, err := queryengine.GetDMMF(ctx, blogSchema, opts...)
	require.NoError(t, err)

	user, ok := doc.Datamodel.Model("User")
	require.True(t, ok)
	require.NotEmpty(t, user.Fields)

	_, ok = doc.Datamodel.Model("Post")
	require.True(t, ok)

	require.Len(t, doc.Datamodel.Enums, 1)
	require.Equal(t, "Role", doc.Datamodel.Enums[0].Name)
}

func TestGetConfig(t *testing.T) {
	opts := engineOptions(t)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cfg, err := queryengine.GetConfig(ctx, blogSchema, opts...)
	require.NoError(t, err)
	require.Len(t, cfg.Datasources, 1)
	require.Equal(t, "db", cfg.Datasources[0].Name)
	require.Len(t, cfg.Generators, 1)
	require.Equal(t, "client", cfg.Generators[0].Name)
}

func TestDMMFToDMLRoundTrip(t *testing.T) {
	opts := engineOptions(t)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	engine, err := queryengine.NewEngine(opts...)
	require.NoError(t, err)

	doc, err := engine.GetDMMF(ctx, blogSchema)
	require.NoError(t, err)

	cfg, err := engine.GetConfig(ctx, blogSchema)
	require.NoError(t, err)

	text, err := engine.DMMFToDML(ctx, &queryengine.WholeDMMF{DMMF: &doc.Datamodel, Config: cfg})
	require.NoError(t, err)
	require.Contains(t, text, "model User")
	require.Contains(t, text, "model Post")

	again, err := engine.GetDMMF(ctx, text)
	require.NoError(t, err)
	require.Len(t, again.Datamodel.Models, len(doc.Datamodel.Models))
}

func TestGetDMMF_InvalidSchema(t *testing.T) {
	opts := engineOptions(t)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	_, err := queryengine.GetDMMF(ctx, "model Broken { id Int @id @nope }", opts...)
	require.Error(t, err)

	engineErr, ok := errors.AsType[*queryengine.EngineError](err)
	require.True(t, ok, "expected *EngineError, got %T: %v", err, err)
	require.Equal(t, "Schema parsing", engineErr.Op)
	require.NotEmpty(t, engineErr.Message)
}

func TestGetDMMFBatch(t *testing.T) {
	opts := engineOptions(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	docs, err := queryengine.GetDMMFBatch(ctx, map[string]string{
		"a": blogSchema,
		"b": blogSchema,
		"c": blogSchema,
	}, append(opts, queryengine.WithConcurrency(2))...)
	require.NoError(t, err)
	require.Len(t, docs, 3)
}
