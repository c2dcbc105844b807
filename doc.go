// Package queryengine runs the schema query engine binary as a subprocess and
// decodes what it prints.
//
// Each call stages its input in a private temp file, launches the engine's
// cli subcommand with that file, and removes the file again when the
// process exits. The engine binary is either given explicitly with
// WithEnginePath or resolved as query-engine-<platform> inside the install
// directory.
//
// # Basic Usage
//
//	ctx := context.Background()
//	doc, err := queryengine.GetDMMF(ctx, schema,
//	    queryengine.WithInstallDir("/opt/prisma"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, model := range doc.Datamodel.Models {
//	    fmt.Println(model.Name)
//	}
//
// GetConfig returns the datasources and generators of a schema, and
// DMMFToDML turns a {dmmf, config} document back into schema text.
//
// Callers that issue many requests should build one Engine with NewEngine
// and reuse it. Engines are safe for concurrent use; every call gets its
// own staged file and process.
//
// # Retries
//
// An engine that is still starting up answers with a "Please wait until the"
// banner. Such answers are retried after 5s. A launch that fails because the
// binary is still being written (ETXTBSY) is retried after 500ms. Both share
// a budget of 4 retries, tunable with WithRetry and WithBackoff. When the
// budget runs out on the banner the call fails with *EngineNotReadyError.
//
// # Logging
//
// The package uses log/slog. Pass a logger with WithLogger; without one the
// package is silent.
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	}))
//	doc, err := queryengine.GetDMMF(ctx, schema, queryengine.WithLogger(logger))
//
// # Error Handling
//
// Errors are typed and can be matched with errors.AsType:
//
//	if engineErr, ok := errors.AsType[*queryengine.EngineError](err); ok {
//	    // The engine rejected the schema. engineErr.Message is its report.
//	}
//	if errors.Is(err, queryengine.ErrEngineNotReady) {
//	    // The engine never finished starting up.
//	}
//
// Errors returned by engine operations are, or wrap, a QueryEngineError.
// Failures without a more specific type, such as a cancelled context, come
// back as *OperationError labeled with the operation. GetDMMFBatch prefixes
// the failing entry's name to the underlying error.
//
// # MCP
//
// NewToolServer and ServeStdio expose the three operations as Model Context
// Protocol tools.
package queryengine
