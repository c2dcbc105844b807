package engine

import (
	"context"
	"fmt"
	"maps"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/query-engine-go/internal/dmmf"
)

// GetDMMFBatch fetches the document model of every named datamodel
// concurrently, bounded by Options.Concurrency. The first failure cancels the
// remaining calls and is returned labeled with its name.
func (e *Engine) GetDMMFBatch(
	ctx context.Context,
	datamodels map[string]string,
) (map[string]*dmmf.Document, error) {
	names := slices.Sorted(maps.Keys(datamodels))
	docs := make([]*dmmf.Document, len(names))

	limit := e.opts.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, name := range names {
		g.Go(func() error {
			doc, err := e.GetDMMF(gCtx, datamodels[name])
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			docs[i] = doc

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make(map[string]*dmmf.Document, len(names))
	for i, name := range names {
		result[name] = docs[i]
	}

	e.log.Debug("Fetched document models", "count", len(result), "concurrency", limit)

	return result, nil
}
