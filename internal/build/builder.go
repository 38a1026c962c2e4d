package build

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/ghanse/dlt-workshop/internal/domain"
	"github.com/ghanse/dlt-workshop/internal/generators"
	"github.com/ghanse/dlt-workshop/internal/registry"
	"github.com/ghanse/dlt-workshop/internal/validation"
)

// Builder materializes TableSpecs. Rows are split into contiguous chunks
// across workers and concatenated in order, so the output always has exactly
// spec.Rows rows with a stable ordering. Each worker owns its RNG and a text
// context that is initialized on first use.
type Builder struct {
	rules     *registry.RuleRegistry
	validator *validation.Validator
	workers   int
}

const defaultWorkers = 4

func NewBuilder(rules *registry.RuleRegistry, workers int) *Builder {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Builder{
		rules:     rules,
		validator: validation.NewValidator(rules),
		workers:   workers,
	}
}

// Build validates the spec and then generates every row. Validation failures
// surface before any row exists; generation failures abort the whole build.
func (b *Builder) Build(spec domain.TableSpec, seed int64) (*domain.Dataset, error) {
	if err := b.validator.ValidateSpec(&spec); err != nil {
		return nil, fmt.Errorf("dataset '%s': %w", spec.Name, err)
	}

	resolved, err := b.resolveRules(spec)
	if err != nil {
		return nil, fmt.Errorf("dataset '%s': %w", spec.Name, err)
	}

	rows := make([][]interface{}, spec.Rows)
	chunks := splitRows(spec.Rows, b.workers)

	var wg sync.WaitGroup
	errs := make([]error, len(chunks))
	for i, chunk := range chunks {
		wg.Add(1)
		go func(worker int, start, end int64) {
			defer wg.Done()
			errs[worker] = b.buildChunk(spec, resolved, rows, seed+int64(worker), start, end)
		}(i, chunk.start, chunk.end)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("dataset '%s': %w", spec.Name, err)
		}
	}

	return &domain.Dataset{Spec: spec, Rows: rows}, nil
}

func (b *Builder) buildChunk(spec domain.TableSpec, resolved []generators.Rule, rows [][]interface{}, seed, start, end int64) error {
	rng := rand.New(rand.NewSource(seed))
	text := generators.NewTextContext(seed)

	width := len(spec.Columns)
	if spec.IDColumn {
		width++
	}

	for rowIdx := start; rowIdx < end; rowIdx++ {
		row := make([]interface{}, 0, width)
		base := make(map[string]interface{}, len(spec.Columns))

		if spec.IDColumn {
			row = append(row, rowIdx)
		}

		for i, col := range spec.Columns {
			val, err := resolved[i].Generate(rng, generators.RuleContext{
				RowIndex:   rowIdx,
				Column:     col,
				Params:     col.Rule.Params,
				BaseValues: base,
				Text:       text,
			})
			if err != nil {
				return fmt.Errorf("column '%s', row %d: %w", col.Name, rowIdx, err)
			}
			base[col.Name] = val

			// Null injection happens after the base value is captured, so
			// expression columns always see the un-nulled source.
			if col.PercentNulls > 0 && rng.Float64() < col.PercentNulls {
				val = nil
			}
			row = append(row, val)
		}

		rows[rowIdx] = row
	}
	return nil
}

func (b *Builder) resolveRules(spec domain.TableSpec) ([]generators.Rule, error) {
	resolved := make([]generators.Rule, len(spec.Columns))
	for i, col := range spec.Columns {
		rule, err := b.rules.Get(col.Rule.Type)
		if err != nil {
			return nil, fmt.Errorf("column '%s': %w", col.Name, err)
		}
		resolved[i] = rule
	}
	return resolved, nil
}

type chunk struct {
	start, end int64
}

func splitRows(rows int64, numWorkers int) []chunk {
	workers := int64(numWorkers)
	if workers > rows {
		workers = rows
	}
	chunks := make([]chunk, 0, workers)
	per := rows / workers
	rem := rows % workers

	var start int64
	for i := int64(0); i < workers; i++ {
		size := per
		if i < rem {
			size++
		}
		chunks = append(chunks, chunk{start: start, end: start + size})
		start += size
	}
	return chunks
}
