package generators

import (
	"math/rand"

	"github.com/ghanse/dlt-workshop/internal/domain"
)

// Rule produces one cell value per call. Implementations must be safe for
// concurrent use across workers; all per-call state arrives via the rng and
// the context.
type Rule interface {
	Generate(rng *rand.Rand, ctx RuleContext) (interface{}, error)
	Validate(col domain.ColumnSpec) error
}

// RuleContext carries everything a rule may read while generating one cell.
type RuleContext struct {
	RowIndex int64
	Column   domain.ColumnSpec
	Params   map[string]interface{}

	// BaseValues holds the pre-null-injection values of columns already
	// generated for this row, keyed by column name. Expression rules read
	// their source from here.
	BaseValues map[string]interface{}

	// Text is the per-worker provider context, initialized lazily on first
	// use by a text rule.
	Text *TextContext
}
