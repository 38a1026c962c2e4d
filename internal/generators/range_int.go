package generators

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/ghanse/dlt-workshop/internal/domain"
)

// RangeIntRule samples an integer uniformly from [min, max], both inclusive,
// independently per row.
type RangeIntRule struct{}

func (g *RangeIntRule) Validate(col domain.ColumnSpec) error {
	min, max, err := intBounds(col.Rule.Params)
	if err != nil {
		return err
	}
	if min > max {
		return fmt.Errorf("min (%d) must not exceed max (%d)", min, max)
	}
	return nil
}

func (g *RangeIntRule) Generate(rng *rand.Rand, ctx RuleContext) (interface{}, error) {
	min, max, err := intBounds(ctx.Params)
	if err != nil {
		return nil, err
	}
	if min > max {
		return nil, fmt.Errorf("min (%d) must not exceed max (%d)", min, max)
	}
	return min + rng.Int63n(max-min+1), nil
}

func intBounds(params map[string]interface{}) (int64, int64, error) {
	if params == nil {
		return 0, 0, errors.New("range_int requires 'min' and 'max' params")
	}
	minRaw, hasMin := params["min"]
	maxRaw, hasMax := params["max"]
	if !hasMin || !hasMax {
		return 0, 0, errors.New("range_int requires 'min' and 'max' params")
	}
	min, ok := toInt64(minRaw)
	if !ok {
		return 0, 0, fmt.Errorf("'min' must be an integer, got %v", minRaw)
	}
	max, ok := toInt64(maxRaw)
	if !ok {
		return 0, 0, fmt.Errorf("'max' must be an integer, got %v", maxRaw)
	}
	return min, max, nil
}
