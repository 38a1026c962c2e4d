package generators

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/ghanse/dlt-workshop/internal/domain"
	"github.com/ghanse/dlt-workshop/internal/timeutil"
)

// RangeTimestampRule samples a timestamp uniformly between two inclusive
// bounds, at second granularity.
type RangeTimestampRule struct{}

func (g *RangeTimestampRule) Validate(col domain.ColumnSpec) error {
	min, max, err := timestampBounds(col.Rule.Params)
	if err != nil {
		return err
	}
	if min.After(max) {
		return fmt.Errorf("min (%s) must not be after max (%s)",
			timeutil.FormatTimestamp(min), timeutil.FormatTimestamp(max))
	}
	return nil
}

func (g *RangeTimestampRule) Generate(rng *rand.Rand, ctx RuleContext) (interface{}, error) {
	min, max, err := timestampBounds(ctx.Params)
	if err != nil {
		return nil, err
	}
	if min.After(max) {
		return nil, fmt.Errorf("min (%s) must not be after max (%s)",
			timeutil.FormatTimestamp(min), timeutil.FormatTimestamp(max))
	}

	seconds := int64(max.Sub(min) / time.Second)
	return min.Add(time.Duration(rng.Int63n(seconds+1)) * time.Second), nil
}

func timestampBounds(params map[string]interface{}) (time.Time, time.Time, error) {
	var zero time.Time
	if params == nil {
		return zero, zero, errors.New("range_timestamp requires 'min' and 'max' params")
	}
	minRaw, hasMin := params["min"]
	maxRaw, hasMax := params["max"]
	if !hasMin || !hasMax {
		return zero, zero, errors.New("range_timestamp requires 'min' and 'max' params")
	}

	minStr, ok := minRaw.(string)
	if !ok {
		return zero, zero, errors.New("'min' must be a timestamp string")
	}
	maxStr, ok := maxRaw.(string)
	if !ok {
		return zero, zero, errors.New("'max' must be a timestamp string")
	}

	min, err := timeutil.ParseTimestamp(minStr)
	if err != nil {
		return zero, zero, fmt.Errorf("invalid 'min': %w", err)
	}
	max, err := timeutil.ParseTimestamp(maxStr)
	if err != nil {
		return zero, zero, fmt.Errorf("invalid 'max': %w", err)
	}
	return min, max, nil
}
