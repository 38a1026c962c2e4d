package generators

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/ghanse/dlt-workshop/internal/domain"
	"github.com/shopspring/decimal"
)

// RangeDecimalRule samples from [min, max] inclusive. With a 'step' param
// the value is quantized to min + i*step; without one a uniform draw is
// rounded to the column's declared scale.
type RangeDecimalRule struct{}

const defaultDecimalScale = 2

func (g *RangeDecimalRule) Validate(col domain.ColumnSpec) error {
	min, max, step, err := decimalBounds(col.Rule.Params)
	if err != nil {
		return err
	}
	if min.GreaterThan(max) {
		return fmt.Errorf("min (%s) must not exceed max (%s)", min, max)
	}
	if step != nil && step.Sign() <= 0 {
		return fmt.Errorf("'step' must be positive, got %s", step)
	}
	return nil
}

func (g *RangeDecimalRule) Generate(rng *rand.Rand, ctx RuleContext) (interface{}, error) {
	min, max, step, err := decimalBounds(ctx.Params)
	if err != nil {
		return nil, err
	}
	if min.GreaterThan(max) {
		return nil, fmt.Errorf("min (%s) must not exceed max (%s)", min, max)
	}

	scale := int32(ctx.Column.Scale)
	if ctx.Column.Scale == 0 {
		scale = defaultDecimalScale
	}

	if step != nil {
		if step.Sign() <= 0 {
			return nil, fmt.Errorf("'step' must be positive, got %s", step)
		}
		// Inclusive quantized draw: i in [0, (max-min)/step].
		steps := max.Sub(min).Div(*step).IntPart()
		i := rng.Int63n(steps + 1)
		return min.Add(step.Mul(decimal.NewFromInt(i))).Round(scale), nil
	}

	minF, _ := min.Float64()
	maxF, _ := max.Float64()
	return decimal.NewFromFloat(minF + rng.Float64()*(maxF-minF)).Round(scale), nil
}

func decimalBounds(params map[string]interface{}) (decimal.Decimal, decimal.Decimal, *decimal.Decimal, error) {
	var zero decimal.Decimal
	if params == nil {
		return zero, zero, nil, errors.New("range_decimal requires 'min' and 'max' params")
	}
	minRaw, hasMin := params["min"]
	maxRaw, hasMax := params["max"]
	if !hasMin || !hasMax {
		return zero, zero, nil, errors.New("range_decimal requires 'min' and 'max' params")
	}

	min, err := toDecimal(minRaw)
	if err != nil {
		return zero, zero, nil, fmt.Errorf("invalid 'min': %w", err)
	}
	max, err := toDecimal(maxRaw)
	if err != nil {
		return zero, zero, nil, fmt.Errorf("invalid 'max': %w", err)
	}

	var step *decimal.Decimal
	if stepRaw, hasStep := params["step"]; hasStep {
		s, err := toDecimal(stepRaw)
		if err != nil {
			return zero, zero, nil, fmt.Errorf("invalid 'step': %w", err)
		}
		step = &s
	}

	return min, max, step, nil
}
