package generators

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/ghanse/dlt-workshop/internal/domain"
)

// ChoiceRule samples from an enumerated value set. With random=true it draws
// uniformly (or by the optional weights) with replacement; without it the
// values are assigned cyclically by row index, so a one-element set pins the
// column to a constant.
type ChoiceRule struct{}

func (g *ChoiceRule) Validate(col domain.ColumnSpec) error {
	params := col.Rule.Params
	if params == nil {
		return errors.New("choice requires 'values' param")
	}
	values, err := choiceValues(params)
	if err != nil {
		return err
	}

	if weightsRaw, hasWeights := params["weights"]; hasWeights {
		weights, ok := weightsRaw.([]interface{})
		if !ok {
			return errors.New("'weights' must be a list")
		}
		if len(weights) != len(values) {
			return errors.New("'weights' and 'values' must have the same length")
		}
		if !toBool(params["random"]) {
			return errors.New("'weights' requires random sampling")
		}
		total := 0.0
		for _, w := range weights {
			weight, ok := toFloat64(w)
			if !ok || weight < 0 {
				return fmt.Errorf("invalid weight: %v", w)
			}
			total += weight
		}
		if total == 0 {
			return errors.New("total weight is zero")
		}
	}

	return nil
}

func (g *ChoiceRule) Generate(rng *rand.Rand, ctx RuleContext) (interface{}, error) {
	values, err := choiceValues(ctx.Params)
	if err != nil {
		return nil, err
	}

	if !toBool(ctx.Params["random"]) {
		return values[ctx.RowIndex%int64(len(values))], nil
	}

	weightsRaw, hasWeights := ctx.Params["weights"]
	if !hasWeights {
		return values[rng.Intn(len(values))], nil
	}

	weights, ok := weightsRaw.([]interface{})
	if !ok || len(weights) != len(values) {
		return nil, errors.New("'weights' and 'values' must have the same length")
	}

	total := 0.0
	for _, w := range weights {
		weight, _ := toFloat64(w)
		total += weight
	}

	r := rng.Float64() * total
	cum := 0.0
	for i, w := range weights {
		weight, _ := toFloat64(w)
		cum += weight
		if r < cum {
			return values[i], nil
		}
	}
	return values[len(values)-1], nil
}

func choiceValues(params map[string]interface{}) ([]interface{}, error) {
	valuesRaw, ok := params["values"]
	if !ok {
		return nil, errors.New("choice requires 'values' param")
	}
	values, ok := valuesRaw.([]interface{})
	if !ok {
		return nil, errors.New("'values' must be a list")
	}
	if len(values) == 0 {
		return nil, errors.New("'values' cannot be empty")
	}
	return values, nil
}
