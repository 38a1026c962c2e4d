package generators

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

func toInt64(v interface{}) (int64, bool) {
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int64:
		return val, true
	case float64:
		// JSON decodes every number as float64; only whole values are
		// acceptable integer bounds.
		if val != math.Trunc(val) {
			return 0, false
		}
		return int64(val), true
	default:
		return 0, false
	}
}

func toFloat64(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	default:
		return 0, false
	}
}

func toBool(v interface{}) bool {
	b, ok := v.(bool)
	return ok && b
}

func toDecimal(v interface{}) (decimal.Decimal, error) {
	switch val := v.(type) {
	case int:
		return decimal.NewFromInt(int64(val)), nil
	case int64:
		return decimal.NewFromInt(val), nil
	case float64:
		return decimal.NewFromFloat(val), nil
	case string:
		return decimal.NewFromString(val)
	default:
		return decimal.Decimal{}, fmt.Errorf("cannot interpret %v (%T) as a decimal", v, v)
	}
}
