package jsonlogic

import (
	"math"
	"reflect"

	"github.com/shopspring/decimal"
)

// Sum adds its arguments. A single list argument is summed element-wise.
func Sum(args ...any) any {
	if len(args) == 1 {
		if list := reflect.ValueOf(args[0]); list.Kind() == reflect.Slice {
			s := 0.0
			for i := 0; i < list.Len(); i++ {
				s += toFloat64(list.Index(i).Interface())
			}
			return s
		}
	}
	s := 0.0
	for _, a := range args {
		s += toFloat64(a)
	}
	return s
}

// Round rounds half away from zero: {"round": [value, precision]}.
func Round(args ...any) any {
	if len(args) == 0 {
		return 0.0
	}
	p := 0
	if len(args) > 1 {
		p = int(toFloat64(args[1]))
	}
	f := math.Pow(10, float64(p))
	return math.Round(toFloat64(args[0])*f) / f
}

// Trunc truncates toward negative infinity at the given precision, one
// decimal by default: {"trunc": [value, precision]}. It matches the
// free-quantity granularity so conditions can reason in the same units.
func Trunc(args ...any) any {
	if len(args) == 0 {
		return 0.0
	}
	p := int32(1)
	if len(args) > 1 {
		p = int32(toFloat64(args[1]))
	}
	shift := decimal.New(1, p)
	v := decimal.NewFromFloat(toFloat64(args[0]))
	return v.Mul(shift).Floor().Div(shift).InexactFloat64()
}

// Count returns the length of a list argument.
func Count(args ...any) any {
	if len(args) == 0 {
		return 0.0
	}
	list := reflect.ValueOf(args[0])
	if list.Kind() != reflect.Slice {
		return 0.0
	}
	return float64(list.Len())
}

func toFloat64(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case int32:
		return float64(val)
	case uint:
		return float64(val)
	case uint64:
		return float64(val)
	case uint32:
		return float64(val)
	case bool:
		if val {
			return 1
		}
		return 0
	default:
		return 0
	}
}
