package tools

import (
	"github.com/shopspring/decimal"

	"hermes/pkg/errors"
)

// StringArg extracts an optional string argument.
func StringArg(args map[string]interface{}, name string) string {
	s, _ := args[name].(string)
	return s
}

// DecimalArg parses a numeric argument that may arrive as a JSON number or a
// numeric string. Returns zero when absent.
func DecimalArg(args map[string]interface{}, name string) (decimal.Decimal, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return decimal.Zero, nil
	}
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Zero, errors.NewValidationError(name, "not a valid number", n)
		}
		return d, nil
	default:
		return decimal.Zero, errors.NewValidationError(name, "not a valid number", v)
	}
}

// PositiveDecimalArg parses a required positive numeric argument.
func PositiveDecimalArg(args map[string]interface{}, name string) (decimal.Decimal, error) {
	d, err := DecimalArg(args, name)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, errors.NewValidationError(name, "must be a positive number", d.String())
	}
	return d, nil
}

// Int64Arg parses an optional integer argument.
func Int64Arg(args map[string]interface{}, name string) (int64, error) {
	d, err := DecimalArg(args, name)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, errors.NewValidationError(name, "must be an integer", d.String())
	}
	return d.IntPart(), nil
}
