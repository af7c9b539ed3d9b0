package tools

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/pkg/errors"
)

func TestSchemaValidate(t *testing.T) {
	schema := Schema{
		Properties: map[string]Property{
			"token":  {Type: "string"},
			"amount": {Type: "number"},
			"side":   {Type: "string", Enum: []string{"buy", "sell"}},
		},
		Required: []string{"token", "amount"},
	}

	t.Run("valid args pass", func(t *testing.T) {
		err := schema.Validate(map[string]interface{}{"token": "CAKE", "amount": 1.5, "side": "buy"})
		assert.NoError(t, err)
	})

	t.Run("missing required field", func(t *testing.T) {
		err := schema.Validate(map[string]interface{}{"amount": 1.5})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidInput))

		var verr *errors.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "token", verr.Field)
	})

	t.Run("empty required string", func(t *testing.T) {
		err := schema.Validate(map[string]interface{}{"token": "", "amount": 1})
		assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	})

	t.Run("wrong type", func(t *testing.T) {
		err := schema.Validate(map[string]interface{}{"token": 42, "amount": 1})
		assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	})

	t.Run("enum violation", func(t *testing.T) {
		err := schema.Validate(map[string]interface{}{"token": "CAKE", "amount": 1, "side": "hold"})
		assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	})

	t.Run("numeric string accepted", func(t *testing.T) {
		err := schema.Validate(map[string]interface{}{"token": "CAKE", "amount": "0.5"})
		assert.NoError(t, err)
	})

	t.Run("unknown fields tolerated", func(t *testing.T) {
		err := schema.Validate(map[string]interface{}{"token": "CAKE", "amount": 1, "note": "extra"})
		assert.NoError(t, err)
	})
}

func TestSchemaJSON(t *testing.T) {
	schema := Schema{
		Properties: map[string]Property{
			"token": {Type: "string", Description: "token symbol or address"},
		},
		Required: []string{"token"},
	}

	doc := schema.JSON()
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, []string{"token"}, doc["required"])

	props, ok := doc["properties"].(map[string]interface{})
	require.True(t, ok)
	tokenProp, ok := props["token"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "string", tokenProp["type"])
}

func TestDecimalArg(t *testing.T) {
	t.Run("float", func(t *testing.T) {
		d, err := DecimalArg(map[string]interface{}{"amount": 1.25}, "amount")
		require.NoError(t, err)
		assert.True(t, d.Equal(decimal.RequireFromString("1.25")))
	})

	t.Run("string", func(t *testing.T) {
		d, err := DecimalArg(map[string]interface{}{"amount": "0.003"}, "amount")
		require.NoError(t, err)
		assert.True(t, d.Equal(decimal.RequireFromString("0.003")))
	})

	t.Run("absent yields zero", func(t *testing.T) {
		d, err := DecimalArg(map[string]interface{}{}, "amount")
		require.NoError(t, err)
		assert.True(t, d.IsZero())
	})

	t.Run("garbage string fails", func(t *testing.T) {
		_, err := DecimalArg(map[string]interface{}{"amount": "lots"}, "amount")
		assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	})
}

func TestPositiveDecimalArg(t *testing.T) {
	_, err := PositiveDecimalArg(map[string]interface{}{"amount": -1.0}, "amount")
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	_, err = PositiveDecimalArg(map[string]interface{}{}, "amount")
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestInt64Arg(t *testing.T) {
	n, err := Int64Arg(map[string]interface{}{"slippage": 250.0}, "slippage")
	require.NoError(t, err)
	assert.Equal(t, int64(250), n)

	_, err = Int64Arg(map[string]interface{}{"slippage": 0.5}, "slippage")
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestUserHandleContext(t *testing.T) {
	ctx := WithUserHandle(context.Background(), "alice")
	handle, ok := UserHandleFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "alice", handle)

	_, ok = UserHandleFromContext(context.Background())
	assert.False(t, ok)
}

type namedTool struct {
	name string
}

func (t *namedTool) Name() string        { return t.name }
func (t *namedTool) Description() string { return t.name }
func (t *namedTool) Schema() Schema      { return Schema{} }
func (t *namedTool) Execute(context.Context, map[string]interface{}, ProgressFunc) Result {
	return SuccessResult("ok", "")
}

func TestRegistryOrderAndReplace(t *testing.T) {
	reg := NewRegistry()
	a := &namedTool{name: "swap"}
	b := &namedTool{name: "wallet"}
	reg.Register(a)
	reg.Register(b)

	assert.Equal(t, []string{"swap", "wallet"}, reg.Names())

	replacement := &namedTool{name: "swap"}
	reg.Register(replacement)
	assert.Equal(t, []string{"swap", "wallet"}, reg.Names())

	got, ok := reg.Get("swap")
	require.True(t, ok)
	assert.Same(t, replacement, got)

	_, ok = reg.Get("missing")
	assert.False(t, ok)
}

func TestProgressFuncNilSafe(t *testing.T) {
	var f ProgressFunc
	assert.NotPanics(t, func() { f.Report(StageQuoting, "quoting") })

	var got []Progress
	f = func(p Progress) { got = append(got, p) }
	f.Report(StageConfirmed, "done")
	require.Len(t, got, 1)
	assert.Equal(t, StageConfirmed, got[0].Stage)
}
