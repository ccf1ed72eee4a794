package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_CaseInsensitiveName(t *testing.T) {
	Register("storeHours", func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return map[string]string{"open": "08:00", "day": args["day"].(string)}, nil
	})
	defer Unregister("storeHours")

	got, err := Resolve(context.Background(), "STOREHOURS", map[string]interface{}{"day": "mon"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"open": "08:00", "day": "mon"}, got)
}

func TestResolve_NilArgsBecomeEmpty(t *testing.T) {
	Register("argCount", func(_ context.Context, args map[string]interface{}) (interface{}, error) {
		return len(args), nil
	})
	defer Unregister("argCount")

	got, err := Resolve(context.Background(), "argCount", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestResolve_Unknown(t *testing.T) {
	_, err := Resolve(context.Background(), "nonexistent", nil)
	assert.ErrorIs(t, err, ErrUnknownExtension)
}

func TestRegister_DuplicatePanics(t *testing.T) {
	noop := func(context.Context, map[string]interface{}) (interface{}, error) { return nil, nil }
	Register("dupExt", noop)
	defer Unregister("dupExt")
	assert.Panics(t, func() { Register("DUPEXT", noop) })
	assert.Panics(t, func() { Register("  ", noop) })
}

func TestArgs(t *testing.T) {
	type lookup struct {
		Code  string `json:"code"`
		Limit int    `json:"limit"`
	}
	got, err := Args[lookup](map[string]interface{}{"code": "save10", "limit": "3", "ignored": true})
	require.NoError(t, err)
	assert.Equal(t, lookup{Code: "save10", Limit: 3}, got)

	_, err = Args[lookup](map[string]interface{}{"limit": "three"})
	assert.Error(t, err)
}

func TestNames_Sorted(t *testing.T) {
	noop := func(context.Context, map[string]interface{}) (interface{}, error) { return nil, nil }
	Register("zeta", noop)
	Register("alpha", noop)
	defer Unregister("zeta")
	defer Unregister("alpha")

	names := Names()
	assert.Subset(t, names, []string{"alpha", "zeta"})
	assert.IsNonDecreasing(t, names)
}
