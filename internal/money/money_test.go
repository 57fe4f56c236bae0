package money

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ljb782039954/project-sync-script/internal/ir"
)

func TestFixed(t *testing.T) {
	got, err := Fixed(42).CalcMoney(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)
}

func TestFunc(t *testing.T) {
	half := Func(func(_ context.Context, amount int64) (int64, error) {
		return amount / 2, nil
	})
	got, err := half.CalcMoney(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(50), got)

	boom := errors.New("boom")
	_, err = Func(func(context.Context, int64) (int64, error) { return 0, boom }).CalcMoney(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
}

func TestMissing(t *testing.T) {
	_, err := Missing{}.CalcMoney(context.Background(), 100)
	require.Error(t, err)
	assert.True(t, ir.IsUnresolvedDependency(err))

	var e *ir.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, Name, e.Details["dependency"])
}

func TestResolved(t *testing.T) {
	assert.False(t, Resolved(nil))
	assert.False(t, Resolved(Missing{}))
	assert.True(t, Resolved(Fixed(0)))
	assert.True(t, Resolved(Func(nil)))
}

func TestOrMissing(t *testing.T) {
	assert.Equal(t, Missing{}, OrMissing(nil))
	assert.Equal(t, Fixed(3), OrMissing(Fixed(3)))
}
