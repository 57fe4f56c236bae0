package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ljb782039954/project-sync-script/internal/ir"
	"github.com/ljb782039954/project-sync-script/internal/leaf"
	"github.com/ljb782039954/project-sync-script/internal/money"
	"github.com/ljb782039954/project-sync-script/internal/observe"
)

// MockCalculator is a testify mock of money.Calculator.
type MockCalculator struct {
	mock.Mock
}

func (m *MockCalculator) CalcMoney(ctx context.Context, amount int64) (int64, error) {
	args := m.Called(ctx, amount)
	return args.Get(0).(int64), args.Error(1)
}

func newComposer(calc money.Calculator) (*Composer, *observe.Memory) {
	rec := observe.NewMemory()
	return New(leaf.New(rec), calc, rec), rec
}

func TestHooks2_LiteralExample(t *testing.T) {
	calc := new(MockCalculator)
	calc.On("CalcMoney", mock.Anything, int64(100)).Return(int64(0), nil)
	c, _ := newComposer(calc)

	got, err := c.Hooks2(context.Background(), 1, 2)
	require.NoError(t, err)
	// 7 own + 6 point + 0 money + 5 addTwo + 6 otherTest
	assert.Equal(t, int64(24), got)
	calc.AssertExpectations(t)
}

func TestHooks2_MoneyContributes(t *testing.T) {
	c, _ := newComposer(money.Fixed(10))

	got, err := c.Hooks2(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(34), got)
}

func TestHooks2_OwnOperandsOnlyAffectOwnTerm(t *testing.T) {
	c, _ := newComposer(money.Fixed(0))
	ctx := context.Background()

	for _, op := range [][2]int64{{0, 0}, {10, 20}, {-3, 3}} {
		got, err := c.Hooks2(ctx, op[0], op[1])
		require.NoError(t, err)
		assert.Equal(t, op[0]+op[1]+21, got)
	}
}

func TestHooks3_LiteralExample(t *testing.T) {
	c, _ := newComposer(money.Fixed(0))

	got, err := c.Hooks3(context.Background(), 1, 2)
	require.NoError(t, err)
	// 8 own + 24 hooks2(1,2)
	assert.Equal(t, int64(32), got)
}

func TestHooks3_ForwardsOwnOperandsToHooks2(t *testing.T) {
	c, rec := newComposer(money.Fixed(0))

	got, err := c.Hooks3(context.Background(), 10, 20)
	require.NoError(t, err)
	// (10+20+5) + (10+20+21)
	assert.Equal(t, int64(86), got)

	entries := rec.Entries()
	require.GreaterOrEqual(t, len(entries), 2)
	assert.Equal(t, observe.Entry{Function: Hooks2, A: 10, B: 20}, entries[1])
}

func TestForsetHooks_LiteralExample(t *testing.T) {
	c, _ := newComposer(money.Fixed(0))

	got, err := c.ForsetHooks(context.Background(), 1, 2)
	require.NoError(t, err)
	// 10 own + 9 noLogTest + 24 hooks2 + 32 hooks3
	assert.Equal(t, int64(75), got)
}

func TestForsetHooks_SubCallsUseLiteralOperands(t *testing.T) {
	c, rec := newComposer(money.Fixed(0))

	got, err := c.ForsetHooks(context.Background(), 100, 200)
	require.NoError(t, err)
	assert.Equal(t, int64(100+200+7+9+24+32), got)

	for _, e := range rec.Entries()[1:] {
		assert.Equal(t, int64(1), e.A, "%s called with a=%d", e.Function, e.A)
		assert.Equal(t, int64(2), e.B, "%s called with b=%d", e.Function, e.B)
	}
}

func TestForsetHooks_CallOrder(t *testing.T) {
	c, rec := newComposer(money.Fixed(0))

	_, err := c.ForsetHooks(context.Background(), 1, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{
		ForsetHooks,
		leaf.NoLogTest,
		Hooks2, leaf.AddTwo, leaf.OtherTest,
		Hooks3, Hooks2, leaf.AddTwo, leaf.OtherTest,
	}, rec.Functions())
}

func TestMissingMoney_Propagates(t *testing.T) {
	c, rec := newComposer(nil)
	ctx := context.Background()

	for name, call := range map[string]func(context.Context, int64, int64) (int64, error){
		Hooks2:      c.Hooks2,
		Hooks3:      c.Hooks3,
		ForsetHooks: c.ForsetHooks,
	} {
		t.Run(name, func(t *testing.T) {
			rec.Reset()
			_, err := call(ctx, 1, 2)
			require.Error(t, err)
			assert.True(t, ir.IsUnresolvedDependency(err))
			assert.Contains(t, err.Error(), name+": ")
		})
	}
}

func TestMoneyError_StopsBeforeLeaves(t *testing.T) {
	boom := errors.New("rate service down")
	calc := new(MockCalculator)
	calc.On("CalcMoney", mock.Anything, int64(100)).Return(int64(0), boom)
	c, rec := newComposer(calc)

	_, err := c.Hooks2(context.Background(), 1, 2)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{Hooks2}, rec.Functions())
}

func TestDeterministic(t *testing.T) {
	c, _ := newComposer(money.Fixed(3))
	ctx := context.Background()

	first, err := c.ForsetHooks(ctx, 4, 5)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := c.ForsetHooks(ctx, 4, 5)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
