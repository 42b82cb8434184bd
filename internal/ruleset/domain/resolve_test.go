package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flat(cents int64) *int64    { return &cents }
func pct(p float64) *float64     { return &p }
func bound(max float64) *float64 { return &max }

func salesRuleSet() RuleSet {
	return RuleSet{
		Department: DepartmentSales,
		Tiers: []CommissionTier{
			{MinMetric: 0, Percent: pct(-25)},
			{MinMetric: 2, FlatAmountCents: flat(500000)},
			{MinMetric: 5, FlatAmountCents: flat(2150000)},
		},
	}
}

func dispatchRuleSet() RuleSet {
	return RuleSet{
		Department: DepartmentDispatch,
		Tiers: []CommissionTier{
			{MinMetric: 651, MaxMetric: bound(850), Percent: pct(2.5)},
			{MinMetric: 851, MaxMetric: bound(3700), Percent: pct(9)},
			{MinMetric: 3701, Percent: pct(15)},
		},
	}
}

func TestResolve_SalesStaircase(t *testing.T) {
	rs := salesRuleSet()

	// 4 active leads clears the 2-threshold but not the 5-threshold.
	tier := rs.Resolve(4)
	require.NotNil(t, tier)
	assert.Equal(t, int64(500000), tier.Reward().FlatAmountCents)

	// A metric exactly on a threshold selects that threshold's tier.
	tier = rs.Resolve(5)
	require.NotNil(t, tier)
	assert.Equal(t, int64(2150000), tier.Reward().FlatAmountCents)

	// Below the lowest positive threshold lands on the penalty tier,
	// not a silent zero.
	tier = rs.Resolve(1)
	require.NotNil(t, tier)
	assert.Equal(t, float64(-25), tier.Reward().Percent)
}

func TestResolve_DispatchRanges(t *testing.T) {
	rs := dispatchRuleSet()

	tier := rs.Resolve(4000)
	require.NotNil(t, tier)
	assert.Equal(t, float64(15), tier.Reward().Percent)

	// Range boundaries are inclusive on both ends.
	tier = rs.Resolve(651)
	require.NotNil(t, tier)
	assert.Equal(t, float64(2.5), tier.Reward().Percent)

	tier = rs.Resolve(850)
	require.NotNil(t, tier)
	assert.Equal(t, float64(2.5), tier.Reward().Percent)

	// The final range's nil max is unbounded.
	tier = rs.Resolve(9_000_000)
	require.NotNil(t, tier)
	assert.Equal(t, float64(15), tier.Reward().Percent)

	// Below the first configured range nothing matches.
	assert.Nil(t, rs.Resolve(100))
}

func TestResolve_Monotonicity(t *testing.T) {
	// Resolving a strictly larger metric must never yield a strictly
	// smaller reward for any valid staircase rule set.
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		tierCount := 2 + rng.Intn(5)
		tiers := make([]CommissionTier, 0, tierCount)
		threshold := float64(0)
		amount := int64(rng.Intn(1000))
		for i := 0; i < tierCount; i++ {
			tiers = append(tiers, CommissionTier{
				MinMetric:       threshold,
				FlatAmountCents: flat(amount),
			})
			threshold += 1 + float64(rng.Intn(10))
			amount += int64(rng.Intn(100000))
		}
		rs := RuleSet{Department: DepartmentSales, Tiers: tiers}
		require.NoError(t, ValidateTiers(DepartmentSales, tiers))

		a := float64(rng.Intn(100))
		b := float64(rng.Intn(100))
		if a > b {
			a, b = b, a
		}

		lower := rs.Resolve(a)
		higher := rs.Resolve(b)
		require.NotNil(t, lower)
		require.NotNil(t, higher)
		assert.GreaterOrEqual(t, higher.Reward().FlatAmountCents, lower.Reward().FlatAmountCents,
			"metric %v resolved below metric %v", b, a)
	}
}

func TestValidateTiers(t *testing.T) {
	assert.NoError(t, ValidateTiers(DepartmentSales, salesRuleSet().Tiers))
	assert.NoError(t, ValidateTiers(DepartmentDispatch, dispatchRuleSet().Tiers))

	err := ValidateTiers(DepartmentDispatch, []CommissionTier{
		{MinMetric: 0, MaxMetric: bound(100), Percent: pct(1)},
		{MinMetric: 50, MaxMetric: bound(200), Percent: pct(2)},
	})
	assert.ErrorIs(t, err, ErrOverlappingBand)

	err = ValidateTiers(DepartmentDispatch, []CommissionTier{
		{MinMetric: 0, Percent: pct(1)},
		{MinMetric: 100, MaxMetric: bound(200), Percent: pct(2)},
	})
	assert.ErrorIs(t, err, ErrOverlappingBand)

	err = ValidateTiers(DepartmentSales, []CommissionTier{
		{MinMetric: 0},
	})
	assert.ErrorIs(t, err, ErrInvalidReward)

	err = ValidateTiers("support", nil)
	assert.ErrorIs(t, err, ErrInvalidDepartment)
}
