package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrowthPercent(t *testing.T) {
	cases := []struct {
		name    string
		current int64
		prev    int64
		hasPrev bool
		want    int64
	}{
		{"no baseline, earned", 50000, 0, false, 100},
		{"zero baseline, earned", 50000, 0, true, 100},
		{"both zero", 0, 0, true, 0},
		{"no baseline, nothing earned", 0, 0, false, 0},
		{"flat", 100000, 100000, true, 0},
		{"grew by half", 150000, 100000, true, 50},
		{"halved", 50000, 100000, true, -50},
		{"rounds half up", 100500, 100000, true, 1},
		{"rounds toward nearest", 33300, 25000, true, 33},
		{"uncapped gain", 500000, 100000, true, 400},
		{"negative baseline treated as none", -10000, -5000, true, 0},
		{"recovered from penalty", 20000, -5000, true, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, growthPercent(tc.current, tc.prev, tc.hasPrev))
		})
	}
}

func TestClassifyBadges(t *testing.T) {
	t.Run("leader over target", func(t *testing.T) {
		badges := classifyBadges(1, 100, 0)
		assert.ElementsMatch(t, []string{"top-performer", "target-achieved"}, badges)
	})

	t.Run("steady climber", func(t *testing.T) {
		badges := classifyBadges(3, 80, 3)
		assert.ElementsMatch(t, []string{"consistent-growth"}, badges)
	})

	t.Run("rules are independent", func(t *testing.T) {
		// A cohort of one with no target: first place and at risk at once.
		badges := classifyBadges(1, 0, 0)
		assert.ElementsMatch(t, []string{"top-performer", "at-risk"}, badges)
	})

	t.Run("no badge", func(t *testing.T) {
		assert.Empty(t, classifyBadges(2, 85, 1))
	})
}
