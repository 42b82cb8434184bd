package domain

// Resolve maps a performance metric to the matching tier of the rule set.
//
// Sales rule sets are staircase functions: the tier with the greatest
// threshold <= metric wins, so a metric below the lowest positive threshold
// lands on the below-floor tier (which may carry a negative percent).
// Dispatch rule sets are closed ranges, inclusive on both ends; the final
// tier's nil MaxMetric catches any value above the last finite boundary.
//
// A nil result means no tier covers the metric, which the aggregator treats
// as a zero reward. A missing rule set altogether is the caller's
// ErrRuleSetNotFound, never a silent zero.
func (rs RuleSet) Resolve(metric float64) *CommissionTier {
	if rs.Department == DepartmentDispatch {
		return rs.resolveRange(metric)
	}
	return rs.resolveStaircase(metric)
}

func (rs RuleSet) resolveStaircase(metric float64) *CommissionTier {
	var matched *CommissionTier
	for i := range rs.Tiers {
		tier := &rs.Tiers[i]
		if tier.MinMetric <= metric {
			matched = tier
			continue
		}
		break
	}
	return matched
}

func (rs RuleSet) resolveRange(metric float64) *CommissionTier {
	for i := range rs.Tiers {
		tier := &rs.Tiers[i]
		if metric < tier.MinMetric {
			continue
		}
		if tier.MaxMetric == nil || metric <= *tier.MaxMetric {
			return tier
		}
	}
	return nil
}

// ValidateTiers checks that tiers form a valid ordered rule set: ascending
// band boundaries, no overlapping dispatch ranges, at most one unbounded
// range (the last), and at least one reward component per tier.
func ValidateTiers(department Department, tiers []CommissionTier) error {
	if !department.Valid() {
		return ErrInvalidDepartment
	}

	for i := range tiers {
		tier := &tiers[i]
		if tier.MinMetric < 0 {
			return ErrInvalidBand
		}
		if tier.FlatAmountCents == nil && tier.Percent == nil {
			return ErrInvalidReward
		}
		if tier.MaxMetric != nil && *tier.MaxMetric < tier.MinMetric {
			return ErrInvalidBand
		}

		if i == 0 {
			continue
		}
		prev := &tiers[i-1]
		if tier.MinMetric <= prev.MinMetric {
			return ErrInvalidBand
		}
		if department == DepartmentDispatch {
			if prev.MaxMetric == nil {
				// Unbounded range must be last.
				return ErrOverlappingBand
			}
			if tier.MinMetric <= *prev.MaxMetric {
				return ErrOverlappingBand
			}
		}
	}

	return nil
}
