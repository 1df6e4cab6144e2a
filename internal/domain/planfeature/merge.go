package planfeature

import (
	"math"

	ierr "github.com/flexprice/entitlement-engine/internal/errors"
	"github.com/flexprice/entitlement-engine/internal/types"
)

// Build merges base with the given add-ons field by field using the merge
// table. It is pure and independent of add-on order.
func Build(base Source, addOns ...Source) (*PlanFeature, error) {
	if base == nil {
		return nil, ierr.NewError("base plan is required").
			WithHint("A base plan is required to build a plan feature").
			Mark(ierr.ErrValidation)
	}
	for i, addOn := range addOns {
		if addOn == nil {
			return nil, ierr.NewErrorf("add-on plan at index %d is nil", i).
				WithHint("Add-on plans must not be empty").
				WithReportableDetails(map[string]any{
					"index": i,
				}).
				Mark(ierr.ErrValidation)
		}
	}

	f := &PlanFeature{}
	for _, r := range rules {
		switch r.Merge {
		case types.MergeRuleSumUnlimited:
			*r.numeric(f) = sumWithUnlimited(r.Key, base, addOns)
		case types.MergeRuleTakeBase:
			*r.numeric(f) = limitOf(base, r.Key)
		case types.MergeRuleOr:
			*r.flag(f) = anyCapability(r.Key, base, addOns)
		}
	}
	return f, nil
}

func limitOf(s Source, key types.FeatureKey) int64 {
	if v, ok := s.Limit(key); ok {
		return v
	}
	return types.UnlimitedValue
}

// sumWithUnlimited adds add-on boosts to the base value. An unlimited base
// absorbs; an add-on that is unlimited or does not configure the key adds
// nothing. The sum saturates at math.MaxInt64.
func sumWithUnlimited(key types.FeatureKey, base Source, addOns []Source) int64 {
	total := limitOf(base, key)
	if total == types.UnlimitedValue {
		return types.UnlimitedValue
	}
	for _, addOn := range addOns {
		v, ok := addOn.Limit(key)
		if !ok || v <= 0 {
			continue
		}
		if total > math.MaxInt64-v {
			return math.MaxInt64
		}
		total += v
	}
	return total
}

func anyCapability(key types.FeatureKey, base Source, addOns []Source) bool {
	if v, ok := base.Capability(key); ok && v {
		return true
	}
	for _, addOn := range addOns {
		if v, ok := addOn.Capability(key); ok && v {
			return true
		}
	}
	return false
}
