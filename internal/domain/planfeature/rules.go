package planfeature

import (
	"github.com/flexprice/entitlement-engine/internal/types"
	"github.com/samber/lo"
)

// Rule binds a feature key to its merge rule and to the PlanFeature field
// that holds the resolved value. Exactly one of numeric or flag is set.
type Rule struct {
	Key     types.FeatureKey
	Merge   types.MergeRule
	numeric func(*PlanFeature) *int64
	flag    func(*PlanFeature) *bool
}

func (r Rule) Kind() types.FeatureKind {
	if r.flag != nil {
		return types.FeatureKindBoolean
	}
	return types.FeatureKindNumeric
}

func num(key types.FeatureKey, merge types.MergeRule, field func(*PlanFeature) *int64) Rule {
	return Rule{Key: key, Merge: merge, numeric: field}
}

func flag(key types.FeatureKey, field func(*PlanFeature) *bool) Rule {
	return Rule{Key: key, Merge: types.MergeRuleOr, flag: field}
}

// rules is the merge table. Add-ons only extend storage capacity; every
// other numeric limit is a hard cap taken from the base plan.
var rules = []Rule{
	num(types.FeatureMaxSeats, types.MergeRuleTakeBase, func(f *PlanFeature) *int64 { return &f.MaxSeats }),
	num(types.FeatureMaxSheetNums, types.MergeRuleTakeBase, func(f *PlanFeature) *int64 { return &f.MaxSheetNums }),
	num(types.FeatureMaxAPICall, types.MergeRuleTakeBase, func(f *PlanFeature) *int64 { return &f.MaxAPICall }),
	num(types.FeatureMaxGanttViewsInSpace, types.MergeRuleTakeBase, func(f *PlanFeature) *int64 { return &f.MaxGanttViewsInSpace }),
	num(types.FeatureMaxCalendarViewsInSpace, types.MergeRuleTakeBase, func(f *PlanFeature) *int64 { return &f.MaxCalendarViewsInSpace }),
	num(types.FeatureMaxFormViewsInSpace, types.MergeRuleTakeBase, func(f *PlanFeature) *int64 { return &f.MaxFormViewsInSpace }),
	num(types.FeatureMaxGalleryViewsInSpace, types.MergeRuleTakeBase, func(f *PlanFeature) *int64 { return &f.MaxGalleryViewsInSpace }),
	num(types.FeatureMaxKanbanViewsInSpace, types.MergeRuleTakeBase, func(f *PlanFeature) *int64 { return &f.MaxKanbanViewsInSpace }),
	num(types.FeatureMaxCapacitySizeInBytes, types.MergeRuleSumUnlimited, func(f *PlanFeature) *int64 { return &f.MaxCapacitySizeInBytes }),
	num(types.FeatureMaxAdminNums, types.MergeRuleTakeBase, func(f *PlanFeature) *int64 { return &f.MaxAdminNums }),
	num(types.FeatureNodePermissionNums, types.MergeRuleTakeBase, func(f *PlanFeature) *int64 { return &f.NodePermissionNums }),
	num(types.FeatureFieldPermissionNums, types.MergeRuleTakeBase, func(f *PlanFeature) *int64 { return &f.FieldPermissionNums }),
	num(types.FeatureMaxRemainTimeMachineDays, types.MergeRuleTakeBase, func(f *PlanFeature) *int64 { return &f.MaxRemainTimeMachineDays }),
	num(types.FeatureMaxRemainTrashDays, types.MergeRuleTakeBase, func(f *PlanFeature) *int64 { return &f.MaxRemainTrashDays }),
	num(types.FeatureMaxRowsInSpace, types.MergeRuleTakeBase, func(f *PlanFeature) *int64 { return &f.MaxRowsInSpace }),
	num(types.FeatureMaxRowsPerSheet, types.MergeRuleTakeBase, func(f *PlanFeature) *int64 { return &f.MaxRowsPerSheet }),

	flag(types.FeatureIntegrationDingtalk, func(f *PlanFeature) *bool { return &f.IntegrationDingtalk }),
	flag(types.FeatureIntegrationFeishu, func(f *PlanFeature) *bool { return &f.IntegrationFeishu }),
	flag(types.FeatureIntegrationWeCom, func(f *PlanFeature) *bool { return &f.IntegrationWeCom }),
	flag(types.FeatureIntegrationOfficePreview, func(f *PlanFeature) *bool { return &f.IntegrationOfficePreview }),
	flag(types.FeatureRainbowLabel, func(f *PlanFeature) *bool { return &f.RainbowLabel }),
	flag(types.FeatureWatermark, func(f *PlanFeature) *bool { return &f.Watermark }),
}

var rulesByKey = lo.KeyBy(rules, func(r Rule) types.FeatureKey { return r.Key })

// Rules returns a copy of the merge table in declaration order
func Rules() []Rule {
	return append([]Rule(nil), rules...)
}

// LookupRule returns the rule registered for key
func LookupRule(key types.FeatureKey) (Rule, bool) {
	r, ok := rulesByKey[key]
	return r, ok
}
