package types

import (
	ierr "github.com/flexprice/entitlement-engine/internal/errors"
	"github.com/samber/lo"
)

// UnlimitedValue marks a numeric limit without a cap
const UnlimitedValue int64 = -1

// FeatureKey names a limit or capability carried by a plan
type FeatureKey string

const (
	FeatureMaxSeats                 FeatureKey = "max_seats"
	FeatureMaxSheetNums             FeatureKey = "max_sheet_nums"
	FeatureMaxAPICall               FeatureKey = "max_api_call"
	FeatureMaxGanttViewsInSpace     FeatureKey = "max_gantt_views_in_space"
	FeatureMaxCalendarViewsInSpace  FeatureKey = "max_calendar_views_in_space"
	FeatureMaxFormViewsInSpace      FeatureKey = "max_form_views_in_space"
	FeatureMaxGalleryViewsInSpace   FeatureKey = "max_gallery_views_in_space"
	FeatureMaxKanbanViewsInSpace    FeatureKey = "max_kanban_views_in_space"
	FeatureMaxCapacitySizeInBytes   FeatureKey = "max_capacity_size_in_bytes"
	FeatureMaxAdminNums             FeatureKey = "max_admin_nums"
	FeatureNodePermissionNums       FeatureKey = "node_permission_nums"
	FeatureFieldPermissionNums      FeatureKey = "field_permission_nums"
	FeatureMaxRemainTimeMachineDays FeatureKey = "max_remain_time_machine_days"
	FeatureMaxRemainTrashDays       FeatureKey = "max_remain_trash_days"
	FeatureMaxRowsInSpace           FeatureKey = "max_rows_in_space"
	FeatureMaxRowsPerSheet          FeatureKey = "max_rows_per_sheet"

	FeatureIntegrationDingtalk      FeatureKey = "integration_dingtalk"
	FeatureIntegrationFeishu        FeatureKey = "integration_feishu"
	FeatureIntegrationWeCom         FeatureKey = "integration_wecom"
	FeatureIntegrationOfficePreview FeatureKey = "integration_office_preview"
	FeatureRainbowLabel             FeatureKey = "rainbow_label"
	FeatureWatermark                FeatureKey = "watermark"
)

// FeatureKind tells whether a feature holds a numeric limit or a boolean flag
type FeatureKind string

const (
	FeatureKindNumeric FeatureKind = "numeric"
	FeatureKindBoolean FeatureKind = "boolean"
)

// MergeRule describes how a feature value combines across a base plan and
// its add-ons.
type MergeRule string

const (
	// MergeRuleSumUnlimited adds add-on values to the base value, unless the
	// base is unlimited, which absorbs everything
	MergeRuleSumUnlimited MergeRule = "sum_with_unlimited"
	// MergeRuleTakeBase ignores add-ons
	MergeRuleTakeBase MergeRule = "take_base"
	// MergeRuleOr grants the flag if any contributing plan grants it
	MergeRuleOr MergeRule = "or"
)

func (r MergeRule) Validate() error {
	allowed := []MergeRule{MergeRuleSumUnlimited, MergeRuleTakeBase, MergeRuleOr}
	if !lo.Contains(allowed, r) {
		return ierr.NewErrorf("invalid merge rule: %s", r).
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PlanType distinguishes base plans from add-on plans
type PlanType string

const (
	PlanTypeBase  PlanType = "base"
	PlanTypeAddOn PlanType = "add_on"
)
