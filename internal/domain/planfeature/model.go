package planfeature

import (
	"github.com/flexprice/entitlement-engine/internal/types"
)

// PlanFeature is the effective feature set of a base plan combined with its
// add-ons. Numeric limits use types.UnlimitedValue for "no cap".
type PlanFeature struct {
	MaxSeats                 int64 `json:"max_seats"`
	MaxSheetNums             int64 `json:"max_sheet_nums"`
	MaxAPICall               int64 `json:"max_api_call"`
	MaxGanttViewsInSpace     int64 `json:"max_gantt_views_in_space"`
	MaxCalendarViewsInSpace  int64 `json:"max_calendar_views_in_space"`
	MaxFormViewsInSpace      int64 `json:"max_form_views_in_space"`
	MaxGalleryViewsInSpace   int64 `json:"max_gallery_views_in_space"`
	MaxKanbanViewsInSpace    int64 `json:"max_kanban_views_in_space"`
	MaxCapacitySizeInBytes   int64 `json:"max_capacity_size_in_bytes"`
	MaxAdminNums             int64 `json:"max_admin_nums"`
	NodePermissionNums       int64 `json:"node_permission_nums"`
	FieldPermissionNums      int64 `json:"field_permission_nums"`
	MaxRemainTimeMachineDays int64 `json:"max_remain_time_machine_days"`
	MaxRemainTrashDays       int64 `json:"max_remain_trash_days"`
	MaxRowsInSpace           int64 `json:"max_rows_in_space"`
	MaxRowsPerSheet          int64 `json:"max_rows_per_sheet"`

	IntegrationDingtalk      bool `json:"integration_dingtalk"`
	IntegrationFeishu        bool `json:"integration_feishu"`
	IntegrationWeCom         bool `json:"integration_wecom"`
	IntegrationOfficePreview bool `json:"integration_office_preview"`
	RainbowLabel             bool `json:"rainbow_label"`
	Watermark                bool `json:"watermark"`
}

// Source exposes the raw limits and capabilities configured on a plan.
// The second return value reports whether the key is configured at all.
type Source interface {
	Limit(key types.FeatureKey) (int64, bool)
	Capability(key types.FeatureKey) (bool, bool)
}

// ToMap flattens the feature set into key/value pairs
func (f *PlanFeature) ToMap() map[types.FeatureKey]any {
	out := make(map[types.FeatureKey]any, len(rules))
	for _, r := range rules {
		if r.flag != nil {
			out[r.Key] = *r.flag(f)
			continue
		}
		out[r.Key] = *r.numeric(f)
	}
	return out
}

// IsUnlimited reports whether a numeric feature has no cap. Boolean and
// unknown keys are never unlimited.
func (f *PlanFeature) IsUnlimited(key types.FeatureKey) bool {
	r, ok := rulesByKey[key]
	if !ok || r.numeric == nil {
		return false
	}
	return *r.numeric(f) == types.UnlimitedValue
}
