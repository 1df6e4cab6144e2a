package service

import (
	"github.com/flexprice/entitlement-engine/internal/domain/catalog"
	"github.com/flexprice/entitlement-engine/internal/domain/planfeature"
	ierr "github.com/flexprice/entitlement-engine/internal/errors"
)

// PlanFeatureService computes effective feature sets
type PlanFeatureService interface {
	// BuildPlanFeature merges base with addOns. The result does not depend on
	// the order of addOns.
	BuildPlanFeature(base *catalog.Plan, addOns []*catalog.Plan) (*planfeature.PlanFeature, error)
	// BuildPlanFeatureByIDs resolves the plans from the current catalog first
	BuildPlanFeatureByIDs(basePlanID string, addOnPlanIDs ...string) (*planfeature.PlanFeature, error)
}

type planFeatureService struct {
	ServiceParams
}

func NewPlanFeatureService(params ServiceParams) PlanFeatureService {
	return &planFeatureService{
		ServiceParams: params,
	}
}

func (s *planFeatureService) BuildPlanFeature(base *catalog.Plan, addOns []*catalog.Plan) (*planfeature.PlanFeature, error) {
	if base == nil {
		return nil, ierr.NewError("base plan is required").
			WithHint("A base plan is required to build a plan feature").
			Mark(ierr.ErrValidation)
	}

	sources := make([]planfeature.Source, 0, len(addOns))
	for i, addOn := range addOns {
		// a nil *Plan would not compare equal to a nil Source
		if addOn == nil {
			return nil, ierr.NewErrorf("add-on plan at index %d is nil", i).
				WithHint("Add-on plans must not be empty").
				WithReportableDetails(map[string]any{
					"index": i,
				}).
				Mark(ierr.ErrValidation)
		}
		sources = append(sources, addOn)
	}

	return planfeature.Build(base, sources...)
}

func (s *planFeatureService) BuildPlanFeatureByIDs(basePlanID string, addOnPlanIDs ...string) (*planfeature.PlanFeature, error) {
	snapshot := s.Store.Load()

	lookup := func(id string) (*catalog.Plan, error) {
		plan, ok := snapshot.Plan(id)
		if !ok {
			return nil, ierr.NewErrorf("plan %s not found", id).
				WithHint("Plan not found").
				WithReportableDetails(map[string]any{
					"plan_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return plan, nil
	}

	base, err := lookup(basePlanID)
	if err != nil {
		return nil, err
	}

	addOns := make([]*catalog.Plan, 0, len(addOnPlanIDs))
	for _, id := range addOnPlanIDs {
		addOn, err := lookup(id)
		if err != nil {
			return nil, err
		}
		addOns = append(addOns, addOn)
	}

	return s.BuildPlanFeature(base, addOns)
}
