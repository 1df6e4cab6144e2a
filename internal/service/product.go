package service

import (
	"github.com/flexprice/entitlement-engine/internal/domain/catalog"
	ierr "github.com/flexprice/entitlement-engine/internal/errors"
	"github.com/flexprice/entitlement-engine/internal/types"
	"github.com/samber/lo"
)

// ProductService resolves products and plans from the current catalog
type ProductService interface {
	// GetCurrentFreeProduct returns the free product of a channel
	GetCurrentFreeProduct(channel types.ProductChannel) (*catalog.Product, error)
	// GetFreePlan returns the single plan of the channel's free product
	GetFreePlan(channel types.ProductChannel) (*catalog.Plan, error)
	// GetPlan returns the plan of product sized for exactly seats. Products
	// that are not seat tiered resolve to their only plan.
	GetPlan(product types.ProductTier, seats int) (*catalog.Plan, error)
	GetPlansByProduct(product types.ProductTier) ([]*catalog.Plan, error)
	GetPlanByID(id string) (*catalog.Plan, error)
}

type productService struct {
	ServiceParams
}

func NewProductService(params ServiceParams) ProductService {
	return &productService{
		ServiceParams: params,
	}
}

func (s *productService) GetCurrentFreeProduct(channel types.ProductChannel) (*catalog.Product, error) {
	if !channel.IsValid() {
		return nil, ierr.NewErrorf("invalid product channel: %d", int(channel)).
			WithHint("Please provide a valid product channel").
			Mark(ierr.ErrValidation)
	}

	product, ok := s.Store.Load().FreeProduct(channel)
	if !ok {
		return nil, ierr.NewErrorf("no free product for channel %s", channel).
			WithHintf("Channel %s has no free product", channel).
			WithReportableDetails(map[string]any{
				"channel": channel.String(),
			}).
			Mark(ierr.ErrNotFound)
	}
	return product, nil
}

func (s *productService) GetFreePlan(channel types.ProductChannel) (*catalog.Plan, error) {
	if !channel.IsValid() {
		return nil, ierr.NewErrorf("invalid product channel: %d", int(channel)).
			WithHint("Please provide a valid product channel").
			Mark(ierr.ErrValidation)
	}

	snapshot := s.Store.Load()
	product, ok := snapshot.FreeProduct(channel)
	if !ok {
		return nil, ierr.NewErrorf("no free product for channel %s", channel).
			WithHintf("Channel %s has no free product", channel).
			Mark(ierr.ErrNotFound)
	}

	plans := snapshot.PlansOf(product.ID)
	if len(plans) == 0 {
		return nil, ierr.NewErrorf("free product %s has no plan", product.ID).
			WithHint("Free product has no plan").
			Mark(ierr.ErrNotFound)
	}
	return plans[0], nil
}

func (s *productService) GetPlan(product types.ProductTier, seats int) (*catalog.Plan, error) {
	if !product.IsValid() {
		return nil, ierr.NewErrorf("invalid product: %d", int(product)).
			WithHint("Please provide a valid product").
			Mark(ierr.ErrValidation)
	}
	if seats < 0 {
		return nil, ierr.NewErrorf("invalid seat count: %d", seats).
			WithHint("Seat count cannot be negative").
			WithReportableDetails(map[string]any{
				"seats": seats,
			}).
			Mark(ierr.ErrValidation)
	}

	plans := s.Store.Load().PlansOf(product)

	if plan, ok := lo.Find(plans, func(p *catalog.Plan) bool {
		return p.IsSeatTiered() && p.Seats == seats
	}); ok {
		return plan, nil
	}

	if len(plans) == 1 && !plans[0].IsSeatTiered() {
		return plans[0], nil
	}

	return nil, ierr.NewErrorf("no %s plan for %d seats", product, seats).
		WithHintf("Product %s has no plan for %d seats", product, seats).
		WithReportableDetails(map[string]any{
			"product":         product.String(),
			"seats":           seats,
			"available_seats": lo.FilterMap(plans, func(p *catalog.Plan, _ int) (int, bool) { return p.Seats, p.IsSeatTiered() }),
		}).
		Mark(ierr.ErrNotFound)
}

func (s *productService) GetPlansByProduct(product types.ProductTier) ([]*catalog.Plan, error) {
	snapshot := s.Store.Load()
	if _, ok := snapshot.Product(product); !ok {
		return nil, ierr.NewErrorf("product %s not found", product).
			WithHint("Product not found").
			WithReportableDetails(map[string]any{
				"product": int(product),
			}).
			Mark(ierr.ErrNotFound)
	}
	return snapshot.PlansOf(product), nil
}

func (s *productService) GetPlanByID(id string) (*catalog.Plan, error) {
	if id == "" {
		return nil, ierr.NewError("plan id is required").
			WithHint("Please provide a valid plan ID").
			Mark(ierr.ErrValidation)
	}

	plan, ok := s.Store.Load().Plan(id)
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
