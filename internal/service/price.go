package service

import (
	"github.com/flexprice/entitlement-engine/internal/cache"
	"github.com/flexprice/entitlement-engine/internal/domain/catalog"
	ierr "github.com/flexprice/entitlement-engine/internal/errors"
	"github.com/flexprice/entitlement-engine/internal/types"
	"github.com/samber/lo"
)

const priceListCachePrefix = "price_list"

// PriceService resolves published prices
type PriceService interface {
	GetPriceBySeatAndMonths(product types.ProductTier, seats, months int) (*catalog.Price, error)
	// GetPriceList returns every price of product ordered by seat then month
	GetPriceList(product types.ProductTier) ([]*catalog.Price, error)
	GetPriceByPlanAndMonths(planID string, months int) (*catalog.Price, error)
}

type priceService struct {
	ServiceParams
}

func NewPriceService(params ServiceParams) PriceService {
	return &priceService{
		ServiceParams: params,
	}
}

func (s *priceService) GetPriceBySeatAndMonths(product types.ProductTier, seats, months int) (*catalog.Price, error) {
	prices, err := s.GetPriceList(product)
	if err != nil {
		return nil, err
	}

	price, ok := lo.Find(prices, func(p *catalog.Price) bool {
		return p.Seat == seats && p.Month == months
	})
	if !ok {
		return nil, ierr.NewErrorf("no %s price for %d seats over %d months", product, seats, months).
			WithHint("No price matches the requested seats and months").
			WithReportableDetails(map[string]any{
				"product": product.String(),
				"seats":   seats,
				"months":  months,
			}).
			Mark(ierr.ErrNotFound)
	}
	return price, nil
}

func (s *priceService) GetPriceList(product types.ProductTier) ([]*catalog.Price, error) {
	snapshot := s.Store.Load()
	if _, ok := snapshot.Product(product); !ok {
		return nil, ierr.NewErrorf("product %s not found", product).
			WithHint("Product not found").
			WithReportableDetails(map[string]any{
				"product": int(product),
			}).
			Mark(ierr.ErrNotFound)
	}

	if s.Cache == nil {
		return snapshot.PricesOf(product), nil
	}

	// entries are keyed by revision so a swapped catalog never serves stale prices
	key := cache.Key(priceListCachePrefix, snapshot.Revision(), product.String())
	if v, found := s.Cache.Get(key); found {
		if cached, ok := cache.UnmarshalCacheValue[[]*catalog.Price](v); ok {
			return clonePrices(*cached), nil
		}
	}

	// the cache owns this copy; callers always get their own
	prices := snapshot.PricesOf(product)
	s.Cache.Set(key, &prices, s.Config.Cache.Expiry)
	return clonePrices(prices), nil
}

func (s *priceService) GetPriceByPlanAndMonths(planID string, months int) (*catalog.Price, error) {
	plan, ok := s.Store.Load().Plan(planID)
	if !ok {
		return nil, ierr.NewErrorf("plan %s not found", planID).
			WithHint("Plan not found").
			WithReportableDetails(map[string]any{
				"plan_id": planID,
			}).
			Mark(ierr.ErrNotFound)
	}

	prices, err := s.GetPriceList(plan.Product)
	if err != nil {
		return nil, err
	}

	// prices naming the plan win over prices matched by seat count
	price, ok := lo.Find(prices, func(p *catalog.Price) bool {
		return p.PlanID == planID && p.Month == months
	})
	if !ok && plan.IsSeatTiered() {
		price, ok = lo.Find(prices, func(p *catalog.Price) bool {
			return p.PlanID == "" && p.Seat == plan.Seats && p.Month == months
		})
	}
	if !ok {
		return nil, ierr.NewErrorf("no price for plan %s over %d months", planID, months).
			WithHint("No price matches the requested plan and months").
			WithReportableDetails(map[string]any{
				"plan_id": planID,
				"months":  months,
			}).
			Mark(ierr.ErrNotFound)
	}
	return price, nil
}

func clonePrices(prices []*catalog.Price) []*catalog.Price {
	return lo.Map(prices, func(p *catalog.Price, _ int) *catalog.Price { return p.Clone() })
}
