package testutil

import (
	"fmt"
	"testing"

	"github.com/flexprice/entitlement-engine/internal/domain/catalog"
	"github.com/flexprice/entitlement-engine/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	MiB int64 = 1024 * 1024
	GiB int64 = 1024 * MiB
)

// freeTiers is the free product used for each channel in synthetic catalogs
var freeTiers = map[types.ProductChannel]types.ProductTier{
	types.ProductChannelPrivate:  types.ProductPrivateCloud,
	types.ProductChannelAliyun:   types.ProductAtlas,
	types.ProductChannelVika:     types.ProductBronze,
	types.ProductChannelDingtalk: types.ProductDingtalkBase,
	types.ProductChannelLark:     types.ProductFeishuBase,
	types.ProductChannelWecom:    types.ProductWecomBase,
}

// FreeTier returns the free product tier synthetic catalogs use for channel
func FreeTier(channel types.ProductChannel) types.ProductTier {
	return freeTiers[channel]
}

// NewPlan builds an online base plan
func NewPlan(id string, product types.ProductTier, seats int, limits map[types.FeatureKey]int64, caps map[types.FeatureKey]bool) *catalog.Plan {
	return &catalog.Plan{
		ID:           id,
		Product:      product,
		Type:         types.PlanTypeBase,
		Seats:        seats,
		Online:       true,
		Limits:       limits,
		Capabilities: caps,
	}
}

// NewAddOnPlan builds an online add-on plan extending storage capacity
func NewAddOnPlan(id string, capacityBytes int64) *catalog.Plan {
	return &catalog.Plan{
		ID:      id,
		Product: types.ProductCapacity,
		Type:    types.PlanTypeAddOn,
		Online:  true,
		Limits: map[types.FeatureKey]int64{
			types.FeatureMaxCapacitySizeInBytes: capacityBytes,
		},
	}
}

// NewPrice builds a CNY price entry
func NewPrice(product types.ProductTier, seat, month int, amount string) *catalog.Price {
	return &catalog.Price{
		ID:             fmt.Sprintf("price_%s_%d_%d", lo.SnakeCase(product.String()), seat, month),
		Product:        product,
		Seat:           seat,
		Month:          month,
		Amount:         decimal.RequireFromString(amount),
		OriginalAmount: decimal.RequireFromString(amount),
		Currency:       "CNY",
	}
}

// NewEvent builds an event on the default track
func NewEvent(id, start, end string) *catalog.Event {
	return &catalog.Event{
		ID:           id,
		Name:         id,
		StartDate:    lo.Must(types.ParseDate(start)),
		EndDate:      lo.Must(types.ParseDate(end)),
		DiscountRate: decimal.RequireFromString("0.2"),
	}
}

// MinimalCatalogData returns the smallest valid catalog: one free product
// with one free plan for every channel, a seat tiered SILVER product, a
// capacity add-on, the SILVER price matrix and no events.
func MinimalCatalogData() catalog.Data {
	data := catalog.Data{}

	for _, channel := range types.AllProductChannels() {
		tier := freeTiers[channel]
		planID := lo.SnakeCase(tier.String()) + "_free"
		data.Plans = append(data.Plans, NewPlan(planID, tier, 0,
			map[types.FeatureKey]int64{
				types.FeatureMaxSheetNums:           30,
				types.FeatureMaxCapacitySizeInBytes: GiB,
			},
			map[types.FeatureKey]bool{
				types.FeatureIntegrationOfficePreview: true,
			},
		))
		data.Products = append(data.Products, &catalog.Product{
			ID:      tier,
			Name:    tier.String(),
			Channel: channel,
			Free:    true,
			Online:  true,
			Plans:   []string{planID},
		})
	}

	silverLimits := map[types.FeatureKey]int64{
		types.FeatureMaxSheetNums:           300,
		types.FeatureMaxCapacitySizeInBytes: 50 * GiB,
	}
	silverPlans := []*catalog.Plan{}
	for _, seats := range []int{2, 10, 100} {
		limits := lo.Assign(silverLimits, map[types.FeatureKey]int64{types.FeatureMaxSeats: int64(seats)})
		silverPlans = append(silverPlans, NewPlan(fmt.Sprintf("silver_seat_%d", seats), types.ProductSilver, seats, limits, nil))
	}
	data.Plans = append(data.Plans, silverPlans...)
	data.Products = append(data.Products, &catalog.Product{
		ID:     types.ProductSilver,
		Name:   "Silver",
		Online: true,
		Plans:  lo.Map(silverPlans, func(p *catalog.Plan, _ int) string { return p.ID }),
	})

	addOn := NewAddOnPlan("capacity_300_MB", 300*MiB)
	data.Plans = append(data.Plans, addOn)
	data.Products = append(data.Products, &catalog.Product{
		ID:     types.ProductCapacity,
		Name:   "Capacity",
		Online: true,
		Plans:  []string{addOn.ID},
	})

	silverPrices := []*catalog.Price{}
	for _, seat := range []int{2, 100} {
		for _, month := range []int{1, 6, 12} {
			silverPrices = append(silverPrices, NewPrice(types.ProductSilver, seat, month, fmt.Sprintf("%d", seat*month*10)))
		}
	}
	data.PriceLists = append(data.PriceLists, &catalog.PriceList{
		ID:      "silver",
		Product: types.ProductSilver,
		Prices:  silverPrices,
	})

	return data
}

// MustCatalog builds a snapshot and fails the test on error
func MustCatalog(t testing.TB, data catalog.Data) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(data)
	require.NoError(t, err)
	return c
}

// NewTestStore builds a store serving a snapshot of data
func NewTestStore(t testing.TB, data catalog.Data) *catalog.Store {
	t.Helper()
	store, err := catalog.NewStore(MustCatalog(t, data))
	require.NoError(t, err)
	return store
}
