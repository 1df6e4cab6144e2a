package service

import (
	"testing"

	"github.com/flexprice/entitlement-engine/internal/domain/catalog"
	ierr "github.com/flexprice/entitlement-engine/internal/errors"
	"github.com/flexprice/entitlement-engine/internal/testutil"
	"github.com/flexprice/entitlement-engine/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type PriceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PriceService
}

func TestPriceService(t *testing.T) {
	suite.Run(t, new(PriceServiceSuite))
}

func (s *PriceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewPriceService(ServiceParams{
		Logger: s.GetLogger(),
		Config: s.GetConfig(),
		Store:  s.GetStore(),
		Cache:  s.GetCache(),
	})
}

type seatMonth struct{ seat, month int }

func seatMonths(prices []*catalog.Price) []seatMonth {
	return lo.Map(prices, func(p *catalog.Price, _ int) seatMonth { return seatMonth{p.Seat, p.Month} })
}

func (s *PriceServiceSuite) TestGetPriceBySeatAndMonths() {
	price, err := s.service.GetPriceBySeatAndMonths(types.ProductSilver, 100, 1)
	s.Require().NoError(err)
	s.Equal(100, price.Seat)
	s.Equal(1, price.Month)
	s.Equal(types.ProductSilver, price.Product)

	_, err = s.service.GetPriceBySeatAndMonths(types.ProductSilver, 10, 1)
	s.True(ierr.IsNotFound(err))

	_, err = s.service.GetPriceBySeatAndMonths(types.ProductSilver, 100, 3)
	s.True(ierr.IsNotFound(err))
}

func (s *PriceServiceSuite) TestGetPriceList() {
	silver, err := s.service.GetPriceList(types.ProductSilver)
	s.Require().NoError(err)
	s.Equal([]seatMonth{{2, 1}, {2, 6}, {2, 12}, {100, 1}, {100, 6}, {100, 12}}, seatMonths(silver))

	gold, err := s.service.GetPriceList(types.ProductGold)
	s.Require().NoError(err)
	s.Equal([]seatMonth{{200, 1}, {200, 6}, {200, 12}}, seatMonths(gold))

	bronze, err := s.service.GetPriceList(types.ProductBronze)
	s.NoError(err)
	s.Empty(bronze)

	_, err = s.service.GetPriceList(types.ProductEnterprise)
	s.True(ierr.IsNotFound(err))
}

func (s *PriceServiceSuite) TestGetPriceList_CachedCopies() {
	first, err := s.service.GetPriceList(types.ProductSilver)
	s.Require().NoError(err)
	s.Equal(1, s.GetCache().ItemCount())

	first[0].Seat = 999
	first[0].Amount = first[0].Amount.Neg()

	second, err := s.service.GetPriceList(types.ProductSilver)
	s.Require().NoError(err)
	s.Equal(1, s.GetCache().ItemCount())
	s.Equal(2, second[0].Seat)
	s.False(second[0].Amount.IsNegative())
}

func (s *PriceServiceSuite) TestGetPriceList_FollowsSwappedCatalog() {
	before, err := s.service.GetPriceList(types.ProductSilver)
	s.Require().NoError(err)
	s.Equal("39", before[0].Amount.String())

	s.UseCatalog(testutil.MinimalCatalogData())

	after, err := s.service.GetPriceList(types.ProductSilver)
	s.Require().NoError(err)
	s.Equal("20", after[0].Amount.String())
	s.Equal(2, s.GetCache().ItemCount())
}

func (s *PriceServiceSuite) TestGetPriceByPlanAndMonths() {
	price, err := s.service.GetPriceByPlanAndMonths("silver_seat_2", 6)
	s.Require().NoError(err)
	s.Equal("price_silver_2_6", price.ID)

	price, err = s.service.GetPriceByPlanAndMonths("gold_seat_200", 12)
	s.Require().NoError(err)
	s.Equal("70200", price.Amount.String())
	s.Equal("23400", price.Discount().String())

	_, err = s.service.GetPriceByPlanAndMonths("silver_seat_10", 1)
	s.True(ierr.IsNotFound(err))

	_, err = s.service.GetPriceByPlanAndMonths("ghost", 1)
	s.True(ierr.IsNotFound(err))
}

func (s *PriceServiceSuite) TestGetPriceByPlanAndMonths_SeatFallback() {
	// synthetic prices carry no plan id and resolve through the plan's seats
	s.UseCatalog(testutil.MinimalCatalogData())

	price, err := s.service.GetPriceByPlanAndMonths("silver_seat_100", 12)
	s.Require().NoError(err)
	s.Equal(100, price.Seat)
	s.Equal(12, price.Month)
}

func (s *PriceServiceSuite) TestGetPriceByPlanAndMonths_ReadsCurrentSnapshot() {
	_, err := s.service.GetPriceByPlanAndMonths("gold_seat_200", 12)
	s.Require().NoError(err)

	// the minimal catalog has no GOLD plans
	s.UseCatalog(testutil.MinimalCatalogData())
	_, err = s.service.GetPriceByPlanAndMonths("gold_seat_200", 12)
	s.True(ierr.IsNotFound(err))
	s.Contains(ierr.GetHints(err), "Plan not found")
}

func (s *PriceServiceSuite) TestGetPriceList_WithoutCache() {
	uncached := NewPriceService(ServiceParams{
		Logger: s.GetLogger(),
		Config: s.GetConfig(),
		Store:  s.GetStore(),
	})

	prices, err := uncached.GetPriceList(types.ProductSilver)
	s.Require().NoError(err)
	s.Len(prices, 6)
	prices[0].Seat = 999

	again, err := uncached.GetPriceList(types.ProductSilver)
	s.Require().NoError(err)
	s.Equal(2, again[0].Seat)
	s.Zero(s.GetCache().ItemCount())
}
