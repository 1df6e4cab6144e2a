package catalog_test

import (
	"strings"
	"testing"

	"github.com/flexprice/entitlement-engine/internal/domain/catalog"
	ierr "github.com/flexprice/entitlement-engine/internal/errors"
	"github.com/flexprice/entitlement-engine/internal/testutil"
	"github.com/flexprice/entitlement-engine/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CatalogSuite struct {
	suite.Suite
	data catalog.Data
}

func TestCatalog(t *testing.T) {
	suite.Run(t, new(CatalogSuite))
}

func (s *CatalogSuite) SetupTest() {
	s.data = testutil.MinimalCatalogData()
}

func (s *CatalogSuite) requireProblem(data catalog.Data, contains string) {
	c, err := catalog.New(data)
	s.Nil(c)
	s.Require().Error(err)
	s.True(ierr.IsConfiguration(err))

	problems, ok := ierr.GetReportableDetails(err)["problems"].([]string)
	s.Require().True(ok)
	s.True(lo.ContainsBy(problems, func(p string) bool {
		return strings.Contains(p, contains)
	}), "expected a problem containing %q in %v", contains, problems)
}

func (s *CatalogSuite) TestNew_Valid() {
	c, err := catalog.New(s.data)
	s.Require().NoError(err)
	s.NotEmpty(c.Revision())
	s.False(c.LoadedAt().IsZero())

	s.Len(c.Products(), len(s.data.Products))
	s.Len(c.Plans(), len(s.data.Plans))
	s.Len(c.PriceLists(), 1)
	s.Empty(c.Events())

	for _, channel := range types.AllProductChannels() {
		p, ok := c.FreeProduct(channel)
		s.Require().True(ok, channel.String())
		s.Equal(testutil.FreeTier(channel), p.ID)
	}
}

func (s *CatalogSuite) TestNew_RevisionsDiffer() {
	a := testutil.MustCatalog(s.T(), s.data)
	b := testutil.MustCatalog(s.T(), testutil.MinimalCatalogData())
	s.NotEqual(a.Revision(), b.Revision())
}

func (s *CatalogSuite) TestNew_DefaultsChannelFromTier() {
	for _, p := range s.data.Products {
		if p.ID == types.ProductSilver {
			s.Equal(types.ProductChannel(0), p.Channel)
		}
	}
	c := testutil.MustCatalog(s.T(), s.data)
	silver, ok := c.Product(types.ProductSilver)
	s.Require().True(ok)
	s.Equal(types.ProductChannelVika, silver.Channel)
}

func (s *CatalogSuite) TestPlansOf_OrderedBySeats() {
	c := testutil.MustCatalog(s.T(), s.data)
	plans := c.PlansOf(types.ProductSilver)
	s.Equal([]int{2, 10, 100}, lo.Map(plans, func(p *catalog.Plan, _ int) int { return p.Seats }))
	s.Empty(c.PlansOf(types.ProductGold))
}

func (s *CatalogSuite) TestPricesOf_OrderedBySeatThenMonth() {
	c := testutil.MustCatalog(s.T(), s.data)
	prices := c.PricesOf(types.ProductSilver)
	s.Require().Len(prices, 6)
	s.Equal(2, prices[0].Seat)
	s.Equal(1, prices[0].Month)
	s.Equal(100, prices[5].Seat)
	s.Equal(12, prices[5].Month)
}

func (s *CatalogSuite) TestAccessors_ReturnCopies() {
	c := testutil.MustCatalog(s.T(), s.data)

	plan, ok := c.Plan("silver_seat_10")
	s.Require().True(ok)
	plan.Limits[types.FeatureMaxSheetNums] = 1
	plan.Seats = 99

	again, _ := c.Plan("silver_seat_10")
	s.Equal(int64(300), again.Limits[types.FeatureMaxSheetNums])
	s.Equal(10, again.Seats)

	products := c.Products()
	products[types.ProductSilver.String()].Plans[0] = "tampered"
	silver, _ := c.Product(types.ProductSilver)
	s.Equal("silver_seat_2", silver.Plans[0])

	lists := c.PriceLists()
	lists["silver"].Prices[0].Seat = 500
	s.Equal(2, c.PricesOf(types.ProductSilver)[0].Seat)

	// mutating the source data after New does not leak into the snapshot
	s.data.Plans[0].Limits[types.FeatureMaxSheetNums] = 7
	first, _ := c.Plan(s.data.Plans[0].ID)
	s.Equal(int64(30), first.Limits[types.FeatureMaxSheetNums])
}

func (s *CatalogSuite) TestNew_Problems() {
	tests := []struct {
		name     string
		mutate   func(d *catalog.Data)
		contains string
	}{
		{
			name: "missing plan",
			mutate: func(d *catalog.Data) {
				d.Products[0].Plans = append(d.Products[0].Plans, "ghost")
			},
			contains: `references missing plan "ghost"`,
		},
		{
			name: "plan of unknown product",
			mutate: func(d *catalog.Data) {
				d.Plans = append(d.Plans, testutil.NewPlan("gold_seat_200", types.ProductGold, 200, nil, nil))
			},
			contains: `belongs to unknown product "GOLD"`,
		},
		{
			name: "duplicate plan id",
			mutate: func(d *catalog.Data) {
				d.Plans = append(d.Plans, d.Plans[0].Clone())
			},
			contains: "duplicate plan id",
		},
		{
			name: "unknown feature key",
			mutate: func(d *catalog.Data) {
				d.Plans[0].Limits["max_unicorns"] = 3
			},
			contains: `unknown limit "max_unicorns"`,
		},
		{
			name: "flag configured as limit",
			mutate: func(d *catalog.Data) {
				d.Plans[0].Limits[types.FeatureWatermark] = 1
			},
			contains: `unknown limit "watermark"`,
		},
		{
			name: "limit below unlimited",
			mutate: func(d *catalog.Data) {
				d.Plans[0].Limits[types.FeatureMaxSeats] = -2
			},
			contains: "failed validation",
		},
		{
			name: "no free product on a channel",
			mutate: func(d *catalog.Data) {
				for _, p := range d.Products {
					if p.ID == types.ProductWecomBase {
						p.Free = false
					}
				}
			},
			contains: "channel wecom has no free product",
		},
		{
			name: "two free products on a channel",
			mutate: func(d *catalog.Data) {
				for _, p := range d.Products {
					if p.ID == types.ProductSilver {
						p.Free = true
					}
				}
			},
			contains: "channel vika has 2 free products",
		},
		{
			name: "offline free plan",
			mutate: func(d *catalog.Data) {
				d.Plans[0].Online = false
			},
			contains: "is offline",
		},
		{
			name: "channel mismatch",
			mutate: func(d *catalog.Data) {
				for _, p := range d.Products {
					if p.ID == types.ProductSilver {
						p.Channel = types.ProductChannelLark
					}
				}
			},
			contains: `product "SILVER" is sold on channel vika`,
		},
		{
			name: "duplicate seat tier",
			mutate: func(d *catalog.Data) {
				extra := testutil.NewPlan("silver_seat_10_bis", types.ProductSilver, 10, nil, nil)
				d.Plans = append(d.Plans, extra)
				for _, p := range d.Products {
					if p.ID == types.ProductSilver {
						p.Plans = append(p.Plans, extra.ID)
					}
				}
			},
			contains: "more than one plan for 10 seats",
		},
		{
			name: "duplicate price",
			mutate: func(d *catalog.Data) {
				d.PriceLists[0].Prices = append(d.PriceLists[0].Prices, testutil.NewPrice(types.ProductSilver, 2, 1, "1"))
			},
			contains: "both cover 2 seats for 1 months",
		},
		{
			name: "negative price",
			mutate: func(d *catalog.Data) {
				d.PriceLists[0].Prices[0].Amount = decimal.NewFromInt(-1)
			},
			contains: "has a negative amount",
		},
		{
			name: "second price list for product",
			mutate: func(d *catalog.Data) {
				d.PriceLists = append(d.PriceLists, &catalog.PriceList{
					ID:      "silver_2023",
					Product: types.ProductSilver,
					Prices:  []*catalog.Price{testutil.NewPrice(types.ProductSilver, 10, 1, "99")},
				})
			},
			contains: "has two price lists",
		},
		{
			name: "event ending before start",
			mutate: func(d *catalog.Data) {
				d.Events = append(d.Events, testutil.NewEvent("backwards", "2022-11-12", "2022-10-24"))
			},
			contains: `event "backwards" ends on 2022-10-24`,
		},
		{
			name: "overlapping events",
			mutate: func(d *catalog.Data) {
				d.Events = append(d.Events,
					testutil.NewEvent("double11", "2022-10-24", "2022-11-12"),
					testutil.NewEvent("black_friday", "2022-11-11", "2022-11-30"),
				)
			},
			contains: `events "double11" and "black_friday" overlap`,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			data := testutil.MinimalCatalogData()
			tt.mutate(&data)
			s.requireProblem(data, tt.contains)
		})
	}
}

func (s *CatalogSuite) TestNew_CollectsEveryProblem() {
	s.data.Products[0].Plans = append(s.data.Products[0].Plans, "ghost_a")
	s.data.Products[1].Plans = append(s.data.Products[1].Plans, "ghost_b")

	_, err := catalog.New(s.data)
	s.Require().Error(err)
	problems := ierr.GetReportableDetails(err)["problems"].([]string)
	s.Len(problems, 2)
	s.Contains(ierr.GetHints(err), "Billing catalog has 2 problem(s)")
}

func (s *CatalogSuite) TestEvents_AdjacentAndSeparateTracks() {
	s.data.Events = []*catalog.Event{
		testutil.NewEvent("autumn", "2022-10-01", "2022-10-24"),
		testutil.NewEvent("double11", "2022-10-24", "2022-11-12"),
	}
	partner := testutil.NewEvent("partner", "2022-10-30", "2022-11-05")
	partner.Track = "partner"
	s.data.Events = append(s.data.Events, partner)

	c := testutil.MustCatalog(s.T(), s.data)
	ids := lo.Map(c.EventsByStart(), func(e *catalog.Event, _ int) string { return e.ID })
	s.Equal([]string{"autumn", "double11", "partner"}, ids)
}

func (s *CatalogSuite) TestEvent_Contains() {
	e := testutil.NewEvent("double11", "2022-10-24", "2022-11-12")
	day := func(v string) types.Date { return lo.Must(types.ParseDate(v)) }

	s.False(e.Contains(day("2022-10-23")))
	s.True(e.Contains(day("2022-10-24")))
	s.True(e.Contains(day("2022-11-11")))
	s.False(e.Contains(day("2022-11-12")))
}

func (s *CatalogSuite) TestSummary() {
	s.data.Events = []*catalog.Event{testutil.NewEvent("double11", "2022-10-24", "2022-11-12")}
	c := testutil.MustCatalog(s.T(), s.data)
	s.Equal(catalog.Summary{
		Products:   8,
		Plans:      10,
		PriceLists: 1,
		Prices:     6,
		Events:     1,
	}, c.Summary())
}

func (s *CatalogSuite) TestPriceList() {
	c := testutil.MustCatalog(s.T(), s.data)

	list, ok := c.PriceList(types.ProductSilver)
	s.Require().True(ok)
	s.Equal("silver", list.ID)
	s.Len(list.Prices, 6)

	list.Prices = nil
	again, _ := c.PriceList(types.ProductSilver)
	s.Len(again.Prices, 6)

	_, ok = c.PriceList(types.ProductCapacity)
	s.False(ok)
}

func (s *CatalogSuite) TestNew_UntieredSeatMarkers() {
	private := testutil.FreeTier(types.ProductChannelPrivate)
	setSeats := func(d *catalog.Data, seats int) {
		for _, p := range d.Plans {
			if p.Product == private {
				p.Seats = seats
			}
		}
	}

	setSeats(&s.data, -1)
	c := testutil.MustCatalog(s.T(), s.data)
	plans := c.PlansOf(private)
	s.Require().Len(plans, 1)
	s.Equal(-1, plans[0].Seats)
	s.False(plans[0].IsSeatTiered())

	data := testutil.MinimalCatalogData()
	setSeats(&data, -2)
	s.requireProblem(data, "failed validation")
}
