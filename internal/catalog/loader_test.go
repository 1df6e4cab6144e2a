package catalog

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/flexprice/entitlement-engine/internal/config"
	domainCatalog "github.com/flexprice/entitlement-engine/internal/domain/catalog"
	ierr "github.com/flexprice/entitlement-engine/internal/errors"
	"github.com/flexprice/entitlement-engine/internal/logger"
	"github.com/flexprice/entitlement-engine/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type LoaderSuite struct {
	suite.Suite
	ctx context.Context
}

func TestLoader(t *testing.T) {
	suite.Run(t, new(LoaderSuite))
}

func (s *LoaderSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *LoaderSuite) defaultFile(name string) []byte {
	body, err := fs.ReadFile(defaults, "defaults/"+name)
	s.Require().NoError(err)
	return body
}

func (s *LoaderSuite) defaultFS() fstest.MapFS {
	return fstest.MapFS{
		"products.json": {Data: s.defaultFile("products.json")},
		"plans.json":    {Data: s.defaultFile("plans.json")},
		"prices.json":   {Data: s.defaultFile("prices.json")},
		"events.json":   {Data: s.defaultFile("events.json")},
	}
}

func priceStrings(prices []*domainCatalog.Price) []string {
	return lo.Map(prices, func(p *domainCatalog.Price, _ int) string {
		return p.ID + "=" + p.Amount.String() + "/" + p.OriginalAmount.String()
	})
}

func (s *LoaderSuite) TestLoadDefault() {
	c, err := LoadDefault(s.ctx)
	s.Require().NoError(err)

	s.Equal(domainCatalog.Summary{
		Products:   9,
		Plans:      12,
		PriceLists: 2,
		Prices:     9,
		Events:     2,
	}, c.Summary())

	for _, channel := range types.AllProductChannels() {
		_, ok := c.FreeProduct(channel)
		s.True(ok, channel.String())
	}

	addOn, ok := c.Plan("capacity_300_MB")
	s.Require().True(ok)
	s.True(addOn.IsAddOn())
	s.Equal(int64(300*1024*1024), addOn.Limits[types.FeatureMaxCapacitySizeInBytes])
}

func (s *LoaderSuite) TestLoadFS_OptionalDocuments() {
	fsys := s.defaultFS()
	delete(fsys, "prices.json")
	delete(fsys, "events.json")

	c, err := LoadFS(s.ctx, fsys)
	s.Require().NoError(err)
	s.Empty(c.PricesOf(types.ProductSilver))
	s.Empty(c.EventsByStart())
}

func (s *LoaderSuite) TestLoadFS_CSVPrices() {
	reference, err := LoadDefault(s.ctx)
	s.Require().NoError(err)

	var buf bytes.Buffer
	prices := append(reference.PricesOf(types.ProductSilver), reference.PricesOf(types.ProductGold)...)
	s.Require().NoError(WritePricesCSV(&buf, prices))

	fsys := s.defaultFS()
	delete(fsys, "prices.json")
	fsys["prices.csv"] = &fstest.MapFile{Data: buf.Bytes()}

	c, err := LoadFS(s.ctx, fsys)
	s.Require().NoError(err)
	s.Equal(priceStrings(reference.PricesOf(types.ProductSilver)), priceStrings(c.PricesOf(types.ProductSilver)))
	s.Equal(priceStrings(reference.PricesOf(types.ProductGold)), priceStrings(c.PricesOf(types.ProductGold)))
	s.Contains(c.PriceLists(), "silver")
}

func (s *LoaderSuite) TestLoadFS_CSVWithoutOriginalAmount() {
	fsys := s.defaultFS()
	delete(fsys, "prices.json")
	fsys["prices.csv"] = &fstest.MapFile{Data: []byte(
		"id,product,plan_id,seat,month,amount,original_amount,currency\n" +
			"silver_2_1,silver,silver_seat_2,2,1,39.90,,cny\n",
	)}

	c, err := LoadFS(s.ctx, fsys)
	s.Require().NoError(err)
	prices := c.PricesOf(types.ProductSilver)
	s.Require().Len(prices, 1)
	s.Equal("39.9", prices[0].OriginalAmount.String())
	s.Equal("CNY", prices[0].Currency)
}

func (s *LoaderSuite) TestLoadFS_Errors() {
	tests := []struct {
		name   string
		mutate func(fsys fstest.MapFS)
		hint   string
	}{
		{
			name:   "missing plans",
			mutate: func(fsys fstest.MapFS) { delete(fsys, "plans.json") },
			hint:   "Provide plans.json or plans.yaml",
		},
		{
			name: "document defined twice",
			mutate: func(fsys fstest.MapFS) {
				fsys["events.yaml"] = &fstest.MapFile{Data: []byte("[]\n")}
			},
			hint: "Keep exactly one file per catalog document",
		},
		{
			name: "unknown json field",
			mutate: func(fsys fstest.MapFS) {
				fsys["events.json"] = &fstest.MapFile{Data: []byte(`[{"id":"e","start_date":"2022-10-24","end_date":"2022-11-12","colour":"red"}]`)}
			},
			hint: "Catalog document events.json could not be decoded",
		},
		{
			name: "unknown product tier",
			mutate: func(fsys fstest.MapFS) {
				fsys["products.json"] = &fstest.MapFile{Data: []byte(`[{"id":"PLATINUM","plans":["x"]}]`)}
			},
			hint: "Catalog document products.json could not be decoded",
		},
		{
			name: "bad csv amount",
			mutate: func(fsys fstest.MapFS) {
				delete(fsys, "prices.json")
				fsys["prices.csv"] = &fstest.MapFile{Data: []byte(
					"id,product,plan_id,seat,month,amount,original_amount,currency\n" +
						"p1,SILVER,,2,1,cheap,,CNY\n",
				)}
			},
			hint: "Line 2 of prices.csv is not a valid price",
		},
		{
			name: "inconsistent catalog",
			mutate: func(fsys fstest.MapFS) {
				fsys["events.json"] = &fstest.MapFile{Data: []byte(
					`[{"id":"a","start_date":"2022-10-24","end_date":"2022-11-12"},` +
						`{"id":"b","start_date":"2022-11-01","end_date":"2022-11-20"}]`,
				)}
			},
			hint: "Billing catalog has 1 problem(s)",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			fsys := s.defaultFS()
			tt.mutate(fsys)

			c, err := LoadFS(s.ctx, fsys)
			s.Nil(c)
			s.Require().Error(err)
			s.True(ierr.IsConfiguration(err), err.Error())
			s.Contains(ierr.GetHints(err), tt.hint)
		})
	}
}

func (s *LoaderSuite) TestLoadFS_SeveralBrokenDocumentsKeepHints() {
	fsys := s.defaultFS()
	fsys["events.json"] = &fstest.MapFile{Data: []byte(`{not json`)}
	fsys["products.json"] = &fstest.MapFile{Data: []byte(`[{"id":"PLATINUM","plans":["x"]}]`)}

	_, err := LoadFS(s.ctx, fsys)
	s.Require().Error(err)
	s.True(ierr.IsConfiguration(err))

	hints := ierr.GetHints(err)
	s.True(
		lo.Contains(hints, "Catalog document events.json could not be decoded") ||
			lo.Contains(hints, "Catalog document products.json could not be decoded"),
		"hints: %v", hints)
}

func (s *LoaderSuite) TestLoadFS_CancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := LoadFS(ctx, s.defaultFS())
	s.ErrorIs(err, context.Canceled)
}

func (s *LoaderSuite) TestLoadDir_Missing() {
	_, err := LoadDir(s.ctx, filepath.Join(s.T().TempDir(), "absent"))
	s.Require().Error(err)
	s.True(ierr.IsConfiguration(err))
}

func (s *LoaderSuite) TestDump_RoundTrip() {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		s.Run(string(format), func() {
			original, err := LoadDefault(s.ctx)
			s.Require().NoError(err)

			dir := s.T().TempDir()
			s.Require().NoError(Dump(original, dir, format))

			loaded, err := LoadDir(s.ctx, dir)
			s.Require().NoError(err)

			s.Equal(original.Summary(), loaded.Summary())
			s.Equal(original.Plans(), loaded.Plans())
			s.Equal(original.Products(), loaded.Products())
			s.Equal(priceStrings(original.PricesOf(types.ProductSilver)), priceStrings(loaded.PricesOf(types.ProductSilver)))

			events := lo.Map(loaded.EventsByStart(), func(e *domainCatalog.Event, _ int) string {
				return e.ID + ":" + e.StartDate.String() + ":" + e.EndDate.String() + ":" + e.DiscountRate.String()
			})
			s.Equal([]string{
				"double_eleven_2022:2022-10-24:2022-11-12:0.2",
				"spring_2023:2023-03-01:2023-03-15:0.1",
			}, events)
		})
	}
}

func (s *LoaderSuite) TestDump_UnsupportedFormat() {
	c, err := LoadDefault(s.ctx)
	s.Require().NoError(err)
	err = Dump(c, s.T().TempDir(), FormatCSV)
	s.True(ierr.IsValidation(err))
}

func (s *LoaderSuite) TestNewStoreAndReload() {
	log := logger.NewNopLogger()
	cfg := config.GetDefaultConfig()

	store, err := NewStore(s.ctx, cfg, log)
	s.Require().NoError(err)
	first := store.Load().Revision()

	// a broken directory leaves the current snapshot in place
	broken := config.GetDefaultConfig()
	broken.Catalog.Source = types.CatalogSourceDir
	broken.Catalog.Dir = s.T().TempDir()
	_, err = Reload(s.ctx, store, broken, log)
	s.Require().Error(err)
	s.Equal(first, store.Load().Revision())

	next, err := Reload(s.ctx, store, cfg, log)
	s.Require().NoError(err)
	s.NotEqual(first, next.Revision())
	s.Equal(next.Revision(), store.Load().Revision())
}

func (s *LoaderSuite) TestNewStore_DirSource() {
	dir := s.T().TempDir()
	for name, f := range s.defaultFS() {
		s.Require().NoError(os.WriteFile(filepath.Join(dir, name), f.Data, 0o644))
	}

	cfg := config.GetDefaultConfig()
	cfg.Catalog.Source = types.CatalogSourceDir
	cfg.Catalog.Dir = dir

	store, err := NewStore(s.ctx, cfg, logger.NewNopLogger())
	s.Require().NoError(err)
	s.Equal(12, store.Load().Summary().Plans)
}
