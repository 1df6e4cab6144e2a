package testutil

import (
	"context"
	"time"

	"github.com/flexprice/entitlement-engine/internal/cache"
	loader "github.com/flexprice/entitlement-engine/internal/catalog"
	"github.com/flexprice/entitlement-engine/internal/config"
	"github.com/flexprice/entitlement-engine/internal/domain/catalog"
	"github.com/flexprice/entitlement-engine/internal/logger"
	"github.com/stretchr/testify/suite"
)

// BaseServiceTestSuite serves the embedded default catalog to service tests
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	config *config.Configuration
	logger *logger.Logger
	store  *catalog.Store
	cache  *cache.InMemoryCache
}

func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.config = config.GetDefaultConfig()
	s.logger = logger.NewNopLogger()
	s.cache = cache.NewInMemoryCache(time.Minute)

	c, err := loader.LoadDefault(s.ctx)
	s.Require().NoError(err)
	s.store, err = catalog.NewStore(c)
	s.Require().NoError(err)
}

func (s *BaseServiceTestSuite) TearDownTest() {
	s.cache.Flush()
}

// UseCatalog swaps a synthetic catalog into the store
func (s *BaseServiceTestSuite) UseCatalog(data catalog.Data) *catalog.Catalog {
	c := MustCatalog(s.T(), data)
	_, err := s.store.Swap(c)
	s.Require().NoError(err)
	return c
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetStore() *catalog.Store {
	return s.store
}

func (s *BaseServiceTestSuite) GetCache() *cache.InMemoryCache {
	return s.cache
}
