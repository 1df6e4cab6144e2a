package service

import (
	"github.com/flexprice/entitlement-engine/internal/cache"
	"github.com/flexprice/entitlement-engine/internal/config"
	"github.com/flexprice/entitlement-engine/internal/domain/catalog"
	"github.com/flexprice/entitlement-engine/internal/logger"
	"go.uber.org/fx"
)

// ServiceParams holds the dependencies shared by every service
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Store  *catalog.Store
	Cache  cache.Cache
}

// ServiceParamsIn lets fx resolve ServiceParams field by field
type ServiceParamsIn struct {
	fx.In

	Logger *logger.Logger
	Config *config.Configuration
	Store  *catalog.Store
	Cache  cache.Cache
}

func NewServiceParams(in ServiceParamsIn) ServiceParams {
	return ServiceParams{
		Logger: in.Logger,
		Config: in.Config,
		Store:  in.Store,
		Cache:  in.Cache,
	}
}

// Module provides every service to an fx application
var Module = fx.Options(
	fx.Provide(
		NewServiceParams,
		NewProductService,
		NewPlanFeatureService,
		NewPriceService,
		NewEventService,
	),
)
