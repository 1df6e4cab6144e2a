package catalog

import (
	"github.com/flexprice/entitlement-engine/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Product is a named offering sold through a single channel
type Product struct {
	ID      types.ProductTier    `json:"id" yaml:"id" validate:"required"`
	Name    string               `json:"name" yaml:"name"`
	Channel types.ProductChannel `json:"channel" yaml:"channel" validate:"required"`
	// Free marks the canonical free offering of the channel
	Free   bool     `json:"free" yaml:"free"`
	Online bool     `json:"online" yaml:"online"`
	Plans  []string `json:"plans" yaml:"plans" validate:"required,min=1,dive,required"`
}

func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	c.Plans = append([]string(nil), p.Plans...)
	return &c
}

// Plan is a purchasable or free tier of a product. Seats is the seat band the
// plan covers; zero or -1 means the plan is not seat tiered.
type Plan struct {
	ID           string                     `json:"id" yaml:"id" validate:"required"`
	Product      types.ProductTier          `json:"product" yaml:"product" validate:"required"`
	Type         types.PlanType             `json:"type" yaml:"type" validate:"required,oneof=base add_on"`
	Seats        int                        `json:"seats" yaml:"seats" validate:"gte=-1"`
	Online       bool                       `json:"online" yaml:"online"`
	Limits       map[types.FeatureKey]int64 `json:"limits,omitempty" yaml:"limits,omitempty" validate:"dive,gte=-1"`
	Capabilities map[types.FeatureKey]bool  `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
}

func (p *Plan) IsSeatTiered() bool {
	return p.Seats > 0
}

func (p *Plan) IsAddOn() bool {
	return p.Type == types.PlanTypeAddOn
}

// Limit implements planfeature.Source
func (p *Plan) Limit(key types.FeatureKey) (int64, bool) {
	v, ok := p.Limits[key]
	return v, ok
}

// Capability implements planfeature.Source
func (p *Plan) Capability(key types.FeatureKey) (bool, bool) {
	v, ok := p.Capabilities[key]
	return v, ok
}

func (p *Plan) Clone() *Plan {
	if p == nil {
		return nil
	}
	c := *p
	if p.Limits != nil {
		c.Limits = lo.Assign(map[types.FeatureKey]int64{}, p.Limits)
	}
	if p.Capabilities != nil {
		c.Capabilities = lo.Assign(map[types.FeatureKey]bool{}, p.Capabilities)
	}
	return &c
}

// Price is the amount charged for a product at a seat count and term
type Price struct {
	ID             string            `json:"id" yaml:"id" validate:"required"`
	Product        types.ProductTier `json:"product" yaml:"product" validate:"required"`
	PlanID         string            `json:"plan_id,omitempty" yaml:"plan_id,omitempty"`
	Seat           int               `json:"seat" yaml:"seat" validate:"gt=0"`
	Month          int               `json:"month" yaml:"month" validate:"gt=0"`
	Amount         decimal.Decimal   `json:"amount" yaml:"amount"`
	OriginalAmount decimal.Decimal   `json:"original_amount" yaml:"original_amount"`
	Currency       string            `json:"currency" yaml:"currency" validate:"required,len=3"`
}

func (p *Price) Clone() *Price {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Discount returns the amount saved against the original price
func (p *Price) Discount() decimal.Decimal {
	if p.OriginalAmount.LessThanOrEqual(p.Amount) {
		return decimal.Zero
	}
	return p.OriginalAmount.Sub(p.Amount)
}

// PriceList groups the published prices of one product
type PriceList struct {
	ID      string            `json:"id" yaml:"id" validate:"required"`
	Product types.ProductTier `json:"product" yaml:"product" validate:"required"`
	Prices  []*Price          `json:"prices" yaml:"prices" validate:"dive,required"`
}

func (l *PriceList) Clone() *PriceList {
	if l == nil {
		return nil
	}
	c := *l
	c.Prices = lo.Map(l.Prices, func(p *Price, _ int) *Price { return p.Clone() })
	return &c
}

// DefaultEventTrack is used for events that do not name a track
const DefaultEventTrack = "default"

// Event is a promotion active on the days of [StartDate, EndDate)
type Event struct {
	ID        string     `json:"id" yaml:"id" validate:"required"`
	Name      string     `json:"name" yaml:"name"`
	Track     string     `json:"track,omitempty" yaml:"track,omitempty"`
	StartDate types.Date `json:"start_date" yaml:"start_date"`
	EndDate   types.Date `json:"end_date" yaml:"end_date"`
	// DiscountRate is the fraction taken off list prices while the event runs
	DiscountRate decimal.Decimal `json:"discount_rate" yaml:"discount_rate"`
	BonusMonths  int             `json:"bonus_months,omitempty" yaml:"bonus_months,omitempty" validate:"gte=0"`
}

// Contains reports whether date falls inside the event window
func (e *Event) Contains(date types.Date) bool {
	return !date.Before(e.StartDate) && date.Before(e.EndDate)
}

// Overlaps reports whether the two windows share at least one day
func (e *Event) Overlaps(o *Event) bool {
	return e.StartDate.Before(o.EndDate) && o.StartDate.Before(e.EndDate)
}

func (e *Event) TrackName() string {
	if e.Track == "" {
		return DefaultEventTrack
	}
	return e.Track
}

func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}
