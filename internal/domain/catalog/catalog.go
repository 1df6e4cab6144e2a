package catalog

import (
	"fmt"
	"sort"
	"time"

	"github.com/flexprice/entitlement-engine/internal/domain/planfeature"
	ierr "github.com/flexprice/entitlement-engine/internal/errors"
	"github.com/flexprice/entitlement-engine/internal/types"
	"github.com/flexprice/entitlement-engine/internal/validator"
	"github.com/oklog/ulid/v2"
	"github.com/samber/lo"
)

// Catalog is an immutable, validated snapshot of the billing configuration.
// Build one with New; every accessor hands out copies.
type Catalog struct {
	revision string
	loadedAt time.Time

	products   map[types.ProductTier]*Product
	plans      map[string]*Plan
	priceLists map[string]*PriceList
	events     map[string]*Event

	freeProducts    map[types.ProductChannel]*Product
	listByProduct   map[types.ProductTier]*PriceList
	plansByProduct  map[types.ProductTier][]*Plan
	pricesByProduct map[types.ProductTier][]*Price
	eventsByStart   []*Event
}

// Data is the raw content of a catalog before validation
type Data struct {
	Products   []*Product
	Plans      []*Plan
	PriceLists []*PriceList
	Events     []*Event
}

// New validates data and freezes it into a snapshot. Any inconsistency is
// reported as a configuration error listing every problem found.
func New(data Data) (*Catalog, error) {
	c := &Catalog{
		revision:   ulid.Make().String(),
		loadedAt:   time.Now().UTC(),
		products:   make(map[types.ProductTier]*Product, len(data.Products)),
		plans:      make(map[string]*Plan, len(data.Plans)),
		priceLists: make(map[string]*PriceList, len(data.PriceLists)),
		events:     make(map[string]*Event, len(data.Events)),
	}

	v := &problems{}
	c.addPlans(v, data.Plans)
	c.addProducts(v, data.Products)
	c.addPriceLists(v, data.PriceLists)
	c.addEvents(v, data.Events)

	if v.empty() {
		c.checkFreeProducts(v)
		c.checkSeatTiers(v)
		c.checkEventWindows(v)
	}

	if err := v.err(); err != nil {
		return nil, err
	}
	return c, nil
}

// Revision uniquely identifies this snapshot
func (c *Catalog) Revision() string {
	return c.revision
}

func (c *Catalog) LoadedAt() time.Time {
	return c.loadedAt
}

// Summary counts the entities of a snapshot
type Summary struct {
	Products   int `json:"products"`
	Plans      int `json:"plans"`
	PriceLists int `json:"price_lists"`
	Prices     int `json:"prices"`
	Events     int `json:"events"`
}

func (c *Catalog) Summary() Summary {
	prices := 0
	for _, l := range c.pricesByProduct {
		prices += len(l)
	}
	return Summary{
		Products:   len(c.products),
		Plans:      len(c.plans),
		PriceLists: len(c.priceLists),
		Prices:     prices,
		Events:     len(c.events),
	}
}

// Plans returns plan id -> plan
func (c *Catalog) Plans() map[string]*Plan {
	return lo.MapValues(c.plans, func(p *Plan, _ string) *Plan { return p.Clone() })
}

// Products returns product id -> product
func (c *Catalog) Products() map[string]*Product {
	out := make(map[string]*Product, len(c.products))
	for id, p := range c.products {
		out[id.String()] = p.Clone()
	}
	return out
}

// PriceLists returns price list id -> price list
func (c *Catalog) PriceLists() map[string]*PriceList {
	return lo.MapValues(c.priceLists, func(l *PriceList, _ string) *PriceList { return l.Clone() })
}

// Events returns event id -> event
func (c *Catalog) Events() map[string]*Event {
	return lo.MapValues(c.events, func(e *Event, _ string) *Event { return e.Clone() })
}

func (c *Catalog) Plan(id string) (*Plan, bool) {
	p, ok := c.plans[id]
	return p.Clone(), ok
}

func (c *Catalog) Product(tier types.ProductTier) (*Product, bool) {
	p, ok := c.products[tier]
	return p.Clone(), ok
}

// PriceList returns the price list of a product
func (c *Catalog) PriceList(tier types.ProductTier) (*PriceList, bool) {
	l, ok := c.listByProduct[tier]
	return l.Clone(), ok
}

// FreeProduct returns the canonical free product of a channel
func (c *Catalog) FreeProduct(channel types.ProductChannel) (*Product, bool) {
	p, ok := c.freeProducts[channel]
	return p.Clone(), ok
}

// PlansOf returns the plans of a product ordered by seat band then id
func (c *Catalog) PlansOf(tier types.ProductTier) []*Plan {
	return lo.Map(c.plansByProduct[tier], func(p *Plan, _ int) *Plan { return p.Clone() })
}

// PricesOf returns the prices of a product ordered by seat then month
func (c *Catalog) PricesOf(tier types.ProductTier) []*Price {
	return lo.Map(c.pricesByProduct[tier], func(p *Price, _ int) *Price { return p.Clone() })
}

// EventsByStart returns every event ordered by start date then id
func (c *Catalog) EventsByStart() []*Event {
	return lo.Map(c.eventsByStart, func(e *Event, _ int) *Event { return e.Clone() })
}

func (c *Catalog) addPlans(v *problems, plans []*Plan) {
	for i, p := range plans {
		if p == nil {
			v.addf("plans[%d] is empty", i)
			continue
		}
		if err := validator.ValidateRequest(p); err != nil {
			v.addf("plan %q failed validation: %s", p.ID, lo.FirstOr(ierr.GetHints(err), err.Error()))
			continue
		}
		if _, dup := c.plans[p.ID]; dup {
			v.addf("duplicate plan id %q", p.ID)
			continue
		}
		for key := range p.Limits {
			if r, ok := planfeature.LookupRule(key); !ok || r.Kind() != types.FeatureKindNumeric {
				v.addf("plan %q sets unknown limit %q", p.ID, key)
			}
		}
		for key := range p.Capabilities {
			if r, ok := planfeature.LookupRule(key); !ok || r.Kind() != types.FeatureKindBoolean {
				v.addf("plan %q sets unknown capability %q", p.ID, key)
			}
		}
		c.plans[p.ID] = p.Clone()
	}
}

func (c *Catalog) addProducts(v *problems, products []*Product) {
	c.plansByProduct = make(map[types.ProductTier][]*Plan)
	for i, raw := range products {
		if raw == nil {
			v.addf("products[%d] is empty", i)
			continue
		}
		p := raw.Clone()
		// the channel is implied by the product tier when omitted
		if p.Channel == 0 {
			p.Channel = p.ID.Channel()
		}
		if err := validator.ValidateRequest(p); err != nil {
			v.addf("product %q failed validation: %s", p.ID, lo.FirstOr(ierr.GetHints(err), err.Error()))
			continue
		}
		if _, dup := c.products[p.ID]; dup {
			v.addf("duplicate product id %q", p.ID)
			continue
		}
		if p.Channel != p.ID.Channel() {
			v.addf("product %q is sold on channel %s, not %s", p.ID, p.ID.Channel(), p.Channel)
		}
		if dups := lo.FindDuplicates(p.Plans); len(dups) > 0 {
			v.addf("product %q lists plans %v more than once", p.ID, dups)
		}

		for _, planID := range lo.Uniq(p.Plans) {
			plan, ok := c.plans[planID]
			if !ok {
				v.addf("product %q references missing plan %q", p.ID, planID)
				continue
			}
			if plan.Product != p.ID {
				v.addf("plan %q belongs to product %q but is listed by %q", planID, plan.Product, p.ID)
				continue
			}
			c.plansByProduct[p.ID] = append(c.plansByProduct[p.ID], plan)
		}
		c.products[p.ID] = p
	}

	for id, plan := range c.plans {
		if _, ok := c.products[plan.Product]; !ok {
			v.addf("plan %q belongs to unknown product %q", id, plan.Product)
		}
	}

	for tier := range c.plansByProduct {
		sort.SliceStable(c.plansByProduct[tier], func(i, j int) bool {
			a, b := c.plansByProduct[tier][i], c.plansByProduct[tier][j]
			if a.Seats != b.Seats {
				return a.Seats < b.Seats
			}
			return a.ID < b.ID
		})
	}
}

func (c *Catalog) addPriceLists(v *problems, lists []*PriceList) {
	c.pricesByProduct = make(map[types.ProductTier][]*Price)
	c.listByProduct = make(map[types.ProductTier]*PriceList)
	seen := make(map[string]string)

	for i, l := range lists {
		if l == nil {
			v.addf("price_lists[%d] is empty", i)
			continue
		}
		list := l.Clone()
		// prices inherit the product of their list
		for _, p := range list.Prices {
			if p != nil && p.Product == 0 {
				p.Product = list.Product
			}
		}
		if err := validator.ValidateRequest(list); err != nil {
			v.addf("price list %q failed validation: %s", list.ID, lo.FirstOr(ierr.GetHints(err), err.Error()))
			continue
		}
		if _, dup := c.priceLists[list.ID]; dup {
			v.addf("duplicate price list id %q", list.ID)
			continue
		}
		if other, dup := c.listByProduct[list.Product]; dup {
			v.addf("product %q has two price lists: %q and %q", list.Product, other.ID, list.ID)
			continue
		}
		if _, ok := c.products[list.Product]; !ok {
			v.addf("price list %q prices unknown product %q", list.ID, list.Product)
			continue
		}
		c.listByProduct[list.Product] = list

		for _, p := range list.Prices {
			if p.Product != list.Product {
				v.addf("price %q is for product %q but sits in the list of %q", p.ID, p.Product, list.Product)
				continue
			}
			if p.PlanID != "" {
				if plan, ok := c.plans[p.PlanID]; !ok || plan.Product != p.Product {
					v.addf("price %q references plan %q outside product %q", p.ID, p.PlanID, p.Product)
				}
			}
			if p.Amount.IsNegative() {
				v.addf("price %q has a negative amount", p.ID)
			}
			key := fmt.Sprintf("%s/%d/%d", p.Product, p.Seat, p.Month)
			if other, dup := seen[key]; dup {
				v.addf("prices %q and %q both cover %d seats for %d months of %q", other, p.ID, p.Seat, p.Month, p.Product)
				continue
			}
			seen[key] = p.ID
			c.pricesByProduct[p.Product] = append(c.pricesByProduct[p.Product], p)
		}
		c.priceLists[list.ID] = list
	}

	for tier := range c.pricesByProduct {
		sort.SliceStable(c.pricesByProduct[tier], func(i, j int) bool {
			a, b := c.pricesByProduct[tier][i], c.pricesByProduct[tier][j]
			if a.Seat != b.Seat {
				return a.Seat < b.Seat
			}
			return a.Month < b.Month
		})
	}
}

func (c *Catalog) addEvents(v *problems, events []*Event) {
	for i, e := range events {
		if e == nil {
			v.addf("events[%d] is empty", i)
			continue
		}
		if err := validator.ValidateRequest(e); err != nil {
			v.addf("event %q failed validation: %s", e.ID, lo.FirstOr(ierr.GetHints(err), err.Error()))
			continue
		}
		if _, dup := c.events[e.ID]; dup {
			v.addf("duplicate event id %q", e.ID)
			continue
		}
		if e.StartDate.IsZero() || e.EndDate.IsZero() {
			v.addf("event %q needs both a start and an end date", e.ID)
			continue
		}
		if !e.EndDate.After(e.StartDate) {
			v.addf("event %q ends on %s, not after its start %s", e.ID, e.EndDate, e.StartDate)
			continue
		}
		if e.DiscountRate.IsNegative() || e.DiscountRate.GreaterThan(decimalOne) {
			v.addf("event %q discount rate %s is outside [0, 1]", e.ID, e.DiscountRate)
			continue
		}
		c.events[e.ID] = e.Clone()
	}

	c.eventsByStart = lo.Values(c.events)
	sort.Slice(c.eventsByStart, func(i, j int) bool {
		a, b := c.eventsByStart[i], c.eventsByStart[j]
		if cmp := a.StartDate.Compare(b.StartDate); cmp != 0 {
			return cmp < 0
		}
		return a.ID < b.ID
	})
}

func (c *Catalog) checkFreeProducts(v *problems) {
	c.freeProducts = make(map[types.ProductChannel]*Product)
	for _, channel := range types.AllProductChannels() {
		free := lo.Filter(lo.Values(c.products), func(p *Product, _ int) bool {
			return p.Free && p.Channel == channel
		})
		switch len(free) {
		case 0:
			v.addf("channel %s has no free product", channel)
			continue
		case 1:
		default:
			ids := lo.Map(free, func(p *Product, _ int) string { return p.ID.String() })
			sort.Strings(ids)
			v.addf("channel %s has %d free products: %v", channel, len(free), ids)
			continue
		}

		product := free[0]
		plans := c.plansByProduct[product.ID]
		if len(plans) != 1 {
			v.addf("free product %q must offer exactly one plan, found %d", product.ID, len(plans))
			continue
		}
		if !plans[0].Online {
			v.addf("free plan %q of product %q is offline", plans[0].ID, product.ID)
			continue
		}
		c.freeProducts[channel] = product
	}
}

func (c *Catalog) checkSeatTiers(v *problems) {
	for tier, plans := range c.plansByProduct {
		tiered := lo.Filter(plans, func(p *Plan, _ int) bool { return p.IsSeatTiered() })
		dups := lo.FindDuplicatesBy(tiered, func(p *Plan) int { return p.Seats })
		for _, d := range dups {
			v.addf("product %q has more than one plan for %d seats", tier, d.Seats)
		}
	}
}

func (c *Catalog) checkEventWindows(v *problems) {
	byTrack := lo.GroupBy(c.eventsByStart, func(e *Event) string { return e.TrackName() })
	for track, events := range byTrack {
		for i := 1; i < len(events); i++ {
			prev, cur := events[i-1], events[i]
			if prev.Overlaps(cur) {
				v.addf("events %q and %q overlap in track %q", prev.ID, cur.ID, track)
			}
		}
	}
}
