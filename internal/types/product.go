package types

import (
	"strings"

	ierr "github.com/flexprice/entitlement-engine/internal/errors"
)

// ProductTier is the closed set of products the catalog may define. The
// canonical identifier doubles as the product id in catalog documents.
type ProductTier int

const (
	ProductPrivateCloud ProductTier = iota + 1
	ProductAtlas
	ProductBronze
	ProductSilver
	ProductGold
	ProductEnterprise
	ProductDingtalkBase
	ProductDingtalkStandard
	ProductDingtalkEnterprise
	ProductFeishuBase
	ProductFeishuStandard
	ProductFeishuEnterprise
	ProductWecomBase
	ProductWecomStandard
	ProductWecomEnterprise
	ProductCapacity
)

func AllProductTiers() []ProductTier {
	return []ProductTier{
		ProductPrivateCloud,
		ProductAtlas,
		ProductBronze,
		ProductSilver,
		ProductGold,
		ProductEnterprise,
		ProductDingtalkBase,
		ProductDingtalkStandard,
		ProductDingtalkEnterprise,
		ProductFeishuBase,
		ProductFeishuStandard,
		ProductFeishuEnterprise,
		ProductWecomBase,
		ProductWecomStandard,
		ProductWecomEnterprise,
		ProductCapacity,
	}
}

// String returns the canonical product identifier
func (p ProductTier) String() string {
	switch p {
	case ProductPrivateCloud:
		return "PRIVATE_CLOUD"
	case ProductAtlas:
		return "ATLAS"
	case ProductBronze:
		return "BRONZE"
	case ProductSilver:
		return "SILVER"
	case ProductGold:
		return "GOLD"
	case ProductEnterprise:
		return "ENTERPRISE"
	case ProductDingtalkBase:
		return "DINGTALK_BASE"
	case ProductDingtalkStandard:
		return "DINGTALK_STANDARD"
	case ProductDingtalkEnterprise:
		return "DINGTALK_ENTERPRISE"
	case ProductFeishuBase:
		return "FEISHU_BASE"
	case ProductFeishuStandard:
		return "FEISHU_STANDARD"
	case ProductFeishuEnterprise:
		return "FEISHU_ENTERPRISE"
	case ProductWecomBase:
		return "WECOM_BASE"
	case ProductWecomStandard:
		return "WECOM_STANDARD"
	case ProductWecomEnterprise:
		return "WECOM_ENTERPRISE"
	case ProductCapacity:
		return "CAPACITY"
	}
	return ""
}

// Channel returns the channel the product is sold through. Add-on capacity
// is sold on the self-service channel.
func (p ProductTier) Channel() ProductChannel {
	switch p {
	case ProductPrivateCloud:
		return ProductChannelPrivate
	case ProductAtlas:
		return ProductChannelAliyun
	case ProductBronze, ProductSilver, ProductGold, ProductEnterprise, ProductCapacity:
		return ProductChannelVika
	case ProductDingtalkBase, ProductDingtalkStandard, ProductDingtalkEnterprise:
		return ProductChannelDingtalk
	case ProductFeishuBase, ProductFeishuStandard, ProductFeishuEnterprise:
		return ProductChannelLark
	case ProductWecomBase, ProductWecomStandard, ProductWecomEnterprise:
		return ProductChannelWecom
	}
	return 0
}

func (p ProductTier) IsValid() bool {
	return p.String() != ""
}

func ParseProductTier(s string) (ProductTier, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for _, p := range AllProductTiers() {
		if p.String() == name {
			return p, nil
		}
	}
	return 0, ierr.NewErrorf("unknown product: %q", s).
		WithHint("Product id must be one of the known product tiers").
		Mark(ierr.ErrValidation)
}

func (p ProductTier) MarshalText() ([]byte, error) {
	if !p.IsValid() {
		return nil, ierr.NewErrorf("invalid product tier: %d", int(p)).
			Mark(ierr.ErrValidation)
	}
	return []byte(p.String()), nil
}

func (p *ProductTier) UnmarshalText(text []byte) error {
	parsed, err := ParseProductTier(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
