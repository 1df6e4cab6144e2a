package types

import (
	"strings"

	ierr "github.com/flexprice/entitlement-engine/internal/errors"
)

// ProductChannel identifies the distribution context a tenant subscribed
// through. The set is closed: every switch over it must handle each variant.
type ProductChannel int

const (
	ProductChannelPrivate ProductChannel = iota + 1
	ProductChannelAliyun
	ProductChannelVika
	ProductChannelDingtalk
	ProductChannelLark
	ProductChannelWecom
)

// AllProductChannels returns every channel in declaration order
func AllProductChannels() []ProductChannel {
	return []ProductChannel{
		ProductChannelPrivate,
		ProductChannelAliyun,
		ProductChannelVika,
		ProductChannelDingtalk,
		ProductChannelLark,
		ProductChannelWecom,
	}
}

// String returns the canonical identifier of the channel
func (c ProductChannel) String() string {
	switch c {
	case ProductChannelPrivate:
		return "private"
	case ProductChannelAliyun:
		return "aliyun"
	case ProductChannelVika:
		return "vika"
	case ProductChannelDingtalk:
		return "dingtalk"
	case ProductChannelLark:
		return "lark"
	case ProductChannelWecom:
		return "wecom"
	}
	return ""
}

func (c ProductChannel) IsValid() bool {
	return c.String() != ""
}

// ParseProductChannel resolves a canonical identifier, case-insensitively
func ParseProductChannel(s string) (ProductChannel, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, c := range AllProductChannels() {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, ierr.NewErrorf("unknown product channel: %q", s).
		WithHint("Product channel must be one of private, aliyun, vika, dingtalk, lark, wecom").
		Mark(ierr.ErrValidation)
}

func (c ProductChannel) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, ierr.NewErrorf("invalid product channel: %d", int(c)).
			Mark(ierr.ErrValidation)
	}
	return []byte(c.String()), nil
}

func (c *ProductChannel) UnmarshalText(text []byte) error {
	parsed, err := ParseProductChannel(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
