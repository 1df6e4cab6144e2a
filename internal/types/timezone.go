package types

import (
	"strings"
	"time"

	// catalog dates must resolve the same way on hosts without zoneinfo
	_ "time/tzdata"

	ierr "github.com/flexprice/entitlement-engine/internal/errors"
)

// DefaultTimezone is the zone promotional calendars are published in
const DefaultTimezone = "Asia/Shanghai"

// timezoneAbbreviationMap maps common abbreviations to IANA identifiers
var timezoneAbbreviationMap = map[string]string{
	"UTC": "UTC",
	"GMT": "Europe/London",
	"CCT": "Asia/Shanghai", // China Coast Time, avoids the CST clash
	"HKT": "Asia/Hong_Kong",
	"SGT": "Asia/Singapore",
	"JST": "Asia/Tokyo",
	"KST": "Asia/Seoul",
	"IST": "Asia/Kolkata",
	"CET": "Europe/Berlin",
	"EST": "America/New_York",
	"PST": "America/Los_Angeles",
}

// ResolveTimezone converts an abbreviation to its IANA identifier or returns
// the input unchanged
func ResolveTimezone(timezone string) string {
	if ianaName, exists := timezoneAbbreviationMap[strings.ToUpper(strings.TrimSpace(timezone))]; exists {
		return ianaName
	}
	return timezone
}

// LoadTimezone resolves and loads a timezone
func LoadTimezone(timezone string) (*time.Location, error) {
	loc, err := time.LoadLocation(ResolveTimezone(timezone))
	if err != nil || timezone == "" {
		return nil, ierr.NewErrorf("unknown timezone %q", timezone).
			WithHint("Timezone must be an IANA name such as Asia/Shanghai or a known abbreviation").
			WithReportableDetails(map[string]any{
				"timezone": timezone,
			}).
			Mark(ierr.ErrValidation)
	}
	return loc, nil
}

func ValidateTimezone(timezone string) error {
	_, err := LoadTimezone(timezone)
	return err
}
