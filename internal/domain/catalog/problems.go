package catalog

import (
	"fmt"
	"sort"

	ierr "github.com/flexprice/entitlement-engine/internal/errors"
	"github.com/shopspring/decimal"
)

var decimalOne = decimal.NewFromInt(1)

// problems collects every validation failure found while building a snapshot
type problems struct {
	list []string
}

func (p *problems) addf(format string, args ...any) {
	p.list = append(p.list, fmt.Sprintf(format, args...))
}

func (p *problems) empty() bool {
	return len(p.list) == 0
}

func (p *problems) err() error {
	if p.empty() {
		return nil
	}
	sort.Strings(p.list)
	return ierr.NewErrorf("invalid billing catalog: %s", p.list[0]).
		WithHintf("Billing catalog has %d problem(s)", len(p.list)).
		WithReportableDetails(map[string]any{
			"problems": p.list,
		}).
		Mark(ierr.ErrConfiguration)
}
