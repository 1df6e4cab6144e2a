package catalog

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	domainCatalog "github.com/flexprice/entitlement-engine/internal/domain/catalog"
	ierr "github.com/flexprice/entitlement-engine/internal/errors"
	"github.com/flexprice/entitlement-engine/internal/types"
	"github.com/gocarina/gocsv"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// PriceRow is one line of a CSV price list
type PriceRow struct {
	ID             string `csv:"id"`
	Product        string `csv:"product"`
	PlanID         string `csv:"plan_id"`
	Seat           int    `csv:"seat"`
	Month          int    `csv:"month"`
	Amount         string `csv:"amount"`
	OriginalAmount string `csv:"original_amount"`
	Currency       string `csv:"currency"`
}

func (r *PriceRow) toPrice() (*domainCatalog.Price, error) {
	product, err := types.ParseProductTier(r.Product)
	if err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return nil, fmt.Errorf("amount %q: %w", r.Amount, err)
	}
	original := amount
	if strings.TrimSpace(r.OriginalAmount) != "" {
		if original, err = decimal.NewFromString(r.OriginalAmount); err != nil {
			return nil, fmt.Errorf("original_amount %q: %w", r.OriginalAmount, err)
		}
	}
	return &domainCatalog.Price{
		ID:             r.ID,
		Product:        product,
		PlanID:         r.PlanID,
		Seat:           r.Seat,
		Month:          r.Month,
		Amount:         amount,
		OriginalAmount: original,
		Currency:       strings.ToUpper(r.Currency),
	}, nil
}

// PriceRowsOf converts prices into CSV rows keeping their order
func PriceRowsOf(prices []*domainCatalog.Price) []*PriceRow {
	return lo.Map(prices, func(p *domainCatalog.Price, _ int) *PriceRow {
		return &PriceRow{
			ID:             p.ID,
			Product:        p.Product.String(),
			PlanID:         p.PlanID,
			Seat:           p.Seat,
			Month:          p.Month,
			Amount:         p.Amount.String(),
			OriginalAmount: p.OriginalAmount.String(),
			Currency:       p.Currency,
		}
	})
}

// WritePricesCSV writes prices as a CSV price list with a header row
func WritePricesCSV(w io.Writer, prices []*domainCatalog.Price) error {
	if err := gocsv.Marshal(PriceRowsOf(prices), w); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to marshal prices to CSV").
			Mark(ierr.ErrInternal)
	}
	return nil
}

// decodePriceCSV groups the rows of prices.csv into one price list per
// product. List ids are the lower case product id.
func decodePriceCSV(file string, body []byte) ([]*domainCatalog.PriceList, error) {
	var rows []*PriceRow
	if err := gocsv.Unmarshal(bytes.NewReader(body), &rows); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Catalog document %s could not be decoded", file).
			WithReportableDetails(map[string]any{
				"file": file,
			}).
			Mark(ierr.ErrConfiguration)
	}

	byProduct := make(map[types.ProductTier]*domainCatalog.PriceList)
	var lists []*domainCatalog.PriceList
	for i, row := range rows {
		price, err := row.toPrice()
		if err != nil {
			// header is line 1
			return nil, ierr.WithError(err).
				WithHintf("Line %d of %s is not a valid price", i+2, file).
				WithReportableDetails(map[string]any{
					"file": file,
					"line": i + 2,
				}).
				Mark(ierr.ErrConfiguration)
		}
		list, ok := byProduct[price.Product]
		if !ok {
			list = &domainCatalog.PriceList{
				ID:      strings.ToLower(price.Product.String()),
				Product: price.Product,
			}
			byProduct[price.Product] = list
			lists = append(lists, list)
		}
		list.Prices = append(list.Prices, price)
	}
	return lists, nil
}
