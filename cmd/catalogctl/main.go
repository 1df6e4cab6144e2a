package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/flexprice/entitlement-engine/internal/cache"
	loader "github.com/flexprice/entitlement-engine/internal/catalog"
	"github.com/flexprice/entitlement-engine/internal/config"
	"github.com/flexprice/entitlement-engine/internal/domain/catalog"
	ierr "github.com/flexprice/entitlement-engine/internal/errors"
	"github.com/flexprice/entitlement-engine/internal/logger"
	"github.com/flexprice/entitlement-engine/internal/service"
	"github.com/flexprice/entitlement-engine/internal/types"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/fx"
)

type options struct {
	dir          string
	exportPrices string
	dumpDir      string
	dumpFormat   string
	output       string
	date         string
}

func main() {
	var opts options
	flag.StringVar(&opts.dir, "dir", "", "load the catalog from this directory instead of the configured source")
	flag.StringVar(&opts.exportPrices, "export-prices", "", "write the price list of a product (e.g. SILVER) as CSV to stdout")
	flag.StringVar(&opts.dumpDir, "dump", "", "write the loaded catalog documents into this directory")
	flag.StringVar(&opts.dumpFormat, "format", string(loader.FormatJSON), "document format used by -dump: json or yaml")
	flag.StringVar(&opts.output, "output", "text", "summary format: text or json")
	flag.StringVar(&opts.date, "date", "", "resolve the running event on this date (YYYY-MM-DD), defaults to today")
	flag.Parse()

	app := fx.New(
		fx.Supply(opts),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideStore,
			cache.Initialize,
		),
		service.Module,
		fx.Invoke(run),
		fx.NopLogger,
	)

	// invokes run while the graph is built
	if err := app.Err(); err != nil {
		exit(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		exit(err)
	}
	if err := app.Stop(ctx); err != nil {
		exit(err)
	}
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "catalogctl: %v\n", err)
	for _, hint := range ierr.GetHints(err) {
		fmt.Fprintf(os.Stderr, "  hint: %s\n", hint)
	}
	os.Exit(1)
}

func provideConfig(opts options) (*config.Configuration, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, err
	}
	if opts.dir != "" {
		cfg.Catalog.Source = types.CatalogSourceDir
		cfg.Catalog.Dir = opts.dir
	}
	return cfg, nil
}

func provideLogger(lc fx.Lifecycle, cfg *config.Configuration) (*logger.Logger, error) {
	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return log.Close()
		},
	})
	return log, nil
}

func provideStore(cfg *config.Configuration, log *logger.Logger) (*catalog.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return loader.NewStore(ctx, cfg, log)
}

type runParams struct {
	fx.In

	Options  options
	Config   *config.Configuration
	Logger   *logger.Logger
	Store    *catalog.Store
	Products service.ProductService
	Prices   service.PriceService
	Events   service.EventService
}

func run(p runParams) error {
	switch {
	case p.Options.exportPrices != "":
		return exportPrices(os.Stdout, p)
	case p.Options.dumpDir != "":
		if err := loader.Dump(p.Store.Load(), p.Options.dumpDir, loader.Format(p.Options.dumpFormat)); err != nil {
			return err
		}
		p.Logger.Infow("billing catalog dumped",
			"dir", p.Options.dumpDir,
			"format", p.Options.dumpFormat,
			"revision", p.Store.Load().Revision())
		return nil
	}

	s, err := summarize(p)
	if err != nil {
		return err
	}
	if p.Options.output == "json" {
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	return s.writeText(os.Stdout)
}

func exportPrices(w io.Writer, p runParams) error {
	product, err := types.ParseProductTier(p.Options.exportPrices)
	if err != nil {
		return err
	}
	prices, err := p.Prices.GetPriceList(product)
	if err != nil {
		return err
	}
	return loader.WritePricesCSV(w, prices)
}

type channelSummary struct {
	Channel     string `json:"channel"`
	FreeProduct string `json:"free_product"`
	FreePlan    string `json:"free_plan"`
}

type summary struct {
	Revision string           `json:"revision"`
	LoadedAt time.Time        `json:"loaded_at"`
	Counts   catalog.Summary  `json:"counts"`
	Channels []channelSummary `json:"channels"`
	Date     string           `json:"date"`
	Timezone string           `json:"timezone"`
	Event    *catalog.Event   `json:"event,omitempty"`
	Upcoming []*catalog.Event `json:"upcoming_events"`
	Prices   map[string]int   `json:"price_lists"`
}

func summarize(p runParams) (*summary, error) {
	snapshot := p.Store.Load()

	loc, err := types.LoadTimezone(p.Config.Catalog.Timezone)
	if err != nil {
		return nil, err
	}
	date := types.DateIn(time.Now(), loc)
	if p.Options.date != "" {
		if date, err = types.ParseDate(p.Options.date); err != nil {
			return nil, err
		}
	}

	s := &summary{
		Revision: snapshot.Revision(),
		LoadedAt: snapshot.LoadedAt(),
		Counts:   snapshot.Summary(),
		Date:     date.String(),
		Timezone: loc.String(),
		Prices:   map[string]int{},
	}

	for _, channel := range types.AllProductChannels() {
		product, err := p.Products.GetCurrentFreeProduct(channel)
		if err != nil {
			return nil, err
		}
		plan, err := p.Products.GetFreePlan(channel)
		if err != nil {
			return nil, err
		}
		s.Channels = append(s.Channels, channelSummary{
			Channel:     channel.String(),
			FreeProduct: product.ID.String(),
			FreePlan:    plan.ID,
		})
	}

	if event, ok := p.Events.GetEventOnEffectiveDate(date); ok {
		s.Event = event
	}
	upcoming, err := p.Events.GetEventsInRange(date, date.AddDays(90))
	if err != nil {
		return nil, err
	}
	s.Upcoming = upcoming

	for _, list := range snapshot.PriceLists() {
		prices, err := p.Prices.GetPriceList(list.Product)
		if err != nil {
			return nil, err
		}
		s.Prices[list.Product.String()] = len(prices)
	}
	return s, nil
}

func (s *summary) writeText(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "revision\t%s\n", s.Revision)
	fmt.Fprintf(w, "loaded at\t%s\n", s.LoadedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "products\t%d\n", s.Counts.Products)
	fmt.Fprintf(w, "plans\t%d\n", s.Counts.Plans)
	fmt.Fprintf(w, "prices\t%d in %d lists\n", s.Counts.Prices, s.Counts.PriceLists)
	fmt.Fprintf(w, "events\t%d\n", s.Counts.Events)
	fmt.Fprintf(w, "timezone\t%s\n", s.Timezone)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "CHANNEL\tFREE PRODUCT\tFREE PLAN")
	for _, c := range s.Channels {
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.Channel, c.FreeProduct, c.FreePlan)
	}
	fmt.Fprintln(w)

	if s.Event != nil {
		fmt.Fprintf(w, "event on %s\t%s (%s to %s)\n", s.Date, s.Event.ID, s.Event.StartDate, s.Event.EndDate)
	} else {
		fmt.Fprintf(w, "event on %s\tnone\n", s.Date)
	}
	for _, e := range s.Upcoming {
		fmt.Fprintf(w, "upcoming\t%s (%s to %s)\n", e.ID, e.StartDate, e.EndDate)
	}
	return w.Flush()
}
