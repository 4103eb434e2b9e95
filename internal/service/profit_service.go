// internal/service/profit_service.go
package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/sellerops/profitkpi/internal/attribution"
	"github.com/sellerops/profitkpi/internal/cache"
	"github.com/sellerops/profitkpi/internal/channel"
	"github.com/sellerops/profitkpi/internal/config"
	"github.com/sellerops/profitkpi/internal/domain"
	"github.com/sellerops/profitkpi/internal/normalize"
	"github.com/sellerops/profitkpi/internal/sheet"
)

// SheetReader is the workbook collaborator. Sheets are selected by exact
// name first, falling back to the positional index.
type SheetReader interface {
	Sheet(name string, index int) ([]sheet.Row, string, error)
}

// Sheet roles inside the combined profit workbook. The positions are fixed
// by the workbook template; names take precedence when present.
type sheetRole struct {
	name  string
	index int
}

var (
	roleMerchOrder        = sheetRole{"Merch Order", 8}
	roleMerchSKU          = sheetRole{"Merch SKU", 9}
	roleEtsyOrder         = sheetRole{"Etsy Order", 10}
	roleEtsyStatement     = sheetRole{"Etsy Statement", 11}
	roleEtsyFulfillment   = sheetRole{"Etsy FFCost", 12}
	roleAmazonOrder       = sheetRole{"Amz Order", 14}
	roleAmazonStatement   = sheetRole{"Amz Transaction", 15}
	roleAmazonFulfillment = sheetRole{"Amz FFCost", 16}
	roleWebOrder          = sheetRole{"Web Order", 18}
	roleWebCost           = sheetRole{"Web Cost", 19}
	roleWebFulfillment    = sheetRole{"Web FFCost", 20}

	// Optional: present only in workbooks that track bonus tasks.
	roleCustomOrders = sheetRole{"Custom Order", -1}
)

var customOrderSchema = sheet.Schema{
	Name:    "custom orders",
	DateCol: "Date",
}

// ProfitService computes the monthly cross-channel aggregate from one
// combined workbook.
type ProfitService struct {
	fx     normalize.FXRates
	ledger bool
	cache  cache.ReportCache
}

func NewProfitService(cfg *config.Config, reportCache cache.ReportCache) *ProfitService {
	if reportCache == nil {
		reportCache = cache.NewNoopReportCache()
	}
	return &ProfitService{
		fx:     normalize.FXRates{CADPerUSD: cfg.FX.CADPerUSD, VNDPerUSD: cfg.FX.VNDPerUSD},
		ledger: cfg.App.EtsyLedgerMode,
		cache:  reportCache,
	}
}

// channelInput holds one channel's computation over sheets read up front, so
// the concurrent computations never touch the workbook files.
type channelInput struct {
	compute func() (domain.ChannelResult, error)
	readErr error
}

// MonthlyAggregate computes (or returns the cached) aggregate for one
// period. digest fingerprints the uploaded workbook; pass "" to bypass the
// cache.
func (s *ProfitService) MonthlyAggregate(ctx context.Context, wb SheetReader, month, year int, digest string) (*domain.Aggregate, error) {
	return s.MonthlyAggregateShops(ctx, wb, nil, month, year, digest)
}

// MonthlyAggregateShops computes the aggregate with additional per-shop Etsy
// workbooks folded into the Etsy channel result before the cross-channel
// merge. The four channel computations run concurrently; a failing channel
// is recorded as missing and the merge then rejects the whole report, so one
// bad sheet never produces a partial aggregate.
func (s *ProfitService) MonthlyAggregateShops(ctx context.Context, wb SheetReader, etsyShops []SheetReader, month, year int, digest string) (*domain.Aggregate, error) {
	if digest != "" {
		if agg, ok, err := s.cache.GetAggregate(ctx, month, year, digest); err != nil {
			log.Warn().Err(err).Msg("report cache read failed")
		} else if ok {
			log.Info().Int("month", month).Int("year", year).Msg("aggregate served from cache")
			return agg, nil
		}
	}

	custom := s.customOrders(wb, month, year)
	inputs := s.readChannels(wb, etsyShops, custom, month, year)

	type slot struct {
		result *domain.ChannelResult
		err    error
	}
	slots := make(map[domain.Channel]*slot, len(inputs))
	g, _ := errgroup.WithContext(ctx)

	for ch, in := range inputs {
		sl := &slot{err: in.readErr}
		slots[ch] = sl
		if in.readErr != nil {
			log.Error().Err(in.readErr).Str("channel", string(ch)).Msg("channel sheets unreadable")
			continue
		}
		compute := in.compute
		g.Go(func() error {
			result, err := compute()
			if err != nil {
				// Recorded as a missing channel; the merge rejects it below.
				sl.err = err
				log.Error().Err(err).Str("channel", string(ch)).Msg("channel computation failed")
				return nil
			}
			sl.result = &result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make(map[domain.Channel]*domain.ChannelResult, len(slots))
	for ch, sl := range slots {
		results[ch] = sl.result
	}

	agg, err := attribution.Merge(results, month, year)
	if err != nil {
		return nil, err
	}

	if digest != "" {
		if err := s.cache.SetAggregate(ctx, digest, agg); err != nil {
			log.Warn().Err(err).Msg("report cache write failed")
		}
	}
	return agg, nil
}

func (s *ProfitService) readChannels(wb SheetReader, etsyShops []SheetReader, custom []domain.CustomOrderRecord, month, year int) map[domain.Channel]channelInput {
	inputs := make(map[domain.Channel]channelInput, 4)

	attribute := func(records []domain.ProfitRecord, err error) (domain.ChannelResult, error) {
		if err != nil {
			return domain.ChannelResult{}, err
		}
		return attribution.Attribute(records, custom), nil
	}

	amzStatement, amzFF, amzOrder, err := readTriple(wb, roleAmazonStatement, roleAmazonFulfillment, roleAmazonOrder)
	inputs[domain.ChannelAmazon] = channelInput{readErr: err, compute: func() (domain.ChannelResult, error) {
		return attribute(channel.Amazon(amzStatement, amzFF, amzOrder, month, year))
	}}

	// Etsy may span several shop workbooks: the combined workbook's sheets
	// plus one triple per extra shop, each attributed on its own and then
	// pre-merged into a single channel result.
	type etsySheets struct {
		statement, fulfillment, orders []sheet.Row
	}
	shops := make([]etsySheets, 0, 1+len(etsyShops))
	etsyStatement, etsyFF, etsyOrder, err := readTriple(wb, roleEtsyStatement, roleEtsyFulfillment, roleEtsyOrder)
	shops = append(shops, etsySheets{etsyStatement, etsyFF, etsyOrder})
	for _, shop := range etsyShops {
		if err != nil {
			break
		}
		var st, ff, ord []sheet.Row
		st, ff, ord, err = readTriple(shop, roleEtsyStatement, roleEtsyFulfillment, roleEtsyOrder)
		shops = append(shops, etsySheets{st, ff, ord})
	}
	inputs[domain.ChannelEtsy] = channelInput{readErr: err, compute: func() (domain.ChannelResult, error) {
		results := make([]domain.ChannelResult, 0, len(shops))
		for _, sh := range shops {
			res, err := attribute(channel.Etsy(sh.statement, sh.fulfillment, sh.orders, month, year, s.fx, s.ledger))
			if err != nil {
				return domain.ChannelResult{}, err
			}
			results = append(results, res)
		}
		return attribution.MergeShops(results), nil
	}}

	webOrder, webCost, webFF, err := readTriple(wb, roleWebOrder, roleWebCost, roleWebFulfillment)
	inputs[domain.ChannelWeb] = channelInput{readErr: err, compute: func() (domain.ChannelResult, error) {
		return attribute(channel.Web(webOrder, webCost, webFF, month, year))
	}}

	merchOrder, merchSKU, err := readPair(wb, roleMerchOrder, roleMerchSKU)
	inputs[domain.ChannelMerch] = channelInput{readErr: err, compute: func() (domain.ChannelResult, error) {
		return attribute(channel.Merch(merchOrder, merchSKU, month, year))
	}}

	return inputs
}

// customOrders reads the optional bonus-task sheet. Workbooks without it are
// the norm, so a lookup failure just disables the doubling rule.
func (s *ProfitService) customOrders(wb SheetReader, month, year int) []domain.CustomOrderRecord {
	rows, _, err := wb.Sheet(roleCustomOrders.name, roleCustomOrders.index)
	if err != nil || len(rows) == 0 {
		return nil
	}

	valid, _, err := sheet.Filter(rows, customOrderSchema, month, year)
	if err != nil {
		return nil
	}

	records := make([]domain.CustomOrderRecord, 0, len(valid))
	for _, r := range valid {
		date := r.Date
		records = append(records, domain.CustomOrderRecord{
			Date:       &date,
			TaskName:   r.Get("Task Name"),
			DesignerID: domain.NormalizeID(r.Get("Designer ID")),
			OrderID:    r.Get("Order ID"),
		})
	}
	log.Info().Int("count", len(records)).Msg("custom order records loaded")
	return records
}

func readRole(wb SheetReader, role sheetRole) ([]sheet.Row, error) {
	rows, name, err := wb.Sheet(role.name, role.index)
	if err != nil {
		return nil, fmt.Errorf("sheet %q (index %d): %w", role.name, role.index, err)
	}
	log.Debug().Str("role", role.name).Str("sheet", name).Int("rows", len(rows)).Msg("sheet read")
	return rows, nil
}

func readPair(wb SheetReader, a, b sheetRole) ([]sheet.Row, []sheet.Row, error) {
	ra, err := readRole(wb, a)
	if err != nil {
		return nil, nil, err
	}
	rb, err := readRole(wb, b)
	if err != nil {
		return nil, nil, err
	}
	return ra, rb, nil
}

func readTriple(wb SheetReader, a, b, c sheetRole) ([]sheet.Row, []sheet.Row, []sheet.Row, error) {
	ra, rb, err := readPair(wb, a, b)
	if err != nil {
		return nil, nil, nil, err
	}
	rc, err := readRole(wb, c)
	if err != nil {
		return nil, nil, nil, err
	}
	return ra, rb, rc, nil
}
