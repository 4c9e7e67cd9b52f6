package collector

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/paaavkata/crypto-signal-feed/internal/selector"
	"github.com/paaavkata/crypto-signal-feed/pkg/gateio"
	"github.com/paaavkata/crypto-signal-feed/pkg/models"
	"github.com/paaavkata/crypto-signal-feed/pkg/utils"
)

// Exchange is the subset of the Gate.io client the fetcher needs.
type Exchange interface {
	GetTickers(ctx context.Context) ([]gateio.Ticker, error)
	GetCandlesticks(ctx context.Context, contract, interval string, limit int) ([]gateio.Candlestick, error)
}

type Fetcher struct {
	client   Exchange
	interval string
	limit    int
	topN     int
	suffix   string
	logger   *logrus.Logger
}

type Config struct {
	Interval       string
	Limit          int
	TopN           int
	ContractSuffix string
}

func NewFetcher(client Exchange, config Config, logger *logrus.Logger) *Fetcher {
	return &Fetcher{
		client:   client,
		interval: config.Interval,
		limit:    config.Limit,
		topN:     config.TopN,
		suffix:   strings.ToUpper(config.ContractSuffix),
		logger:   logger,
	}
}

// FetchTopContracts returns the TopN contracts ending in the configured suffix,
// ranked by 24h volume descending. Tickers with an unparseable volume rank last.
func (f *Fetcher) FetchTopContracts(ctx context.Context) ([]models.Contract, error) {
	start := time.Now()
	tickers, err := f.client.GetTickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tickers: %w", err)
	}

	contracts := make([]models.Contract, 0, len(tickers))
	volumes := make([]decimal.Decimal, 0, len(tickers))
	for _, ticker := range tickers {
		if !strings.HasSuffix(strings.ToUpper(ticker.Contract), f.suffix) {
			continue
		}

		volume := utils.ParseDecimalSafe(ticker.Volume24h)
		last := utils.ParseDecimalSafe(ticker.Last)
		contracts = append(contracts, models.Contract{
			Symbol:    ticker.Contract,
			Volume24h: volume.InexactFloat64(),
			LastPrice: last.InexactFloat64(),
		})
		volumes = append(volumes, volume)
	}

	sort.Stable(byVolume{contracts: contracts, volumes: volumes})

	if f.topN > 0 && len(contracts) > f.topN {
		contracts = contracts[:f.topN]
	}
	for i := range contracts {
		contracts[i].Rank = i + 1
	}

	f.logger.WithFields(logrus.Fields{
		"total_tickers": len(tickers),
		"matching":      len(volumes),
		"selected":      len(contracts),
		"suffix":        f.suffix,
		"duration_ms":   time.Since(start).Milliseconds(),
	}).Info("Selected top contracts by volume")

	return contracts, nil
}

// FetchCandles returns the raw bars for symbol in gateio.CandleLayout order.
func (f *Fetcher) FetchCandles(ctx context.Context, symbol string) ([]models.RawCandle, error) {
	candles, err := f.client.GetCandlesticks(ctx, symbol, f.interval, f.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candles for %s: %w", symbol, err)
	}

	raw := make([]models.RawCandle, len(candles))
	for i, c := range candles {
		raw[i] = c.Tuple()
	}
	return raw, nil
}

// Layout describes the tuples FetchCandles returns.
func (f *Fetcher) Layout() selector.CandleLayout {
	return selector.CandleLayout{Order: gateio.CandleOrder, Fields: gateio.CandleFields()}
}

type byVolume struct {
	contracts []models.Contract
	volumes   []decimal.Decimal
}

func (b byVolume) Len() int { return len(b.contracts) }

func (b byVolume) Less(i, j int) bool { return b.volumes[i].GreaterThan(b.volumes[j]) }

func (b byVolume) Swap(i, j int) {
	b.contracts[i], b.contracts[j] = b.contracts[j], b.contracts[i]
	b.volumes[i], b.volumes[j] = b.volumes[j], b.volumes[i]
}
