package collector

import (
	"context"
	"sort"
	"strconv"
	"time"

	bybit "github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/VietCodeBug/TelegramBotForex/internal/domain"
)

// BybitKlineProvider implements KlineProvider for Bybit spot via the V5 API.
type BybitKlineProvider struct {
	client *bybit.Client
}

// NewBybitKlineProvider creates a new Bybit kline provider.
func NewBybitKlineProvider(client *bybit.Client) *BybitKlineProvider {
	return &BybitKlineProvider{client: client}
}

var bybitIntervals = map[string]bybit.Interval{
	"1m":  bybit.Interval1,
	"3m":  bybit.Interval3,
	"5m":  bybit.Interval5,
	"15m": bybit.Interval15,
	"30m": bybit.Interval30,
	"1h":  bybit.Interval60,
	"2h":  bybit.Interval120,
	"4h":  bybit.Interval240,
	"1d":  bybit.IntervalD,
}

var intervalDurations = map[string]time.Duration{
	"1m":  time.Minute,
	"3m":  3 * time.Minute,
	"5m":  5 * time.Minute,
	"15m": 15 * time.Minute,
	"30m": 30 * time.Minute,
	"1h":  time.Hour,
	"2h":  2 * time.Hour,
	"4h":  4 * time.Hour,
	"1d":  24 * time.Hour,
}

// GetKlines fetches kline data from Bybit, oldest first. The V5 API
// returns newest first, so the list is re-sorted by open time.
func (p *BybitKlineProvider) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]domain.MarketCandle, error) {
	bybitInterval, ok := bybitIntervals[interval]
	if !ok {
		return nil, errors.Errorf("unsupported Bybit interval %q", interval)
	}

	resp, err := p.client.V5().Market().GetKline(bybit.V5GetKlineParam{
		Category: bybit.CategoryV5Spot,
		Symbol:   bybit.SymbolV5(symbol),
		Interval: bybitInterval,
		Limit:    &limit,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch klines from Bybit for %s", symbol)
	}

	dur := intervalDurations[interval]
	result := make([]domain.MarketCandle, 0, len(resp.Result.List))
	for i, k := range resp.Result.List {
		startMs, err := strconv.ParseInt(k.StartTime, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse start time at index %d", i)
		}
		open, err := decimal.NewFromString(k.Open)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse open price at index %d", i)
		}
		high, err := decimal.NewFromString(k.High)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse high price at index %d", i)
		}
		low, err := decimal.NewFromString(k.Low)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse low price at index %d", i)
		}
		close, err := decimal.NewFromString(k.Close)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse close price at index %d", i)
		}
		volume, err := decimal.NewFromString(k.Volume)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse volume at index %d", i)
		}

		openTime := time.Unix(0, startMs*int64(time.Millisecond))
		result = append(result, domain.MarketCandle{
			OpenTime:  openTime,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    volume,
			CloseTime: openTime.Add(dur),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].OpenTime.Before(result[j].OpenTime)
	})

	return result, nil
}
