// Package indicators implements the technical indicator engine. It derives
// RSI, EMA, ATR, MACD and Bollinger columns from OHLCV candles using the
// cinar/indicator library, with a manual arithmetic fallback backend, and
// classifies the latest readings into trend/momentum labels.
package indicators

import (
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/VietCodeBug/TelegramBotForex/internal/domain"
)

// Backend selects the numeric implementation. It is resolved once at
// process start and passed in, never probed per call.
type Backend int

const (
	// BackendCinar computes indicators with the cinar/indicator library.
	BackendCinar Backend = iota
	// BackendManual computes RSI/EMA/ATR with plain arithmetic. MACD and
	// Bollinger columns stay empty on this backend.
	BackendManual
)

func (b Backend) String() string {
	if b == BackendManual {
		return "manual"
	}
	return "cinar"
}

// ResolveBackend maps a configured backend name to a Backend value,
// defaulting to the library backend for anything unrecognized.
func ResolveBackend(name string) Backend {
	if strings.EqualFold(strings.TrimSpace(name), "manual") {
		return BackendManual
	}
	return BackendCinar
}

// Params holds indicator periods.
type Params struct {
	RSIPeriod int
	EMAFast   int
	EMASlow   int
	ATRPeriod int
	BBPeriod  int
}

// DefaultParams returns the standard configuration: RSI 14, EMA 50/200,
// ATR 14, Bollinger 20.
func DefaultParams() Params {
	return Params{
		RSIPeriod: 14,
		EMAFast:   50,
		EMASlow:   200,
		ATRPeriod: 14,
		BBPeriod:  20,
	}
}

// Series is the input candle table augmented with indicator columns.
// Every column has the same length as Candles; entries are nil while the
// indicator is still warming up or the backend does not provide it.
type Series struct {
	Candles []domain.MarketCandle

	RSI        []*decimal.Decimal
	EMAFast    []*decimal.Decimal
	EMASlow    []*decimal.Decimal
	ATR        []*decimal.Decimal
	MACD       []*decimal.Decimal
	MACDSignal []*decimal.Decimal
	MACDHist   []*decimal.Decimal
	BBUpper    []*decimal.Decimal
	BBMiddle   []*decimal.Decimal
	BBLower    []*decimal.Decimal
}

// Engine computes indicator series with the backend chosen at construction.
type Engine struct {
	backend Backend
	params  Params
	logger  *zap.Logger
}

// NewEngine creates an indicator engine. The backend is fixed for the
// lifetime of the engine.
func NewEngine(backend Backend, params Params, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{backend: backend, params: params, logger: logger}
}

// Backend reports the numeric backend in use.
func (e *Engine) Backend() Backend {
	return e.backend
}

// Calculate augments the candle table with indicator columns. It is a pure
// function of its input: the same candles and params always produce the
// same series. Insufficient history leaves columns nil rather than failing.
func (e *Engine) Calculate(candles []domain.MarketCandle) Series {
	s := Series{
		Candles:    candles,
		RSI:        emptyColumn(len(candles)),
		EMAFast:    emptyColumn(len(candles)),
		EMASlow:    emptyColumn(len(candles)),
		ATR:        emptyColumn(len(candles)),
		MACD:       emptyColumn(len(candles)),
		MACDSignal: emptyColumn(len(candles)),
		MACDHist:   emptyColumn(len(candles)),
		BBUpper:    emptyColumn(len(candles)),
		BBMiddle:   emptyColumn(len(candles)),
		BBLower:    emptyColumn(len(candles)),
	}

	if len(candles) == 0 {
		return s
	}

	switch e.backend {
	case BackendManual:
		e.calculateManual(&s)
	default:
		e.calculateCinar(&s)
	}

	return s
}

// Last returns the final value of a column, nil when absent.
func Last(column []*decimal.Decimal) *decimal.Decimal {
	if len(column) == 0 {
		return nil
	}
	return column[len(column)-1]
}

// Prev returns the next-to-last value of a column, nil when absent.
func Prev(column []*decimal.Decimal) *decimal.Decimal {
	if len(column) < 2 {
		return nil
	}
	return column[len(column)-2]
}

func emptyColumn(n int) []*decimal.Decimal {
	return make([]*decimal.Decimal, n)
}

// fillTail writes values into the tail of a column, leaving the warmup
// prefix nil.
func fillTail(column []*decimal.Decimal, values []float64) {
	offset := len(column) - len(values)
	if offset < 0 {
		// backend returned more points than candles, keep the newest
		values = values[len(values)-len(column):]
		offset = 0
	}
	for i, v := range values {
		d := decimal.NewFromFloat(v)
		column[offset+i] = &d
	}
}
