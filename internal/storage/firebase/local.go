package firebase

import (
	"context"
	"fmt"
	"sync"

	"github.com/VietCodeBug/TelegramBotForex/internal/domain"
)

// localBackend is the volatile fallback used when the database is
// unreachable. Records live only for the process lifetime and keys
// carry LocalKeyPrefix so callers can tell they are not durable.
// Local records are append-only: they cannot be patched individually,
// which is why the store treats updates on local ids as no-ops.
type localBackend struct {
	mu          sync.Mutex
	tradeRecs   []domain.TradeRecord
	signalRecs  []domain.ExternalSignal
	capitalVal  float64
	riskPercent float64
}

func newLocalBackend() *localBackend {
	return &localBackend{capitalVal: 100}
}

func (l *localBackend) saveTrade(_ context.Context, rec domain.TradeRecord) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.tradeRecs = append(l.tradeRecs, rec)
	return fmt.Sprintf("%s%d", LocalKeyPrefix, len(l.tradeRecs)), true
}

func (l *localBackend) patchTrade(context.Context, string, map[string]any) bool {
	return false
}

func (l *localBackend) trades(context.Context) []domain.TradeRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.TradeRecord, len(l.tradeRecs))
	copy(out, l.tradeRecs)
	return out
}

func (l *localBackend) saveSignal(_ context.Context, sig domain.ExternalSignal) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sig.ID = fmt.Sprintf("%s%d", LocalKeyPrefix, len(l.signalRecs)+1)
	l.signalRecs = append(l.signalRecs, sig)
	return sig.ID, true
}

func (l *localBackend) signal(context.Context, string) (domain.ExternalSignal, bool) {
	return domain.ExternalSignal{}, false
}

func (l *localBackend) patchSignal(context.Context, string, map[string]any) bool {
	return false
}

func (l *localBackend) signals(context.Context) []domain.ExternalSignal {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.ExternalSignal, len(l.signalRecs))
	copy(out, l.signalRecs)
	return out
}

func (l *localBackend) capital(context.Context) (float64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.capitalVal, true
}

func (l *localBackend) setCapital(_ context.Context, v float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.capitalVal = v
	return true
}

func (l *localBackend) setRisk(_ context.Context, percent float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.riskPercent = percent
	return true
}

func (l *localBackend) appendLog(context.Context, map[string]any) {}
