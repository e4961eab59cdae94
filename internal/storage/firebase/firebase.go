// Package firebase persists trade decisions and external signals in a
// Firebase Realtime Database over its REST API, no service account
// needed. When the database is unreachable at construction the store
// permanently degrades to an in-process volatile backend so the rest of
// the pipeline keeps running, and callers can detect non-durable writes
// by the synthesized key prefix.
package firebase

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/VietCodeBug/TelegramBotForex/internal/domain"
)

// Mode identifies which backend a Store was constructed with.
type Mode string

const (
	ModeRemote Mode = "REMOTE"
	ModeLocal  Mode = "LOCAL"
)

// LocalKeyPrefix marks ids of records held only in process memory.
const LocalKeyPrefix = "local_"

// statsWindow bounds how many recent records feed an aggregate.
const statsWindow = 100

// backend is the storage variant behind a Store. Exactly one of the two
// implementations is picked at construction and never swapped.
type backend interface {
	saveTrade(ctx context.Context, rec domain.TradeRecord) (string, bool)
	patchTrade(ctx context.Context, id string, patch map[string]any) bool
	trades(ctx context.Context) []domain.TradeRecord

	saveSignal(ctx context.Context, sig domain.ExternalSignal) (string, bool)
	signal(ctx context.Context, id string) (domain.ExternalSignal, bool)
	patchSignal(ctx context.Context, id string, patch map[string]any) bool
	signals(ctx context.Context) []domain.ExternalSignal

	capital(ctx context.Context) (float64, bool)
	setCapital(ctx context.Context, v float64) bool
	setRisk(ctx context.Context, percent float64) bool

	appendLog(ctx context.Context, entry map[string]any)
}

// Store persists decisions and signals and serves read-side aggregates.
// Methods never return transport errors; a failed write is reported
// through the returned id (or lack of one) and a failed read yields an
// empty result.
type Store struct {
	mode    Mode
	backend backend
	logger  *zap.Logger
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source, used in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New probes the database once and constructs the store in REMOTE or
// LOCAL mode for its whole lifetime. There is no later promotion back
// to REMOTE.
func New(databaseURL, apiKey string, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	remote := newRemoteBackend(databaseURL, apiKey, logger)
	if remote.probe(context.Background()) {
		s.mode = ModeRemote
		s.backend = remote
		logger.Info("firebase connected", zap.String("mode", string(ModeRemote)))
	} else {
		s.mode = ModeLocal
		s.backend = newLocalBackend()
		logger.Warn("firebase unreachable, using volatile local storage",
			zap.String("mode", string(ModeLocal)))
	}

	return s
}

// Mode reports which backend the store was constructed with.
func (s *Store) Mode() Mode {
	return s.mode
}

// SaveSignal appends the decision as a trade record and returns its id.
// Local ids carry LocalKeyPrefix so callers can detect non-durability.
func (s *Store) SaveSignal(ctx context.Context, d domain.Decision, executed bool) string {
	rec := domain.NewTradeRecord(d, executed, s.now())

	id, ok := s.backend.saveTrade(ctx, rec)
	if !ok {
		s.logger.Warn("trade record not persisted", zap.String("action", d.Action))
		return ""
	}
	return id
}

// UpdateTradeResult closes a trade with its realized pnl. A no-op for
// local-synthesized ids, which are not individually addressable.
func (s *Store) UpdateTradeResult(ctx context.Context, id string, pnl float64, status string) {
	if id == "" || strings.HasPrefix(id, LocalKeyPrefix) {
		return
	}
	if status == "" {
		status = domain.TradeStatusClosed
	}

	s.backend.patchTrade(ctx, id, map[string]any{
		"pnl":       pnl,
		"status":    status,
		"closed_at": s.now().Format(time.RFC3339),
	})
}

// TradeHistory returns up to limit records, newest first. Unreachable
// storage yields an empty slice, never an error.
func (s *Store) TradeHistory(ctx context.Context, limit int) []domain.TradeRecord {
	recs := s.backend.trades(ctx)
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].Timestamp > recs[j].Timestamp
	})
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

// DailyStats aggregates today's trades from a bounded recent window.
func (s *Store) DailyStats(ctx context.Context) domain.DailyStats {
	today := s.now().Format("2006-01-02")

	var wins, losses, total int
	var pnl float64
	for _, t := range s.TradeHistory(ctx, statsWindow) {
		if !strings.HasPrefix(t.Timestamp, today) {
			continue
		}
		total++
		switch {
		case t.PnL > 0:
			wins++
		case t.PnL < 0:
			losses++
		}
		pnl += t.PnL
	}

	return domain.DailyStats{
		Date:        today,
		TotalTrades: total,
		Wins:        wins,
		Losses:      losses,
		WinRate:     domain.WinRate(wins, losses),
		PnL:         round(pnl, 2),
	}
}

// SaveExternalSignal appends a third-party signal, annotated with the
// model's verdict when one is supplied.
func (s *Store) SaveExternalSignal(ctx context.Context, sig domain.ExternalSignal, verdict *domain.SignalVerdict) string {
	if verdict != nil {
		sig.Annotate(*verdict)
	}
	if sig.Timestamp == "" {
		sig.Timestamp = s.now().Format(time.RFC3339)
	}
	if sig.Status == "" {
		sig.Status = domain.SignalStatusPending
	}

	id, ok := s.backend.saveSignal(ctx, sig)
	if !ok {
		s.logger.Warn("external signal not persisted", zap.String("source", sig.Source))
		return ""
	}
	return id
}

// UpdateSignalResult records the WIN/LOSS outcome of a signal. The
// PENDING to decided transition happens at most once: a signal whose
// outcome is already recorded is left untouched.
func (s *Store) UpdateSignalResult(ctx context.Context, id, result string, pips float64) {
	if id == "" || strings.HasPrefix(id, LocalKeyPrefix) {
		return
	}
	if result != domain.SignalStatusWin && result != domain.SignalStatusLoss {
		s.logger.Warn("rejecting invalid signal result", zap.String("result", result))
		return
	}

	if existing, ok := s.backend.signal(ctx, id); ok && existing.Decided() {
		s.logger.Debug("signal already decided, skipping update",
			zap.String("id", id),
			zap.String("status", existing.Status))
		return
	}

	s.backend.patchSignal(ctx, id, map[string]any{
		"status":      result,
		"pips_result": pips,
		"closed_at":   s.now().Format(time.RFC3339),
	})
}

// ExternalSignals returns up to limit signals, newest first, optionally
// filtered by source.
func (s *Store) ExternalSignals(ctx context.Context, source string, limit int) []domain.ExternalSignal {
	all := s.backend.signals(ctx)

	sigs := all[:0:0]
	for _, sig := range all {
		if source != "" && sig.Source != source {
			continue
		}
		sigs = append(sigs, sig)
	}

	sort.Slice(sigs, func(i, j int) bool {
		return sigs[i].Timestamp > sigs[j].Timestamp
	})
	if limit > 0 && len(sigs) > limit {
		sigs = sigs[:limit]
	}
	return sigs
}

// SignalStats aggregates signal outcomes over a bounded recent window.
func (s *Store) SignalStats(ctx context.Context, source string) domain.SignalStats {
	sigs := s.ExternalSignals(ctx, source, statsWindow)

	var stats domain.SignalStats
	stats.Total = len(sigs)
	for _, sig := range sigs {
		switch sig.Status {
		case domain.SignalStatusWin:
			stats.Wins++
		case domain.SignalStatusLoss:
			stats.Losses++
		case domain.SignalStatusPending:
			stats.Pending++
		}
		stats.TotalPips += sig.PipsResult
	}

	stats.WinRate = round(domain.WinRate(stats.Wins, stats.Losses), 1)
	stats.TotalPips = round(stats.TotalPips, 1)
	return stats
}

// Capital returns the configured account capital, defaulting to 100
// when nothing is stored or the backend is unreachable.
func (s *Store) Capital(ctx context.Context) float64 {
	if v, ok := s.backend.capital(ctx); ok {
		return v
	}
	return 100
}

// UpdateCapital stores the account capital at config/capital.
func (s *Store) UpdateCapital(ctx context.Context, v float64) {
	s.backend.setCapital(ctx, v)
}

// UpdateRisk stores the per-trade risk percentage at config/risk_percent.
func (s *Store) UpdateRisk(ctx context.Context, percent float64) {
	s.backend.setRisk(ctx, percent)
}

// LogEvent appends a diagnostic entry. Fire and forget: it never
// affects caller control flow.
func (s *Store) LogEvent(ctx context.Context, eventType, message string) {
	s.backend.appendLog(ctx, map[string]any{
		"timestamp": s.now().Format(time.RFC3339),
		"type":      eventType,
		"message":   message,
	})
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
